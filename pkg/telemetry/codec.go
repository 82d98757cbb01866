package telemetry

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
	"gonum.org/v1/gonum/num/quat"

	record "github.com/open-fieldtrack/controller/pkg/flatbuffers/fieldtrack/record"
	"github.com/open-fieldtrack/controller/pkg/geometry"
)

// EncodePoseRecord serializes a per-type channel record: the full 3D poses of
// every object on the channel.
func EncodePoseRecord(path string, timestampNs int64, poses []geometry.Pose3D) []byte {
	builder := flatbuffers.NewBuilder(64 + 56*len(poses))
	pathOffset := builder.CreateString(path)

	record.PoseRecordStartPosesVector(builder, len(poses))
	// Struct vectors are written back to front.
	for i := len(poses) - 1; i >= 0; i-- {
		pose := poses[i]
		q := pose.Rotation.Quaternion()
		record.CreatePose3d(builder,
			pose.Translation.X, pose.Translation.Y, pose.Translation.Z,
			q.Real, q.Imag, q.Jmag, q.Kmag)
	}
	posesOffset := builder.EndVector(len(poses))

	record.PoseRecordStart(builder)
	record.PoseRecordAddPath(builder, pathOffset)
	record.PoseRecordAddTimestampNs(builder, timestampNs)
	record.PoseRecordAddPoses(builder, posesOffset)
	builder.Finish(record.PoseRecordEnd(builder))
	return builder.FinishedBytes()
}

// EncodePose2DRecord serializes a planar record, used for the robot channel.
func EncodePose2DRecord(path string, timestampNs int64, pose geometry.Pose2D) []byte {
	builder := flatbuffers.NewBuilder(128)
	pathOffset := builder.CreateString(path)

	record.PoseRecordStart(builder)
	record.PoseRecordAddPath(builder, pathOffset)
	record.PoseRecordAddTimestampNs(builder, timestampNs)
	poseOffset := record.CreatePose2d(builder, pose.X, pose.Y, pose.Theta)
	record.PoseRecordAddPose2d(builder, poseOffset)
	builder.Finish(record.PoseRecordEnd(builder))
	return builder.FinishedBytes()
}

// DecodedRecord is the in-memory form of a PoseRecord payload. Exactly one of
// Poses and Pose2D carries data, matching the two record kinds the registry
// emits.
type DecodedRecord struct {
	Path        string
	TimestampNs int64
	Poses       []geometry.Pose3D
	Pose2D      *geometry.Pose2D
}

// DecodePoseRecord parses a PoseRecord payload produced by the encoders above
// (or by an external producer such as a vision process).
func DecodePoseRecord(payload []byte) (*DecodedRecord, error) {
	if len(payload) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("pose record payload too short: %d bytes", len(payload))
	}

	rec := record.GetRootAsPoseRecord(payload, 0)
	decoded := &DecodedRecord{
		Path:        string(rec.Path()),
		TimestampNs: rec.TimestampNs(),
	}
	if decoded.Path == "" {
		return nil, fmt.Errorf("pose record has no channel path")
	}

	var raw record.Pose3d
	for j := 0; j < rec.PosesLength(); j++ {
		if !rec.Poses(&raw, j) {
			continue
		}
		decoded.Poses = append(decoded.Poses, geometry.Pose3D{
			Translation: geometry.Translation3D{X: raw.X(), Y: raw.Y(), Z: raw.Z()},
			Rotation: geometry.NewRotation3DFromQuaternion(quat.Number{
				Real: raw.Qw(), Imag: raw.Qx(), Jmag: raw.Qy(), Kmag: raw.Qz(),
			}),
		})
	}

	if planar := rec.Pose2d(nil); planar != nil {
		decoded.Pose2D = &geometry.Pose2D{X: planar.X(), Y: planar.Y(), Theta: planar.Theta()}
	}
	return decoded, nil
}
