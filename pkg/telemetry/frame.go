package telemetry

// PoseMsg is the JSON wire form of a planar pose.
type PoseMsg struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// FieldFrame is one dashboard update: the latest planar poses of every object
// layer plus the primary robot, stamped with a monotonically increasing
// sequence number. A layer with an empty pose list is an explicit "nothing of
// this type on the field" and must clear the layer on the client.
type FieldFrame struct {
	Seq     uint64               `json:"seq"`
	Robot   PoseMsg              `json:"robot"`
	Objects map[string][]PoseMsg `json:"objects"`
}

// clone deep-copies the frame so subscribers and snapshots are unaffected by
// later mutation.
func (f FieldFrame) clone() FieldFrame {
	objects := make(map[string][]PoseMsg, len(f.Objects))
	for channel, poses := range f.Objects {
		copied := make([]PoseMsg, len(poses))
		copy(copied, poses)
		objects[channel] = copied
	}
	return FieldFrame{Seq: f.Seq, Robot: f.Robot, Objects: objects}
}
