package api

// --- Data Structures for WebSocket and REST Messages ---

// Vector3 defines a standard 3D vector.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// TwistMsg represents a command velocity message, matching geometry_msgs/Twist.
type TwistMsg struct {
	Linear  Vector3 `json:"linear"`
	Angular Vector3 `json:"angular"`
}

// ObservationMsg carries vision-detected planar poses for one object type.
type ObservationMsg struct {
	Type  string    `json:"type"`
	Poses []Pose2DM `json:"poses"`
}

// Pose2DM is a planar pose on the wire.
type Pose2DM struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}
