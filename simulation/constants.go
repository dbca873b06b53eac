package simulation

const (
	// Gravity is the downward acceleration applied to free bodies, in m/s².
	Gravity = 9.81
	// AirDrag is the fraction of linear velocity kept after one second in the air.
	AirDrag = 0.9
	// AngularDrag is the fraction of angular velocity kept after one second.
	AngularDrag = 0.5
	// FloorFriction is the fraction of horizontal velocity kept by a body resting on the floor after one
	// second.
	FloorFriction = 0.1
	// Restitution is the fraction of speed kept along the axis of a wall a body bounces off.
	Restitution = 0.3
	// RestSpeed is the speed under which a body touching the floor stops bouncing.
	RestSpeed = 0.05
)
