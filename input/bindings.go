package input

import "github.com/oomph-ac/grasp/hand"

// Bindings maps the actions of a holder to controller buttons. hand.ButtonNone disables an action.
type Bindings struct {
	Grip        hand.Button `yaml:"grip" mapstructure:"grip"`
	ReleaseGrip hand.Button `yaml:"releaseGrip" mapstructure:"releaseGrip"`
	Trigger     hand.Button `yaml:"trigger" mapstructure:"trigger"`
	OpenBarrel  hand.Button `yaml:"openBarrel" mapstructure:"openBarrel"`
	CloseBarrel hand.Button `yaml:"closeBarrel" mapstructure:"closeBarrel"`

	// GripAutoHolds turns hold-to-carry into toggle-to-carry: a grip press picks an object up and it stays
	// in hand until ReleaseGrip is pressed.
	GripAutoHolds bool `yaml:"gripAutoHolds" mapstructure:"gripAutoHolds"`
}

// DefaultBindings returns hold-to-carry bindings on the grip button with firing on the trigger.
func DefaultBindings() Bindings {
	return Bindings{
		Grip:        hand.ButtonGrip,
		ReleaseGrip: hand.ButtonNone,
		Trigger:     hand.ButtonTrigger,
		OpenBarrel:  hand.ButtonNone,
		CloseBarrel: hand.ButtonNone,
	}
}
