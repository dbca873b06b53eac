package grab

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/input"
	"github.com/oomph-ac/grasp/oerror"
	"github.com/oomph-ac/grasp/omath"
)

// Config holds the tuning of a grabbable.
type Config struct {
	// Name identifies the grabbable. It must be unique within a rig.
	Name string `yaml:"name" mapstructure:"name"`
	// GrabDistance is the maximum distance between a hand and the grabbable for it to be picked up.
	GrabDistance float64 `yaml:"grabDistance" mapstructure:"grabDistance"`
	// ShouldFly makes the grabbable animate into the hand over FlyTime instead of snapping to it.
	ShouldFly bool `yaml:"shouldFly" mapstructure:"shouldFly"`
	// FlyTime is the duration of the fly-in animation.
	FlyTime time.Duration `yaml:"flyTime" mapstructure:"flyTime"`

	Bindings input.Bindings `yaml:"bindings" mapstructure:"bindings"`
	Kick     KickConfig     `yaml:"kick" mapstructure:"kick"`
}

// DefaultConfig returns the configuration of a grabbable with the name passed.
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		GrabDistance: 1,
		ShouldFly:    true,
		FlyTime:      2 * time.Second,
		Bindings:     input.DefaultBindings(),
		Kick:         DefaultKickConfig(),
	}
}

// Validate checks that the configuration can drive a grabbable.
func (c Config) Validate() error {
	switch {
	case c.Name == "":
		return oerror.New("grabbable needs a name")
	case !(c.GrabDistance > 0) || math.IsInf(c.GrabDistance, 0):
		return oerror.New("grabbable %q: grab distance must be a positive finite number, got %v", c.Name, c.GrabDistance)
	case c.ShouldFly && c.FlyTime <= 0:
		return oerror.New("grabbable %q: fly time must be positive when flying is enabled, got %v", c.Name, c.FlyTime)
	}
	if err := c.Kick.Validate(); err != nil {
		return oerror.New("grabbable %q: %v", c.Name, err)
	}
	return nil
}

// KickConfig tunes the recoil offset applied by Grabbable.Kick.
type KickConfig struct {
	// MaxDuration ends a kick that has not settled after this long.
	MaxDuration time.Duration `yaml:"maxDuration" mapstructure:"maxDuration"`
	// MinAngle ends a kick once the offset is within this many degrees of the hand rotation.
	MinAngle float64 `yaml:"minAngle" mapstructure:"minAngle"`
	// Decay is the fraction of the remaining offset removed on each tick.
	Decay float64 `yaml:"decay" mapstructure:"decay"`
	// TimeScaled makes Decay apply per tick at ReferenceRate, so that the kick settles in the same time at
	// any tick rate. Without it the decay is applied once per tick regardless of tick length.
	TimeScaled bool `yaml:"timeScaled" mapstructure:"timeScaled"`
	// ReferenceRate is the tick rate, in Hz, at which Decay was tuned.
	ReferenceRate float64 `yaml:"referenceRate" mapstructure:"referenceRate"`
}

// DefaultKickConfig ...
func DefaultKickConfig() KickConfig {
	return KickConfig{
		MaxDuration:   time.Second,
		MinAngle:      0.25,
		Decay:         0.05,
		ReferenceRate: 90,
	}
}

// Validate ...
func (k KickConfig) Validate() error {
	switch {
	case k.Decay <= 0 || k.Decay > 1:
		return oerror.New("kick decay must be in (0, 1], got %v", k.Decay)
	case k.MinAngle < 0:
		return oerror.New("kick min angle must not be negative, got %v", k.MinAngle)
	case k.MaxDuration <= 0:
		return oerror.New("kick max duration must be positive, got %v", k.MaxDuration)
	case k.TimeScaled && k.ReferenceRate <= 0:
		return oerror.New("kick reference rate must be positive when time scaled, got %v", k.ReferenceRate)
	}
	return nil
}

// offset returns the initial kick rotation for force: a tilt about the lateral axis, at most 90 degrees,
// growing with force.
func (k KickConfig) offset(force float64) mgl64.Quat {
	up := omath.AngleAxis(-90, omath.Right)
	return omath.RotateTowards(mgl64.QuatIdent(), up, max(force, 0))
}

// factor returns the interpolation factor towards identity for a tick of length dt.
func (k KickConfig) factor(dt time.Duration) float64 {
	if !k.TimeScaled {
		return k.Decay
	}
	ticks := dt.Seconds() * k.ReferenceRate
	return 1 - math.Pow(1-k.Decay, ticks)
}

// decay moves offset towards identity by a single tick of length dt.
func (k KickConfig) decay(offset mgl64.Quat, dt time.Duration) mgl64.Quat {
	return omath.QuatLerp(offset, mgl64.QuatIdent(), k.factor(dt))
}

// settled returns true if a kick with the offset passed, started elapsed ago, is over.
func (k KickConfig) settled(offset mgl64.Quat, elapsed time.Duration) bool {
	return angleFromIdentity(offset) < k.MinAngle || elapsed > k.MaxDuration
}

func angleFromIdentity(q mgl64.Quat) float64 {
	return omath.QuatAngle(q, mgl64.QuatIdent())
}
