// Package scene loads the grabbables of a rig from a YAML document.
package scene

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/grab"
	"github.com/oomph-ac/grasp/hand"
	"github.com/oomph-ac/grasp/oerror"
	"gopkg.in/yaml.v3"
)

// Scene is a set of grabbables placed in the world.
type Scene struct {
	Grabbables []Entry `yaml:"grabbables"`
}

// Entry is a single grabbable of a scene. Fields left out of the document keep the values of
// grab.DefaultConfig.
type Entry struct {
	grab.Config `yaml:",inline"`

	// Position is the world position the grabbable starts at.
	Position mgl64.Vec3 `yaml:"position"`
	// Rotation is the starting rotation as Euler angles in degrees, applied in X, Y, Z order.
	Rotation mgl64.Vec3 `yaml:"rotation"`
}

// UnmarshalYAML decodes an entry on top of the default grabbable configuration.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	type plain Entry
	p := plain{Config: grab.DefaultConfig("")}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = Entry(p)
	return nil
}

// Orientation returns the starting rotation of the entry as a quaternion.
func (e Entry) Orientation() mgl64.Quat {
	r := e.Rotation
	return mgl64.AnglesToQuat(mgl64.DegToRad(r[0]), mgl64.DegToRad(r[1]), mgl64.DegToRad(r[2]), mgl64.XYZ)
}

// Load reads and validates the scene file at path.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening scene: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Parse decodes and validates a scene from data.
func Parse(data []byte) (*Scene, error) {
	return Decode(bytes.NewReader(data))
}

// Decode decodes and validates a scene read from r. Unknown fields are rejected.
func Decode(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	s := &Scene{}
	if err := dec.Decode(s); err != nil && err != io.EOF {
		return nil, fmt.Errorf("error decoding scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every grabbable configuration and that no two grabbables share a name.
func (s *Scene) Validate() error {
	seen := make(map[string]struct{}, len(s.Grabbables))
	for i, e := range s.Grabbables {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("grabbable #%d: %w", i, err)
		}
		if _, ok := seen[e.Name]; ok {
			return oerror.New("duplicate grabbable %q", e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

// Default returns the scene used when no scene file is configured: a revolver on a table within reach of
// the right hand and a crate on the floor.
func Default() *Scene {
	revolver := grab.DefaultConfig("revolver")
	revolver.GrabDistance = 0.5
	revolver.FlyTime = 300 * time.Millisecond

	crate := grab.DefaultConfig("crate")
	crate.ShouldFly = false
	crate.Bindings.GripAutoHolds = true
	crate.Bindings.ReleaseGrip = hand.ButtonA

	return &Scene{Grabbables: []Entry{
		{Config: revolver, Position: mgl64.Vec3{0.3, 1, 0.4}},
		{Config: crate, Position: mgl64.Vec3{-0.5, 0, 0.6}, Rotation: mgl64.Vec3{0, 45, 0}},
	}}
}
