// Package grasp composes a VR hand rig: a device backend, the per-hand input state, the hand arbiter, the
// haptic scheduler and the grabbables that compete for the hands, all advanced together by Tick.
package grasp

import (
	"sync"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/grasp/arbiter"
	"github.com/oomph-ac/grasp/assert"
	"github.com/oomph-ac/grasp/device"
	"github.com/oomph-ac/grasp/grab"
	"github.com/oomph-ac/grasp/haptic"
	"github.com/oomph-ac/grasp/input"
	"github.com/oomph-ac/grasp/oerror"
	"github.com/sirupsen/logrus"
)

// Stepper advances a physics simulation. It is stepped after every grabbable has been updated, so that
// released grabbables move on the same tick they were let go of.
type Stepper interface {
	Step(dt time.Duration)
}

// Options configure a Rig.
type Options struct {
	// HapticPolicy decides how overlapping rumbles on the same hand combine.
	HapticPolicy haptic.Policy
	// RumbleStrength is the strength of rumbles fired through controllers created by the rig. Zero mutes
	// them.
	RumbleStrength float64
	// Physics is stepped at the end of every tick. It may be nil.
	Physics Stepper
}

// DefaultOptions returns concurrent rumbles at haptic.DefaultStrength without physics.
func DefaultOptions() Options {
	return Options{HapticPolicy: haptic.Concurrent, RumbleStrength: haptic.DefaultStrength}
}

// Rig represents a single VR player: its two hands and everything that can be grabbed by them.
type Rig struct {
	log *logrus.Logger

	mu       sync.Mutex
	backend  device.Backend
	state    *input.State
	arb      *arbiter.Arbiter
	haptics  *haptic.Scheduler
	physics  Stepper
	strength float64

	now        time.Duration
	grabbables *orderedmap.OrderedMap[string, *grab.Grabbable]
}

// New returns a new rig reading from the backend passed.
func New(log *logrus.Logger, backend device.Backend, opts Options) (*Rig, error) {
	assert.IsTrue(backend != nil, "rig needs a device backend")
	arb, err := arbiter.New(log)
	if err != nil {
		return nil, err
	}
	return &Rig{
		log:        log,
		backend:    backend,
		state:      input.NewState(backend),
		arb:        arb,
		haptics:    haptic.NewScheduler(log, backend, opts.HapticPolicy),
		physics:    opts.Physics,
		strength:   opts.RumbleStrength,
		grabbables: orderedmap.NewOrderedMap[string, *grab.Grabbable](),
	}, nil
}

// NewController returns an input controller reading the hands of the rig with the bindings passed.
func (r *Rig) NewController(bindings input.Bindings) *input.Controller {
	c := input.NewController(r.state, r.haptics, bindings)
	c.RumbleStrength = r.strength
	return c
}

// Spawn creates a grabbable with its own controller and adds it to the rig.
func (r *Rig) Spawn(conf grab.Config, transform grab.Transform, body grab.Body, outline grab.Outline) (*grab.Grabbable, error) {
	g, err := grab.New(r.log, conf, r.NewController(conf.Bindings), transform, body, outline)
	if err != nil {
		return nil, err
	}
	if err := r.Add(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Add adds a grabbable to the rig. Grabbables are updated in the order they were added. An error is
// returned if a grabbable with the same name was already added.
func (r *Rig) Add(g *grab.Grabbable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.grabbables.Get(g.Name()); ok {
		return oerror.New("grabbable %q already added", g.Name())
	}
	if g.Controller().State() != r.state {
		return oerror.New("grabbable %q reads a different input state", g.Name())
	}
	if err := r.arb.Register(g); err != nil {
		return err
	}
	r.grabbables.Set(g.Name(), g)
	r.log.WithField("grabbable", g.Name()).Debug("added grabbable")
	return nil
}

// Remove drops and removes the grabbable with the name passed. It returns false if no such grabbable exists.
func (r *Rig) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.grabbables.Get(name)
	if !ok {
		return false
	}
	g.Drop(r.arb)
	r.arb.Unregister(g.ID())
	r.grabbables.Delete(name)
	return true
}

// Grabbable returns the grabbable with the name passed.
func (r *Rig) Grabbable(name string) (*grab.Grabbable, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.grabbables.Get(name)
}

// Grabbables returns all grabbables of the rig in update order.
func (r *Rig) Grabbables() []*grab.Grabbable {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]*grab.Grabbable, 0, r.grabbables.Len())
	for el := r.grabbables.Front(); el != nil; el = el.Next() {
		list = append(list, el.Value)
	}
	return list
}

// Tick advances the rig by dt. The backend is sampled once, then every grabbable is updated against the
// same input, after which physics and haptics are stepped.
func (r *Rig) Tick(dt time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.Update(dt)
	r.now += dt
	r.arb.BeginTick(r.state)

	f := grab.Frame{Now: r.now, Delta: dt, Arbiter: r.arb}
	for el := r.grabbables.Front(); el != nil; el = el.Next() {
		el.Value.Update(f)
	}
	if r.physics != nil {
		r.physics.Step(dt)
	}
	r.haptics.Tick(dt)
}

// Now returns the time the rig has been ticked for.
func (r *Rig) Now() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now
}

// Input returns the input state shared by all controllers of the rig.
func (r *Rig) Input() *input.State {
	return r.state
}

// Arbiter returns the hand arbiter of the rig.
func (r *Rig) Arbiter() *arbiter.Arbiter {
	return r.arb
}

// Haptics returns the haptic scheduler of the rig.
func (r *Rig) Haptics() *haptic.Scheduler {
	return r.haptics
}

// Close drops everything held, cancels all rumbles and removes all grabbables.
func (r *Rig) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for el := r.grabbables.Front(); el != nil; el = el.Next() {
		el.Value.Drop(r.arb)
	}
	r.grabbables = orderedmap.NewOrderedMap[string, *grab.Grabbable]()
	r.arb.Reset()
	r.haptics.Close()
}
