// Package arbiter owns the process-wide hand slots: which candidate holds each hand, and which free
// candidate is currently nearest to it. Every grabbable is handed the same Arbiter on each tick.
package arbiter

import (
	"context"
	"fmt"
	"math"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/hand"
	"github.com/oomph-ac/grasp/oerror"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Candidate is an object that can hold a hand.
type Candidate interface {
	// ID returns a stable identifier unique within the arbiter.
	ID() uint64
	// Name returns a human readable name used in logs.
	Name() string
	// Position returns the current world position of the candidate.
	Position() mgl64.Vec3
	// GrabDistance returns the maximum hand distance at which the candidate can be grabbed.
	GrabDistance() float64
	// Held returns true while the candidate is attached to a hand.
	Held() bool
}

// Locator measures the distance from a hand to a point. Disconnected hands report +Inf.
type Locator interface {
	Distance(h hand.Hand, pos mgl64.Vec3) float64
}

// slot is the state of a single hand.
type slot struct {
	// owner is the candidate bound to the hand, if any.
	owner Candidate
	// nearest is the free candidate closest to the hand among those evaluated so far.
	nearest Candidate
	// nearestDistance backs nearest and is +Inf while nearest is nil.
	nearestDistance float64
}

func emptySlot() slot {
	return slot{nearestDistance: math.Inf(1)}
}

// Arbiter arbitrates hand ownership between candidates. It is not safe for concurrent use: the rig
// evaluates all candidates sequentially within a tick and relies on that ordering.
type Arbiter struct {
	log *logrus.Logger

	slots      [2]slot
	candidates *orderedmap.OrderedMap[uint64, Candidate]

	claims    metric.Int64Counter
	contended metric.Int64Counter
	releases  metric.Int64Counter
}

// New returns an Arbiter with both hands free. Counters are registered on the global OTel meter, which is
// a no-op unless the host installs a provider.
func New(log *logrus.Logger) (*Arbiter, error) {
	a := &Arbiter{
		log:        log,
		slots:      [2]slot{emptySlot(), emptySlot()},
		candidates: orderedmap.NewOrderedMap[uint64, Candidate](),
	}

	m := meter()
	var err error
	a.claims, err = m.Int64Counter("grasp.arbiter.claims", metric.WithDescription("Successful hand claims"))
	if err != nil {
		return nil, fmt.Errorf("creating claims counter: %w", err)
	}
	a.contended, err = m.Int64Counter("grasp.arbiter.contended", metric.WithDescription("Claims rejected because the hand was taken"))
	if err != nil {
		return nil, fmt.Errorf("creating contended counter: %w", err)
	}
	a.releases, err = m.Int64Counter("grasp.arbiter.releases", metric.WithDescription("Hands released"))
	if err != nil {
		return nil, fmt.Errorf("creating releases counter: %w", err)
	}
	return a, nil
}

func same(a, b Candidate) bool {
	return a != nil && b != nil && a.ID() == b.ID()
}

func handAttr(h hand.Hand) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("hand", h.String()))
}

// Register adds a candidate. Candidates are evaluated in registration order.
func (a *Arbiter) Register(c Candidate) error {
	if c == nil {
		return oerror.New("arbiter: cannot register a nil candidate")
	}
	if existing, ok := a.candidates.Get(c.ID()); ok {
		return oerror.New("arbiter: candidate %q collides with registered candidate %q", c.Name(), existing.Name())
	}
	a.candidates.Set(c.ID(), c)
	return nil
}

// Unregister removes a candidate and clears every slot that references it.
func (a *Arbiter) Unregister(id uint64) bool {
	if !a.candidates.Delete(id) {
		return false
	}
	for i := range a.slots {
		s := &a.slots[i]
		if s.owner != nil && s.owner.ID() == id {
			s.owner = nil
		}
		if s.nearest != nil && s.nearest.ID() == id {
			s.nearest, s.nearestDistance = nil, math.Inf(1)
		}
	}
	return true
}

// Candidate returns the registered candidate with the ID passed.
func (a *Arbiter) Candidate(id uint64) (Candidate, bool) {
	return a.candidates.Get(id)
}

// Candidates returns all registered candidates in registration order.
func (a *Arbiter) Candidates() []Candidate {
	out := make([]Candidate, 0, a.candidates.Len())
	for el := a.candidates.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// BeginTick revalidates the nearest table before candidates are evaluated. A recorded candidate that is
// held, unregistered, or out of reach of the hand is dropped; otherwise its distance is refreshed so that
// the running minimum of this tick starts from current positions.
func (a *Arbiter) BeginTick(loc Locator) {
	for _, h := range hand.All {
		s := &a.slots[h.Index()]
		if s.nearest == nil {
			s.nearestDistance = math.Inf(1)
			continue
		}
		if _, ok := a.candidates.Get(s.nearest.ID()); !ok || s.nearest.Held() {
			s.nearest, s.nearestDistance = nil, math.Inf(1)
			continue
		}
		d := loc.Distance(h, s.nearest.Position())
		if math.IsInf(d, 1) || d > s.nearest.GrabDistance() {
			s.nearest, s.nearestDistance = nil, math.Inf(1)
			continue
		}
		s.nearestDistance = d
	}
}

// Offer records c as the nearest candidate to h if it is closer than the recorded one, if nothing is
// recorded, or if c is already recorded. It returns true if c is the nearest candidate afterwards.
func (a *Arbiter) Offer(h hand.Hand, c Candidate, distance float64) bool {
	if !h.Valid() || c == nil || math.IsInf(distance, 1) || math.IsNaN(distance) {
		return false
	}
	s := &a.slots[h.Index()]
	if s.nearest == nil || distance < s.nearestDistance || same(s.nearest, c) {
		s.nearest, s.nearestDistance = c, distance
	}
	return same(s.nearest, c)
}

// IsNearest returns true if c is the recorded nearest candidate of h.
func (a *Arbiter) IsNearest(h hand.Hand, c Candidate) bool {
	return h.Valid() && same(a.slots[h.Index()].nearest, c)
}

// Nearest returns the recorded nearest candidate of h and its distance.
func (a *Arbiter) Nearest(h hand.Hand) (Candidate, float64, bool) {
	if !h.Valid() {
		return nil, math.Inf(1), false
	}
	s := a.slots[h.Index()]
	return s.nearest, s.nearestDistance, s.nearest != nil
}

// Claim binds h to c. It fails if h is bound to another candidate or if c already holds the other hand.
// Contention is routine when several candidates race for the same hand, so it is not an error.
func (a *Arbiter) Claim(h hand.Hand, c Candidate) bool {
	if !h.Valid() || c == nil {
		return false
	}
	s := &a.slots[h.Index()]
	if s.owner != nil && !same(s.owner, c) {
		a.contended.Add(context.Background(), 1, handAttr(h))
		a.log.Debugf("arbiter: %v hand already held by %s, %s must wait", h, s.owner.Name(), c.Name())
		return false
	}
	if same(a.slots[h.Other().Index()].owner, c) {
		return false
	}
	if s.owner == nil {
		a.claims.Add(context.Background(), 1, handAttr(h))
	}
	s.owner = c
	return true
}

// Release frees h regardless of who holds it. Releasing a free hand is a no-op.
func (a *Arbiter) Release(h hand.Hand) {
	if !h.Valid() {
		return
	}
	s := &a.slots[h.Index()]
	if s.owner != nil {
		a.releases.Add(context.Background(), 1, handAttr(h))
		s.owner = nil
	}
}

// Owner returns the candidate bound to h.
func (a *Arbiter) Owner(h hand.Hand) (Candidate, bool) {
	if !h.Valid() {
		return nil, false
	}
	o := a.slots[h.Index()].owner
	return o, o != nil
}

// HandOf returns the hand bound to c, if any.
func (a *Arbiter) HandOf(c Candidate) (hand.Hand, bool) {
	for _, h := range hand.All {
		if same(a.slots[h.Index()].owner, c) {
			return h, true
		}
	}
	return hand.None, false
}

// Reset frees both hands, clears the nearest table and drops all candidates.
func (a *Arbiter) Reset() {
	a.slots = [2]slot{emptySlot(), emptySlot()}
	a.candidates = orderedmap.NewOrderedMap[uint64, Candidate]()
}
