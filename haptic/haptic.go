// Package haptic schedules controller rumble as timed tasks advanced by the tick loop. A running task
// pulses its hand once per tick until its duration has elapsed or it is cancelled.
package haptic

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/oomph-ac/grasp/assert"
	"github.com/oomph-ac/grasp/device"
	"github.com/oomph-ac/grasp/hand"
	"github.com/sirupsen/logrus"
)

// Policy decides what happens when a rumble is requested on a hand that is already rumbling.
type Policy uint8

const (
	// Concurrent runs every request alongside earlier ones. Overlapping tasks each pulse the hand.
	Concurrent Policy = iota
	// Replace cancels earlier tasks on the hand.
	Replace
	// Queue runs the tasks of a hand one after another in request order.
	Queue
)

// String ...
func (p Policy) String() string {
	switch p {
	case Concurrent:
		return "concurrent"
	case Replace:
		return "replace"
	case Queue:
		return "queue"
	}
	return fmt.Sprintf("Policy(%d)", uint8(p))
}

// ParsePolicy parses the name of a policy, ignoring case.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "concurrent":
		return Concurrent, nil
	case "replace":
		return Replace, nil
	case "queue":
		return Queue, nil
	}
	return Concurrent, fmt.Errorf("unknown haptic policy %q", s)
}

// UnmarshalText ...
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// DefaultStrength is the strength used by callers that do not pick one.
const DefaultStrength = 1.0

type task struct {
	id       uuid.UUID
	hand     hand.Hand
	strength float64

	length time.Duration
	gap    time.Duration
	// count is the number of vibrations left, including the current one.
	count int

	inGap     bool
	remaining time.Duration
}

// advance runs a single tick of the task and returns false once it has finished.
func (t *task) advance(out device.HapticOutput, dt time.Duration) bool {
	if t.inGap {
		t.remaining -= dt
		if t.remaining <= 0 {
			t.inGap, t.remaining = false, t.length
		}
		return true
	}
	if t.remaining > 0 {
		out.Pulse(t.hand, t.strength)
	}
	t.remaining -= dt
	if t.remaining > 0 {
		return true
	}
	t.count--
	if t.count <= 0 {
		return false
	}
	if t.gap > 0 {
		t.inGap, t.remaining = true, t.gap
	} else {
		t.remaining = t.length
	}
	return true
}

// Scheduler owns the rumble tasks of both hands.
type Scheduler struct {
	log    *logrus.Logger
	out    device.HapticOutput
	policy Policy

	tasks []*task
}

// NewScheduler returns a scheduler pulsing the output passed. A nil output panics.
func NewScheduler(log *logrus.Logger, out device.HapticOutput, policy Policy) *Scheduler {
	assert.IsTrue(out != nil, "haptic scheduler needs a haptic output")
	return &Scheduler{log: log, out: out, policy: policy}
}

// Policy returns the overlap policy of the scheduler.
func (s *Scheduler) Policy() Policy {
	return s.policy
}

// Rumble pulses h every tick for d at the given strength, clamped to [0, 1].
func (s *Scheduler) Rumble(h hand.Hand, d time.Duration, strength float64) uuid.UUID {
	return s.RumblePattern(h, 1, d, 0, strength)
}

// RumblePattern runs count vibrations of the given length on h, separated by gap. No gap follows the last
// vibration. uuid.Nil is returned if nothing was scheduled.
func (s *Scheduler) RumblePattern(h hand.Hand, count int, length, gap time.Duration, strength float64) uuid.UUID {
	if !h.Valid() || count <= 0 || length <= 0 {
		return uuid.Nil
	}
	if s.policy == Replace {
		if n := s.CancelHand(h); n > 0 {
			s.log.Debugf("haptic: replaced %d rumble task(s) on %v hand", n, h)
		}
	}
	t := &task{
		id:        uuid.New(),
		hand:      h,
		strength:  mgl64.Clamp(strength, 0, 1),
		length:    length,
		gap:       max(gap, 0),
		count:     count,
		remaining: length,
	}
	s.tasks = append(s.tasks, t)
	return t.id
}

// Cancel stops the task with the ID passed. It returns false if no such task is running.
func (s *Scheduler) Cancel(id uuid.UUID) bool {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// CancelHand stops every task on h and returns how many were stopped.
func (s *Scheduler) CancelHand(h hand.Hand) int {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.hand != h {
			kept = append(kept, t)
		}
	}
	n := len(s.tasks) - len(kept)
	clear(s.tasks[len(kept):])
	s.tasks = kept
	return n
}

// Active returns the number of unfinished tasks on h, queued ones included.
func (s *Scheduler) Active(h hand.Hand) int {
	var n int
	for _, t := range s.tasks {
		if t.hand == h {
			n++
		}
	}
	return n
}

// Tick advances every running task by dt. Under the Queue policy only the oldest task of each hand runs.
func (s *Scheduler) Tick(dt time.Duration) {
	var running [2]bool
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if s.policy == Queue {
			if running[t.hand.Index()] {
				kept = append(kept, t)
				continue
			}
			running[t.hand.Index()] = true
		}
		if t.advance(s.out, dt) {
			kept = append(kept, t)
		}
	}
	clear(s.tasks[len(kept):])
	s.tasks = kept
}

// Close cancels every task.
func (s *Scheduler) Close() {
	s.tasks = nil
}
