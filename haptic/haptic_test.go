package haptic

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oomph-ac/grasp/hand"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	pulses map[hand.Hand][]float64
}

func newRecorder() *recorder {
	return &recorder{pulses: map[hand.Hand][]float64{}}
}

func (r *recorder) Pulse(h hand.Hand, intensity float64) {
	r.pulses[h] = append(r.pulses[h], intensity)
}

// perTick ticks the scheduler n times and returns how many pulses h received on each tick.
func perTick(s *Scheduler, r *recorder, h hand.Hand, n int, dt time.Duration) []int {
	out := make([]int, n)
	for i := range n {
		before := len(r.pulses[h])
		s.Tick(dt)
		out[i] = len(r.pulses[h]) - before
	}
	return out
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func TestRumblePulsesEveryTickForDuration(t *testing.T) {
	r := newRecorder()
	s := NewScheduler(testLogger(), r, Concurrent)

	id := s.Rumble(hand.Left, 30*time.Millisecond, 0.5)
	require.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, []int{1, 1, 1, 0}, perTick(s, r, hand.Left, 4, 10*time.Millisecond))
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, r.pulses[hand.Left])
	assert.Zero(t, s.Active(hand.Left))
	assert.Empty(t, r.pulses[hand.Right])
}

func TestRumblePatternLeavesGapsBetweenVibrations(t *testing.T) {
	r := newRecorder()
	s := NewScheduler(testLogger(), r, Concurrent)

	s.RumblePattern(hand.Right, 2, 20*time.Millisecond, 20*time.Millisecond, 1)
	assert.Equal(t, []int{1, 1, 0, 0, 1, 1, 0}, perTick(s, r, hand.Right, 7, 10*time.Millisecond))
	assert.Zero(t, s.Active(hand.Right))
}

func TestStrengthIsClamped(t *testing.T) {
	r := newRecorder()
	s := NewScheduler(testLogger(), r, Concurrent)

	s.Rumble(hand.Left, time.Millisecond, 3)
	s.Rumble(hand.Right, time.Millisecond, -1)
	s.Tick(time.Millisecond)
	assert.Equal(t, []float64{1}, r.pulses[hand.Left])
	assert.Equal(t, []float64{0}, r.pulses[hand.Right])
}

func TestInvalidRequestsAreIgnored(t *testing.T) {
	s := NewScheduler(testLogger(), newRecorder(), Concurrent)

	assert.Equal(t, uuid.Nil, s.Rumble(hand.None, time.Second, 1))
	assert.Equal(t, uuid.Nil, s.Rumble(hand.Left, 0, 1))
	assert.Equal(t, uuid.Nil, s.RumblePattern(hand.Left, 0, time.Second, 0, 1))
	assert.Zero(t, s.Active(hand.Left))
}

func TestPolicies(t *testing.T) {
	tests := []struct {
		policy Policy
		want   []int
		active int
	}{
		{policy: Concurrent, want: []int{2, 2, 0}, active: 0},
		{policy: Replace, want: []int{1, 1, 0}, active: 0},
		{policy: Queue, want: []int{1, 1, 1}, active: 1},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			r := newRecorder()
			s := NewScheduler(testLogger(), r, tt.policy)

			s.Rumble(hand.Left, 20*time.Millisecond, 1)
			s.Rumble(hand.Left, 20*time.Millisecond, 1)
			assert.Equal(t, tt.want, perTick(s, r, hand.Left, 3, 10*time.Millisecond))
			assert.Equal(t, tt.active, s.Active(hand.Left))
		})
	}
}

func TestCancel(t *testing.T) {
	r := newRecorder()
	s := NewScheduler(testLogger(), r, Concurrent)

	a := s.Rumble(hand.Left, time.Second, 1)
	s.Rumble(hand.Left, time.Second, 1)
	s.Rumble(hand.Right, time.Second, 1)

	assert.True(t, s.Cancel(a))
	assert.False(t, s.Cancel(a))
	assert.Equal(t, 1, s.Active(hand.Left))

	assert.Equal(t, 1, s.CancelHand(hand.Left))
	assert.Zero(t, s.Active(hand.Left))
	assert.Equal(t, 1, s.Active(hand.Right))

	s.Close()
	assert.Zero(t, s.Active(hand.Right))
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": Concurrent, "Concurrent": Concurrent, " replace": Replace, "QUEUE": Queue} {
		p, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, p, in)
	}
	_, err := ParsePolicy("stack")
	assert.Error(t, err)

	var p Policy
	require.NoError(t, p.UnmarshalText([]byte("queue")))
	assert.Equal(t, Queue, p)
}

func TestNilOutputPanics(t *testing.T) {
	assert.Panics(t, func() { NewScheduler(testLogger(), nil, Concurrent) })
}
