package steamvr

import (
	"io"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/hand"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakeModel struct{ active bool }

func (m *fakeModel) SetActive(active bool) { m.active = active }

type fakeObject struct {
	active bool
	index  uint32
	pos    mgl64.Vec3
	model  *fakeModel
}

func (o *fakeObject) ActiveInHierarchy() bool { return o.active }
func (o *fakeObject) Index() uint32           { return o.index }
func (o *fakeObject) Pose() (mgl64.Vec3, mgl64.Quat) {
	return o.pos, mgl64.QuatIdent()
}
func (o *fakeObject) RenderModel() RenderModel { return o.model }

type fakeManager struct{ left, right *fakeObject }

func (m fakeManager) Left() TrackedObject {
	if m.left == nil {
		return nil
	}
	return m.left
}
func (m fakeManager) Right() TrackedObject {
	if m.right == nil {
		return nil
	}
	return m.right
}

type pulse struct {
	index  uint32
	micros uint16
}

type fakeSystem struct {
	pressed map[uint32]uint64
	pulses  []pulse
}

func (s *fakeSystem) ControllerState(index uint32) (uint64, bool) {
	p, ok := s.pressed[index]
	return p, ok
}
func (s *fakeSystem) DeviceVelocity(index uint32) (mgl64.Vec3, mgl64.Vec3) {
	return mgl64.Vec3{float64(index), 0, 0}, mgl64.Vec3{}
}
func (s *fakeSystem) TriggerHapticPulse(index uint32, _ uint32, micros uint16) {
	s.pulses = append(s.pulses, pulse{index: index, micros: micros})
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func TestNewWithoutManagerPanics(t *testing.T) {
	assert.Panics(t, func() { New(testLogger(), nil, &fakeSystem{}) })
}

func TestButtonEdgesFollowSystemState(t *testing.T) {
	left := &fakeObject{active: true, index: 3, pos: mgl64.Vec3{1, 2, 3}, model: &fakeModel{active: true}}
	sys := &fakeSystem{pressed: map[uint32]uint64{3: hand.ButtonGrip.Mask()}}
	b := New(testLogger(), fakeManager{left: left}, sys)

	b.Update(time.Millisecond)
	assert.True(t, b.Connected(hand.Left))
	assert.False(t, b.Connected(hand.Right))
	assert.True(t, b.Down(hand.Left, hand.ButtonGrip))
	assert.True(t, b.PressedThisTick(hand.Left, hand.ButtonGrip))
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, b.Position(hand.Left))
	assert.Equal(t, mgl64.Vec3{3, 0, 0}, b.Velocity(hand.Left))

	b.Update(time.Millisecond)
	assert.True(t, b.Down(hand.Left, hand.ButtonGrip))
	assert.False(t, b.PressedThisTick(hand.Left, hand.ButtonGrip))

	left.active = false
	assert.False(t, b.Down(hand.Left, hand.ButtonGrip))
}

func TestReconnectStartsWithoutButtons(t *testing.T) {
	left := &fakeObject{active: true, index: 3}
	sys := &fakeSystem{pressed: map[uint32]uint64{3: hand.ButtonGrip.Mask()}}
	b := New(testLogger(), fakeManager{left: left}, sys)

	b.Update(time.Millisecond)
	b.Update(time.Millisecond)
	assert.True(t, b.Down(hand.Left, hand.ButtonGrip))

	left.active = false
	b.Update(time.Millisecond)
	sys.pressed[3] = 0
	b.Update(time.Millisecond)

	sys.pressed[3] = hand.ButtonGrip.Mask()
	left.active = true
	b.Update(time.Millisecond)
	assert.True(t, b.Down(hand.Left, hand.ButtonGrip))
	assert.True(t, b.PressedThisTick(hand.Left, hand.ButtonGrip), "press after reconnect is an edge")
}

func TestNewDeviceIndexResetsEdges(t *testing.T) {
	left := &fakeObject{active: true, index: 3}
	sys := &fakeSystem{pressed: map[uint32]uint64{3: hand.ButtonGrip.Mask(), 4: hand.ButtonGrip.Mask()}}
	b := New(testLogger(), fakeManager{left: left}, sys)

	b.Update(time.Millisecond)
	b.Update(time.Millisecond)
	assert.False(t, b.PressedThisTick(hand.Left, hand.ButtonGrip))

	left.index = 4
	assert.False(t, b.Down(hand.Left, hand.ButtonGrip), "not sampled yet")
	b.Update(time.Millisecond)
	assert.True(t, b.PressedThisTick(hand.Left, hand.ButtonGrip))
}

func TestPulseAndVisibility(t *testing.T) {
	model := &fakeModel{active: true}
	right := &fakeObject{active: true, index: 7, model: model}
	sys := &fakeSystem{}
	b := New(testLogger(), fakeManager{right: right}, sys)

	b.Pulse(hand.Right, 1)
	b.Pulse(hand.Right, 2)
	b.Pulse(hand.Left, 1)
	assert.Equal(t, []pulse{{7, MaxPulseMicros}, {7, MaxPulseMicros}}, sys.pulses)

	b.SetVisible(hand.Right, false)
	assert.False(t, model.active)
	b.SetVisible(hand.Left, false)
}

func TestPulseMicros(t *testing.T) {
	assert.Equal(t, uint16(0), PulseMicros(-1))
	assert.Equal(t, uint16(0), PulseMicros(0))
	assert.Equal(t, uint16(1999), PulseMicros(0.5))
	assert.Equal(t, uint16(MaxPulseMicros), PulseMicros(1))
}
