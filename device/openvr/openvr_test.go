package openvr

import (
	"io"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/hand"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type vibration struct {
	amplitude float32
	c         Controller
}

type fakeRuntime struct {
	connected Controller
	held      RawButton
	down      RawButton
	pos       map[Controller]mgl64.Vec3

	vibrations []vibration
}

func (r *fakeRuntime) ConnectedControllers() Controller { return r.connected }
func (r *fakeRuntime) LocalControllerPosition(c Controller) mgl64.Vec3 {
	return r.pos[c]
}
func (r *fakeRuntime) LocalControllerRotation(Controller) mgl64.Quat        { return mgl64.QuatIdent() }
func (r *fakeRuntime) LocalControllerVelocity(Controller) mgl64.Vec3        { return mgl64.Vec3{0, 0, 1} }
func (r *fakeRuntime) LocalControllerAngularVelocity(Controller) mgl64.Vec3 { return mgl64.Vec3{} }
func (r *fakeRuntime) Get(b RawButton) bool                                 { return r.held&b != 0 }
func (r *fakeRuntime) GetDown(b RawButton) bool                             { return r.down&b != 0 }
func (r *fakeRuntime) SetControllerVibration(_, amplitude float32, c Controller) {
	r.vibrations = append(r.vibrations, vibration{amplitude: amplitude, c: c})
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func TestButtonMapping(t *testing.T) {
	rt := &fakeRuntime{connected: LTouch, held: RawLHandTrigger, down: RawLHandTrigger}
	b := New(testLogger(), rt, nil)

	assert.True(t, b.Connected(hand.Left))
	assert.False(t, b.Connected(hand.Right))
	assert.True(t, b.Down(hand.Left, hand.ButtonGrip))
	assert.True(t, b.PressedThisTick(hand.Left, hand.ButtonGrip))
	assert.False(t, b.Down(hand.Right, hand.ButtonGrip))
	assert.False(t, b.Down(hand.Left, hand.ButtonNone))
	assert.False(t, b.Down(hand.Left, hand.ButtonTrigger))
}

func TestTrackingOrigin(t *testing.T) {
	rt := &fakeRuntime{connected: RTouch, pos: map[Controller]mgl64.Vec3{RTouch: {1, 0, 0}}}
	b := New(testLogger(), rt, nil)
	b.SetTrackingOrigin(mgl64.Vec3{0, 1, 0}, mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0}))

	pos := b.Position(hand.Right)
	assert.InDelta(t, 0, pos.X(), 1e-9)
	assert.InDelta(t, 1, pos.Y(), 1e-9)
	assert.InDelta(t, -1, pos.Z(), 1e-9)
}

func TestVibrationStopsWithoutPulse(t *testing.T) {
	rt := &fakeRuntime{connected: LTouch | RTouch}
	b := New(testLogger(), rt, nil)

	b.Pulse(hand.Left, 0.5)
	b.Update(time.Millisecond)
	assert.Len(t, rt.vibrations, 1, "pulsed this tick, keep vibrating")

	b.Update(time.Millisecond)
	assert.Equal(t, []vibration{{0.5, LTouch}, {0, LTouch}}, rt.vibrations)

	b.Update(time.Millisecond)
	assert.Len(t, rt.vibrations, 2)
}

func TestVisibilityHandler(t *testing.T) {
	var got []bool
	b := New(testLogger(), &fakeRuntime{}, func(h hand.Hand, visible bool) {
		got = append(got, visible)
	})
	b.SetVisible(hand.Left, false)
	b.SetVisible(hand.Left, true)
	assert.Equal(t, []bool{false, true}, got)

	New(testLogger(), &fakeRuntime{}, nil).SetVisible(hand.Left, false)
}
