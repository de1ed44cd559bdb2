package input

import (
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pixil98/go-arena/internal/sim"
)

const (
	// DefaultTurnStep is the yaw/pitch change per arrow key press.
	DefaultTurnStep = math.Pi / 24

	// maxPitch keeps the view off the poles.
	maxPitch = math.Pi/2 - 0.01
)

// Capture turns key events into staged commands for the player's entity.
// Arrow keys steer an absolute yaw/pitch pair and bound chords fire tool
// actions; every emitted command carries the full current orientation, so
// state after a replay does not depend on which commands were dropped along
// the way.
//
// Capture is armed with the session's entity on the way into the game and
// disarmed on the way out; while disarmed it consumes nothing.
type Capture struct {
	keymap *Keymap
	buf    *sim.CommandBuffer
	step   float64

	mu    sync.Mutex
	armed bool
	actor sim.EntityID
	yaw   float64
	pitch float64
	seq   uint64
}

type CaptureOpt func(*Capture)

// WithTurnStep sets the steering step in radians per arrow press.
func WithTurnStep(step float64) CaptureOpt {
	return func(c *Capture) {
		c.step = step
	}
}

func NewCapture(keymap *Keymap, buf *sim.CommandBuffer, opts ...CaptureOpt) *Capture {
	c := &Capture{
		keymap: keymap,
		buf:    buf,
		step:   DefaultTurnStep,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Arm points the capture at the session's entity and zeroes the steering
// state and sequence counter.
func (c *Capture) Arm(actor sim.EntityID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.armed = true
	c.actor = actor
	c.yaw = 0
	c.pitch = 0
	c.seq = 0
}

func (c *Capture) Disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armed = false
}

// HandleKey consumes one key event, reporting whether it did. Arrow keys
// steer and emit an orientation-only command; chords found in the keymap
// emit a command with the current orientation and the bound actions. A full
// buffer drops the command; the buffer keeps the count.
func (c *Capture) HandleKey(ev *tcell.EventKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.armed {
		return false
	}

	switch ev.Key() {
	case tcell.KeyLeft:
		c.yaw += c.step
	case tcell.KeyRight:
		c.yaw -= c.step
	case tcell.KeyUp:
		c.pitch = math.Min(c.pitch+c.step, maxPitch)
	case tcell.KeyDown:
		c.pitch = math.Max(c.pitch-c.step, -maxPitch)
	default:
		actions, ok := c.keymap.Lookup(ev)
		if !ok {
			return false
		}
		c.push(actions)
		return true
	}

	c.push(nil)
	return true
}

// push stages one control command under the capture's lock.
func (c *Capture) push(actions []sim.Action) {
	c.seq++
	q := c.orientationLocked()
	c.buf.Push(sim.NewControlCommand(c.actor, c.seq, &q, actions...))
}

// Orientation returns the current steering state as a quaternion.
func (c *Capture) Orientation() mgl64.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientationLocked()
}

func (c *Capture) orientationLocked() mgl64.Quat {
	yawQ := mgl64.QuatRotate(c.yaw, mgl64.Vec3{0, 1, 0})
	pitchQ := mgl64.QuatRotate(c.pitch, mgl64.Vec3{1, 0, 0})
	return yawQ.Mul(pitchQ).Normalize()
}

// Facing returns the steering state as yaw and pitch in radians, for the
// HUD readout.
func (c *Capture) Facing() (yaw, pitch float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw, c.pitch
}
