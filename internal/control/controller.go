package control

import (
	"math"

	"github.com/san-kum/jointsim/internal/sim"
)

// MaxForce is the saturation bound on the force a Controller forwards to
// its joint per tick.
const MaxForce = 15.0

// Sample is the per-tick telemetry record a Controller emits: the force
// actually forwarded to the joint and the unsaturated desired force.
type Sample struct {
	Applied float64
	Desired float64
}

// Observer receives the control sample a Controller emits each tick.
type Observer interface {
	OnControlStep(t float64, joint int, s Sample)
}

// Controller composes a timed-force strategy and a PID position strategy
// over one joint. Both modes may be armed at once; force mode wins at
// evaluation time. The controller registers itself as a world listener,
// so it runs once per tick after every joint has updated and the force
// it applies takes effect on the next tick.
type Controller struct {
	world *sim.World
	joint *sim.Joint
	index int

	forceActive bool
	force       *ForceController

	positionActive bool
	position       *PositionController

	observer Observer
}

// NewController builds a controller for the joint at the given index and
// registers it with the world.
func NewController(world *sim.World, joint int) *Controller {
	j := world.Joint(joint)
	c := &Controller{
		world:    world,
		joint:    j,
		index:    joint,
		force:    NewForceController(),
		position: NewPositionController(j),
	}
	world.Register(c)
	return c
}

// SetObserver attaches the telemetry sink for control samples.
func (c *Controller) SetObserver(o Observer) {
	c.observer = o
}

// MoveTo arms position mode toward goal. Force mode, if armed, is left
// alone and keeps priority.
func (c *Controller) MoveTo(goal float64) {
	c.position.MoveTo(goal)
	c.positionActive = true
}

// ApplyForce arms a timed force command and activates force mode.
func (c *Controller) ApplyForce(duration, force float64) {
	c.force.Arm(duration, force)
	c.forceActive = true
}

// Step evaluates the active mode, saturates the desired force at
// MaxForce, and forwards it to the joint. Exactly one sample is emitted
// per tick.
func (c *Controller) Step(dt float64) {
	desired := 0.0

	if c.forceActive {
		if c.force.Done() {
			c.forceActive = false
		} else {
			desired = c.force.Step(dt)
		}
	} else if c.positionActive {
		if c.position.Done() {
			c.positionActive = false
		} else {
			desired = c.position.Step(dt)
		}
	}

	applied := sgn(desired) * math.Min(math.Abs(desired), MaxForce)
	c.joint.AddForce(applied)

	if c.observer != nil {
		c.observer.OnControlStep(c.world.Time(), c.index, Sample{Applied: applied, Desired: desired})
	}
}

// Done reports whether both modes are inactive.
func (c *Controller) Done() bool {
	return !c.forceActive && !c.positionActive
}

// Joint returns the index of the joint this controller drives.
func (c *Controller) Joint() int {
	return c.index
}

func sgn(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
