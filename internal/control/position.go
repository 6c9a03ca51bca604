package control

import (
	"math"

	"github.com/san-kum/jointsim/internal/sim"
)

// Default PID gains and arrival tolerances for position control.
const (
	DefaultKp = 2.0
	DefaultKd = 1.0
	DefaultKi = 0.0

	qEps = 0.5
	vEps = 0.01
)

// PositionController drives a joint toward a goal position with a PID
// law fed by the joint's noisy sensor readings.
type PositionController struct {
	joint *sim.Joint

	goal    float64
	hasGoal bool

	q        float64
	v        float64
	integral float64

	Kp float64
	Ki float64
	Kd float64

	// maxForce is declared for parity with the outer Controller but is
	// not applied in the force computation; the Controller's bound of 15
	// is the effective clamp. Kept as observed behavior.
	maxForce float64
}

// NewPositionController builds a PD controller (integral gain zero) for
// the given joint.
func NewPositionController(joint *sim.Joint) *PositionController {
	return &PositionController{
		joint:    joint,
		Kp:       DefaultKp,
		Kd:       DefaultKd,
		Ki:       DefaultKi,
		maxForce: 30,
	}
}

// MoveTo sets the goal position. The accumulated integral term is
// deliberately not reset.
func (p *PositionController) MoveTo(pos float64) {
	p.goal = pos
	p.hasGoal = true
}

// Step reads the joint's noisy position and velocity and returns the
// PID output toward the goal, or 0 when there is no goal or the goal is
// already reached. The integral accumulates on every call even while
// Ki is zero.
func (p *PositionController) Step(dt float64) float64 {
	p.q = p.joint.Q()
	p.v = p.joint.Vel()

	if !p.hasGoal || p.Done() {
		return 0
	}

	err := p.goal - p.q
	p.integral += err
	return p.Kp*err + p.Kd*(-p.v) + p.Ki*p.integral
}

// Done reports arrival: no goal set, position and velocity within
// tolerance, or the joint locked (a locked joint counts as arrived so
// the PID does not fight the lock indefinitely).
func (p *PositionController) Done() bool {
	if !p.hasGoal {
		return true
	}
	if math.Abs(p.q-p.goal) < qEps && math.Abs(p.v) < vEps {
		return true
	}
	return p.joint.IsLocked()
}
