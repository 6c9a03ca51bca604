// Package action orchestrates controllers against the world: it drives
// joints to goal configurations and exposes the mobility probe an
// external learner uses for joint dependency discovery.
package action

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/jointsim/internal/control"
	"github.com/san-kum/jointsim/internal/sim"
)

// Probe constants: the fixed stimulus CheckState applies and the
// displacement threshold that separates a free joint from a locked one.
const (
	probeForce    = 10.0
	probeDuration = 1.0
	probeTicks    = 10
	probeEps      = 0.01
)

// Mobility outcomes of CheckState.
const (
	Free   = 0
	Locked = 1
)

// DefaultTau is the fixed tick size the machine advances the world by.
const DefaultTau = 0.1

// DefaultMaxTicks bounds the wait loop of RunAction per goal.
const DefaultMaxTicks = 10000

// ErrGoalTimeout reports a goal the controller could not reach within
// the machine's tick budget.
var ErrGoalTimeout = errors.New("action: goal not reached within tick budget")

// Goal pairs a joint index with a target position.
type Goal struct {
	Joint  int
	Target float64
}

// Machine drives a set of controllers, one per joint, by ticking the
// world at a fixed tau until each goal controller reports done.
type Machine struct {
	world       *sim.World
	controllers []*control.Controller
	tau         float64
	maxTicks    int
}

// Option adjusts a Machine at construction.
type Option func(*Machine)

// WithTau overrides the tick size.
func WithTau(tau float64) Option {
	return func(m *Machine) { m.tau = tau }
}

// WithMaxTicks overrides the per-goal tick budget for RunAction.
func WithMaxTicks(n int) Option {
	return func(m *Machine) { m.maxTicks = n }
}

// New builds a machine over the world and its controllers. The
// controllers slice is indexed by joint.
func New(world *sim.World, controllers []*control.Controller, opts ...Option) *Machine {
	m := &Machine{
		world:       world,
		controllers: controllers,
		tau:         DefaultTau,
		maxTicks:    DefaultMaxTicks,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RunAction processes goals sequentially: each joint's controller is
// pointed at its target, then the world ticks until the controller is
// done before the next goal starts. A goal that stays unreached past the
// tick budget fails with ErrGoalTimeout; ctx cancellation is honored
// between ticks.
func (m *Machine) RunAction(ctx context.Context, goals []Goal) error {
	for _, g := range goals {
		if g.Joint < 0 || g.Joint >= len(m.controllers) {
			return fmt.Errorf("action: no controller for joint %d", g.Joint)
		}

		c := m.controllers[g.Joint]
		c.MoveTo(g.Target)

		ticks := 0
		for !c.Done() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if ticks >= m.maxTicks {
				return fmt.Errorf("%w: joint %d toward %v after %d ticks",
					ErrGoalTimeout, g.Joint, g.Target, ticks)
			}

			m.world.Step(m.tau)
			ticks++
		}
	}
	return nil
}

// CheckState is the dependency probe: it kicks the joint with a fixed
// timed force, advances the world exactly probeTicks ticks, and reports
// Locked when the joint's position barely moved and Free otherwise.
func (m *Machine) CheckState(joint int) (int, error) {
	if joint < 0 || joint >= len(m.controllers) {
		return 0, fmt.Errorf("action: no controller for joint %d", joint)
	}

	oldPos := m.world.Joint(joint).TrueQ()
	m.controllers[joint].ApplyForce(probeDuration, probeForce)

	for i := 0; i < probeTicks; i++ {
		m.world.Step(m.tau)
	}

	newPos := m.world.Joint(joint).TrueQ()
	if math.Abs(oldPos-newPos) > probeEps {
		return Free, nil
	}
	return Locked, nil
}

// Tau returns the machine's tick size.
func (m *Machine) Tau() float64 { return m.tau }
