package control

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/jointsim/internal/sim"
)

func newTestWorld(t *testing.T, jointCount int) *sim.World {
	t.Helper()
	w := sim.NewWorld(rand.New(rand.NewSource(1)))
	min, max := sim.Unbounded()
	for i := 0; i < jointCount; i++ {
		_, err := w.AddJoint(sim.JointConfig{
			States:   []float64{50},
			Dampings: []float64{15, 15},
			MinLimit: min,
			MaxLimit: max,
		})
		if err != nil {
			t.Fatalf("AddJoint failed: %v", err)
		}
	}
	return w
}

func TestForceControllerTimedOutput(t *testing.T) {
	f := NewForceController()
	f.Arm(1, 10)

	if f.Done() {
		t.Fatal("armed command reported done")
	}

	// Duration 1 at dt 0.1: output on the first nine ticks, zero once
	// the remaining duration hits the floor.
	for i := 0; i < 9; i++ {
		if got := f.Step(0.1); got != 10 {
			t.Fatalf("tick %d: expected force 10, got %f", i, got)
		}
	}
	if got := f.Step(0.1); got != 0 {
		t.Errorf("expected 0 after duration elapsed, got %f", got)
	}
	if !f.Done() {
		t.Error("expected done after duration elapsed")
	}
}

func TestForceControllerZeroDuration(t *testing.T) {
	f := NewForceController()
	f.Arm(0, 10)

	if !f.Done() {
		t.Error("zero-duration command should be done immediately")
	}
	if got := f.Step(0.1); got != 0 {
		t.Errorf("zero-duration command produced output %f", got)
	}
}

func TestForceControllerOverwrite(t *testing.T) {
	f := NewForceController()
	f.Arm(5, 10)
	f.Step(0.1)

	f.Arm(1, -3)

	if got := f.Step(0.1); got != -3 {
		t.Errorf("expected overwritten force -3, got %f", got)
	}
}

func TestPositionControllerOutput(t *testing.T) {
	w := newTestWorld(t, 1)
	p := NewPositionController(w.Joint(0))
	p.MoveTo(10)

	// q=0, v=0, no noise: kp*(10-0) + kd*(-0) = 20.
	got := p.Step(0.1)
	if math.Abs(got-20) > 1e-9 {
		t.Errorf("expected PID output 20, got %f", got)
	}
}

func TestPositionControllerIntegralAccumulates(t *testing.T) {
	w := newTestWorld(t, 1)
	p := NewPositionController(w.Joint(0))
	p.Ki = 1
	p.MoveTo(10)

	first := p.Step(0.1)
	second := p.Step(0.1)

	// Same error both ticks, so the second output carries one extra
	// integral contribution of 10.
	if math.Abs(second-first-10) > 1e-9 {
		t.Errorf("integral not accumulating: first %f, second %f", first, second)
	}
}

func TestPositionControllerDoneWithoutGoal(t *testing.T) {
	w := newTestWorld(t, 1)
	p := NewPositionController(w.Joint(0))

	if !p.Done() {
		t.Error("controller with no goal should be done")
	}
	if got := p.Step(0.1); got != 0 {
		t.Errorf("expected 0 output without goal, got %f", got)
	}
}

func TestPositionControllerLockedCountsAsArrived(t *testing.T) {
	w := newTestWorld(t, 1)
	p := NewPositionController(w.Joint(0))
	p.MoveTo(100)
	p.Step(0.1)

	if p.Done() {
		t.Fatal("unreached goal reported done")
	}

	w.Joint(0).Lock()
	if !p.Done() {
		t.Error("locked joint should count as arrived")
	}
}

func TestControllerForceModePriority(t *testing.T) {
	w := newTestWorld(t, 1)
	c := NewController(w, 0)

	c.MoveTo(100)
	c.ApplyForce(1, -5)

	w.Step(0.1)

	// The PID would push hard toward 100; the timed force wins, so the
	// joint's velocity must be negative.
	if v := w.Joint(0).TrueVel(); v >= 0 {
		t.Errorf("expected force mode to win, joint vel = %f", v)
	}
}

func TestControllerSaturation(t *testing.T) {
	w := newTestWorld(t, 1)
	c := NewController(w, 0)

	var samples []Sample
	c.SetObserver(observerFunc(func(tm float64, joint int, s Sample) {
		samples = append(samples, s)
	}))

	// Goal far away: desired kp*200 = 400, applied clamps at 15.
	c.MoveTo(200)
	w.Step(0.1)

	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	if samples[0].Applied != MaxForce {
		t.Errorf("expected applied force %f, got %f", MaxForce, samples[0].Applied)
	}
	if samples[0].Desired <= MaxForce {
		t.Errorf("expected desired force above the clamp, got %f", samples[0].Desired)
	}
}

func TestControllerOneSamplePerTick(t *testing.T) {
	w := newTestWorld(t, 1)
	c := NewController(w, 0)

	count := 0
	c.SetObserver(observerFunc(func(tm float64, joint int, s Sample) { count++ }))

	for i := 0; i < 7; i++ {
		w.Step(0.1)
	}
	if count != 7 {
		t.Errorf("expected 7 control samples, got %d", count)
	}
}

func TestControllerDoneAfterForceExpires(t *testing.T) {
	w := newTestWorld(t, 1)
	c := NewController(w, 0)

	c.ApplyForce(0.2, 1)
	if c.Done() {
		t.Fatal("controller done while force command armed")
	}

	// Two ticks exhaust the command, one more notices and deactivates.
	for i := 0; i < 3; i++ {
		w.Step(0.1)
	}
	if !c.Done() {
		t.Error("controller not done after force command expired")
	}
}

func TestControllerReachesGoal(t *testing.T) {
	w := newTestWorld(t, 1)
	c := NewController(w, 0)

	c.MoveTo(80)

	const budget = 10000
	for i := 0; i < budget; i++ {
		w.Step(0.1)
		if c.Done() {
			break
		}
	}

	if !c.Done() {
		t.Fatalf("goal not reached within %d ticks, q = %f", budget, w.Joint(0).TrueQ())
	}
	if q := w.Joint(0).TrueQ(); math.Abs(q-80) >= qEps {
		t.Errorf("expected q within %f of 80, got %f", qEps, q)
	}
}

type observerFunc func(t float64, joint int, s Sample)

func (f observerFunc) OnControlStep(t float64, joint int, s Sample) { f(t, joint, s) }
