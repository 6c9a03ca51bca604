package control

import "math"

// ForceController outputs a constant force for a fixed span of
// simulation time. Arming a new command unconditionally overwrites any
// command still in progress.
type ForceController struct {
	remaining float64
	force     float64
}

// NewForceController builds an idle timed-force controller.
func NewForceController() *ForceController {
	return &ForceController{}
}

// Arm sets the force magnitude and the remaining duration.
func (f *ForceController) Arm(duration, force float64) {
	f.force = force
	f.remaining = duration
}

// Step consumes dt of the remaining duration, floored at zero, and
// returns the force to apply while any duration is left after the
// decrement. A command armed with duration 0 never produces output.
func (f *ForceController) Step(dt float64) float64 {
	f.remaining = math.Max(0, f.remaining-dt)
	if f.remaining > 0 {
		return f.force
	}
	return 0
}

// Done reports whether the command has run out. The owning Controller
// checks this before calling Step, so the final partial tick of a
// command still produces output.
func (f *ForceController) Done() bool {
	return f.remaining <= 0
}
