// Package record collects the per-tick telemetry the core emits: one
// joint sample per joint per tick and one control sample per controller
// per tick. The recorder is the sink an external learner or the run
// store reads trajectories from.
package record

import (
	"math"

	"github.com/san-kum/jointsim/internal/control"
	"github.com/san-kum/jointsim/internal/sim"
)

// Recorder buffers every sample of a run in memory, keyed by joint
// index. It implements sim.JointObserver and control.Observer.
type Recorder struct {
	times    []float64
	joints   map[int][]sim.Sample
	controls map[int][]control.Sample
}

// NewRecorder builds an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		joints:   make(map[int][]sim.Sample),
		controls: make(map[int][]control.Sample),
	}
}

// Attach registers the recorder with the world and every controller so
// it sees the full telemetry stream.
func (r *Recorder) Attach(world *sim.World, controllers []*control.Controller) {
	world.Observe(r)
	for _, c := range controllers {
		c.SetObserver(r)
	}
}

// OnJointStep records one joint sample. Joint 0's sample opens a new
// tick row.
func (r *Recorder) OnJointStep(t float64, joint int, s sim.Sample) {
	if joint == 0 {
		r.times = append(r.times, t)
	}
	r.joints[joint] = append(r.joints[joint], s)
}

// OnControlStep records one control sample.
func (r *Recorder) OnControlStep(t float64, joint int, s control.Sample) {
	r.controls[joint] = append(r.controls[joint], s)
}

// Ticks returns how many ticks have been recorded.
func (r *Recorder) Ticks() int {
	return len(r.times)
}

// Times returns the simulation time of every recorded tick.
func (r *Recorder) Times() []float64 {
	return r.times
}

// JointSeries returns the sample series of one joint.
func (r *Recorder) JointSeries(joint int) []sim.Sample {
	return r.joints[joint]
}

// ControlSeries returns the control sample series of one joint.
func (r *Recorder) ControlSeries(joint int) []control.Sample {
	return r.controls[joint]
}

// NumJoints returns the highest recorded joint index plus one.
func (r *Recorder) NumJoints() int {
	n := 0
	for idx := range r.joints {
		if idx+1 > n {
			n = idx + 1
		}
	}
	return n
}

// NumControllers returns the highest recorded controller index plus one.
func (r *Recorder) NumControllers() int {
	n := 0
	for idx := range r.controls {
		if idx+1 > n {
			n = idx + 1
		}
	}
	return n
}

// Summary aggregates run-level statistics: mean absolute applied force
// across all controllers and total distance traveled across all joints.
func (r *Recorder) Summary() map[string]float64 {
	effort := 0.0
	samples := 0
	for _, series := range r.controls {
		for _, s := range series {
			effort += math.Abs(s.Applied)
			samples++
		}
	}
	if samples > 0 {
		effort /= float64(samples)
	}

	travel := 0.0
	for _, series := range r.joints {
		for i := 1; i < len(series); i++ {
			travel += math.Abs(series[i].Q - series[i-1].Q)
		}
	}

	return map[string]float64{
		"control_effort": effort,
		"travel":         travel,
	}
}
