package sim

import (
	"math/rand"
	"time"
)

// Listener is anything that wants to run once per tick after every joint
// has finished its update: controllers and lock constraints implement it.
type Listener interface {
	Step(dt float64)
}

// JointObserver receives the telemetry sample each joint emits each tick.
type JointObserver interface {
	OnJointStep(t float64, joint int, s Sample)
}

// World owns the ordered joint collection, the simulation clock and the
// listener registry. One World.Step is one tick: all joints update in
// index order from their own prior-tick state, then all listeners run in
// registration order, so a lock decision made from tick-T positions takes
// effect starting with tick T+1.
type World struct {
	joints    []*Joint
	listeners []Listener
	observers []JointObserver
	time      float64
	rng       *rand.Rand
}

// NewWorld builds an empty world. The rng seeds every joint's sensor
// noise; there is no other source of randomness in the core.
func NewWorld(rng *rand.Rand) *World {
	return &World{rng: rng}
}

// AddJoint constructs a joint from cfg with the world's random source,
// appends it, and returns its index (stable for the run).
func (w *World) AddJoint(cfg JointConfig) (int, error) {
	j, err := NewJoint(cfg, w.rng)
	if err != nil {
		return 0, err
	}
	w.joints = append(w.joints, j)
	return len(w.joints) - 1, nil
}

// Register appends a tick listener. Listeners are never removed and no
// deduplication is performed; registration order is evaluation order.
func (w *World) Register(l Listener) {
	w.listeners = append(w.listeners, l)
}

// Observe appends a telemetry observer for joint samples.
func (w *World) Observe(o JointObserver) {
	w.observers = append(w.observers, o)
}

// Step advances the whole simulation by dt.
func (w *World) Step(dt float64) {
	w.time += dt
	for i, j := range w.joints {
		s := j.Step(dt)
		for _, o := range w.observers {
			o.OnJointStep(w.time, i, s)
		}
	}
	for _, l := range w.listeners {
		l.Step(dt)
	}
}

// Joint returns the joint at index i.
func (w *World) Joint(i int) *Joint {
	return w.joints[i]
}

// NumJoints returns the number of joints added so far.
func (w *World) NumJoints() int {
	return len(w.joints)
}

// Time returns the simulation clock in seconds.
func (w *World) Time() float64 {
	return w.time
}

// Timestamp converts the simulation clock to an absolute timestamp
// anchored at the Unix epoch, for external recording sinks.
func (w *World) Timestamp() time.Time {
	return time.Unix(0, int64(w.time*float64(time.Second)))
}
