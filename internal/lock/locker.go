// Package lock implements the constraint engine that couples joints:
// per-tick observers that derive one joint's locked state from another
// joint's current position. This is where "joint dependency" comes from.
//
// [Locker] guards a single exclusive interval; [MultiLocker] guards a
// set of inclusive intervals. The bound asymmetry is deliberate and load
// bearing for scenarios built on exact threshold values.
package lock

import "github.com/san-kum/jointsim/internal/sim"

// Source is the read-only side of a constraint: the joint whose position
// decides the lock state.
type Source interface {
	TrueQ() float64
}

// Target is the mutated side of a constraint. *sim.Joint implements both
// Source and Target.
type Target interface {
	Lock()
	Unlock()
	IsLocked() bool
}

// Locker locks the target joint while the source joint's position is
// strictly inside (lower, upper). It keeps no state beyond its
// configuration and re-evaluates every tick.
//
// When several lockers target the same joint, the one registered last
// wins for the tick. That precedence is an accident of evaluation order,
// not a contract; scenarios should give each joint at most one locker.
type Locker struct {
	source Source
	target Target
	lower  float64
	upper  float64
}

// NewLocker builds the constraint and registers it with the world.
func NewLocker(world *sim.World, source Source, target Target, lower, upper float64) *Locker {
	l := &Locker{source: source, target: target, lower: lower, upper: upper}
	world.Register(l)
	return l
}

// Step re-evaluates the constraint from the source joint's current
// position. Transitions are guarded so Lock's velocity reset fires once
// per unlocked-to-locked edge, not every tick the region holds.
func (l *Locker) Step(dt float64) {
	q := l.source.TrueQ()
	inside := l.lower < q && q < l.upper
	if inside {
		if !l.target.IsLocked() {
			l.target.Lock()
		}
	} else {
		if l.target.IsLocked() {
			l.target.Unlock()
		}
	}
}

// Interval is one inclusive locking region [Low, High] for a MultiLocker.
type Interval struct {
	Low  float64
	High float64
}

// Contains reports whether q falls inside the interval, bounds included.
func (iv Interval) Contains(q float64) bool {
	return iv.Low <= q && q <= iv.High
}

// MultiLocker locks the target joint while the source joint's position
// falls in any of a set of inclusive intervals. Unlike Locker, the
// interval bounds themselves lock.
type MultiLocker struct {
	source    Source
	target    Target
	intervals []Interval
}

// NewMultiLocker builds the constraint and registers it with the world.
func NewMultiLocker(world *sim.World, source Source, target Target, intervals []Interval) *MultiLocker {
	ivs := make([]Interval, len(intervals))
	copy(ivs, intervals)
	m := &MultiLocker{source: source, target: target, intervals: ivs}
	world.Register(m)
	return m
}

// Step re-evaluates the constraint, locking on the unlocked-to-locked
// transition and unlocking on the reverse, never repeating either call
// while the state holds.
func (m *MultiLocker) Step(dt float64) {
	q := m.source.TrueQ()

	shouldLock := false
	for _, iv := range m.intervals {
		if iv.Contains(q) {
			shouldLock = true
		}
	}

	isLocked := m.target.IsLocked()
	if isLocked && !shouldLock {
		m.target.Unlock()
	} else if !isLocked && shouldLock {
		m.target.Lock()
	}
}
