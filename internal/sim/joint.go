package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// Noise holds the sensor noise standard deviations for a joint's
// position and velocity readings.
type Noise struct {
	Q   float64
	Vel float64
}

// Sample is the per-tick telemetry record a joint emits from Step.
// Direction is +1/-1 for continuing motion, negated on a limit bounce,
// and 0 while the joint is locked.
type Sample struct {
	Q         float64
	Vel       float64
	Locked    bool
	Direction int
}

// JointConfig describes one joint at construction time. States are the
// ordered damping-zone thresholds; Dampings has one coefficient per zone,
// so it must be exactly one longer than States. MinLimit/MaxLimit of
// -Inf/+Inf leave that side of the travel unbounded. A MaxVel of zero
// means unbounded.
type JointConfig struct {
	States   []float64
	Dampings []float64
	MinLimit float64
	MaxLimit float64
	MaxVel   float64
	Noise    Noise
}

// Unbounded returns limits that never clamp.
func Unbounded() (min, max float64) {
	return math.Inf(-1), math.Inf(1)
}

// Joint is a one-degree-of-freedom mechanical axis. Its travel is split
// into damping zones by the state thresholds, optionally bounded by hard
// limits, and it can be locked (immobilized) by a constraint observer.
type Joint struct {
	q        float64
	vel      float64
	maxVel   float64
	states   []float64
	dampings []float64
	minLimit float64
	maxLimit float64
	locked   bool
	noise    Noise
	rng      *rand.Rand
}

// NewJoint validates cfg and builds a joint at q=0, vel=0, unlocked.
// The rng is the explicit sensor-noise source; pass a seeded rand.Rand
// for reproducible runs.
func NewJoint(cfg JointConfig, rng *rand.Rand) (*Joint, error) {
	if len(cfg.States) == 0 {
		return nil, fmt.Errorf("%w: no state thresholds", ErrInvalidJoint)
	}
	if len(cfg.Dampings) != len(cfg.States)+1 {
		return nil, fmt.Errorf("%w: %d thresholds need %d dampings, got %d",
			ErrInvalidJoint, len(cfg.States), len(cfg.States)+1, len(cfg.Dampings))
	}
	for i := 1; i < len(cfg.States); i++ {
		if cfg.States[i] <= cfg.States[i-1] {
			return nil, fmt.Errorf("%w: thresholds not strictly increasing at index %d",
				ErrInvalidJoint, i)
		}
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidJoint)
	}

	maxVel := cfg.MaxVel
	if maxVel == 0 {
		maxVel = math.Inf(1)
	}

	states := make([]float64, len(cfg.States))
	copy(states, cfg.States)
	dampings := make([]float64, len(cfg.Dampings))
	copy(dampings, cfg.Dampings)

	return &Joint{
		maxVel:   maxVel,
		states:   states,
		dampings: dampings,
		minLimit: cfg.MinLimit,
		maxLimit: cfg.MaxLimit,
		noise:    cfg.Noise,
		rng:      rng,
	}, nil
}

// zone returns the index of the damping zone q falls in: the first
// threshold above q wins, so q below every threshold is zone 0 and q at
// or above every threshold is zone len(states).
func zone(q float64, states []float64) int {
	for i, s := range states {
		if q < s {
			return i
		}
	}
	return len(states)
}

func sgn(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// AddForce bumps the joint's velocity by f, clamped from above at
// maxVel. Locked joints silently ignore forces; there is no lower clamp.
func (j *Joint) AddForce(f float64) {
	if j.locked {
		return
	}
	j.vel += f
	j.vel = math.Min(j.vel, j.maxVel)
}

// Step advances the joint by dt and returns the tick's sample. A locked
// joint holds position and velocity. Otherwise position integrates,
// bounces clamp to the hard limits, and the zone's damping decays the
// velocity as kinetic friction: vel' = dir*sqrt(max(vel^2 - |d*vel*dt|, 0)).
func (j *Joint) Step(dt float64) Sample {
	if j.locked {
		return Sample{Q: j.q, Vel: j.vel, Locked: true, Direction: 0}
	}

	j.q += j.vel * dt

	bounced := false
	if j.q > j.maxLimit {
		j.q = j.maxLimit
		bounced = true
	}
	if j.q < j.minLimit {
		j.q = j.minLimit
		bounced = true
	}

	damping := j.dampings[zone(j.q, j.states)]

	direction := sgn(j.vel)
	if bounced {
		direction = -direction
	}

	velSq := math.Max(j.vel*j.vel-math.Abs(damping*j.vel*dt), 0)
	j.vel = direction * math.Sqrt(velSq)

	return Sample{Q: j.q, Vel: j.vel, Locked: false, Direction: int(direction)}
}

// Q returns the position as an imperfect sensor would read it.
func (j *Joint) Q() float64 {
	return j.q + j.rng.NormFloat64()*j.noise.Q
}

// Vel returns the velocity as an imperfect sensor would read it.
func (j *Joint) Vel() float64 {
	return j.vel + j.rng.NormFloat64()*j.noise.Vel
}

// TrueQ returns the exact position, bypassing sensor noise. The probe
// and telemetry paths use it; controllers use the noisy Q.
func (j *Joint) TrueQ() float64 { return j.q }

// TrueVel returns the exact velocity, bypassing sensor noise.
func (j *Joint) TrueVel() float64 { return j.vel }

// Lock immobilizes the joint: velocity zeroes once and subsequent forces
// are ignored until Unlock.
func (j *Joint) Lock() {
	j.vel = 0
	j.locked = true
}

// Unlock releases the joint, leaving velocity as-is.
func (j *Joint) Unlock() {
	j.locked = false
}

// IsLocked reports whether the joint is currently immobilized.
func (j *Joint) IsLocked() bool {
	return j.locked
}
