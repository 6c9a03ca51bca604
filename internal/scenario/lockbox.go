package scenario

import (
	"math/rand"

	"github.com/san-kum/jointsim/internal/lock"
	"github.com/san-kum/jointsim/internal/sim"
)

// Lockbox builds a chain of n joints on a 0..180 travel where each joint
// is locked unless its predecessor sits within 10 units of that
// predecessor's randomly placed open position. It returns the open
// position of every joint; joint 0 has no predecessor and is always
// free.
//
// Solving the box means discovering the dependency chain: a learner
// must open joint i-1 before joint i will move at all.
func Lockbox(world *sim.World, rng *rand.Rand, n int, noise sim.Noise) ([]float64, error) {
	const (
		lo = 0.0
		hi = 180.0
	)

	opens := make([]float64, 0, n)
	var prevLocks []lock.Interval

	for i := 0; i < n; i++ {
		m := float64(10 + rng.Intn(160))

		idx, err := world.AddJoint(sim.JointConfig{
			States:   []float64{m - 10, m + 10},
			Dampings: handleDampings,
			MinLimit: lo,
			MaxLimit: hi,
			Noise:    noise,
		})
		if err != nil {
			return nil, err
		}

		if i > 0 {
			lock.NewMultiLocker(world, world.Joint(idx-1), world.Joint(idx), prevLocks)
		}

		// The regions that keep the NEXT joint locked: everywhere
		// outside this joint's open position.
		prevLocks = []lock.Interval{
			{Low: lo, High: m - 10},
			{Low: m + 10, High: hi},
		}
		opens = append(opens, m)
	}

	return opens, nil
}

func buildLockbox(world *sim.World, rng *rand.Rand, opts Options) (*Furniture, error) {
	n := opts.Joints
	if n <= 0 {
		n = DefaultOptions().Joints
	}

	first := world.NumJoints()
	if _, err := Lockbox(world, rng, n, opts.Noise); err != nil {
		return nil, err
	}

	f := &Furniture{Kind: "lockbox"}
	for i := 0; i < n; i++ {
		f.Joints = append(f.Joints, first+i)
	}
	return f, nil
}
