// Package scenario wires concrete furniture topologies (drawers,
// cupboards, windows, lockbox chains) out of the core's construction
// surface: joints plus lock constraints. It is configuration glue; the
// dynamics all live in sim, lock and control.
package scenario

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/jointsim/internal/lock"
	"github.com/san-kum/jointsim/internal/sim"
)

// Standard zone dampings: sluggish travel everywhere, a stiff detent
// region between the handle's open thresholds.
var (
	handleDampings = []float64{15, 200, 15}
	doorDampings   = []float64{15, 15}
)

// addHandle appends a handle joint whose two thresholds bound the stiff
// detent region.
func addHandle(world *sim.World, openLow, openHigh float64, limits [2]float64, noise sim.Noise) (int, error) {
	return world.AddJoint(sim.JointConfig{
		States:   []float64{openLow, openHigh},
		Dampings: handleDampings,
		MinLimit: limits[0],
		MaxLimit: limits[1],
		Noise:    noise,
	})
}

// addDoor appends the dependent joint (drawer slide, cupboard door,
// window pane): one threshold at the end of travel, uniform damping.
func addDoor(world *sim.World, limits [2]float64, noise sim.Noise) (int, error) {
	return world.AddJoint(sim.JointConfig{
		States:   []float64{limits[1]},
		Dampings: doorDampings,
		MinLimit: limits[0],
		MaxLimit: limits[1],
		Noise:    noise,
	})
}

// buildKeyed makes a key-style piece: the door is locked everywhere
// except a 20-unit-wide key position picked at random inside the
// handle's travel.
func buildKeyed(kind string) Builder {
	return func(world *sim.World, rng *rand.Rand, opts Options) (*Furniture, error) {
		hl, dl := opts.limit(0), opts.limit(1)
		if hl[1]-hl[0] <= 40 {
			return nil, fmt.Errorf("scenario: handle travel %v too narrow for a key position", hl)
		}

		openAt := hl[0] + 20 + float64(rng.Intn(int(hl[1]-hl[0])-40))
		openLow, openHigh := openAt-10, openAt+10

		handle, err := addHandle(world, openLow, openHigh, hl, opts.Noise)
		if err != nil {
			return nil, err
		}
		door, err := addDoor(world, dl, opts.Noise)
		if err != nil {
			return nil, err
		}

		lock.NewMultiLocker(world, world.Joint(handle), world.Joint(door), []lock.Interval{
			{Low: hl[0], High: openLow},
			{Low: openHigh, High: hl[1]},
		})

		return &Furniture{
			Kind:     kind,
			Joints:   []int{handle, door},
			OpenLow:  openLow,
			OpenHigh: openHigh,
		}, nil
	}
}

// buildHandled makes a handle-style piece: the door is locked over one
// contiguous region and the 20-unit release sits at a randomly chosen
// end of the handle's travel.
func buildHandled(kind string) Builder {
	return func(world *sim.World, rng *rand.Rand, opts Options) (*Furniture, error) {
		hl, dl := opts.limit(0), opts.limit(1)
		if hl[1]-hl[0] <= 40 {
			return nil, fmt.Errorf("scenario: handle travel %v too narrow for a release region", hl)
		}

		var openLow, openHigh float64
		var locked lock.Interval
		if rng.Float64() > 0.5 {
			openLow, openHigh = hl[1]-20, hl[1]
			locked = lock.Interval{Low: hl[0], High: hl[1] - 20}
		} else {
			openLow, openHigh = hl[0], hl[0]+20
			locked = lock.Interval{Low: hl[0] + 20, High: hl[1]}
		}

		handle, err := addHandle(world, openLow, openHigh, hl, opts.Noise)
		if err != nil {
			return nil, err
		}
		door, err := addDoor(world, dl, opts.Noise)
		if err != nil {
			return nil, err
		}

		lock.NewMultiLocker(world, world.Joint(handle), world.Joint(door), []lock.Interval{locked})

		return &Furniture{
			Kind:     kind,
			Joints:   []int{handle, door},
			OpenLow:  openLow,
			OpenHigh: openHigh,
		}, nil
	}
}

// buildWindow makes a three-joint piece: one handle gating both a tilt
// pane and an open pane. The panes release over disjoint handle regions,
// so at most one of them moves for any handle position.
func buildWindow(world *sim.World, rng *rand.Rand, opts Options) (*Furniture, error) {
	hl, tl, ol := opts.limit(0), opts.limit(1), opts.limit(2)
	if hl[1]-hl[0] <= 40 {
		return nil, fmt.Errorf("scenario: handle travel %v too narrow for tilt regions", hl)
	}

	tiltAt := (hl[0] + hl[1]) / 2
	tiltRegions := []lock.Interval{
		{Low: hl[0], High: tiltAt - 10},
		{Low: tiltAt + 10, High: hl[1]},
	}

	var openLow, openHigh float64
	var openLocked lock.Interval
	if rng.Float64() > 0.5 {
		openLow, openHigh = hl[1]-20, hl[1]
		openLocked = lock.Interval{Low: hl[0], High: hl[1] - 20}
	} else {
		openLow, openHigh = hl[0], hl[0]+20
		openLocked = lock.Interval{Low: hl[0] + 20, High: hl[1]}
	}

	handle, err := world.AddJoint(sim.JointConfig{
		States:   []float64{hl[0], tiltAt - 10, tiltAt + 10, hl[1]},
		Dampings: []float64{15, 200, 15, 200, 15},
		MinLimit: hl[0],
		MaxLimit: hl[1],
		Noise:    opts.Noise,
	})
	if err != nil {
		return nil, err
	}
	tilt, err := addDoor(world, tl, opts.Noise)
	if err != nil {
		return nil, err
	}
	open, err := addDoor(world, ol, opts.Noise)
	if err != nil {
		return nil, err
	}

	lock.NewMultiLocker(world, world.Joint(handle), world.Joint(tilt), tiltRegions)
	lock.NewMultiLocker(world, world.Joint(handle), world.Joint(open), []lock.Interval{openLocked})

	return &Furniture{
		Kind:     "window",
		Joints:   []int{handle, tilt, open},
		OpenLow:  openLow,
		OpenHigh: openHigh,
	}, nil
}

// buildRandom adds opts.Pieces furniture pieces of randomly chosen
// kinds, the way the classic world generator did.
func buildRandom(world *sim.World, rng *rand.Rand, opts Options) (*Furniture, error) {
	kinds := []string{"drawer_key", "drawer_handle", "cupboard_key", "cupboard_handle"}

	all := &Furniture{Kind: "random"}
	for i := 0; i < opts.Pieces; i++ {
		f, err := Build(kinds[rng.Intn(len(kinds))], world, rng, opts)
		if err != nil {
			return nil, err
		}
		all.Joints = append(all.Joints, f.Joints...)
	}
	return all, nil
}
