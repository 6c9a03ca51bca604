package scenario

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/jointsim/internal/sim"
)

// ErrUnknownKind indicates a furniture kind with no registered builder.
var ErrUnknownKind = errors.New("scenario: unknown furniture kind")

// Options tune a furniture builder. Limits lists the travel range of
// each joint the builder adds, in order; builders fall back to the
// defaults when fewer pairs are given than joints built.
type Options struct {
	Noise  sim.Noise
	Limits [][2]float64

	// Joints is the chain length for the lockbox builder.
	Joints int

	// Pieces is how many random furniture pieces the random builder adds.
	Pieces int
}

// DefaultOptions mirrors the classic setup: near-noiseless sensors, a
// 0..180 handle travel and a 0..120 door travel.
func DefaultOptions() Options {
	return Options{
		Noise:  sim.Noise{Q: 1e-5, Vel: 1e-5},
		Limits: [][2]float64{{0, 180}, {0, 120}, {0, 90}},
		Joints: 5,
		Pieces: 3,
	}
}

func (o Options) limit(i int) [2]float64 {
	if i < len(o.Limits) {
		return o.Limits[i]
	}
	return DefaultOptions().Limits[i]
}

// Furniture reports what a builder added: the world indices of its
// joints and, where the piece has one, the handle interval that releases
// the dependent joint.
type Furniture struct {
	Kind     string
	Joints   []int
	OpenLow  float64
	OpenHigh float64
}

// Builder wires one furniture piece (joints plus lock constraints) into
// the world.
type Builder func(world *sim.World, rng *rand.Rand, opts Options) (*Furniture, error)

var builders map[string]Builder

func init() {
	builders = map[string]Builder{
		"drawer_key":      buildKeyed("drawer_key"),
		"drawer_handle":   buildHandled("drawer_handle"),
		"cupboard_key":    buildKeyed("cupboard_key"),
		"cupboard_handle": buildHandled("cupboard_handle"),
		"window":          buildWindow,
		"lockbox":         buildLockbox,
		"random":          buildRandom,
	}
}

// Kinds lists the registered furniture kinds, sorted.
func Kinds() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build dispatches to the registered builder for kind. Unknown kinds
// fail immediately; there is no silent default.
func Build(kind string, world *sim.World, rng *rand.Rand, opts Options) (*Furniture, error) {
	b, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownKind, kind, Kinds())
	}
	return b(world, rng, opts)
}
