package scenario_test

import (
	"context"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/jointsim/internal/action"
	"github.com/san-kum/jointsim/internal/control"
	"github.com/san-kum/jointsim/internal/scenario"
	"github.com/san-kum/jointsim/internal/sim"
)

// machineFor attaches one controller per joint and wraps the world in an
// action machine, the way the CLI does after building a scenario.
func machineFor(world *sim.World) *action.Machine {
	controllers := make([]*control.Controller, 0, world.NumJoints())
	for i := 0; i < world.NumJoints(); i++ {
		controllers = append(controllers, control.NewController(world, i))
	}
	return action.New(world, controllers)
}

var _ = Describe("furniture registry", func() {
	var (
		world *sim.World
		rng   *rand.Rand
		opts  scenario.Options
	)

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(42))
		world = sim.NewWorld(rng)
		opts = scenario.DefaultOptions()
	})

	It("rejects unknown kinds", func() {
		_, err := scenario.Build("sofa", world, rng, opts)
		Expect(err).To(MatchError(scenario.ErrUnknownKind))
	})

	It("lists registered kinds", func() {
		Expect(scenario.Kinds()).To(ContainElements("drawer_key", "cupboard_handle", "window", "lockbox"))
	})

	Describe("drawer with key", func() {
		var f *scenario.Furniture

		BeforeEach(func() {
			var err error
			f, err = scenario.Build("drawer_key", world, rng, opts)
			Expect(err).NotTo(HaveOccurred())
		})

		It("adds a handle and a door", func() {
			Expect(f.Joints).To(HaveLen(2))
			Expect(world.NumJoints()).To(Equal(2))
		})

		It("keeps the door locked until the handle finds the key position", func() {
			m := machineFor(world)
			handle, door := f.Joints[0], f.Joints[1]

			state, err := m.CheckState(door)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(action.Locked), "door should start locked with the handle at rest")

			openAt := (f.OpenLow + f.OpenHigh) / 2
			Expect(m.RunAction(context.Background(), []action.Goal{{Joint: handle, Target: openAt}})).To(Succeed())

			state, err = m.CheckState(door)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(action.Free), "door should release once the handle is in the key position")
		})

		It("lets the door reach a goal once released", func() {
			m := machineFor(world)
			handle, door := f.Joints[0], f.Joints[1]
			openAt := (f.OpenLow + f.OpenHigh) / 2

			Expect(m.RunAction(context.Background(), []action.Goal{
				{Joint: handle, Target: openAt},
				{Joint: door, Target: 60},
			})).To(Succeed())

			Expect(world.Joint(door).TrueQ()).To(BeNumerically("~", 60, 0.5))
		})
	})

	Describe("drawer with handle", func() {
		It("releases at one end of the handle travel", func() {
			f, err := scenario.Build("drawer_handle", world, rng, opts)
			Expect(err).NotTo(HaveOccurred())

			m := machineFor(world)
			openAt := (f.OpenLow + f.OpenHigh) / 2

			Expect(m.RunAction(context.Background(), []action.Goal{{Joint: f.Joints[0], Target: openAt}})).To(Succeed())

			state, err := m.CheckState(f.Joints[1])
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(action.Free))
		})
	})

	Describe("window", func() {
		It("adds a handle and two panes", func() {
			f, err := scenario.Build("window", world, rng, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Joints).To(HaveLen(3))
		})

		It("starts with the tilt pane gated by the handle", func() {
			f, err := scenario.Build("window", world, rng, opts)
			Expect(err).NotTo(HaveOccurred())

			// Handle at 0 sits in the tilt pane's locked region.
			m := machineFor(world)
			state, err := m.CheckState(f.Joints[1])
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(action.Locked))
		})
	})

	Describe("lockbox", func() {
		It("chains each joint's mobility to its predecessor", func() {
			opens, err := scenario.Lockbox(world, rng, 3, opts.Noise)
			Expect(err).NotTo(HaveOccurred())
			Expect(opens).To(HaveLen(3))

			m := machineFor(world)

			// Probe the gated joint before the free one: probing joint 0
			// shoves it around, which is exactly what decides joint 1's
			// lock state.
			state, err := m.CheckState(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(action.Locked), "the second joint starts gated")

			state, err = m.CheckState(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(action.Free), "the first joint has no predecessor")

			Expect(m.RunAction(context.Background(), []action.Goal{{Joint: 0, Target: opens[0]}})).To(Succeed())

			state, err = m.CheckState(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(action.Free), "opening joint 0 releases joint 1")
		})
	})

	Describe("random world", func() {
		It("adds two joints per piece", func() {
			opts.Pieces = 4
			f, err := scenario.Build("random", world, rng, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Joints).To(HaveLen(8))
		})
	})
})
