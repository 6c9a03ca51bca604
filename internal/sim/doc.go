// Package sim is the discrete-time core of the joint simulation: joints
// with zoned damping and hard travel limits, and the world that ticks
// them.
//
// The contract that everything else builds on is the tick ordering of
// [World.Step]: all joint state for a tick is finalized before any
// registered [Listener] observes it. Controllers therefore act on the
// next tick, and lock constraints evaluated against tick-T positions
// freeze or release joints starting at tick T+1.
//
// Sensor reads ([Joint.Q], [Joint.Vel]) are perturbed by Gaussian noise
// drawn from the explicit rand.Rand handed to [NewWorld], so runs are
// byte-for-byte reproducible under a fixed seed.
package sim
