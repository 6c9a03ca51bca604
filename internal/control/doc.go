// Package control provides the per-joint composite controller and its
// two strategies:
//
//   - [ForceController]: constant force for a fixed span of time
//   - [PositionController]: PID toward a goal position, fed by noisy
//     sensor reads
//
// A [Controller] owns one of each, tracks two independent mode flags,
// and resolves them by priority each tick: an armed force command always
// wins over an armed position goal. Output is saturated at [MaxForce]
// before it reaches the joint.
package control
