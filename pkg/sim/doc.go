// Package sim runs the iterative force-directed layout.
//
// # Overview
//
// A [Simulation] owns one [force.Particle] per graph node and advances them
// one tick at a time:
//
//  1. every enabled force of the field adjusts velocities;
//  2. unpinned particles decay their velocity and move, pinned particles are
//     snapped to their pin with zero velocity;
//  3. alpha moves toward alphaTarget by alphaDecay;
//  4. the tick counter increments and a [Frame] is published to the [Sink].
//
// # States
//
//	Idle --Restart--> Running <--> Cooling --alpha < alphaMin--> Idle
//
// The simulation is Running while something holds it hot: an alphaTarget at
// or above alphaMin, or a pending cooldown. With no heat source it is Cooling,
// and it becomes Idle once both alpha and alphaTarget are below alphaMin.
// Idle simulations do not step until reheated with [Simulation.Restart].
//
// # Cooldown
//
// A simulation owns exactly one cooldown timer. [Simulation.ScheduleCooldown]
// arms it (only ever pushing the deadline later), [Simulation.CancelCooldown]
// disarms it, and [Simulation.Advance] fires it when the injected [Clock]
// reaches the deadline by resetting alphaTarget to zero. There are no
// goroutines: whoever drives Advance owns the simulation.
package sim
