// Package force provides the composable per-tick forces of the layout engine.
//
// # Overview
//
// A [Force] adjusts particle velocities in place; it never moves a particle
// directly. A [Field] holds named forces in registration order and applies
// every enabled one each tick, so contributions compose by summation:
//
//	f := force.NewField(rng)
//	for _, e := range force.Standard(force.DefaultParams(), edges) {
//	    f.Register(e.Name, e.Force)
//	}
//	f.Initialize(particles)
//	f.Apply(particles, alpha)
//
// # Standard Forces
//
// [Standard] builds the five forces of a co-authorship layout, in the order
// they are applied:
//
//   - "collide" ([Collide]): keeps circles of radius × multiplier apart,
//     using predicted positions (x+vx). Not scaled by alpha.
//   - "x", "y" ([Position]): weak pull toward the origin on each axis.
//   - "charge" ([ManyBody]): pairwise repulsion within a distance band,
//     approximated on large graphs with the Barnes-Hut plane from
//     gonum.org/v1/gonum/spatial/barneshut.
//   - "link" ([Link]): springs toward a target distance, biased so the
//     endpoint with fewer links moves more.
//
// A force whose strength is zero, or whose entry is disabled, leaves every
// velocity bit-for-bit unchanged.
//
// # Determinism
//
// Coincident particles are separated by a tiny jiggle drawn from the
// *rand.Rand handed to [Field.Initialize]. With a seeded PCG source the
// whole layout is reproducible.
package force
