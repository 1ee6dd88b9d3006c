// Package field generates point grids and transforms them.
//
// # Overview
//
// Pieces build their geometry from three primitives:
//
//   - Generators ([Span], [Mesh], [Lattice]) produce ordered coordinate sets.
//   - Warps ([Warp], composable via [Chain]) map each coordinate pair to a new
//     one. Warps are pure; stochastic warps close over a seeded generator.
//   - Attribute mappers ([ColorFunc], [SizeFunc]) derive per-point visual
//     attributes from the warped coordinates. Mapper output is always clamped
//     to the valid channel range.
//
// All randomness flows through [NewRand], so a fixed seed reproduces a field
// exactly.
package field
