// Package scene defines the renderable intermediate representation shared by
// all pieces.
//
// # Overview
//
// A [Scene] is the output of a piece's generate stage and the input of the
// render stage. It holds one or more [Panel] values, each an ordered bag of
// marks (points, paths, rectangle outlines) in data coordinates, with visual
// attributes (size, stroke width, color, opacity) already attached. Scenes
// carry no pixel information; mapping data coordinates to the output frame is
// the renderer's job.
//
// # Coordinates
//
// Data coordinates are Y-up, unbounded floats, but finite: scenes round-trip
// through encoding/json, which rejects NaN and infinities, so piece builders
// drop non-finite points before assembling panels (some warps divide by
// zero). Bounds fitting ignores non-finite values regardless. Each panel
// either declares explicit [Bounds] or has them fitted from its content via
// [Panel.DataBounds].
//
// # Serialization
//
// Scenes round-trip through JSON ([Marshal], [Unmarshal]) for caching and for
// the JSON export format. The encoding is deterministic for a given scene, so
// scene bytes double as hash input for content-addressed artifact keys.
package scene
