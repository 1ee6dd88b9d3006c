// Package render turns scenes into image artifacts.
//
// # Overview
//
// Rendering splits into two stages. [BuildFrame] computes the frame: panels
// tile horizontally across the output rectangle and each panel's data
// bounds are fitted into its viewport (aspect-preserving, centered, data
// y-up mapped to pixel y-down). The sinks then serialize the framed scene:
//
//   - [RenderPNG] rasterizes onto a software canvas
//   - [RenderSVG] writes native SVG elements
//   - [ToPDF] converts SVG through rsvg-convert
//   - [RenderJSON] exports frame plus scene for external tooling
//
// Marks whose projected coordinates are non-finite are skipped by every
// sink; polylines break into separate runs around such gaps.
//
// # Projections
//
// The default projection is cartesian. Under the polar projection a mark's
// x coordinate is read as an angle in radians and its y as a radius, mapped
// so the largest absolute radius in the panel's bounds touches the
// viewport's inscribed circle.
//
// # Chrome
//
// Sinks draw no axes, ticks, or labels by default. Framing with axes
// enabled adds a panel border and, in cartesian panels whose bounds
// straddle zero, the two origin lines.
package render
