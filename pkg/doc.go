// Package pkg provides the core libraries for plotfield generative art.
//
// # Overview
//
// Plotfield turns a piece name, a parameter set, and a seed into a point
// field and renders it to PNG, SVG, PDF, or JSON. Every run is
// deterministic: the same inputs always produce byte-identical output.
// The pkg directory is organized into three main areas:
//
//  1. Domain logic - fields, warps, splines, flow simulation, scenes, pieces
//  2. Rendering - framing, projection, and the format sinks
//  3. Infrastructure - pipeline orchestration, caching, presets, errors
//
// # Architecture
//
// The typical data flow through plotfield:
//
//	Parameters + Seed
//	         ↓
//	    [piece] package (build the point field)
//	         ↓
//	    [scene] package (marks grouped into panels)
//	         ↓
//	    [render] package (frame + project + rasterize)
//	         ↓
//	    PNG/SVG/PDF/JSON output
//
// # Quick Start
//
// Render a piece through the pipeline:
//
//	import (
//	    "context"
//	    "github.com/plotfield/plotfield/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Piece:   "flow",
//	    Formats: []string{"png"},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("flow.png", result.Artifacts["png"], 0644)
//
// # Main Packages
//
// ## Domain Logic
//
// [field] - Scalar and vector fields over grids: spans, meshgrids, pointwise
// mappers from values to visual attributes, and warps (jitter, scale,
// simplex-noise displacement, polar remap, scripted).
//
// [flow] - Flow-field particle simulation: a vector grid built from inverse
// distance-weighted attractors or simplex noise, stepped by particles that
// leave polyline trails.
//
// [spline] - Catmull-Rom interpolation through control points, used by the
// brush-stroke piece.
//
// [scene] - The serializable intermediate form: marks (points, polylines,
// rects) with visual attributes, grouped into panels with data-space bounds.
//
// [piece] - The five generators (distort, flow, strokes, squares, waves),
// their parameter structs, defaults, and the registry the CLI and server
// enumerate.
//
// [script] - Lua-scripted warp functions evaluated per point with gopher-lua.
//
// [palette] - Named color ramps built on go-colorful.
//
// ## Rendering
//
// [render] - Frame derivation (data bounds → pixel transform, margins,
// cartesian or polar projection) and the four sinks: PNG via fogleman/gg,
// handwritten SVG, PDF via rsvg-convert, and scene JSON.
//
// ## Infrastructure
//
// [pipeline] - Options validation and the Runner that orchestrates
// generate → frame → render with scene and artifact caching. Used by both
// the CLI and the HTTP service.
//
// [cache] - Content-addressed cache with file, Redis, and null backends,
// plus the keyer that derives scene and artifact keys from hashed options.
//
// [preset] - Embedded TOML parameter presets (the classic-* sets reproduce
// the project's first plots exactly) with an optional user overlay.
//
// [errors] - Coded errors shared by the CLI (exit messages) and the server
// (HTTP status mapping).
//
// [observability] - Hook interfaces for pipeline and cache events with
// no-op defaults.
//
// [buildinfo] - Version metadata injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/field/...     # Specific package
//	go test -run Example        # Examples only
//
// [field]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/field
// [flow]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/flow
// [spline]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/spline
// [scene]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/scene
// [piece]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/piece
// [script]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/script
// [palette]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/palette
// [render]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/cache
// [preset]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/preset
// [errors]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/errors
// [observability]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/plotfield/plotfield/pkg/buildinfo
package pkg
