// Package pipeline provides the core rendering pipeline for plotfield.
//
// This package implements the complete generate → frame → render pipeline
// that can be used by CLI and server components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: Build the scene for a piece from its parameters and seed
//  2. Frame: Compute viewports that map panel data onto the canvas
//  3. Render: Generate output in various formats (PNG, SVG, PDF, JSON)
//
// Scenes and artifacts are cached; frames are cheap to derive and are not.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Piece:   "flow",
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Run individual stages:
//
//	// Generate only
//	sc, err := runner.Generate(ctx, opts)
//
//	// Render an existing scene
//	artifacts, err := runner.Render(ctx, sc, sceneHash, opts)
package pipeline

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plotfield/plotfield/pkg/cache"
	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/flow"
	"github.com/plotfield/plotfield/pkg/palette"
	"github.com/plotfield/plotfield/pkg/piece"
	"github.com/plotfield/plotfield/pkg/render"
	"github.com/plotfield/plotfield/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// MaxCachedMarks is the largest scene, by mark count, that is written to the
// scene cache. Bigger scenes regenerate faster than they deserialize, so
// caching them only burns disk.
const MaxCachedMarks = 500000

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = FormatPNG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Piece selects the generator. Required.
	Piece string `json:"piece"`

	// Preset names a stored parameter set applied before explicit values.
	// Resolution happens in the CLI and server, not here.
	Preset string `json:"preset,omitempty"`

	// Params are the generation parameters. Zero fields are filled with the
	// piece's defaults during validation; the embedded fields share the
	// JSON namespace with the options themselves.
	piece.Params

	// Frame options
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Margin     float64 `json:"margin,omitempty"`
	Projection string  `json:"projection,omitempty"`
	Axes       bool    `json:"axes,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses cache reads; fresh results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the generated scene.
	Scene *scene.Scene

	// SceneHash is the content hash of the marshaled scene.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	MarkCount    int
	PanelCount   int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SceneHit  bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidatePiece checks that a piece name is registered.
func ValidatePiece(name string) error {
	if piece.Find(name) == nil {
		return errors.New(errors.ErrCodeInvalidPiece,
			"unknown piece: %q (valid: %s)", name, strings.Join(piece.Names(), ", "))
	}
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, svg, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProjection checks that a projection is valid.
func ValidateProjection(projection string) error {
	if !render.ValidProjections[projection] {
		return errors.New(errors.ErrCodeInvalidProjection,
			"invalid projection: %q (must be one of: cartesian, polar)", projection)
	}
	return nil
}

// ValidatePalette checks that a palette name is registered.
func ValidatePalette(name string) error {
	_, err := palette.Get(name)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Parameter defaults come from the selected piece, frame
// defaults from its preferred canvas. This method is idempotent - calling it
// multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	pc := piece.Find(o.Piece)
	if pc == nil {
		return ValidatePiece(o.Piece)
	}

	o.Params = pc.Normalize(o.Params)
	o.SetFrameDefaults(pc)
	o.SetRenderDefaults()

	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidParam,
			"frame size %dx%d must be positive", o.Width, o.Height)
	}
	if err := ValidateProjection(o.Projection); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidatePalette(o.Palette); err != nil {
		return err
	}
	if _, ok := flow.ValidDecays[o.Decay]; o.Decay != "" && !ok {
		return errors.New(errors.ErrCodeInvalidParam,
			"invalid decay: %q (must be one of: inv_linear, inv_quadratic, inv_cubic)", o.Decay)
	}
	if o.Script != "" {
		if err := errors.ValidateScriptPath(o.Script); err != nil {
			return err
		}
	}

	o.validated = true
	return nil
}

// SetFrameDefaults sets default values for the frame stage. Each piece
// carries its preferred canvas; distort's six panels want a wide one.
func (o *Options) SetFrameDefaults(pc *piece.Piece) {
	if o.Width == 0 {
		o.Width = pc.FrameW
	}
	if o.Height == 0 {
		o.Height = pc.FrameH
	}
	if o.Margin == 0 {
		o.Margin = render.DefaultMargin
	}
	if o.Projection == "" {
		o.Projection = render.ProjectionCartesian
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// FrameOptions converts the frame fields into render options.
func (o *Options) FrameOptions() []render.FrameOption {
	return []render.FrameOption{
		render.WithSize(o.Width, o.Height),
		render.WithMargin(o.Margin),
		render.WithProjection(o.Projection),
		render.WithAxes(o.Axes),
	}
}

// ParamsHash returns the content hash of the normalized generation
// parameters, used for scene cache keys.
func (o *Options) ParamsHash() (string, error) {
	data, err := json.Marshal(o.Params)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Width:      o.Width,
		Height:     o.Height,
		Margin:     o.Margin,
		Projection: o.Projection,
		Axes:       o.Axes,
	}
}
