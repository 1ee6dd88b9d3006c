package pipeline

import (
	"fmt"

	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/render"
	"github.com/plotfield/plotfield/pkg/scene"
)

// Render generates output artifacts in the requested formats. The frame is
// derived from the scene and options here; PDF piggybacks on the SVG bytes
// so requesting both costs one SVG render.
func Render(sc *scene.Scene, opts Options) (map[string][]byte, error) {
	frame, err := render.BuildFrame(sc, opts.FrameOptions()...)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}

	artifacts := make(map[string][]byte)
	var svgData []byte

	renderSVG := func() ([]byte, error) {
		if svgData == nil {
			data, err := render.RenderSVG(sc, frame)
			if err != nil {
				return nil, err
			}
			svgData = data
		}
		return svgData, nil
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPNG:
			data, err = render.RenderPNG(sc, frame)
		case FormatSVG:
			data, err = renderSVG()
		case FormatPDF:
			var svg []byte
			if svg, err = renderSVG(); err == nil {
				data, err = render.ToPDF(svg)
			}
		case FormatJSON:
			data, err = render.RenderJSON(sc, frame)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
