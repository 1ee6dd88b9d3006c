package render

import (
	"encoding/json"

	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/scene"
)

type jsonExport struct {
	Frame *Frame       `json:"frame"`
	Scene *scene.Scene `json:"scene"`
}

// RenderJSON exports the frame and scene as a pretty-printed JSON document,
// the interchange format for external tooling: every mark with its data
// coordinates and attributes, plus the viewports needed to reproduce the
// pixel placement.
func RenderJSON(sc *scene.Scene, f *Frame) ([]byte, error) {
	out, err := json.MarshalIndent(jsonExport{Frame: f, Scene: sc}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encoding scene json")
	}
	return append(out, '\n'), nil
}
