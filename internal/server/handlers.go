package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/plotfield/plotfield/pkg/buildinfo"
	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/piece"
	"github.com/plotfield/plotfield/pkg/pipeline"
	"github.com/plotfield/plotfield/pkg/preset"
)

// contentTypes maps output formats to their MIME types.
var contentTypes = map[string]string{
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type piecesResponse struct {
	Pieces  []pieceInfo  `json:"pieces"`
	Presets []presetInfo `json:"presets"`
}

type pieceInfo struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type presetInfo struct {
	Name    string `json:"name"`
	Piece   string `json:"piece"`
	Summary string `json:"summary,omitempty"`
}

// renderResponse is the POST /v1/render envelope. Artifacts are base64 in
// the JSON encoding, keyed by format.
type renderResponse struct {
	Piece        string            `json:"piece"`
	Seed         uint64            `json:"seed"`
	SceneHash    string            `json:"scene_hash"`
	Marks        int               `json:"marks"`
	Panels       int               `json:"panels"`
	GenerateMS   int64             `json:"generate_ms"`
	RenderMS     int64             `json:"render_ms"`
	SceneCached  bool              `json:"scene_cached"`
	RenderCached bool              `json:"render_cached"`
	Artifacts    map[string][]byte `json:"artifacts"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handlePieces(w http.ResponseWriter, r *http.Request) {
	resp := piecesResponse{
		Pieces:  make([]pieceInfo, 0, len(piece.All)),
		Presets: []presetInfo{},
	}
	for _, pc := range piece.All {
		resp.Pieces = append(resp.Pieces, pieceInfo{
			Name:    pc.Name,
			Summary: pc.Summary,
			Width:   pc.FrameW,
			Height:  pc.FrameH,
		})
	}
	presets, err := preset.List()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, p := range presets {
		resp.Presets = append(resp.Presets, presetInfo{Name: p.Name, Piece: p.Piece, Summary: p.Summary})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRenderGet renders one artifact and streams it with its MIME type.
// The piece comes from the path, everything else from query parameters.
func (s *Server) handleRenderGet(w http.ResponseWriter, r *http.Request) {
	opts, err := parseRenderQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Piece = chi.URLParam(r, "piece")
	if err := pipeline.ValidatePiece(opts.Piece); err != nil {
		s.writeError(w, r, err)
		return
	}

	format := pipeline.DefaultFormat
	if len(opts.Formats) == 1 {
		format = opts.Formats[0]
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	if err := s.applyPreset(&opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := rejectScript(opts); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Seed", strconv.FormatUint(result.Scene.Seed, 10))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

// handleRenderPost accepts a full pipeline Options body and returns a JSON
// envelope carrying every requested artifact.
func (s *Server) handleRenderPost(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if opts.Piece == "" && opts.Preset == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request needs a piece or a preset"))
		return
	}

	if err := s.applyPreset(&opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := rejectScript(opts); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{
		Piece:        opts.Piece,
		Seed:         result.Scene.Seed,
		SceneHash:    result.SceneHash,
		Marks:        result.Stats.MarkCount,
		Panels:       result.Stats.PanelCount,
		GenerateMS:   result.Stats.GenerateTime.Milliseconds(),
		RenderMS:     result.Stats.RenderTime.Milliseconds(),
		SceneCached:  result.CacheInfo.SceneHit,
		RenderCached: result.CacheInfo.RenderHit,
		Artifacts:    result.Artifacts,
	})
}

// applyPreset resolves opts.Preset, if any, the same way the CLI does:
// explicit values win, the preset fills the rest.
func (s *Server) applyPreset(opts *pipeline.Options) error {
	if opts.Preset == "" {
		return nil
	}
	return preset.Apply(opts.Preset, opts)
}

// rejectScript blocks Lua warp scripts over HTTP. Scripts name files on the
// server's disk, which only the operator should choose.
func rejectScript(opts pipeline.Options) error {
	if opts.Script != "" {
		return errors.New(errors.ErrCodeInvalidParam, "script warps are not available over HTTP")
	}
	return nil
}

// parseRenderQuery builds Options from GET query parameters. Unknown
// parameters are ignored; malformed values are coded errors.
func parseRenderQuery(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParam, "invalid seed: %q", v)
		}
		opts.Seed = seed
	}
	if v := q.Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParam, "invalid width: %q", v)
		}
		opts.Width = n
	}
	if v := q.Get("height"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParam, "invalid height: %q", v)
		}
		opts.Height = n
	}
	if v := q.Get("alpha"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParam, "invalid alpha: %q", v)
		}
		opts.Alpha = f
	}
	if v := q.Get("axes"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParam, "invalid axes: %q", v)
		}
		opts.Axes = b
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParam, "invalid refresh: %q", v)
		}
		opts.Refresh = b
	}
	if v := q.Get("format"); v != "" {
		opts.Formats = []string{v}
	}
	opts.Preset = q.Get("preset")
	opts.Palette = q.Get("palette")
	opts.Projection = q.Get("projection")

	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps a coded error to an HTTP status and a JSON body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, errorResponse{Error: string(code), Message: err.Error()})
}

// statusForCode maps error codes to HTTP statuses: bad input is 400,
// missing things are 404, everything else is the server's fault.
func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPiece, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidPalette, errors.ErrCodeInvalidPreset, errors.ErrCodeInvalidParam,
		errors.ErrCodeInvalidProjection, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
