package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/plotfield/plotfield/pkg/cache"
	"github.com/plotfield/plotfield/pkg/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	t.Cleanup(func() { runner.Close() })
	return New(runner, logger)
}

func doRequest(t *testing.T, s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", ct)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp healthResponse
	decodeJSON(t, rec, &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response has no X-Request-ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-chosen")
	echo := httptest.NewRecorder()
	s.Router().ServeHTTP(echo, req)
	if got := echo.Header().Get("X-Request-ID"); got != "caller-chosen" {
		t.Errorf("X-Request-ID = %q, want caller-chosen", got)
	}
}

func TestPieces(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/v1/pieces", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp piecesResponse
	decodeJSON(t, rec, &resp)

	names := map[string]bool{}
	for _, p := range resp.Pieces {
		names[p.Name] = true
		if p.Width <= 0 || p.Height <= 0 {
			t.Errorf("piece %s has size %dx%d", p.Name, p.Width, p.Height)
		}
	}
	for _, want := range []string{"distort", "flow", "strokes", "squares", "waves"} {
		if !names[want] {
			t.Errorf("pieces missing %q", want)
		}
	}

	presets := map[string]string{}
	for _, p := range resp.Presets {
		presets[p.Name] = p.Piece
	}
	if presets["classic-flow"] != "flow" {
		t.Errorf("classic-flow piece = %q, want flow", presets["classic-flow"])
	}
}

func TestRenderGetPNG(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet,
		"/v1/render/squares?seed=7&width=80&height=80", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if got := rec.Header().Get("X-Seed"); got != "7" {
		t.Errorf("X-Seed = %q, want 7", got)
	}

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if w := img.Bounds().Dx(); w != 80 {
		t.Errorf("image width = %d, want 80", w)
	}
}

func TestRenderGetJSON(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/v1/render/waves?format=json&seed=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !json.Valid(rec.Body.Bytes()) {
		t.Error("scene artifact is not valid JSON")
	}
}

func TestRenderGetDeterministic(t *testing.T) {
	s := newTestServer(t)

	const target = "/v1/render/squares?format=svg&seed=11&width=120&height=120"
	a := doRequest(t, s, http.MethodGet, target, nil)
	b := doRequest(t, s, http.MethodGet, target, nil)
	if a.Code != http.StatusOK || b.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d, want 200", a.Code, b.Code)
	}
	if !bytes.Equal(a.Body.Bytes(), b.Body.Bytes()) {
		t.Error("identical requests produced different artifacts")
	}
}

func TestRenderGetErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
	}{
		{"unknown piece", "/v1/render/mandelbrot", http.StatusBadRequest, "INVALID_PIECE"},
		{"bad format", "/v1/render/squares?format=gif", http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad seed", "/v1/render/squares?seed=banana", http.StatusBadRequest, "INVALID_PARAM"},
		{"bad width", "/v1/render/squares?width=wide", http.StatusBadRequest, "INVALID_PARAM"},
		{"bad palette", "/v1/render/squares?palette=neon", http.StatusBadRequest, "INVALID_PALETTE"},
		{"preset for another piece", "/v1/render/waves?preset=classic-flow", http.StatusBadRequest, "INVALID_PRESET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodGet, tt.target, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var resp errorResponse
			decodeJSON(t, rec, &resp)
			if resp.Error != tt.wantCode {
				t.Errorf("error code = %q, want %q", resp.Error, tt.wantCode)
			}
			if resp.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestRenderPost(t *testing.T) {
	s := newTestServer(t)

	body := `{"piece": "squares", "seed": 5, "rows": 4, "cols": 4, "formats": ["json", "svg"]}`
	rec := doRequest(t, s, http.MethodPost, "/v1/render", strings.NewReader(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	var resp renderResponse
	decodeJSON(t, rec, &resp)
	if resp.Piece != "squares" {
		t.Errorf("piece = %q, want squares", resp.Piece)
	}
	if resp.Seed != 5 {
		t.Errorf("seed = %d, want 5", resp.Seed)
	}
	if resp.Marks == 0 {
		t.Error("marks = 0, want > 0")
	}
	if len(resp.Artifacts["json"]) == 0 || len(resp.Artifacts["svg"]) == 0 {
		t.Errorf("artifacts missing: got formats %v", artifactFormats(resp.Artifacts))
	}
}

func TestRenderPostPresetOnly(t *testing.T) {
	s := newTestServer(t)

	body := `{"preset": "classic-squares", "formats": ["json"]}`
	rec := doRequest(t, s, http.MethodPost, "/v1/render", strings.NewReader(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	var resp renderResponse
	decodeJSON(t, rec, &resp)
	if resp.Piece != "squares" {
		t.Errorf("piece = %q, want squares (from preset)", resp.Piece)
	}
}

func TestRenderPostErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed body", `{"piece": `, http.StatusBadRequest, "INVALID_INPUT"},
		{"empty body", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown piece", `{"piece": "julia"}`, http.StatusBadRequest, "INVALID_PIECE"},
		{"script rejected", `{"piece": "waves", "script": "/etc/warp.lua"}`, http.StatusBadRequest, "INVALID_PARAM"},
		{"unknown preset", `{"preset": "nope"}`, http.StatusBadRequest, "INVALID_PRESET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/v1/render", strings.NewReader(tt.body))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var resp errorResponse
			decodeJSON(t, rec, &resp)
			if resp.Error != tt.wantCode {
				t.Errorf("error code = %q, want %q", resp.Error, tt.wantCode)
			}
		})
	}
}

func artifactFormats(m map[string][]byte) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
