package preset

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/piece"
	"github.com/plotfield/plotfield/pkg/pipeline"
)

// isolateUserPresets points XDG_CONFIG_HOME at an empty directory so a
// developer's real presets file cannot leak into the tests.
func isolateUserPresets(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

// writeUserPresets drops a presets file where Load will find it and returns
// the config root.
func writeUserPresets(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	dir := filepath.Join(root, configDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, userFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestBuiltinPresets(t *testing.T) {
	isolateUserPresets(t)

	presets, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	for _, name := range []string{
		"classic-distort", "classic-flow", "classic-strokes", "classic-squares", "classic-waves",
	} {
		p, ok := presets[name]
		if !ok {
			t.Errorf("built-in preset %q missing", name)
			continue
		}
		if p.Name != name {
			t.Errorf("preset %q has Name = %q", name, p.Name)
		}
		if p.Summary == "" {
			t.Errorf("preset %q has no summary", name)
		}
		if piece.Find(p.Piece) == nil {
			t.Errorf("preset %q names unknown piece %q", name, p.Piece)
		}
	}
}

// TestClassicPresets pins the classic parameter sets to the constants of the
// plots they reproduce. If one of these fails, the presets file drifted.
func TestClassicPresets(t *testing.T) {
	isolateUserPresets(t)

	tests := []struct {
		name string
		want piece.Params
	}{
		{
			name: "classic-distort",
			want: piece.Params{
				GridW: 150, GridH: 150, Panels: 6,
				SweepFrom: 0.2, SweepTo: -0.3,
				B: 2, C: 1, D: 0.4, Alpha: 0.4,
			},
		},
		{
			name: "classic-flow",
			want: piece.Params{
				FieldW: 1, FieldH: 1, Resolution: 0.05,
				Neighbourhood: 3, Decay: "inv_linear",
				Particles: 3, Lifespan: 100, StepSize: 0.05,
			},
		},
		{
			name: "classic-strokes",
			want: piece.Params{
				Nodes: 8, Strokes: 500, Samples: 100,
				Stroke: 0.1, Palette: "ink",
			},
		},
		{
			name: "classic-squares",
			want: piece.Params{Rows: 12, Cols: 12, SquareSize: 5, Gap: 0.1},
		},
		{
			name: "classic-waves",
			want: piece.Params{Min: -10, Max: 10, Step: 0.05},
		},
	}
	presets, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := presets[tt.name]
			if !ok {
				t.Fatalf("preset %q missing", tt.name)
			}
			if p.Params != tt.want {
				t.Errorf("params = %+v, want %+v", p.Params, tt.want)
			}
		})
	}
}

// Every built-in preset must survive full options validation, so typos in
// palette names, projections, or decay modes cannot ship.
func TestBuiltinPresetsValidate(t *testing.T) {
	isolateUserPresets(t)

	names, err := Names()
	if err != nil {
		t.Fatalf("Names() error: %v", err)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			opts := pipeline.Options{Formats: []string{pipeline.FormatJSON}}
			if err := Apply(name, &opts); err != nil {
				t.Fatalf("Apply(%q) error: %v", name, err)
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				t.Errorf("preset %q does not validate: %v", name, err)
			}
		})
	}
}

func TestApply(t *testing.T) {
	isolateUserPresets(t)

	var opts pipeline.Options
	if err := Apply("classic-squares", &opts); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if opts.Piece != "squares" {
		t.Errorf("Piece = %q, want %q", opts.Piece, "squares")
	}
	if opts.Rows != 12 || opts.Cols != 12 {
		t.Errorf("grid = %dx%d, want 12x12", opts.Rows, opts.Cols)
	}
	if opts.Gap != 0.1 {
		t.Errorf("Gap = %v, want 0.1", opts.Gap)
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Width != 900 || opts.Height != 900 {
		t.Errorf("frame = %dx%d, want 900x900", opts.Width, opts.Height)
	}
}

func TestApplyExplicitValuesWin(t *testing.T) {
	isolateUserPresets(t)

	opts := pipeline.Options{Piece: "squares"}
	opts.Rows = 3
	if err := Apply("classic-squares", &opts); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if opts.Rows != 3 {
		t.Errorf("Rows = %d, want explicit 3 to survive", opts.Rows)
	}
	if opts.Cols != 12 {
		t.Errorf("Cols = %d, want preset 12 to fill in", opts.Cols)
	}
}

func TestApplyFrameSettings(t *testing.T) {
	isolateUserPresets(t)

	var opts pipeline.Options
	if err := Apply("ring-waves", &opts); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if opts.Projection != "polar" {
		t.Errorf("Projection = %q, want %q", opts.Projection, "polar")
	}
	if !opts.Colorize {
		t.Error("Colorize = false, want preset true")
	}
}

func TestApplyPieceMismatch(t *testing.T) {
	isolateUserPresets(t)

	opts := pipeline.Options{Piece: "flow"}
	err := Apply("classic-squares", &opts)
	if !errors.Is(err, errors.ErrCodeInvalidPreset) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidPreset)
	}
}

func TestApplyUnknownPreset(t *testing.T) {
	isolateUserPresets(t)

	var opts pipeline.Options
	err := Apply("does-not-exist", &opts)
	if !errors.Is(err, errors.ErrCodeInvalidPreset) {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidPreset)
	}
	if !strings.Contains(err.Error(), "classic-flow") {
		t.Errorf("error should list valid presets, got: %v", err)
	}
}

func TestUserPresetsOverlay(t *testing.T) {
	writeUserPresets(t, `
[giant-squares]
piece = "squares"
summary = "a 40x40 grid"

[giant-squares.params]
rows = 40
cols = 40

[classic-waves]
piece = "waves"
summary = "coarser than the built-in"

[classic-waves.params]
step = 0.5
`)

	presets, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	p, ok := presets["giant-squares"]
	if !ok {
		t.Fatal("user preset giant-squares missing")
	}
	if p.Params.Rows != 40 || p.Params.Cols != 40 {
		t.Errorf("giant-squares grid = %dx%d, want 40x40", p.Params.Rows, p.Params.Cols)
	}
	if got := presets["classic-waves"].Params.Step; got != 0.5 {
		t.Errorf("classic-waves Step = %v, want user override 0.5", got)
	}
}

func TestUserPresetsBadTOML(t *testing.T) {
	writeUserPresets(t, "not [valid toml")

	if _, err := Load(); !errors.Is(err, errors.ErrCodeInvalidPreset) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidPreset)
	}
}

func TestUserPresetsUnknownPiece(t *testing.T) {
	writeUserPresets(t, `
[broken]
piece = "mandelbrot"
`)

	if _, err := Load(); !errors.Is(err, errors.ErrCodeInvalidPreset) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidPreset)
	}
}

func TestNamesSorted(t *testing.T) {
	isolateUserPresets(t)

	names, err := Names()
	if err != nil {
		t.Fatalf("Names() error: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("no presets")
	}
	if !slices.IsSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
}

func TestListSorted(t *testing.T) {
	isolateUserPresets(t)

	list, err := List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) < 5 {
		t.Fatalf("List() returned %d presets, want at least the classics", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name >= list[i].Name {
			t.Errorf("list out of order at %d: %q >= %q", i, list[i-1].Name, list[i].Name)
		}
	}
}
