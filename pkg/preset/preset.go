// Package preset provides named parameter bundles for the pieces.
//
// Built-in presets ship embedded in the binary; the classic-* family pins
// the constants of the project's first plots so they survive any drift in
// the piece defaults. Users can add or override presets with a TOML file
// at $XDG_CONFIG_HOME/plotfield/presets.toml (~/.config/plotfield/presets.toml
// when XDG_CONFIG_HOME is unset):
//
//	[dense-flow]
//	piece = "flow"
//	summary = "ten thousand short trails"
//
//	[dense-flow.params]
//	particles = 10000
//	lifespan = 40
//
// Apply copies a preset onto a pipeline.Options, skipping every field the
// caller already set. Command-line flags therefore win over preset values,
// and preset values win over piece defaults.
package preset

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/piece"
	"github.com/plotfield/plotfield/pkg/pipeline"
)

//go:embed presets.toml
var builtinTOML []byte

const (
	configDirName = "plotfield"
	userFileName  = "presets.toml"
)

// Preset is a named bundle of piece parameters plus optional frame settings.
// Zero-valued fields are left to the piece defaults.
type Preset struct {
	Name    string `toml:"-"`
	Piece   string `toml:"piece"`
	Summary string `toml:"summary"`

	Params piece.Params `toml:"params"`

	// Frame settings, all optional.
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Projection string `toml:"projection"`
	Axes       bool   `toml:"axes"`
}

var (
	builtinOnce sync.Once
	builtins    map[string]Preset
	builtinErr  error
)

func loadBuiltins() (map[string]Preset, error) {
	builtinOnce.Do(func() {
		builtins, builtinErr = parse(builtinTOML)
		if builtinErr != nil {
			builtinErr = fmt.Errorf("builtin presets: %w", builtinErr)
		}
	})
	return builtins, builtinErr
}

// Load returns every known preset by name: the built-ins overlaid with the
// user's presets file, if one exists. User presets win on name collisions.
func Load() (map[string]Preset, error) {
	base, err := loadBuiltins()
	if err != nil {
		return nil, err
	}
	presets := make(map[string]Preset, len(base))
	for name, p := range base {
		presets[name] = p
	}

	path, err := userPresetPath()
	if err != nil {
		return presets, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return presets, nil
		}
		return nil, fmt.Errorf("read user presets: %w", err)
	}
	user, err := parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPreset, err, "user presets %s", path)
	}
	for name, p := range user {
		presets[name] = p
	}
	return presets, nil
}

// List returns every known preset sorted by name.
func List() ([]Preset, error) {
	byName, err := Load()
	if err != nil {
		return nil, err
	}
	list := make([]Preset, 0, len(byName))
	for _, p := range byName {
		list = append(list, p)
	}
	slices.SortFunc(list, func(a, b Preset) int {
		return strings.Compare(a.Name, b.Name)
	})
	return list, nil
}

// Names returns every known preset name, sorted.
func Names() ([]string, error) {
	byName, err := Load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Apply overlays the named preset onto opts. Fields the caller already set
// keep their values; everything else takes the preset's value, and whatever
// the preset leaves out falls through to the piece defaults. Applying a
// preset to a different piece than it was written for is an error.
func Apply(name string, opts *pipeline.Options) error {
	presets, err := Load()
	if err != nil {
		return err
	}
	p, ok := presets[name]
	if !ok {
		names, _ := Names()
		return errors.New(errors.ErrCodeInvalidPreset, "unknown preset: %q (valid: %s)",
			name, strings.Join(names, ", "))
	}
	if opts.Piece == "" {
		opts.Piece = p.Piece
	} else if p.Piece != "" && opts.Piece != p.Piece {
		return errors.New(errors.ErrCodeInvalidPreset, "preset %q is for piece %q, not %q",
			name, p.Piece, opts.Piece)
	}
	mergeParams(&opts.Params, p.Params)
	if opts.Width == 0 {
		opts.Width = p.Width
	}
	if opts.Height == 0 {
		opts.Height = p.Height
	}
	if opts.Projection == "" {
		opts.Projection = p.Projection
	}
	if p.Axes {
		opts.Axes = true
	}
	return nil
}

// parse decodes a presets file and fills in the map-key names. Every preset
// must name a known piece so mistakes surface at load time, not render time.
func parse(data []byte) (map[string]Preset, error) {
	var raw map[string]Preset
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	presets := make(map[string]Preset, len(raw))
	for name, p := range raw {
		if err := errors.ValidatePresetName(name); err != nil {
			return nil, err
		}
		if piece.Find(p.Piece) == nil {
			return nil, errors.New(errors.ErrCodeInvalidPreset,
				"preset %q names unknown piece %q (valid: %s)",
				name, p.Piece, strings.Join(piece.Names(), ", "))
		}
		p.Name = name
		presets[name] = p
	}
	return presets, nil
}

// mergeParams copies src values into zero-valued fields of dst. Params is a
// flat struct of scalars and strings, so a field-wise zero check is enough.
// The one blind spot is explicit zeroes: a flag set to its zero value is
// indistinguishable from an unset one, same as with the piece defaults.
func mergeParams(dst *piece.Params, src piece.Params) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src)
	for i := 0; i < dv.NumField(); i++ {
		if dv.Field(i).IsZero() {
			dv.Field(i).Set(sv.Field(i))
		}
	}
}

// userPresetPath returns the user presets file location using the XDG
// standard (~/.config/plotfield/presets.toml).
func userPresetPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, configDirName, userFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", configDirName, userFileName), nil
}
