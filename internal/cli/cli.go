// Package cli implements the plotfield command-line interface.
//
// The CLI mounts one subcommand per art piece (distort, flow, strokes,
// squares, waves) plus commands for listing and browsing presets, viewing a
// piece in a window, serving renders over HTTP, and managing the artifact
// cache. Commands are built with cobra; progress and status output use the
// charmbracelet stack (log, lipgloss, bubbletea).
//
// All commands accept --verbose (-v) for debug-level logging. Rendered
// artifacts default to <piece>.<format> in the working directory.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/plotfield/plotfield/pkg/buildinfo"
	"github.com/plotfield/plotfield/pkg/cache"
	"github.com/plotfield/plotfield/pkg/piece"
	"github.com/plotfield/plotfield/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "plotfield"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Plotfield renders parametric point-field art",
		Long:         `Plotfield generates point-field art pieces from a handful of parameters and a seed, and renders them to PNG, SVG, PDF, or JSON. Every piece is deterministic: the same parameters and seed always produce the same image.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	for _, pc := range piece.All {
		root.AddCommand(c.pieceCommand(pc))
	}
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/plotfield/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
