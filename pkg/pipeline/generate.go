package pipeline

import (
	"context"
	"fmt"

	"github.com/plotfield/plotfield/pkg/field"
	"github.com/plotfield/plotfield/pkg/piece"
	"github.com/plotfield/plotfield/pkg/scene"
)

// Generate builds the scene for the selected piece. The context is checked
// before the build starts; builders themselves run to completion, the
// longest (a dense waves mesh) staying well under a second.
func Generate(ctx context.Context, opts Options) (*scene.Scene, error) {
	pc := piece.Find(opts.Piece)
	if pc == nil {
		return nil, ValidatePiece(opts.Piece)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Normalizing here keeps standalone calls consistent with the Runner:
	// the rng must be seeded from the same value the builder sees.
	params := pc.Normalize(opts.Params)
	rng := field.NewRand(params.Seed)
	sc, err := pc.Build(params, rng)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", opts.Piece, err)
	}
	return sc, nil
}
