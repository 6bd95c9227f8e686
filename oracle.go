package spritemeta

import (
	"context"
	"image"
)

// OracleResult is what an external classifier may contribute. An empty
// Role leaves the heuristic role in place.
type OracleResult struct {
	Role           Role
	AnimationNames []string
	CharacterName  string
}

// Oracle is an optional, best-effort classifier consulted at most once per
// analysis. Any error means "no opinion".
type Oracle interface {
	Classify(ctx context.Context, img image.Image) (*OracleResult, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, img image.Image) (*OracleResult, error)

func (f OracleFunc) Classify(ctx context.Context, img image.Image) (*OracleResult, error) {
	return f(ctx, img)
}
