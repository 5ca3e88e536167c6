package ai

import (
	"context"
	"errors"
)

// Provider is a single hosted model backend that turns a prompt into text.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrUnavailable is returned by the gateway when every backend in the
// fallback sequence failed or produced empty content.
var ErrUnavailable = errors.New("all model backends unavailable")
