package ai

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Attempt names one backend in the fallback sequence.
type Attempt struct {
	Name     string
	Provider Provider
}

// Gateway tries each backend in order and returns the first non-empty
// result. Any error or whitespace-only content advances to the next
// attempt; the two failure flavors are deliberately not distinguished.
type Gateway struct {
	attempts []Attempt
	log      *logrus.Logger
}

func NewGateway(log *logrus.Logger, attempts ...Attempt) *Gateway {
	return &Gateway{attempts: attempts, log: log}
}

func (g *Gateway) Generate(ctx context.Context, prompt string) (string, error) {
	for _, a := range g.attempts {
		start := time.Now()
		text, err := a.Provider.Generate(ctx, prompt)
		fields := logrus.Fields{
			"backend": a.Name,
			"cost":    time.Since(start).String(),
		}
		if err != nil {
			g.log.WithFields(fields).WithError(err).Warn("model attempt failed")
			continue
		}
		if strings.TrimSpace(text) == "" {
			g.log.WithFields(fields).Warn("model attempt returned empty content")
			continue
		}
		g.log.WithFields(fields).Info("model attempt succeeded")
		return text, nil
	}
	return "", ErrUnavailable
}
