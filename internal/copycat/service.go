package copycat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tweetsmith/tweetsmith/internal/ai"
	"github.com/tweetsmith/tweetsmith/internal/prompt"
	"github.com/tweetsmith/tweetsmith/internal/tweet"
)

// GroundedProvider is the single fixed search-grounded backend. There is
// no fallback list on this path: a failure surfaces directly.
type GroundedProvider interface {
	GenerateGrounded(ctx context.Context, prompt string) (*ai.GroundedResult, error)
}

type Service struct {
	provider GroundedProvider
	log      *logrus.Logger
}

func NewService(provider GroundedProvider, log *logrus.Logger) *Service {
	return &Service{provider: provider, log: log}
}

type modelResult struct {
	OriginalTweetInfo OriginalTweetInfo `json:"originalTweetInfo"`
	Results           []Match           `json:"results"`
	Summary           string            `json:"summary"`
}

// Search runs one grounded model call for a validated request.
func (s *Service) Search(ctx context.Context, req Request) (*Result, error) {
	p := prompt.BuildCopycat(req.SearchMode, req.OriginalTweet, req.OriginalDate, req.TweetURL, req.CleanSuspects())

	start := time.Now()
	grounded, err := s.provider.GenerateGrounded(ctx, p)
	if err != nil {
		s.log.WithField("cost", time.Since(start).String()).WithError(err).Warn("copycat search failed")
		return nil, err
	}
	if strings.TrimSpace(grounded.Text) == "" {
		return nil, errors.New("copycat: empty model response")
	}
	s.log.WithFields(logrus.Fields{
		"cost":      time.Since(start).String(),
		"citations": len(grounded.Citations),
	}).Info("copycat search completed")

	out := &Result{
		SearchMode:  req.SearchMode,
		Annotations: grounded.Citations,
	}

	cleaned := tweet.StripFence(grounded.Text)
	var parsed modelResult
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		// same soft degradation as the improve path: carry the raw text
		out.Summary = cleaned
		out.Matches = []Match{}
		return out, nil
	}

	out.OriginalTweetInfo = parsed.OriginalTweetInfo
	out.Matches = parsed.Results
	out.Summary = parsed.Summary
	out.ParseSucceeded = true
	if out.Matches == nil {
		out.Matches = []Match{}
	}
	return out, nil
}
