package tweet

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tweetsmith/tweetsmith/internal/ai"
	"github.com/tweetsmith/tweetsmith/internal/common"
	"github.com/tweetsmith/tweetsmith/internal/prompt"
)

// Recorder persists one history record. The repo satisfies it directly;
// the rabbit publisher satisfies it for the async path.
type Recorder interface {
	Record(ctx context.Context, rec *HistoryRecord) error
}

type Service struct {
	repo     *Repo
	recorder Recorder
	gateway  ai.Provider
	log      *logrus.Logger
}

func NewService(repo *Repo, recorder Recorder, gateway ai.Provider, log *logrus.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, gateway: gateway, log: log}
}

type ImproveInput struct {
	Text      string
	AddEmojis bool
	Mode      string // auto | single | thread; empty means auto
	VisitorID string
}

// Improve runs the full pipeline: build prompt, call the gateway,
// normalize, then best-effort persist a history record. Persistence
// failures are logged and never surfaced to the caller.
func (s *Service) Improve(ctx context.Context, in ImproveInput) (*Result, error) {
	kind := prompt.DetectKind(in.Text, in.Mode)
	p := prompt.BuildImprove(kind, in.Text, in.AddEmojis)

	raw, err := s.gateway.Generate(ctx, p)
	if err != nil {
		return nil, err
	}

	res := Normalize(raw, kind)

	if in.VisitorID != "" {
		s.recordHistory(ctx, in, res)
	}
	return res, nil
}

func (s *Service) recordHistory(ctx context.Context, in ImproveInput, res *Result) {
	id, err := common.NewULID()
	if err != nil {
		s.log.WithError(err).Warn("history id generation failed")
		return
	}
	mode := in.Mode
	if mode == "" {
		mode = "auto"
	}
	rec := &HistoryRecord{
		ID:           id,
		VisitorID:    in.VisitorID,
		OriginalText: in.Text,
		ImprovedText: strings.Join(res.Tweets, TweetSeparator),
		IsThread:     res.IsThread(),
		Mode:         mode,
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		s.log.WithFields(logrus.Fields{
			"visitor_id": in.VisitorID,
			"record_id":  id,
		}).WithError(err).Warn("history write failed")
	}
}

func (s *Service) History(ctx context.Context, visitorID string) ([]HistoryRecord, error) {
	return s.repo.ListByVisitor(ctx, visitorID, 50)
}

func (s *Service) DeleteHistory(ctx context.Context, id, visitorID string) error {
	return s.repo.Delete(ctx, id, visitorID)
}
