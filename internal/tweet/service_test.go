package tweet

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tweetsmith/tweetsmith/internal/ai"
)

type recordingGateway struct {
	lastPrompt string
	reply      string
	err        error
}

func (g *recordingGateway) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	g.lastPrompt = prompt
	return g.reply, g.err
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// one connection keeps the in-memory database alive and isolated per test
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&HistoryRecord{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, gw ai.Provider) (*Service, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	repo := NewRepo(db)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(repo, repo, gw, log), db
}

func TestImprove_SingleWritesHistory(t *testing.T) {
	gw := &recordingGateway{
		reply: "```json\n{\"type\":\"single\",\"hook\":\"Hello world.\",\"body\":\"This is a short test.\",\"closing\":\"Try it.\"}\n```",
	}
	svc, db := newTestService(t, gw)

	res, err := svc.Improve(context.Background(), ImproveInput{
		Text:      "Hello world. This is a short test.",
		Mode:      "auto",
		VisitorID: "visitor-1",
	})
	if err != nil {
		t.Fatalf("improve: %v", err)
	}
	if res.IsThread() {
		t.Fatal("34-char auto input must resolve to single")
	}
	if !strings.Contains(gw.lastPrompt, "Emoji: add none.") {
		t.Fatalf("expected no-emoji directive in prompt:\n%s", gw.lastPrompt)
	}

	var recs []HistoryRecord
	if err := db.Find(&recs).Error; err != nil {
		t.Fatalf("query history: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.VisitorID != "visitor-1" || rec.IsThread || rec.Mode != "auto" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.ImprovedText != res.Tweets[0] {
		t.Fatalf("improved text mismatch: %q vs %q", rec.ImprovedText, res.Tweets[0])
	}
	if rec.OriginalText != "Hello world. This is a short test." {
		t.Fatalf("original text mismatch: %q", rec.OriginalText)
	}
	if len(rec.ID) != 26 {
		t.Fatalf("expected ULID id, got %q", rec.ID)
	}
}

func TestImprove_ThreadJoinsWithSeparator(t *testing.T) {
	gw := &recordingGateway{
		reply: `{"type":"thread","thread":[{"hook":"a","body":"b","closing":""},{"hook":"c","body":"d","closing":""}]}`,
	}
	svc, db := newTestService(t, gw)

	res, err := svc.Improve(context.Background(), ImproveInput{
		Text:      "whatever",
		Mode:      "thread",
		VisitorID: "visitor-2",
	})
	if err != nil {
		t.Fatalf("improve: %v", err)
	}
	if !res.IsThread() || len(res.Tweets) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}

	var rec HistoryRecord
	if err := db.First(&rec).Error; err != nil {
		t.Fatalf("query history: %v", err)
	}
	if !rec.IsThread {
		t.Fatal("expected isThread true")
	}
	want := res.Tweets[0] + TweetSeparator + res.Tweets[1]
	if rec.ImprovedText != want {
		t.Fatalf("improved text %q, want %q", rec.ImprovedText, want)
	}
}

func TestImprove_NoVisitorSkipsHistory(t *testing.T) {
	gw := &recordingGateway{reply: `{"type":"single","hook":"h","body":"b","closing":"c"}`}
	svc, db := newTestService(t, gw)

	if _, err := svc.Improve(context.Background(), ImproveInput{Text: "x", Mode: "single"}); err != nil {
		t.Fatalf("improve: %v", err)
	}

	var count int64
	if err := db.Model(&HistoryRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no history without visitor id, got %d", count)
	}
}

func TestImprove_GatewayFailureWritesNothing(t *testing.T) {
	gw := &recordingGateway{err: ai.ErrUnavailable}
	svc, db := newTestService(t, gw)

	_, err := svc.Improve(context.Background(), ImproveInput{Text: "x", VisitorID: "v"})
	if !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	var count int64
	if err := db.Model(&HistoryRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no history on gateway failure, got %d", count)
	}
}

type failingRecorder struct{}

func (failingRecorder) Record(ctx context.Context, rec *HistoryRecord) error {
	return errors.New("store down")
}

func TestImprove_PersistenceFailureIsSwallowed(t *testing.T) {
	gw := &recordingGateway{reply: `{"type":"single","hook":"h","body":"b","closing":"c"}`}
	db := openTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := NewService(NewRepo(db), failingRecorder{}, gw, log)

	res, err := svc.Improve(context.Background(), ImproveInput{Text: "x", VisitorID: "v"})
	if err != nil {
		t.Fatalf("persistence failure must not surface: %v", err)
	}
	if len(res.Tweets) != 1 {
		t.Fatalf("expected result despite store failure, got %+v", res)
	}
}

func TestHistory_ScopedByVisitor(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)

	seed := []HistoryRecord{
		{ID: "01AAAAAAAAAAAAAAAAAAAAAAAA", VisitorID: "alice", OriginalText: "a", ImprovedText: "a+", Mode: "auto"},
		{ID: "01BBBBBBBBBBBBBBBBBBBBBBBB", VisitorID: "alice", OriginalText: "b", ImprovedText: "b+", Mode: "auto"},
		{ID: "01CCCCCCCCCCCCCCCCCCCCCCCC", VisitorID: "bob", OriginalText: "c", ImprovedText: "c+", Mode: "auto"},
	}
	for i := range seed {
		if err := repo.Record(context.Background(), &seed[i]); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	recs, err := repo.ListByVisitor(context.Background(), "alice", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records for alice, got %d", len(recs))
	}
	// newest first: same created_at resolution falls back to id DESC
	if recs[0].ID != "01BBBBBBBBBBBBBBBBBBBBBBBB" || recs[1].ID != "01AAAAAAAAAAAAAAAAAAAAAAAA" {
		t.Fatalf("unexpected order: %q then %q", recs[0].ID, recs[1].ID)
	}
}

func TestDelete_OtherVisitorIsNoOp(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)

	rec := HistoryRecord{ID: "01AAAAAAAAAAAAAAAAAAAAAAAA", VisitorID: "alice", OriginalText: "a", ImprovedText: "a+", Mode: "auto"}
	if err := repo.Record(context.Background(), &rec); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// wrong owner: no error, record untouched
	if err := repo.Delete(context.Background(), rec.ID, "mallory"); err != nil {
		t.Fatalf("cross-visitor delete must not error: %v", err)
	}
	var count int64
	if err := db.Model(&HistoryRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatal("record must survive a cross-visitor delete")
	}

	// right owner: gone
	if err := repo.Delete(context.Background(), rec.ID, "alice"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := db.Model(&HistoryRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatal("owner delete should remove the record")
	}

	// missing id: still a no-op
	if err := repo.Delete(context.Background(), "nope", "alice"); err != nil {
		t.Fatalf("missing-id delete must not error: %v", err)
	}
}
