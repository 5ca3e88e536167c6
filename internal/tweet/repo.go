package tweet

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Record(ctx context.Context, rec *HistoryRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// ListByVisitor returns the visitor's records newest first. ULID ids are
// time-ordered, so id breaks created_at ties.
func (r *Repo) ListByVisitor(ctx context.Context, visitorID string, limit int) ([]HistoryRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var recs []HistoryRecord
	if err := r.db.WithContext(ctx).
		Where("visitor_id = ?", visitorID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Delete removes a record only when both id and visitor_id match. A
// visitor can never delete another visitor's record; a miss is a no-op.
func (r *Repo) Delete(ctx context.Context, id, visitorID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND visitor_id = ?", id, visitorID).
		Delete(&HistoryRecord{}).Error
}
