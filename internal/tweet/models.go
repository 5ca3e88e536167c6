package tweet

import "time"

// TweetSeparator joins improved tweets into the single text column the
// history table stores.
const TweetSeparator = "\n---\n"

type HistoryRecord struct {
	ID           string    `gorm:"primaryKey;size:26" json:"id"` // ULID
	VisitorID    string    `gorm:"type:varchar(64);index;not null" json:"visitorId"`
	OriginalText string    `gorm:"type:text;not null" json:"originalText"`
	ImprovedText string    `gorm:"type:text;not null" json:"improvedText"`
	IsThread     bool      `gorm:"not null" json:"isThread"`
	Mode         string    `gorm:"type:varchar(16);not null" json:"mode"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (HistoryRecord) TableName() string { return "tweet_history" }
