package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tweetsmith/tweetsmith/internal/tweet"
)

// Connect opens the MySQL database and migrates the history table.
func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := gdb.AutoMigrate(&tweet.HistoryRecord{}); err != nil {
		return nil, err
	}
	return gdb, nil
}
