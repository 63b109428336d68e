package interactions

import (
	"time"

	"github.com/hameddjf/movie-api/internal/catalog"
)

// Item is one watchlist or favorites membership.
type Item struct {
	ID      int64              `json:"id"`
	UserID  int64              `json:"user_id"`
	Content catalog.ContentRef `json:"content"`
	AddedAt time.Time          `json:"added_at"`
}

// HistoryItem records the most recent watch of a content item. One row per
// (user, content); repeat watches move the timestamp forward.
type HistoryItem struct {
	ID              int64              `json:"id"`
	UserID          int64              `json:"user_id"`
	Content         catalog.ContentRef `json:"content"`
	WatchedAt       time.Time          `json:"watched_at"`
	ProgressSeconds *int               `json:"progress_seconds"`
}
