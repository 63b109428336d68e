package episodes

import (
	"time"

	"github.com/hameddjf/movie-api/internal/catalog"
)

// Quality is a labeled rendition of an episode. Declared order is the
// presentation order.
type Quality string

const (
	Quality480p  Quality = "480p"
	Quality720p  Quality = "720p"
	Quality1080p Quality = "1080p"
	Quality2160p Quality = "2160p"
)

var qualityRank = map[Quality]int{
	Quality480p:  0,
	Quality720p:  1,
	Quality1080p: 2,
	Quality2160p: 3,
}

func (q Quality) Valid() bool {
	_, ok := qualityRank[q]
	return ok
}

func (q Quality) rank() int {
	if r, ok := qualityRank[q]; ok {
		return r
	}
	return len(qualityRank)
}

type Episode struct {
	ID        int64     `json:"id"`
	MovieID   int64     `json:"movie_id"`
	Season    *int      `json:"season,omitempty"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EpisodeQuality struct {
	ID        int64   `json:"id"`
	EpisodeID int64   `json:"episode_id"`
	Quality   Quality `json:"quality"`
	File      string  `json:"file"`
}

// Summary is the episode payload embedded in the grouped projection.
type Summary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pair is one (episode, quality) row joined with its owning content item.
type Pair struct {
	MovieID    int64
	MovieTitle string
	MovieKind  catalog.Kind
	Season     *int
	Quality    Quality
	Episode    Summary
}
