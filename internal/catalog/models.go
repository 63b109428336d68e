package catalog

import "time"

// Kind discriminates the two content variants stored in the movies table.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

func (k Kind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

type SeriesStatus string

const (
	SeriesOngoing  SeriesStatus = "ongoing"
	SeriesEnded    SeriesStatus = "ended"
	SeriesCanceled SeriesStatus = "canceled"
	SeriesUpcoming SeriesStatus = "upcoming"
	SeriesPilot    SeriesStatus = "pilot"
)

type Genre struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	TranslatedName string `json:"translated_name"`
	Slug           string `json:"slug"`
	TMDBID         *int   `json:"tmdb_id,omitempty"`
}

// Type is a node in the self-referential category tree ("movie", "series",
// arbitrary sub-categories). Slug is unique among siblings.
type Type struct {
	ID       int64  `json:"id"`
	ParentID *int64 `json:"parent_id,omitempty"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
}

// SeriesInfo is the payload present only on rows with KindSeries.
type SeriesInfo struct {
	NumberOfSeasons int           `json:"number_of_seasons"`
	EpisodeCount    *int          `json:"episode_count,omitempty"`
	SeriesStatus    *SeriesStatus `json:"series_status,omitempty"`
}

// Movie is the single content record; Kind tells movies and series apart and
// Series carries the series-only fields when Kind is KindSeries.
type Movie struct {
	ID                int64       `json:"id"`
	Kind              Kind        `json:"kind"`
	Title             string      `json:"title"`
	Slug              string      `json:"slug"`
	Status            bool        `json:"status"`
	TypeID            *int64      `json:"type_id,omitempty"`
	TypeSlug          *string     `json:"type_slug,omitempty"`
	ReleaseDate       *time.Time  `json:"release_date,omitempty"`
	Description       string      `json:"description"`
	IMDBID            *string     `json:"imdb_id,omitempty"`
	TMDBID            *int        `json:"tmdb_id,omitempty"`
	IMDBRating        *float64    `json:"imdb_rating,omitempty"`
	Duration          *int        `json:"duration,omitempty"`
	Poster            *string     `json:"poster,omitempty"`
	Trailer           *string     `json:"trailer,omitempty"`
	ProductionCountry *string     `json:"production_country,omitempty"`
	Language          *string     `json:"language,omitempty"`
	Network           *string     `json:"network,omitempty"`
	IsDubbed          bool        `json:"is_dubbed"`
	IsSubtitled       bool        `json:"is_subtitled"`
	TMDBUserScore     *float64    `json:"tmdb_user_score,omitempty"`
	TMDBPopularity    *int        `json:"tmdb_popularity,omitempty"`
	Series            *SeriesInfo `json:"series,omitempty"`
	Genres            []string    `json:"genres"`
	Actors            []string    `json:"actors,omitempty"`
	Directors         []string    `json:"directors,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// ContentRef addresses one content item. Kind comes from the record itself,
// never from caller input.
type ContentRef struct {
	Kind Kind  `json:"kind"`
	ID   int64 `json:"id"`
}
