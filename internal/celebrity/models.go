package celebrity

type Actor struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Poster     *string  `json:"poster,omitempty"`
	TMDBID     *int     `json:"tmdb_id,omitempty"`
	Popularity *float64 `json:"popularity,omitempty"`
	MovieCount *int     `json:"movie_count,omitempty"`
}

type Director struct {
	ID         int64    `json:"id"`
	FullName   string   `json:"full_name"`
	Poster     *string  `json:"poster,omitempty"`
	TMDBID     *int     `json:"tmdb_id,omitempty"`
	Popularity *float64 `json:"popularity,omitempty"`
	MovieCount *int     `json:"movie_count,omitempty"`
}

// ListParams covers the filter surface both person listings share.
type ListParams struct {
	Search        string
	Ordering      string
	Popularity    *float64
	PopularityGte *float64
	PopularityLte *float64
	MovieCount    *int
	MovieCountGte *int
	MovieCountLte *int
}
