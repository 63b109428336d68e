package episodes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hameddjf/movie-api/internal/catalog"
)

// EpisodeGroup wraps the deduplicated episode list of one quality.
type EpisodeGroup struct {
	Episodes []Summary `json:"episodes"`
}

// QualityGroup maps one quality label onto its episode group.
type QualityGroup map[Quality][]EpisodeGroup

// QualityList is the "qualities" wrapper shared by seasons and plain movies.
type QualityList struct {
	Qualities []QualityGroup `json:"qualities"`
}

// SeasonGroup pairs one "season-N" key with that season's quality lists.
type SeasonGroup struct {
	Key   string
	Lists []QualityList
}

// SeasonList holds a series' seasons in listing order: numeric seasons
// ascending, the unset-season group last. A plain map would lose that order
// at serialization (keys come out lexicographic, putting "season-10" before
// "season-2" and "season-0" first), so it marshals to an object itself.
type SeasonList []SeasonGroup

func (s SeasonList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		lists, err := json.Marshal(g.Lists)
		if err != nil {
			return nil, err
		}
		buf.Write(lists)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Projection maps a content title onto its nested season/quality structure:
// a SeasonList for series, a bare QualityList for plain movies.
type Projection map[string]interface{}

// Project shapes flat (episode, quality) pairs into the grouped listing.
// Content items are emitted by title; series get a season level where a nil
// season lands under "season-0" (a single special episode, not an error);
// within a quality an episode appears at most once even if the input carries
// duplicate rows.
func Project(pairs []Pair) Projection {
	byMovie := make(map[string][]Pair)
	var titles []string
	for _, p := range pairs {
		if _, seen := byMovie[p.MovieTitle]; !seen {
			titles = append(titles, p.MovieTitle)
		}
		byMovie[p.MovieTitle] = append(byMovie[p.MovieTitle], p)
	}
	sort.Strings(titles)

	result := make(Projection, len(titles))
	for _, title := range titles {
		moviePairs := byMovie[title]
		if moviePairs[0].MovieKind == catalog.KindSeries {
			result[title] = projectSeasons(moviePairs)
		} else {
			result[title] = projectQualities(moviePairs)
		}
	}
	return result
}

func projectSeasons(pairs []Pair) SeasonList {
	// Seasons ascending with unset seasons last, matching the listing order.
	sort.SliceStable(pairs, func(i, j int) bool {
		a, b := pairs[i].Season, pairs[j].Season
		if (a == nil) != (b == nil) {
			return b == nil
		}
		if a == nil {
			return false
		}
		return *a < *b
	})

	var out SeasonList
	for start := 0; start < len(pairs); {
		end := start
		for end < len(pairs) && sameSeason(pairs[start].Season, pairs[end].Season) {
			end++
		}
		out = append(out, SeasonGroup{
			Key:   seasonKey(pairs[start].Season),
			Lists: []QualityList{projectQualities(pairs[start:end])},
		})
		start = end
	}
	return out
}

func projectQualities(pairs []Pair) QualityList {
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Quality.rank() < pairs[j].Quality.rank()
	})

	var groups []QualityGroup
	for start := 0; start < len(pairs); {
		end := start
		for end < len(pairs) && pairs[end].Quality == pairs[start].Quality {
			end++
		}

		seen := make(map[int64]bool)
		var unique []Summary
		for _, p := range pairs[start:end] {
			if seen[p.Episode.ID] {
				continue
			}
			seen[p.Episode.ID] = true
			unique = append(unique, p.Episode)
		}

		groups = append(groups, QualityGroup{
			pairs[start].Quality: []EpisodeGroup{{Episodes: unique}},
		})
		start = end
	}
	return QualityList{Qualities: groups}
}

func sameSeason(a, b *int) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

// seasonKey renders the grouping key; a nil season denotes a single special
// episode and maps to "season-0" by convention.
func seasonKey(season *int) string {
	if season == nil {
		return "season-0"
	}
	return fmt.Sprintf("season-%d", *season)
}
