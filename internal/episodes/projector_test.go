package episodes

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hameddjf/movie-api/internal/catalog"
)

func intp(v int) *int { return &v }

func pair(title string, kind catalog.Kind, season *int, q Quality, episodeID int64, episodeTitle string) Pair {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return Pair{
		MovieID:    1,
		MovieTitle: title,
		MovieKind:  kind,
		Season:     season,
		Quality:    q,
		Episode: Summary{
			ID:        episodeID,
			Title:     episodeTitle,
			Slug:      episodeTitle,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func seasonOf(t *testing.T, proj Projection, title, seasonKey string) QualityList {
	t.Helper()
	payload, ok := proj[title].(SeasonList)
	require.True(t, ok, "expected a series payload for %q", title)
	for _, g := range payload {
		if g.Key == seasonKey {
			require.Len(t, g.Lists, 1)
			return g.Lists[0]
		}
	}
	t.Fatalf("missing season %q", seasonKey)
	return QualityList{}
}

func episodeIDs(t *testing.T, list QualityList, q Quality) []int64 {
	t.Helper()
	for _, group := range list.Qualities {
		if eg, ok := group[q]; ok {
			require.Len(t, eg, 1)
			var ids []int64
			for _, e := range eg[0].Episodes {
				ids = append(ids, e.ID)
			}
			return ids
		}
	}
	t.Fatalf("quality %s not present", q)
	return nil
}

func TestProjectSeriesGroupsSeasonAndQuality(t *testing.T) {
	pairs := []Pair{
		pair("Foo", catalog.KindSeries, intp(1), Quality1080p, 1, "e1"),
		pair("Foo", catalog.KindSeries, intp(1), Quality480p, 1, "e1"),
		pair("Foo", catalog.KindSeries, intp(1), Quality1080p, 2, "e2"),
	}

	proj := Project(pairs)
	require.Len(t, proj, 1)

	season1 := seasonOf(t, proj, "Foo", "season-1")
	assert.Equal(t, []int64{1, 2}, episodeIDs(t, season1, Quality1080p))
	assert.Equal(t, []int64{1}, episodeIDs(t, season1, Quality480p))

	// Qualities come out in declared order.
	require.Len(t, season1.Qualities, 2)
	_, first := season1.Qualities[0][Quality480p]
	assert.True(t, first, "480p should precede 1080p")
}

func TestProjectDeduplicatesWithinQuality(t *testing.T) {
	pairs := []Pair{
		pair("Foo", catalog.KindSeries, intp(2), Quality720p, 9, "e9"),
		pair("Foo", catalog.KindSeries, intp(2), Quality720p, 9, "e9"),
	}

	proj := Project(pairs)
	season2 := seasonOf(t, proj, "Foo", "season-2")
	assert.Equal(t, []int64{9}, episodeIDs(t, season2, Quality720p))
}

func TestProjectNilSeasonBecomesSeasonZero(t *testing.T) {
	pairs := []Pair{
		pair("Foo", catalog.KindSeries, nil, Quality1080p, 3, "special"),
	}

	proj := Project(pairs)
	season0 := seasonOf(t, proj, "Foo", "season-0")
	assert.Equal(t, []int64{3}, episodeIDs(t, season0, Quality1080p))
}

func TestProjectPlainMovieSkipsSeasonLevel(t *testing.T) {
	pairs := []Pair{
		pair("Heat", catalog.KindMovie, nil, Quality1080p, 4, "heat"),
		pair("Heat", catalog.KindMovie, nil, Quality480p, 4, "heat"),
	}

	proj := Project(pairs)
	list, ok := proj["Heat"].(QualityList)
	require.True(t, ok, "expected a plain movie payload")
	assert.Equal(t, []int64{4}, episodeIDs(t, list, Quality480p))
	assert.Equal(t, []int64{4}, episodeIDs(t, list, Quality1080p))
}

func TestProjectMixedCatalog(t *testing.T) {
	pairs := []Pair{
		pair("Zeta", catalog.KindMovie, nil, Quality720p, 7, "zeta"),
		pair("Alpha", catalog.KindSeries, intp(1), Quality720p, 8, "e1"),
	}

	proj := Project(pairs)
	require.Len(t, proj, 2)
	_, isSeries := proj["Alpha"].(SeasonList)
	assert.True(t, isSeries)
	_, isMovie := proj["Zeta"].(QualityList)
	assert.True(t, isMovie)
}

func TestProjectSeasonsSerializeInListingOrder(t *testing.T) {
	pairs := []Pair{
		pair("Foo", catalog.KindSeries, intp(10), Quality720p, 1, "e1"),
		pair("Foo", catalog.KindSeries, nil, Quality720p, 2, "special"),
		pair("Foo", catalog.KindSeries, intp(2), Quality720p, 3, "e3"),
		pair("Foo", catalog.KindSeries, intp(1), Quality720p, 4, "e4"),
	}

	proj := Project(pairs)
	seasons, ok := proj["Foo"].(SeasonList)
	require.True(t, ok)

	var keys []string
	for _, g := range seasons {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"season-1", "season-2", "season-10", "season-0"}, keys)

	// The order must survive serialization: double-digit seasons after
	// single-digit ones and the unset-season group last.
	raw, err := json.Marshal(seasons)
	require.NoError(t, err)
	out := string(raw)
	s1 := strings.Index(out, `"season-1"`)
	s2 := strings.Index(out, `"season-2"`)
	s10 := strings.Index(out, `"season-10"`)
	s0 := strings.Index(out, `"season-0"`)
	require.NotEqual(t, -1, s1)
	require.NotEqual(t, -1, s2)
	require.NotEqual(t, -1, s10)
	require.NotEqual(t, -1, s0)
	assert.Less(t, s1, s2)
	assert.Less(t, s2, s10)
	assert.Less(t, s10, s0)
}

func TestProjectEmptyInput(t *testing.T) {
	proj := Project(nil)
	assert.Empty(t, proj)
}
