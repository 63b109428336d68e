package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveContentURL(t *testing.T) {
	r := NewContentResolver()

	cases := []struct {
		name string
		url  string
		want int64
	}{
		{"absolute url", "http://127.0.0.1:8000/movie/3/", 3},
		{"bare path", "/movie/42/", 42},
		{"no trailing slash", "/movie/42", 42},
		{"host without port", "https://example.com/movie/7/", 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := r.Resolve(tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestResolveFailures(t *testing.T) {
	r := NewContentResolver()

	cases := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"unknown route", "/genres/action/extra/", ErrUnresolvableRoute},
		{"wrong depth", "/movie/3/qualities/", ErrUnresolvableRoute},
		{"empty path", "http://example.com/", ErrUnresolvableRoute},
		{"non-numeric pk", "/movie/latest/", ErrInvalidIdentifier},
		{"negative pk", "/movie/-3/", ErrInvalidIdentifier},
		{"zero pk", "/movie/0/", ErrInvalidIdentifier},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Resolve(tc.url)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestResolveScansParamsWithoutPK(t *testing.T) {
	r := NewResolver("/content/{slug}/{item}/")

	id, err := r.Resolve("/content/foo/12/")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = r.Resolve("/content/foo/bar/")
	assert.ErrorIs(t, err, ErrMissingIdentifier)
}

func TestResolveOrderPrefersEarlierRoute(t *testing.T) {
	r := NewResolver("/movie/latest/", "/movie/{pk}/")

	// The static route wins, leaving no identifier to extract.
	_, err := r.Resolve("/movie/latest/")
	assert.ErrorIs(t, err, ErrMissingIdentifier)

	id, err := r.Resolve("/movie/9/")
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
}
