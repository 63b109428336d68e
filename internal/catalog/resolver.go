package catalog

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

var (
	// ErrUnresolvableRoute means the URL path matches no registered route.
	ErrUnresolvableRoute = errors.New("url path does not match any known route")
	// ErrMissingIdentifier means a route matched but carried no integer-like parameter.
	ErrMissingIdentifier = errors.New("could not extract an object id from the url")
	// ErrInvalidIdentifier means an identifier parameter was present but is not a positive integer.
	ErrInvalidIdentifier = errors.New("object id extracted from the url is not a valid integer")
)

type routePattern struct {
	segments []string // literal segments, or "{name}" placeholders
}

// Resolver maps content item URLs onto primary keys by matching the URL path
// against a table of registered detail-route patterns. It holds no state
// beyond the table and performs no I/O.
type Resolver struct {
	routes []routePattern
}

// NewResolver builds a resolver over the given route patterns, e.g.
// "/movie/{pk}/". Patterns are tried in registration order.
func NewResolver(patterns ...string) *Resolver {
	r := &Resolver{}
	for _, p := range patterns {
		r.routes = append(r.routes, routePattern{segments: splitPath(p)})
	}
	return r
}

// NewContentResolver returns a resolver over the content detail routes this
// API serves.
func NewContentResolver() *Resolver {
	return NewResolver("/movie/{pk}/")
}

// Resolve extracts the primary key a content URL points at. The URL may be
// absolute or a bare path; scheme and host are ignored.
func (r *Resolver) Resolve(rawURL string) (int64, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return 0, ErrUnresolvableRoute
	}
	segments := splitPath(parsed.Path)

	for _, route := range r.routes {
		params, ok := route.match(segments)
		if !ok {
			continue
		}
		return extractID(params)
	}
	return 0, ErrUnresolvableRoute
}

type pathParam struct {
	name  string
	value string
}

func (route routePattern) match(segments []string) ([]pathParam, bool) {
	if len(segments) != len(route.segments) {
		return nil, false
	}
	var params []pathParam
	for i, want := range route.segments {
		if strings.HasPrefix(want, "{") && strings.HasSuffix(want, "}") {
			params = append(params, pathParam{name: strings.Trim(want, "{}"), value: segments[i]})
			continue
		}
		if want != segments[i] {
			return nil, false
		}
	}
	return params, true
}

// extractID prefers a parameter named "pk"; without one it takes the first
// parameter value (in path order) that parses as a positive integer.
func extractID(params []pathParam) (int64, error) {
	for _, p := range params {
		if p.name != "pk" {
			continue
		}
		id, err := strconv.ParseInt(p.value, 10, 64)
		if err != nil || id <= 0 {
			return 0, ErrInvalidIdentifier
		}
		return id, nil
	}
	for _, p := range params {
		if id, err := strconv.ParseInt(p.value, 10, 64); err == nil && id > 0 {
			return id, nil
		}
	}
	return 0, ErrMissingIdentifier
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
