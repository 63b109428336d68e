package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hameddjf/movie-api/internal/auth"
	"github.com/hameddjf/movie-api/internal/httputil"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) MovieRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listMovies)
	r.Get("/latest/", h.latest)
	r.Get("/type/{slug}/", h.byTypeSlug)
	r.Get("/{id}/", h.getMovie)
	return r
}

func (h *Handler) GenreRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listGenres)
	r.Get("/{slug}/", h.getGenre)
	return r
}

func (h *Handler) TypeRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listTypes)
	r.Get("/{slug}/", h.getType)
	return r
}

func (h *Handler) listMovies(w http.ResponseWriter, r *http.Request) {
	f, err := filtersFromQuery(r)
	if err != nil {
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_FILTER", err.field, err.Error())
		return
	}
	movies, dbErr := h.repo.List(f, auth.IsStaff(r.Context()))
	if dbErr != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list movies")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, movies)
}

// getMovie accepts a numeric id, a slug or an exact title.
func (h *Handler) getMovie(w http.ResponseWriter, r *http.Request) {
	m, dbErr := h.repo.GetByIdentifier(chi.URLParam(r, "id"))
	if errors.Is(dbErr, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "movie not found")
		return
	}
	if dbErr != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load movie")
		return
	}
	if !m.Status && !auth.IsStaff(r.Context()) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "movie not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) byTypeSlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "slug", "type slug not provided")
		return
	}
	f, ferr := filtersFromQuery(r)
	if ferr != nil {
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_FILTER", ferr.field, ferr.Error())
		return
	}
	f.TypeSlug = slug
	movies, err := h.repo.List(f, auth.IsStaff(r.Context()))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list movies")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, movies)
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) {
	movies, err := h.repo.Latest(r.URL.Query().Get("type_slug"), auth.IsStaff(r.Context()))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load latest content")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, movies)
}

func (h *Handler) listGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.repo.ListGenres(r.URL.Query().Get("search"))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list genres")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, genres)
}

func (h *Handler) getGenre(w http.ResponseWriter, r *http.Request) {
	g, err := h.repo.GetGenreBySlug(chi.URLParam(r, "slug"))
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "genre not found")
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load genre")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) listTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.repo.ListRootTypes()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list categories")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) getType(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.GetTypeBySlug(chi.URLParam(r, "slug"))
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "category not found")
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load category")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

type filterError struct {
	field string
	msg   string
}

func (e *filterError) Error() string { return e.msg }

func filtersFromQuery(r *http.Request) (Filters, *filterError) {
	q := r.URL.Query()
	f := Filters{
		TypeSlug:  q.Get("type_slug"),
		MovieType: q.Get("movie_type"),
		GenreSlug: q.Get("genre_slug"),
		Search:    q.Get("search"),
		Country:   q.Get("production_country"),
		Language:  q.Get("language"),
		Ordering:  q.Get("ordering"),
	}

	for key, dst := range map[string]**bool{
		"status":       &f.Status,
		"is_dubbed":    &f.IsDubbed,
		"is_subtitled": &f.IsSubtitled,
	} {
		if raw := q.Get(key); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return f, &filterError{field: key, msg: "must be a boolean"}
			}
			*dst = &v
		}
	}

	for key, dst := range map[string]**int{
		"release_year":     &f.ReleaseYear,
		"release_year_gte": &f.ReleaseYearGte,
		"release_year_lte": &f.ReleaseYearLte,
	} {
		if raw := q.Get(key); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return f, &filterError{field: key, msg: "must be an integer year"}
			}
			*dst = &v
		}
	}

	for key, dst := range map[string]**float64{
		"imdb_rating_gte": &f.RatingGte,
		"imdb_rating_lte": &f.RatingLte,
	} {
		if raw := q.Get(key); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return f, &filterError{field: key, msg: "must be a number"}
			}
			*dst = &v
		}
	}

	return f, nil
}
