package celebrity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hameddjf/movie-api/internal/httputil"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) ActorRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listActors)
	r.Get("/{id}/", h.getActor)
	return r
}

func (h *Handler) DirectorRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listDirectors)
	r.Get("/{id}/", h.getDirector)
	return r
}

func (h *Handler) listActors(w http.ResponseWriter, r *http.Request) {
	p, perr := paramsFromQuery(r)
	if perr != nil {
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_FILTER", perr.field, perr.msg)
		return
	}
	actors, err := h.repo.ListActors(p)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list actors")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, actors)
}

func (h *Handler) getActor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_ID", "id", "identifier must be an integer")
		return
	}
	a, err := h.repo.GetActor(id)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "actor not found")
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load actor")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) listDirectors(w http.ResponseWriter, r *http.Request) {
	p, perr := paramsFromQuery(r)
	if perr != nil {
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_FILTER", perr.field, perr.msg)
		return
	}
	directors, err := h.repo.ListDirectors(p)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list directors")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, directors)
}

func (h *Handler) getDirector(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_ID", "id", "identifier must be an integer")
		return
	}
	d, err := h.repo.GetDirector(id)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "director not found")
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load director")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

type paramError struct {
	field string
	msg   string
}

func paramsFromQuery(r *http.Request) (ListParams, *paramError) {
	q := r.URL.Query()
	p := ListParams{
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
	}

	for key, dst := range map[string]**float64{
		"popularity":     &p.Popularity,
		"popularity_gte": &p.PopularityGte,
		"popularity_lte": &p.PopularityLte,
	} {
		if raw := q.Get(key); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return p, &paramError{field: key, msg: "must be a number"}
			}
			*dst = &v
		}
	}

	for key, dst := range map[string]**int{
		"movie_count":     &p.MovieCount,
		"movie_count_gte": &p.MovieCountGte,
		"movie_count_lte": &p.MovieCountLte,
	} {
		if raw := q.Get(key); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return p, &paramError{field: key, msg: "must be an integer"}
			}
			*dst = &v
		}
	}

	return p, nil
}
