package episodes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hameddjf/movie-api/internal/catalog"
	"github.com/hameddjf/movie-api/internal/httputil"
)

type Handler struct {
	repo    *Repository
	catalog *catalog.Repository
}

func NewHandler(repo *Repository, catalogRepo *catalog.Repository) *Handler {
	return &Handler{repo: repo, catalog: catalogRepo}
}

// Router serves the public grouped listing. Creation routes are mounted
// separately behind auth by the top-level router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listGrouped)
	r.Get("/{movie_slug}/", h.groupedForMovie)
	return r
}

func (h *Handler) AdminRouter() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.createEpisode)
	r.Post("/{episode_id}/qualities/", h.createQuality)
	return r
}

// listGrouped returns the nested title/season/quality projection. Without
// parameters it covers the whole catalog; movie_id, movie_slug or movie_title
// narrow it to a single content item and 404 when that item does not exist.
func (h *Handler) listGrouped(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	identifier := q.Get("movie_id")
	if identifier == "" {
		identifier = q.Get("movie_slug")
	}
	if identifier == "" {
		identifier = q.Get("movie_title")
	}

	if identifier == "" {
		pairs, err := h.repo.ListPairs()
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load episodes")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, Project(pairs))
		return
	}

	h.writeMovieProjection(w, identifier)
}

func (h *Handler) groupedForMovie(w http.ResponseWriter, r *http.Request) {
	h.writeMovieProjection(w, chi.URLParam(r, "movie_slug"))
}

// writeMovieProjection resolves the identifier through the catalog first so a
// missing movie is a 404 while a movie without episodes is an empty document.
func (h *Handler) writeMovieProjection(w http.ResponseWriter, identifier string) {
	m, err := h.catalog.GetByIdentifier(identifier)
	if errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "movie not found")
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to resolve movie")
		return
	}

	pairs, err := h.repo.ListPairsForMovie(m.ID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load episodes")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, Project(pairs))
}

type createEpisodeRequest struct {
	MovieID int64  `json:"movie_id"`
	Season  *int   `json:"season"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
}

func (h *Handler) createEpisode(w http.ResponseWriter, r *http.Request) {
	var req createEpisodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if req.Title == "" {
		httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "title", "title is required")
		return
	}
	if req.MovieID <= 0 {
		httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "movie_id", "movie_id is required")
		return
	}
	if _, err := h.catalog.GetByID(req.MovieID); errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "movie not found")
		return
	} else if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to resolve movie")
		return
	}

	e := Episode{MovieID: req.MovieID, Season: req.Season, Title: req.Title, Slug: req.Slug}
	if err := h.repo.CreateEpisode(&e); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to create episode")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

type createQualityRequest struct {
	Quality Quality `json:"quality"`
	File    string  `json:"file"`
}

func (h *Handler) createQuality(w http.ResponseWriter, r *http.Request) {
	episodeID, err := strconv.ParseInt(chi.URLParam(r, "episode_id"), 10, 64)
	if err != nil || episodeID <= 0 {
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_ID", "episode_id", "identifier must be a positive integer")
		return
	}

	var req createQualityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if !req.Quality.Valid() {
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_FIELD", "quality", "unknown quality label")
		return
	}
	if req.File == "" {
		httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "file", "file is required")
		return
	}

	if _, err := h.repo.GetEpisode(episodeID); errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "episode not found")
		return
	} else if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load episode")
		return
	}

	q := EpisodeQuality{EpisodeID: episodeID, Quality: req.Quality, File: req.File}
	if err := h.repo.CreateQuality(&q); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to create quality")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, q)
}
