package interactions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/hameddjf/movie-api/internal/auth"
	"github.com/hameddjf/movie-api/internal/catalog"
	"github.com/hameddjf/movie-api/internal/httputil"
)

type Handler struct {
	repo     *Repository
	catalog  *catalog.Repository
	resolver *catalog.Resolver
	log      *logrus.Logger
}

func NewHandler(repo *Repository, catalogRepo *catalog.Repository, log *logrus.Logger) *Handler {
	return &Handler{
		repo:     repo,
		catalog:  catalogRepo,
		resolver: catalog.NewContentResolver(),
		log:      log,
	}
}

// WatchlistRouter, FavoritesRouter and HistoryRouter are mounted behind
// RequireAuth; every operation is scoped to the authenticated user.
func (h *Handler) WatchlistRouter() chi.Router {
	return h.listRouter(tableWatchlist)
}

func (h *Handler) FavoritesRouter() chi.Router {
	return h.listRouter(tableFavorites)
}

func (h *Handler) listRouter(table listTable) chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, req *http.Request) { h.list(w, req, table) })
	r.Post("/", func(w http.ResponseWriter, req *http.Request) { h.add(w, req, table) })
	r.Delete("/content/", func(w http.ResponseWriter, req *http.Request) { h.removeByContent(w, req, table) })
	r.Delete("/{id}/", func(w http.ResponseWriter, req *http.Request) { h.remove(w, req, table) })
	return r
}

func (h *Handler) HistoryRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listHistory)
	r.Post("/", h.touchHistory)
	r.Delete("/content/", h.removeHistoryByContent)
	r.Delete("/{id}/", h.removeHistory)
	return r
}

type addRequest struct {
	ContentItemURL string `json:"content_item_url"`
}

// resolveContent turns a submitted content URL into a validated reference.
// It writes the error response itself and reports whether to continue.
func (h *Handler) resolveContent(w http.ResponseWriter, rawURL string) (catalog.ContentRef, bool) {
	id, err := h.resolver.Resolve(rawURL)
	if err != nil {
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_FIELD", "content_item_url", err.Error())
		return catalog.ContentRef{}, false
	}
	ref, err := h.catalog.RefByID(id)
	if errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "content item not found")
		return catalog.ContentRef{}, false
	}
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to resolve content item")
		return catalog.ContentRef{}, false
	}
	return ref, true
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request, table listTable) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if req.ContentItemURL == "" {
		httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "content_item_url", "content_item_url is required")
		return
	}

	ref, ok := h.resolveContent(w, req.ContentItemURL)
	if !ok {
		return
	}

	item, created, err := h.repo.Add(table, user.UserID, ref)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to save item")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, item)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, table listTable) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	items, err := h.repo.List(table, user.UserID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list items")
		return
	}
	if items == nil {
		items = []Item{}
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, table listTable) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_ID", "id", "identifier must be a positive integer")
		return
	}

	deleted, err := h.repo.Remove(table, user.UserID, id)
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"table":   string(table),
			"user_id": user.UserID,
			"item_id": id,
		}).Error("item delete failed")
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete item")
		return
	}
	if !deleted {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeByContent(w http.ResponseWriter, r *http.Request, table listTable) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if req.ContentItemURL == "" {
		httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "content_item_url", "content_item_url is required")
		return
	}

	ref, ok := h.resolveContent(w, req.ContentItemURL)
	if !ok {
		return
	}

	deleted, err := h.repo.RemoveByContent(table, user.UserID, ref)
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"table":   string(table),
			"user_id": user.UserID,
			"kind":    string(ref.Kind),
			"item":    ref.ID,
		}).Error("item delete failed")
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete item")
		return
	}
	if !deleted {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type historyRequest struct {
	ContentItemURL string `json:"content_item_url"`
	// Raw so an explicit null clears the stored progress while an omitted
	// field leaves it alone.
	ProgressSeconds json.RawMessage `json:"progress_seconds"`
}

func (h *Handler) touchHistory(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req historyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if req.ContentItemURL == "" {
		httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "content_item_url", "content_item_url is required")
		return
	}

	var progress *int
	setProgress := len(req.ProgressSeconds) > 0
	if setProgress && string(req.ProgressSeconds) != "null" {
		var v int
		if err := json.Unmarshal(req.ProgressSeconds, &v); err != nil || v < 0 {
			httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_FIELD", "progress_seconds", "must be a non-negative integer")
			return
		}
		progress = &v
	}

	ref, ok := h.resolveContent(w, req.ContentItemURL)
	if !ok {
		return
	}

	item, created, err := h.repo.Touch(user.UserID, ref, progress, setProgress)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to record watch")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, item)
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	items, err := h.repo.ListHistory(user.UserID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list history")
		return
	}
	if items == nil {
		items = []HistoryItem{}
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) removeHistory(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_ID", "id", "identifier must be a positive integer")
		return
	}

	deleted, err := h.repo.RemoveHistory(user.UserID, id)
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"user_id": user.UserID,
			"item_id": id,
		}).Error("history delete failed")
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete history entry")
		return
	}
	if !deleted {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "history entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeHistoryByContent(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if req.ContentItemURL == "" {
		httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "content_item_url", "content_item_url is required")
		return
	}

	ref, ok := h.resolveContent(w, req.ContentItemURL)
	if !ok {
		return
	}

	deleted, err := h.repo.RemoveHistoryByContent(user.UserID, ref)
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"user_id": user.UserID,
			"kind":    string(ref.Kind),
			"item":    ref.ID,
		}).Error("history delete failed")
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete history entry")
		return
	}
	if !deleted {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "history entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
