package accounts

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hameddjf/movie-api/internal/auth"
	"github.com/hameddjf/movie-api/internal/httputil"
)

type Handler struct {
	repo   *Repository
	tokens *auth.Tokens
}

func NewHandler(repo *Repository, tokens *auth.Tokens) *Handler {
	return &Handler{repo: repo, tokens: tokens}
}

// RegisterRouter and LoginRouter are public; MeRouter sits behind RequireAuth.
func (h *Handler) RegisterRouter() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.register)
	return r
}

func (h *Handler) LoginRouter() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.login)
	r.Post("/refresh/", h.refresh)
	return r
}

func (h *Handler) MeRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.me)
	r.Patch("/", h.updateMe)
	return r
}

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}

	req.Email = auth.NormalizeEmail(req.Email)
	switch {
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_FIELD", "email", "a valid email address is required")
		return
	case strings.TrimSpace(req.FirstName) == "":
		httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "first_name", "first name is required")
		return
	case strings.TrimSpace(req.LastName) == "":
		httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "last_name", "last name is required")
		return
	case len(req.Password) < 8:
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_FIELD", "password", "password must be at least 8 characters")
		return
	case req.Password != req.Password2:
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_FIELD", "password2", "passwords do not match")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to register user")
		return
	}

	u := User{
		Email:        req.Email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hash,
	}
	if err := h.repo.Create(&u); errors.Is(err, ErrEmailTaken) {
		httputil.WriteFieldError(w, http.StatusBadRequest, "INVALID_FIELD", "email", "email already registered")
		return
	} else if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to register user")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, u)
}

// authenticate resolves the email and checks the password; both a missing
// account and a wrong password collapse into ErrInvalidCredentials so the
// response does not reveal which one failed.
func (h *Handler) authenticate(email, password string) (*User, error) {
	u, err := h.repo.GetByEmail(auth.NormalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}

	u, err := h.authenticate(req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		httputil.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to log in")
		return
	}

	access, refresh, err := h.tokens.IssuePair(u.ID, u.IsStaff)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to issue tokens")
		return
	}

	h.repo.TouchLastLogin(u.ID)

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"access":  access,
		"refresh": refresh,
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil || req.Refresh == "" {
		httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "refresh", "refresh token is required")
		return
	}

	claims, err := h.tokens.Verify(req.Refresh, auth.TokenRefresh)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired refresh token")
		return
	}

	access, err := h.tokens.IssueAccess(claims.UserID, claims.IsStaff)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to issue token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	u, err := h.repo.GetByID(user.UserID)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load profile")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

type updateMeRequest struct {
	FirstName         *string    `json:"first_name"`
	LastName          *string    `json:"last_name"`
	ProfilePicture    *string    `json:"profile_picture"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	PreferredLanguage *string    `json:"preferred_language"`
	PreferredGenreIDs *[]int64   `json:"preferred_genre_ids"`
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req updateMeRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}

	u, err := h.repo.GetByID(user.UserID)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load profile")
		return
	}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "first_name", "first name is required")
			return
		}
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			httputil.WriteFieldError(w, http.StatusBadRequest, "MISSING_FIELD", "last_name", "last name is required")
			return
		}
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.ProfilePicture != nil {
		u.ProfilePicture = req.ProfilePicture
	}
	if req.DateOfBirth != nil {
		u.DateOfBirth = req.DateOfBirth
	}
	if req.PreferredLanguage != nil {
		u.PreferredLanguage = *req.PreferredLanguage
	}

	if err := h.repo.UpdateProfile(u); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to update profile")
		return
	}
	if req.PreferredGenreIDs != nil {
		if err := h.repo.SetPreferredGenres(u.ID, *req.PreferredGenreIDs); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to update preferred genres")
			return
		}
		u.PreferredGenreIDs = *req.PreferredGenreIDs
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}
