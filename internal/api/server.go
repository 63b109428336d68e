package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/hameddjf/movie-api/internal/accounts"
	"github.com/hameddjf/movie-api/internal/auth"
	"github.com/hameddjf/movie-api/internal/catalog"
	"github.com/hameddjf/movie-api/internal/celebrity"
	"github.com/hameddjf/movie-api/internal/config"
	"github.com/hameddjf/movie-api/internal/db"
	"github.com/hameddjf/movie-api/internal/episodes"
	"github.com/hameddjf/movie-api/internal/httputil"
	"github.com/hameddjf/movie-api/internal/interactions"
	"github.com/hameddjf/movie-api/internal/version"
)

// Server owns the feature handlers and the top-level router.
type Server struct {
	log    *logrus.Logger
	router chi.Router
}

func NewServer(cfg *config.Config, database *db.DB, log *logrus.Logger) *Server {
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authMW := auth.NewMiddleware(tokens)

	catalogRepo := catalog.NewRepository(database.DB)
	catalogHandler := catalog.NewHandler(catalogRepo)
	celebrityHandler := celebrity.NewHandler(celebrity.NewRepository(database.DB))
	episodeHandler := episodes.NewHandler(episodes.NewRepository(database.DB), catalogRepo)
	interactionHandler := interactions.NewHandler(interactions.NewRepository(database.DB), catalogRepo, log)
	accountHandler := accounts.NewHandler(accounts.NewRepository(database.DB), tokens)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "up",
			"version": version.Load(),
		})
	})

	// Public catalog reads. OptionalAuth lets staff tokens see unpublished rows.
	r.Group(func(r chi.Router) {
		r.Use(authMW.OptionalAuth)
		r.Mount("/movie", catalogHandler.MovieRouter())
		r.Mount("/genres", catalogHandler.GenreRouter())
		r.Mount("/types", catalogHandler.TypeRouter())
		r.Mount("/actors", celebrityHandler.ActorRouter())
		r.Mount("/directors", celebrityHandler.DirectorRouter())
		r.Mount("/episodes", episodeHandler.Router())
	})

	r.Mount("/register", accountHandler.RegisterRouter())
	r.Mount("/login", accountHandler.LoginRouter())

	// Per-user state requires a valid access token.
	r.Group(func(r chi.Router) {
		r.Use(authMW.RequireAuth)
		r.Mount("/me", accountHandler.MeRouter())
		r.Mount("/watchlist", interactionHandler.WatchlistRouter())
		r.Mount("/favorites", interactionHandler.FavoritesRouter())
		r.Mount("/history", interactionHandler.HistoryRouter())
		r.Mount("/admin/episodes", episodeHandler.AdminRouter())
	})

	return &Server{log: log, router: r}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func requestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"bytes":    ww.BytesWritten(),
				"duration": time.Since(start).String(),
			}).Info("request")
		})
	}
}
