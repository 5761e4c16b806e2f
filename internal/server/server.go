// Package server is the composition root: it opens the database, builds
// services and handlers, and maps URLs to them.
//
//	main.go → server.New: sqlite.DB → services → handlers → chi routes
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/devoverflow/internal/auth"
	"github.com/sakif/devoverflow/internal/config"
	"github.com/sakif/devoverflow/internal/handler"
	"github.com/sakif/devoverflow/internal/middleware"
	sqliteRepo "github.com/sakif/devoverflow/internal/repository/sqlite"
	"github.com/sakif/devoverflow/internal/service"
	"github.com/sakif/devoverflow/internal/webhook"
	"github.com/sakif/devoverflow/web"
)

// Server owns the router and the database connection.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	http   *http.Server
}

// New opens the database at cfg.DBPath, migrates it and wires every route.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// setupRoutes configures middleware and routes.
//
//	GET  /                            home page
//	GET  /question/{id}               question page
//	GET  /tags/{id}                   questions carrying a tag
//	GET  /profile/{clerkId}           public profile
//	GET  /profile/edit                edit form              (signed in)
//	POST /profile/edit                save profile           (signed in)
//	POST /logout                      clear session cookie
//	GET  /api/sidebar                 hot questions + popular tags
//	GET  /api/questions/{id}          question JSON
//	POST /api/questions               ask                    (signed in)
//	POST /api/questions/{id}/answers  answer                 (signed in)
//	GET  /api/me                      signed-in user         (signed in)
//	POST /api/webhook                 identity provider events
//	GET  /healthz                     database reachability
//	GET  /static/*                    embedded assets
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	// === Services ===
	users := service.NewUserService(s.db.Users(), s.logger)
	questions := service.NewQuestionService(s.db.Questions(), s.db.Answers(), s.db.Users(), s.logger)
	tags := service.NewTagService(s.db.Tags())
	sidebar := service.NewSidebarService(questions, tags, s.config.HotQuestionsLimit, s.config.PopularTagsLimit)

	// === Handlers ===
	renderer, err := handler.NewRenderer(web.Templates(), sidebar, s.logger)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}
	pages := handler.NewPageHandler(questions, tags, renderer, s.logger)
	profiles := handler.NewProfileHandler(users, renderer, s.logger)
	sessions := handler.NewSessionHandler(users, s.logger)
	questionAPI := handler.NewQuestionHandler(questions, s.logger)
	sidebarAPI := handler.NewSidebarHandler(sidebar, s.logger)
	health := handler.NewHealthHandler(s.db, s.logger)

	hook, err := webhook.NewHandler(webhook.Config{Secret: s.config.WebhookSecret}, users, s.logger)
	if err != nil {
		return fmt.Errorf("creating webhook handler: %w", err)
	}
	if s.config.WebhookSecret == "" {
		s.logger.Warn("WEBHOOK_SECRET not set, /api/webhook will answer 500")
	}

	requireAuth, optionalAuth := s.authMiddleware()

	// === Static files ===
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.Static())))

	s.router.Get("/healthz", health.HandleHealth)
	s.router.Post("/logout", sessions.HandleLogout)

	// === Pages ===
	s.router.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/", pages.HandleHome)
		r.Get("/question/{id}", pages.HandleQuestion)
		r.Get("/tags/{id}", pages.HandleTag)
		r.Get("/profile/{clerkId}", profiles.HandleShow)
	})
	s.router.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/profile/edit", profiles.HandleEdit)
		r.Post("/profile/edit", profiles.HandleUpdate)
	})

	// === API ===
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/webhook", hook.ServeHTTP)
		r.Get("/sidebar", sidebarAPI.HandleGet)
		r.Get("/questions/{id}", questionAPI.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", sessions.HandleMe)
			r.Post("/questions", questionAPI.HandleCreate)
			r.Post("/questions/{id}/answers", questionAPI.HandleAnswer)
		})
	})

	return nil
}

// authMiddleware returns the middleware guarding signed-in routes. Without
// a usable SESSION_SECRET no session can be verified: protected routes
// answer 401 and every other request is anonymous.
func (s *Server) authMiddleware() (require, optional func(http.Handler) http.Handler) {
	if !s.config.AuthEnabled() {
		s.logger.Warn("SESSION_SECRET not set or shorter than 16 characters, sign-in is disabled")
		return denyAll, passThrough
	}

	tokens, err := auth.NewTokenService(s.config.SessionSecret, s.config.SessionIssuer)
	if err != nil {
		s.logger.Warn("session tokens unavailable, sign-in is disabled", slog.String("error", err.Error()))
		return denyAll, passThrough
	}
	return auth.RequireAuth(tokens), auth.OptionalAuth(tokens)
}

func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized","message":"sign-in is not configured"}` + "\n"))
	})
}

func passThrough(next http.Handler) http.Handler { return next }

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops. A graceful Shutdown makes
// it return http.ErrServerClosed.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server starting",
		slog.Int("port", s.config.Port),
		slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		slog.String("database", s.config.DBPath),
	)
	return s.http.ListenAndServe()
}

// Shutdown stops accepting connections, waits for in-flight requests
// until ctx expires, then closes the database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if cerr := s.db.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing database: %w", cerr)
	}
	return err
}

