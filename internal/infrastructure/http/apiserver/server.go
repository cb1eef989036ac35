// Package apiserver assembles the chi router and owns the HTTP server
// lifecycle.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/avionmeals/backend/internal/infrastructure/config"
	"github.com/avionmeals/backend/internal/infrastructure/http/handlers"
	"github.com/avionmeals/backend/internal/infrastructure/http/middleware"
	"github.com/avionmeals/backend/internal/infrastructure/security"
)

// Handlers groups the route handlers the server mounts.
type Handlers struct {
	AI            *handlers.AIHandlers
	Credits       *handlers.CreditHandlers
	Meals         *handlers.MealHandlers
	Recipes       *handlers.RecipeHandlers
	Auth          *handlers.AuthHandlers
	Subscription  *handlers.SubscriptionHandlers
	Notifications *handlers.NotificationHandlers
	Analytics     *handlers.AnalyticsHandlers
}

// Server is the HTTP front of the service.
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	router   *chi.Mux
	server   *http.Server
	auth     *security.AuthService
	handlers Handlers
	registry *prometheus.Registry
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	auth *security.AuthService,
	h Handlers,
	registry *prometheus.Registry,
) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger,
		auth:     auth,
		handlers: h,
		registry: registry,
	}

	s.router = s.setupRouter()
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Router returns the configured router; tests mount it directly.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	// The AI calls dominate request time; the write timeout above is the
	// real bound, this guards everything else.
	r.Use(chimiddleware.Timeout(s.config.Server.WriteTimeout))

	r.Get(s.config.Monitoring.HealthCheckPath, s.handleHealth)
	if s.config.Monitoring.EnableMetrics && s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Generation endpoints admit anonymous callers; identity falls
		// back to the request body.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(s.auth))
			r.Post("/ai/generate-meal", s.handlers.AI.GenerateMeal)
			r.Post("/ai/generate-recipe", s.handlers.AI.GenerateRecipe)
			r.Post("/analytics/track-event", s.handlers.Analytics.TrackEvent)
		})

		r.Post("/auth/signup", s.handlers.Auth.Signup)
		r.Post("/auth/login", s.handlers.Auth.Login)
		r.Post("/auth/guest", s.handlers.Auth.Guest)
		r.Post("/auth/forgot-password", s.handlers.Auth.ForgotPassword)
		r.Post("/auth/reset-password", s.handlers.Auth.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.auth))

			r.Post("/auth/logout", s.handlers.Auth.Logout)
			r.Get("/auth/session", s.handlers.Auth.Session)
			r.Get("/user/profile", s.handlers.Auth.Profile)
			r.Put("/user/profile", s.handlers.Auth.UpdateProfile)

			r.Get("/credits/status", s.handlers.Credits.Status)
			r.Post("/credits/add", s.handlers.Credits.Add)
			r.Post("/credits/consume", s.handlers.Credits.Consume)
			r.Post("/usage-check", s.handlers.Credits.UsageCheck)

			r.Get("/meals/latest", s.handlers.Meals.Latest)
			r.Get("/meals/history", s.handlers.Meals.History)
			r.Post("/meals/save", s.handlers.Meals.Save)
			r.Delete("/meals/clear", s.handlers.Meals.Clear)

			r.Get("/recipes/latest", s.handlers.Recipes.Latest)
			r.Get("/recipes/{id}", s.handlers.Recipes.ByID)
			r.Post("/recipes/save", s.handlers.Recipes.Save)

			r.Get("/subscription/status", s.handlers.Subscription.Status)
			r.Post("/subscription/upgrade", s.handlers.Subscription.Upgrade)
			r.Post("/subscription/restore", s.handlers.Subscription.Restore)
			r.Post("/subscription/verify", s.handlers.Subscription.Verify)

			r.Post("/notifications/register", s.handlers.Notifications.Register)
			r.Post("/notifications/update", s.handlers.Notifications.Update)
			r.Delete("/notifications/remove", s.handlers.Notifications.Remove)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","version":%q,"timestamp":%d}`,
		s.config.App.Version, time.Now().Unix())
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting",
		zap.String("addr", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}
