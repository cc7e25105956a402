package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kannan-innovates/zenCode"
)

// Config carries the transport-level settings of the HTTP surface.
type Config struct {
	// AllowedOrigins feeds the CORS policy. Empty allows none.
	AllowedOrigins []string
	// SecureCookies marks the refresh cookie Secure; enable in production.
	SecureCookies bool
}

// Server wires the engine's operations to routes.
type Server struct {
	engine        *zencode.Engine
	log           *zap.Logger
	secureCookies bool
}

func NewServer(engine *zencode.Engine, log *zap.Logger, cfg Config) (*Server, http.Handler) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		engine:        engine,
		log:           log,
		secureCookies: cfg.SecureCookies,
	}
	return s, s.routes(cfg)
}

func (s *Server) routes(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/verify-otp", s.handleVerifyOTP)
		r.Post("/resend-otp", s.handleResendOTP)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/logout", s.handleLogout)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/reset-password", s.handleResetPassword)
		r.Get("/reset-password/validate", s.handleValidateResetToken)
	})

	r.Route("/api/admin", func(r chi.Router) {
		// Activation is reached from the mailed link, before the mentor
		// can authenticate.
		r.Post("/mentors/activate", s.handleActivateMentor)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Use(s.requireRole(zencode.RoleAdmin))
			r.Post("/mentors", s.handleCreateMentor)
			r.Patch("/users/{id}/block", s.handleBlockUser)
			r.Patch("/users/{id}/unblock", s.handleUnblockUser)
		})
	})

	return r
}
