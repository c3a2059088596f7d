// Package httpapi exposes the authentication and vault flows as a JSON HTTP
// API and maps service-level errors to transport status codes.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/passvault/passvault/internal/logging"
	"github.com/passvault/passvault/internal/server/auth"
	"github.com/passvault/passvault/internal/server/config"
	"github.com/passvault/passvault/internal/server/services"
)

type Server struct {
	addr                 string
	logger               logging.Logger
	codec                *auth.Codec
	authService          *services.AuthService
	vaultService         *services.VaultService
	allowedOrigins       []string
	refreshTokenValidity time.Duration
}

func NewServer(cfg *config.Config, logger logging.Logger, codec *auth.Codec, authService *services.AuthService, vaultService *services.VaultService) *Server {
	return &Server{
		addr:                 cfg.EndpointAddr,
		logger:               logger,
		codec:                codec,
		authService:          authService,
		vaultService:         vaultService,
		allowedOrigins:       cfg.AllowedOrigins,
		refreshTokenValidity: cfg.RefreshTokenValidity,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handleRoot)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/request-otp", s.handleRequestOtp)
		r.Post("/verify-otp", s.handleVerifyOtp)
		r.Post("/verify-pass", s.handleVerifyPass)
		r.Post("/signup", s.handleSignup)
		r.Post("/signin", s.handleSignin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/reset-password", s.handleResetPassword)
		r.Post("/verify-master-password", s.handleVerifyMasterPassword)
	})

	r.Route("/passwords", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Post("/add-password", s.handleAddPassword)
		r.Get("/get-passwords", s.handleGetPasswords)
		r.Put("/{id}", s.handleUpdatePassword)
		r.Delete("/{id}", s.handleDeletePassword)
	})

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Pass-Vault API!"})
}
