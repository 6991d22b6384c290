package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/config"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/middleware"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/validation"
)

// Server carries the shared dependencies of the admin session handlers.
type Server struct {
	Cfg *config.Config
	Val *validation.Validator
	Log *slog.Logger
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return s.Log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.Log.With(slog.String("request_id", id))
	}
	return s.Log
}
