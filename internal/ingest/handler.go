package ingest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/middleware"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/transport"
)

type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	report, err := h.service.Run(ctx)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			log.Warn("ingest run: feed not configured")
			transport.WriteError(w, http.StatusServiceUnavailable, "ingest feed not configured", nil)
			return
		}
		log.Error("ingest run: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, "ingest failed", nil)
		return
	}

	log.Info("ingest run: ok",
		slog.Int("fetched", report.Fetched),
		slog.Int("created", report.Created),
		slog.Int("skipped", report.Skipped),
	)
	transport.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
