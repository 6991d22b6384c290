package submissions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/cases"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/httpx"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/middleware"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/transport"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/validation"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) PublicCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("submission create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("submission create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	sub, err := h.service.Create(ctx, req)
	if err != nil {
		log.Error("submission create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("submission create: ok", slog.String("submission_id", sub.ID), slog.String("locale", sub.Locale))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      sub.ID,
	})
}

func (h *Handler) AdminListPending(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.ListPending(ctx)
	if err != nil {
		log.Error("admin submissions list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin submissions list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) AdminApprove(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	caseID, err := h.service.Approve(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn("admin submission approve: not found", slog.String("submission_id", id))
			transport.WriteError(w, http.StatusNotFound, "submission not found", nil)
		case errors.Is(err, ErrInvalidState):
			log.Warn("admin submission approve: not pending", slog.String("submission_id", id))
			transport.WriteError(w, http.StatusConflict, "submission is not pending", nil)
		case errors.Is(err, ErrInvalidTitle):
			transport.WriteError(w, http.StatusUnprocessableEntity, "title yields an empty slug", nil)
		case errors.Is(err, cases.ErrSlugExists):
			log.Warn("admin submission approve: slug conflict", slog.String("submission_id", id))
			transport.WriteError(w, http.StatusConflict, "slug already exists for locale", nil)
		default:
			log.Error("admin submission approve: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("admin submission approve: ok", slog.String("submission_id", id), slog.String("case_id", caseID))
	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  StatusApproved,
		"case_id": caseID,
	})
}

func (h *Handler) AdminReject(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.service.Reject(ctx, id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn("admin submission reject: not found", slog.String("submission_id", id))
			transport.WriteError(w, http.StatusNotFound, "submission not found", nil)
		case errors.Is(err, ErrInvalidState):
			log.Warn("admin submission reject: not pending", slog.String("submission_id", id))
			transport.WriteError(w, http.StatusConflict, "submission is not pending", nil)
		default:
			log.Error("admin submission reject: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("admin submission reject: ok", slog.String("submission_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": StatusRejected})
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
