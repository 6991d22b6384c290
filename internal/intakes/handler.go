package intakes

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
		log.Warn("intake create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("intake create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	intake, err := h.service.Create(ctx, req)
	if err != nil {
		log.Error("intake create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	go func(created ProblemIntake) {
		notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer notifyCancel()
		if err := h.service.NotifyNewIntake(notifyCtx, created); err != nil {
			h.log.Warn("intake create: notification failed",
				slog.String("intake_id", created.ID),
				slog.String("error", err.Error()),
			)
		}
		if err := h.service.NotifyConfirmation(notifyCtx, created); err != nil {
			h.log.Warn("intake create: confirmation email failed",
				slog.String("intake_id", created.ID),
				slog.String("error", err.Error()),
			)
		}
	}(intake)

	log.Info("intake create: ok", slog.String("intake_id", intake.ID), slog.String("language", intake.Language))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      intake.ID,
	})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin intakes list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.AdminList(ctx, filter, limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"status": "oneof"})
			return
		}
		log.Error("admin intakes list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin intakes list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Handler) AdminGetByID(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	intake, err := h.service.AdminGet(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin intake get: not found", slog.String("intake_id", id))
			transport.WriteError(w, http.StatusNotFound, "intake not found", nil)
			return
		}
		log.Error("admin intake get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin intake get: ok", slog.String("intake_id", id))
	transport.WriteJSON(w, http.StatusOK, intake)
}

func (h *Handler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req AdminStatusUpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin intake status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin intake status: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	updated, err := h.service.UpdateStatus(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn("admin intake status: not found", slog.String("intake_id", id))
			transport.WriteError(w, http.StatusNotFound, "intake not found", nil)
		case errors.Is(err, ErrInvalidStatus):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"status": "oneof"})
		case errors.Is(err, ErrInvalidState):
			log.Warn("admin intake status: transition not allowed", slog.String("intake_id", id), slog.String("status", req.Status))
			transport.WriteError(w, http.StatusConflict, "status transition not allowed", nil)
		default:
			log.Error("admin intake status: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("admin intake status: ok", slog.String("intake_id", id), slog.String("status", updated.Status))
	transport.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) AdminPromote(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req PromoteRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin intake promote: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin intake promote: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, err := h.service.Promote(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn("admin intake promote: not found", slog.String("intake_id", req.IntakeID))
			transport.WriteError(w, http.StatusNotFound, "intake not found", nil)
		case errors.Is(err, ErrInvalidTitle):
			transport.WriteError(w, http.StatusUnprocessableEntity, "title yields an empty slug", nil)
		case errors.Is(err, cases.ErrSlugExists):
			transport.WriteError(w, http.StatusConflict, "slug already exists for locale", nil)
		default:
			log.Error("admin intake promote: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("admin intake promote: ok",
		slog.String("intake_id", req.IntakeID),
		slog.String("case_id", created.ID),
		slog.String("slug", created.Slug),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]string{
		"case_id": created.ID,
		"slug":    created.Slug,
	})
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
