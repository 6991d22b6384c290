package taxonomy

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/middleware"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/transport"
)

// Handler serves the public tag/tool listings backing the filter UIs.
type Handler struct {
	tags  Repository
	tools Repository
	log   *slog.Logger
}

func NewHandler(tags, tools Repository, log *slog.Logger) *Handler {
	return &Handler{
		tags:  tags,
		tools: tools,
		log:   log,
	}
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.tags, "tags")
}

func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.tools, "tools")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, repo Repository, kind string) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := repo.List(ctx)
	if err != nil {
		log.Error(kind+" list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info(kind+" list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
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
