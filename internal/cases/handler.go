package cases

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/cache"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/httpx"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/middleware"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/socialstats"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/transport"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service       *Service
	stats         *socialstats.Provider
	cache         cache.Cache
	cacheTTL      time.Duration
	defaultLocale string
	log           *slog.Logger
}

func NewHandler(service *Service, stats *socialstats.Provider, cacheStore cache.Cache, cacheTTL time.Duration, defaultLocale string, log *slog.Logger) *Handler {
	return &Handler{
		service:       service,
		stats:         stats,
		cache:         cacheStore,
		cacheTTL:      cacheTTL,
		defaultLocale: defaultLocale,
		log:           log,
	}
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	filter := PublicListFilter{
		Locale:   httpx.QueryLocale(r.URL.Query(), h.defaultLocale),
		TagSlug:  strings.TrimSpace(r.URL.Query().Get("tag")),
		ToolSlug: strings.TrimSpace(r.URL.Query().Get("tool")),
	}

	cacheKey := "cases:" + filter.Locale + ":" + filter.TagSlug + ":" + filter.ToolSlug
	if cached, ok, err := h.cache.Get(r.Context(), cacheKey); err == nil && ok {
		log.Info("cases public list: cache hit", slog.String("locale", filter.Locale))
		writeCachedJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListPublished(ctx, filter)
	if err != nil {
		if errors.Is(err, ErrInvalidLocale) {
			log.Warn("cases public list: invalid locale", slog.String("locale", filter.Locale))
			transport.WriteError(w, http.StatusBadRequest, "invalid locale", map[string]string{"locale": "locale"})
			return
		}
		log.Error("cases public list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	response := map[string]interface{}{
		"items": items,
	}
	if payload, err := json.Marshal(response); err == nil {
		_ = h.cache.Set(r.Context(), cacheKey, payload, h.cacheTTL)
	}

	log.Info("cases public list: ok", slog.String("locale", filter.Locale), slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) PublicGetBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		log.Warn("cases public get: missing slug")
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}
	locale := httpx.QueryLocale(r.URL.Query(), h.defaultLocale)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetPublishedBySlug(ctx, locale, slug)
	if err != nil {
		if errors.Is(err, ErrInvalidLocale) {
			transport.WriteError(w, http.StatusBadRequest, "invalid locale", map[string]string{"locale": "locale"})
			return
		}
		if errors.Is(err, ErrNotFound) {
			log.Warn("cases public get: not found", slog.String("slug", slug), slog.String("locale", locale))
			transport.WriteError(w, http.StatusNotFound, "case not found", nil)
			return
		}
		log.Error("cases public get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("cases public get: ok", slog.String("slug", slug), slog.String("locale", locale))
	transport.WriteJSON(w, http.StatusOK, item)
}

// PublicStats only answers for published cases; drafts stay invisible here
// the same way they do on the detail route.
func (h *Handler) PublicStats(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}
	locale := httpx.QueryLocale(r.URL.Query(), h.defaultLocale)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.service.GetPublishedBySlug(ctx, locale, slug); err != nil {
		if errors.Is(err, ErrInvalidLocale) {
			transport.WriteError(w, http.StatusBadRequest, "invalid locale", map[string]string{"locale": "locale"})
			return
		}
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "case not found", nil)
			return
		}
		log.Error("cases stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("cases stats: ok", slog.String("slug", slug))
	transport.WriteJSON(w, http.StatusOK, h.stats.For(slug))
}

func writeCachedJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
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
