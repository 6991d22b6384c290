package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/auth"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/cache"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/cases"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/config"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/db"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/handlers"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/ingest"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/intakes"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/middleware"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/newsletter"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/notifications"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/sales"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/socialstats"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/submissions"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/taxonomy"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "vibecodespace",
		}
	}

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.AdminNotifyEmail, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	}

	val := validation.New()

	tagRepo := taxonomy.NewRepository(cols.Tags)
	toolRepo := taxonomy.NewRepository(cols.Tools)
	taxonomyHandler := taxonomy.NewHandler(tagRepo, toolRepo, logger)

	caseRepo := cases.NewRepository(cols.Cases)
	caseService := cases.NewService(caseRepo, tagRepo, toolRepo, cfg.Timezone)
	statsProvider := socialstats.NewProvider()
	caseHandler := cases.NewHandler(caseService, statsProvider, cacheStore, time.Duration(cfg.CacheTTLSeconds)*time.Second, cfg.DefaultLocale, logger)

	submissionRepo := submissions.NewRepository(cols.Submissions)
	submissionService := submissions.NewService(submissionRepo, tagRepo, toolRepo, caseService, cfg.Timezone)
	submissionHandler := submissions.NewHandler(submissionService, val, logger)

	intakeRepo := intakes.NewRepository(cols.Intakes)
	var intakeNotifier intakes.Notifier
	if mailer != nil {
		intakeNotifier = mailer
	}
	intakeService := intakes.NewService(intakeRepo, caseService, intakeNotifier, cfg.DefaultLocale, cfg.Timezone)
	intakeHandler := intakes.NewHandler(intakeService, val, logger)

	newsletterRepo := newsletter.NewRepository(cols.NewsletterLeads)
	newsletterService := newsletter.NewService(newsletterRepo, cfg.Timezone)
	newsletterHandler := newsletter.NewHandler(newsletterService, val, logger)

	salesRepo := sales.NewRepository(cols.SalesLeads)
	var salesNotifier sales.Notifier
	if mailer != nil {
		salesNotifier = mailer
	}
	salesService := sales.NewService(salesRepo, salesNotifier, cfg.Timezone)
	salesHandler := sales.NewHandler(salesService, val, logger)

	ingestService := ingest.NewService(cfg.IngestFeedURL, caseRepo, tagRepo, toolRepo, cfg.Timezone)
	ingestHandler := ingest.NewHandler(ingestService, logger)

	server := &handlers.Server{
		Cfg: cfg,
		Val: val,
		Log: logger,
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	submissionLimiter := middleware.NewRateLimiter(cfg.RateLimitSubmissions, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	leadLimiter := middleware.NewRateLimiter(cfg.RateLimitLeads, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	adminAuth := middleware.AdminAuth(cfg.AdminAPIKey, jwtManager)

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/cases", caseHandler.PublicList)
		api.Get("/cases/{slug}", caseHandler.PublicGetBySlug)
		api.Get("/cases/{slug}/stats", caseHandler.PublicStats)
		api.Get("/tags", taxonomyHandler.ListTags)
		api.Get("/tools", taxonomyHandler.ListTools)

		api.With(submissionLimiter.Middleware).Post("/submissions", submissionHandler.PublicCreate)
		api.With(leadLimiter.Middleware).Post("/intakes", intakeHandler.PublicCreate)
		api.With(leadLimiter.Middleware).Post("/newsletter/subscribe", newsletterHandler.Subscribe)
		api.With(leadLimiter.Middleware).Post("/sales", salesHandler.Submit)

		api.With(middleware.CronAuth(cfg.CronSecret)).Post("/cron/ingest", ingestHandler.Run)

		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/login", server.AdminLogin)
			admin.Post("/refresh", server.AdminRefresh)
			admin.Post("/logout", server.AdminLogout)

			// Important (chi): middlewares must be attached before defining routes.
			// Login/refresh/logout stay public; the rest goes behind a sub-router.
			admin.Group(func(protected chi.Router) {
				protected.Use(adminAuth)
				protected.Get("/submissions", submissionHandler.AdminListPending)
				protected.Post("/submissions/{id}/approve", submissionHandler.AdminApprove)
				protected.Post("/submissions/{id}/reject", submissionHandler.AdminReject)
				protected.Get("/intakes", intakeHandler.AdminList)
				protected.Get("/intakes/{id}", intakeHandler.AdminGetByID)
				protected.Patch("/intakes/{id}/status", intakeHandler.AdminUpdateStatus)
				protected.Post("/intakes/promote", intakeHandler.AdminPromote)
				protected.Get("/newsletter", newsletterHandler.AdminList)
				protected.Get("/sales", salesHandler.AdminList)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
