package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brief-portal/internal"
	"brief-portal/internal/apiclient"
	"brief-portal/internal/builder"
	"brief-portal/internal/config"
	"brief-portal/internal/fillin"
	"brief-portal/internal/handlers"
	"brief-portal/internal/logger"
	"brief-portal/internal/middleware"
	"brief-portal/internal/observability"
	"brief-portal/internal/services"
	"brief-portal/internal/session"
	"brief-portal/internal/storage"
	"brief-portal/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Server.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, cfg.Server.Environment, log)
	if err != nil {
		log.Warn("tracing disabled", "error", err)
	}

	if err := internal.InitDB(cfg, log); err != nil {
		log.Fatal("failed to initialize database", "error", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
	}

	pdfService, err := services.NewPDFService(cfg.Gotenberg.URL, cfg.Gotenberg.Timeout, log)
	if err != nil {
		log.Fatal("failed to initialize PDF service", "error", err)
	}

	var archive services.ExportArchive
	if cfg.GCS.BucketName != "" {
		pdfArchive, err := storage.NewPDFArchive(ctx, cfg.GCS.BucketName, cfg.GCS.ProjectID, cfg.GCS.CredentialsPath)
		if err != nil {
			log.Warn("GCS archive unavailable, exports are served inline only", "error", err)
		} else {
			defer pdfArchive.Close()
			archive = pdfArchive
		}
	}

	api := apiclient.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)
	sessions := session.NewStore(rdb, cfg.Session.TTL, cfg.Session.CookieSecure)

	templateService := services.NewTemplateService(api)
	briefService := services.NewBriefService(api)
	uploadService := services.NewUploadService(api, cfg.Staging.Dir, log)
	exportService := services.NewExportService(pdfService, archive, log)
	activityLogService := services.NewActivityLogService(internal.DB, log)
	fillinService := fillin.NewService(briefService, uploadService, fillin.NewRegistry(), log)

	h := handlers.Handlers{
		Auth:      handlers.NewAuthHandler(services.NewAuthService(api), sessions, log),
		Admin:     handlers.NewAdminHandler(templateService, services.NewSubmissionService(api), exportService, log),
		Templates: handlers.NewTemplateHandler(templateService, builder.NewDraftStore(rdb, cfg.Session.TTL), log),
		Users:     handlers.NewUserHandler(services.NewUserService(api), log),
		Client:    handlers.NewClientHandler(templateService, log),
		Briefs:    handlers.NewBriefHandler(fillinService, uploadService, exportService, log),
		Logs:      handlers.NewLogsHandler(activityLogService),
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal("failed to parse page templates", "error", err)
	}

	r := gin.New()
	r.HTMLRender = renderer
	r.Use(gin.Recovery())
	r.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	r.Use(sessions.Middleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.Server.AllowOrigins))
	r.Use(activityLogService.LoggingMiddleware())
	r.Use(middleware.Guard())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterRoutes(r, h)

	// Staged uploads older than the max age are removed, idle editors evicted
	cleanupService := handlers.NewFileCleanupService(cfg.Staging.Dir, cfg.Staging.MaxAge, cfg.Staging.EditorIdle, fillinService, log)
	cleanupService.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	cleanupService.Stop()
	activityLogService.Wait()
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("failed to flush traces", "error", err)
		}
	}
	if err := rdb.Close(); err != nil {
		log.Warn("failed to close redis", "error", err)
	}
	if err := internal.CloseDB(); err != nil {
		log.Warn("failed to close database", "error", err)
	}
	pdfService.Close()
	log.Info("server stopped")
}
