package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/storyforge/collab-api/api/swagger"
	"github.com/storyforge/collab-api/internal/handler"
	"github.com/storyforge/collab-api/internal/middleware"
	"github.com/storyforge/collab-api/internal/models"
	"github.com/storyforge/collab-api/internal/repository"
	"github.com/storyforge/collab-api/internal/service"
	"github.com/storyforge/collab-api/pkg/cache"
	"github.com/storyforge/collab-api/pkg/config"
	"github.com/storyforge/collab-api/pkg/database"
	"github.com/storyforge/collab-api/pkg/export"
	"github.com/storyforge/collab-api/pkg/jobs"
	"github.com/storyforge/collab-api/pkg/logger"
	corsmiddleware "github.com/storyforge/collab-api/pkg/middleware/cors"
	reqidmiddleware "github.com/storyforge/collab-api/pkg/middleware/requestid"
	"github.com/storyforge/collab-api/pkg/storage"
)

// @title StoryForge Collab API
// @version 1.0.0
// @description Orchestration service for collaborative story-authoring sessions
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheService *service.CacheService
	if cfg.Assessment.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metrics, cfg.Assessment.CacheTTL, logr, true)
	} else {
		cacheService = service.NewCacheService(nil, metrics, cfg.Assessment.CacheTTL, logr, false)
	}

	sessionRepo := repository.NewSessionRepository(db)
	conflictRepo := repository.NewConflictRepository(db)
	resolutionRepo := repository.NewResolutionRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)

	locks := service.NewSessionLocks()
	scorer := service.NewHeuristicScorer()
	detector := service.NewConflictDetector()

	authService := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		Audience:          cfg.JWT.Audience,
	})
	sessionService := service.NewSessionService(sessionRepo, sessionRepo, locks, metrics, cfg.Sessions.MaxParticipantsCap, nil, logr)
	admissionService := service.NewAdmissionService(sessionRepo, locks, nil, logr)
	contributionService := service.NewContributionService(sessionRepo, locks, detector, scorer, cacheService, metrics, nil, logr, cfg.Sessions.AutoApproveWordCap)
	conflictService := service.NewConflictService(sessionRepo, conflictRepo, resolutionRepo, metrics, nil, logr)
	feedbackService := service.NewFeedbackService(sessionRepo, locks, cacheService, nil, logr)
	assessmentService := service.NewAssessmentService(sessionRepo, locks, resolutionRepo, scorer, cacheService, cfg.Assessment.CacheTTL, nil, logr)
	presentationService := service.NewPresentationService(sessionRepo, directoryRepo, cfg.Sessions.DefaultPresentTime, nil, logr)

	var exportHandler *handler.ExportHandler
	if cfg.Exports.Enabled {
		localStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportService := service.NewExportService(presentationService, assessmentService, localStorage, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, logr, export.NewCSVExporter(), export.NewPDFExporter())

		worker := service.NewExportWorker(exportJobRepo, exportService, cfg.Exports.WorkerRetries, logr)
		queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		exportJobService := service.NewExportJobService(exportJobRepo, sessionRepo, queue, exportService, logr, service.ExportJobServiceConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		exportJobService.RecoverPendingJobs(ctx)
		exportJobService.StartCleanup(ctx)
		exportHandler = handler.NewExportHandler(exportJobService)
	}

	sessionHandler := handler.NewSessionHandler(sessionService, admissionService)
	contributionHandler := handler.NewContributionHandler(contributionService)
	conflictHandler := handler.NewConflictHandler(conflictService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	assessmentHandler := handler.NewAssessmentHandler(assessmentService)
	presentationHandler := handler.NewPresentationHandler(presentationService)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authService))

	facilitator := middleware.RequireRoles(models.RoleAdmin, models.RoleFacilitator)
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleFacilitator, models.RoleLearner)

	sessions := api.Group("/sessions")
	{
		sessions.POST("", facilitator, middleware.Audit(auditRepo, models.AuditActionSessionCreate, "session"), sessionHandler.Create)
		sessions.GET("", anyRole, sessionHandler.List)
		sessions.GET("/:id", anyRole, sessionHandler.Get)
		sessions.PATCH("/:id/status", facilitator, middleware.Audit(auditRepo, models.AuditActionSessionUpdate, "session"), sessionHandler.Transition)

		sessions.POST("/:id/participants", facilitator, middleware.Audit(auditRepo, models.AuditActionParticipantJoin, "participant"), sessionHandler.Admit)
		sessions.DELETE("/:id/participants/:studentId", facilitator, sessionHandler.Deactivate)
		sessions.PUT("/:id/participants/:studentId/rating", facilitator, assessmentHandler.RateCollaboration)

		sessions.POST("/:id/contributions", anyRole, middleware.Audit(auditRepo, models.AuditActionContribution, "contribution"), contributionHandler.Submit)
		sessions.PATCH("/:id/segments/:segmentId", anyRole, middleware.Audit(auditRepo, models.AuditActionContribution, "segment"), contributionHandler.Revise)
		sessions.PATCH("/:id/segments/:segmentId/review", facilitator, contributionHandler.Review)

		sessions.POST("/:id/segments/:segmentId/feedback", anyRole, middleware.Audit(auditRepo, models.AuditActionFeedback, "feedback"), feedbackHandler.Provide)
		sessions.PATCH("/:id/segments/:segmentId/feedback/:feedbackId/resolve", anyRole, feedbackHandler.Resolve)

		sessions.POST("/:id/conflicts/:conflictId/resolve", anyRole, middleware.Audit(auditRepo, models.AuditActionConflictResolve, "conflict"), conflictHandler.Resolve)
		sessions.GET("/:id/resolutions", anyRole, conflictHandler.ListResolutions)

		sessions.GET("/:id/assessment", facilitator, assessmentHandler.Assess)
		sessions.POST("/:id/presentation", anyRole, presentationHandler.Compile)
	}

	api.GET("/metrics/summary", facilitator, metricsHandler.Snapshot)

	if exportHandler != nil {
		exports := api.Group("/exports")
		exports.POST("", facilitator, exportHandler.Create)
		exports.GET("/:id", facilitator, exportHandler.Status)
		// Download authenticates via the signed token, not the JWT.
		r.GET(cfg.APIPrefix+"/downloads/:token", exportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
