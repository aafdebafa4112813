package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-admin-api/api/swagger"
	"github.com/noah-isme/course-admin-api/internal/handler"
	"github.com/noah-isme/course-admin-api/internal/middleware"
	"github.com/noah-isme/course-admin-api/internal/repository"
	"github.com/noah-isme/course-admin-api/internal/service"
	"github.com/noah-isme/course-admin-api/internal/timeslot"
	"github.com/noah-isme/course-admin-api/pkg/cache"
	"github.com/noah-isme/course-admin-api/pkg/config"
	"github.com/noah-isme/course-admin-api/pkg/database"
	"github.com/noah-isme/course-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-admin-api/pkg/middleware/requestid"
)

// @title Course Admin API
// @version 1.0.0
// @description Courses, terms and weekly course slots
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "course-admin-api")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	if cfg.Migrations.Enabled {
		if _, err := database.Migrate(ctx, db.DB, logr); err != nil {
			logr.Fatal("migrations failed", zap.Error(err))
		}
	}

	metricsSvc := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}

	var cacheRepo service.CacheRepository
	if cfg.TermCache.Enabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, term cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			checks["redis"] = redisCheck(redisClient)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.TermCache.TTL, logr, cacheRepo != nil)

	codec := timeslot.NewDefaultCodec()
	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	slotRepo := repository.NewCourseSlotRepository(db)
	termRepo := repository.NewTermRepository(db)

	termSvc := service.NewTermService(termRepo, cacheSvc, cfg.TermCache.TTL, logr)
	courseSvc := service.NewCourseService(courseRepo, termSvc, metricsSvc, validate, logr)
	slotSvc := service.NewCourseSlotService(courseRepo, slotRepo, codec, metricsSvc, validate, logr)
	exportSvc := service.NewExportService(courseRepo, slotSvc, codec, logr, nil, nil)

	courseHandler := handler.NewCourseHandler(courseSvc)
	slotHandler := handler.NewCourseSlotHandler(slotSvc, exportSvc)
	termHandler := handler.NewTermHandler(termSvc)
	timeSlotHandler := handler.NewTimeSlotHandler(codec)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		courses := api.Group("/courses")
		courses.GET("", courseHandler.List)
		courses.POST("", courseHandler.Create)
		courses.GET("/:id", courseHandler.Get)
		courses.PUT("/:id", courseHandler.Update)
		courses.DELETE("/:id", courseHandler.Delete)

		courses.GET("/:id/slots", slotHandler.List)
		courses.POST("/:id/slots", slotHandler.Create)
		courses.GET("/:id/slots/export", slotHandler.Export)
		courses.DELETE("/:id/slots/:slotId", slotHandler.Delete)

		api.GET("/terms", termHandler.List)
		api.GET("/timeslots", timeSlotHandler.Catalog)
		api.GET("/timeslots/:id", timeSlotHandler.Decode)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("prefix", cfg.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func redisCheck(client *redis.Client) handler.ReadinessCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
