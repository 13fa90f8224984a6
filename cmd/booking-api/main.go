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
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edulane/slotbook-api/api/swagger"
	"github.com/edulane/slotbook-api/internal/handler"
	"github.com/edulane/slotbook-api/internal/middleware"
	"github.com/edulane/slotbook-api/internal/repository"
	"github.com/edulane/slotbook-api/internal/service"
	"github.com/edulane/slotbook-api/pkg/cache"
	"github.com/edulane/slotbook-api/pkg/config"
	"github.com/edulane/slotbook-api/pkg/database"
	"github.com/edulane/slotbook-api/pkg/export"
	"github.com/edulane/slotbook-api/pkg/jobs"
	"github.com/edulane/slotbook-api/pkg/logger"
	corsmiddleware "github.com/edulane/slotbook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edulane/slotbook-api/pkg/middleware/requestid"
)

// @title Slotbook API
// @version 1.0.0
// @description Teacher availability slots and demo session booking
// @BasePath /
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var cacheRepo *repository.CacheRepository
	if cfg.Availability.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, availability cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	validate := validator.New()

	slotRepo := repository.NewSlotRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Availability.CacheTTL, logr, cacheRepo != nil)
	slotSvc := service.NewSlotService(slotRepo, teacherRepo, courseRepo, validate, metricsSvc, logr)
	availabilitySvc := service.NewAvailabilityService(slotRepo, enrollmentRepo, teacherRepo, slotSvc, cacheSvc, logr, cfg.Booking.PurgeOnList)
	reservationSvc := service.NewReservationService(reservationRepo, slotRepo, cacheSvc, metricsSvc, validate, logr, cfg.Booking.DemoQuota, cfg.Booking.ReserveTimeout)
	scheduleSvc := service.NewScheduleService(enrollmentRepo, logr)
	exportSvc := service.NewExportService(availabilitySvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	slotHandler := handler.NewSlotHandler(slotSvc, availabilitySvc, exportSvc)
	reservationHandler := handler.NewReservationHandler(reservationSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/slots", slotHandler.Create)
		api.GET("/slots", slotHandler.List)
		api.GET("/slots/:id/open", slotHandler.TeacherOpen)
		api.POST("/slots/:id/reserve", reservationHandler.Reserve)
		api.GET("/slots/student/:userId", scheduleHandler.StudentSchedule)
		if cfg.Export.Enabled {
			api.GET("/slots/:id/export", slotHandler.Export)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	purgeQueue := jobs.NewQueue("slot-purge", func(ctx context.Context, job jobs.Job) error {
		_, err := slotSvc.PurgeExpired(ctx)
		return err
	}, jobs.QueueConfig{Workers: 1, Logger: logr})
	purgeQueue.Start(ctx)
	defer purgeQueue.Stop()

	go func() {
		ticker := time.NewTicker(cfg.Booking.PurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				job := jobs.Job{ID: uuid.NewString(), Type: "purge-expired-slots"}
				if err := purgeQueue.Enqueue(job); err != nil {
					logr.Sugar().Warnw("failed to enqueue purge job", "error", err)
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
