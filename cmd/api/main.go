package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/university-records/api/swagger"
	"github.com/noah-isme/university-records/internal/bootstrap"
	"github.com/noah-isme/university-records/internal/handler"
	"github.com/noah-isme/university-records/pkg/config"
	"github.com/noah-isme/university-records/pkg/database"
	"github.com/noah-isme/university-records/pkg/logger"
)

// @title University Records API
// @version 1.0.0
// @description Students, instructors, courses and enrollments
// @BasePath /api/v1
// @schemes http

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "api")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("database unavailable", zap.String("host", cfg.Database.Host), zap.Error(err))
	}
	defer db.Close()

	app, err := bootstrap.New(db, cfg, logr)
	if err != nil {
		logr.Fatal("failed to wire services", zap.Error(err))
	}

	router := handler.NewRouter(handler.Handlers{
		Students:    handler.NewStudentHandler(app.Students),
		Instructors: handler.NewInstructorHandler(app.Instructors),
		Courses:     handler.NewCourseHandler(app.Courses, app.Enrollments),
		Enrollments: handler.NewEnrollmentHandler(app.Enrollments),
		Reports:     handler.NewReportHandler(app.Reports, app.Storage),
		Status:      handler.NewStatusHandler(app.Metrics, db.PingContext),
	}, app.Metrics, logr, handler.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if sweeper := app.RetentionJob(cfg.Reports.Retention, logr.Named("reports")); sweeper != nil {
		sweeper.Start(ctx)
		defer sweeper.Stop()
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
