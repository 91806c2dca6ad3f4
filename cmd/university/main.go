package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-isme/university-records/internal/bootstrap"
	"github.com/noah-isme/university-records/internal/cli"
	"github.com/noah-isme/university-records/pkg/config"
	"github.com/noah-isme/university-records/pkg/database"
	"github.com/noah-isme/university-records/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "console")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	fmt.Println("Testing database connection...")
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Error("database unavailable", zap.String("host", cfg.Database.Host), zap.Error(err))
		fmt.Println("Failed to connect to database. Please check your database configuration.")
		os.Exit(1)
	}
	defer db.Close()
	fmt.Println("Database connection successful!")

	app, err := bootstrap.New(db, cfg, logr)
	if err != nil {
		logr.Error("failed to wire services", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := cli.New(os.Stdin, os.Stdout, cli.Services{
		Students:    app.Students,
		Courses:     app.Courses,
		Enrollments: app.Enrollments,
		Reports:     app.Reports,
	}, logr)
	if err := console.Run(ctx); err != nil {
		logr.Error("console stopped", zap.Error(err))
	}
}
