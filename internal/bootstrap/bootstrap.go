package bootstrap

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/university-records/internal/repository"
	"github.com/noah-isme/university-records/internal/service"
	"github.com/noah-isme/university-records/pkg/config"
	"github.com/noah-isme/university-records/pkg/jobs"
	"github.com/noah-isme/university-records/pkg/storage"
)

// Container holds the services both front ends share.
type Container struct {
	Metrics     *service.MetricsService
	Storage     *storage.LocalStorage
	Students    *service.StudentService
	Instructors *service.InstructorService
	Courses     *service.CourseService
	Enrollments *service.EnrollmentService
	Reports     *service.ReportService
}

const sweepInterval = time.Hour

// New wires repositories and services over db. Metrics are only collected
// when enabled in cfg.
func New(db *sqlx.DB, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		return nil, err
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	validate := validator.New()
	studentRepo := repository.NewStudentRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	reportRepo := repository.NewReportRepository(db)

	return &Container{
		Metrics:     metrics,
		Storage:     store,
		Students:    service.NewStudentService(studentRepo, validate, logger.Named("students")),
		Instructors: service.NewInstructorService(instructorRepo, courseRepo, enrollmentRepo, validate, logger.Named("instructors")),
		Courses:     service.NewCourseService(courseRepo, instructorRepo, validate, logger.Named("courses")),
		Enrollments: service.NewEnrollmentService(enrollmentRepo, studentRepo, metrics, validate, logger.Named("enrollments")),
		Reports:     service.NewReportService(reportRepo, enrollmentRepo, store, metrics, logger.Named("reports")),
	}, nil
}

// RetentionJob returns a job deleting exported reports older than retention,
// or nil when retention is zero.
func (c *Container) RetentionJob(retention time.Duration, logger *zap.Logger) *jobs.Periodic {
	if retention <= 0 {
		return nil
	}
	interval := sweepInterval
	if retention < interval {
		interval = retention
	}
	return jobs.NewPeriodic("report-retention", interval, func(ctx context.Context) error {
		deleted, err := c.Storage.CleanupOlderThan(retention)
		if len(deleted) > 0 {
			logger.Info("expired reports removed", zap.Strings("files", deleted))
		}
		return err
	}, logger)
}
