package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/university-records/internal/middleware"
	"github.com/noah-isme/university-records/internal/service"
	"github.com/noah-isme/university-records/pkg/logger"
	corsmiddleware "github.com/noah-isme/university-records/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/university-records/pkg/middleware/requestid"
)

// RouterOptions carries the process-level settings the router needs.
type RouterOptions struct {
	AllowedOrigins []string
	EnableDocs     bool
}

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Students    *StudentHandler
	Instructors *InstructorHandler
	Courses     *CourseHandler
	Enrollments *EnrollmentHandler
	Reports     *ReportHandler
	Status      *StatusHandler
}

// NewRouter builds the gin engine with the common middleware chain and all
// resource routes.
func NewRouter(h Handlers, metrics *service.MetricsService, logr *zap.Logger, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics"))

	r.GET("/health", h.Status.Live)
	r.GET("/ready", h.Status.Ready)
	if metrics != nil {
		r.GET("/metrics", h.Status.Scrape)
		r.GET("/metrics/summary", h.Status.Summary)
	}
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api/v1")

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)
	students.GET("/:id/courses", h.Enrollments.StudentCourses)

	instructors := api.Group("/instructors")
	instructors.GET("", h.Instructors.List)
	instructors.POST("", h.Instructors.Create)
	instructors.GET("/:id", h.Instructors.Get)
	instructors.PUT("/:id", h.Instructors.Update)
	instructors.DELETE("/:id", h.Instructors.Delete)

	courses := api.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.GET("/:id", h.Courses.Get)
	courses.PUT("/:id", h.Courses.Update)
	courses.DELETE("/:id", h.Courses.Delete)
	courses.PUT("/:id/instructor", h.Courses.AssignInstructor)
	courses.GET("/:id/students", h.Courses.Students)
	courses.GET("/:id/stats", h.Courses.Stats)

	enrollments := api.Group("/enrollments")
	enrollments.GET("", h.Enrollments.List)
	enrollments.POST("", h.Enrollments.Enroll)
	enrollments.GET("/:student_id/:course_id", h.Enrollments.Status)
	enrollments.DELETE("/:student_id/:course_id", h.Enrollments.Drop)
	enrollments.GET("/:student_id/:course_id/grade", h.Enrollments.Grade)
	enrollments.PUT("/:student_id/:course_id/grade", h.Enrollments.SetGrade)

	reports := api.Group("/reports")
	reports.GET("/students", h.Reports.Students)
	reports.GET("/courses", h.Reports.Courses)
	reports.GET("/enrollments", h.Reports.Enrollments)
	reports.POST("/export", h.Reports.Export)
	reports.GET("/files", h.Reports.Files)
	reports.GET("/files/:name", h.Reports.Download)

	return r
}
