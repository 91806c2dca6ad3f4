package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-records/internal/models"
	appErrors "github.com/noah-isme/university-records/pkg/errors"
	"github.com/noah-isme/university-records/pkg/response"
)

type enrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID string) (bool, error)
	Drop(ctx context.Context, studentID, courseID string) (bool, error)
	AddGrade(ctx context.Context, studentID, courseID string, grade float64) (bool, error)
	Grade(ctx context.Context, studentID, courseID string) (*float64, error)
	StudentCourses(ctx context.Context, studentID string) ([]string, error)
	ListActive(ctx context.Context) ([]models.EnrollmentRecord, error)
	IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error)
}

type enrollRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	CourseID  string `json:"course_id" binding:"required"`
}

type gradeRequest struct {
	Grade *float64 `json:"grade" binding:"required"`
}

// EnrollmentHandler exposes the enrollment state machine over HTTP.
type EnrollmentHandler struct {
	enrollments enrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// List godoc
// @Summary List active enrollments with student and course details
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	records, err := h.enrollments.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, records, len(records))
}

// Enroll godoc
// @Summary Enroll a student, reactivating a dropped enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body enrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	applied, err := h.enrollments.Enroll(c.Request.Context(), req.StudentID, req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"student_id": req.StudentID,
		"course_id":  req.CourseID,
		"status":     models.EnrollmentStatusActive,
		"applied":    applied,
	})
}

// Drop godoc
// @Summary Mark an enrollment DROPPED; an already dropped pair is dropped again
// @Tags Enrollments
// @Param student_id path string true "Student ID"
// @Param course_id path string true "Course ID"
// @Success 204
// @Router /enrollments/{student_id}/{course_id} [delete]
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	applied, err := h.enrollments.Drop(c.Request.Context(), c.Param("student_id"), c.Param("course_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !applied {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found"))
		return
	}
	response.NoContent(c)
}

// SetGrade godoc
// @Summary Record a grade on an active enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param student_id path string true "Student ID"
// @Param course_id path string true "Course ID"
// @Param payload body gradeRequest true "Grade between 0 and 100"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{student_id}/{course_id}/grade [put]
func (h *EnrollmentHandler) SetGrade(c *gin.Context) {
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	studentID, courseID := c.Param("student_id"), c.Param("course_id")
	applied, err := h.enrollments.AddGrade(c.Request.Context(), studentID, courseID, *req.Grade)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !applied {
		response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "enrollment is not active"))
		return
	}
	response.OK(c, gin.H{"student_id": studentID, "course_id": courseID, "grade": *req.Grade})
}

// Grade godoc
// @Summary Read the grade of an active enrollment
// @Tags Enrollments
// @Produce json
// @Param student_id path string true "Student ID"
// @Param course_id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{student_id}/{course_id}/grade [get]
func (h *EnrollmentHandler) Grade(c *gin.Context) {
	studentID, courseID := c.Param("student_id"), c.Param("course_id")
	grade, err := h.enrollments.Grade(c.Request.Context(), studentID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"student_id": studentID, "course_id": courseID, "grade": grade})
}

// Status godoc
// @Summary Check whether a student is actively enrolled
// @Tags Enrollments
// @Produce json
// @Param student_id path string true "Student ID"
// @Param course_id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{student_id}/{course_id} [get]
func (h *EnrollmentHandler) Status(c *gin.Context) {
	studentID, courseID := c.Param("student_id"), c.Param("course_id")
	enrolled, err := h.enrollments.IsEnrolled(c.Request.Context(), studentID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"student_id": studentID, "course_id": courseID, "enrolled": enrolled})
}

// StudentCourses godoc
// @Summary List IDs of courses the student is actively enrolled in
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/courses [get]
func (h *EnrollmentHandler) StudentCourses(c *gin.Context) {
	ids, err := h.enrollments.StudentCourses(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, ids, len(ids))
}
