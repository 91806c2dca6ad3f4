package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-records/internal/models"
	"github.com/noah-isme/university-records/internal/service"
	"github.com/noah-isme/university-records/pkg/response"
)

type courseService interface {
	Create(ctx context.Context, req service.CourseRequest) (*models.Course, error)
	Get(ctx context.Context, courseID string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	SearchByDepartment(ctx context.Context, department string) ([]*models.Course, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]*models.Course, error)
	Update(ctx context.Context, courseID string, req service.CourseRequest) (*models.Course, error)
	AssignInstructor(ctx context.Context, courseID, instructorID string) (*models.Course, error)
	Delete(ctx context.Context, courseID string) error
}

type courseRosterService interface {
	CourseStudents(ctx context.Context, courseID string) ([]string, error)
	CourseStats(ctx context.Context, courseID string) (*models.CourseStats, error)
}

type assignInstructorRequest struct {
	InstructorID string `json:"instructor_id"`
}

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses courseService
	roster  courseRosterService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService, roster courseRosterService) *CourseHandler {
	return &CourseHandler{courses: courses, roster: roster}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param department query string false "Filter by department"
// @Param instructor query string false "Filter by instructor ID"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var (
		courses []*models.Course
		err     error
	)
	ctx := c.Request.Context()
	switch {
	case strings.TrimSpace(c.Query("instructor")) != "":
		courses, err = h.courses.ListByInstructor(ctx, strings.TrimSpace(c.Query("instructor")))
	case strings.TrimSpace(c.Query("department")) != "":
		courses, err = h.courses.SearchByDepartment(ctx, strings.TrimSpace(c.Query("department")))
	default:
		courses, err = h.courses.List(ctx)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, courses, len(courses))
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Replace course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.CourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var req service.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	course, err := h.courses.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// AssignInstructor godoc
// @Summary Assign or clear the course instructor
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body assignInstructorRequest true "Empty instructor_id clears the assignment"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/instructor [put]
func (h *CourseHandler) AssignInstructor(c *gin.Context) {
	var req assignInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	course, err := h.courses.AssignInstructor(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.InstructorID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Param id path string true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Students godoc
// @Summary List IDs of students actively enrolled in the course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/students [get]
func (h *CourseHandler) Students(c *gin.Context) {
	ids, err := h.roster.CourseStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, ids, len(ids))
}

// Stats godoc
// @Summary Enrollment statistics for one course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/stats [get]
func (h *CourseHandler) Stats(c *gin.Context) {
	stats, err := h.roster.CourseStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}
