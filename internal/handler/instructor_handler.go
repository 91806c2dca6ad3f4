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

type instructorService interface {
	Create(ctx context.Context, req service.InstructorRequest) (*models.Instructor, error)
	Get(ctx context.Context, id string) (*models.Instructor, error)
	List(ctx context.Context) ([]*models.Instructor, error)
	SearchByDepartment(ctx context.Context, department string) ([]*models.Instructor, error)
	Qualified(ctx context.Context, subject string) ([]*models.Instructor, error)
	Update(ctx context.Context, id string, req service.InstructorRequest) (*models.Instructor, error)
	Delete(ctx context.Context, id string) error
}

// InstructorHandler exposes instructor endpoints.
type InstructorHandler struct {
	instructors instructorService
}

// NewInstructorHandler constructs InstructorHandler.
func NewInstructorHandler(instructors instructorService) *InstructorHandler {
	return &InstructorHandler{instructors: instructors}
}

// List godoc
// @Summary List instructors
// @Tags Instructors
// @Produce json
// @Param department query string false "Filter by department"
// @Param subject query string false "Only instructors who can teach the subject"
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *InstructorHandler) List(c *gin.Context) {
	var (
		instructors []*models.Instructor
		err         error
	)
	ctx := c.Request.Context()
	switch {
	case strings.TrimSpace(c.Query("subject")) != "":
		instructors, err = h.instructors.Qualified(ctx, strings.TrimSpace(c.Query("subject")))
	case strings.TrimSpace(c.Query("department")) != "":
		instructors, err = h.instructors.SearchByDepartment(ctx, strings.TrimSpace(c.Query("department")))
	default:
		instructors, err = h.instructors.List(ctx)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, instructors, len(instructors))
}

// Get godoc
// @Summary Get instructor with assigned courses
// @Tags Instructors
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id} [get]
func (h *InstructorHandler) Get(c *gin.Context) {
	instructor, err := h.instructors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructor, map[string]interface{}{
		"courses":        courseIDs(instructor.AssignedCourses()),
		"total_students": instructor.TotalStudents(),
	})
}

// Create godoc
// @Summary Create instructor
// @Tags Instructors
// @Accept json
// @Produce json
// @Param payload body service.InstructorRequest true "Instructor payload"
// @Success 201 {object} response.Envelope
// @Router /instructors [post]
func (h *InstructorHandler) Create(c *gin.Context) {
	var req service.InstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	instructor, err := h.instructors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instructor)
}

// Update godoc
// @Summary Replace instructor
// @Tags Instructors
// @Accept json
// @Produce json
// @Param id path string true "Instructor ID"
// @Param payload body service.InstructorRequest true "Instructor payload"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id} [put]
func (h *InstructorHandler) Update(c *gin.Context) {
	var req service.InstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	instructor, err := h.instructors.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, instructor)
}

// Delete godoc
// @Summary Delete instructor
// @Tags Instructors
// @Param id path string true "Instructor ID"
// @Success 204
// @Router /instructors/{id} [delete]
func (h *InstructorHandler) Delete(c *gin.Context) {
	if err := h.instructors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func courseIDs(courses []*models.Course) []string {
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.CourseID)
	}
	return ids
}
