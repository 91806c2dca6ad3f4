package handler

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-records/internal/models"
	"github.com/noah-isme/university-records/internal/service"
	appErrors "github.com/noah-isme/university-records/pkg/errors"
	"github.com/noah-isme/university-records/pkg/response"
	"github.com/noah-isme/university-records/pkg/storage"
)

type reportService interface {
	StudentStatistics(ctx context.Context) (*models.StudentStatistics, error)
	CourseStatistics(ctx context.Context) (*models.CourseStatistics, error)
	EnrollmentStatistics(ctx context.Context) (*models.EnrollmentStatistics, error)
	Export(ctx context.Context, kind service.ReportKind, format models.ReportFormat) (*service.ExportResult, error)
}

type reportFiles interface {
	List() ([]string, error)
	Open(name string) (*os.File, error)
}

type exportRequest struct {
	Report string `json:"report" binding:"required"`
	Format string `json:"format" binding:"required"`
}

// ReportHandler serves statistics and exported report files.
type ReportHandler struct {
	reports reportService
	files   reportFiles
}

// NewReportHandler constructs ReportHandler. files may be nil when no report
// directory is configured.
func NewReportHandler(reports reportService, files reportFiles) *ReportHandler {
	return &ReportHandler{reports: reports, files: files}
}

// Students godoc
// @Summary Student population statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/students [get]
func (h *ReportHandler) Students(c *gin.Context) {
	stats, err := h.reports.StudentStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// Courses godoc
// @Summary Course counts per department
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/courses [get]
func (h *ReportHandler) Courses(c *gin.Context) {
	stats, err := h.reports.CourseStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// Enrollments godoc
// @Summary Active enrollment statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/enrollments [get]
func (h *ReportHandler) Enrollments(c *gin.Context) {
	stats, err := h.reports.EnrollmentStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// Export godoc
// @Summary Render a report to CSV or PDF and store it
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body exportRequest true "report is enrollments or courses; format is csv or pdf"
// @Success 201 {object} response.Envelope
// @Router /reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	result, err := h.reports.Export(c.Request.Context(), service.ReportKind(req.Report), models.ReportFormat(req.Format))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Files godoc
// @Summary List stored report files
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/files [get]
func (h *ReportHandler) Files(c *gin.Context) {
	if h.files == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "report storage is not configured"))
		return
	}
	names, err := h.files.List()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports"))
		return
	}
	response.List(c, names, len(names))
}

// Download godoc
// @Summary Download a stored report file
// @Tags Reports
// @Produce octet-stream
// @Param name path string true "File name"
// @Success 200 {file} file
// @Router /reports/files/{name} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	if h.files == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "report storage is not configured"))
		return
	}
	name := c.Param("name")
	file, err := h.files.Open(name)
	switch {
	case errors.Is(err, storage.ErrInvalidName):
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid file name"))
		return
	case errors.Is(err, fs.ErrNotExist):
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "report not found"))
		return
	case err != nil:
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open report"))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read report"))
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+filepath.Base(name)+"\"")
	c.DataFromReader(http.StatusOK, info.Size(), contentType(name), file, nil)
}

func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".csv":
		return "text/csv"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
