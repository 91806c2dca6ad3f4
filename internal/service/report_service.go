package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/university-records/internal/models"
	appErrors "github.com/noah-isme/university-records/pkg/errors"
	"github.com/noah-isme/university-records/pkg/export"
)

type reportRepository interface {
	StudentStatistics(ctx context.Context) (*models.StudentStatistics, error)
	CourseCountsByDepartment(ctx context.Context) ([]models.DepartmentCount, error)
	EnrollmentStatistics(ctx context.Context) (*models.EnrollmentStatistics, error)
}

type activeEnrollmentLister interface {
	ListActive(ctx context.Context) ([]models.EnrollmentRecord, error)
}

type reportStore interface {
	Save(name string, data []byte) (string, error)
}

// ReportKind names an exportable report.
type ReportKind string

const (
	ReportEnrollments ReportKind = "enrollments"
	ReportCourses     ReportKind = "courses"
)

// ExportResult describes a generated report file.
type ExportResult struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// ReportService produces the statistics reports and their file exports.
type ReportService struct {
	repo        reportRepository
	enrollments activeEnrollmentLister
	store       reportStore
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
}

// NewReportService constructs the report service. store may be nil when exports
// are not needed; metrics may be nil.
func NewReportService(repo reportRepository, enrollments activeEnrollmentLister, store reportStore, metrics *MetricsService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, enrollments: enrollments, store: store, metrics: metrics, logger: logger, now: time.Now}
}

func (s *ReportService) observe(label string, start time.Time) {
	s.metrics.ObserveDBQuery(label, time.Since(start))
}

// StudentStatistics counts students per variant with their average GPA.
func (s *ReportService) StudentStatistics(ctx context.Context) (*models.StudentStatistics, error) {
	defer s.observe("student_statistics", time.Now())
	stats, err := s.repo.StudentStatistics(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "student statistics", "load")
	}
	return stats, nil
}

// CourseStatistics counts courses overall and per department.
func (s *ReportService) CourseStatistics(ctx context.Context) (*models.CourseStatistics, error) {
	defer s.observe("course_statistics", time.Now())
	rows, err := s.repo.CourseCountsByDepartment(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "course statistics", "load")
	}
	stats := &models.CourseStatistics{ByDepartment: make(map[string]int, len(rows))}
	for _, row := range rows {
		stats.ByDepartment[row.Department] += row.Count
		stats.Total += row.Count
	}
	return stats, nil
}

// EnrollmentStatistics summarises ACTIVE enrollments.
func (s *ReportService) EnrollmentStatistics(ctx context.Context) (*models.EnrollmentStatistics, error) {
	defer s.observe("enrollment_statistics", time.Now())
	stats, err := s.repo.EnrollmentStatistics(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "enrollment statistics", "load")
	}
	return stats, nil
}

// Export renders the report in the requested format and saves it to the
// report store.
func (s *ReportService) Export(ctx context.Context, kind ReportKind, format models.ReportFormat) (*ExportResult, error) {
	if s.store == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "report storage is not configured")
	}
	exporter, err := export.ForFormat(string(format))
	if err != nil {
		return nil, validationError(err, "unsupported report format")
	}

	var table export.Table
	switch kind {
	case ReportEnrollments:
		table, err = s.enrollmentTable(ctx)
	case ReportCourses:
		table, err = s.courseTable(ctx)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown report %q", kind))
	}
	if err != nil {
		return nil, err
	}

	data, err := exporter.Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	name := fmt.Sprintf("%s-%s.%s", kind, s.now().UTC().Format("20060102-150405"), exporter.Extension())
	path, err := s.store.Save(name, data)
	if err != nil {
		s.logger.Error("save report", zap.String("name", name), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save report")
	}
	s.logger.Info("report exported", zap.String("name", name), zap.Int("rows", len(table.Rows)))
	return &ExportResult{Name: name, Path: path, ContentType: exporter.ContentType(), Size: len(data)}, nil
}

func (s *ReportService) enrollmentTable(ctx context.Context) (export.Table, error) {
	defer s.observe("list_active_enrollments", time.Now())
	records, err := s.enrollments.ListActive(ctx)
	if err != nil {
		return export.Table{}, storeError(s.logger, err, "enrollments", "list")
	}
	table := export.Table{
		Title:   "Active enrollments",
		Headers: []string{"Student Number", "Student", "Course ID", "Course", "Credits", "Grade", "Enrolled"},
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		grade := ""
		if r.Grade != nil {
			grade = strconv.FormatFloat(*r.Grade, 'f', 2, 64)
		}
		table.Rows = append(table.Rows, []string{
			r.StudentNumber, r.StudentName, r.CourseID, r.CourseName,
			strconv.Itoa(r.Credits), grade, r.EnrollmentDate.Format("2006-01-02"),
		})
	}
	return table, nil
}

func (s *ReportService) courseTable(ctx context.Context) (export.Table, error) {
	stats, err := s.CourseStatistics(ctx)
	if err != nil {
		return export.Table{}, err
	}
	departments := make([]string, 0, len(stats.ByDepartment))
	for d := range stats.ByDepartment {
		departments = append(departments, d)
	}
	sort.Strings(departments)

	table := export.Table{
		Title:   "Courses by department",
		Headers: []string{"Department", "Courses"},
		Rows:    make([][]string, 0, len(departments)+1),
	}
	for _, d := range departments {
		table.Rows = append(table.Rows, []string{d, strconv.Itoa(stats.ByDepartment[d])})
	}
	table.Rows = append(table.Rows, []string{"Total", strconv.Itoa(stats.Total)})
	return table, nil
}
