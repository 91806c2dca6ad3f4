package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/university-records/internal/models"
)

// ReportRepository runs the aggregate queries behind the statistics reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// StudentStatistics counts students per variant and averages their GPA.
func (r *ReportRepository) StudentStatistics(ctx context.Context) (*models.StudentStatistics, error) {
	const query = `SELECT COUNT(*) AS total,
COUNT(CASE WHEN student_type = 'UNDERGRADUATE' THEN 1 END) AS undergraduate,
COUNT(CASE WHEN student_type = 'GRADUATE' THEN 1 END) AS graduate,
COALESCE(AVG(gpa), 0) AS average_gpa
FROM students`
	var stats models.StudentStatistics
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, classify("student statistics", err)
	}
	return &stats, nil
}

// CourseCountsByDepartment groups the catalogue by department.
func (r *ReportRepository) CourseCountsByDepartment(ctx context.Context) ([]models.DepartmentCount, error) {
	const query = `SELECT COALESCE(department, '') AS department, COUNT(*) AS course_count FROM courses GROUP BY department ORDER BY department`
	counts := []models.DepartmentCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, classify("course statistics", err)
	}
	return counts, nil
}

// EnrollmentStatistics summarises ACTIVE enrollments; the average covers graded rows.
func (r *ReportRepository) EnrollmentStatistics(ctx context.Context) (*models.EnrollmentStatistics, error) {
	const query = `SELECT COUNT(*) AS total_active,
COUNT(grade) AS graded_count,
COALESCE(AVG(grade), 0) AS average_grade
FROM enrollments WHERE status = 'ACTIVE'`
	var stats models.EnrollmentStatistics
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, classify("enrollment statistics", err)
	}
	return &stats, nil
}
