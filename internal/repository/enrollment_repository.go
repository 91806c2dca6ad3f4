package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/university-records/internal/models"
)

// EnrollmentRepository handles the student/course join table. Each pair has at
// most one row whose status moves between ACTIVE and DROPPED.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll inserts an ACTIVE row, or reactivates the existing one.
func (r *EnrollmentRepository) Enroll(ctx context.Context, studentID, courseID string) (bool, error) {
	const query = `INSERT INTO enrollments (student_id, course_id, status) VALUES ($1, $2, 'ACTIVE') ON CONFLICT (student_id, course_id) DO UPDATE SET status = 'ACTIVE'`
	res, err := r.db.ExecContext(ctx, query, studentID, courseID)
	if err != nil {
		return false, classify("enroll student", err)
	}
	return affected("enroll student", res)
}

// Drop marks the row DROPPED whatever its current status; the row and its
// grade stay in the table. It reports false only when the pair has no row.
func (r *EnrollmentRepository) Drop(ctx context.Context, studentID, courseID string) (bool, error) {
	const query = `UPDATE enrollments SET status = 'DROPPED' WHERE student_id = $1 AND course_id = $2`
	res, err := r.db.ExecContext(ctx, query, studentID, courseID)
	if err != nil {
		return false, classify("drop student", err)
	}
	return affected("drop student", res)
}

// UpdateGrade grades an ACTIVE row. It reports false for DROPPED or missing pairs.
func (r *EnrollmentRepository) UpdateGrade(ctx context.Context, studentID, courseID string, grade float64) (bool, error) {
	const query = `UPDATE enrollments SET grade = $1 WHERE student_id = $2 AND course_id = $3 AND status = 'ACTIVE'`
	res, err := r.db.ExecContext(ctx, query, grade, studentID, courseID)
	if err != nil {
		return false, classify("grade student", err)
	}
	return affected("grade student", res)
}

// Grade returns the grade of an ACTIVE enrollment, nil while ungraded, and
// ErrNotFound when there is no ACTIVE row.
func (r *EnrollmentRepository) Grade(ctx context.Context, studentID, courseID string) (*float64, error) {
	const query = `SELECT grade FROM enrollments WHERE student_id = $1 AND course_id = $2 AND status = 'ACTIVE'`
	var grade sql.NullFloat64
	if err := r.db.GetContext(ctx, &grade, query, studentID, courseID); err != nil {
		return nil, classify("get grade", err)
	}
	if !grade.Valid {
		return nil, nil
	}
	return &grade.Float64, nil
}

// StudentCourseIDs lists the course ids of the student's ACTIVE enrollments.
func (r *EnrollmentRepository) StudentCourseIDs(ctx context.Context, studentID string) ([]string, error) {
	const query = `SELECT course_id FROM enrollments WHERE student_id = $1 AND status = 'ACTIVE'`
	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, query, studentID); err != nil {
		return nil, classify("list student courses", err)
	}
	return ids, nil
}

// CourseStudentIDs lists the student ids of the course's ACTIVE enrollments.
func (r *EnrollmentRepository) CourseStudentIDs(ctx context.Context, courseID string) ([]string, error) {
	const query = `SELECT student_id FROM enrollments WHERE course_id = $1 AND status = 'ACTIVE'`
	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, query, courseID); err != nil {
		return nil, classify("list course students", err)
	}
	return ids, nil
}

// GradedCourses returns the student's ACTIVE graded enrollments with credits.
func (r *EnrollmentRepository) GradedCourses(ctx context.Context, studentID string) ([]models.GradedCourse, error) {
	const query = `SELECT e.course_id, c.course_name, c.credits, e.grade FROM enrollments e JOIN courses c ON e.course_id = c.course_id WHERE e.student_id = $1 AND e.status = 'ACTIVE' AND e.grade IS NOT NULL ORDER BY e.enrollment_date, e.course_id`
	courses := []models.GradedCourse{}
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, classify("list graded courses", err)
	}
	return courses, nil
}

type enrollmentRecordRow struct {
	StudentID      string          `db:"student_id"`
	CourseID       string          `db:"course_id"`
	Status         string          `db:"status"`
	Grade          sql.NullFloat64 `db:"grade"`
	EnrollmentDate time.Time       `db:"enrollment_date"`
	FirstName      string          `db:"first_name"`
	LastName       string          `db:"last_name"`
	StudentNumber  string          `db:"student_number"`
	CourseName     string          `db:"course_name"`
	Credits        int             `db:"credits"`
}

// ListActive returns every ACTIVE enrollment joined with student and course
// details, ordered by student last name then course name.
func (r *EnrollmentRepository) ListActive(ctx context.Context) ([]models.EnrollmentRecord, error) {
	const query = `SELECT e.*, s.first_name, s.last_name, s.student_id as student_number, c.course_name, c.credits FROM enrollments e JOIN students s ON e.student_id = s.id JOIN courses c ON e.course_id = c.course_id WHERE e.status = 'ACTIVE' ORDER BY s.last_name, c.course_name`
	var rows []enrollmentRecordRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, classify("list enrollments", err)
	}
	records := make([]models.EnrollmentRecord, 0, len(rows))
	for _, row := range rows {
		rec := models.EnrollmentRecord{
			StudentID:      row.StudentID,
			StudentName:    row.FirstName + " " + row.LastName,
			StudentNumber:  row.StudentNumber,
			CourseID:       row.CourseID,
			CourseName:     row.CourseName,
			Credits:        row.Credits,
			EnrollmentDate: row.EnrollmentDate,
			Status:         models.EnrollmentStatus(row.Status),
		}
		if row.Grade.Valid {
			grade := row.Grade.Float64
			rec.Grade = &grade
		}
		records = append(records, rec)
	}
	return records, nil
}

// IsEnrolled reports whether the pair has an ACTIVE row.
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE student_id = $1 AND course_id = $2 AND status = 'ACTIVE'`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID, courseID); err != nil {
		return false, classify("check enrollment", err)
	}
	return count > 0, nil
}

// CourseStats aggregates the ACTIVE enrollments of a course. The average only
// covers graded rows and is 0 when none are graded.
func (r *EnrollmentRepository) CourseStats(ctx context.Context, courseID string) (*models.CourseStats, error) {
	const query = `SELECT COUNT(*) as total_enrolled, COALESCE(AVG(grade), 0) as average_grade, COUNT(CASE WHEN grade IS NOT NULL THEN 1 END) as graded_count FROM enrollments WHERE course_id = $1 AND status = 'ACTIVE'`
	var stats models.CourseStats
	if err := r.db.GetContext(ctx, &stats, query, courseID); err != nil {
		return nil, classify("course enrollment stats", err)
	}
	return &stats, nil
}
