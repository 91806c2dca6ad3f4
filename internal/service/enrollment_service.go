package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/university-records/internal/models"
)

type enrollmentRepository interface {
	Enroll(ctx context.Context, studentID, courseID string) (bool, error)
	Drop(ctx context.Context, studentID, courseID string) (bool, error)
	UpdateGrade(ctx context.Context, studentID, courseID string, grade float64) (bool, error)
	Grade(ctx context.Context, studentID, courseID string) (*float64, error)
	StudentCourseIDs(ctx context.Context, studentID string) ([]string, error)
	CourseStudentIDs(ctx context.Context, courseID string) ([]string, error)
	GradedCourses(ctx context.Context, studentID string) ([]models.GradedCourse, error)
	ListActive(ctx context.Context) ([]models.EnrollmentRecord, error)
	IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error)
	CourseStats(ctx context.Context, courseID string) (*models.CourseStats, error)
}

type gpaStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	UpdateGPA(ctx context.Context, id string, gpa float64) (bool, error)
}

type enrollmentKey struct {
	StudentID string `validate:"required"`
	CourseID  string `validate:"required"`
}

type gradeInput struct {
	enrollmentKey
	Grade float64 `validate:"gte=0,lte=100"`
}

// EnrollmentService drives the per-pair state machine:
// absent -> ACTIVE -> DROPPED -> ACTIVE. Grades are accepted only while ACTIVE.
type EnrollmentService struct {
	repo      enrollmentRepository
	students  gpaStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs the enrollment service. metrics may be nil.
func NewEnrollmentService(repo enrollmentRepository, students gpaStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, students: students, metrics: metrics, validator: validate, logger: logger}
}

// Enroll activates the pair. Enrolling an already ACTIVE pair succeeds again.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (bool, error) {
	if err := s.validator.Struct(enrollmentKey{StudentID: studentID, CourseID: courseID}); err != nil {
		return false, validationError(err, "student and course are required")
	}
	ok, err := s.repo.Enroll(ctx, studentID, courseID)
	if err != nil {
		return false, storeError(s.logger, err, "enrollment", "create")
	}
	s.metrics.RecordEnrollmentTransition("enroll", ok)
	return ok, nil
}

// Drop marks the pair DROPPED. Dropping a DROPPED pair succeeds again; false
// means there was no row for it.
func (s *EnrollmentService) Drop(ctx context.Context, studentID, courseID string) (bool, error) {
	if err := s.validator.Struct(enrollmentKey{StudentID: studentID, CourseID: courseID}); err != nil {
		return false, validationError(err, "student and course are required")
	}
	ok, err := s.repo.Drop(ctx, studentID, courseID)
	if err != nil {
		return false, storeError(s.logger, err, "enrollment", "drop")
	}
	s.metrics.RecordEnrollmentTransition("drop", ok)
	return ok, nil
}

// AddGrade stores the grade of an ACTIVE enrollment and refreshes the student's
// GPA. It returns false without error when the pair is DROPPED or absent.
func (s *EnrollmentService) AddGrade(ctx context.Context, studentID, courseID string, grade float64) (bool, error) {
	input := gradeInput{enrollmentKey: enrollmentKey{StudentID: studentID, CourseID: courseID}, Grade: grade}
	if err := s.validator.Struct(input); err != nil {
		return false, validationError(err, "grade must be between 0 and 100")
	}
	ok, err := s.repo.UpdateGrade(ctx, studentID, courseID, grade)
	if err != nil {
		return false, storeError(s.logger, err, "grade", "store")
	}
	s.metrics.RecordEnrollmentTransition("grade", ok)
	if !ok {
		return false, nil
	}
	if _, err := s.RecalculateGPA(ctx, studentID); err != nil {
		s.logger.Warn("gpa recalculation failed", zap.String("student_id", studentID), zap.Error(err))
	}
	return true, nil
}

// RecalculateGPA rebuilds the student's graded courses in memory, lets the
// entity model compute the GPA, and persists the result.
func (s *EnrollmentService) RecalculateGPA(ctx context.Context, studentID string) (float64, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return 0, storeError(s.logger, err, "student", "load")
	}
	graded, err := s.repo.GradedCourses(ctx, studentID)
	if err != nil {
		return 0, storeError(s.logger, err, "graded courses", "list")
	}

	roster := models.NewRoster()
	roster.AddStudent(student)
	for _, g := range graded {
		course, err := models.NewCourse(models.CourseParams{CourseID: g.CourseID, CourseName: g.CourseName, Credits: g.Credits})
		if err != nil {
			s.logger.Warn("skipping course in gpa", zap.String("course_id", g.CourseID), zap.Error(err))
			continue
		}
		roster.AddCourse(course)
		roster.Enroll(student.ID, course.CourseID)
		roster.Grade(student.ID, course.CourseID, g.Grade)
	}
	gpa := student.CalculateGPA()

	if _, err := s.students.UpdateGPA(ctx, studentID, gpa); err != nil {
		return 0, storeError(s.logger, err, "student", "update gpa of")
	}
	return gpa, nil
}

// Grade returns the grade of an ACTIVE enrollment; nil means not graded yet.
func (s *EnrollmentService) Grade(ctx context.Context, studentID, courseID string) (*float64, error) {
	grade, err := s.repo.Grade(ctx, studentID, courseID)
	if err != nil {
		return nil, storeError(s.logger, err, "enrollment", "load")
	}
	return grade, nil
}

// StudentCourses lists the course ids the student is actively enrolled in.
func (s *EnrollmentService) StudentCourses(ctx context.Context, studentID string) ([]string, error) {
	ids, err := s.repo.StudentCourseIDs(ctx, studentID)
	if err != nil {
		return nil, storeError(s.logger, err, "student courses", "list")
	}
	return ids, nil
}

// CourseStudents lists the student ids actively enrolled in the course.
func (s *EnrollmentService) CourseStudents(ctx context.Context, courseID string) ([]string, error) {
	ids, err := s.repo.CourseStudentIDs(ctx, courseID)
	if err != nil {
		return nil, storeError(s.logger, err, "course students", "list")
	}
	return ids, nil
}

// ListActive returns every ACTIVE enrollment with student and course details.
func (s *EnrollmentService) ListActive(ctx context.Context) ([]models.EnrollmentRecord, error) {
	records, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "enrollments", "list")
	}
	return records, nil
}

// IsEnrolled reports whether the pair is ACTIVE.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	ok, err := s.repo.IsEnrolled(ctx, studentID, courseID)
	if err != nil {
		return false, storeError(s.logger, err, "enrollment", "check")
	}
	return ok, nil
}

// CourseStats aggregates the course's ACTIVE enrollments.
func (s *EnrollmentService) CourseStats(ctx context.Context, courseID string) (*models.CourseStats, error) {
	stats, err := s.repo.CourseStats(ctx, courseID)
	if err != nil {
		return nil, storeError(s.logger, err, "course statistics", "load")
	}
	return stats, nil
}
