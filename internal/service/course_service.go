package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/university-records/internal/models"
	appErrors "github.com/noah-isme/university-records/pkg/errors"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, courseID string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	SearchByDepartment(ctx context.Context, department string) ([]*models.Course, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) (bool, error)
	AssignInstructor(ctx context.Context, courseID, instructorID string) (bool, error)
	Delete(ctx context.Context, courseID string) (bool, error)
}

type instructorFinder interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
}

// CourseRequest holds the payload for creating or replacing a course.
type CourseRequest struct {
	CourseID     string `json:"course_id" validate:"required"`
	CourseName   string `json:"course_name" validate:"required"`
	Description  string `json:"description"`
	Credits      int    `json:"credits" validate:"required,gt=0"`
	Department   string `json:"department"`
	Schedule     string `json:"schedule"`
	Location     string `json:"location"`
	InstructorID string `json:"instructor_id"`
}

// CourseService handles course use-cases.
type CourseService struct {
	repo        courseRepository
	instructors instructorFinder
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, instructors instructorFinder, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, instructors: instructors, validator: validate, logger: logger}
}

func (s *CourseService) build(ctx context.Context, courseID string, req CourseRequest) (*models.Course, error) {
	course, err := models.NewCourse(models.CourseParams{
		CourseID:    courseID,
		CourseName:  req.CourseName,
		Description: req.Description,
		Credits:     req.Credits,
		Department:  req.Department,
		Schedule:    req.Schedule,
		Location:    req.Location,
	})
	if err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	if req.InstructorID == "" {
		return course, nil
	}
	instructor, err := s.loadInstructor(ctx, req.InstructorID)
	if err != nil {
		return nil, err
	}
	instructor.AssignToCourse(course)
	return course, nil
}

func (s *CourseService) loadInstructor(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := s.instructors.FindByID(ctx, id)
	if err != nil {
		mapped := storeError(s.logger, err, "instructor", "load")
		if appErrors.Is(mapped, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "instructor not found")
		}
		return nil, mapped
	}
	return instructor, nil
}

// Create registers a new course, optionally assigned to an existing instructor.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course, err := s.build(ctx, req.CourseID, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, storeError(s.logger, err, "course", "create")
	}
	return course, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return nil, storeError(s.logger, err, "course", "load")
	}
	return course, nil
}

// List returns every course ordered by name.
func (s *CourseService) List(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "courses", "list")
	}
	return courses, nil
}

// SearchByDepartment returns courses whose department contains the term.
func (s *CourseService) SearchByDepartment(ctx context.Context, department string) ([]*models.Course, error) {
	courses, err := s.repo.SearchByDepartment(ctx, department)
	if err != nil {
		return nil, storeError(s.logger, err, "courses", "search")
	}
	return courses, nil
}

// ListByInstructor returns the courses taught by the instructor.
func (s *CourseService) ListByInstructor(ctx context.Context, instructorID string) ([]*models.Course, error) {
	courses, err := s.repo.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, storeError(s.logger, err, "courses", "list")
	}
	return courses, nil
}

// Update replaces the course attributes; the course id itself is immutable.
func (s *CourseService) Update(ctx context.Context, courseID string, req CourseRequest) (*models.Course, error) {
	req.CourseID = courseID
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course, err := s.build(ctx, courseID, req)
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.Update(ctx, course)
	if err != nil {
		return nil, storeError(s.logger, err, "course", "update")
	}
	if !ok {
		return nil, notFound("course")
	}
	return course, nil
}

// AssignInstructor sets the course's instructor; an empty id unassigns it.
func (s *CourseService) AssignInstructor(ctx context.Context, courseID, instructorID string) (*models.Course, error) {
	if instructorID != "" {
		if _, err := s.loadInstructor(ctx, instructorID); err != nil {
			return nil, err
		}
	}
	ok, err := s.repo.AssignInstructor(ctx, courseID, instructorID)
	if err != nil {
		return nil, storeError(s.logger, err, "course", "assign instructor to")
	}
	if !ok {
		return nil, notFound("course")
	}
	return s.Get(ctx, courseID)
}

// Delete removes the course together with its enrollments.
func (s *CourseService) Delete(ctx context.Context, courseID string) error {
	ok, err := s.repo.Delete(ctx, courseID)
	if err != nil {
		return storeError(s.logger, err, "course", "delete")
	}
	if !ok {
		return notFound("course")
	}
	return nil
}
