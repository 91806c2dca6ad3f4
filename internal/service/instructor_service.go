package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/university-records/internal/models"
)

type instructorRepository interface {
	Create(ctx context.Context, instructor *models.Instructor) error
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
	List(ctx context.Context) ([]*models.Instructor, error)
	SearchByDepartment(ctx context.Context, department string) ([]*models.Instructor, error)
	Update(ctx context.Context, instructor *models.Instructor) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type instructorCourseLister interface {
	ListByInstructor(ctx context.Context, instructorID string) ([]*models.Course, error)
}

type courseRosterLister interface {
	CourseStudentIDs(ctx context.Context, courseID string) ([]string, error)
}

// InstructorRequest holds the payload for creating or replacing an instructor.
type InstructorRequest struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id" validate:"required"`
	FirstName         string   `json:"first_name" validate:"required"`
	LastName          string   `json:"last_name" validate:"required"`
	Email             string   `json:"email" validate:"omitempty,email"`
	PhoneNumber       string   `json:"phone_number"`
	Department        string   `json:"department"`
	Title             string   `json:"title"`
	Salary            float64  `json:"salary" validate:"gte=0"`
	YearsOfExperience int      `json:"years_of_experience" validate:"gte=0"`
	Specializations   []string `json:"specializations"`
}

func (r InstructorRequest) build(id string) (*models.Instructor, error) {
	return models.NewInstructor(models.InstructorParams{
		ID:                id,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Email:             r.Email,
		PhoneNumber:       r.PhoneNumber,
		EmployeeID:        r.EmployeeID,
		Department:        r.Department,
		Title:             r.Title,
		Salary:            r.Salary,
		YearsOfExperience: r.YearsOfExperience,
		Specializations:   r.Specializations,
	})
}

// InstructorService handles instructor use-cases.
type InstructorService struct {
	repo      instructorRepository
	courses   instructorCourseLister
	roster    courseRosterLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstructorService constructs the instructor service.
func NewInstructorService(repo instructorRepository, courses instructorCourseLister, roster courseRosterLister, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{repo: repo, courses: courses, roster: roster, validator: validate, logger: logger}
}

// Create registers a new instructor.
func (s *InstructorService) Create(ctx context.Context, req InstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid instructor payload")
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	instructor, err := req.build(id)
	if err != nil {
		return nil, validationError(err, "invalid instructor payload")
	}
	if err := s.repo.Create(ctx, instructor); err != nil {
		return nil, storeError(s.logger, err, "instructor", "create")
	}
	return instructor, nil
}

// Get loads the instructor with its assigned courses attached. Each course
// carries its ACTIVE students when a roster lister is configured.
func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, err, "instructor", "load")
	}
	if s.courses == nil {
		return instructor, nil
	}
	courses, err := s.courses.ListByInstructor(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, err, "instructor courses", "list")
	}
	for _, c := range courses {
		if s.roster != nil {
			ids, err := s.roster.CourseStudentIDs(ctx, c.CourseID)
			if err != nil {
				return nil, storeError(s.logger, err, "course roster", "list")
			}
			for _, studentID := range ids {
				c.AddStudent(studentID)
			}
		}
		instructor.AssignToCourse(c)
	}
	return instructor, nil
}

// List returns every instructor.
func (s *InstructorService) List(ctx context.Context) ([]*models.Instructor, error) {
	instructors, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "instructors", "list")
	}
	return instructors, nil
}

// SearchByDepartment returns instructors whose department contains the term.
func (s *InstructorService) SearchByDepartment(ctx context.Context, department string) ([]*models.Instructor, error) {
	instructors, err := s.repo.SearchByDepartment(ctx, department)
	if err != nil {
		return nil, storeError(s.logger, err, "instructors", "search")
	}
	return instructors, nil
}

// Qualified returns the instructors whose specializations cover the subject.
func (s *InstructorService) Qualified(ctx context.Context, subject string) ([]*models.Instructor, error) {
	instructors, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Instructor, 0, len(instructors))
	for _, i := range instructors {
		if i.CanTeach(subject) {
			out = append(out, i)
		}
	}
	return out, nil
}

// Update replaces the instructor's attributes.
func (s *InstructorService) Update(ctx context.Context, id string, req InstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid instructor payload")
	}
	instructor, err := req.build(id)
	if err != nil {
		return nil, validationError(err, "invalid instructor payload")
	}
	ok, err := s.repo.Update(ctx, instructor)
	if err != nil {
		return nil, storeError(s.logger, err, "instructor", "update")
	}
	if !ok {
		return nil, notFound("instructor")
	}
	return instructor, nil
}

// Delete removes the instructor; their courses become unassigned.
func (s *InstructorService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(s.logger, err, "instructor", "delete")
	}
	if !ok {
		return notFound("instructor")
	}
	return nil
}
