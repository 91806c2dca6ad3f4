package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/university-records/internal/models"
)

type studentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	SearchByMajor(ctx context.Context, major string) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// StudentRequest holds the payload for creating or replacing a student. Only
// the fields of the selected student type are used.
type StudentRequest struct {
	ID          string             `json:"id"`
	StudentID   string             `json:"student_id" validate:"required"`
	FirstName   string             `json:"first_name" validate:"required"`
	LastName    string             `json:"last_name" validate:"required"`
	Email       string             `json:"email" validate:"omitempty,email"`
	PhoneNumber string             `json:"phone_number"`
	Major       string             `json:"major"`
	YearLevel   int                `json:"year_level" validate:"required,gt=0"`
	StudentType models.StudentType `json:"student_type" validate:"required,oneof=UNDERGRADUATE GRADUATE"`

	Advisor         string `json:"advisor"`
	IsHonorsStudent bool   `json:"is_honors_student"`

	ThesisTitle   string `json:"thesis_title"`
	Supervisor    string `json:"supervisor"`
	DegreeProgram string `json:"degree_program"`
}

func (r StudentRequest) build(id string, gpa float64) (*models.Student, error) {
	params := models.StudentParams{
		ID:          id,
		StudentID:   r.StudentID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Major:       r.Major,
		YearLevel:   r.YearLevel,
		GPA:         gpa,
	}
	if r.StudentType == models.StudentTypeGraduate {
		return models.NewGraduateStudent(params, models.GraduateInfo{
			ThesisTitle:   r.ThesisTitle,
			Supervisor:    r.Supervisor,
			DegreeProgram: r.DegreeProgram,
		})
	}
	return models.NewUndergraduateStudent(params, models.UndergraduateInfo{
		Advisor:         r.Advisor,
		IsHonorsStudent: r.IsHonorsStudent,
	})
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// Create registers a new student, generating the internal id when absent.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	student, err := req.build(id, 0)
	if err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, storeError(s.logger, err, "student", "create")
	}
	s.logger.Info("student created", zap.String("id", student.ID), zap.String("type", string(student.Type)))
	return student, nil
}

// Get returns a student by internal id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, err, "student", "load")
	}
	return student, nil
}

// List returns every student ordered by first name.
func (s *StudentService) List(ctx context.Context) ([]*models.Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "students", "list")
	}
	return students, nil
}

// SearchByMajor returns students whose major contains the term.
func (s *StudentService) SearchByMajor(ctx context.Context, major string) ([]*models.Student, error) {
	students, err := s.repo.SearchByMajor(ctx, major)
	if err != nil {
		return nil, storeError(s.logger, err, "students", "search")
	}
	return students, nil
}

// Update replaces the student's attributes. The stored GPA is kept since it is
// derived from grades.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, err, "student", "load")
	}
	student, err := req.build(id, current.GPA)
	if err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	ok, err := s.repo.Update(ctx, student)
	if err != nil {
		return nil, storeError(s.logger, err, "student", "update")
	}
	if !ok {
		return nil, notFound("student")
	}
	return student, nil
}

// Delete removes the student together with their enrollments.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(s.logger, err, "student", "delete")
	}
	if !ok {
		return notFound("student")
	}
	return nil
}
