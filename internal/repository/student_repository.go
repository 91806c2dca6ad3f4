package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/university-records/internal/models"
)

// StudentRepository manages persistence for both student variants in the
// students table, discriminated by student_type.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

type studentRow struct {
	ID              string          `db:"id"`
	StudentID       string          `db:"student_id"`
	FirstName       string          `db:"first_name"`
	LastName        string          `db:"last_name"`
	Email           sql.NullString  `db:"email"`
	PhoneNumber     sql.NullString  `db:"phone_number"`
	Major           sql.NullString  `db:"major"`
	YearLevel       int             `db:"year_level"`
	GPA             sql.NullFloat64 `db:"gpa"`
	StudentType     string          `db:"student_type"`
	Advisor         sql.NullString  `db:"advisor"`
	IsHonorsStudent sql.NullBool    `db:"is_honors_student"`
	ThesisTitle     sql.NullString  `db:"thesis_title"`
	Supervisor      sql.NullString  `db:"supervisor"`
	DegreeProgram   sql.NullString  `db:"degree_program"`
}

func (row studentRow) toModel() (*models.Student, error) {
	typ, err := models.ParseStudentType(row.StudentType)
	if err != nil {
		return nil, fmt.Errorf("decode student %s: %w", row.ID, err)
	}
	params := models.StudentParams{
		ID:          row.ID,
		StudentID:   row.StudentID,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Email:       row.Email.String,
		PhoneNumber: row.PhoneNumber.String,
		Major:       row.Major.String,
		YearLevel:   row.YearLevel,
		GPA:         row.GPA.Float64,
	}

	var student *models.Student
	if typ == models.StudentTypeGraduate {
		student, err = models.NewGraduateStudent(params, models.GraduateInfo{
			ThesisTitle:   row.ThesisTitle.String,
			Supervisor:    row.Supervisor.String,
			DegreeProgram: row.DegreeProgram.String,
		})
	} else {
		student, err = models.NewUndergraduateStudent(params, models.UndergraduateInfo{
			Advisor:         row.Advisor.String,
			IsHonorsStudent: row.IsHonorsStudent.Bool,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("decode student %s: %w", row.ID, err)
	}
	return student, nil
}

// newStudentRow writes NULL into the columns that belong to the other variant.
func newStudentRow(s *models.Student) studentRow {
	row := studentRow{
		ID:              s.ID,
		StudentID:       s.StudentID,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		Email:           nullString(s.Email),
		PhoneNumber:     nullString(s.PhoneNumber),
		Major:           nullString(s.Major),
		YearLevel:       s.YearLevel,
		GPA:             sql.NullFloat64{Float64: s.GPA, Valid: true},
		StudentType:     string(s.Type),
		IsHonorsStudent: sql.NullBool{Valid: true},
	}
	switch s.Type {
	case models.StudentTypeGraduate:
		if g := s.Graduate; g != nil {
			row.ThesisTitle = nullString(g.ThesisTitle)
			row.Supervisor = nullString(g.Supervisor)
			row.DegreeProgram = nullString(g.DegreeProgram)
		}
	default:
		if u := s.Undergraduate; u != nil {
			row.Advisor = nullString(u.Advisor)
			row.IsHonorsStudent.Bool = u.IsHonorsStudent
		}
	}
	return row
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func toStudents(rows []studentRow) ([]*models.Student, error) {
	students := make([]*models.Student, 0, len(rows))
	for _, row := range rows {
		s, err := row.toModel()
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, nil
}

// Create inserts all columns of the student in one statement.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (id, student_id, first_name, last_name, email, phone_number, major, year_level, gpa, student_type, advisor, is_honors_student, thesis_title, supervisor, degree_program)
VALUES (:id, :student_id, :first_name, :last_name, :email, :phone_number, :major, :year_level, :gpa, :student_type, :advisor, :is_honors_student, :thesis_title, :supervisor, :degree_program)`
	if _, err := r.db.NamedExecContext(ctx, query, newStudentRow(student)); err != nil {
		return classify("create student", err)
	}
	return nil
}

// FindByID returns ErrNotFound when no student has the id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT * FROM students WHERE id = $1`
	var row studentRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, classify("get student", err)
	}
	return row.toModel()
}

// List returns every student ordered by first name.
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	const query = `SELECT * FROM students ORDER BY first_name`
	var rows []studentRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, classify("list students", err)
	}
	return toStudents(rows)
}

// SearchByMajor matches the major case-insensitively as a substring.
func (r *StudentRepository) SearchByMajor(ctx context.Context, major string) ([]*models.Student, error) {
	const query = `SELECT * FROM students WHERE major ILIKE $1 ORDER BY last_name, first_name`
	var rows []studentRow
	if err := r.db.SelectContext(ctx, &rows, query, "%"+major+"%"); err != nil {
		return nil, classify("search students", err)
	}
	return toStudents(rows)
}

// Update replaces every mutable column and reports whether the row existed.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) (bool, error) {
	const query = `UPDATE students SET student_id = :student_id, first_name = :first_name, last_name = :last_name, email = :email, phone_number = :phone_number, major = :major, year_level = :year_level, gpa = :gpa, student_type = :student_type, advisor = :advisor, is_honors_student = :is_honors_student, thesis_title = :thesis_title, supervisor = :supervisor, degree_program = :degree_program WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, newStudentRow(student))
	if err != nil {
		return false, classify("update student", err)
	}
	return affected("update student", res)
}

// UpdateGPA stores a recomputed GPA.
func (r *StudentRepository) UpdateGPA(ctx context.Context, id string, gpa float64) (bool, error) {
	const query = `UPDATE students SET gpa = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, gpa, id)
	if err != nil {
		return false, classify("update student gpa", err)
	}
	return affected("update student gpa", res)
}

// Delete removes the student; enrollments go with it through the schema cascade.
func (r *StudentRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM students WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, classify("delete student", err)
	}
	return affected("delete student", res)
}
