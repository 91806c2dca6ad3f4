package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/university-records/internal/models"
)

// InstructorRepository persists instructors; specializations live in a TEXT[] column.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs the repository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

type instructorRow struct {
	ID                string          `db:"id"`
	EmployeeID        string          `db:"employee_id"`
	FirstName         string          `db:"first_name"`
	LastName          string          `db:"last_name"`
	Email             sql.NullString  `db:"email"`
	PhoneNumber       sql.NullString  `db:"phone_number"`
	Department        sql.NullString  `db:"department"`
	Title             sql.NullString  `db:"title"`
	Salary            sql.NullFloat64 `db:"salary"`
	YearsOfExperience sql.NullInt64   `db:"years_of_experience"`
	Specializations   pq.StringArray  `db:"specializations"`
}

func (row instructorRow) toModel() (*models.Instructor, error) {
	instructor, err := models.NewInstructor(models.InstructorParams{
		ID:                row.ID,
		FirstName:         row.FirstName,
		LastName:          row.LastName,
		Email:             row.Email.String,
		PhoneNumber:       row.PhoneNumber.String,
		EmployeeID:        row.EmployeeID,
		Department:        row.Department.String,
		Title:             row.Title.String,
		Salary:            row.Salary.Float64,
		YearsOfExperience: int(row.YearsOfExperience.Int64),
		Specializations:   row.Specializations,
	})
	if err != nil {
		return nil, fmt.Errorf("decode instructor %s: %w", row.ID, err)
	}
	return instructor, nil
}

func newInstructorRow(i *models.Instructor) instructorRow {
	specs := i.Specializations()
	if specs == nil {
		specs = []string{}
	}
	return instructorRow{
		ID:                i.ID,
		EmployeeID:        i.EmployeeID,
		FirstName:         i.FirstName,
		LastName:          i.LastName,
		Email:             nullString(i.Email),
		PhoneNumber:       nullString(i.PhoneNumber),
		Department:        nullString(i.Department),
		Title:             nullString(i.Title),
		Salary:            sql.NullFloat64{Float64: i.Salary, Valid: true},
		YearsOfExperience: sql.NullInt64{Int64: int64(i.YearsOfExperience), Valid: true},
		Specializations:   pq.StringArray(specs),
	}
}

func toInstructors(rows []instructorRow) ([]*models.Instructor, error) {
	out := make([]*models.Instructor, 0, len(rows))
	for _, row := range rows {
		i, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

// Create inserts a new instructor.
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	const query = `INSERT INTO instructors (id, employee_id, first_name, last_name, email, phone_number, department, title, salary, years_of_experience, specializations)
VALUES (:id, :employee_id, :first_name, :last_name, :email, :phone_number, :department, :title, :salary, :years_of_experience, :specializations)`
	if _, err := r.db.NamedExecContext(ctx, query, newInstructorRow(instructor)); err != nil {
		return classify("create instructor", err)
	}
	return nil
}

// FindByID returns ErrNotFound when the instructor does not exist.
func (r *InstructorRepository) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	const query = `SELECT * FROM instructors WHERE id = $1`
	var row instructorRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, classify("get instructor", err)
	}
	return row.toModel()
}

// List returns instructors ordered by last name, first name.
func (r *InstructorRepository) List(ctx context.Context) ([]*models.Instructor, error) {
	const query = `SELECT * FROM instructors ORDER BY last_name, first_name`
	var rows []instructorRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, classify("list instructors", err)
	}
	return toInstructors(rows)
}

// SearchByDepartment matches the department case-insensitively as a substring.
func (r *InstructorRepository) SearchByDepartment(ctx context.Context, department string) ([]*models.Instructor, error) {
	const query = `SELECT * FROM instructors WHERE department ILIKE $1 ORDER BY last_name, first_name`
	var rows []instructorRow
	if err := r.db.SelectContext(ctx, &rows, query, "%"+department+"%"); err != nil {
		return nil, classify("search instructors", err)
	}
	return toInstructors(rows)
}

// Update replaces the mutable columns.
func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor) (bool, error) {
	const query = `UPDATE instructors SET employee_id = :employee_id, first_name = :first_name, last_name = :last_name, email = :email, phone_number = :phone_number, department = :department, title = :title, salary = :salary, years_of_experience = :years_of_experience, specializations = :specializations WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, newInstructorRow(instructor))
	if err != nil {
		return false, classify("update instructor", err)
	}
	return affected("update instructor", res)
}

// Delete removes the instructor; their courses become unassigned through the schema.
func (r *InstructorRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM instructors WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, classify("delete instructor", err)
	}
	return affected("delete instructor", res)
}
