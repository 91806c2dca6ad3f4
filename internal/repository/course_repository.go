package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/university-records/internal/models"
)

// CourseRepository persists courses. Reads join the assigned instructor.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseSelect = `SELECT c.*, i.first_name, i.last_name, i.email, i.phone_number, i.employee_id, i.department as instructor_dept, i.title, i.salary, i.years_of_experience
FROM courses c LEFT JOIN instructors i ON c.instructor_id = i.id`

type courseRow struct {
	CourseID     string         `db:"course_id"`
	CourseName   string         `db:"course_name"`
	Description  sql.NullString `db:"description"`
	Credits      int            `db:"credits"`
	Department   sql.NullString `db:"department"`
	InstructorID sql.NullString `db:"instructor_id"`
	Schedule     sql.NullString `db:"schedule"`
	Location     sql.NullString `db:"location"`

	FirstName         sql.NullString  `db:"first_name"`
	LastName          sql.NullString  `db:"last_name"`
	Email             sql.NullString  `db:"email"`
	PhoneNumber       sql.NullString  `db:"phone_number"`
	EmployeeID        sql.NullString  `db:"employee_id"`
	InstructorDept    sql.NullString  `db:"instructor_dept"`
	Title             sql.NullString  `db:"title"`
	Salary            sql.NullFloat64 `db:"salary"`
	YearsOfExperience sql.NullInt64   `db:"years_of_experience"`
}

func (row courseRow) toModel() (*models.Course, error) {
	course, err := models.NewCourse(models.CourseParams{
		CourseID:    row.CourseID,
		CourseName:  row.CourseName,
		Description: row.Description.String,
		Credits:     row.Credits,
		Department:  row.Department.String,
		Schedule:    row.Schedule.String,
		Location:    row.Location.String,
	})
	if err != nil {
		return nil, fmt.Errorf("decode course %s: %w", row.CourseID, err)
	}
	if !row.InstructorID.Valid {
		return course, nil
	}
	instructor, err := models.NewInstructor(models.InstructorParams{
		ID:                row.InstructorID.String,
		FirstName:         row.FirstName.String,
		LastName:          row.LastName.String,
		Email:             row.Email.String,
		PhoneNumber:       row.PhoneNumber.String,
		EmployeeID:        row.EmployeeID.String,
		Department:        row.InstructorDept.String,
		Title:             row.Title.String,
		Salary:            row.Salary.Float64,
		YearsOfExperience: int(row.YearsOfExperience.Int64),
	})
	if err != nil {
		return nil, fmt.Errorf("decode instructor of course %s: %w", row.CourseID, err)
	}
	instructor.AssignToCourse(course)
	return course, nil
}

type courseWrite struct {
	CourseID     string         `db:"course_id"`
	CourseName   string         `db:"course_name"`
	Description  sql.NullString `db:"description"`
	Credits      int            `db:"credits"`
	Department   sql.NullString `db:"department"`
	InstructorID sql.NullString `db:"instructor_id"`
	Schedule     sql.NullString `db:"schedule"`
	Location     sql.NullString `db:"location"`
}

func newCourseWrite(c *models.Course) courseWrite {
	w := courseWrite{
		CourseID:    c.CourseID,
		CourseName:  c.CourseName,
		Description: nullString(c.Description),
		Credits:     c.Credits,
		Department:  nullString(c.Department),
		Schedule:    nullString(c.Schedule),
		Location:    nullString(c.Location),
	}
	if c.Instructor != nil {
		w.InstructorID = nullString(c.Instructor.ID)
	}
	return w
}

func (r *CourseRepository) selectCourses(ctx context.Context, op, query string, args ...interface{}) ([]*models.Course, error) {
	var rows []courseRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, classify(op, err)
	}
	courses := make([]*models.Course, 0, len(rows))
	for _, row := range rows {
		c, err := row.toModel()
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// Create inserts the course; a missing instructor reference yields ErrForeignKey.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO courses (course_id, course_name, description, credits, department, instructor_id, schedule, location)
VALUES (:course_id, :course_name, :description, :credits, :department, :instructor_id, :schedule, :location)`
	if _, err := r.db.NamedExecContext(ctx, query, newCourseWrite(course)); err != nil {
		return classify("create course", err)
	}
	return nil
}

// FindByID returns ErrNotFound when the course does not exist.
func (r *CourseRepository) FindByID(ctx context.Context, courseID string) (*models.Course, error) {
	query := courseSelect + ` WHERE c.course_id = $1`
	var row courseRow
	if err := r.db.GetContext(ctx, &row, query, courseID); err != nil {
		return nil, classify("get course", err)
	}
	return row.toModel()
}

// List returns every course ordered by name.
func (r *CourseRepository) List(ctx context.Context) ([]*models.Course, error) {
	return r.selectCourses(ctx, "list courses", courseSelect+` ORDER BY c.course_name`)
}

// SearchByDepartment matches the department case-insensitively as a substring.
func (r *CourseRepository) SearchByDepartment(ctx context.Context, department string) ([]*models.Course, error) {
	query := courseSelect + ` WHERE c.department ILIKE $1 ORDER BY c.course_name`
	return r.selectCourses(ctx, "search courses", query, "%"+department+"%")
}

// ListByInstructor returns the courses assigned to the instructor.
func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID string) ([]*models.Course, error) {
	query := courseSelect + ` WHERE c.instructor_id = $1 ORDER BY c.course_name`
	return r.selectCourses(ctx, "list instructor courses", query, instructorID)
}

// Update replaces the mutable columns of the course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) (bool, error) {
	const query = `UPDATE courses SET course_name = :course_name, description = :description, credits = :credits, department = :department, instructor_id = :instructor_id, schedule = :schedule, location = :location WHERE course_id = :course_id`
	res, err := r.db.NamedExecContext(ctx, query, newCourseWrite(course))
	if err != nil {
		return false, classify("update course", err)
	}
	return affected("update course", res)
}

// AssignInstructor sets or, with an empty instructor id, clears the course's instructor.
func (r *CourseRepository) AssignInstructor(ctx context.Context, courseID, instructorID string) (bool, error) {
	const query = `UPDATE courses SET instructor_id = $1 WHERE course_id = $2`
	res, err := r.db.ExecContext(ctx, query, nullString(instructorID), courseID)
	if err != nil {
		return false, classify("assign instructor", err)
	}
	return affected("assign instructor", res)
}

// Delete removes the course and, through the schema cascade, its enrollments.
func (r *CourseRepository) Delete(ctx context.Context, courseID string) (bool, error) {
	const query = `DELETE FROM courses WHERE course_id = $1`
	res, err := r.db.ExecContext(ctx, query, courseID)
	if err != nil {
		return false, classify("delete course", err)
	}
	return affected("delete course", res)
}
