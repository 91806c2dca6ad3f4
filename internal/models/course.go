package models

import (
	"fmt"
	"sort"
)

// CourseParams carries the persisted attributes of a course.
type CourseParams struct {
	CourseID    string
	CourseName  string
	Description string
	Credits     int
	Department  string
	Schedule    string
	Location    string
}

// Course is identified by CourseID. Enrolled students and their grades are
// tracked by student ID.
type Course struct {
	CourseID    string      `json:"course_id"`
	CourseName  string      `json:"course_name"`
	Description string      `json:"description,omitempty"`
	Credits     int         `json:"credits"`
	Department  string      `json:"department"`
	Schedule    string      `json:"schedule,omitempty"`
	Location    string      `json:"location,omitempty"`
	Instructor  *Instructor `json:"instructor,omitempty"`

	students map[string]struct{}
	grades   map[string]float64
}

// NewCourse validates the identity fields and returns an empty course.
func NewCourse(p CourseParams) (*Course, error) {
	if err := requireFields(map[string]string{"course_id": p.CourseID, "course_name": p.CourseName}); err != nil {
		return nil, err
	}
	if p.Credits <= 0 {
		return nil, fmt.Errorf("credits must be positive, got %d", p.Credits)
	}
	return &Course{
		CourseID:    p.CourseID,
		CourseName:  p.CourseName,
		Description: p.Description,
		Credits:     p.Credits,
		Department:  p.Department,
		Schedule:    p.Schedule,
		Location:    p.Location,
		students:    make(map[string]struct{}),
		grades:      make(map[string]float64),
	}, nil
}

// AddStudent registers the student ID. Adding twice is a no-op.
func (c *Course) AddStudent(studentID string) {
	if c.students == nil {
		c.students = make(map[string]struct{})
	}
	c.students[studentID] = struct{}{}
}

// RemoveStudent unregisters the student and forgets their grade.
func (c *Course) RemoveStudent(studentID string) {
	delete(c.students, studentID)
	delete(c.grades, studentID)
}

// AddGrade records a grade for an enrolled student; others are ignored.
func (c *Course) AddGrade(studentID string, grade float64) {
	if !c.IsStudentEnrolled(studentID) {
		return
	}
	if c.grades == nil {
		c.grades = make(map[string]float64)
	}
	c.grades[studentID] = grade
}

// StudentGrade returns the student's grade, or 0 if none is recorded.
func (c *Course) StudentGrade(studentID string) float64 {
	return c.grades[studentID]
}

func (c *Course) IsStudentEnrolled(studentID string) bool {
	_, ok := c.students[studentID]
	return ok
}

func (c *Course) EnrollmentCount() int {
	return len(c.students)
}

// EnrolledStudentIDs returns the enrolled IDs in sorted order.
func (c *Course) EnrolledStudentIDs() []string {
	ids := make([]string, 0, len(c.students))
	for id := range c.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StudentGrades returns a copy of the grades keyed by student ID.
func (c *Course) StudentGrades() map[string]float64 {
	out := make(map[string]float64, len(c.grades))
	for k, v := range c.grades {
		out[k] = v
	}
	return out
}

// AverageGrade is the plain mean of recorded grades, 0 when none exist.
func (c *Course) AverageGrade() float64 {
	if len(c.grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range c.grades {
		sum += g
	}
	return sum / float64(len(c.grades))
}

func (c *Course) String() string {
	instructor := "TBA"
	if c.Instructor != nil {
		instructor = c.Instructor.FullName()
	}
	return fmt.Sprintf("Course{id='%s', name='%s', credits=%d, department='%s', instructor='%s', enrollment=%d}",
		c.CourseID, c.CourseName, c.Credits, c.Department, instructor, c.EnrollmentCount())
}

// DepartmentCounts groups courses by department.
func DepartmentCounts(courses []*Course) map[string]int {
	counts := make(map[string]int)
	for _, c := range courses {
		counts[c.Department]++
	}
	return counts
}
