package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// InstructorParams carries the persisted attributes of an instructor.
type InstructorParams struct {
	ID                string
	FirstName         string
	LastName          string
	Email             string
	PhoneNumber       string
	EmployeeID        string
	Department        string
	Title             string
	Salary            float64
	YearsOfExperience int
	Specializations   []string
}

// Instructor teaches at most the courses in its assigned set.
type Instructor struct {
	Person
	EmployeeID        string  `json:"employee_id"`
	Department        string  `json:"department"`
	Title             string  `json:"title,omitempty"`
	Salary            float64 `json:"salary"`
	YearsOfExperience int     `json:"years_of_experience"`

	specializations []string
	assigned        map[string]*Course
}

// NewInstructor validates identity fields and de-duplicates specializations.
func NewInstructor(p InstructorParams) (*Instructor, error) {
	person, err := newPerson(p.ID, p.FirstName, p.LastName, p.Email, p.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if err := requireFields(map[string]string{"employee_id": p.EmployeeID}); err != nil {
		return nil, err
	}
	i := &Instructor{
		Person:            person,
		EmployeeID:        p.EmployeeID,
		Department:        p.Department,
		Title:             p.Title,
		Salary:            p.Salary,
		YearsOfExperience: p.YearsOfExperience,
		assigned:          make(map[string]*Course),
	}
	for _, spec := range p.Specializations {
		i.AddSpecialization(spec)
	}
	return i, nil
}

func (i *Instructor) Role() string {
	return "Instructor"
}

// AssignToCourse links both sides: the course points at this instructor and
// the instructor tracks the course. A previous instructor of the course loses it.
func (i *Instructor) AssignToCourse(c *Course) {
	if c == nil {
		return
	}
	if prev := c.Instructor; prev != nil && prev != i {
		delete(prev.assigned, c.CourseID)
	}
	if i.assigned == nil {
		i.assigned = make(map[string]*Course)
	}
	i.assigned[c.CourseID] = c
	c.Instructor = i
}

// RemoveFromCourse drops the course; the course's instructor is cleared only
// when it is this instructor.
func (i *Instructor) RemoveFromCourse(c *Course) {
	if c == nil {
		return
	}
	delete(i.assigned, c.CourseID)
	if c.Instructor != nil && c.Instructor.ID == i.ID {
		c.Instructor = nil
	}
}

// AssignedCourses returns the assigned courses ordered by course ID.
func (i *Instructor) AssignedCourses() []*Course {
	out := make([]*Course, 0, len(i.assigned))
	for _, c := range i.assigned {
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CourseID < out[b].CourseID })
	return out
}

func (i *Instructor) AddSpecialization(spec string) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return
	}
	for _, existing := range i.specializations {
		if existing == spec {
			return
		}
	}
	i.specializations = append(i.specializations, spec)
}

func (i *Instructor) RemoveSpecialization(spec string) {
	for idx, existing := range i.specializations {
		if existing == spec {
			i.specializations = append(i.specializations[:idx:idx], i.specializations[idx+1:]...)
			return
		}
	}
}

// Specializations returns a copy in insertion order.
func (i *Instructor) Specializations() []string {
	out := make([]string, len(i.specializations))
	copy(out, i.specializations)
	return out
}

// TotalStudents sums enrollment across assigned courses.
func (i *Instructor) TotalStudents() int {
	total := 0
	for _, c := range i.assigned {
		total += c.EnrollmentCount()
	}
	return total
}

// AverageCourseGrade is the course average for assigned courses and 0 otherwise.
func (i *Instructor) AverageCourseGrade(courseID string) float64 {
	c, ok := i.assigned[courseID]
	if !ok {
		return 0
	}
	return c.AverageGrade()
}

// CanTeach matches a specialization exactly or by case-insensitive substring.
func (i *Instructor) CanTeach(subject string) bool {
	needle := strings.ToLower(subject)
	for _, spec := range i.specializations {
		if spec == subject || strings.Contains(strings.ToLower(spec), needle) {
			return true
		}
	}
	return false
}

func (i *Instructor) String() string {
	return fmt.Sprintf("Instructor{id='%s', employeeId='%s', name='%s', title='%s', department='%s', courses=%d}",
		i.ID, i.EmployeeID, i.FullName(), i.Title, i.Department, len(i.assigned))
}

// MarshalJSON adds the specializations to the exported fields.
func (i Instructor) MarshalJSON() ([]byte, error) {
	type plain Instructor
	return json.Marshal(struct {
		plain
		Specializations []string `json:"specializations"`
	}{plain(i), i.Specializations()})
}
