package models

import (
	"errors"
	"fmt"
)

// StudentType discriminates the student variants.
type StudentType string

const (
	StudentTypeUndergraduate StudentType = "UNDERGRADUATE"
	StudentTypeGraduate      StudentType = "GRADUATE"
)

// ErrUnknownStudentType reports a discriminator value outside the known variants.
var ErrUnknownStudentType = errors.New("unknown student type")

// ParseStudentType validates a stored or user-supplied discriminator.
func ParseStudentType(raw string) (StudentType, error) {
	switch t := StudentType(raw); t {
	case StudentTypeUndergraduate, StudentTypeGraduate:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStudentType, raw)
	}
}

// Role is the display role of the variant.
func (t StudentType) Role() string {
	if t == StudentTypeGraduate {
		return "Graduate Student"
	}
	return "Undergraduate Student"
}

// UndergraduateInfo is the payload of the UNDERGRADUATE variant.
type UndergraduateInfo struct {
	Advisor         string `json:"advisor,omitempty"`
	IsHonorsStudent bool   `json:"is_honors_student"`
}

// GraduateInfo is the payload of the GRADUATE variant.
type GraduateInfo struct {
	ThesisTitle   string `json:"thesis_title,omitempty"`
	Supervisor    string `json:"supervisor,omitempty"`
	DegreeProgram string `json:"degree_program,omitempty"`
}

// StudentParams carries the fields shared by both student variants.
type StudentParams struct {
	ID          string
	StudentID   string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Major       string
	YearLevel   int
	GPA         float64
}

// Student is a tagged variant: exactly one of Undergraduate or Graduate is set,
// matching Type.
type Student struct {
	Person
	StudentID     string             `json:"student_id"`
	Major         string             `json:"major,omitempty"`
	YearLevel     int                `json:"year_level"`
	GPA           float64            `json:"gpa"`
	Type          StudentType        `json:"student_type"`
	Undergraduate *UndergraduateInfo `json:"undergraduate,omitempty"`
	Graduate      *GraduateInfo      `json:"graduate,omitempty"`

	courses []*Course
	grades  map[string]float64
}

// NewUndergraduateStudent builds an UNDERGRADUATE student.
func NewUndergraduateStudent(p StudentParams, info UndergraduateInfo) (*Student, error) {
	s, err := newStudent(p, StudentTypeUndergraduate)
	if err != nil {
		return nil, err
	}
	s.Undergraduate = &info
	return s, nil
}

// NewGraduateStudent builds a GRADUATE student.
func NewGraduateStudent(p StudentParams, info GraduateInfo) (*Student, error) {
	s, err := newStudent(p, StudentTypeGraduate)
	if err != nil {
		return nil, err
	}
	s.Graduate = &info
	return s, nil
}

func newStudent(p StudentParams, t StudentType) (*Student, error) {
	person, err := newPerson(p.ID, p.FirstName, p.LastName, p.Email, p.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if err := requireFields(map[string]string{"student_id": p.StudentID}); err != nil {
		return nil, err
	}
	if p.YearLevel <= 0 {
		return nil, fmt.Errorf("year level must be positive, got %d", p.YearLevel)
	}
	return &Student{
		Person:    person,
		StudentID: p.StudentID,
		Major:     p.Major,
		YearLevel: p.YearLevel,
		GPA:       p.GPA,
		Type:      t,
		grades:    make(map[string]float64),
	}, nil
}

// Role returns the display role for the student's variant.
func (s *Student) Role() string {
	return s.Type.Role()
}

// EnrollInCourse appends the course unless a course with the same ID is already
// present. The course side is not touched; see Roster.
func (s *Student) EnrollInCourse(c *Course) bool {
	if c == nil || s.IsEnrolledInCourse(c.CourseID) {
		return false
	}
	s.courses = append(s.courses, c)
	return true
}

// DropCourse removes the course and any grade recorded for it.
func (s *Student) DropCourse(courseID string) bool {
	for i, c := range s.courses {
		if c.CourseID != courseID {
			continue
		}
		s.courses = append(s.courses[:i:i], s.courses[i+1:]...)
		delete(s.grades, courseID)
		return true
	}
	return false
}

// AddGrade records a grade and recomputes the GPA. Grades for courses the
// student is not enrolled in are ignored.
func (s *Student) AddGrade(courseID string, grade float64) {
	if !s.IsEnrolledInCourse(courseID) {
		return
	}
	if s.grades == nil {
		s.grades = make(map[string]float64)
	}
	s.grades[courseID] = grade
	s.CalculateGPA()
}

// CalculateGPA recomputes and stores the GPA from the current grades.
func (s *Student) CalculateGPA() float64 {
	graded := make([]GradedCredit, 0, len(s.grades))
	for _, c := range s.courses {
		if grade, ok := s.grades[c.CourseID]; ok {
			graded = append(graded, GradedCredit{Grade: grade, Credits: c.Credits})
		}
	}
	s.GPA = CalculateGPA(s.Type, graded)
	return s.GPA
}

// IsEnrolledInCourse reports whether the course is in the enrolled list.
func (s *Student) IsEnrolledInCourse(courseID string) bool {
	for _, c := range s.courses {
		if c.CourseID == courseID {
			return true
		}
	}
	return false
}

// Grade returns the grade recorded for a course.
func (s *Student) Grade(courseID string) (float64, bool) {
	grade, ok := s.grades[courseID]
	return grade, ok
}

// TotalEnrolledCredits sums the credits of all enrolled courses.
func (s *Student) TotalEnrolledCredits() int {
	total := 0
	for _, c := range s.courses {
		total += c.Credits
	}
	return total
}

// EnrolledCourses returns a copy of the ordered course list.
func (s *Student) EnrolledCourses() []*Course {
	out := make([]*Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// CourseGrades returns a copy of the grades keyed by course ID.
func (s *Student) CourseGrades() map[string]float64 {
	out := make(map[string]float64, len(s.grades))
	for k, v := range s.grades {
		out[k] = v
	}
	return out
}

// String renders the one-line summary used by the console.
func (s *Student) String() string {
	label := "UndergraduateStudent"
	if s.Type == StudentTypeGraduate {
		label = "GraduateStudent"
	}
	base := fmt.Sprintf("%s{id='%s', studentId='%s', name='%s', major='%s', year=%d, gpa=%.2f",
		label, s.ID, s.StudentID, s.FullName(), s.Major, s.YearLevel, s.GPA)
	switch {
	case s.Graduate != nil:
		return base + fmt.Sprintf(", program='%s'}", s.Graduate.DegreeProgram)
	case s.Undergraduate != nil:
		return base + fmt.Sprintf(", honors=%t}", s.Undergraduate.IsHonorsStudent)
	}
	return base + "}"
}
