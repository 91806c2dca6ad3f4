package models

import "sort"

// Roster is the single owner of the student/course relationship for a set of
// loaded entities. Every mutation goes through it so the student-side and
// course-side views never drift apart.
type Roster struct {
	students map[string]*Student
	courses  map[string]*Course
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{
		students: make(map[string]*Student),
		courses:  make(map[string]*Course),
	}
}

// AddStudent registers a student; an existing entry with the same ID is kept.
func (r *Roster) AddStudent(s *Student) *Student {
	if existing, ok := r.students[s.ID]; ok {
		return existing
	}
	r.students[s.ID] = s
	return s
}

// AddCourse registers a course; an existing entry with the same ID is kept.
func (r *Roster) AddCourse(c *Course) *Course {
	if existing, ok := r.courses[c.CourseID]; ok {
		return existing
	}
	r.courses[c.CourseID] = c
	return c
}

func (r *Roster) Student(id string) (*Student, bool) {
	s, ok := r.students[id]
	return s, ok
}

func (r *Roster) Course(id string) (*Course, bool) {
	c, ok := r.courses[id]
	return c, ok
}

// Enroll links a registered student and course on both sides.
func (r *Roster) Enroll(studentID, courseID string) bool {
	s, c, ok := r.pair(studentID, courseID)
	if !ok {
		return false
	}
	s.EnrollInCourse(c)
	c.AddStudent(s.ID)
	return true
}

// Drop unlinks both sides and removes the grade from both views.
func (r *Roster) Drop(studentID, courseID string) bool {
	s, c, ok := r.pair(studentID, courseID)
	if !ok || !s.IsEnrolledInCourse(courseID) {
		return false
	}
	s.DropCourse(courseID)
	c.RemoveStudent(studentID)
	return true
}

// Grade records the grade on both sides; it reports false when the pair is
// not enrolled.
func (r *Roster) Grade(studentID, courseID string, grade float64) bool {
	s, c, ok := r.pair(studentID, courseID)
	if !ok || !s.IsEnrolledInCourse(courseID) {
		return false
	}
	s.AddGrade(courseID, grade)
	c.AddGrade(studentID, grade)
	return true
}

// CourseStudents derives the course's roster from the registered students.
func (r *Roster) CourseStudents(courseID string) []*Student {
	c, ok := r.courses[courseID]
	if !ok {
		return nil
	}
	out := make([]*Student, 0, c.EnrollmentCount())
	for _, id := range c.EnrolledStudentIDs() {
		if s, ok := r.students[id]; ok {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out
}

func (r *Roster) pair(studentID, courseID string) (*Student, *Course, bool) {
	s, ok := r.students[studentID]
	if !ok {
		return nil, nil, false
	}
	c, ok := r.courses[courseID]
	if !ok {
		return nil, nil, false
	}
	return s, c, true
}
