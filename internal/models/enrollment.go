package models

import (
	"fmt"
	"time"
)

// EnrollmentStatus represents the lifecycle of an enrollment row.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive  EnrollmentStatus = "ACTIVE"
	EnrollmentStatusDropped EnrollmentStatus = "DROPPED"
)

// Enrollment is one row of the student/course join table.
type Enrollment struct {
	StudentID      string           `db:"student_id" json:"student_id"`
	CourseID       string           `db:"course_id" json:"course_id"`
	Status         EnrollmentStatus `db:"status" json:"status"`
	Grade          *float64         `db:"grade" json:"grade,omitempty"`
	EnrollmentDate time.Time        `db:"enrollment_date" json:"enrollment_date"`
}

// EnrollmentRecord enriches an enrollment with student and course details.
type EnrollmentRecord struct {
	StudentID      string           `db:"student_id" json:"student_id"`
	StudentName    string           `db:"student_name" json:"student_name"`
	StudentNumber  string           `db:"student_number" json:"student_number"`
	CourseID       string           `db:"course_id" json:"course_id"`
	CourseName     string           `db:"course_name" json:"course_name"`
	Credits        int              `db:"credits" json:"credits"`
	Grade          *float64         `db:"grade" json:"grade,omitempty"`
	EnrollmentDate time.Time        `db:"enrollment_date" json:"enrollment_date"`
	Status         EnrollmentStatus `db:"status" json:"status"`
}

func (r EnrollmentRecord) String() string {
	grade := "-"
	if r.Grade != nil {
		grade = fmt.Sprintf("%.2f", *r.Grade)
	}
	return fmt.Sprintf("Enrollment{student='%s (%s)', course='%s (%s)', grade=%s, status='%s'}",
		r.StudentName, r.StudentNumber, r.CourseName, r.CourseID, grade, r.Status)
}

// GradedCourse is an ACTIVE, graded enrollment with the course credits, the
// input of a GPA recomputation.
type GradedCourse struct {
	CourseID   string  `db:"course_id"`
	CourseName string  `db:"course_name"`
	Credits    int     `db:"credits"`
	Grade      float64 `db:"grade"`
}

// CourseStats aggregates ACTIVE enrollments of one course.
type CourseStats struct {
	TotalEnrolled int     `db:"total_enrolled" json:"total_enrolled"`
	AverageGrade  float64 `db:"average_grade" json:"average_grade"`
	GradedCount   int     `db:"graded_count" json:"graded_count"`
}
