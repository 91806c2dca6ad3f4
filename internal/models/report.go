package models

// StudentStatistics summarises the student population.
type StudentStatistics struct {
	Total         int     `db:"total" json:"total"`
	Undergraduate int     `db:"undergraduate" json:"undergraduate"`
	Graduate      int     `db:"graduate" json:"graduate"`
	AverageGPA    float64 `db:"average_gpa" json:"average_gpa"`
}

// DepartmentCount is one row of the course-per-department grouping.
type DepartmentCount struct {
	Department string `db:"department" json:"department"`
	Count      int    `db:"course_count" json:"count"`
}

// CourseStatistics summarises the course catalogue.
type CourseStatistics struct {
	Total        int            `json:"total"`
	ByDepartment map[string]int `json:"by_department"`
}

// EnrollmentStatistics summarises ACTIVE enrollments; the average covers
// graded rows only.
type EnrollmentStatistics struct {
	TotalActive  int     `db:"total_active" json:"total_active"`
	GradedCount  int     `db:"graded_count" json:"graded_count"`
	AverageGrade float64 `db:"average_grade" json:"average_grade"`
}

// ReportFormat selects the export encoding.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)
