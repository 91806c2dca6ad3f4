package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/university-records/internal/models"
	"github.com/noah-isme/university-records/internal/service"
	appErrors "github.com/noah-isme/university-records/pkg/errors"
)

type fakeStudents struct {
	created *service.StudentRequest
	updated *service.StudentRequest
	stored  map[string]*models.Student
	deleted []string
}

func (f *fakeStudents) Create(ctx context.Context, req service.StudentRequest) (*models.Student, error) {
	f.created = &req
	return models.NewUndergraduateStudent(models.StudentParams{
		ID: "new-id", StudentID: req.StudentID, FirstName: req.FirstName, LastName: req.LastName, YearLevel: req.YearLevel,
	}, models.UndergraduateInfo{})
}

func (f *fakeStudents) Get(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := f.stored[id]; ok {
		return s, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

func (f *fakeStudents) List(ctx context.Context) ([]*models.Student, error) {
	return nil, nil
}

func (f *fakeStudents) SearchByMajor(ctx context.Context, major string) ([]*models.Student, error) {
	return nil, nil
}

func (f *fakeStudents) Update(ctx context.Context, id string, req service.StudentRequest) (*models.Student, error) {
	f.updated = &req
	return f.stored[id], nil
}

func (f *fakeStudents) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCourses struct{}

func (fakeCourses) Create(ctx context.Context, req service.CourseRequest) (*models.Course, error) {
	return nil, appErrors.Clone(appErrors.ErrConflict, "course already exists")
}

func (fakeCourses) Get(ctx context.Context, courseID string) (*models.Course, error) {
	return models.NewCourse(models.CourseParams{CourseID: courseID, CourseName: "Course " + courseID, Credits: 3})
}

func (fakeCourses) List(ctx context.Context) ([]*models.Course, error) {
	return nil, nil
}

func (fakeCourses) SearchByDepartment(ctx context.Context, department string) ([]*models.Course, error) {
	return nil, nil
}

func (fakeCourses) Update(ctx context.Context, courseID string, req service.CourseRequest) (*models.Course, error) {
	return nil, nil
}

func (fakeCourses) Delete(ctx context.Context, courseID string) error {
	return nil
}

type fakeEnrollments struct {
	applied bool
	graded  []float64
}

func (f *fakeEnrollments) Enroll(ctx context.Context, studentID, courseID string) (bool, error) {
	return f.applied, nil
}

func (f *fakeEnrollments) Drop(ctx context.Context, studentID, courseID string) (bool, error) {
	return f.applied, nil
}

func (f *fakeEnrollments) AddGrade(ctx context.Context, studentID, courseID string, grade float64) (bool, error) {
	f.graded = append(f.graded, grade)
	return f.applied, nil
}

func (f *fakeEnrollments) StudentCourses(ctx context.Context, studentID string) ([]string, error) {
	return []string{"CS101", "MATH200"}, nil
}

func (f *fakeEnrollments) CourseStudents(ctx context.Context, courseID string) ([]string, error) {
	return nil, nil
}

func (f *fakeEnrollments) ListActive(ctx context.Context) ([]models.EnrollmentRecord, error) {
	return nil, nil
}

type fakeReports struct {
	kind   service.ReportKind
	format models.ReportFormat
}

func (f *fakeReports) StudentStatistics(ctx context.Context) (*models.StudentStatistics, error) {
	return &models.StudentStatistics{Total: 3, Undergraduate: 2, Graduate: 1, AverageGPA: 3.256}, nil
}

func (f *fakeReports) CourseStatistics(ctx context.Context) (*models.CourseStatistics, error) {
	return &models.CourseStatistics{Total: 3, ByDepartment: map[string]int{"Math": 1, "CS": 2}}, nil
}

func (f *fakeReports) EnrollmentStatistics(ctx context.Context) (*models.EnrollmentStatistics, error) {
	return &models.EnrollmentStatistics{TotalActive: 4}, nil
}

func (f *fakeReports) Export(ctx context.Context, kind service.ReportKind, format models.ReportFormat) (*service.ExportResult, error) {
	f.kind, f.format = kind, format
	return &service.ExportResult{Name: "x", Path: "/tmp/reports/x.pdf", Size: 42}, nil
}

type fixture struct {
	students    *fakeStudents
	enrollments *fakeEnrollments
	reports     *fakeReports
}

func runApp(t *testing.T, input string, f *fixture) string {
	t.Helper()
	if f.students == nil {
		f.students = &fakeStudents{stored: map[string]*models.Student{}}
	}
	if f.enrollments == nil {
		f.enrollments = &fakeEnrollments{}
	}
	if f.reports == nil {
		f.reports = &fakeReports{}
	}
	var out bytes.Buffer
	app := New(strings.NewReader(input), &out, Services{
		Students:    f.students,
		Courses:     fakeCourses{},
		Enrollments: f.enrollments,
		Reports:     f.reports,
	}, nil)
	require.NoError(t, app.Run(context.Background()))
	return out.String()
}

func TestAppAddGraduateStudent(t *testing.T) {
	f := &fixture{}
	input := strings.Join([]string{
		"1", "1",
		"G-001", "Alan", "Turing", "alan@example.edu", "", "Computer Science", "x", "1",
		"2", "Computable Numbers", "Church", "PhD",
		"7", "5",
	}, "\n") + "\n"

	out := runApp(t, input, f)

	require.NotNil(t, f.students.created)
	req := f.students.created
	assert.Equal(t, models.StudentTypeGraduate, req.StudentType)
	assert.Equal(t, "G-001", req.StudentID)
	assert.Equal(t, 1, req.YearLevel)
	assert.Equal(t, "Computable Numbers", req.ThesisTitle)
	assert.Equal(t, "PhD", req.DegreeProgram)
	assert.Contains(t, out, "Invalid input. Please enter a valid number.")
	assert.Contains(t, out, "Student added successfully")
	assert.Contains(t, out, "Thank you for using the University Management System!")
}

func TestAppUpdateKeepsBlankAnswers(t *testing.T) {
	stored, err := models.NewUndergraduateStudent(models.StudentParams{
		ID: "s1", StudentID: "U-001", FirstName: "Ada", LastName: "Lovelace", Major: "Mathematics", YearLevel: 2,
	}, models.UndergraduateInfo{Advisor: "Babbage"})
	require.NoError(t, err)
	f := &fixture{students: &fakeStudents{stored: map[string]*models.Student{"s1": stored}}}
	input := strings.Join([]string{
		"1", "5", "s1",
		"", "King", "", "", "", "3", "", "yes",
		"7", "5",
	}, "\n") + "\n"

	out := runApp(t, input, f)

	require.NotNil(t, f.students.updated)
	req := f.students.updated
	assert.Equal(t, "Ada", req.FirstName)
	assert.Equal(t, "King", req.LastName)
	assert.Equal(t, "Mathematics", req.Major)
	assert.Equal(t, 3, req.YearLevel)
	assert.Equal(t, "Babbage", req.Advisor)
	assert.True(t, req.IsHonorsStudent)
	assert.Equal(t, models.StudentTypeUndergraduate, req.StudentType)
	assert.Contains(t, out, "Student updated successfully!")
}

func TestAppReportsServiceErrors(t *testing.T) {
	out := runApp(t, "1\n3\nghost\n7\n2\n1\nCS101\nIntro\n\n3\nCS\n\n\n7\n5\n", &fixture{})

	assert.Contains(t, out, "Error: student not found")
	assert.Contains(t, out, "Error: course already exists")
}

func TestAppDeleteNeedsConfirmation(t *testing.T) {
	f := &fixture{}
	out := runApp(t, "1\n6\ns1\nn\n6\ns2\ny\n7\n5\n", f)

	assert.Equal(t, []string{"s2"}, f.students.deleted)
	assert.Contains(t, out, "Deletion cancelled.")
	assert.Contains(t, out, "Student deleted successfully!")
}

func TestAppEnrollmentOutcomes(t *testing.T) {
	f := &fixture{enrollments: &fakeEnrollments{applied: false}}
	out := runApp(t, "3\n3\ns1\nCS101\n90\n4\ns1\n7\n5\n", f)

	assert.Equal(t, []float64{90}, f.enrollments.graded)
	assert.Contains(t, out, "Failed to add grade. Please check student and course IDs.")
	assert.Contains(t, out, "=== Student's Courses ===")
	assert.Contains(t, out, "Course{id='MATH200'")
}

func TestAppReports(t *testing.T) {
	f := &fixture{}
	out := runApp(t, "4\n1\n2\n3\n4\n2\ny\n5\n5\n", f)

	assert.Contains(t, out, "Average GPA: 3.26")
	assert.Less(t, strings.Index(out, "  CS: 2"), strings.Index(out, "  Math: 1"))
	assert.Contains(t, out, "Total Active Enrollments: 4")
	assert.Contains(t, out, "Graded: 0")
	assert.NotContains(t, out, "Average Grade")
	assert.Equal(t, service.ReportCourses, f.reports.kind)
	assert.Equal(t, models.ReportFormatPDF, f.reports.format)
	assert.Contains(t, out, "Report saved to /tmp/reports/x.pdf (42 bytes)")
}

func TestAppInvalidChoiceAndClosedInput(t *testing.T) {
	out := runApp(t, "9\n", &fixture{})

	assert.Contains(t, out, "Invalid choice. Please try again.")
	assert.Contains(t, out, "Thank you for using the University Management System!")
}

func newTestApp(in io.Reader, out io.Writer) *App {
	return New(in, out, Services{
		Students:    &fakeStudents{stored: map[string]*models.Student{}},
		Courses:     fakeCourses{},
		Enrollments: &fakeEnrollments{},
		Reports:     &fakeReports{},
	}, nil)
}

func TestAppCancelledContextShowsNoMenu(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(strings.NewReader("1\n7\n2\n7\n3\n7\n5\n"), &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.Run(ctx))

	assert.NotContains(t, out.String(), "=== Main Menu ===")
	assert.NotContains(t, out.String(), "=== Student Management ===")
	assert.Contains(t, out.String(), "Thank you for using the University Management System!")
}

func TestAppCancelWhileWaitingForInput(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()
	var out bytes.Buffer
	app := newTestApp(in, &out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	_, err := w.Write([]byte("1\n"))
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("console kept waiting for input after cancellation")
	}
	assert.Contains(t, out.String(), "Thank you for using the University Management System!")
}
