package cli

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/university-records/internal/models"
	"github.com/noah-isme/university-records/internal/service"
	appErrors "github.com/noah-isme/university-records/pkg/errors"
)

type studentService interface {
	Create(ctx context.Context, req service.StudentRequest) (*models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	SearchByMajor(ctx context.Context, major string) ([]*models.Student, error)
	Update(ctx context.Context, id string, req service.StudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

type courseService interface {
	Create(ctx context.Context, req service.CourseRequest) (*models.Course, error)
	Get(ctx context.Context, courseID string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	SearchByDepartment(ctx context.Context, department string) ([]*models.Course, error)
	Update(ctx context.Context, courseID string, req service.CourseRequest) (*models.Course, error)
	Delete(ctx context.Context, courseID string) error
}

type enrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID string) (bool, error)
	Drop(ctx context.Context, studentID, courseID string) (bool, error)
	AddGrade(ctx context.Context, studentID, courseID string, grade float64) (bool, error)
	StudentCourses(ctx context.Context, studentID string) ([]string, error)
	CourseStudents(ctx context.Context, courseID string) ([]string, error)
	ListActive(ctx context.Context) ([]models.EnrollmentRecord, error)
}

type reportService interface {
	StudentStatistics(ctx context.Context) (*models.StudentStatistics, error)
	CourseStatistics(ctx context.Context) (*models.CourseStatistics, error)
	EnrollmentStatistics(ctx context.Context) (*models.EnrollmentStatistics, error)
	Export(ctx context.Context, kind service.ReportKind, format models.ReportFormat) (*service.ExportResult, error)
}

// Services are the use-cases the console drives.
type Services struct {
	Students    studentService
	Courses     courseService
	Enrollments enrollmentService
	Reports     reportService
}

// App is the interactive console front end.
type App struct {
	svc    Services
	prompt *Prompter
	logger *zap.Logger
}

// New builds the console app reading from in and writing to out.
func New(in io.Reader, out io.Writer, svc Services, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{svc: svc, prompt: NewPrompter(in, out), logger: logger}
}

type action func(ctx context.Context) error

// Run shows the main menu until the user exits or the input ends.
func (a *App) Run(ctx context.Context) error {
	a.prompt.Println("=== University Management System ===")
	err := a.loop(ctx, "Main Menu", []string{
		"Student Management",
		"Course Management",
		"Enrollment Management",
		"View Reports",
	}, []action{a.studentMenu, a.courseMenu, a.enrollmentMenu, a.reportMenu}, "Exit")
	if errors.Is(err, context.Canceled) {
		a.prompt.Println()
	} else if err != nil && !errors.Is(err, ErrInputClosed) {
		return err
	}
	a.prompt.Println("Thank you for using the University Management System!")
	return nil
}

// loop renders a numbered menu whose last entry leaves it. Action failures
// are printed and the menu is shown again.
func (a *App) loop(ctx context.Context, title string, items []string, actions []action, leave string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.prompt.Printf("\n=== %s ===\n", title)
		for i, item := range items {
			a.prompt.Printf("%d. %s\n", i+1, item)
		}
		a.prompt.Printf("%d. %s\n", len(items)+1, leave)

		choice, err := a.prompt.Int(ctx, "Enter your choice: ")
		if err != nil {
			return err
		}
		switch {
		case choice == len(items)+1:
			return nil
		case choice < 1 || choice > len(items):
			a.prompt.Println("Invalid choice. Please try again.")
			continue
		}

		if err := actions[choice-1](ctx); err != nil {
			if errors.Is(err, ErrInputClosed) || ctx.Err() != nil {
				return err
			}
			a.report(err)
		}
	}
}

func (a *App) report(err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= 500 {
		a.logger.Error("console action failed", zap.Error(err))
	}
	a.prompt.Printf("Error: %s\n", appErr.Message)
}

func (a *App) studentMenu(ctx context.Context) error {
	return a.loop(ctx, "Student Management", []string{
		"Add Student",
		"View All Students",
		"Search Student by ID",
		"Search Students by Major",
		"Update Student",
		"Delete Student",
	}, []action{a.addStudent, a.listStudents, a.findStudent, a.searchStudents, a.updateStudent, a.deleteStudent}, "Back to Main Menu")
}

func (a *App) addStudent(ctx context.Context) error {
	a.prompt.Println("\n=== Add New Student ===")
	var req service.StudentRequest
	var err error
	fields := []struct {
		label string
		dst   *string
	}{
		{"Student number: ", &req.StudentID},
		{"First name: ", &req.FirstName},
		{"Last name: ", &req.LastName},
		{"Email: ", &req.Email},
		{"Phone number: ", &req.PhoneNumber},
		{"Major: ", &req.Major},
	}
	for _, f := range fields {
		if *f.dst, err = a.prompt.String(ctx, f.label); err != nil {
			return err
		}
	}
	if req.YearLevel, err = a.prompt.Int(ctx, "Year level: "); err != nil {
		return err
	}

	a.prompt.Println("Student type:\n1. Undergraduate\n2. Graduate")
	kind, err := a.prompt.Int(ctx, "Enter type: ")
	if err != nil {
		return err
	}
	switch kind {
	case 2:
		req.StudentType = models.StudentTypeGraduate
	case 1:
		req.StudentType = models.StudentTypeUndergraduate
	default:
		a.prompt.Println("Invalid student type. Creating undergraduate student.")
		req.StudentType = models.StudentTypeUndergraduate
	}
	if err := a.variantFields(ctx, &req); err != nil {
		return err
	}

	student, err := a.svc.Students.Create(ctx, req)
	if err != nil {
		return err
	}
	a.prompt.Printf("Student added successfully: %s\n", student)
	return nil
}

func (a *App) variantFields(ctx context.Context, req *service.StudentRequest) error {
	var err error
	if req.StudentType == models.StudentTypeGraduate {
		if req.ThesisTitle, err = a.prompt.StringDefault(ctx, "Thesis title", req.ThesisTitle); err != nil {
			return err
		}
		if req.Supervisor, err = a.prompt.StringDefault(ctx, "Supervisor", req.Supervisor); err != nil {
			return err
		}
		req.DegreeProgram, err = a.prompt.StringDefault(ctx, "Degree program", req.DegreeProgram)
		return err
	}
	if req.Advisor, err = a.prompt.StringDefault(ctx, "Advisor", req.Advisor); err != nil {
		return err
	}
	req.IsHonorsStudent, err = a.prompt.YesNo(ctx, "Honors student? (y/n): ")
	return err
}

func (a *App) listStudents(ctx context.Context) error {
	students, err := a.svc.Students.List(ctx)
	if err != nil {
		return err
	}
	a.printStudents("All Students", students, "No students found.")
	return nil
}

func (a *App) printStudents(title string, students []*models.Student, empty string) {
	if len(students) == 0 {
		a.prompt.Println(empty)
		return
	}
	a.prompt.Printf("\n=== %s ===\n", title)
	for _, s := range students {
		a.prompt.Println(s)
	}
}

func (a *App) findStudent(ctx context.Context) error {
	id, err := a.prompt.String(ctx, "Enter student ID: ")
	if err != nil {
		return err
	}
	student, err := a.svc.Students.Get(ctx, id)
	if err != nil {
		return err
	}
	a.prompt.Printf("\n=== Student Found ===\n%s\n", student)
	return nil
}

func (a *App) searchStudents(ctx context.Context) error {
	major, err := a.prompt.String(ctx, "Enter major: ")
	if err != nil {
		return err
	}
	students, err := a.svc.Students.SearchByMajor(ctx, major)
	if err != nil {
		return err
	}
	a.printStudents("Students with Major: "+major, students, "No students found with major: "+major)
	return nil
}

func (a *App) updateStudent(ctx context.Context) error {
	id, err := a.prompt.String(ctx, "Enter student ID to update: ")
	if err != nil {
		return err
	}
	student, err := a.svc.Students.Get(ctx, id)
	if err != nil {
		return err
	}
	a.prompt.Printf("Current student information:\n%s\n", student)
	a.prompt.Println("\nEnter new information (press Enter to keep current value):")

	req := studentRequest(student)
	fields := []struct {
		label string
		dst   *string
	}{
		{"First name", &req.FirstName},
		{"Last name", &req.LastName},
		{"Email", &req.Email},
		{"Phone number", &req.PhoneNumber},
		{"Major", &req.Major},
	}
	for _, f := range fields {
		if *f.dst, err = a.prompt.StringDefault(ctx, f.label, *f.dst); err != nil {
			return err
		}
	}
	if req.YearLevel, err = a.prompt.IntDefault(ctx, "Year level", req.YearLevel); err != nil {
		return err
	}
	if err := a.variantFields(ctx, &req); err != nil {
		return err
	}

	if _, err := a.svc.Students.Update(ctx, id, req); err != nil {
		return err
	}
	a.prompt.Println("Student updated successfully!")
	return nil
}

func studentRequest(s *models.Student) service.StudentRequest {
	req := service.StudentRequest{
		ID:          s.ID,
		StudentID:   s.StudentID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		PhoneNumber: s.PhoneNumber,
		Major:       s.Major,
		YearLevel:   s.YearLevel,
		StudentType: s.Type,
	}
	if s.Undergraduate != nil {
		req.Advisor = s.Undergraduate.Advisor
		req.IsHonorsStudent = s.Undergraduate.IsHonorsStudent
	}
	if s.Graduate != nil {
		req.ThesisTitle = s.Graduate.ThesisTitle
		req.Supervisor = s.Graduate.Supervisor
		req.DegreeProgram = s.Graduate.DegreeProgram
	}
	return req
}

func (a *App) deleteStudent(ctx context.Context) error {
	id, err := a.prompt.String(ctx, "Enter student ID to delete: ")
	if err != nil {
		return err
	}
	return a.confirmDelete(ctx, "student", func() error { return a.svc.Students.Delete(ctx, id) })
}

func (a *App) confirmDelete(ctx context.Context, subject string, remove func() error) error {
	ok, err := a.prompt.YesNo(ctx, "Are you sure you want to delete this "+subject+"? (y/n): ")
	if err != nil {
		return err
	}
	if !ok {
		a.prompt.Println("Deletion cancelled.")
		return nil
	}
	if err := remove(); err != nil {
		return err
	}
	a.prompt.Printf("%s deleted successfully!\n", capitalize(subject))
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (a *App) courseMenu(ctx context.Context) error {
	return a.loop(ctx, "Course Management", []string{
		"Add Course",
		"View All Courses",
		"Search Course by ID",
		"Search Courses by Department",
		"Update Course",
		"Delete Course",
	}, []action{a.addCourse, a.listCourses, a.findCourse, a.searchCourses, a.updateCourse, a.deleteCourse}, "Back to Main Menu")
}

func (a *App) addCourse(ctx context.Context) error {
	a.prompt.Println("\n=== Add New Course ===")
	var req service.CourseRequest
	var err error
	if req.CourseID, err = a.prompt.String(ctx, "Course ID: "); err != nil {
		return err
	}
	if req.CourseName, err = a.prompt.String(ctx, "Course name: "); err != nil {
		return err
	}
	if req.Description, err = a.prompt.String(ctx, "Description: "); err != nil {
		return err
	}
	if req.Credits, err = a.prompt.Int(ctx, "Credits: "); err != nil {
		return err
	}
	if req.Department, err = a.prompt.String(ctx, "Department: "); err != nil {
		return err
	}
	if req.Schedule, err = a.prompt.String(ctx, "Schedule: "); err != nil {
		return err
	}
	if req.Location, err = a.prompt.String(ctx, "Location: "); err != nil {
		return err
	}

	course, err := a.svc.Courses.Create(ctx, req)
	if err != nil {
		return err
	}
	a.prompt.Printf("Course added successfully: %s\n", course)
	return nil
}

func (a *App) listCourses(ctx context.Context) error {
	courses, err := a.svc.Courses.List(ctx)
	if err != nil {
		return err
	}
	a.printCourses("All Courses", courses, "No courses found.")
	return nil
}

func (a *App) printCourses(title string, courses []*models.Course, empty string) {
	if len(courses) == 0 {
		a.prompt.Println(empty)
		return
	}
	a.prompt.Printf("\n=== %s ===\n", title)
	for _, c := range courses {
		a.prompt.Println(c)
	}
}

func (a *App) findCourse(ctx context.Context) error {
	id, err := a.prompt.String(ctx, "Enter course ID: ")
	if err != nil {
		return err
	}
	course, err := a.svc.Courses.Get(ctx, id)
	if err != nil {
		return err
	}
	a.prompt.Printf("\n=== Course Found ===\n%s\n", course)
	return nil
}

func (a *App) searchCourses(ctx context.Context) error {
	department, err := a.prompt.String(ctx, "Enter department: ")
	if err != nil {
		return err
	}
	courses, err := a.svc.Courses.SearchByDepartment(ctx, department)
	if err != nil {
		return err
	}
	a.printCourses("Courses in Department: "+department, courses, "No courses found in department: "+department)
	return nil
}

func (a *App) updateCourse(ctx context.Context) error {
	id, err := a.prompt.String(ctx, "Enter course ID to update: ")
	if err != nil {
		return err
	}
	course, err := a.svc.Courses.Get(ctx, id)
	if err != nil {
		return err
	}
	a.prompt.Printf("Current course information:\n%s\n", course)
	a.prompt.Println("\nEnter new information (press Enter to keep current value):")

	req := service.CourseRequest{
		CourseID:    course.CourseID,
		CourseName:  course.CourseName,
		Description: course.Description,
		Credits:     course.Credits,
		Department:  course.Department,
		Schedule:    course.Schedule,
		Location:    course.Location,
	}
	if course.Instructor != nil {
		req.InstructorID = course.Instructor.ID
	}
	fields := []struct {
		label string
		dst   *string
	}{
		{"Course name", &req.CourseName},
		{"Description", &req.Description},
		{"Department", &req.Department},
		{"Schedule", &req.Schedule},
		{"Location", &req.Location},
	}
	for _, f := range fields {
		if *f.dst, err = a.prompt.StringDefault(ctx, f.label, *f.dst); err != nil {
			return err
		}
	}
	if req.Credits, err = a.prompt.IntDefault(ctx, "Credits", req.Credits); err != nil {
		return err
	}

	if _, err := a.svc.Courses.Update(ctx, id, req); err != nil {
		return err
	}
	a.prompt.Println("Course updated successfully!")
	return nil
}

func (a *App) deleteCourse(ctx context.Context) error {
	id, err := a.prompt.String(ctx, "Enter course ID to delete: ")
	if err != nil {
		return err
	}
	return a.confirmDelete(ctx, "course", func() error { return a.svc.Courses.Delete(ctx, id) })
}

func (a *App) enrollmentMenu(ctx context.Context) error {
	return a.loop(ctx, "Enrollment Management", []string{
		"Enroll Student in Course",
		"Drop Student from Course",
		"Add Grade",
		"View Student's Courses",
		"View Course Roster",
		"View All Enrollments",
	}, []action{a.enroll, a.drop, a.addGrade, a.studentCourses, a.courseRoster, a.listEnrollments}, "Back to Main Menu")
}

func (a *App) pair(ctx context.Context) (studentID, courseID string, err error) {
	if studentID, err = a.prompt.String(ctx, "Enter student ID: "); err != nil {
		return "", "", err
	}
	courseID, err = a.prompt.String(ctx, "Enter course ID: ")
	return studentID, courseID, err
}

func (a *App) enroll(ctx context.Context) error {
	studentID, courseID, err := a.pair(ctx)
	if err != nil {
		return err
	}
	ok, err := a.svc.Enrollments.Enroll(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	a.outcome(ok, "Student enrolled successfully!", "Failed to enroll student. Please check student and course IDs.")
	return nil
}

func (a *App) drop(ctx context.Context) error {
	studentID, courseID, err := a.pair(ctx)
	if err != nil {
		return err
	}
	ok, err := a.svc.Enrollments.Drop(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	a.outcome(ok, "Student dropped successfully!", "Failed to drop student. Please check student and course IDs.")
	return nil
}

func (a *App) addGrade(ctx context.Context) error {
	studentID, courseID, err := a.pair(ctx)
	if err != nil {
		return err
	}
	grade, err := a.prompt.Float(ctx, "Enter grade (0-100): ")
	if err != nil {
		return err
	}
	ok, err := a.svc.Enrollments.AddGrade(ctx, studentID, courseID, grade)
	if err != nil {
		return err
	}
	a.outcome(ok, "Grade added successfully!", "Failed to add grade. Please check student and course IDs.")
	return nil
}

func (a *App) outcome(ok bool, success, failure string) {
	if ok {
		a.prompt.Println(success)
		return
	}
	a.prompt.Println(failure)
}

func (a *App) studentCourses(ctx context.Context) error {
	studentID, err := a.prompt.String(ctx, "Enter student ID: ")
	if err != nil {
		return err
	}
	ids, err := a.svc.Enrollments.StudentCourses(ctx, studentID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		a.prompt.Println("Student is not enrolled in any courses.")
		return nil
	}
	a.prompt.Println("\n=== Student's Courses ===")
	for _, id := range ids {
		course, err := a.svc.Courses.Get(ctx, id)
		if err != nil {
			return err
		}
		a.prompt.Println(course)
	}
	return nil
}

func (a *App) courseRoster(ctx context.Context) error {
	courseID, err := a.prompt.String(ctx, "Enter course ID: ")
	if err != nil {
		return err
	}
	ids, err := a.svc.Enrollments.CourseStudents(ctx, courseID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		a.prompt.Println("No students enrolled in this course.")
		return nil
	}
	a.prompt.Println("\n=== Course Roster ===")
	for _, id := range ids {
		student, err := a.svc.Students.Get(ctx, id)
		if err != nil {
			return err
		}
		a.prompt.Println(student)
	}
	return nil
}

func (a *App) listEnrollments(ctx context.Context) error {
	records, err := a.svc.Enrollments.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		a.prompt.Println("No enrollments found.")
		return nil
	}
	a.prompt.Println("\n=== All Enrollments ===")
	for _, r := range records {
		a.prompt.Println(r)
	}
	return nil
}

func (a *App) reportMenu(ctx context.Context) error {
	return a.loop(ctx, "Reports", []string{
		"Student Statistics",
		"Course Statistics",
		"Enrollment Statistics",
		"Export Report",
	}, []action{a.studentStatistics, a.courseStatistics, a.enrollmentStatistics, a.exportReport}, "Back to Main Menu")
}

func (a *App) studentStatistics(ctx context.Context) error {
	stats, err := a.svc.Reports.StudentStatistics(ctx)
	if err != nil {
		return err
	}
	a.prompt.Println("\n=== Student Statistics ===")
	a.prompt.Printf("Total Students: %d\n", stats.Total)
	a.prompt.Printf("Undergraduate Students: %d\n", stats.Undergraduate)
	a.prompt.Printf("Graduate Students: %d\n", stats.Graduate)
	if stats.Total > 0 {
		a.prompt.Printf("Average GPA: %.2f\n", stats.AverageGPA)
	}
	return nil
}

func (a *App) courseStatistics(ctx context.Context) error {
	stats, err := a.svc.Reports.CourseStatistics(ctx)
	if err != nil {
		return err
	}
	a.prompt.Println("\n=== Course Statistics ===")
	a.prompt.Printf("Total Courses: %d\n", stats.Total)
	a.prompt.Println("\nCourses by Department:")
	departments := make([]string, 0, len(stats.ByDepartment))
	for dept := range stats.ByDepartment {
		departments = append(departments, dept)
	}
	sort.Strings(departments)
	for _, dept := range departments {
		a.prompt.Printf("  %s: %d\n", dept, stats.ByDepartment[dept])
	}
	return nil
}

func (a *App) enrollmentStatistics(ctx context.Context) error {
	stats, err := a.svc.Reports.EnrollmentStatistics(ctx)
	if err != nil {
		return err
	}
	a.prompt.Println("\n=== Enrollment Statistics ===")
	a.prompt.Printf("Total Active Enrollments: %d\n", stats.TotalActive)
	a.prompt.Printf("Graded: %d\n", stats.GradedCount)
	if stats.GradedCount > 0 {
		a.prompt.Printf("Average Grade: %.2f\n", stats.AverageGrade)
	}
	return nil
}

func (a *App) exportReport(ctx context.Context) error {
	a.prompt.Println("Report:\n1. Active enrollments\n2. Course statistics")
	choice, err := a.prompt.Int(ctx, "Enter report: ")
	if err != nil {
		return err
	}
	kind := service.ReportEnrollments
	if choice == 2 {
		kind = service.ReportCourses
	}
	pdf, err := a.prompt.YesNo(ctx, "Export as PDF instead of CSV? (y/n): ")
	if err != nil {
		return err
	}
	format := models.ReportFormatCSV
	if pdf {
		format = models.ReportFormatPDF
	}

	result, err := a.svc.Reports.Export(ctx, kind, format)
	if err != nil {
		return err
	}
	a.prompt.Printf("Report saved to %s (%d bytes)\n", result.Path, result.Size)
	return nil
}
