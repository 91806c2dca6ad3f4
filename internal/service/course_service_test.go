package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/university-records/internal/models"
	"github.com/noah-isme/university-records/internal/repository"
	appErrors "github.com/noah-isme/university-records/pkg/errors"
)

type mockCourseRepo struct {
	courses  map[string]*models.Course
	assigned map[string]string
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: map[string]*models.Course{}, assigned: map[string]string{}}
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if _, ok := m.courses[course.CourseID]; ok {
		return fmt.Errorf("create course: %w", repository.ErrDuplicate)
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, courseID string) (*models.Course, error) {
	c, ok := m.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("get course: %w", repository.ErrNotFound)
	}
	return c, nil
}

func (m *mockCourseRepo) List(ctx context.Context) ([]*models.Course, error) {
	out := make([]*models.Course, 0, len(m.courses))
	for _, c := range m.courses {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCourseRepo) SearchByDepartment(ctx context.Context, department string) ([]*models.Course, error) {
	return m.List(ctx)
}

func (m *mockCourseRepo) ListByInstructor(ctx context.Context, instructorID string) ([]*models.Course, error) {
	var out []*models.Course
	for id, instructor := range m.assigned {
		if instructor == instructorID {
			out = append(out, m.courses[id])
		}
	}
	return out, nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) (bool, error) {
	if _, ok := m.courses[course.CourseID]; !ok {
		return false, nil
	}
	m.courses[course.CourseID] = course
	return true, nil
}

func (m *mockCourseRepo) AssignInstructor(ctx context.Context, courseID, instructorID string) (bool, error) {
	if _, ok := m.courses[courseID]; !ok {
		return false, nil
	}
	m.assigned[courseID] = instructorID
	return true, nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, courseID string) (bool, error) {
	if _, ok := m.courses[courseID]; !ok {
		return false, nil
	}
	delete(m.courses, courseID)
	return true, nil
}

type mockInstructorRepo struct {
	instructors map[string]*models.Instructor
}

func newMockInstructorRepo(t *testing.T, ids ...string) *mockInstructorRepo {
	m := &mockInstructorRepo{instructors: map[string]*models.Instructor{}}
	for _, id := range ids {
		i, err := models.NewInstructor(models.InstructorParams{ID: id, FirstName: "Grace", LastName: "Hopper", EmployeeID: "E-" + id, Specializations: []string{"Compilers"}})
		require.NoError(t, err)
		m.instructors[id] = i
	}
	return m
}

func (m *mockInstructorRepo) Create(ctx context.Context, instructor *models.Instructor) error {
	m.instructors[instructor.ID] = instructor
	return nil
}

func (m *mockInstructorRepo) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	i, ok := m.instructors[id]
	if !ok {
		return nil, fmt.Errorf("get instructor: %w", repository.ErrNotFound)
	}
	return i, nil
}

func (m *mockInstructorRepo) List(ctx context.Context) ([]*models.Instructor, error) {
	out := make([]*models.Instructor, 0, len(m.instructors))
	for _, i := range m.instructors {
		out = append(out, i)
	}
	return out, nil
}

func (m *mockInstructorRepo) SearchByDepartment(ctx context.Context, department string) ([]*models.Instructor, error) {
	return m.List(ctx)
}

func (m *mockInstructorRepo) Update(ctx context.Context, instructor *models.Instructor) (bool, error) {
	if _, ok := m.instructors[instructor.ID]; !ok {
		return false, nil
	}
	m.instructors[instructor.ID] = instructor
	return true, nil
}

func (m *mockInstructorRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.instructors[id]; !ok {
		return false, nil
	}
	delete(m.instructors, id)
	return true, nil
}

func courseRequest() CourseRequest {
	return CourseRequest{CourseID: "CS101", CourseName: "Intro to CS", Credits: 3, Department: "Computer Science", InstructorID: "i1"}
}

func TestCourseServiceCreateAttachesInstructor(t *testing.T) {
	repo := newMockCourseRepo()
	svc := NewCourseService(repo, newMockInstructorRepo(t, "i1"), nil, nil)

	course, err := svc.Create(context.Background(), courseRequest())
	require.NoError(t, err)
	require.NotNil(t, course.Instructor)
	assert.Equal(t, "i1", course.Instructor.ID)
	assert.Contains(t, repo.courses, "CS101")
}

func TestCourseServiceCreateUnknownInstructor(t *testing.T) {
	svc := NewCourseService(newMockCourseRepo(), newMockInstructorRepo(t), nil, nil)
	_, err := svc.Create(context.Background(), courseRequest())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "instructor not found", appErr.Message)
}

func TestCourseServiceCreateValidation(t *testing.T) {
	svc := NewCourseService(newMockCourseRepo(), newMockInstructorRepo(t), nil, nil)
	req := courseRequest()
	req.Credits = 0
	_, err := svc.Create(context.Background(), req)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCourseServiceCreateDuplicate(t *testing.T) {
	svc := NewCourseService(newMockCourseRepo(), newMockInstructorRepo(t, "i1"), nil, nil)
	_, err := svc.Create(context.Background(), courseRequest())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), courseRequest())
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestCourseServiceUpdateMissing(t *testing.T) {
	svc := NewCourseService(newMockCourseRepo(), newMockInstructorRepo(t, "i1"), nil, nil)
	_, err := svc.Update(context.Background(), "NOPE", courseRequest())
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestCourseServiceAssignInstructor(t *testing.T) {
	repo := newMockCourseRepo()
	svc := NewCourseService(repo, newMockInstructorRepo(t, "i1", "i2"), nil, nil)
	req := courseRequest()
	req.InstructorID = ""
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.AssignInstructor(context.Background(), "CS101", "i2")
	require.NoError(t, err)
	assert.Equal(t, "i2", repo.assigned["CS101"])

	_, err = svc.AssignInstructor(context.Background(), "CS101", "ghost")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.AssignInstructor(context.Background(), "NOPE", "")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestInstructorServiceGetAttachesCourses(t *testing.T) {
	courses := newMockCourseRepo()
	for _, id := range []string{"A", "B"} {
		c, err := models.NewCourse(models.CourseParams{CourseID: id, CourseName: id, Credits: 3})
		require.NoError(t, err)
		courses.courses[id] = c
		courses.assigned[id] = "i1"
	}

	roster := newMockEnrollmentRepo(map[string]int{"A": 3, "B": 3})
	for _, pair := range [][2]string{{"s1", "A"}, {"s2", "A"}, {"s1", "B"}, {"s3", "B"}} {
		_, err := roster.Enroll(context.Background(), pair[0], pair[1])
		require.NoError(t, err)
	}
	_, err := roster.Drop(context.Background(), "s3", "B")
	require.NoError(t, err)

	svc := NewInstructorService(newMockInstructorRepo(t, "i1"), courses, roster, nil, nil)
	instructor, err := svc.Get(context.Background(), "i1")
	require.NoError(t, err)
	assert.Len(t, instructor.AssignedCourses(), 2)
	assert.Equal(t, 3, instructor.TotalStudents())
}

func TestInstructorServiceGetRosterFailure(t *testing.T) {
	courses := newMockCourseRepo()
	c, err := models.NewCourse(models.CourseParams{CourseID: "A", CourseName: "A", Credits: 3})
	require.NoError(t, err)
	courses.courses["A"] = c
	courses.assigned["A"] = "i1"

	roster := newMockEnrollmentRepo(nil)
	roster.err = fmt.Errorf("list course students: connection reset")

	svc := NewInstructorService(newMockInstructorRepo(t, "i1"), courses, roster, nil, nil)
	_, err = svc.Get(context.Background(), "i1")
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestInstructorServiceQualified(t *testing.T) {
	svc := NewInstructorService(newMockInstructorRepo(t, "i1"), nil, nil, nil, nil)
	matches, err := svc.Qualified(context.Background(), "compil")
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	matches, err = svc.Qualified(context.Background(), "Biology")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestInstructorServiceCreateAndDelete(t *testing.T) {
	repo := newMockInstructorRepo(t)
	svc := NewInstructorService(repo, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), InstructorRequest{FirstName: "Alan", LastName: "Turing"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	created, err := svc.Create(context.Background(), InstructorRequest{EmployeeID: "E-9", FirstName: "Alan", LastName: "Turing", Specializations: []string{"Logic", "Logic"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Logic"}, created.Specializations())

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.True(t, appErrors.Is(svc.Delete(context.Background(), created.ID), appErrors.ErrNotFound))
}
