package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/university-records/internal/models"
	"github.com/noah-isme/university-records/internal/repository"
	appErrors "github.com/noah-isme/university-records/pkg/errors"
)

type enrollmentRow struct {
	status models.EnrollmentStatus
	grade  *float64
}

type mockEnrollmentRepo struct {
	rows    map[[2]string]*enrollmentRow
	credits map[string]int
	err     error
}

func newMockEnrollmentRepo(credits map[string]int) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{rows: map[[2]string]*enrollmentRow{}, credits: credits}
}

func (m *mockEnrollmentRepo) Enroll(ctx context.Context, studentID, courseID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.credits[courseID]; !ok {
		return false, fmt.Errorf("enroll student: %w", repository.ErrForeignKey)
	}
	key := [2]string{studentID, courseID}
	if row, ok := m.rows[key]; ok {
		row.status = models.EnrollmentStatusActive
		return true, nil
	}
	m.rows[key] = &enrollmentRow{status: models.EnrollmentStatusActive}
	return true, nil
}

func (m *mockEnrollmentRepo) Drop(ctx context.Context, studentID, courseID string) (bool, error) {
	row, ok := m.rows[[2]string{studentID, courseID}]
	if !ok {
		return false, nil
	}
	row.status = models.EnrollmentStatusDropped
	return true, nil
}

func (m *mockEnrollmentRepo) UpdateGrade(ctx context.Context, studentID, courseID string, grade float64) (bool, error) {
	row, ok := m.rows[[2]string{studentID, courseID}]
	if !ok || row.status != models.EnrollmentStatusActive {
		return false, nil
	}
	row.grade = &grade
	return true, nil
}

func (m *mockEnrollmentRepo) Grade(ctx context.Context, studentID, courseID string) (*float64, error) {
	row, ok := m.rows[[2]string{studentID, courseID}]
	if !ok || row.status != models.EnrollmentStatusActive {
		return nil, fmt.Errorf("get grade: %w", repository.ErrNotFound)
	}
	return row.grade, nil
}

func (m *mockEnrollmentRepo) active(match func(key [2]string) bool) []string {
	var out []string
	for key, row := range m.rows {
		if row.status == models.EnrollmentStatusActive && match(key) {
			out = append(out, key[0]+"/"+key[1])
		}
	}
	sort.Strings(out)
	return out
}

func (m *mockEnrollmentRepo) StudentCourseIDs(ctx context.Context, studentID string) ([]string, error) {
	var ids []string
	for key, row := range m.rows {
		if key[0] == studentID && row.status == models.EnrollmentStatusActive {
			ids = append(ids, key[1])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockEnrollmentRepo) CourseStudentIDs(ctx context.Context, courseID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var ids []string
	for key, row := range m.rows {
		if key[1] == courseID && row.status == models.EnrollmentStatusActive {
			ids = append(ids, key[0])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockEnrollmentRepo) GradedCourses(ctx context.Context, studentID string) ([]models.GradedCourse, error) {
	var out []models.GradedCourse
	for key, row := range m.rows {
		if key[0] == studentID && row.status == models.EnrollmentStatusActive && row.grade != nil {
			out = append(out, models.GradedCourse{CourseID: key[1], CourseName: key[1], Credits: m.credits[key[1]], Grade: *row.grade})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (m *mockEnrollmentRepo) ListActive(ctx context.Context) ([]models.EnrollmentRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.EnrollmentRecord
	for key, row := range m.rows {
		if row.status == models.EnrollmentStatusActive {
			out = append(out, models.EnrollmentRecord{StudentID: key[0], CourseID: key[1], Credits: m.credits[key[1]], Grade: row.grade, Status: row.status})
		}
	}
	return out, nil
}

func (m *mockEnrollmentRepo) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	return len(m.active(func(key [2]string) bool { return key == [2]string{studentID, courseID} })) > 0, nil
}

func (m *mockEnrollmentRepo) CourseStats(ctx context.Context, courseID string) (*models.CourseStats, error) {
	stats := &models.CourseStats{}
	var sum float64
	for key, row := range m.rows {
		if key[1] != courseID || row.status != models.EnrollmentStatusActive {
			continue
		}
		stats.TotalEnrolled++
		if row.grade != nil {
			stats.GradedCount++
			sum += *row.grade
		}
	}
	if stats.GradedCount > 0 {
		stats.AverageGrade = sum / float64(stats.GradedCount)
	}
	return stats, nil
}

func newEnrollmentFixture(t *testing.T, typ models.StudentType) (*EnrollmentService, *mockEnrollmentRepo, *mockStudentRepo) {
	t.Helper()
	params := models.StudentParams{ID: "s1", StudentID: "S-1", FirstName: "Ada", LastName: "Lovelace", YearLevel: 2}
	var student *models.Student
	var err error
	if typ == models.StudentTypeGraduate {
		student, err = models.NewGraduateStudent(params, models.GraduateInfo{})
	} else {
		student, err = models.NewUndergraduateStudent(params, models.UndergraduateInfo{})
	}
	require.NoError(t, err)
	students := newMockStudentRepo(student)
	enrollments := newMockEnrollmentRepo(map[string]int{"A": 3, "B": 4})
	return NewEnrollmentService(enrollments, students, NewMetricsService(), nil, nil), enrollments, students
}

func TestEnrollmentServiceStateMachine(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(t, models.StudentTypeUndergraduate)
	ctx := context.Background()

	ok, err := svc.Enroll(ctx, "s1", "A")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.Enroll(ctx, "s1", "A")
	require.NoError(t, err)
	assert.True(t, ok)
	ids, err := svc.StudentCourses(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids)

	ok, err = svc.Drop(ctx, "s1", "A")
	require.NoError(t, err)
	assert.True(t, ok)
	enrolled, err := svc.IsEnrolled(ctx, "s1", "A")
	require.NoError(t, err)
	assert.False(t, enrolled)

	ok, err = svc.AddGrade(ctx, "s1", "A", 90)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Enroll(ctx, "s1", "A")
	require.NoError(t, err)
	assert.True(t, ok)
	students, err := svc.CourseStudents(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, students)
}

func TestEnrollmentServiceDropTwice(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(t, models.StudentTypeUndergraduate)
	ctx := context.Background()
	_, err := svc.Enroll(ctx, "s1", "A")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		ok, err := svc.Drop(ctx, "s1", "A")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	enrolled, err := svc.IsEnrolled(ctx, "s1", "A")
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestEnrollmentServiceDropUnknownPair(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(t, models.StudentTypeUndergraduate)
	ok, err := svc.Drop(context.Background(), "s1", "B")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnrollmentServiceEnrollMissingCourse(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(t, models.StudentTypeUndergraduate)
	ok, err := svc.Enroll(context.Background(), "s1", "ZZZ")
	assert.False(t, ok)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestEnrollmentServiceRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(t, models.StudentTypeUndergraduate)
	_, err := svc.Enroll(context.Background(), "", "A")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	_, err = svc.AddGrade(context.Background(), "s1", "A", 101)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	_, err = svc.AddGrade(context.Background(), "s1", "A", -1)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestEnrollmentServiceGradeRecomputesGPA(t *testing.T) {
	for _, typ := range []models.StudentType{models.StudentTypeUndergraduate, models.StudentTypeGraduate} {
		svc, _, students := newEnrollmentFixture(t, typ)
		ctx := context.Background()
		_, err := svc.Enroll(ctx, "s1", "A")
		require.NoError(t, err)
		_, err = svc.Enroll(ctx, "s1", "B")
		require.NoError(t, err)

		ok, err := svc.AddGrade(ctx, "s1", "A", 95)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = svc.AddGrade(ctx, "s1", "B", 72)
		require.NoError(t, err)
		assert.True(t, ok)

		assert.InDelta(t, 20.0/7.0, students.gpas["s1"], 1e-9, typ)

		grade, err := svc.Grade(ctx, "s1", "B")
		require.NoError(t, err)
		require.NotNil(t, grade)
		assert.Equal(t, 72.0, *grade)
	}
}

func TestEnrollmentServiceGPAScalesDifferInSixties(t *testing.T) {
	ug, _, ugStudents := newEnrollmentFixture(t, models.StudentTypeUndergraduate)
	grad, _, gradStudents := newEnrollmentFixture(t, models.StudentTypeGraduate)
	ctx := context.Background()
	for _, svc := range []*EnrollmentService{ug, grad} {
		_, err := svc.Enroll(ctx, "s1", "A")
		require.NoError(t, err)
		_, err = svc.AddGrade(ctx, "s1", "A", 65)
		require.NoError(t, err)
	}
	assert.Equal(t, 1.0, ugStudents.gpas["s1"])
	assert.Equal(t, 0.0, gradStudents.gpas["s1"])
}

func TestEnrollmentServiceDroppedCourseLeavesGPA(t *testing.T) {
	svc, _, students := newEnrollmentFixture(t, models.StudentTypeUndergraduate)
	ctx := context.Background()
	_, _ = svc.Enroll(ctx, "s1", "A")
	_, _ = svc.Enroll(ctx, "s1", "B")
	_, _ = svc.AddGrade(ctx, "s1", "A", 95)
	_, _ = svc.Drop(ctx, "s1", "A")

	gpa, err := svc.RecalculateGPA(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, gpa)
	assert.Equal(t, 0.0, students.gpas["s1"])
}

func TestEnrollmentServiceGradeSurvivesGPAFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	enrollments := newMockEnrollmentRepo(map[string]int{"A": 3})
	svc := NewEnrollmentService(enrollments, newMockStudentRepo(), nil, nil, zap.New(core))
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "ghost", "A")
	require.NoError(t, err)
	ok, err := svc.AddGrade(ctx, "ghost", "A", 80)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("gpa recalculation failed").Len())
}

func TestEnrollmentServiceGradeNotFound(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(t, models.StudentTypeUndergraduate)
	_, err := svc.Grade(context.Background(), "s1", "A")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestEnrollmentServiceCourseStats(t *testing.T) {
	svc, repo, _ := newEnrollmentFixture(t, models.StudentTypeUndergraduate)
	ctx := context.Background()
	_, _ = svc.Enroll(ctx, "s1", "A")
	_, _ = svc.Enroll(ctx, "s2", "A")
	_, _ = svc.AddGrade(ctx, "s1", "A", 80)

	stats, err := svc.CourseStats(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, &models.CourseStats{TotalEnrolled: 2, AverageGrade: 80, GradedCount: 1}, stats)

	repo.err = errors.New("db down")
	_, err = svc.ListActive(ctx)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}
