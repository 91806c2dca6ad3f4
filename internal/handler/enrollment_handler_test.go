package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/university-records/internal/models"
	appErrors "github.com/noah-isme/university-records/pkg/errors"
)

type enrollmentServiceMock struct {
	applied  bool
	grade    *float64
	enrolled bool
	ids      []string
	records  []models.EnrollmentRecord
	err      error

	lastGrade float64
}

func (m *enrollmentServiceMock) Enroll(ctx context.Context, studentID, courseID string) (bool, error) {
	return m.applied, m.err
}

func (m *enrollmentServiceMock) Drop(ctx context.Context, studentID, courseID string) (bool, error) {
	return m.applied, m.err
}

func (m *enrollmentServiceMock) AddGrade(ctx context.Context, studentID, courseID string, grade float64) (bool, error) {
	m.lastGrade = grade
	return m.applied, m.err
}

func (m *enrollmentServiceMock) Grade(ctx context.Context, studentID, courseID string) (*float64, error) {
	return m.grade, m.err
}

func (m *enrollmentServiceMock) StudentCourses(ctx context.Context, studentID string) ([]string, error) {
	return m.ids, m.err
}

func (m *enrollmentServiceMock) ListActive(ctx context.Context) ([]models.EnrollmentRecord, error) {
	return m.records, m.err
}

func (m *enrollmentServiceMock) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	return m.enrolled, m.err
}

func pairParams() gin.Params {
	return gin.Params{{Key: "student_id", Value: "s1"}, {Key: "course_id", Value: "CS101"}}
}

func TestEnrollmentHandlerEnroll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEnrollmentHandler(&enrollmentServiceMock{applied: true})

	c, w := newGinContext(http.MethodPost, "/enrollments", []byte(`{"student_id":"s1","course_id":"CS101"}`))
	h.Enroll(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"student_id":"s1","course_id":"CS101","status":"ACTIVE","applied":true}`, string(decodeEnvelope(t, w).Data))
}

func TestEnrollmentHandlerEnrollMissingCourse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEnrollmentHandler(&enrollmentServiceMock{})

	c, w := newGinContext(http.MethodPost, "/enrollments", []byte(`{"student_id":"s1"}`))
	h.Enroll(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentHandlerEnrollUnknownReference(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svcErr := appErrors.Clone(appErrors.ErrValidation, "referenced record does not exist")
	h := NewEnrollmentHandler(&enrollmentServiceMock{err: svcErr})

	c, w := newGinContext(http.MethodPost, "/enrollments", []byte(`{"student_id":"s1","course_id":"NOPE"}`))
	h.Enroll(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "referenced record does not exist", decodeEnvelope(t, w).Error.Message)
}

func TestEnrollmentHandlerDrop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, w := newGinContext(http.MethodDelete, "/enrollments/s1/CS101", nil)
	c.Params = pairParams()
	NewEnrollmentHandler(&enrollmentServiceMock{applied: true}).Drop(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())

	c, w = newGinContext(http.MethodDelete, "/enrollments/s1/CS101", nil)
	c.Params = pairParams()
	NewEnrollmentHandler(&enrollmentServiceMock{applied: false}).Drop(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "enrollment not found", decodeEnvelope(t, w).Error.Message)
}

func TestEnrollmentHandlerSetGrade(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &enrollmentServiceMock{applied: true}

	c, w := newGinContext(http.MethodPut, "/enrollments/s1/CS101/grade", []byte(`{"grade":87.5}`))
	c.Params = pairParams()
	NewEnrollmentHandler(svc).SetGrade(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 87.5, svc.lastGrade)
}

func TestEnrollmentHandlerSetGradeOnInactivePair(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, w := newGinContext(http.MethodPut, "/enrollments/s1/CS101/grade", []byte(`{"grade":90}`))
	c.Params = pairParams()
	NewEnrollmentHandler(&enrollmentServiceMock{applied: false}).SetGrade(c)

	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "enrollment is not active", decodeEnvelope(t, w).Error.Message)
}

func TestEnrollmentHandlerSetGradeRequiresValue(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, w := newGinContext(http.MethodPut, "/enrollments/s1/CS101/grade", []byte(`{}`))
	c.Params = pairParams()
	NewEnrollmentHandler(&enrollmentServiceMock{applied: true}).SetGrade(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentHandlerReads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	grade := 91.0
	svc := &enrollmentServiceMock{grade: &grade, enrolled: true, ids: []string{"CS101", "MATH200"}}
	h := NewEnrollmentHandler(svc)

	c, w := newGinContext(http.MethodGet, "/enrollments/s1/CS101/grade", nil)
	c.Params = pairParams()
	h.Grade(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"student_id":"s1","course_id":"CS101","grade":91}`, string(decodeEnvelope(t, w).Data))

	c, w = newGinContext(http.MethodGet, "/enrollments/s1/CS101", nil)
	c.Params = pairParams()
	h.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"enrolled":true`)

	c, w = newGinContext(http.MethodGet, "/students/s1/courses", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	h.StudentCourses(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["CS101","MATH200"]`, string(decodeEnvelope(t, w).Data))
}

func TestEnrollmentHandlerGradeNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEnrollmentHandler(&enrollmentServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")})

	c, w := newGinContext(http.MethodGet, "/enrollments/s1/CS101/grade", nil)
	c.Params = pairParams()
	h.Grade(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
