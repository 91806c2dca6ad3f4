package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/university-records/internal/models"
	"github.com/noah-isme/university-records/internal/service"
	"github.com/noah-isme/university-records/pkg/storage"
)

type reportServiceMock struct {
	students    *models.StudentStatistics
	courses     *models.CourseStatistics
	enrollments *models.EnrollmentStatistics
	export      *service.ExportResult
	err         error

	exportKind   service.ReportKind
	exportFormat models.ReportFormat
}

func (m *reportServiceMock) StudentStatistics(ctx context.Context) (*models.StudentStatistics, error) {
	return m.students, m.err
}

func (m *reportServiceMock) CourseStatistics(ctx context.Context) (*models.CourseStatistics, error) {
	return m.courses, m.err
}

func (m *reportServiceMock) EnrollmentStatistics(ctx context.Context) (*models.EnrollmentStatistics, error) {
	return m.enrollments, m.err
}

func (m *reportServiceMock) Export(ctx context.Context, kind service.ReportKind, format models.ReportFormat) (*service.ExportResult, error) {
	m.exportKind, m.exportFormat = kind, format
	return m.export, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestReportHandlerStatistics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &reportServiceMock{
		students: &models.StudentStatistics{Total: 3, Undergraduate: 2, Graduate: 1, AverageGPA: 3.1},
		courses:  &models.CourseStatistics{Total: 2, ByDepartment: map[string]int{"CS": 2}},
	}
	h := NewReportHandler(svc, nil)

	c, w := newGinContext(http.MethodGet, "/reports/students", nil)
	h.Students(c)
	require.Equal(t, http.StatusOK, w.Code)
	var students models.StudentStatistics
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &students))
	assert.Equal(t, 2, students.Undergraduate)

	c, w = newGinContext(http.MethodGet, "/reports/courses", nil)
	h.Courses(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"by_department":{"CS":2}`)
}

func TestReportHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &reportServiceMock{export: &service.ExportResult{Name: "courses-20240501-123000.csv", ContentType: "text/csv", Size: 20}}
	h := NewReportHandler(svc, nil)

	c, w := newGinContext(http.MethodPost, "/reports/export", []byte(`{"report":"courses","format":"csv"}`))
	h.Export(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, service.ReportCourses, svc.exportKind)
	assert.Equal(t, models.ReportFormatCSV, svc.exportFormat)
	assert.Contains(t, w.Body.String(), "courses-20240501-123000.csv")
}

func TestReportHandlerExportRejectsIncompletePayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(&reportServiceMock{}, nil)

	c, w := newGinContext(http.MethodPost, "/reports/export", []byte(`{"report":"courses"}`))
	h.Export(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error.Code)
}

func TestReportHandlerFilesAndDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	_, err = store.Save("courses-1.csv", []byte("Department,Courses\n"))
	require.NoError(t, err)
	h := NewReportHandler(&reportServiceMock{}, store)

	c, w := newGinContext(http.MethodGet, "/reports/files", nil)
	h.Files(c)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.JSONEq(t, `["courses-1.csv"]`, string(env.Data))
	assert.EqualValues(t, 1, env.Meta["count"])

	c, w = newGinContext(http.MethodGet, "/reports/files/courses-1.csv", nil)
	c.Params = gin.Params{{Key: "name", Value: "courses-1.csv"}}
	h.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "courses-1.csv")
	assert.Equal(t, "Department,Courses\n", w.Body.String())
}

func TestReportHandlerDownloadErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	h := NewReportHandler(&reportServiceMock{}, store)

	cases := map[string]int{
		"missing.csv": http.StatusNotFound,
		".env":        http.StatusBadRequest,
	}
	for name, status := range cases {
		c, w := newGinContext(http.MethodGet, "/reports/files/"+name, nil)
		c.Params = gin.Params{{Key: "name", Value: name}}
		h.Download(c)
		assert.Equal(t, status, w.Code, name)
	}

	c, w := newGinContext(http.MethodGet, "/reports/files", nil)
	NewReportHandler(&reportServiceMock{}, nil).Files(c)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
}
