package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/students", 200, 20*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/students", 200, 40*time.Millisecond)
	m.ObserveDBQuery("student_statistics", 10*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.Requests)
	assert.InDelta(t, 30.0, snap.AvgRequestMs, 0.001)
	assert.Equal(t, uint64(1), snap.DBQueries)
	assert.InDelta(t, 10.0, snap.AvgDBQueryMs, 0.001)
}

func TestMetricsServiceEnrollmentTransitions(t *testing.T) {
	m := NewMetricsService()
	m.RecordEnrollmentTransition("grade", false)
	m.RecordEnrollmentTransition("grade", false)
	m.RecordEnrollmentTransition("enroll", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `enrollment_transitions_total{applied="false",operation="grade"} 2`)
	assert.Contains(t, body, `enrollment_transitions_total{applied="true",operation="enroll"} 1`)
}

func TestMetricsServiceHandler(t *testing.T) {
	m := NewMetricsService()
	m.RecordEnrollmentTransition("drop", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "enrollment_transitions_total")

	var nilService *MetricsService
	rec = httptest.NewRecorder()
	nilService.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	nilService.RecordEnrollmentTransition("enroll", true)
	assert.Equal(t, MetricsSnapshot{}, nilService.Snapshot())
}
