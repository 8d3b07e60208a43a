package monitoring

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	b, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(b)
}

func TestNewMetricsIndependent(t *testing.T) {
	// Two collectors must not collide on registration.
	a, b := NewMetrics(), NewMetrics()
	a.RecordEvaluation(ResultOK, 3)
	assert.Contains(t, scrape(t, a), `calc_evaluations_total{result="ok"} 1`)
	assert.NotContains(t, scrape(t, b), `calc_evaluations_total{result="ok"}`)
}

func TestRecord(t *testing.T) {
	m := NewMetrics()
	m.RecordHTTPRequest(http.MethodPost, "/v1/evaluate", "200", time.Millisecond)
	m.RecordHTTPRequest(http.MethodPost, "/v1/evaluate", "422", time.Millisecond)
	m.RecordEvaluation(ResultOK, 7)
	m.RecordEvaluation("DivisionByZero", 3)
	m.RecordEvaluation("DivisionByZero", 3)
	m.IncRateLimited()

	body := scrape(t, m)
	assert.Contains(t, body, `calc_http_requests_total{method="POST",path="/v1/evaluate",status="200"} 1`)
	assert.Contains(t, body, `calc_http_requests_total{method="POST",path="/v1/evaluate",status="422"} 1`)
	assert.Contains(t, body, `calc_evaluations_total{result="DivisionByZero"} 2`)
	assert.Contains(t, body, `calc_formula_length_bytes_count 3`)
	assert.Contains(t, body, `calc_rate_limited_total 1`)
	assert.Contains(t, body, `go_goroutines`)

	s := m.Snapshot()
	assert.EqualValues(t, 2, s.Requests)
	assert.EqualValues(t, 1, s.Errors)
	assert.Equal(t, map[string]int64{ResultOK: 1, "DivisionByZero": 2}, s.Evaluations)

	// Snapshots are copies.
	s.Evaluations[ResultOK] = 100
	assert.EqualValues(t, 1, m.Snapshot().Evaluations[ResultOK])
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()
	r := gin.New()
	r.Use(Middleware(m))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/items/1", "/items/2", "/missing"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, m)
	assert.Contains(t, body, `calc_http_requests_total{method="GET",path="/items/:id",status="204"} 2`)
	assert.Contains(t, body, `calc_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
}
