package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveHTTP("/reviewer/list", http.MethodGet, "200", 5*time.Millisecond)
	m.ObserveHTTP("/reviewer/list", http.MethodGet, "200", 5*time.Millisecond)
	m.ReviewerWrite("create")
	m.ImportRow("skipped")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/reviewer/list", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reviewerWrites.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.importRows.WithLabelValues("skipped")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ReviewerWrite("delete")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `evaluation_reviewer_writes_total{op="delete"} 1`))
	assert.False(t, strings.Contains(body, "go_goroutines"))
}
