package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/multibook/backend/internal/application/adapter"
)

var _ adapter.LedgerObserver = (*Metrics)(nil)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("failed to read metrics: %v", err)
	}
	return string(body)
}

func TestMetrics_LedgerObserver(t *testing.T) {
	m := New(func() int { return 3 })

	m.ObserveMutation("add_business", "ok")
	m.ObserveMutation("add_business", "ok")
	m.ObserveMutation("delete_transaction", "remote_error")
	m.ObserveHydration("cache")

	body := scrape(t, m)
	for _, want := range []string{
		`ledger_mutations_total{operation="add_business",outcome="ok"} 2`,
		`ledger_mutations_total{operation="delete_transaction",outcome="remote_error"} 1`,
		`ledger_hydrations_total{source="cache"} 1`,
		`ledger_active_sessions 3`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics to contain %q", want)
		}
	}
}

func TestMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(nil)

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/v1/businesses/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/businesses/abc", nil))

	body := scrape(t, m)
	want := `http_requests_total{method="GET",path="/api/v1/businesses/:id",status="404"} 1`
	if !strings.Contains(body, want) {
		t.Errorf("expected metrics to contain %q", want)
	}
	if strings.Contains(body, "ledger_active_sessions") {
		t.Error("expected no session gauge without a source")
	}
}
