package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	jobmetrics "github.com/olguin/portfolio/internal/jobs"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsHandlerExposesPrometheusMetrics(t *testing.T) {
	metrics := NewMetrics()
	jobs := jobmetrics.NewMetrics(metrics.Registerer())
	_ = jobs.Track("casestudy:purge").End(nil)

	body := scrape(t, metrics)
	if !strings.Contains(body, `portfolio_jobs_total{job="casestudy:purge",status="success"} 1`) {
		t.Fatalf("expected body to contain portfolio_jobs_total, got: %s", body)
	}
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/work/{slug}")

	req := httptest.NewRequest(http.MethodGet, "/work/towne-oaks-paid-social", nil)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}

	metricsBody := scrape(t, metrics)
	if !strings.Contains(metricsBody, "portfolio_http_requests_total{code=\"418\",route=\"/work/{slug}\"} 1") {
		t.Fatalf("expected metrics to record request, got: %s", metricsBody)
	}
	if !strings.Contains(metricsBody, "portfolio_http_request_duration_seconds_bucket{route=\"/work/{slug}\"") {
		t.Fatalf("expected duration histogram to be present, got: %s", metricsBody)
	}
}

func TestDomainCounters(t *testing.T) {
	metrics := NewMetrics()
	metrics.ChartRendered("combo")
	metrics.ChartRendered("combo")
	metrics.ChartRendered("sparkline")
	metrics.ContactMessage("queued")

	body := scrape(t, metrics)
	for _, want := range []string{
		`portfolio_chart_renders_total{kind="combo"} 2`,
		`portfolio_chart_renders_total{kind="sparkline"} 1`,
		`portfolio_contact_messages_total{result="queued"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in: %s", want, body)
		}
	}

	var nilMetrics *Metrics
	nilMetrics.ChartRendered("combo")
	nilMetrics.ContactMessage("queued")
	rr := httptest.NewRecorder()
	nilMetrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from nil metrics, got %d", rr.Code)
	}
}
