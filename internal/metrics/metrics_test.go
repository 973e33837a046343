package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"seenjeem-admin/internal/domain"
)

func TestObserveImportRow(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveImportRow(domain.ImportQuestions, domain.RowCreated)
	m.ObserveImportRow(domain.ImportQuestions, domain.RowCreated)
	m.ObserveImportRow(domain.ImportQuestions, domain.RowSkipped)

	require.Equal(t, 2.0, testutil.ToFloat64(m.ImportRows.WithLabelValues("questions", "created")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ImportRows.WithLabelValues("questions", "skipped")))
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/questions/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/questions/q1", nil))

	require.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("/api/questions/{id}", "GET", "404")))
	require.Zero(t, testutil.ToFloat64(m.RequestsInFlight))
}
