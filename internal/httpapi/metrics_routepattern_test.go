package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_CountsRejectedManifestWrites(t *testing.T) {
	c := httpRequestsTotal.WithLabelValues("/manifests", http.MethodPost, "415")
	before := testutil.ToFloat64(c)

	req := httptest.NewRequest(http.MethodPost, "/manifests", strings.NewReader(`{"model":"m1"}`))
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", w.Code)
	}

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("requests_total{/manifests,POST,415} grew by %v, want 1", got)
	}
}
