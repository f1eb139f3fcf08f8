package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rafaelleal24/shopping/internal/adapters/config"
	"github.com/rafaelleal24/shopping/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *Metrics {
	return New(config.MetricsConfig{Namespace: "shopping"})
}

func TestMetrics_ObservePurchase(t *testing.T) {
	m := newTestMetrics()

	m.ObservePurchase(port.PurchaseOutcomeBought, 7)
	m.ObservePurchase(port.PurchaseOutcomeBought, 3)
	m.ObservePurchase(port.PurchaseOutcomeInsufficientStock, 0)
	m.ObservePurchase(port.PurchaseOutcomeEmpty, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.purchases.WithLabelValues("bought")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.purchases.WithLabelValues("insufficient_stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.purchases.WithLabelValues("empty")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.purchases.WithLabelValues("error")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.unitsSold))
}

func TestMetrics_FailedPurchaseSellsNoUnits(t *testing.T) {
	m := newTestMetrics()

	m.ObservePurchase(port.PurchaseOutcomeError, 5)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.unitsSold))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := newTestMetrics()

	m.ObserveRequest("/api/v1/purchases", http.MethodPost, http.StatusConflict, 15*time.Millisecond)
	m.ObserveRequest("", http.MethodGet, http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/v1/purchases", "POST", "409")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("unmatched", "GET", "404")))
}

func TestMetrics_Handler(t *testing.T) {
	m := newTestMetrics()
	m.ObservePurchase(port.PurchaseOutcomeBought, 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `shopping_purchases_total{outcome="bought"} 1`), body)
	assert.True(t, strings.Contains(body, "shopping_units_sold_total 2"), body)
}
