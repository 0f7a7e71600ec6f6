package metrics_test

import (
	"testing"

	"github.com/nikolayk812/extract-cart/internal/cart"
	"github.com/nikolayk812/extract-cart/internal/domain"
	"github.com/nikolayk812/extract-cart/internal/metrics"
	"github.com/nikolayk812/extract-cart/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := metrics.NewCartMetrics(reg)
	require.NoError(t, err)

	store, err := cart.New(t.Context(), storage.NewMemory())
	require.NoError(t, err)
	store.Subscribe(m.Observe)

	a := domain.Product{ID: "a", Price: "10.00"}
	b := domain.Product{ID: "b", Price: "5.50"}
	store.AddItem(t.Context(), a)
	store.AddItem(t.Context(), a)
	store.AddItem(t.Context(), b)
	store.OpenCart()

	gathered, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, gathered)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetGauge() != nil:
				values[mf.GetName()] = metric.GetGauge().GetValue()
			case metric.GetCounter() != nil:
				values[mf.GetName()] = metric.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, values["cart_line_items"])
	assert.Equal(t, 3.0, values["cart_items"])
	assert.InDelta(t, 25.5, values["cart_value"], 1e-9)
	assert.Equal(t, 4.0, values["cart_state_changes_total"])

	store.ClearCart(t.Context())
	families, err = reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "cart_items" {
			assert.Equal(t, 0.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestNewCartMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := metrics.NewCartMetrics(reg)
	require.NoError(t, err)

	_, err = metrics.NewCartMetrics(reg)
	require.ErrorContains(t, err, "reg.Register")
}
