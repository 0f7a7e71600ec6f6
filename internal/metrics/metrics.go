// Package metrics exposes the cart as prometheus gauges.
package metrics

import (
	"fmt"

	"github.com/nikolayk812/extract-cart/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

type CartMetrics struct {
	lines   prometheus.Gauge
	items   prometheus.Gauge
	value   prometheus.Gauge
	changes prometheus.Counter
}

func NewCartMetrics(reg prometheus.Registerer) (*CartMetrics, error) {
	m := &CartMetrics{
		lines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cart_line_items",
			Help: "Number of distinct products in the cart.",
		}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cart_items",
			Help: "Sum of quantities over all cart lines.",
		}),
		value: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cart_value",
			Help: "Cart total price; unparseable prices count as zero.",
		}),
		changes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_state_changes_total",
			Help: "Cart state changes observed.",
		}),
	}

	for _, c := range []prometheus.Collector{m.lines, m.items, m.value, m.changes} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("reg.Register: %w", err)
		}
	}

	return m, nil
}

// Observe is a cart.Listener.
func (m *CartMetrics) Observe(cart domain.Cart) {
	total, _ := cart.TotalPrice()
	value, _ := total.Float64()

	m.lines.Set(float64(len(cart.Items)))
	m.items.Set(float64(cart.TotalItems()))
	m.value.Set(value)
	m.changes.Inc()
}
