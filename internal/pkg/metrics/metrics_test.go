package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	require.NotNil(t, m)

	m.ReservationsTotal.WithLabelValues("success").Inc()
	m.ReservationsTotal.WithLabelValues("conflict").Add(2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("conflict")))
}

func TestMetrics_GateAccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	for _, result := range []string{"open", "expired", "invalid", "mismatch"} {
		m.GateAccessTotal.WithLabelValues(result).Inc()
	}
	assert.Equal(t, float64(1), testutil.ToFloat64(m.GateAccessTotal.WithLabelValues("open")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.GateAccessTotal.WithLabelValues("mismatch")))
}

func TestMetrics_HTTPObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	assert.NotPanics(t, func() {
		m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/reservations", "201").Inc()
		m.HTTPRequestDuration.WithLabelValues("POST", "/api/v1/reservations").Observe(0.05)
		m.SlotLockDuration.WithLabelValues("acquire", "success").Observe(0.002)
		m.QRRenderedTotal.WithLabelValues("success").Inc()
		m.CancellationsTotal.WithLabelValues("window_closed").Inc()
	})
}

func TestInitAndGet(t *testing.T) {
	// Init は新しいレジストリではなくデフォルトレジストリを使うため
	// 多重登録を避けて一度だけ検証する
	if defaultMetrics == nil {
		m := Init()
		require.NotNil(t, m)
	}
	assert.NotNil(t, Get())
}
