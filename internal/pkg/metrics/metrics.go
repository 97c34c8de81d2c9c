package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約試行の総数（status: success, conflict, rejected, error）
	ReservationsTotal *prometheus.CounterVec

	// キャンセル試行の総数（status: success, window_closed, started, not_found）
	CancellationsTotal *prometheus.CounterVec

	// ゲート解錠判定の総数（result: open, expired, invalid, mismatch）
	GateAccessTotal *prometheus.CounterVec

	// QRコード生成の総数（status: success, error）
	QRRenderedTotal *prometheus.CounterVec

	// 区画ロックの操作時間（operation: acquire/release, status: success/failed）
	SlotLockDuration *prometheus.HistogramVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Total number of reservation attempts",
			},
			[]string{"status"},
		),
		CancellationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cancellations_total",
				Help: "Total number of cancellation attempts",
			},
			[]string{"status"},
		),
		GateAccessTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gate_access_total",
				Help: "Total number of gate access decisions",
			},
			[]string{"result"},
		),
		QRRenderedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qr_rendered_total",
				Help: "Total number of QR code renderings",
			},
			[]string{"status"},
		),
		SlotLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slot_lock_duration_seconds",
				Help:    "Time spent on slot lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.CancellationsTotal,
		m.GateAccessTotal,
		m.QRRenderedTotal,
		m.SlotLockDuration,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
