package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 予約結果のラベル
const (
	BookingSuccess   = "success"
	BookingConflict  = "conflict"
	BookingInvalid   = "invalid"
	BookingForbidden = "forbidden"
	BookingError     = "error"
)

// 座席マスタキャッシュ参照結果のラベル
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約の総数（status: success, conflict, invalid, forbidden, error）
	BookingsTotal *prometheus.CounterVec

	// 予約で確保された座席の総数
	BookedSeatsTotal prometheus.Counter

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec

	// 座席マスタキャッシュの参照結果（result: hit, miss, error）
	SeatCatalogCacheTotal *prometheus.CounterVec
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
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Total number of booking attempts by outcome",
			},
			[]string{"status"},
		),
		BookedSeatsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "booked_seats_total",
				Help: "Total number of seats claimed by committed bookings",
			},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		SeatCatalogCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_catalog_cache_total",
				Help: "Seat catalog cache lookups by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.BookedSeatsTotal,
		m.DistributedLockDuration,
		m.SeatCatalogCacheTotal,
	)

	return m
}

// RecordBooking は予約結果を記録する。m が nil の場合は何もしない
func (m *Metrics) RecordBooking(status string, seats int) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(status).Inc()
	if status == BookingSuccess {
		m.BookedSeatsTotal.Add(float64(seats))
	}
}

// ObserveLock はロック操作の所要時間を記録する
func (m *Metrics) ObserveLock(operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}

// RecordCatalogCache は座席マスタキャッシュの参照結果を記録する
func (m *Metrics) RecordCatalogCache(result string) {
	if m == nil {
		return
	}
	m.SeatCatalogCacheTotal.WithLabelValues(result).Inc()
}

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
