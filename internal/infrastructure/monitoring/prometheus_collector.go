package monitoring

import (
	"strconv"
	"time"

	"roomcast/internal/core/domain"
	"roomcast/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	roomsCreatedTotal  prometheus.Counter
	roomJoinsTotal     *prometheus.CounterVec
	statusChangesTotal *prometheus.CounterVec
	authEventsTotal    *prometheus.CounterVec

	httpRequestDuration *prometheus.HistogramVec
}

var _ ports.RoomMetrics = (*PrometheusCollector)(nil)

// NewPrometheusCollector registers the collector's metrics with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)

	return &PrometheusCollector{
		roomsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "roomcast_rooms_created_total",
			Help: "Total number of rooms created",
		}),

		roomJoinsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roomcast_room_joins_total",
			Help: "Room joins by assigned role",
		}, []string{"role"}),

		statusChangesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roomcast_room_status_changes_total",
			Help: "Room status changes by target status",
		}, []string{"status"}),

		authEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roomcast_auth_events_total",
			Help: "Authentication events by type and outcome",
		}, []string{"event", "outcome"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roomcast_http_request_duration_seconds",
			Help:    "HTTP request duration by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

func (c *PrometheusCollector) RecordRoomCreated() {
	c.roomsCreatedTotal.Inc()
}

func (c *PrometheusCollector) RecordJoin(role domain.Role) {
	c.roomJoinsTotal.WithLabelValues(string(role)).Inc()
}

func (c *PrometheusCollector) RecordStatusChange(status domain.RoomStatus) {
	c.statusChangesTotal.WithLabelValues(string(status)).Inc()
}

func (c *PrometheusCollector) RecordAuthEvent(event, outcome string) {
	c.authEventsTotal.WithLabelValues(event, outcome).Inc()
}

func (c *PrometheusCollector) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
