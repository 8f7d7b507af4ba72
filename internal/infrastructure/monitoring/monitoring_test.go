package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"roomcast/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg)

	c.RecordRoomCreated()
	c.RecordRoomCreated()
	c.RecordJoin(domain.RoleGuest)
	c.RecordJoin(domain.RoleAudience)
	c.RecordJoin(domain.RoleGuest)
	c.RecordStatusChange(domain.RoomStatusLive)
	c.RecordAuthEvent("login", "success")
	c.ObserveHTTPRequest("GET", "/room/:id", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.roomsCreatedTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.roomJoinsTotal.WithLabelValues("guest")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.roomJoinsTotal.WithLabelValues("audience")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.statusChangesTotal.WithLabelValues("live")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.authEventsTotal.WithLabelValues("login", "success")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.httpRequestDuration))
}

func TestPrometheusCollector_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheusCollector(prometheus.NewRegistry())
		NewPrometheusCollector(prometheus.NewRegistry())
	})
}

func TestHealthChecker(t *testing.T) {
	h := NewHealthChecker()
	h.AddCheck("database", func(ctx context.Context) error { return nil }, time.Second)

	status := h.CheckAll(context.Background())
	assert.True(t, status.Healthy())
	assert.Equal(t, StatusHealthy, status.Checks["database"])

	h.AddCheck("cache", func(ctx context.Context) error { return errors.New("connection refused") }, time.Second)

	status = h.CheckAll(context.Background())
	assert.False(t, status.Healthy())
	assert.Equal(t, StatusHealthy, status.Checks["database"])
	assert.Equal(t, "connection refused", status.Checks["cache"])
}

func TestHealthChecker_Timeout(t *testing.T) {
	h := NewHealthChecker()
	h.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, 10*time.Millisecond)

	status := h.CheckAll(context.Background())
	assert.False(t, status.Healthy())
	assert.Equal(t, context.DeadlineExceeded.Error(), status.Checks["slow"])
}
