package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"

	"github.com/canteen/backend/internal/domain/ordering"
	"github.com/canteen/backend/internal/infrastructure/telemetry"
)

func TestMeterProviderDisabled(t *testing.T) {
	logger := zaptest.NewLogger(t)

	mp, err := telemetry.NewMeterProvider(t.Context(), telemetry.MetricsConfig{
		Enabled:     false,
		ServiceName: "canteen-test",
	}, logger)
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.ForceFlush(t.Context()))
	assert.NoError(t, mp.Shutdown(t.Context()))
}

func TestTracerProviderDisabled(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tp, err := telemetry.NewTracerProvider(t.Context(), telemetry.TracingConfig{
		Enabled:     false,
		ServiceName: "canteen-test",
	}, logger)
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(t.Context()))
	assert.Empty(t, telemetry.TraceID(t.Context()))
}

// testMeter builds a meter backed by a manual reader so recorded values can
// be asserted without an exporter.
func testMeter(t *testing.T) (*sdkmetric.ManualReader, *telemetry.BusinessMetrics) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := telemetry.NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return reader, bm
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestBusinessMetricsRecords(t *testing.T) {
	reader, bm := testMeter(t)
	theaterID := uuid.New()

	bm.RecordOrderPlaced(t.Context(), theaterID, string(ordering.OrderSourceTable))
	bm.RecordOrderPlaced(t.Context(), theaterID, string(ordering.OrderSourceCounter))
	bm.RecordOrderCompleted(t.Context(), theaterID, decimal.NewFromFloat(12.50))

	assert.Equal(t, int64(2), collectSum(t, reader, "canteen_orders_placed_total"))
	assert.Equal(t, int64(1250), collectSum(t, reader, "canteen_order_revenue_cents_total"))
}

func TestOrderMetricsHandler(t *testing.T) {
	reader, bm := testMeter(t)
	handler := telemetry.NewOrderMetricsHandler(bm)

	assert.Contains(t, handler.EventTypes(), ordering.EventTypeOrderCreated)

	theaterID := uuid.New()
	order, err := ordering.NewOrder(theaterID, "ORD-20260115-0001", uuid.New(), "A1")
	require.NoError(t, err)

	require.NoError(t, handler.Handle(t.Context(), ordering.NewOrderCreatedEvent(order)))
	require.NoError(t, handler.Handle(t.Context(), ordering.NewOrderCancelledEvent(order, false)))

	assert.Equal(t, int64(1), collectSum(t, reader, "canteen_orders_placed_total"))
	assert.Equal(t, int64(1), collectSum(t, reader, "canteen_orders_cancelled_total"))

	// Events the handler does not subscribe to are ignored without error.
	table, err := ordering.NewDiningTable(theaterID, "A1", "Foyer", 4)
	require.NoError(t, err)
	require.NoError(t, handler.Handle(t.Context(), ordering.NewDiningTableCreatedEvent(table)))
}

func TestMeterHelpersRecordDuration(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	meter := provider.Meter("test")

	hist, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "test_duration_seconds",
		Description: "test",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	require.NoError(t, err)
	hist.RecordDuration(t.Context(), 30*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == "test_duration_seconds" {
				found = true
			}
		}
	}
	assert.True(t, found)
}
