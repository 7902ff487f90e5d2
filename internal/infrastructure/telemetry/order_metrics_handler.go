package telemetry

import (
	"context"

	"github.com/canteen/backend/internal/domain/ordering"
	"github.com/canteen/backend/internal/domain/shared"
)

// OrderMetricsHandler feeds business metrics from order lifecycle events,
// keeping instrumentation out of the ordering services themselves.
type OrderMetricsHandler struct {
	metrics *BusinessMetrics
}

// NewOrderMetricsHandler creates a new order metrics handler.
func NewOrderMetricsHandler(metrics *BusinessMetrics) *OrderMetricsHandler {
	return &OrderMetricsHandler{metrics: metrics}
}

// EventTypes returns the order events the metrics handler subscribes to.
func (h *OrderMetricsHandler) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderCreated,
		ordering.EventTypeOrderStatusChanged,
		ordering.EventTypeOrderCompleted,
		ordering.EventTypeOrderCancelled,
	}
}

// Handle records the metric matching a single order event.
func (h *OrderMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ordering.OrderCreatedEvent:
		h.metrics.RecordOrderPlaced(ctx, e.TheaterID(), string(e.Source))
	case *ordering.OrderStatusChangedEvent:
		h.metrics.RecordOrderTransition(ctx, e.TheaterID(), string(e.NewStatus))
	case *ordering.OrderCompletedEvent:
		h.metrics.RecordOrderCompleted(ctx, e.TheaterID(), e.TotalAmount)
	case *ordering.OrderCancelledEvent:
		h.metrics.RecordOrderCancelled(ctx, e.TheaterID())
	}
	return nil
}

var _ shared.EventHandler = (*OrderMetricsHandler)(nil)
