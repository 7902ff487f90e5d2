package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"

	"github.com/google/uuid"
)

// BusinessMetrics tracks canteen-level indicators: how many orders come in,
// how much revenue completed orders close, and how orders move through the
// kitchen workflow.
type BusinessMetrics struct {
	ordersPlaced     *Counter
	orderTransitions *Counter
	ordersCancelled  *Counter
	revenueCents     *Counter
	orderValue       *Histogram
}

// NewBusinessMetrics creates all business metric instruments on the meter.
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	bm := &BusinessMetrics{}

	var err error
	bm.ordersPlaced, err = NewCounter(meter,
		"canteen_orders_placed_total",
		"Total number of orders placed",
		"{order}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderTransitions, err = NewCounter(meter,
		"canteen_order_transitions_total",
		"Order lifecycle transitions by resulting status",
		"{transition}",
	)
	if err != nil {
		return nil, err
	}

	bm.ordersCancelled, err = NewCounter(meter,
		"canteen_orders_cancelled_total",
		"Total number of cancelled orders",
		"{order}",
	)
	if err != nil {
		return nil, err
	}

	bm.revenueCents, err = NewCounter(meter,
		"canteen_order_revenue_cents_total",
		"Revenue of completed orders in cents",
		"{cent}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderValue, err = NewHistogram(meter, HistogramOpts{
		Name:        "canteen_order_value",
		Description: "Value distribution of completed orders",
		Unit:        "{currency_unit}",
		Boundaries:  []float64{1, 2.5, 5, 10, 20, 50, 100, 250},
	})
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordOrderPlaced counts a newly placed order by its source channel.
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, theaterID uuid.UUID, source string) {
	bm.ordersPlaced.Inc(ctx,
		AttrTheaterID.String(theaterID.String()),
		AttrOrderSource.String(source),
	)
}

// RecordOrderTransition counts a lifecycle transition by resulting status.
func (bm *BusinessMetrics) RecordOrderTransition(ctx context.Context, theaterID uuid.UUID, status string) {
	bm.orderTransitions.Inc(ctx,
		AttrTheaterID.String(theaterID.String()),
		AttrOrderStatus.String(status),
	)
}

// RecordOrderCancelled counts a cancelled order.
func (bm *BusinessMetrics) RecordOrderCancelled(ctx context.Context, theaterID uuid.UUID) {
	bm.ordersCancelled.Inc(ctx, AttrTheaterID.String(theaterID.String()))
}

// RecordOrderCompleted records revenue for a completed order.
func (bm *BusinessMetrics) RecordOrderCompleted(ctx context.Context, theaterID uuid.UUID, total decimal.Decimal) {
	attrs := AttrTheaterID.String(theaterID.String())
	bm.revenueCents.Add(ctx, total.Mul(decimal.NewFromInt(100)).IntPart(), attrs)
	bm.orderValue.Record(ctx, total.InexactFloat64(), attrs)
}
