package ordering

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/ordering"
	"github.com/canteen/backend/internal/domain/shared"
)

type orderFixture struct {
	service *OrderService
	orders  *fakeOrderRepo
	bus     *recordingBus
	theater *identity.Theater
	table   *ordering.DiningTable
	popcorn *catalog.Product
	cola    *catalog.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	orders := newFakeOrderRepo()
	tables := newFakeTableRepo()
	products := newFakeProductRepo()
	theaters := newFakeTheaterRepo()
	bus := &recordingBus{}

	theater, err := identity.NewTheater("MAIN", "Main Theater Canteen")
	require.NoError(t, err)
	require.NoError(t, theaters.Create(context.Background(), theater))

	table, err := ordering.NewDiningTable(theater.ID, "A1", "Foyer", 4)
	require.NoError(t, err)
	require.NoError(t, tables.Create(context.Background(), table))

	popcorn := newTestProduct(t, theater.ID, "POPCORN", "4.50")
	cola := newTestProduct(t, theater.ID, "COLA", "3.00")
	require.NoError(t, products.Create(context.Background(), popcorn))
	require.NoError(t, products.Create(context.Background(), cola))

	service := NewOrderService(orders, tables, products, theaters, bus, zap.NewNop())
	return &orderFixture{
		service: service,
		orders:  orders,
		bus:     bus,
		theater: theater,
		table:   table,
		popcorn: popcorn,
		cola:    cola,
	}
}

func newTestProduct(t *testing.T, theaterID uuid.UUID, code, price string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(theaterID, code, code, "pcs")
	require.NoError(t, err)
	require.NoError(t, product.SetPrices(decimal.RequireFromString(price), decimal.Zero))
	return product
}

func (f *orderFixture) placeOrder(t *testing.T) *OrderResponse {
	t.Helper()
	resp, err := f.service.PlaceOrder(context.Background(), PlaceOrderRequest{
		QRToken:      f.table.QRToken,
		CustomerName: "Walk-in",
		Items: []OrderItemInput{
			{ProductID: f.popcorn.ID, Quantity: decimal.NewFromInt(2)},
			{ProductID: f.cola.ID, Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)
	return resp
}

func TestPlaceOrderViaQRToken(t *testing.T) {
	f := newOrderFixture(t)

	resp := f.placeOrder(t)
	assert.Equal(t, string(ordering.OrderSourceTable), resp.Source)
	assert.Equal(t, "A1", resp.TableNumber)
	assert.Len(t, resp.Items, 2)
	// 2 * 4.50 + 1 * 3.00
	assert.True(t, decimal.RequireFromString("12.00").Equal(resp.TotalAmount))
	assert.Equal(t, ordering.OrderStatusPending.String(), resp.Status)

	today := time.Now().In(f.theater.Location()).Format("20060102")
	assert.Equal(t, fmt.Sprintf("ORD-%s-0001", today), resp.OrderNumber)
}

func TestOrderNumbersIncrementPerDay(t *testing.T) {
	f := newOrderFixture(t)

	first := f.placeOrder(t)
	second := f.placeOrder(t)
	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
	assert.Contains(t, second.OrderNumber, "-0002")
}

func TestPlaceOrderInvalidToken(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.service.PlaceOrder(context.Background(), PlaceOrderRequest{
		QRToken: "rotated-away",
		Items:   []OrderItemInput{{ProductID: f.popcorn.ID, Quantity: decimal.NewFromInt(1)}},
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_QR_TOKEN", domainErr.Code)
}

func TestPlaceOrderInactiveTable(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.table.Deactivate())

	_, err := f.service.PlaceOrder(context.Background(), PlaceOrderRequest{
		QRToken: f.table.QRToken,
		Items:   []OrderItemInput{{ProductID: f.popcorn.ID, Quantity: decimal.NewFromInt(1)}},
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TABLE_INACTIVE", domainErr.Code)
}

func TestPlaceOrderUnsellableProduct(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.popcorn.Deactivate())

	_, err := f.service.PlaceOrder(context.Background(), PlaceOrderRequest{
		QRToken: f.table.QRToken,
		Items:   []OrderItemInput{{ProductID: f.popcorn.ID, Quantity: decimal.NewFromInt(1)}},
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRODUCT_NOT_SELLABLE", domainErr.Code)
}

func TestConfirmOrderPublishesEvent(t *testing.T) {
	f := newOrderFixture(t)
	placed := f.placeOrder(t)

	confirmed, err := f.service.ConfirmOrder(context.Background(), f.theater.ID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, ordering.OrderStatusConfirmed.String(), confirmed.Status)

	events := f.bus.byType(ordering.EventTypeOrderConfirmed)
	require.Len(t, events, 1)
	assert.Equal(t, placed.ID, events[0].AggregateID())
}

func TestCancelAfterConfirmFlagsStockReturn(t *testing.T) {
	f := newOrderFixture(t)
	placed := f.placeOrder(t)

	_, err := f.service.ConfirmOrder(context.Background(), f.theater.ID, placed.ID)
	require.NoError(t, err)
	_, err = f.service.CancelOrder(context.Background(), f.theater.ID, placed.ID, CancelOrderRequest{
		Reason: "show cancelled",
	})
	require.NoError(t, err)

	events := f.bus.byType(ordering.EventTypeOrderCancelled)
	require.Len(t, events, 1)
	cancelled, ok := events[0].(*ordering.OrderCancelledEvent)
	require.True(t, ok)
	assert.True(t, cancelled.StockDeducted)
}

func TestCancelPendingDoesNotFlagStockReturn(t *testing.T) {
	f := newOrderFixture(t)
	placed := f.placeOrder(t)

	_, err := f.service.CancelOrder(context.Background(), f.theater.ID, placed.ID, CancelOrderRequest{
		Reason: "customer left",
	})
	require.NoError(t, err)

	events := f.bus.byType(ordering.EventTypeOrderCancelled)
	require.Len(t, events, 1)
	cancelled := events[0].(*ordering.OrderCancelledEvent)
	assert.False(t, cancelled.StockDeducted)
}

func TestCompleteRequiresDelivery(t *testing.T) {
	f := newOrderFixture(t)
	placed := f.placeOrder(t)

	_, err := f.service.CompleteOrder(context.Background(), f.theater.ID, placed.ID)
	require.Error(t, err)

	_, err = f.service.ConfirmOrder(context.Background(), f.theater.ID, placed.ID)
	require.NoError(t, err)
	_, err = f.service.StartPreparing(context.Background(), f.theater.ID, placed.ID)
	require.NoError(t, err)
	_, err = f.service.MarkDelivered(context.Background(), f.theater.ID, placed.ID)
	require.NoError(t, err)
	_, err = f.service.PayOrder(context.Background(), f.theater.ID, placed.ID, PayOrderRequest{Method: "CASH"})
	require.NoError(t, err)
	completed, err := f.service.CompleteOrder(context.Background(), f.theater.ID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, ordering.OrderStatusCompleted.String(), completed.Status)
}

func TestPlaceStaffOrderAtCounter(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.service.PlaceStaffOrder(context.Background(), f.theater.ID, StaffOrderRequest{
		Items: []OrderItemInput{{ProductID: f.cola.ID, Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)

	assert.Equal(t, string(ordering.OrderSourceCounter), resp.Source)
	assert.Nil(t, resp.TableID)
	assert.Empty(t, resp.TableNumber)
}

func TestPlaceStaffOrderForTable(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.service.PlaceStaffOrder(context.Background(), f.theater.ID, StaffOrderRequest{
		TableID: &f.table.ID,
		Items:   []OrderItemInput{{ProductID: f.cola.ID, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	assert.Equal(t, string(ordering.OrderSourceTable), resp.Source)
	require.NotNil(t, resp.TableID)
	assert.Equal(t, f.table.ID, *resp.TableID)
	assert.Equal(t, "A1", resp.TableNumber)
}

func TestPayOrder(t *testing.T) {
	f := newOrderFixture(t)
	placed := f.placeOrder(t)

	paid, err := f.service.PayOrder(context.Background(), f.theater.ID, placed.ID, PayOrderRequest{Method: "UPI"})
	require.NoError(t, err)
	assert.Equal(t, "UPI", paid.PaymentMethod)
	require.NotNil(t, paid.PaidAt)

	_, err = f.service.PayOrder(context.Background(), f.theater.ID, placed.ID, PayOrderRequest{Method: "CASH"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_PAID", domainErr.Code)
}

func TestOrderScopedToTheater(t *testing.T) {
	f := newOrderFixture(t)
	placed := f.placeOrder(t)

	_, err := f.service.GetOrder(context.Background(), uuid.New(), placed.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
