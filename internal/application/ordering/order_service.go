package ordering

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/ordering"
	"github.com/canteen/backend/internal/domain/shared"
)

// OrderService handles the order lifecycle from QR checkout to
// completion. Confirm and Cancel publish the events the stock ledger
// listens to.
type OrderService struct {
	orderRepo   ordering.OrderRepository
	tableRepo   ordering.DiningTableRepository
	productRepo catalog.ProductRepository
	theaterRepo identity.TheaterRepository
	eventBus    shared.EventBus
	logger      *zap.Logger
	now         func() time.Time
}

func NewOrderService(
	orderRepo ordering.OrderRepository,
	tableRepo ordering.DiningTableRepository,
	productRepo catalog.ProductRepository,
	theaterRepo identity.TheaterRepository,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		tableRepo:   tableRepo,
		productRepo: productRepo,
		theaterRepo: theaterRepo,
		eventBus:    eventBus,
		logger:      logger,
		now:         time.Now,
	}
}

// PlaceOrder is the customer checkout: the table is resolved from the
// scanned QR token.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*OrderResponse, error) {
	table, err := s.tableRepo.FindByQRToken(ctx, req.QRToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_QR_TOKEN", "This QR code is no longer valid")
	}
	return s.placeOrder(ctx, table.TheaterID, table, req.CustomerName, req.Note, req.Items)
}

// PlaceStaffOrder places an order at the counter. When the request names
// a table the order is served there; without one it is a walk-up sale.
func (s *OrderService) PlaceStaffOrder(ctx context.Context, theaterID uuid.UUID, req StaffOrderRequest) (*OrderResponse, error) {
	var table *ordering.DiningTable
	if req.TableID != nil {
		found, err := s.tableRepo.FindByID(ctx, *req.TableID)
		if err != nil {
			return nil, err
		}
		if found.TheaterID != theaterID {
			return nil, shared.ErrNotFound
		}
		table = found
	}
	return s.placeOrder(ctx, theaterID, table, req.CustomerName, req.Note, req.Items)
}

func (s *OrderService) placeOrder(ctx context.Context, theaterID uuid.UUID, table *ordering.DiningTable, customerName, note string, items []OrderItemInput) (*OrderResponse, error) {
	if table != nil && !table.IsActive() {
		return nil, shared.NewDomainError("TABLE_INACTIVE", "This table is not accepting orders")
	}

	theater, err := s.theaterRepo.FindByID(ctx, theaterID)
	if err != nil {
		return nil, err
	}
	if !theater.IsActive() {
		return nil, shared.NewDomainError("THEATER_INACTIVE", "This canteen is currently closed")
	}

	orderNumber, err := s.nextOrderNumber(ctx, theater)
	if err != nil {
		return nil, err
	}

	var order *ordering.Order
	if table != nil {
		order, err = ordering.NewOrder(theater.ID, orderNumber, table.ID, table.Number)
	} else {
		order, err = ordering.NewCounterOrder(theater.ID, orderNumber)
	}
	if err != nil {
		return nil, err
	}
	if customerName != "" {
		if err := order.SetCustomerName(customerName); err != nil {
			return nil, err
		}
	}
	if note != "" {
		if err := order.SetNote(note); err != nil {
			return nil, err
		}
	}

	if err := s.addItems(ctx, order, theater.ID, items); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	s.logger.Info("order placed",
		zap.String("theater_id", theater.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("source", string(order.Source)),
		zap.String("table", order.TableNumber),
		zap.Int("items", order.ItemCount()),
	)
	return ToOrderResponse(order), nil
}

// addItems snapshots product name, code, unit and price onto the order
// so later catalog edits do not rewrite order history.
func (s *OrderService) addItems(ctx context.Context, order *ordering.Order, theaterID uuid.UUID, items []OrderItemInput) error {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok || product.TheaterID != theaterID {
			return shared.NewDomainError("PRODUCT_NOT_FOUND", "One or more products do not exist")
		}
		if !product.IsSellable() {
			return shared.NewDomainError("PRODUCT_NOT_SELLABLE",
				fmt.Sprintf("%q is not available right now", product.Name))
		}
		orderItem, err := order.AddItem(product.ID, product.Name, product.Code, product.Unit, item.Quantity, product.Price)
		if err != nil {
			return err
		}
		if item.Note != "" {
			if err := orderItem.SetNote(item.Note); err != nil {
				return err
			}
		}
	}
	return nil
}

// nextOrderNumber builds PREFIX-YYYYMMDD-NNNN, numbered per theater per
// local day.
func (s *OrderService) nextOrderNumber(ctx context.Context, theater *identity.Theater) (string, error) {
	localNow := s.now().In(theater.Location())
	count, err := s.orderRepo.CountByDate(ctx, theater.ID, localNow)
	if err != nil {
		return "", err
	}
	prefix := theater.Config.OrderNumberPrefix
	if prefix == "" {
		prefix = "ORD"
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, localNow.Format("20060102"), count+1), nil
}

// GetOrder returns a single order scoped to the theater.
func (s *OrderService) GetOrder(ctx context.Context, theaterID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.findScoped(ctx, theaterID, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// GetOrderByNumber looks an order up by its human-readable number.
func (s *OrderService) GetOrderByNumber(ctx context.Context, theaterID uuid.UUID, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByNumber(ctx, theaterID, orderNumber)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// ListOrders returns a page of orders matching the filter.
func (s *OrderService) ListOrders(ctx context.Context, theaterID uuid.UUID, filter ordering.OrderFilter) ([]*OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, theaterID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]*OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = ToOrderResponse(order)
	}
	return responses, total, nil
}

// ListOpenByTable returns the non-terminal orders of one table, used by
// the kitchen display.
func (s *OrderService) ListOpenByTable(ctx context.Context, theaterID, tableID uuid.UUID) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindOpenByTable(ctx, theaterID, tableID)
	if err != nil {
		return nil, err
	}
	responses := make([]*OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = ToOrderResponse(order)
	}
	return responses, nil
}

// ConfirmOrder accepts a pending order. The published event deducts the
// sold quantities from the stock ledger.
func (s *OrderService) ConfirmOrder(ctx context.Context, theaterID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, theaterID, orderID, (*ordering.Order).Confirm)
}

// StartPreparing moves a confirmed order into the kitchen.
func (s *OrderService) StartPreparing(ctx context.Context, theaterID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, theaterID, orderID, (*ordering.Order).StartPreparing)
}

// MarkDelivered records that the order reached the table.
func (s *OrderService) MarkDelivered(ctx context.Context, theaterID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, theaterID, orderID, (*ordering.Order).MarkDelivered)
}

// PayOrder records a cash or UPI settlement on the order.
func (s *OrderService) PayOrder(ctx context.Context, theaterID, orderID uuid.UUID, req PayOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, theaterID, orderID, func(order *ordering.Order) error {
		return order.MarkPaid(ordering.PaymentMethod(req.Method))
	})
}

// CompleteOrder closes a delivered order after payment.
func (s *OrderService) CompleteOrder(ctx context.Context, theaterID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, theaterID, orderID, (*ordering.Order).Complete)
}

// CancelOrder cancels a non-terminal order. If stock was already
// deducted, the published event books RETURNED entries.
func (s *OrderService) CancelOrder(ctx context.Context, theaterID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, theaterID, orderID, func(order *ordering.Order) error {
		return order.Cancel(req.Reason)
	})
}

func (s *OrderService) transition(ctx context.Context, theaterID, orderID uuid.UUID, op func(*ordering.Order) error) (*OrderResponse, error) {
	order, err := s.findScoped(ctx, theaterID, orderID)
	if err != nil {
		return nil, err
	}
	if err := op(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	s.logger.Info("order status changed",
		zap.String("theater_id", theaterID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status.String()),
	)
	return ToOrderResponse(order), nil
}

// publishEvents flushes pending domain events. Handler failures are
// logged by the bus; the state change is already persisted.
func (s *OrderService) publishEvents(ctx context.Context, order *ordering.Order) {
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("publish order events",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
	}
	order.ClearDomainEvents()
}

func (s *OrderService) findScoped(ctx context.Context, theaterID, orderID uuid.UUID) (*ordering.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.TheaterID != theaterID {
		return nil, shared.ErrNotFound
	}
	return order, nil
}
