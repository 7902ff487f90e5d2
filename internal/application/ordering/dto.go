package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/canteen/backend/internal/domain/ordering"
)

// CreateTableRequest registers a dining table.
type CreateTableRequest struct {
	Number   string `json:"number" binding:"required,min=1,max=20"`
	Zone     string `json:"zone" binding:"max=50"`
	Seats    int    `json:"seats" binding:"gte=0"`
	Comments string `json:"comments" binding:"max=500"`
}

// UpdateTableRequest is a partial table update.
type UpdateTableRequest struct {
	Number   *string `json:"number" binding:"omitempty,min=1,max=20"`
	Zone     *string `json:"zone" binding:"omitempty,max=50"`
	Seats    *int    `json:"seats" binding:"omitempty,gte=0"`
	Comments *string `json:"comments" binding:"omitempty,max=500"`
}

// TableResponse is the API shape of a dining table.
type TableResponse struct {
	ID          uuid.UUID `json:"id"`
	TheaterID   uuid.UUID `json:"theater_id"`
	Number      string    `json:"number"`
	Zone        string    `json:"zone"`
	Seats       int       `json:"seats"`
	QRToken     string    `json:"qr_token"`
	OrderingURL string    `json:"ordering_url"`
	Status      string    `json:"status"`
	Comments    string    `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// OrderItemInput is one line of a placed or amended order.
type OrderItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Note      string          `json:"note" binding:"max=500"`
}

// PlaceOrderRequest is the customer checkout payload. The table is
// identified by the QR token scanned from its code.
type PlaceOrderRequest struct {
	QRToken      string           `json:"qr_token" binding:"required"`
	CustomerName string           `json:"customer_name" binding:"max=100"`
	Note         string           `json:"note" binding:"max=500"`
	Items        []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// StaffOrderRequest places an order at the counter. Without a table ID
// the order is a walk-up counter sale.
type StaffOrderRequest struct {
	TableID      *uuid.UUID       `json:"table_id" binding:"omitempty"`
	CustomerName string           `json:"customer_name" binding:"max=100"`
	Note         string           `json:"note" binding:"max=500"`
	Items        []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// PayOrderRequest records how an order was settled.
type PayOrderRequest struct {
	Method string `json:"method" binding:"required,oneof=CASH UPI"`
}

// CancelOrderRequest carries the cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderItemResponse is one line of an order.
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Note        string          `json:"note,omitempty"`
}

// OrderResponse is the API shape of an order.
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	TheaterID     uuid.UUID           `json:"theater_id"`
	OrderNumber   string              `json:"order_number"`
	Source        string              `json:"source"`
	TableID       *uuid.UUID          `json:"table_id,omitempty"`
	TableNumber   string              `json:"table_number,omitempty"`
	CustomerName  string              `json:"customer_name"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	Note          string              `json:"note,omitempty"`
	ConfirmedAt   *time.Time          `json:"confirmed_at,omitempty"`
	DeliveredAt   *time.Time          `json:"delivered_at,omitempty"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	CancelledAt   *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason  string              `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Version       int                 `json:"version"`
}

func ToOrderResponse(order *ordering.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Amount,
			Note:        item.Note,
		}
	}
	return &OrderResponse{
		ID:            order.ID,
		TheaterID:     order.TheaterID,
		OrderNumber:   order.OrderNumber,
		Source:        string(order.Source),
		TableID:       order.TableID,
		TableNumber:   order.TableNumber,
		CustomerName:  order.CustomerName,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status.String(),
		PaymentMethod: string(order.PaymentMethod),
		PaidAt:        order.PaidAt,
		Note:          order.Note,
		ConfirmedAt:   order.ConfirmedAt,
		DeliveredAt:   order.DeliveredAt,
		CompletedAt:   order.CompletedAt,
		CancelledAt:   order.CancelledAt,
		CancelReason:  order.CancelReason,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Version:       order.Version,
	}
}
