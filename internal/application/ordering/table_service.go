package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/ordering"
	"github.com/canteen/backend/internal/domain/shared"
)

// qrImageSize is the edge length in pixels of rendered QR codes.
const qrImageSize = 512

// TableService manages dining tables and their QR ordering codes.
type TableService struct {
	tableRepo ordering.DiningTableRepository
	orderRepo ordering.OrderRepository
	baseURL   string
	logger    *zap.Logger
}

func NewTableService(
	tableRepo ordering.DiningTableRepository,
	orderRepo ordering.OrderRepository,
	baseURL string,
	logger *zap.Logger,
) *TableService {
	return &TableService{
		tableRepo: tableRepo,
		orderRepo: orderRepo,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// CreateTable registers a dining table and issues its QR token.
func (s *TableService) CreateTable(ctx context.Context, theaterID uuid.UUID, req CreateTableRequest) (*TableResponse, error) {
	exists, err := s.tableRepo.ExistsByNumber(ctx, theaterID, req.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("TABLE_NUMBER_EXISTS", "A table with this number already exists")
	}

	table, err := ordering.NewDiningTable(theaterID, req.Number, req.Zone, req.Seats)
	if err != nil {
		return nil, err
	}
	if req.Comments != "" {
		if err := table.SetComments(req.Comments); err != nil {
			return nil, err
		}
	}

	if err := s.tableRepo.Create(ctx, table); err != nil {
		return nil, err
	}

	s.logger.Info("dining table created",
		zap.String("theater_id", theaterID.String()),
		zap.String("number", table.Number),
	)
	return s.toResponse(table), nil
}

// GetTable returns a single table scoped to the theater.
func (s *TableService) GetTable(ctx context.Context, theaterID, tableID uuid.UUID) (*TableResponse, error) {
	table, err := s.findScoped(ctx, theaterID, tableID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(table), nil
}

// ListTables returns every table of the theater ordered by zone and
// number.
func (s *TableService) ListTables(ctx context.Context, theaterID uuid.UUID) ([]*TableResponse, error) {
	tables, err := s.tableRepo.FindAll(ctx, theaterID)
	if err != nil {
		return nil, err
	}
	responses := make([]*TableResponse, len(tables))
	for i, table := range tables {
		responses[i] = s.toResponse(table)
	}
	return responses, nil
}

// UpdateTable applies a partial update.
func (s *TableService) UpdateTable(ctx context.Context, theaterID, tableID uuid.UUID, req UpdateTableRequest) (*TableResponse, error) {
	table, err := s.findScoped(ctx, theaterID, tableID)
	if err != nil {
		return nil, err
	}

	number := table.Number
	if req.Number != nil && *req.Number != table.Number {
		exists, err := s.tableRepo.ExistsByNumber(ctx, theaterID, *req.Number)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("TABLE_NUMBER_EXISTS", "A table with this number already exists")
		}
		number = *req.Number
	}
	zone := table.Zone
	if req.Zone != nil {
		zone = *req.Zone
	}
	seats := table.Seats
	if req.Seats != nil {
		seats = *req.Seats
	}
	if err := table.Update(number, zone, seats); err != nil {
		return nil, err
	}
	if req.Comments != nil {
		if err := table.SetComments(*req.Comments); err != nil {
			return nil, err
		}
	}

	if err := s.tableRepo.Update(ctx, table); err != nil {
		return nil, err
	}
	return s.toResponse(table), nil
}

// RotateToken issues a fresh QR token, invalidating printed codes.
func (s *TableService) RotateToken(ctx context.Context, theaterID, tableID uuid.UUID) (*TableResponse, error) {
	table, err := s.findScoped(ctx, theaterID, tableID)
	if err != nil {
		return nil, err
	}
	if err := table.RotateQRToken(); err != nil {
		return nil, err
	}
	if err := s.tableRepo.Update(ctx, table); err != nil {
		return nil, err
	}

	s.logger.Info("table token rotated",
		zap.String("theater_id", theaterID.String()),
		zap.String("number", table.Number),
	)
	return s.toResponse(table), nil
}

// ActivateTable reopens the table for ordering.
func (s *TableService) ActivateTable(ctx context.Context, theaterID, tableID uuid.UUID) error {
	return s.transition(ctx, theaterID, tableID, (*ordering.DiningTable).Activate)
}

// DeactivateTable blocks new orders from the table.
func (s *TableService) DeactivateTable(ctx context.Context, theaterID, tableID uuid.UUID) error {
	return s.transition(ctx, theaterID, tableID, (*ordering.DiningTable).Deactivate)
}

// DeleteTable removes a table that has no open orders.
func (s *TableService) DeleteTable(ctx context.Context, theaterID, tableID uuid.UUID) error {
	table, err := s.findScoped(ctx, theaterID, tableID)
	if err != nil {
		return err
	}

	open, err := s.orderRepo.FindOpenByTable(ctx, theaterID, table.ID)
	if err != nil {
		return err
	}
	if len(open) > 0 {
		return shared.NewDomainError("TABLE_HAS_OPEN_ORDERS", "Table still has open orders")
	}

	return s.tableRepo.Delete(ctx, table.ID)
}

// ResolveQRToken resolves a scanned QR token to its table. Unknown and
// inactive tables both report an invalid code so tokens cannot be probed.
func (s *TableService) ResolveQRToken(ctx context.Context, token string) (*TableResponse, error) {
	table, err := s.tableRepo.FindByQRToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_QR_TOKEN", "This QR code is no longer valid")
		}
		return nil, err
	}
	if !table.IsActive() {
		return nil, shared.NewDomainError("INVALID_QR_TOKEN", "This QR code is no longer valid")
	}
	return s.toResponse(table), nil
}

// RenderQRCode renders the table's ordering URL as a PNG image.
func (s *TableService) RenderQRCode(ctx context.Context, theaterID, tableID uuid.UUID) ([]byte, error) {
	table, err := s.findScoped(ctx, theaterID, tableID)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(s.orderingURL(table.QRToken), qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// orderingURL is the link customers land on after scanning the code.
func (s *TableService) orderingURL(token string) string {
	return fmt.Sprintf("%s/menu?table=%s", s.baseURL, token)
}

func (s *TableService) toResponse(table *ordering.DiningTable) *TableResponse {
	return &TableResponse{
		ID:          table.ID,
		TheaterID:   table.TheaterID,
		Number:      table.Number,
		Zone:        table.Zone,
		Seats:       table.Seats,
		QRToken:     table.QRToken,
		OrderingURL: s.orderingURL(table.QRToken),
		Status:      string(table.Status),
		Comments:    table.Comments,
		CreatedAt:   table.CreatedAt,
		UpdatedAt:   table.UpdatedAt,
		Version:     table.Version,
	}
}

func (s *TableService) transition(ctx context.Context, theaterID, tableID uuid.UUID, op func(*ordering.DiningTable) error) error {
	table, err := s.findScoped(ctx, theaterID, tableID)
	if err != nil {
		return err
	}
	if err := op(table); err != nil {
		return err
	}
	return s.tableRepo.Update(ctx, table)
}

func (s *TableService) findScoped(ctx context.Context, theaterID, tableID uuid.UUID) (*ordering.DiningTable, error) {
	table, err := s.tableRepo.FindByID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if table.TheaterID != theaterID {
		return nil, shared.ErrNotFound
	}
	return table, nil
}
