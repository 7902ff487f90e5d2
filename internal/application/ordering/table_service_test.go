package ordering

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/ordering"
	"github.com/canteen/backend/internal/domain/shared"
)

func newTableFixture() (*TableService, *fakeOrderRepo, uuid.UUID) {
	tables := newFakeTableRepo()
	orders := newFakeOrderRepo()
	service := NewTableService(tables, orders, "https://canteen.example.com/", zap.NewNop())
	return service, orders, uuid.New()
}

func TestCreateTableIssuesToken(t *testing.T) {
	service, _, theaterID := newTableFixture()

	resp, err := service.CreateTable(context.Background(), theaterID, CreateTableRequest{
		Number: "A1", Zone: "Foyer", Seats: 4,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.QRToken)
	assert.Equal(t, "https://canteen.example.com/menu?table="+resp.QRToken, resp.OrderingURL)
}

func TestCreateTableDuplicateNumber(t *testing.T) {
	service, _, theaterID := newTableFixture()

	_, err := service.CreateTable(context.Background(), theaterID, CreateTableRequest{Number: "A1"})
	require.NoError(t, err)

	_, err = service.CreateTable(context.Background(), theaterID, CreateTableRequest{Number: "A1"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TABLE_NUMBER_EXISTS", domainErr.Code)
}

func TestRotateTokenChangesOrderingURL(t *testing.T) {
	service, _, theaterID := newTableFixture()

	created, err := service.CreateTable(context.Background(), theaterID, CreateTableRequest{Number: "A1"})
	require.NoError(t, err)

	rotated, err := service.RotateToken(context.Background(), theaterID, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, created.QRToken, rotated.QRToken)
	assert.NotEqual(t, created.OrderingURL, rotated.OrderingURL)
}

func TestResolveQRToken(t *testing.T) {
	service, _, theaterID := newTableFixture()

	created, err := service.CreateTable(context.Background(), theaterID, CreateTableRequest{Number: "A1"})
	require.NoError(t, err)

	resolved, err := service.ResolveQRToken(context.Background(), created.QRToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)
	assert.Equal(t, theaterID, resolved.TheaterID)
}

func TestResolveQRTokenRejectsUnknownAndInactive(t *testing.T) {
	service, _, theaterID := newTableFixture()

	_, err := service.ResolveQRToken(context.Background(), "bogus-token")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_QR_TOKEN", domainErr.Code)

	created, err := service.CreateTable(context.Background(), theaterID, CreateTableRequest{Number: "A2"})
	require.NoError(t, err)
	require.NoError(t, service.DeactivateTable(context.Background(), theaterID, created.ID))

	_, err = service.ResolveQRToken(context.Background(), created.QRToken)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_QR_TOKEN", domainErr.Code)
}

func TestRenderQRCodeProducesPNG(t *testing.T) {
	service, _, theaterID := newTableFixture()

	created, err := service.CreateTable(context.Background(), theaterID, CreateTableRequest{Number: "A1"})
	require.NoError(t, err)

	png, err := service.RenderQRCode(context.Background(), theaterID, created.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestDeleteTableWithOpenOrdersRejected(t *testing.T) {
	service, orders, theaterID := newTableFixture()

	created, err := service.CreateTable(context.Background(), theaterID, CreateTableRequest{Number: "A1"})
	require.NoError(t, err)

	order, err := ordering.NewOrder(theaterID, "ORD-20260831-0001", created.ID, "A1")
	require.NoError(t, err)
	require.NoError(t, orders.Create(context.Background(), order))

	err = service.DeleteTable(context.Background(), theaterID, created.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TABLE_HAS_OPEN_ORDERS", domainErr.Code)
}
