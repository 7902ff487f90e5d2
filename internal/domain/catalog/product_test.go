package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	theaterID := uuid.New()

	t.Run("creates active product", func(t *testing.T) {
		product, err := NewProduct(theaterID, "cola-05", "Cola 0.5l", "pcs")
		require.NoError(t, err)

		assert.Equal(t, "COLA-05", product.Code)
		assert.Equal(t, "Cola 0.5l", product.Name)
		assert.Equal(t, "pcs", product.Unit)
		assert.True(t, product.Price.IsZero())
		assert.True(t, product.IsSellable())
		assert.False(t, product.IsPerishable())
	})

	t.Run("rejects empty unit", func(t *testing.T) {
		_, err := NewProduct(theaterID, "COLA", "Cola", "")
		require.Error(t, err)
	})

	t.Run("rejects invalid code", func(t *testing.T) {
		_, err := NewProduct(theaterID, "cola 0.5", "Cola", "pcs")
		require.Error(t, err)
	})
}

func TestProductPrices(t *testing.T) {
	product, err := NewProduct(uuid.New(), "COLA", "Cola", "pcs")
	require.NoError(t, err)

	t.Run("set prices", func(t *testing.T) {
		require.NoError(t, product.SetPrices(decimal.RequireFromString("3.50"), decimal.RequireFromString("1.20")))
		assert.True(t, product.Price.Equal(decimal.RequireFromString("3.50")))
		assert.True(t, product.CostPrice.Equal(decimal.RequireFromString("1.20")))
	})

	t.Run("negative price fails", func(t *testing.T) {
		require.Error(t, product.SetPrices(decimal.RequireFromString("-1"), decimal.Zero))
	})

	t.Run("price change publishes event", func(t *testing.T) {
		product.ClearDomainEvents()
		require.NoError(t, product.SetPrices(decimal.RequireFromString("4.00"), decimal.RequireFromString("1.20")))

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductPriceChanged, events[0].EventType())
	})
}

func TestProductShelfLife(t *testing.T) {
	product, err := NewProduct(uuid.New(), "SANDWICH", "Club Sandwich", "pcs")
	require.NoError(t, err)

	t.Run("non-perishable has no suggested expiry", func(t *testing.T) {
		assert.Nil(t, product.SuggestedExpiry(time.Now()))
	})

	t.Run("shelf life yields expiry date", func(t *testing.T) {
		require.NoError(t, product.SetShelfLife(3))
		received := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

		expiry := product.SuggestedExpiry(received)
		require.NotNil(t, expiry)
		assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), *expiry)
	})

	t.Run("negative shelf life fails", func(t *testing.T) {
		require.Error(t, product.SetShelfLife(-1))
	})
}

func TestProductThreshold(t *testing.T) {
	product, err := NewProduct(uuid.New(), "COLA", "Cola", "pcs")
	require.NoError(t, err)

	require.NoError(t, product.SetMinThreshold(decimal.RequireFromString("10")))
	assert.True(t, product.MinThreshold.Equal(decimal.RequireFromString("10")))

	require.Error(t, product.SetMinThreshold(decimal.RequireFromString("-1")))
}

func TestProductStatus(t *testing.T) {
	t.Run("deactivate and reactivate", func(t *testing.T) {
		product, err := NewProduct(uuid.New(), "COLA", "Cola", "pcs")
		require.NoError(t, err)

		require.NoError(t, product.Deactivate())
		assert.False(t, product.IsSellable())

		require.NoError(t, product.Activate())
		assert.True(t, product.IsSellable())
	})

	t.Run("discontinued is terminal", func(t *testing.T) {
		product, err := NewProduct(uuid.New(), "COLA", "Cola", "pcs")
		require.NoError(t, err)

		require.NoError(t, product.Discontinue())
		assert.False(t, product.IsSellable())
		require.Error(t, product.Activate())
		require.Error(t, product.Deactivate())
		require.Error(t, product.Discontinue())
	})
}
