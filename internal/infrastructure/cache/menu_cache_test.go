package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryMenuCache(t *testing.T) {
	c := NewInMemoryMenuCache()
	ctx := context.Background()
	theaterID := uuid.New()

	t.Run("miss returns nil without error", func(t *testing.T) {
		payload, err := c.Get(ctx, theaterID)
		require.NoError(t, err)
		assert.Nil(t, payload)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, theaterID, []byte(`{"items":[]}`), time.Minute))
		payload, err := c.Get(ctx, theaterID)
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"items":[]}`), payload)
	})

	t.Run("theaters are isolated", func(t *testing.T) {
		payload, err := c.Get(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, payload)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		require.NoError(t, c.Invalidate(ctx, theaterID))
		payload, err := c.Get(ctx, theaterID)
		require.NoError(t, err)
		assert.Nil(t, payload)
	})

	t.Run("expired entries miss", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, theaterID, []byte("stale"), -time.Second))
		payload, err := c.Get(ctx, theaterID)
		require.NoError(t, err)
		assert.Nil(t, payload)
	})
}
