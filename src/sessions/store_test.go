package sessions

import (
	"context"
	"os"
	"testing"
	"time"

	redis_utils "finance/src/utils/redis"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("Create and Get", func(t *testing.T) {
		id, err := store.Create(ctx, 42, time.Hour)
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		accountID, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(42), accountID)
	})

	t.Run("ids are unique", func(t *testing.T) {
		a, err := store.Create(ctx, 1, time.Hour)
		require.NoError(t, err)
		b, err := store.Create(ctx, 1, time.Hour)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("Delete", func(t *testing.T) {
		id, err := store.Create(ctx, 7, time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, id))

		_, err = store.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())

	t.Run("expired sessions are gone", func(t *testing.T) {
		ctx := context.Background()
		store := NewMemoryStore().(*memoryStore)
		now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return now }

		id, err := store.Create(ctx, 1, time.Minute)
		require.NoError(t, err)

		now = now.Add(59 * time.Second)
		_, err = store.Get(ctx, id)
		require.NoError(t, err)

		now = now.Add(2 * time.Second)
		_, err = store.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	handler := redis_utils.NewRedisHandlerFromClient(client)
	defer handler.Close()

	testStore(t, NewRedisStore(handler))
}
