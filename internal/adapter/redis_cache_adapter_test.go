package adapter

import (
	"context"
	"testing"
	"time"

	"quizforge/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	t.Run("returns the cached value", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		cache := NewRedisCacheAdapter(client)

		mock.ExpectGet("quizforge:quiz:acme:q1").SetVal(`{"id":"q1"}`)

		val, err := cache.Get(context.Background(), "quizforge:quiz:acme:q1")
		require.NoError(t, err)
		assert.Equal(t, `{"id":"q1"}`, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps redis.Nil to ErrCacheMiss", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		cache := NewRedisCacheAdapter(client)

		mock.ExpectGet("missing").RedisNil()

		_, err := cache.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})
}

func TestRedisCacheAdapter_SetAndDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectSet("k", "v", time.Minute).SetVal("OK")
	require.NoError(t, cache.Set(context.Background(), "k", "v", time.Minute))

	mock.ExpectDel("k").SetVal(1)
	require.NoError(t, cache.Delete(context.Background(), "k"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
