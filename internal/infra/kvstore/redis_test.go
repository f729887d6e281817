//go:build unit

package kvstore_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront-core/internal/infra/kvstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*kvstore.RedisKeyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return kvstore.NewRedisKeyStore(client, "test:"), mr
}

func TestRedisKeyStore_SetGetDelete(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	_, found, err := store.GetKey(ctx, "payment:o:u")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetKey(ctx, "payment:o:u", `{"id":"p1"}`, 10*time.Minute))
	assert.True(t, mr.Exists("test:payment:o:u"), "key is stored under the prefix")
	assert.Equal(t, 10*time.Minute, mr.TTL("test:payment:o:u"))

	v, found, err := store.GetKey(ctx, "payment:o:u")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":"p1"}`, v)

	require.NoError(t, store.DeleteKey(ctx, "payment:o:u"))
	_, found, err = store.GetKey(ctx, "payment:o:u")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisKeyStore_Expiry(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetKey(ctx, "topup:pi_1", "x", time.Hour))
	mr.FastForward(time.Hour + time.Second)

	_, found, err := store.GetKey(ctx, "topup:pi_1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisKeyStore_TakeKeyIsConsumedOnce(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetKey(ctx, "topup:pi_1", "pending", time.Hour))

	var (
		wg    sync.WaitGroup
		taken atomic.Int32
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, found, err := store.TakeKey(ctx, "topup:pi_1")
			if err == nil && found {
				taken.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), taken.Load())
	_, found, err := store.GetKey(ctx, "topup:pi_1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisKeyStore_ConnectionFailure(t *testing.T) {
	store, mr := setupStore(t)
	mr.Close()

	_, _, err := store.GetKey(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, store.SetKey(context.Background(), "k", "v", time.Minute))
}
