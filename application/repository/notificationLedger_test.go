package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rollcall.io/infrastructure/database/repository/cache"
)

var morning = time.Date(2025, time.May, 5, 8, 0, 0, 0, time.UTC)

func newRedisLedger(t *testing.T) (*redisNotificationLedger, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return &redisNotificationLedger{cache: &cache.RedisRepository{Client: client}}, server
}

func testLedgerClaims(t *testing.T, ledger NotificationLedger) {
	ctx := context.Background()

	claimed, err := ledger.Claim(ctx, "p1", morning)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = ledger.Claim(ctx, "p1", morning.Add(10*time.Hour))
	require.NoError(t, err)
	assert.False(t, claimed, "same calendar day is already claimed")

	claimed, err = ledger.Claim(ctx, "p1", morning.Add(24*time.Hour))
	require.NoError(t, err)
	assert.True(t, claimed, "next day is a fresh claim")

	claimed, err = ledger.Claim(ctx, "p2", morning)
	require.NoError(t, err)
	assert.True(t, claimed)

	require.NoError(t, ledger.Release(ctx, "p2", morning))
	claimed, err = ledger.Claim(ctx, "p2", morning)
	require.NoError(t, err)
	assert.True(t, claimed, "released claim can be taken again")

	require.NoError(t, ledger.Release(ctx, "nobody", morning))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := ledger.Claim(ctx, "p3", morning); err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestMemoryNotificationLedger(t *testing.T) {
	testLedgerClaims(t, NewMemoryNotificationLedger())
}

func TestRedisNotificationLedger(t *testing.T) {
	ledger, server := newRedisLedger(t)
	testLedgerClaims(t, ledger)

	key := ledgerKey("p1", morning)
	assert.Equal(t, "daily-report-p1-2025-05-05", key)
	assert.True(t, server.Exists(key))
	assert.Equal(t, ledgerTTL, server.TTL(key))

	server.FastForward(ledgerTTL + time.Second)
	claimed, err := ledger.Claim(context.Background(), "p1", morning)
	require.NoError(t, err)
	assert.True(t, claimed, "claims expire with the ledger ttl")
}

func TestRedisNotificationLedgerUnavailable(t *testing.T) {
	ledger, server := newRedisLedger(t)
	server.Close()

	claimed, err := ledger.Claim(context.Background(), "p1", morning)
	assert.Error(t, err)
	assert.False(t, claimed)
}
