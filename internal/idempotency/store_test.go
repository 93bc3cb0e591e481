// internal/idempotency/store_test.go
package idempotency

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstClaimWins", func(t *testing.T) {
		store := NewMemoryStore()

		first, err := store.Claim(ctx, "key-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, first)

		second, err := store.Claim(ctx, "key-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, second)
	})

	t.Run("DistinctKeysAreIndependent", func(t *testing.T) {
		store := NewMemoryStore()

		a, _ := store.Claim(ctx, "key-a", time.Minute)
		b, _ := store.Claim(ctx, "key-b", time.Minute)

		assert.True(t, a)
		assert.True(t, b)
	})

	t.Run("ExpiredClaimCanBeRetaken", func(t *testing.T) {
		store := NewMemoryStore()

		first, _ := store.Claim(ctx, "key-ttl", -time.Second)
		assert.True(t, first)

		again, _ := store.Claim(ctx, "key-ttl", time.Minute)
		assert.True(t, again)
	})

	t.Run("ConcurrentClaimsYieldOneWinner", func(t *testing.T) {
		store := NewMemoryStore()

		const goroutines = 20
		winners := make(chan bool, goroutines)
		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := store.Claim(ctx, "contended", time.Minute)
				assert.NoError(t, err)
				winners <- ok
			}()
		}
		wg.Wait()
		close(winners)

		won := 0
		for ok := range winners {
			if ok {
				won++
			}
		}
		assert.Equal(t, 1, won)
	})
}
