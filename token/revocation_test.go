package token_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-portfolio-client/token"
	"github.com/stretchr/testify/require"
)

func TestRevokedTokenCache_Cleanup(t *testing.T) {
	cache := token.NewInMemoryRevokedTokenCache()
	cache.Add("expired", time.Now().Add(-time.Minute))
	cache.Add("live", time.Now().Add(time.Hour))
	cache.Add("", time.Now().Add(time.Hour))

	require.False(t, cache.IsRevoked("expired"))
	require.True(t, cache.IsRevoked("live"))
	require.Equal(t, 1, cache.Cleanup())
	require.Equal(t, 0, cache.Cleanup())
	require.True(t, cache.IsRevoked("live"))
}

func TestPruneEvery_RemovesExpiredEntries(t *testing.T) {
	cache := token.NewInMemoryRevokedTokenCache()
	cache.Add("expired", time.Now().Add(-time.Minute))

	pruned := make(chan int, 16)
	stop := token.PruneEvery(cache, 5*time.Millisecond, func(removed int) {
		select {
		case pruned <- removed:
		default:
		}
	})
	defer stop()

	select {
	case removed := <-pruned:
		require.Equal(t, 1, removed)
	case <-time.After(2 * time.Second):
		t.Fatal("cache was never pruned")
	}
	stop()
	stop()
}
