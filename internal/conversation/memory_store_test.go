// internal/conversation/memory_store_test.go
package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLazyCreate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session, err := store.GetOrCreate(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(99), session.UserID)
	assert.Equal(t, PhaseIdle, session.Phase)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session, err := store.GetOrCreate(ctx, 7)
	require.NoError(t, err)

	session.Phase = PhaseAwaitingSentiment
	session.PendingLink = "https://tradingview.com/chart/x"
	session.PendingOutcome = -150
	require.NoError(t, store.Save(ctx, session))

	loaded, err := store.GetOrCreate(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, PhaseAwaitingSentiment, loaded.Phase)
	assert.Equal(t, "https://tradingview.com/chart/x", loaded.PendingLink)
	assert.Equal(t, -150, loaded.PendingOutcome)
}

// GetOrCreate возвращает копию: изменения без Save не видны другим
func TestMemoryStoreReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, _ := store.GetOrCreate(ctx, 1)
	first.Phase = PhaseAwaitingOutcome // не сохраняем

	second, _ := store.GetOrCreate(ctx, 1)
	assert.Equal(t, PhaseIdle, second.Phase)
}
