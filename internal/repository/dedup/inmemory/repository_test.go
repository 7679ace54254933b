package inmemory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/togethertime/server/internal/repository/dedup"
)

func TestMarkSeen(t *testing.T) {
	r := NewRepo(&dedup.Config{Window: time.Minute, Size: 16})
	ctx := context.Background()

	first, err := r.MarkSeen(ctx, "ABC123", "c1-1700000000000")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := r.MarkSeen(ctx, "ABC123", "c1-1700000000000")
	require.NoError(t, err)
	assert.False(t, again)

	otherRoom, err := r.MarkSeen(ctx, "XYZ789", "c1-1700000000000")
	require.NoError(t, err)
	assert.True(t, otherRoom, "ids are scoped to a room")
}

func TestMarkSeenBounded(t *testing.T) {
	r := NewRepo(&dedup.Config{Window: time.Minute, Size: 2})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := r.MarkSeen(ctx, "ABC123", fmt.Sprint(i))
		require.NoError(t, err)
		require.True(t, ok)
	}

	// "0" was evicted by the size bound.
	ok, err := r.MarkSeen(ctx, "ABC123", "0")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMarkSeenWindow(t *testing.T) {
	r := NewRepo(&dedup.Config{Window: 20 * time.Millisecond, Size: 16})
	ctx := context.Background()

	ok, err := r.MarkSeen(ctx, "ABC123", "m1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		ok, err := r.MarkSeen(ctx, "ABC123", "m1")
		return err == nil && ok
	}, time.Second, 10*time.Millisecond)
}
