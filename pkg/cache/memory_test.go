package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryCache_SetGetRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", cachedValue{Name: "authors", Count: 3}, time.Minute))

	var got cachedValue
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedValue{Name: "authors", Count: 3}, got)
}

func TestMemoryCache_MissReturnsFalseNilError(t *testing.T) {
	c := NewMemoryCache()

	var got cachedValue
	found, err := c.Get(context.Background(), "absent", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_ExpiredEntryIsAMiss(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", cachedValue{Name: "x"}, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	var got cachedValue
	found, err := c.Get(ctx, "k", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", cachedValue{Name: "x"}, 0))

	var got cachedValue
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, c.Delete(ctx, "a", "b"))

	var got int
	found, _ := c.Get(ctx, "a", &got)
	assert.False(t, found)
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "books:list:default", 1, 0))
	require.NoError(t, c.Set(ctx, "books:item:3", 2, 0))
	require.NoError(t, c.Set(ctx, "authors:list:default", 3, 0))

	require.NoError(t, c.DeletePattern(ctx, "books:*"))

	var got int
	found, _ := c.Get(ctx, "books:list:default", &got)
	assert.False(t, found)
	found, _ = c.Get(ctx, "books:item:3", &got)
	assert.False(t, found)

	// Other prefixes survive.
	found, err := c.Get(ctx, "authors:list:default", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, got)
}
