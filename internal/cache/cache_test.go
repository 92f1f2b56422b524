package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client), mr
}

func TestGetMissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got []string
	assert.False(t, c.Get(ctx, "timeline", &got))

	c.Set(ctx, "timeline", []string{"a", "b"}, 0)

	require.True(t, c.Get(ctx, "timeline", &got))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestSetWithTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "services", []string{"api"}, time.Minute)

	ttl := mr.TTL("services")
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected TTL: %v", ttl)
}

func TestDeleteMany(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "timeline", 1, 0)
	c.Set(ctx, "events_ns", "tok", 0)
	c.Set(ctx, "event_count_ns", "tok", 0)

	c.Delete(ctx, "timeline", "events_ns", "event_count_ns")

	var v any
	assert.False(t, c.Get(ctx, "timeline", &v))
	assert.False(t, c.Get(ctx, "events_ns", &v))
	assert.False(t, c.Get(ctx, "event_count_ns", &v))
}

func TestAddIfAbsent(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	assert.True(t, c.Add(ctx, "k", "first", 0))
	assert.False(t, c.Add(ctx, "k", "second", 0), "second add must lose")

	var got string
	require.True(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "first", got)
}

func TestGetDropsUndecodableValue(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("timeline", "{not json"))

	var got map[string]string
	assert.False(t, c.Get(ctx, "timeline", &got))
	// The poisoned key is evicted so the next fill can succeed.
	assert.False(t, mr.Exists("timeline"))
}

func TestUnreachableCacheDegradesToMiss(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := New(client)
	ctx := context.Background()

	mr.Close()

	var got string
	assert.False(t, c.Get(ctx, "timeline", &got))
	assert.False(t, c.Add(ctx, "events_ns", "tok", 0))
	// Set and Delete must swallow the outage.
	c.Set(ctx, "timeline", "x", 0)
	c.Delete(ctx, "timeline")
}

func TestNamespaceStableAcrossCalls(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	first := c.Namespace(ctx, FamilyEvents)
	require.NotEmpty(t, first)

	second := c.Namespace(ctx, FamilyEvents)
	assert.Equal(t, first, second)
}

func TestNamespaceRotatesAfterDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	first := c.Namespace(ctx, FamilyEvents)
	c.Delete(ctx, FamilyEvents)
	second := c.Namespace(ctx, FamilyEvents)

	assert.NotEqual(t, first, second)
}

func TestNamespaceLosingRaceAdoptsWinner(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	// Simulate another process having won the add race: the family key
	// appears between our miss and our add. SetNX then fails and the
	// stored token must be adopted.
	require.NoError(t, mr.Set(FamilyEvents, `"winner-token"`))

	got := c.Namespace(ctx, FamilyEvents)
	assert.Equal(t, "winner-token", got)
}

func TestDerivedKeyFormats(t *testing.T) {
	from := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "events_tok_20240104UTC_20240110UTC", EventsKey("tok", from, to))
	assert.Equal(t, "event_count_tok_20240104UTC_20240110UTC", EventCountKey("tok", from, to))
}
