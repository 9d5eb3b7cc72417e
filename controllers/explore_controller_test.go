package controllers

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexora-app/nexora_backend/models"
)

func newCacheTestController(t *testing.T) (*ExploreController, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	ec := &ExploreController{
		redis:  client,
		logger: log.New(os.Stdout, "[EXPLORE] ", log.LstdFlags),
	}
	return ec, mr
}

func TestExploreCacheRoundTrip(t *testing.T) {
	ec, _ := newCacheTestController(t)
	ctx := context.Background()

	posts := []models.Post{{Content: "hello", LikeCount: 3}}
	ec.writeCache(ctx, "explore:popular", posts)

	cached, ok := ec.readCache(ctx, "explore:popular")
	require.True(t, ok)

	var decoded []models.Post
	require.NoError(t, json.Unmarshal(cached, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "hello", decoded[0].Content)
	assert.Equal(t, 3, decoded[0].LikeCount)
}

func TestExploreCacheMiss(t *testing.T) {
	ec, _ := newCacheTestController(t)

	_, ok := ec.readCache(context.Background(), "explore:nothing")
	assert.False(t, ok)
}

func TestExploreCacheExpires(t *testing.T) {
	ec, mr := newCacheTestController(t)
	ctx := context.Background()

	ec.writeCache(ctx, "explore:popular", []models.Post{{Content: "stale"}})

	mr.FastForward(exploreCacheTTL + time.Second)

	_, ok := ec.readCache(ctx, "explore:popular")
	assert.False(t, ok)
}

func TestExploreCacheNilClient(t *testing.T) {
	ec := &ExploreController{logger: log.New(os.Stdout, "[EXPLORE] ", log.LstdFlags)}
	ctx := context.Background()

	// Both paths must be no-ops without Redis
	ec.writeCache(ctx, "explore:popular", []models.Post{})
	_, ok := ec.readCache(ctx, "explore:popular")
	assert.False(t, ok)
}
