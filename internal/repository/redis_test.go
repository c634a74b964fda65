package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pelican/internal/model"
)

func newTestRedisRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})

	return &RedisRepository{
		client: client,
		ttl:    DefaultLinkCacheTTL,
	}, s
}

func testLink() *model.Link {
	return &model.Link{
		ID:        "ABCD1234",
		AccountID: "acct-1",
		Destinations: model.DestinationMap{
			"default": "https://example.com",
			"DE":      "https://example.de",
		},
	}
}

func TestRedisRepository_SaveLink(t *testing.T) {
	repo, s := newTestRedisRepo(t)
	defer repo.Close()

	ctx := context.Background()
	link := testLink()

	require.NoError(t, repo.SaveLink(ctx, link))

	raw, err := s.Get(LinkKeyPrefix + link.ID)
	require.NoError(t, err)

	var cached model.Link
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, link.ID, cached.ID)
	assert.Equal(t, link.Destinations, cached.Destinations)

	ttl := s.TTL(LinkKeyPrefix + link.ID)
	assert.Greater(t, ttl, time.Duration(0), "cached entries must expire")
	assert.LessOrEqual(t, ttl, DefaultLinkCacheTTL)
}

func TestRedisRepository_GetLink(t *testing.T) {
	repo, s := newTestRedisRepo(t)
	defer repo.Close()

	ctx := context.Background()

	t.Run("cached link", func(t *testing.T) {
		link := testLink()
		require.NoError(t, repo.SaveLink(ctx, link))

		got, err := repo.GetLink(ctx, link.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, link.ID, got.ID)
		assert.Equal(t, "https://example.de", got.Destinations["DE"])
	})

	t.Run("missing key is a miss, not an error", func(t *testing.T) {
		got, err := repo.GetLink(ctx, "NOPE")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("malformed value is a miss, not an error", func(t *testing.T) {
		s.Set(LinkKeyPrefix+"BROKEN", "{not json")

		got, err := repo.GetLink(ctx, "BROKEN")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRedisRepository_GetLink_ConnectionFailure(t *testing.T) {
	repo, s := newTestRedisRepo(t)
	defer repo.Close()

	s.Close()

	got, err := repo.GetLink(context.Background(), "ABCD1234")
	assert.NoError(t, err, "cache outages degrade to misses")
	assert.Nil(t, got)
}

func TestRedisRepository_TTLDefault(t *testing.T) {
	assert.Equal(t, 42*time.Hour, DefaultLinkCacheTTL)

	repo, _ := newTestRedisRepo(t)
	defer repo.Close()
	assert.Equal(t, DefaultLinkCacheTTL, repo.TTL())
}

func TestRedisRepository_linkKey(t *testing.T) {
	repo, _ := newTestRedisRepo(t)
	defer repo.Close()

	assert.Equal(t, "link:ABCD", repo.linkKey("ABCD"))
}

func TestRedisRepository_Close(t *testing.T) {
	repo, s := newTestRedisRepo(t)

	assert.NoError(t, repo.Close())
	s.Close()
}

func TestRedisRepository_GetClient(t *testing.T) {
	repo, _ := newTestRedisRepo(t)
	defer repo.Close()

	client := repo.GetClient()
	require.NotNil(t, client)
	assert.NoError(t, client.Ping(context.Background()).Err())
}
