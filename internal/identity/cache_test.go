package identity

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDirectory struct {
	actors  map[uuid.UUID]Actor
	lookups int
}

func (d *countingDirectory) LookupActor(_ context.Context, actorID uuid.UUID) (Actor, bool, error) {
	d.lookups++
	actor, ok := d.actors[actorID]
	return actor, ok, nil
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	return client
}

func TestCachedDirectory(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	actor := Actor{ID: uuid.New(), Handle: "alice", DisplayName: "Alice"}
	next := &countingDirectory{actors: map[uuid.UUID]Actor{actor.ID: actor}}
	prefix := "test:identity:" + uuid.NewString()
	directory := NewCachedDirectory(next, client, time.Minute, WithKeyPrefix(prefix))

	for i := 0; i < 3; i++ {
		got, found, err := directory.LookupActor(ctx, actor.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, actor, got)
	}
	assert.Equal(t, 1, next.lookups)

	missing := uuid.New()
	for i := 0; i < 2; i++ {
		_, found, err := directory.LookupActor(ctx, missing)
		require.NoError(t, err)
		assert.False(t, found)
	}
	assert.Equal(t, 3, next.lookups, "missing actors are not cached")

	client.Del(ctx, directory.key(actor.ID))
}

func TestCachedDirectoryRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	actor := Actor{ID: uuid.New(), Handle: "bob", DisplayName: "Bob"}
	next := &countingDirectory{actors: map[uuid.UUID]Actor{actor.ID: actor}}
	directory := NewCachedDirectory(next, client, time.Minute)

	got, found, err := directory.LookupActor(context.Background(), actor.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, actor, got)
}

func TestCachedDirectoryCloseReleasesHTTPDirectory(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	remote := NewHTTPDirectory("http://127.0.0.1:1", time.Second)
	directory := NewCachedDirectory(remote, client, time.Minute)
	require.NoError(t, directory.Close())

	// A directory without resources closes as a no-op.
	require.NoError(t, NewCachedDirectory(&countingDirectory{}, client, time.Minute).Close())
}
