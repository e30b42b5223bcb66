package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CachedDirectory is a read-through Redis cache in front of another Directory.
// Only found actors are cached. Redis failures degrade to a direct lookup.
type CachedDirectory struct {
	next   Directory
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

type CacheOption func(*CachedDirectory)

// WithKeyPrefix sets the prefix of the cache keys, e.g. "identity:actor".
func WithKeyPrefix(prefix string) CacheOption {
	return func(d *CachedDirectory) {
		d.prefix = prefix
	}
}

func NewCachedDirectory(next Directory, redisClient *redis.Client, ttl time.Duration, opts ...CacheOption) *CachedDirectory {
	d := &CachedDirectory{
		next:   next,
		redis:  redisClient,
		prefix: "identity:actor",
		ttl:    ttl,
	}

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Close closes the wrapped directory when it holds resources. The Redis
// client belongs to the caller and stays open.
func (d *CachedDirectory) Close() error {
	if closer, ok := d.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (d *CachedDirectory) key(actorID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", d.prefix, actorID)
}

func (d *CachedDirectory) LookupActor(ctx context.Context, actorID uuid.UUID) (Actor, bool, error) {
	cached, err := d.redis.Get(ctx, d.key(actorID)).Bytes()
	switch {
	case err == nil:
		var actor Actor
		if err = json.Unmarshal(cached, &actor); err == nil {
			return actor, true, nil
		}
		log.Warn().Err(err).Str("actor_id", actorID.String()).Msg("failed to decode cached actor")
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Str("actor_id", actorID.String()).Msg("failed to read actor cache")
	}

	actor, found, err := d.next.LookupActor(ctx, actorID)
	if err != nil || !found {
		return actor, found, err
	}

	data, err := json.Marshal(actor)
	if err != nil {
		return actor, true, nil
	}

	if err = d.redis.Set(ctx, d.key(actorID), data, d.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("actor_id", actorID.String()).Msg("failed to write actor cache")
	}

	return actor, true, nil
}
