package identity

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	cache "github.com/iwoork/homeforpup-sub008/internal/infrastructure/cache/port"
)

const profileKeyPrefix = "identity:profile:"

// CachedResolver is a cache-aside wrapper around another resolver.
// Placeholders are never cached so a user who registers later shows up
// with their real name on the next write.
type CachedResolver struct {
	Next  Resolver
	Cache cache.Cache
	TTL   time.Duration
}

func NewCachedResolver(next Resolver, c cache.Cache, ttl time.Duration) *CachedResolver {
	return &CachedResolver{Next: next, Cache: c, TTL: ttl}
}

var _ Resolver = (*CachedResolver)(nil)

func (r *CachedResolver) Resolve(ctx context.Context, userID string) (Profile, error) {
	key := profileKeyPrefix + userID
	raw, err := r.Cache.Get(ctx, key)
	switch {
	case err == nil:
		var p Profile
		if jerr := json.Unmarshal([]byte(raw), &p); jerr == nil {
			return p, nil
		}
		log.Printf("identity: drop corrupt cache entry %s", key)
	case !errors.Is(err, cache.ErrMiss):
		// cache trouble should not block resolution
		log.Printf("identity: cache get %s: %v", key, err)
	}

	p, err := r.Next.Resolve(ctx, userID)
	if err != nil || p.Placeholder {
		return p, err
	}
	if b, jerr := json.Marshal(p); jerr == nil {
		if serr := r.Cache.Set(ctx, key, string(b), r.TTL); serr != nil {
			log.Printf("identity: cache set %s: %v", key, serr)
		}
	}
	return p, nil
}
