package roomcache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"roombooking-backend/internal/store"
)

const roomsKey = "active_room_names"

// Cache holds the set of active room names with a TTL, so that entity
// extraction and fallback handling do not hit the database on every request.
// It owns its state explicitly; there is no package-level cache.
type Cache struct {
	store store.Store
	ttl   time.Duration
	c     *gocache.Cache
	log   *zap.Logger
}

// New creates a room-name cache refreshing from the given store.
func New(s store.Store, ttl time.Duration, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		store: s,
		ttl:   ttl,
		c:     gocache.New(ttl, 2*ttl),
		log:   log,
	}
}

// Known returns the active room names, refreshing from the store when the
// cached set has expired.
func (rc *Cache) Known(ctx context.Context) ([]string, error) {
	if v, found := rc.c.Get(roomsKey); found {
		return v.([]string), nil
	}
	if err := rc.Refresh(ctx); err != nil {
		return nil, err
	}
	v, _ := rc.c.Get(roomsKey)
	names, _ := v.([]string)
	return names, nil
}

// Refresh reloads the room-name set from the store unconditionally. Callers
// may invoke it on a schedule; Known also calls it on cache miss.
func (rc *Cache) Refresh(ctx context.Context) error {
	names, err := rc.store.ActiveRoomNames(ctx)
	if err != nil {
		return err
	}
	rc.c.Set(roomsKey, names, rc.ttl)
	rc.log.Debug("room name cache refreshed", zap.Int("rooms", len(names)))
	return nil
}

// Contains reports whether the given name is a known active room. A lookup
// failure is treated as unknown rather than an error; the cache is advisory.
func (rc *Cache) Contains(ctx context.Context, name string) bool {
	names, err := rc.Known(ctx)
	if err != nil {
		rc.log.Warn("room name lookup failed", zap.Error(err))
		return false
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
