package roomcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombooking-backend/internal/model"
	"roombooking-backend/internal/store"
)

// nameStore serves ActiveRoomNames from a slice and counts store hits; the
// other Store queries are unused here.
type nameStore struct {
	names []string
	err   error
	calls int
}

func (s *nameStore) ActiveRoomNames(context.Context) ([]string, error) {
	s.calls++
	return s.names, s.err
}

func (s *nameStore) FindRoomByName(context.Context, string) (*model.Room, error) { return nil, nil }
func (s *nameStore) CountConflicts(context.Context, int64, int64, int64) (int64, error) {
	return 0, nil
}
func (s *nameStore) ListRooms(context.Context, int, string) ([]model.Room, error) { return nil, nil }
func (s *nameStore) UserRoomFrequency(context.Context, string, int64, int) ([]store.RoomFrequency, error) {
	return nil, nil
}
func (s *nameStore) BookingsSince(context.Context, int64) ([]model.Booking, error) { return nil, nil }

func TestCache_KnownRefreshesOnce(t *testing.T) {
	fs := &nameStore{names: []string{"LT1", "LT2"}}
	rc := New(fs, time.Minute, nil)
	ctx := context.Background()

	got, err := rc.Known(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"LT1", "LT2"}, got)

	_, err = rc.Known(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.calls, "second lookup must be served from cache")
}

func TestCache_TTLExpiry(t *testing.T) {
	fs := &nameStore{names: []string{"LT1"}}
	rc := New(fs, 10*time.Millisecond, nil)
	ctx := context.Background()

	_, err := rc.Known(ctx)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	_, err = rc.Known(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fs.calls)
}

func TestCache_RefreshReplaces(t *testing.T) {
	fs := &nameStore{names: []string{"LT1"}}
	rc := New(fs, time.Minute, nil)
	ctx := context.Background()

	_, err := rc.Known(ctx)
	require.NoError(t, err)

	fs.names = []string{"LT1", "Hall"}
	require.NoError(t, rc.Refresh(ctx))

	got, err := rc.Known(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"LT1", "Hall"}, got)
}

func TestCache_Contains(t *testing.T) {
	fs := &nameStore{names: []string{"LT1", "Hall"}}
	rc := New(fs, time.Minute, nil)
	ctx := context.Background()

	assert.True(t, rc.Contains(ctx, "Hall"))
	assert.False(t, rc.Contains(ctx, "LT9"))
}

func TestCache_StoreError(t *testing.T) {
	fs := &nameStore{err: errors.New("db down")}
	rc := New(fs, time.Minute, nil)
	ctx := context.Background()

	_, err := rc.Known(ctx)
	assert.Error(t, err)
	assert.False(t, rc.Contains(ctx, "LT1"))
}
