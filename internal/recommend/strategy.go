package recommend

import (
	"context"

	"roombooking-backend/internal/model"
	"roombooking-backend/internal/store"
)

// Directory is the read-only view of the booking store the strategies query.
// store.Store satisfies it; tests substitute an in-memory fake.
type Directory interface {
	FindRoomByName(ctx context.Context, name string) (*model.Room, error)
	CountConflicts(ctx context.Context, roomID, startTS, endTS int64) (int64, error)
	ListRooms(ctx context.Context, minCapacity int, excludeName string) ([]model.Room, error)
	UserRoomFrequency(ctx context.Context, userID string, sinceTS int64, limit int) ([]store.RoomFrequency, error)
	BookingsSince(ctx context.Context, sinceTS int64) ([]model.Booking, error)
}

// Strategy is one independent candidate generator. A returned error means the
// strategy failed as a whole; the engine logs it and contributes zero
// candidates from that strategy, never aborting the overall recommendation.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, req Request) ([]Candidate, error)
}

// isFree reports whether the room has no confirmed booking overlapping the
// half-open interval.
func isFree(ctx context.Context, dir Directory, roomID int64, startTS, endTS int64) (bool, error) {
	n, err := dir.CountConflicts(ctx, roomID, startTS, endTS)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
