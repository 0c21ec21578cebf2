package recommend

import (
	"context"
	"errors"
	"sort"

	"roombooking-backend/internal/model"
	"roombooking-backend/internal/store"
)

// fakeDirectory is an in-memory Directory for strategy and engine tests.
type fakeDirectory struct {
	rooms    []model.Room
	bookings []model.Booking
	history  map[string][]store.RoomFrequency

	findErr     error
	conflictErr error
	listErr     error
	historyErr  error
	sinceErr    error
}

func (f *fakeDirectory) FindRoomByName(_ context.Context, name string) (*model.Room, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, r := range f.rooms {
		if r.Name == name {
			room := r
			return &room, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) CountConflicts(_ context.Context, roomID, startTS, endTS int64) (int64, error) {
	if f.conflictErr != nil {
		return 0, f.conflictErr
	}
	var n int64
	for _, b := range f.bookings {
		if b.RoomID == roomID && b.Status == model.BookingStatusConfirmed &&
			b.StartTime < endTS && b.EndTime > startTS {
			n++
		}
	}
	return n, nil
}

func (f *fakeDirectory) ListRooms(_ context.Context, minCapacity int, excludeName string) ([]model.Room, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Room
	for _, r := range f.rooms {
		if r.Disabled || r.Capacity < minCapacity {
			continue
		}
		if excludeName != "" && r.Name == excludeName {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Capacity < out[j].Capacity })
	return out, nil
}

func (f *fakeDirectory) UserRoomFrequency(_ context.Context, userID string, _ int64, limit int) ([]store.RoomFrequency, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	rows := f.history[userID]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeDirectory) BookingsSince(_ context.Context, sinceTS int64) ([]model.Booking, error) {
	if f.sinceErr != nil {
		return nil, f.sinceErr
	}
	var out []model.Booking
	for _, b := range f.bookings {
		if b.StartTime >= sinceTS && b.Status == model.BookingStatusConfirmed {
			out = append(out, b)
		}
	}
	return out, nil
}

var errBroken = errors.New("store unavailable")
