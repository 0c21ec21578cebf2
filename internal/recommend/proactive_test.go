package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombooking-backend/internal/model"
	"roombooking-backend/internal/store"
)

func TestProactive_ScoresByBookingCount(t *testing.T) {
	dir := &fakeDirectory{
		rooms: []model.Room{
			{ID: 1, Name: "LT1", Capacity: 30},
			{ID: 2, Name: "LT2", Capacity: 30},
		},
		history: map[string][]store.RoomFrequency{
			"alice@example.com": {
				{RoomID: 1, RoomName: "LT1", Capacity: 30, Count: 6},
				{RoomID: 2, RoomName: "LT2", Capacity: 30, Count: 2},
			},
		},
	}
	s := NewProactiveStrategy(dir, 90)

	got, err := s.Generate(context.Background(), timeRequest(fridayAt(10, 0), fridayAt(11, 0)))
	require.NoError(t, err)
	require.Len(t, got, 2)

	// The count bonus caps at 0.2.
	assert.Equal(t, "LT1", got[0].Suggestion.RoomName)
	assert.InDelta(t, 0.9, got[0].Score, 1e-9)
	assert.Contains(t, got[0].Reason, "6 times")

	assert.Equal(t, "LT2", got[1].Suggestion.RoomName)
	assert.InDelta(t, 0.8, got[1].Score, 1e-9)

	for _, c := range got {
		assert.Equal(t, TypeProactive, c.Type)
	}
}

func TestProactive_SkipsBusyFavourites(t *testing.T) {
	dir := &fakeDirectory{
		rooms: []model.Room{{ID: 1, Name: "LT1", Capacity: 30}},
		history: map[string][]store.RoomFrequency{
			"alice@example.com": {
				{RoomID: 1, RoomName: "LT1", Capacity: 30, Count: 4},
			},
		},
		bookings: []model.Booking{
			booking(1, fridayAt(9, 0), fridayAt(12, 0)),
		},
	}
	s := NewProactiveStrategy(dir, 90)

	got, err := s.Generate(context.Background(), timeRequest(fridayAt(10, 0), fridayAt(11, 0)))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProactive_NoHistory(t *testing.T) {
	dir := &fakeDirectory{
		rooms: []model.Room{{ID: 1, Name: "LT1", Capacity: 30}},
	}
	s := NewProactiveStrategy(dir, 90)

	got, err := s.Generate(context.Background(), timeRequest(fridayAt(10, 0), fridayAt(11, 0)))
	require.NoError(t, err)
	assert.Empty(t, got, "a new user has no favourites to propose")
}

func TestProactive_HistoryError(t *testing.T) {
	dir := &fakeDirectory{historyErr: errBroken}
	s := NewProactiveStrategy(dir, 90)

	_, err := s.Generate(context.Background(), timeRequest(fridayAt(10, 0), fridayAt(11, 0)))
	assert.Error(t, err)
}
