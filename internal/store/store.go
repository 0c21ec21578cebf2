package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"roombooking-backend/internal/model"
)

// RoomFrequency is an aggregated view of one user's booking history for a
// single room.
type RoomFrequency struct {
	RoomID   int64
	RoomName string
	Capacity int
	Count    int64
}

// Store defines the read-only queries the recommendation engine issues
// against the booking database. The engine never writes; booking mutation is
// owned by a separate subsystem.
type Store interface {
	// FindRoomByName returns the room with the given unique name, or
	// (nil, nil) when no such room exists.
	FindRoomByName(ctx context.Context, name string) (*model.Room, error)

	// CountConflicts reports how many confirmed bookings for the room
	// overlap the half-open interval [startTS, endTS). Touching boundaries
	// do not conflict.
	CountConflicts(ctx context.Context, roomID, startTS, endTS int64) (int64, error)

	// ListRooms returns all active rooms with capacity >= minCapacity,
	// excluding the named room, ordered by capacity ascending.
	ListRooms(ctx context.Context, minCapacity int, excludeName string) ([]model.Room, error)

	// UserRoomFrequency returns per-room booking counts for one user since
	// the given timestamp, most-booked first, at most limit rows.
	UserRoomFrequency(ctx context.Context, userID string, sinceTS int64, limit int) ([]RoomFrequency, error)

	// BookingsSince returns all confirmed bookings starting at or after
	// the given timestamp.
	BookingsSince(ctx context.Context, sinceTS int64) ([]model.Booking, error)

	// ActiveRoomNames returns the names of all non-disabled rooms.
	ActiveRoomNames(ctx context.Context) ([]string, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindRoomByName(ctx context.Context, name string) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up room %q: %w", name, err)
	}
	return &room, nil
}

func (s *gormStore) CountConflicts(ctx context.Context, roomID, startTS, endTS int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Booking{}).
		Where("room_id = ? AND start_time < ? AND end_time > ? AND status = ?",
			roomID, endTS, startTS, model.BookingStatusConfirmed).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count conflicts for room %d: %w", roomID, err)
	}
	return count, nil
}

func (s *gormStore) ListRooms(ctx context.Context, minCapacity int, excludeName string) ([]model.Room, error) {
	var rooms []model.Room
	q := s.db.WithContext(ctx).
		Where("disabled = ? AND capacity >= ?", false, minCapacity).
		Order("capacity ASC")
	if excludeName != "" {
		q = q.Where("name <> ?", excludeName)
	}
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *gormStore) UserRoomFrequency(ctx context.Context, userID string, sinceTS int64, limit int) ([]RoomFrequency, error) {
	var rows []RoomFrequency
	err := s.db.WithContext(ctx).Model(&model.Booking{}).
		Select("bookings.room_id AS room_id, rooms.name AS room_name, rooms.capacity AS capacity, COUNT(bookings.id) AS count").
		Joins("JOIN rooms ON rooms.id = bookings.room_id").
		Where("bookings.create_by = ? AND bookings.start_time >= ? AND bookings.status = ? AND rooms.disabled = ?",
			userID, sinceTS, model.BookingStatusConfirmed, false).
		Group("bookings.room_id, rooms.name, rooms.capacity").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking history for %q: %w", userID, err)
	}
	return rows, nil
}

func (s *gormStore) BookingsSince(ctx context.Context, sinceTS int64) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Where("start_time >= ? AND status = ?", sinceTS, model.BookingStatusConfirmed).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings since %d: %w", sinceTS, err)
	}
	return bookings, nil
}

func (s *gormStore) ActiveRoomNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&model.Room{}).
		Where("disabled = ?", false).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list room names: %w", err)
	}
	return names, nil
}
