package model

import "time"

// Booking status values. Only confirmed entries occupy a room.
const (
	BookingStatusConfirmed = 0
	BookingStatusCancelled = 1
)

// Booking represents a single booking entry. Start and end are stored as
// integer epoch seconds; the interval is half-open [StartTime, EndTime).
type Booking struct {
	ID          int64  `gorm:"primaryKey"`
	RoomID      int64  `gorm:"index;not null"`
	StartTime   int64  `gorm:"index;not null"`
	EndTime     int64  `gorm:"not null"`
	CreateBy    string `gorm:"size:80;not null;index"`
	Name        string `gorm:"size:80"`
	Description string
	Status      int `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE"`
}

// Interval returns the booking's half-open interval as time values.
func (b Booking) Interval() (time.Time, time.Time) {
	return time.Unix(b.StartTime, 0), time.Unix(b.EndTime, 0)
}
