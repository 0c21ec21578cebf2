package model

import "time"

// Area represents a building area or floor that groups rooms.
type Area struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"uniqueIndex;size:30;not null"`
	Disabled     bool      `gorm:"not null;default:false"`
	MorningStart int       `gorm:"not null;default:7"`
	EveningEnd   int       `gorm:"not null;default:19"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`

	// Associations
	Rooms []Room `gorm:"foreignKey:AreaID"`
}

// Room represents a bookable room or hall.
type Room struct {
	ID          int64  `gorm:"primaryKey"`
	AreaID      int64  `gorm:"index;not null"`
	Name        string `gorm:"uniqueIndex;size:25;not null"`
	Description string `gorm:"size:60"`
	Capacity    int    `gorm:"not null;default:0"`
	Disabled    bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Associations
	Area Area `gorm:"constraint:OnDelete:CASCADE"`
}
