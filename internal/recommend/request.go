package recommend

import (
	"fmt"
	"time"

	"roombooking-backend/internal/parse"
)

// RawRequest is the wire shape produced by the chat / intent-parsing layer.
// Start and end accept RFC 3339, "YYYY-MM-DD HH:MM:SS", or epoch seconds.
type RawRequest struct {
	UserID    string `json:"user_id"`
	RoomID    string `json:"room_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Purpose   string `json:"purpose,omitempty"`
	Capacity  int    `json:"capacity,omitempty"`
}

// Request is a validated recommendation request.
type Request struct {
	UserID   string
	RoomName string
	Start    time.Time
	End      time.Time
	Purpose  string
	Capacity int
}

// Duration returns the requested meeting length.
func (r Request) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// DurationMinutes returns the requested meeting length in whole minutes.
func (r Request) DurationMinutes() int {
	return int(r.Duration().Minutes())
}

// ParseRequest validates a raw request. Capacity defaults to 1 and the
// interval must be non-empty.
func ParseRequest(raw RawRequest) (Request, error) {
	start, err := parse.Time(raw.StartTime)
	if err != nil {
		return Request{}, fmt.Errorf("invalid start_time: %w", err)
	}
	end, err := parse.Time(raw.EndTime)
	if err != nil {
		return Request{}, fmt.Errorf("invalid end_time: %w", err)
	}
	if !end.After(start) {
		return Request{}, fmt.Errorf("end_time %s is not after start_time %s", raw.EndTime, raw.StartTime)
	}

	capacity := raw.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	return Request{
		UserID:   raw.UserID,
		RoomName: raw.RoomID,
		Start:    start,
		End:      end,
		Purpose:  raw.Purpose,
		Capacity: capacity,
	}, nil
}
