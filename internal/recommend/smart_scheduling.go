package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// SmartSchedulingStrategy proposes rooms that are historically quiet at the
// requested hour-of-day and weekday, so bookings spread across the building.
type SmartSchedulingStrategy struct {
	dir        Directory
	windowDays int
}

// NewSmartSchedulingStrategy creates the strategy with the given utilization
// window.
func NewSmartSchedulingStrategy(dir Directory, windowDays int) *SmartSchedulingStrategy {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &SmartSchedulingStrategy{dir: dir, windowDays: windowDays}
}

func (s *SmartSchedulingStrategy) Name() string { return "smart_scheduling" }

func (s *SmartSchedulingStrategy) Generate(ctx context.Context, req Request) ([]Candidate, error) {
	rooms, err := s.dir.ListRooms(ctx, 0, "")
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, nil
	}

	since := req.Start.AddDate(0, 0, -s.windowDays)
	bookings, err := s.dir.BookingsSince(ctx, since.Unix())
	if err != nil {
		return nil, err
	}

	// Hour-of-day and weekday aggregation happens here rather than in SQL;
	// the extraction functions are not portable across dialects.
	loc := req.Start.Location()
	hour, weekday := req.Start.Hour(), req.Start.Weekday()
	counts := make(map[int64]int)
	for _, b := range bookings {
		start := time.Unix(b.StartTime, 0).In(loc)
		if start.Hour() == hour && start.Weekday() == weekday {
			counts[b.RoomID]++
		}
	}

	// Least-used rooms first. Rooms with no bookings at all still count.
	sort.SliceStable(rooms, func(i, j int) bool {
		return counts[rooms[i].ID] < counts[rooms[j].ID]
	})
	if len(rooms) > 10 {
		rooms = rooms[:10]
	}

	startTS, endTS := req.Start.Unix(), req.End.Unix()

	var candidates []Candidate
	for _, room := range rooms {
		free, err := isFree(ctx, s.dir, room.ID, startTS, endTS)
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}

		utilization := float64(counts[room.ID]) / float64(s.windowDays)
		score := 1.0 - utilization*0.1
		if score < 0.5 {
			score = 0.5
		}

		candidates = append(candidates, Candidate{
			Type:   TypeSmartScheduling,
			Score:  clampScore(score),
			Reason: fmt.Sprintf("%s has low utilization at this time", room.Name),
			Suggestion: Suggestion{
				RoomName:        room.Name,
				Capacity:        room.Capacity,
				StartTime:       req.Start,
				EndTime:         req.End,
				DurationMinutes: req.DurationMinutes(),
				Confidence:      clampScore(score),
			},
			DataSource: s.Name(),
		})

		if len(candidates) >= 3 {
			break
		}
	}
	return candidates, nil
}
