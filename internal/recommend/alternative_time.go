package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// AlternativeTimeStrategy proposes other slots for the requested room: small
// shifts and fixed anchors on the same day, then the same time-of-day on the
// following days when the same day is too crowded.
type AlternativeTimeStrategy struct {
	dir        Directory
	searchDays int
	startHour  int
	endHour    int
}

// NewAlternativeTimeStrategy creates the strategy with the given next-day
// search horizon and business hours.
func NewAlternativeTimeStrategy(dir Directory, searchDays, startHour, endHour int) *AlternativeTimeStrategy {
	if searchDays <= 0 {
		searchDays = 5
	}
	if startHour <= 0 || endHour <= startHour {
		startHour, endHour = 9, 17
	}
	return &AlternativeTimeStrategy{dir: dir, searchDays: searchDays, startHour: startHour, endHour: endHour}
}

func (s *AlternativeTimeStrategy) Name() string { return "alternative_time" }

func (s *AlternativeTimeStrategy) Generate(ctx context.Context, req Request) ([]Candidate, error) {
	room, err := s.dir.FindRoomByName(ctx, req.RoomName)
	if err != nil {
		return nil, err
	}
	if room == nil || room.Disabled {
		// No availability data for an unknown room.
		return nil, nil
	}

	sameDay, err := s.sameDayAlternatives(ctx, req, room.ID, room.Capacity)
	if err != nil {
		return nil, err
	}

	candidates := sameDay
	if len(sameDay) < 3 {
		nextDays, err := s.nextDayAlternatives(ctx, req, room.ID, room.Capacity)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, nextDays...)
	}

	// Same-day slots rank above next-day ones; higher score first within
	// each tier.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].sameDay != candidates[j].sameDay {
			return candidates[i].sameDay
		}
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > 8 {
		candidates = candidates[:8]
	}
	return candidates, nil
}

func (s *AlternativeTimeStrategy) sameDayAlternatives(ctx context.Context, req Request, roomID int64, capacity int) ([]Candidate, error) {
	y, m, d := req.Start.Date()
	loc := req.Start.Location()

	slots := []struct {
		start time.Time
		desc  string
	}{
		{req.Start.Add(-30 * time.Minute), "30 minutes earlier"},
		{req.Start.Add(30 * time.Minute), "30 minutes later"},
		{req.Start.Add(-time.Hour), "1 hour earlier"},
		{req.Start.Add(time.Hour), "1 hour later"},
		{time.Date(y, m, d, 9, 0, 0, 0, loc), "9:00 AM"},
		{time.Date(y, m, d, 14, 0, 0, 0, loc), "2:00 PM"},
	}

	var candidates []Candidate
	for _, slot := range slots {
		sy, sm, sd := slot.start.Date()
		if sy != y || sm != m || sd != d || slot.start.Equal(req.Start) {
			continue
		}

		end := slot.start.Add(req.Duration())
		free, err := isFree(ctx, s.dir, roomID, slot.start.Unix(), end.Unix())
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}

		score := timeProximityScore(slot.start, req.Start, s.startHour, s.endHour)
		candidates = append(candidates, Candidate{
			Type:   TypeAlternativeTime,
			Score:  score,
			Reason: fmt.Sprintf("Same day - %s", slot.desc),
			Suggestion: Suggestion{
				RoomName:        req.RoomName,
				Capacity:        capacity,
				StartTime:       slot.start,
				EndTime:         end,
				DurationMinutes: req.DurationMinutes(),
				Confidence:      score,
			},
			DataSource: s.Name(),
			sameDay:    true,
		})
	}
	return candidates, nil
}

func (s *AlternativeTimeStrategy) nextDayAlternatives(ctx context.Context, req Request, roomID int64, capacity int) ([]Candidate, error) {
	var candidates []Candidate
	for offset := 1; offset <= s.searchDays; offset++ {
		start := req.Start.AddDate(0, 0, offset)
		end := start.Add(req.Duration())

		free, err := isFree(ctx, s.dir, roomID, start.Unix(), end.Unix())
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}

		score := 0.7 - float64(offset)*0.1
		if score < 0.3 {
			score = 0.3
		}
		candidates = append(candidates, Candidate{
			Type:   TypeAlternativeTime,
			Score:  score,
			Reason: fmt.Sprintf("Same time on %s", start.Format("Monday, January 2")),
			Suggestion: Suggestion{
				RoomName:        req.RoomName,
				Capacity:        capacity,
				StartTime:       start,
				EndTime:         end,
				DurationMinutes: req.DurationMinutes(),
				Confidence:      score,
			},
			DataSource: s.Name(),
		})
	}
	return candidates, nil
}

// timeProximityScore favours slots close to the requested start and inside
// business hours. Slots more than an hour outside the business window are
// penalized.
func timeProximityScore(alt, requested time.Time, startHour, endHour int) float64 {
	score := 0.85

	diff := alt.Sub(requested)
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 30*time.Minute:
		score += 0.10
	case diff <= time.Hour:
		score += 0.05
	case diff > 4*time.Hour:
		score -= 0.10
	}

	hour := alt.Hour()
	if hour >= startHour && hour <= endHour {
		score += 0.05
	} else if hour < startHour-1 || hour > endHour+1 {
		score -= 0.20
	}

	return clampScore(score)
}
