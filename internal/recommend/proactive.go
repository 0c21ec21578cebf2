package recommend

import (
	"context"
	"fmt"
)

// ProactiveStrategy proposes the rooms the user books most often, when they
// happen to be free for the requested slot.
type ProactiveStrategy struct {
	dir        Directory
	windowDays int
}

// NewProactiveStrategy creates the strategy with the given history window.
func NewProactiveStrategy(dir Directory, windowDays int) *ProactiveStrategy {
	if windowDays <= 0 {
		windowDays = 90
	}
	return &ProactiveStrategy{dir: dir, windowDays: windowDays}
}

func (s *ProactiveStrategy) Name() string { return "proactive" }

func (s *ProactiveStrategy) Generate(ctx context.Context, req Request) ([]Candidate, error) {
	since := req.Start.AddDate(0, 0, -s.windowDays)
	history, err := s.dir.UserRoomFrequency(ctx, req.UserID, since.Unix(), 5)
	if err != nil {
		return nil, err
	}

	startTS, endTS := req.Start.Unix(), req.End.Unix()

	var candidates []Candidate
	for _, h := range history {
		free, err := isFree(ctx, s.dir, h.RoomID, startTS, endTS)
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}

		bonus := float64(h.Count) * 0.05
		if bonus > 0.2 {
			bonus = 0.2
		}
		score := clampScore(0.7 + bonus)

		candidates = append(candidates, Candidate{
			Type:   TypeProactive,
			Score:  score,
			Reason: fmt.Sprintf("You booked %s %d times recently", h.RoomName, h.Count),
			Suggestion: Suggestion{
				RoomName:        h.RoomName,
				Capacity:        h.Capacity,
				StartTime:       req.Start,
				EndTime:         req.End,
				DurationMinutes: req.DurationMinutes(),
				Confidence:      score,
			},
			DataSource: s.Name(),
		})
	}
	return candidates, nil
}
