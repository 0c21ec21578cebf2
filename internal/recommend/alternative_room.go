package recommend

import (
	"context"
	"fmt"
	"sort"

	"roombooking-backend/internal/model"
)

// AlternativeRoomStrategy proposes different rooms for the requested slot,
// closest in capacity to the original room first.
type AlternativeRoomStrategy struct {
	dir Directory
}

// NewAlternativeRoomStrategy creates the strategy.
func NewAlternativeRoomStrategy(dir Directory) *AlternativeRoomStrategy {
	return &AlternativeRoomStrategy{dir: dir}
}

func (s *AlternativeRoomStrategy) Name() string { return "alternative_room" }

func (s *AlternativeRoomStrategy) Generate(ctx context.Context, req Request) ([]Candidate, error) {
	// The requested room may not exist; candidates are still generated
	// from the remaining rooms.
	original, err := s.dir.FindRoomByName(ctx, req.RoomName)
	if err != nil {
		return nil, err
	}

	rooms, err := s.dir.ListRooms(ctx, req.Capacity, req.RoomName)
	if err != nil {
		return nil, err
	}

	if original != nil {
		sort.SliceStable(rooms, func(i, j int) bool {
			return capacityDiff(rooms[i], original) < capacityDiff(rooms[j], original)
		})
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

		score := roomSimilarityScore(room, original)
		candidates = append(candidates, Candidate{
			Type:   TypeAlternativeRoom,
			Score:  score,
			Reason: fmt.Sprintf("Room %s (capacity: %d) available", room.Name, room.Capacity),
			Suggestion: Suggestion{
				RoomName:        room.Name,
				Capacity:        room.Capacity,
				StartTime:       req.Start,
				EndTime:         req.End,
				DurationMinutes: req.DurationMinutes(),
				Confidence:      score,
			},
			DataSource: s.Name(),
		})

		if len(candidates) >= 5 {
			break
		}
	}
	return candidates, nil
}

func capacityDiff(room model.Room, original *model.Room) int {
	d := room.Capacity - original.Capacity
	if d < 0 {
		d = -d
	}
	return d
}

// roomSimilarityScore favours rooms resembling the one the user asked for.
func roomSimilarityScore(room model.Room, original *model.Room) float64 {
	score := 0.75
	if original != nil {
		diff := capacityDiff(room, original)
		if diff == 0 {
			score += 0.20
		} else if diff <= 2 {
			score += 0.10
		}
		if room.AreaID == original.AreaID {
			score += 0.10
		}
	}
	return clampScore(score)
}
