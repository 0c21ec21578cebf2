package recommend

import "time"

// Type identifies which kind of alternative a candidate proposes. The set is
// closed; fusion sorting is exhaustive over it.
type Type string

const (
	TypeAlternativeRoom Type = "alternative_room"
	TypeAlternativeTime Type = "alternative_time"
	TypeSmartScheduling Type = "smart_scheduling"
	TypeProactive       Type = "proactive"
)

// Priority returns the sort tier of a candidate type; lower sorts first.
// Unknown types sink to the bottom.
func (t Type) Priority() int {
	switch t {
	case TypeAlternativeRoom:
		return 1
	case TypeAlternativeTime:
		return 2
	case TypeSmartScheduling:
		return 3
	case TypeProactive:
		return 4
	default:
		return 5
	}
}

// Suggestion is the concrete booking a candidate proposes.
type Suggestion struct {
	RoomName        string    `json:"room_name"`
	Capacity        int       `json:"capacity"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Confidence      float64   `json:"confidence"`
}

// Candidate is a single scored recommendation. Candidates are built fresh per
// request and discarded after being returned; they have no persistent
// identity.
type Candidate struct {
	Type       Type       `json:"type"`
	Score      float64    `json:"score"`
	Reason     string     `json:"reason"`
	Suggestion Suggestion `json:"suggestion"`
	FinalScore float64    `json:"final_score"`
	MLScore    float64    `json:"ml_score"`
	LLMScore   float64    `json:"llm_score"`
	DataSource string     `json:"data_source"`

	// sameDay separates the two AlternativeTime tiers; it never leaves the
	// package.
	sameDay bool
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
