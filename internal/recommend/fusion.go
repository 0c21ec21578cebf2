package recommend

import "sort"

// Scoring modes, named after which enrichment components are live.
const (
	ModeFullHybrid  = "full_hybrid"
	ModeMLEnhanced  = "ml_enhanced"
	ModeLLMEnhanced = "llm_enhanced"
	ModeStandard    = "standard"
)

// Neutral scores substituted when an enrichment component is unavailable or
// fails for a specific room.
const (
	NeutralMLScore  = 0.5
	NeutralLLMScore = 0.6
)

// Weights is the blend applied to base, ML, and LLM scores. The three always
// sum to 1 (up to float rounding).
type Weights struct {
	Base float64 `json:"base"`
	ML   float64 `json:"ml"`
	LLM  float64 `json:"llm"`
}

// ScoringMode returns the mode name and weight set for the given component
// availability.
func ScoringMode(mlAvailable, llmAvailable bool) (string, Weights) {
	switch {
	case mlAvailable && llmAvailable:
		return ModeFullHybrid, Weights{Base: 0.85, ML: 0.075, LLM: 0.075}
	case mlAvailable:
		return ModeMLEnhanced, Weights{Base: 0.9, ML: 0.1}
	case llmAvailable:
		return ModeLLMEnhanced, Weights{Base: 0.9, LLM: 0.1}
	default:
		return ModeStandard, Weights{Base: 1.0}
	}
}

// fuse attaches enrichment scores by room name and computes the weighted
// final score for every candidate. Missing per-room scores fall back to the
// neutral constants.
func fuse(candidates []Candidate, mlScores, llmScores map[string]float64, w Weights) []Candidate {
	fused := make([]Candidate, len(candidates))
	for i, c := range candidates {
		ml := scoreFor(mlScores, c.Suggestion.RoomName, NeutralMLScore)
		llm := scoreFor(llmScores, c.Suggestion.RoomName, NeutralLLMScore)

		c.MLScore = ml
		c.LLMScore = llm
		c.FinalScore = w.Base*c.Score + w.ML*ml + w.LLM*llm
		fused[i] = c
	}
	return fused
}

func scoreFor(scores map[string]float64, room string, neutral float64) float64 {
	if s, ok := scores[room]; ok {
		return clampScore(s)
	}
	return neutral
}

// dedupeSlots drops repeated (room, start time) pairs, keeping the first
// occurrence. Several strategies can propose the same room for the requested
// slot; distinct time alternatives for one room all survive.
func dedupeSlots(candidates []Candidate) []Candidate {
	type slot struct {
		room  string
		start int64
	}
	seen := make(map[slot]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		k := slot{c.Suggestion.RoomName, c.Suggestion.StartTime.Unix()}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}

// sortByPriority orders candidates by type tier first (alternative_room
// before alternative_time before smart_scheduling before proactive), then by
// final score, highest first.
func sortByPriority(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := candidates[i].Type.Priority(), candidates[j].Type.Priority()
		if pi != pj {
			return pi < pj
		}
		return candidates[i].FinalScore > candidates[j].FinalScore
	})
}

func topK(candidates []Candidate, k int) []Candidate {
	if len(candidates) > k {
		return candidates[:k]
	}
	return candidates
}
