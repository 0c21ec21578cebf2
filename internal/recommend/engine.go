package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"roombooking-backend/config"
	"roombooking-backend/internal/roomcache"
)

// Scorer is an optional enrichment component producing a per-room score in
// [0,1]. Unavailable or failing scorers degrade to a neutral constant; they
// are never fatal.
type Scorer interface {
	Name() string
	Available() bool
	ScoreRooms(ctx context.Context, req Request, rooms []string) (map[string]float64, error)
}

// Status describes the engine's current composition.
type Status struct {
	Mode            string   `json:"mode"`
	MLAvailable     bool     `json:"ml_available"`
	LLMAvailable    bool     `json:"llm_available"`
	Weights         Weights  `json:"weights"`
	Strategies      []string `json:"strategies"`
	MaxAlternatives int      `json:"max_alternatives"`
}

// Engine combines the four candidate strategies with optional ML and LLM
// enrichment into one ranked recommendation list. It is read-only and safe
// for concurrent use; every request is processed independently.
type Engine struct {
	strategies []Strategy
	ml         Scorer
	llm        Scorer
	rooms      *roomcache.Cache
	maxResults int
	log        *zap.Logger
}

// NewEngine creates an engine over the given booking directory with the four
// standard strategies and no enrichment.
func NewEngine(dir Directory, cfg config.RecommendConfig, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	maxResults := cfg.MaxAlternatives
	if maxResults <= 0 {
		maxResults = 8
	}
	return &Engine{
		strategies: []Strategy{
			NewAlternativeTimeStrategy(dir, cfg.NextDaySearchDays, cfg.BusinessStartHour, cfg.BusinessEndHour),
			NewAlternativeRoomStrategy(dir),
			NewProactiveStrategy(dir, cfg.ProactiveDays),
			NewSmartSchedulingStrategy(dir, cfg.UtilizationDays),
		},
		maxResults: maxResults,
		log:        log,
	}
}

// SetMLScorer attaches the embedding-similarity scorer.
func (e *Engine) SetMLScorer(s Scorer) { e.ml = s }

// SetLLMScorer attaches the context scorer.
func (e *Engine) SetLLMScorer(s Scorer) { e.llm = s }

// SetRoomCache attaches the room-name cache used by the fallback path.
func (e *Engine) SetRoomCache(rc *roomcache.Cache) { e.rooms = rc }

// Status reports the mode, weights, and component availability.
func (e *Engine) Status() Status {
	mode, w := ScoringMode(e.mlAvailable(), e.llmAvailable())
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return Status{
		Mode:            mode,
		MLAvailable:     e.mlAvailable(),
		LLMAvailable:    e.llmAvailable(),
		Weights:         w,
		Strategies:      names,
		MaxAlternatives: e.maxResults,
	}
}

// Recommend produces a ranked, duration-normalized candidate list for the
// request. It always returns at least one candidate: strategy failures are
// logged and skipped, enrichment failures degrade to neutral scores, and if
// nothing can be generated a synthetic fallback for the requested slot is
// returned.
func (e *Engine) Recommend(ctx context.Context, req Request) []Candidate {
	base := e.generateBase(ctx, req)
	if len(base) == 0 {
		e.log.Warn("no strategy produced candidates, using fallback",
			zap.String("room", req.RoomName), zap.String("user", req.UserID))
		base = []Candidate{e.fallbackCandidate(ctx, req)}
	}

	candidates, err := e.enhance(ctx, req, base)
	if err != nil {
		e.log.Error("enhanced pipeline failed, serving base-only scores", zap.Error(err))
		_, w := ScoringMode(false, false)
		candidates = fuse(base, nil, nil, w)
		candidates = dedupeSlots(candidates)
		sortByPriority(candidates)
		candidates = topK(candidates, e.maxResults)
	}

	normalizeDurations(candidates, req.Duration())
	e.logRanking(req, candidates)
	return candidates
}

// RecommendRaw parses a wire-shaped request and recommends. The only error a
// caller can see is an invalid request.
func (e *Engine) RecommendRaw(ctx context.Context, raw RawRequest) ([]Candidate, error) {
	req, err := ParseRequest(raw)
	if err != nil {
		return nil, err
	}
	return e.Recommend(ctx, req), nil
}

// RecommendAsync is the explicit asynchronous entry point; the channel
// receives exactly one candidate list and is then closed.
func (e *Engine) RecommendAsync(ctx context.Context, req Request) <-chan []Candidate {
	out := make(chan []Candidate, 1)
	go func() {
		defer close(out)
		out <- e.Recommend(ctx, req)
	}()
	return out
}

// generateBase fans the four strategies out concurrently. They are
// independent read-only queries; a failing strategy contributes nothing.
// Collection order is fixed so downstream dedupe is deterministic.
func (e *Engine) generateBase(ctx context.Context, req Request) []Candidate {
	results := make([][]Candidate, len(e.strategies))

	var wg sync.WaitGroup
	for i, st := range e.strategies {
		wg.Add(1)
		go func(i int, st Strategy) {
			defer wg.Done()
			candidates, err := st.Generate(ctx, req)
			if err != nil {
				e.log.Warn("strategy failed",
					zap.String("strategy", st.Name()), zap.Error(err))
				return
			}
			results[i] = candidates
		}(i, st)
	}
	wg.Wait()

	var base []Candidate
	for _, r := range results {
		base = append(base, r...)
	}
	return base
}

// enhance runs enrichment scoring and fusion. Scorers are pluggable outside
// code; a panic in one is converted to an error so Recommend can fall back
// to base-only output.
func (e *Engine) enhance(ctx context.Context, req Request, base []Candidate) (candidates []Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			candidates = nil
			err = fmt.Errorf("enrichment panicked: %v", r)
		}
	}()

	mlOK, llmOK := e.mlAvailable(), e.llmAvailable()
	mode, w := ScoringMode(mlOK, llmOK)

	rooms := uniqueRooms(base)

	var mlScores, llmScores map[string]float64
	if mlOK {
		mlScores = e.runScorer(ctx, e.ml, req, rooms)
	}
	if llmOK {
		llmScores = e.runScorer(ctx, e.llm, req, rooms)
	}

	candidates = fuse(base, mlScores, llmScores, w)
	candidates = dedupeSlots(candidates)
	sortByPriority(candidates)
	candidates = topK(candidates, e.maxResults)

	e.log.Debug("fusion complete",
		zap.String("mode", mode),
		zap.Int("base", len(base)),
		zap.Int("returned", len(candidates)))
	return candidates, nil
}

// runScorer invokes one enrichment scorer; on failure every room falls back
// to the neutral constant via a nil map.
func (e *Engine) runScorer(ctx context.Context, s Scorer, req Request, rooms []string) map[string]float64 {
	scores, err := s.ScoreRooms(ctx, req, rooms)
	if err != nil {
		e.log.Warn("enrichment scorer failed, using neutral scores",
			zap.String("scorer", s.Name()), zap.Error(err))
		return nil
	}
	return scores
}

// fallbackCandidate proposes the originally requested slot so the caller
// never receives an empty list. When the requested room is unknown, the
// first known active room substitutes for it.
func (e *Engine) fallbackCandidate(ctx context.Context, req Request) Candidate {
	roomName := req.RoomName
	if e.rooms != nil && !e.rooms.Contains(ctx, roomName) {
		if known, err := e.rooms.Known(ctx); err == nil && len(known) > 0 {
			roomName = known[0]
		}
	}

	const score = 0.75
	return Candidate{
		Type:   TypeAlternativeTime,
		Score:  score,
		Reason: fmt.Sprintf("Recommended time slot for %s", roomName),
		Suggestion: Suggestion{
			RoomName:        roomName,
			Capacity:        req.Capacity,
			StartTime:       req.Start,
			EndTime:         req.End,
			DurationMinutes: req.DurationMinutes(),
			Confidence:      score,
		},
		DataSource: "fallback",
	}
}

func (e *Engine) mlAvailable() bool  { return e.ml != nil && e.ml.Available() }
func (e *Engine) llmAvailable() bool { return e.llm != nil && e.llm.Available() }

func (e *Engine) logRanking(req Request, candidates []Candidate) {
	fields := []zap.Field{
		zap.String("user", req.UserID),
		zap.String("room", req.RoomName),
		zap.Int("candidates", len(candidates)),
	}
	if len(candidates) > 0 {
		top := candidates[0]
		fields = append(fields,
			zap.String("top_type", string(top.Type)),
			zap.String("top_room", top.Suggestion.RoomName),
			zap.Float64("top_final_score", top.FinalScore))
	}
	e.log.Info("recommendations generated", fields...)
}

// normalizeDurations rewrites every candidate's end time to start + the
// originally requested duration. Strategies may compute ad hoc slot lengths;
// a recommendation must never silently shrink the meeting.
func normalizeDurations(candidates []Candidate, d time.Duration) {
	minutes := int(d.Minutes())
	for i := range candidates {
		candidates[i].Suggestion.EndTime = candidates[i].Suggestion.StartTime.Add(d)
		candidates[i].Suggestion.DurationMinutes = minutes
	}
}

func uniqueRooms(candidates []Candidate) []string {
	seen := make(map[string]bool, len(candidates))
	var rooms []string
	for _, c := range candidates {
		name := c.Suggestion.RoomName
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		rooms = append(rooms, name)
	}
	return rooms
}
