package enrich

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"roombooking-backend/internal/recommend"
)

// Embedder turns texts into vectors. The OpenAI-backed implementation is the
// default; tests substitute a deterministic fake.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

type openaiEmbedder struct {
	client  *openai.Client
	model   openai.EmbeddingModel
	limiter *rate.Limiter
}

// NewOpenAIEmbedder wraps an OpenAI client as an Embedder. Every call waits
// on the shared rate limiter first.
func NewOpenAIEmbedder(client *openai.Client, model string, limiter *rate.Limiter) Embedder {
	return &openaiEmbedder{
		client:  client,
		model:   openai.EmbeddingModel(model),
		limiter: limiter,
	}
}

func (e *openaiEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: inputs,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("embedding response has %d vectors for %d inputs", len(resp.Data), len(inputs))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// MLScorer scores candidate rooms by embedding similarity between the
// request text and each room name.
type MLScorer struct {
	embedder Embedder
	log      *zap.Logger
}

// NewMLScorer creates the scorer. A nil embedder yields an unavailable
// scorer, which the engine degrades to the neutral ML score.
func NewMLScorer(embedder Embedder, log *zap.Logger) *MLScorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &MLScorer{embedder: embedder, log: log}
}

func (s *MLScorer) Name() string { return "ml_similarity" }

func (s *MLScorer) Available() bool { return s.embedder != nil }

// ScoreRooms embeds the request and every room in one call and maps cosine
// similarity into [0,1].
func (s *MLScorer) ScoreRooms(ctx context.Context, req recommend.Request, rooms []string) (map[string]float64, error) {
	if !s.Available() || len(rooms) == 0 {
		return nil, nil
	}

	inputs := append([]string{requestText(req)}, rooms...)
	vectors, err := s.embedder.Embed(ctx, inputs)
	if err != nil {
		return nil, err
	}

	query := vectors[0]
	scores := make(map[string]float64, len(rooms))
	for i, room := range rooms {
		sim := cosineSimilarity(query, vectors[i+1])
		scores[room] = (sim + 1) / 2
	}

	s.log.Debug("ml similarity computed", zap.Int("rooms", len(scores)))
	return scores, nil
}

// requestText renders the request as the query document for similarity.
func requestText(req recommend.Request) string {
	purpose := req.Purpose
	if purpose == "" {
		purpose = "general meeting"
	}
	return fmt.Sprintf("%s for %d people on %s at %02d:00",
		purpose, req.Capacity, req.Start.Weekday(), req.Start.Hour())
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
