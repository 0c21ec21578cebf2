package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"roombooking-backend/internal/recommend"
)

// ChatCompleter is the external free-text LLM capability. The scorer only
// depends on this interface; the OpenAI adapter below is the default
// implementation.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type openaiChat struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	timeout time.Duration
	log     *zap.Logger
}

// NewOpenAIChat wraps an OpenAI client as a ChatCompleter with retries and
// rate limiting.
func NewOpenAIChat(client *openai.Client, model string, limiter *rate.Limiter, timeout time.Duration, log *zap.Logger) ChatCompleter {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &openaiChat{client: client, model: model, limiter: limiter, timeout: timeout, log: log}
}

func (c *openaiChat) Complete(ctx context.Context, system, user string) (string, error) {
	const maxRetries = 3

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
			Temperature: 0.1,
		})
		cancel()

		if err == nil && len(resp.Choices) > 0 {
			return resp.Choices[0].Message.Content, nil
		}
		if err == nil {
			err = fmt.Errorf("chat completion returned no choices")
		}
		lastErr = err
		c.log.Warn("chat completion attempt failed",
			zap.Int("attempt", attempt), zap.Error(err))

		if attempt < maxRetries {
			backoff := time.Duration(attempt*3)*time.Second + time.Duration(rand.Intn(3))*time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("chat completion failed after %d attempts: %w", maxRetries, lastErr)
}

// LLMScorer scores candidate rooms by how well they match the booking
// purpose, using one chat completion per request.
type LLMScorer struct {
	chat ChatCompleter
	log  *zap.Logger
}

// NewLLMScorer creates the scorer. A nil completer yields an unavailable
// scorer, which the engine degrades to the neutral LLM score.
func NewLLMScorer(chat ChatCompleter, log *zap.Logger) *LLMScorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLMScorer{chat: chat, log: log}
}

func (s *LLMScorer) Name() string { return "llm_context" }

func (s *LLMScorer) Available() bool { return s.chat != nil }

func (s *LLMScorer) ScoreRooms(ctx context.Context, req recommend.Request, rooms []string) (map[string]float64, error) {
	if !s.Available() || len(rooms) == 0 {
		return nil, nil
	}

	raw, err := s.chat.Complete(ctx, scoringSystemPrompt, scoringPrompt(req, rooms))
	if err != nil {
		return nil, err
	}

	parsed, err := parseScores(raw)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(rooms))
	for _, room := range rooms {
		if v, ok := parsed[room]; ok {
			scores[room] = clamp01(v)
		}
	}
	s.log.Debug("llm context scores parsed",
		zap.Int("requested", len(rooms)), zap.Int("scored", len(scores)))
	return scores, nil
}

const scoringSystemPrompt = "You are a room-booking assistant that rates how well each room suits a meeting."

func scoringPrompt(req recommend.Request, rooms []string) string {
	purpose := req.Purpose
	if purpose == "" {
		purpose = "general meeting"
	}

	var list strings.Builder
	for _, r := range rooms {
		list.WriteString("- ")
		list.WriteString(r)
		list.WriteString("\n")
	}

	return fmt.Sprintf(`Rate each room below for the following booking.

PURPOSE: %s
ATTENDEES: %d
TIME: %s

ROOMS:
%s
Return your response as a JSON object with the following structure:
{
  "scores": {
    "room_name_1": 0.8,
    "room_name_2": 0.4
  }
}

Every score must be a number between 0 and 1, where 1 means the room is a perfect fit for the purpose. Use the room names exactly as given.

IMPORTANT: Your response MUST be a valid JSON object and nothing else. Do not include any explanations or text outside of the JSON.`,
		purpose, req.Capacity, req.Start.Format("Monday 15:04"), list.String())
}

// parseScores extracts the scores object from the model output. The model is
// asked for strict JSON but may wrap it in prose; the outermost braces are
// taken as the document.
func parseScores(raw string) (map[string]float64, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var doc struct {
		Scores map[string]float64 `json:"scores"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scores: %w", err)
	}
	if len(doc.Scores) == 0 {
		return nil, fmt.Errorf("response contained no scores")
	}
	return doc.Scores, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
