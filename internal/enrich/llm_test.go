package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	response string
	err      error
	lastUser string
}

func (f *fakeChat) Complete(_ context.Context, _, user string) (string, error) {
	f.lastUser = user
	return f.response, f.err
}

func TestLLMScorer_ParsesScores(t *testing.T) {
	chat := &fakeChat{response: `{"scores": {"LT1": 0.8, "Hall": 0.3}}`}
	s := NewLLMScorer(chat, nil)
	require.True(t, s.Available())

	got, err := s.ScoreRooms(context.Background(), mlRequest(), []string{"LT1", "Hall"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"LT1": 0.8, "Hall": 0.3}, got)

	assert.Contains(t, chat.lastUser, "project review")
	assert.Contains(t, chat.lastUser, "- LT1")
}

func TestLLMScorer_JSONWrappedInProse(t *testing.T) {
	chat := &fakeChat{response: "Sure! Here are the ratings:\n{\"scores\": {\"LT1\": 0.9}}\nHope that helps."}
	s := NewLLMScorer(chat, nil)

	got, err := s.ScoreRooms(context.Background(), mlRequest(), []string{"LT1"})
	require.NoError(t, err)
	assert.Equal(t, 0.9, got["LT1"])
}

func TestLLMScorer_ClampsOutOfRange(t *testing.T) {
	chat := &fakeChat{response: `{"scores": {"LT1": 1.4, "Hall": -0.2}}`}
	s := NewLLMScorer(chat, nil)

	got, err := s.ScoreRooms(context.Background(), mlRequest(), []string{"LT1", "Hall"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got["LT1"])
	assert.Equal(t, 0.0, got["Hall"])
}

func TestLLMScorer_UnscoredRoomOmitted(t *testing.T) {
	chat := &fakeChat{response: `{"scores": {"LT1": 0.7}}`}
	s := NewLLMScorer(chat, nil)

	got, err := s.ScoreRooms(context.Background(), mlRequest(), []string{"LT1", "Hall"})
	require.NoError(t, err)
	_, ok := got["Hall"]
	assert.False(t, ok, "the engine substitutes the neutral score for missing rooms")
}

func TestLLMScorer_Errors(t *testing.T) {
	tests := []struct {
		name string
		chat *fakeChat
	}{
		{"completion error", &fakeChat{err: errors.New("rate limited")}},
		{"no JSON at all", &fakeChat{response: "I cannot rate these rooms."}},
		{"invalid JSON", &fakeChat{response: `{"scores": {"LT1": }`}},
		{"empty scores", &fakeChat{response: `{"scores": {}}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLLMScorer(tt.chat, nil)
			_, err := s.ScoreRooms(context.Background(), mlRequest(), []string{"LT1"})
			assert.Error(t, err)
		})
	}
}

func TestLLMScorer_Unavailable(t *testing.T) {
	s := NewLLMScorer(nil, nil)
	assert.False(t, s.Available())

	got, err := s.ScoreRooms(context.Background(), mlRequest(), []string{"LT1"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseScores(t *testing.T) {
	got, err := parseScores("prefix {\"scores\": {\"a\": 0.5}} suffix")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 0.5}, got)

	_, err = parseScores("}{")
	assert.Error(t, err)
}

func TestScoringPrompt_DefaultPurpose(t *testing.T) {
	req := mlRequest()
	req.Purpose = ""
	p := scoringPrompt(req, []string{"LT1"})
	assert.True(t, strings.Contains(p, "general meeting"))
	assert.Contains(t, p, "ATTENDEES: 6")
}
