package affirmation_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmattingly/FoDBot-SQL/internal/affirmation"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
)

func newResponder(t *testing.T) *affirmation.Responder {
	t.Helper()
	responder, err := affirmation.New(affirmation.Document{
		Affirmations: []string{"good", "Nice", "  "},
		Responses:    []string{"Thank you!", "Aww, shucks."},
	})
	require.NoError(t, err)
	return responder.WithPicker(func(n int) int { return n - 1 })
}

/*
TestResponder_Match covers the phrase matching rules.
*/
func TestResponder_Match(t *testing.T) {
	responder := newResponder(t)

	tests := []struct {
		name    string
		content string
		matched bool
	}{
		{"exact phrase", "good bot", true},
		{"case insensitive", "What a NICE BOT you are", true},
		{"inside a sentence", "honestly, good bot.", true},
		{"affirmation without bot", "good morning", false},
		{"bot without affirmation", "bad bot", false},
		{"blank affirmation ignored", " bot", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, ok := responder.Match(tt.content)
			assert.Equal(t, tt.matched, ok)
			if tt.matched {
				assert.Equal(t, affirmation.Reply{Emoji: "❤️", Text: "Aww, shucks."}, reply)
			}
		})
	}
}

/*
TestNew_RequiresResponses rejects documents the bot could not answer from.
*/
func TestNew_RequiresResponses(t *testing.T) {
	_, err := affirmation.New(affirmation.Document{Affirmations: []string{"good"}})

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeInvalid, appErr.Code)
	assert.Equal(t, "responses", appErr.Details[0].Field)
}

/*
TestLoad reads the YAML document from disk.
*/
func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "affirmations.yaml")
	require.NoError(t, os.WriteFile(path, []byte("affirmations: [good]\nresponses: [\"Thanks!\"]\nemoji: \"💖\"\n"), 0o600))

	responder, err := affirmation.Load(path)
	require.NoError(t, err)

	reply, ok := responder.Match("Good bot")
	require.True(t, ok)
	assert.Equal(t, affirmation.Reply{Emoji: "💖", Text: "Thanks!"}, reply)

	_, err = affirmation.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, apperr.IsNotFound(err))
}
