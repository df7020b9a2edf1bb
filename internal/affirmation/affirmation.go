// Package affirmation answers members who say something nice about the bot.
package affirmation

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/validate"
)

// defaultEmoji is the reaction added when the document does not name one.
const defaultEmoji = "❤️"

// Document is the on-disk shape of the affirmations file.
type Document struct {
	Affirmations []string `yaml:"affirmations"`
	Responses    []string `yaml:"responses"`
	Emoji        string   `yaml:"emoji"`
}

// Reply is what the bot does in answer to a compliment.
type Reply struct {
	Emoji string
	Text  string
}

// Responder matches message text against the configured affirmations.
type Responder struct {
	affirmations []string
	responses    []string
	emoji        string
	pick         func(n int) int
}

// New builds a Responder. Affirmations are compared in lower case.
func New(document Document) (*Responder, error) {
	v := &validate.Validator{}
	v.Custom("affirmations", len(document.Affirmations) == 0, "at least one affirmation is required")
	v.Custom("responses", len(document.Responses) == 0, "at least one response is required")
	if err := v.Err(); err != nil {
		return nil, err
	}

	affirmations := make([]string, 0, len(document.Affirmations))
	for _, affirmation := range document.Affirmations {
		if trimmed := strings.TrimSpace(affirmation); trimmed != "" {
			affirmations = append(affirmations, strings.ToLower(trimmed))
		}
	}

	emoji := document.Emoji
	if emoji == "" {
		emoji = defaultEmoji
	}

	return &Responder{
		affirmations: affirmations,
		responses:    document.Responses,
		emoji:        emoji,
		pick:         rand.IntN,
	}, nil
}

// Load reads a YAML affirmations file.
func Load(path string) (*Responder, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, apperr.NotFoundCause("Affirmations file", err)
	}
	if err != nil {
		return nil, fmt.Errorf("read affirmations: %w", err)
	}

	var document Document
	if err := yaml.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("parse affirmations %s: %w", path, err)
	}

	return New(document)
}

// Match reports the reply for content, if it contains "<affirmation> bot".
// The first affirmation in file order wins.
func (r *Responder) Match(content string) (Reply, bool) {
	lowered := strings.ToLower(content)
	for _, affirmation := range r.affirmations {
		if strings.Contains(lowered, affirmation+" bot") {
			return Reply{Emoji: r.emoji, Text: r.responses[r.pick(len(r.responses))]}, true
		}
	}
	return Reply{}, false
}

// WithPicker replaces the random response picker.
func (r *Responder) WithPicker(pick func(n int) int) *Responder {
	r.pick = pick
	return r
}
