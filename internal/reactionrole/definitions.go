package reactionrole

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/validate"
	"github.com/zmattingly/FoDBot-SQL/pkg/emoji"
)

// Discord limits that a definition must respect to be publishable.
const (
	maxReactions        = 20
	maxEmbedTitle       = 256
	maxEmbedDescription = 4096
	maxEmbedFooter      = 2048
	maxMessageContent   = 2000
)

// definitionExtensions are tried in order for each topic.
var definitionExtensions = []string{".json", ".yaml", ".yml"}

// Definitions is the read-only Definition Store. Enumeration follows the
// configured topic order.
type Definitions struct {
	order  []string
	byName map[string]TopicDefinition
}

// NewDefinitions builds a store from already decoded definitions.
func NewDefinitions(definitions ...TopicDefinition) *Definitions {
	store := &Definitions{byName: make(map[string]TopicDefinition, len(definitions))}
	for _, definition := range definitions {
		if _, exists := store.byName[definition.Name]; !exists {
			store.order = append(store.order, definition.Name)
		}
		store.byName[definition.Name] = definition
	}
	return store
}

// LoadDefinitions reads one document per topic from dir. A topic may be
// written as JSON or YAML; the first existing extension wins.
func LoadDefinitions(dir string, topics []string) (*Definitions, error) {
	definitions := make([]TopicDefinition, 0, len(topics))

	for _, topic := range topics {
		definition, err := loadDefinition(dir, topic)
		if err != nil {
			return nil, err
		}
		if err := ValidateDefinition(definition); err != nil {
			return nil, fmt.Errorf("definition %q: %w", topic, err)
		}
		definitions = append(definitions, definition)
	}

	return NewDefinitions(definitions...), nil
}

func loadDefinition(dir, topic string) (TopicDefinition, error) {
	for _, extension := range definitionExtensions {
		path := filepath.Join(dir, topic+extension)

		raw, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return TopicDefinition{}, fmt.Errorf("definition %q: %w", topic, err)
		}

		var definition TopicDefinition
		if extension == ".json" {
			err = json.Unmarshal(raw, &definition)
		} else {
			err = yaml.Unmarshal(raw, &definition)
		}
		if err != nil {
			return TopicDefinition{}, fmt.Errorf("definition %q: decode %s: %w", topic, path, err)
		}

		definition.Name = topic
		return definition, nil
	}

	return TopicDefinition{}, apperr.NotFound(fmt.Sprintf("Definition file for topic %q in %s", topic, dir))
}

// ValidateDefinition checks a topic document against Discord's limits and
// the engine's own rules: a known mode and unique, non-empty emoji.
func ValidateDefinition(definition TopicDefinition) error {
	v := &validate.Validator{}

	v.Required("name", definition.Name).
		OneOf("reaction_type", string(definition.Mode), string(ModeSingle), string(ModeMulti)).
		MaxLen("message_content", definition.MessageContent, maxMessageContent).
		Custom("reactions", len(definition.Reactions) > maxReactions,
			fmt.Sprintf("Discord allows at most %d reactions per message", maxReactions))

	if definition.Embed != nil {
		v.MaxLen("embed.title", definition.Embed.Title, maxEmbedTitle).
			MaxLen("embed.description", definition.Embed.Description, maxEmbedDescription).
			MaxLen("embed.footer", definition.Embed.Footer, maxEmbedFooter)
	}

	seen := make(map[string]struct{}, len(definition.Reactions))
	for i, spec := range definition.Reactions {
		field := fmt.Sprintf("reactions[%d]", i)
		v.Required(field+".emoji", spec.Emoji).Required(field+".role", spec.Role)

		key := emoji.Key(spec.Emoji)
		_, duplicate := seen[key]
		v.Custom(field+".emoji", duplicate && key != "", "Emoji is already bound in this topic")
		seen[key] = struct{}{}
	}

	return v.Err()
}

// Get returns the definition for a topic.
func (d *Definitions) Get(name string) (TopicDefinition, bool) {
	definition, ok := d.byName[name]
	return definition, ok
}

// All returns every definition in enumeration order.
func (d *Definitions) All() []TopicDefinition {
	result := make([]TopicDefinition, 0, len(d.order))
	for _, name := range d.order {
		result = append(result, d.byName[name])
	}
	return result
}

// Len returns the number of topics.
func (d *Definitions) Len() int {
	return len(d.order)
}
