package reactionrole

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
)

// descriptionPlaceholder is replaced by the configured channel mention.
const descriptionPlaceholder = "{}"

// ErrNoEmbed marks a definition without an embed section. Such topics are
// not published.
var ErrNoEmbed = errors.New("definition has no embed section")

// Renderer turns definitions into outgoing messages.
type Renderer struct {
	channels map[string]string
}

// NewRenderer takes the placeholder name → channel ID map from config.
func NewRenderer(channels map[string]string) *Renderer {
	return &Renderer{channels: channels}
}

// Render builds the content message for a topic. Every reaction role must
// exist in roles; a missing one fails the render.
func (renderer *Renderer) Render(definition TopicDefinition, roles []Role) (OutgoingMessage, error) {
	if definition.Embed == nil {
		return OutgoingMessage{}, ErrNoEmbed
	}

	description, err := renderer.description(definition)
	if err != nil {
		return OutgoingMessage{}, err
	}

	embed := &Embed{
		Title:        definition.Embed.Title,
		Description:  description,
		Color:        constants.EmbedColor,
		Footer:       definition.Embed.Footer,
		ThumbnailURL: definition.ThumbnailURL,
	}

	if len(definition.Reactions) > 0 {
		list, err := ReactionList(definition.Reactions, roles)
		if err != nil {
			return OutgoingMessage{}, err
		}
		embed.Fields = []EmbedField{{Name: constants.EmbedBlankFieldName, Value: list}}
	}

	return OutgoingMessage{Content: definition.MessageContent, Embed: embed}, nil
}

func (renderer *Renderer) description(definition TopicDefinition) (string, error) {
	if definition.ChannelPlaceholder == "" {
		return definition.Embed.Description, nil
	}

	channelID, ok := renderer.channels[definition.ChannelPlaceholder]
	if !ok {
		return "", apperr.NotFound(fmt.Sprintf("Channel for placeholder %q", definition.ChannelPlaceholder))
	}

	return strings.Replace(definition.Embed.Description, descriptionPlaceholder, "<#"+channelID+">", 1), nil
}

// ReactionList renders the "<emoji> for <role>" lines of the embed field,
// each followed by its description when one is set.
func ReactionList(specs []ReactionSpec, roles []Role) (string, error) {
	byName := make(map[string]Role, len(roles))
	for _, role := range roles {
		if _, exists := byName[role.Name]; !exists {
			byName[role.Name] = role
		}
	}

	lines := make([]string, 0, len(specs))
	for _, spec := range specs {
		role, ok := byName[spec.Role]
		if !ok {
			return "", apperr.NotFound(fmt.Sprintf("Role %q", spec.Role))
		}

		line := spec.Emoji + " for " + role.Mention()
		if spec.Description != "" {
			line += "\n" + spec.Description + "\n"
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}
