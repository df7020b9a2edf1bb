package reactionrole_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/reactionrole"
)

const pronounsJSON = `{
  "message_content": "Pick your pronouns",
  "header_image_url": "https://example.com/pronouns.png",
  "thumbnail_url": "https://example.com/thumb.png",
  "embed_channel_name_placeholder": "welcome",
  "embed": {"title": "Pronouns", "description": "See {} first", "footer": "One at a time"},
  "reactions": [
    {"emoji": "👍", "role": "He/Him"},
    {"emoji": "👎", "role": "She/Her", "description": "she/her"}
  ],
  "reaction_type": "single"
}`

const notificationsYAML = `
message_content: Pick your pings
embed:
  title: Notifications
  description: React below
  footer: As many as you like
reactions:
  - emoji: "🔔"
    role: Announcements
  - emoji: "📅"
    role: Events
reaction_type: multi
`

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o600))
}

/*
TestLoadDefinitions_JSONAndYAML checks both encodings load and order follows the topic list.
*/
func TestLoadDefinitions_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pronouns.json", pronounsJSON)
	writeFile(t, dir, "notifications.yaml", notificationsYAML)

	definitions, err := reactionrole.LoadDefinitions(dir, []string{"notifications", "pronouns"})
	require.NoError(t, err)

	all := definitions.All()
	require.Len(t, all, 2)
	assert.Equal(t, "notifications", all[0].Name)
	assert.Equal(t, "pronouns", all[1].Name)

	pronouns, ok := definitions.Get("pronouns")
	require.True(t, ok)
	assert.Equal(t, reactionrole.ModeSingle, pronouns.Mode)
	assert.Equal(t, "welcome", pronouns.ChannelPlaceholder)
	assert.Equal(t, "she/her", pronouns.Reactions[1].Description)
	assert.Equal(t, "pronouns_header", pronouns.HeaderName())

	notifications, _ := definitions.Get("notifications")
	assert.Equal(t, "Events", notifications.Reactions[1].Role)
	assert.Empty(t, notifications.HeaderImageURL)
}

/*
TestLoadDefinitions_MissingFile reports a NOT_FOUND error.
*/
func TestLoadDefinitions_MissingFile(t *testing.T) {
	_, err := reactionrole.LoadDefinitions(t.TempDir(), []string{"locations"})

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestLoadDefinitions_Malformed reports decode failures.
*/
func TestLoadDefinitions_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pronouns.json", `{"reactions": [`)

	_, err := reactionrole.LoadDefinitions(dir, []string{"pronouns"})
	assert.Error(t, err)
}

/*
TestValidateDefinition covers the rules applied at load time.
*/
func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*reactionrole.TopicDefinition)
		fields []string
	}{
		{"valid", func(*reactionrole.TopicDefinition) {}, nil},
		{"unknown_mode", func(d *reactionrole.TopicDefinition) { d.Mode = "many" }, []string{"reaction_type"}},
		{"empty_emoji", func(d *reactionrole.TopicDefinition) { d.Reactions[0].Emoji = "" }, []string{"reactions[0].emoji"}},
		{"empty_role", func(d *reactionrole.TopicDefinition) { d.Reactions[1].Role = " " }, []string{"reactions[1].role"}},
		{"duplicate_emoji_variant", func(d *reactionrole.TopicDefinition) {
			d.Reactions = []reactionrole.ReactionSpec{{Emoji: "❤️", Role: "A"}, {Emoji: "❤", Role: "B"}}
		}, []string{"reactions[1].emoji"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			definition := pronounsTopic()
			definition.Reactions = append([]reactionrole.ReactionSpec{}, definition.Reactions...)
			tt.mutate(&definition)

			err := reactionrole.ValidateDefinition(definition)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			fields := make([]string, 0, len(ae.Details))
			for _, detail := range ae.Details {
				fields = append(fields, detail.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

/*
TestNewDefinitions_LastWriteWins keeps first-seen order but the latest document.
*/
func TestNewDefinitions_LastWriteWins(t *testing.T) {
	updated := pronounsTopic()
	updated.MessageContent = "updated"

	definitions := reactionrole.NewDefinitions(pronounsTopic(), notificationsTopic(), updated)

	assert.Equal(t, 2, definitions.Len())
	assert.Equal(t, "updated", definitions.All()[0].MessageContent)
}
