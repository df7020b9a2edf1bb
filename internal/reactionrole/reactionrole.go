// Package reactionrole keeps the role messages in the roles channel, their
// reactions, the publication ledger and members' roles consistent.
//
// Definitions and the ledger are projected into an [Index] that the
// [ReactionHandler] reads on every reaction. The [Publisher] replaces the
// live messages and the ledger rows, then asks the [Registry] to rebuild the
// index. The registry swaps whole snapshots, so a handler never observes a
// half-built index.
package reactionrole

import (
	"slices"

	"github.com/disgoorg/snowflake/v2"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
)

// Mode is the exclusivity policy of a topic's roles.
type Mode string

const (
	// ModeSingle allows a member at most one of the topic's roles.
	ModeSingle Mode = "single"
	// ModeMulti allows any subset.
	ModeMulti Mode = "multi"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeSingle || m == ModeMulti
}

// ReactionSpec binds one emoji of a topic to a role name.
type ReactionSpec struct {
	Emoji       string `json:"emoji" yaml:"emoji"`
	Role        string `json:"role" yaml:"role"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// EmbedDefinition is the embed section of a topic document.
type EmbedDefinition struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Footer      string `json:"footer" yaml:"footer"`
}

// TopicDefinition is one definition document. Name comes from the file name.
type TopicDefinition struct {
	Name               string           `json:"-" yaml:"-"`
	MessageContent     string           `json:"message_content" yaml:"message_content"`
	HeaderImageURL     string           `json:"header_image_url,omitempty" yaml:"header_image_url,omitempty"`
	ThumbnailURL       string           `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	ChannelPlaceholder string           `json:"embed_channel_name_placeholder,omitempty" yaml:"embed_channel_name_placeholder,omitempty"`
	Embed              *EmbedDefinition `json:"embed,omitempty" yaml:"embed,omitempty"`
	Reactions          []ReactionSpec   `json:"reactions" yaml:"reactions"`
	Mode               Mode             `json:"reaction_type" yaml:"reaction_type"`
}

// HeaderName is the ledger name of the topic's header-image message.
func (d TopicDefinition) HeaderName() string {
	return HeaderName(d.Name)
}

// HeaderName derives the header ledger name for a topic.
func HeaderName(topic string) string {
	return topic + constants.HeaderSuffix
}

// PublicationRecord is one row of the publication ledger. Header rows have
// an empty Mode.
type PublicationRecord struct {
	MessageID snowflake.ID
	Name      string
	Mode      Mode
}

// IsContent reports whether the row represents a topic's reaction message.
func (r PublicationRecord) IsContent() bool {
	return r.Mode != ""
}

// Role is a guild role as resolved at rebuild or render time.
type Role struct {
	ID   string
	Name string
}

// Mention renders the role mention markup.
func (r Role) Mention() string {
	return "<@&" + r.ID + ">"
}

// Member is a guild member with the role IDs it held when fetched.
type Member struct {
	ID          string
	DisplayName string
	RoleIDs     []string
}

// HasRole reports whether the member held roleID when fetched.
func (m *Member) HasRole(roleID string) bool {
	return slices.Contains(m.RoleIDs, roleID)
}
