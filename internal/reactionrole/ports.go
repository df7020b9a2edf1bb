package reactionrole

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// Guild is the slice of the chat platform that owns roles and members.
// Every call is a network round trip; Member always reads fresh state.
type Guild interface {
	Roles(ctx context.Context) ([]Role, error)
	Member(ctx context.Context, userID string) (*Member, error)
	AddRole(ctx context.Context, userID, roleID string) error
	RemoveRoles(ctx context.Context, userID string, roleIDs []string) error
}

// Channel is the roles channel. Fetch returns an apperr NOT_FOUND error when
// the message no longer exists.
type Channel interface {
	Send(ctx context.Context, message OutgoingMessage) (snowflake.ID, error)
	Fetch(ctx context.Context, messageID snowflake.ID) error
	Delete(ctx context.Context, messageID snowflake.ID) error
	React(ctx context.Context, messageID snowflake.ID, emoji string) error
	Unreact(ctx context.Context, messageID snowflake.ID, emoji, userID string) error
}

// OutgoingMessage is a message to send. Embed may be nil.
type OutgoingMessage struct {
	Content string
	Embed   *Embed
}

// Embed is a rendered embed, independent of the platform SDK.
type Embed struct {
	Title        string
	Description  string
	Color        int
	Footer       string
	ThumbnailURL string
	Fields       []EmbedField
}

// EmbedField is one name/value block of an embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}
