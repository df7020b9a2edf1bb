package reactionrole

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/ctxutil"
	"github.com/zmattingly/FoDBot-SQL/pkg/slice"
)

// ReactionEvent is a raw reaction-add notification.
type ReactionEvent struct {
	MessageID snowflake.ID
	ChannelID snowflake.ID
	UserID    string
	Emoji     string
	IsBot     bool
}

// Outcome classifies what a reaction did.
type Outcome string

const (
	// OutcomeIgnored: bot user or another channel. Nothing was touched.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeUnmatched: the reaction was retracted but mapped to no role or member.
	OutcomeUnmatched Outcome = "unmatched"
	// OutcomeGranted: the target role was added.
	OutcomeGranted Outcome = "granted"
	// OutcomeRevoked: the target role was removed.
	OutcomeRevoked Outcome = "revoked"
	// OutcomeFailed: the target role mutation itself failed.
	OutcomeFailed Outcome = "failed"
)

// ReactionHandler toggles roles in response to reactions in the roles channel.
//
// It takes no lock. Two overlapping reactions of one member on one message
// each read the member's roles fresh and may both pick the same direction.
type ReactionHandler struct {
	snapshots    SnapshotSource
	guild        Guild
	channel      Channel
	rolesChannel snowflake.ID
}

// NewReactionHandler only acts on reactions added in rolesChannel.
func NewReactionHandler(snapshots SnapshotSource, guild Guild, channel Channel, rolesChannel snowflake.ID) *ReactionHandler {
	return &ReactionHandler{
		snapshots:    snapshots,
		guild:        guild,
		channel:      channel,
		rolesChannel: rolesChannel,
	}
}

// Handle processes one reaction-add event. The returned error is for logging
// only; resolution failures are reported as [OutcomeUnmatched] with no error.
func (handler *ReactionHandler) Handle(ctx context.Context, event ReactionEvent) (Outcome, error) {
	if event.IsBot || event.ChannelID != handler.rolesChannel {
		return OutcomeIgnored, nil
	}

	logger := ctxutil.GetLogger(ctx).With(
		slog.String("message_id", event.MessageID.String()),
		slog.String("user_id", event.UserID),
		slog.String("emoji", event.Emoji),
	)

	// The reaction is an input, never state: retract it whatever happens next.
	if err := handler.channel.Unreact(ctx, event.MessageID, event.Emoji, event.UserID); err != nil {
		logger.Warn("reaction_retract_failed", slog.Any("error", err))
	}

	entry, ok := handler.snapshots.Current().Index.Lookup(event.MessageID)
	if !ok {
		logger.Debug("reaction_on_unknown_message")
		return OutcomeUnmatched, nil
	}

	role, ok := entry.RoleFor(event.Emoji)
	if !ok {
		logger.Debug("reaction_emoji_unbound", slog.String("topic", entry.Topic))
		return OutcomeUnmatched, nil
	}

	member, err := handler.guild.Member(ctx, event.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			logger.Debug("reaction_member_unresolved")
			return OutcomeUnmatched, nil
		}
		return OutcomeUnmatched, fmt.Errorf("fetch member %s: %w", event.UserID, err)
	}

	logger = logger.With(slog.String("topic", entry.Topic), slog.String("role", role.Name))

	if member.HasRole(role.ID) {
		if err := handler.guild.RemoveRoles(ctx, member.ID, []string{role.ID}); err != nil {
			return OutcomeFailed, fmt.Errorf("revoke role %s: %w", role.Name, err)
		}
		logger.Info("role_revoked", slog.String("member", member.DisplayName))
		return OutcomeRevoked, nil
	}

	if err := handler.guild.AddRole(ctx, member.ID, role.ID); err != nil {
		return OutcomeFailed, fmt.Errorf("grant role %s: %w", role.Name, err)
	}
	logger.Info("role_granted", slog.String("member", member.DisplayName))

	if entry.Mode != ModeSingle {
		return OutcomeGranted, nil
	}

	// Single mode: drop every other role of this message the member held.
	held := slice.Set(member.RoleIDs)
	siblings := slice.Filter(entry.RoleIDs(), func(id string) bool {
		_, holds := held[id]
		return holds && id != role.ID
	})
	if len(siblings) == 0 {
		return OutcomeGranted, nil
	}

	if err := handler.guild.RemoveRoles(ctx, member.ID, siblings); err != nil {
		// The grant stands; there is nothing to roll back to.
		return OutcomeGranted, fmt.Errorf("revoke sibling roles: %w", err)
	}
	logger.Info("sibling_roles_revoked", slog.Int("count", len(siblings)))

	return OutcomeGranted, nil
}
