// Copyright (c) 2026 FoDBot. All rights reserved.

/*
Package discord adapts a discordgo session to the ports of the reaction-role
engine.

Architecture:

  - Client implements reactionrole.Guild, reactionrole.Channel and
    reactionrole.CommandSurface for the single configured guild.
  - Every REST call carries the caller's context; role mutations also carry
    the "ReactionRole" audit-log reason.
  - Unknown message, member and role responses are mapped to NOT_FOUND so the
    engine can treat them as resolution failures.
*/
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
	"github.com/zmattingly/FoDBot-SQL/internal/reactionrole"
	"github.com/zmattingly/FoDBot-SQL/pkg/emoji"
	"github.com/zmattingly/FoDBot-SQL/pkg/slice"
)

// Session is the subset of *discordgo.Session the client calls.
type Session interface {
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactionRemove(channelID, messageID, emojiID, userID string, options ...discordgo.RequestOption) error
	UserChannelPermissions(userID, channelID string, options ...discordgo.RequestOption) (int64, error)
}

// Client talks to one guild and its roles channel.
type Client struct {
	session      Session
	guildID      string
	rolesChannel string
}

func NewClient(session Session, guildID, rolesChannel snowflake.ID) *Client {
	return &Client{
		session:      session,
		guildID:      guildID.String(),
		rolesChannel: rolesChannel.String(),
	}
}

// # Guild

// Roles lists the guild's roles in the order Discord returns them.
func (client *Client) Roles(ctx context.Context) ([]reactionrole.Role, error) {
	roles, err := client.session.GuildRoles(client.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err, "Guild")
	}

	return slice.Map(roles, func(role *discordgo.Role) reactionrole.Role {
		return reactionrole.Role{ID: role.ID, Name: role.Name}
	}), nil
}

// Member fetches the member over REST so the role set is never stale.
func (client *Client) Member(ctx context.Context, userID string) (*reactionrole.Member, error) {
	member, err := client.session.GuildMember(client.guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err, "Member")
	}

	return &reactionrole.Member{
		ID:          userID,
		DisplayName: displayName(member),
		RoleIDs:     member.Roles,
	}, nil
}

func (client *Client) AddRole(ctx context.Context, userID, roleID string) error {
	err := client.session.GuildMemberRoleAdd(client.guildID, userID, roleID,
		discordgo.WithContext(ctx),
		discordgo.WithAuditLogReason(constants.AuditReasonReactionRole),
	)
	return classify(err, "Role")
}

// RemoveRoles removes each role in turn and stops at the first failure.
func (client *Client) RemoveRoles(ctx context.Context, userID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		err := client.session.GuildMemberRoleRemove(client.guildID, userID, roleID,
			discordgo.WithContext(ctx),
			discordgo.WithAuditLogReason(constants.AuditReasonReactionRole),
		)
		if err != nil {
			return fmt.Errorf("remove role %s: %w", roleID, classify(err, "Role"))
		}
	}
	return nil
}

// # Roles Channel

func (client *Client) Send(ctx context.Context, message reactionrole.OutgoingMessage) (snowflake.ID, error) {
	payload := &discordgo.MessageSend{Content: message.Content}
	if message.Embed != nil {
		payload.Embeds = []*discordgo.MessageEmbed{toEmbed(message.Embed)}
	}

	sent, err := client.session.ChannelMessageSendComplex(client.rolesChannel, payload, discordgo.WithContext(ctx))
	if err != nil {
		return 0, classify(err, "Channel")
	}

	id, err := snowflake.Parse(sent.ID)
	if err != nil {
		return 0, fmt.Errorf("discord returned message id %q: %w", sent.ID, err)
	}
	return id, nil
}

// Fetch returns NOT_FOUND when the message no longer exists.
func (client *Client) Fetch(ctx context.Context, messageID snowflake.ID) error {
	_, err := client.session.ChannelMessage(client.rolesChannel, messageID.String(), discordgo.WithContext(ctx))
	return classify(err, "Message")
}

func (client *Client) Delete(ctx context.Context, messageID snowflake.ID) error {
	err := client.session.ChannelMessageDelete(client.rolesChannel, messageID.String(), discordgo.WithContext(ctx))
	return classify(err, "Message")
}

func (client *Client) React(ctx context.Context, messageID snowflake.ID, reaction string) error {
	return client.AddReaction(ctx, client.rolesChannel, messageID.String(), reaction)
}

func (client *Client) Unreact(ctx context.Context, messageID snowflake.ID, reaction, userID string) error {
	err := client.session.MessageReactionRemove(client.rolesChannel, messageID.String(), emoji.APIName(reaction), userID,
		discordgo.WithContext(ctx))
	return classify(err, "Reaction")
}

// # Any Channel

// AddReaction reacts to a message in any channel the bot can see.
func (client *Client) AddReaction(ctx context.Context, channelID, messageID, reaction string) error {
	err := client.session.MessageReactionAdd(channelID, messageID, emoji.APIName(reaction), discordgo.WithContext(ctx))
	return classify(err, "Message")
}

// Reply answers a message, mentioning its author.
func (client *Client) Reply(ctx context.Context, channelID, messageID, content string) error {
	reference := &discordgo.MessageReference{MessageID: messageID, ChannelID: channelID, GuildID: client.guildID}
	_, err := client.session.ChannelMessageSendReply(channelID, content, reference, discordgo.WithContext(ctx))
	return classify(err, "Channel")
}

// SendText posts plain text to a channel.
func (client *Client) SendText(ctx context.Context, channelID, content string) error {
	_, err := client.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Content: content}, discordgo.WithContext(ctx))
	return classify(err, "Channel")
}

// IsAdministrator reports whether the user holds the Administrator
// permission in the channel.
func (client *Client) IsAdministrator(ctx context.Context, userID, channelID string) (bool, error) {
	permissions, err := client.session.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, classify(err, "Member")
	}
	return permissions&discordgo.PermissionAdministrator != 0, nil
}

func (client *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	err := client.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	return classify(err, "Message")
}

// # Helpers

// unknownResourceCodes are the JSON error codes Discord uses for missing entities.
var unknownResourceCodes = []int{
	discordgo.ErrCodeUnknownChannel,
	discordgo.ErrCodeUnknownGuild,
	discordgo.ErrCodeUnknownMember,
	discordgo.ErrCodeUnknownMessage,
	discordgo.ErrCodeUnknownRole,
	discordgo.ErrCodeUnknownUser,
	discordgo.ErrCodeUnknownEmoji,
}

// classify maps REST "unknown entity" failures to NOT_FOUND and leaves
// everything else untouched.
func classify(err error, resource string) error {
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}

	if restErr.Message != nil {
		for _, code := range unknownResourceCodes {
			if restErr.Message.Code == code {
				return apperr.NotFoundCause(resource, err)
			}
		}
	}

	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return apperr.NotFoundCause(resource, err)
	}

	return err
}

func displayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User == nil {
		return ""
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

func toEmbed(embed *reactionrole.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
		Fields: slice.Map(embed.Fields, func(field reactionrole.EmbedField) *discordgo.MessageEmbedField {
			return &discordgo.MessageEmbedField{Name: field.Name, Value: field.Value, Inline: field.Inline}
		}),
	}
	if embed.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: embed.Footer}
	}
	if embed.ThumbnailURL != "" {
		out.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: embed.ThumbnailURL}
	}
	return out
}
