package reactionrole

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/ctxutil"
)

// Invocation is one use of the republish command.
type Invocation struct {
	ChannelID  string
	MessageID  string
	AuthorID   string
	AuthorName string
}

// CommandSurface is what the command needs from the chat platform beyond
// the roles channel.
type CommandSurface interface {
	IsAdministrator(ctx context.Context, userID, channelID string) (bool, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}

// Republisher runs the republish workflow.
type Republisher interface {
	Republish(ctx context.Context) (Report, error)
}

// RepublishCommand guards the republish workflow behind the administrator
// permission.
type RepublishCommand struct {
	publisher Republisher
	surface   CommandSurface
}

// NewRepublishCommand answers "!react_roles" through surface.
func NewRepublishCommand(publisher Republisher, surface CommandSurface) *RepublishCommand {
	return &RepublishCommand{publisher: publisher, surface: surface}
}

// Execute checks the permission, removes the invoking message and runs the
// workflow. A FORBIDDEN error means the caller is not an administrator.
func (command *RepublishCommand) Execute(ctx context.Context, invocation Invocation) (Report, error) {
	logger := ctxutil.GetLogger(ctx)

	isAdmin, err := command.surface.IsAdministrator(ctx, invocation.AuthorID, invocation.ChannelID)
	if err != nil {
		return Report{}, fmt.Errorf("check permissions: %w", err)
	}
	if !isAdmin {
		logger.Warn("republish_denied", slog.String("author", invocation.AuthorName))
		return Report{}, apperr.Forbidden(constants.ReplyPermissionDenied)
	}

	logger.Info("republish_started", slog.String("author", invocation.AuthorName))

	if err := command.surface.DeleteMessage(ctx, invocation.ChannelID, invocation.MessageID); err != nil {
		logger.Warn("command_message_delete_failed", slog.Any("error", err))
	}

	return command.publisher.Republish(ctx)
}

// Reply maps the outcome of Execute to the message shown to the caller.
// Success is silent.
func Reply(err error) string {
	switch {
	case err == nil:
		return ""
	case apperr.IsCode(err, apperr.CodeForbidden):
		return constants.ReplyPermissionDenied
	default:
		return constants.ReplyGenericFailure
	}
}
