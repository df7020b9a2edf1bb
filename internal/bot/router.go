// Package bot routes Discord gateway events to the reaction-role engine, the
// republish command and the affirmation replies.
//
// discordgo runs every handler in its own goroutine, so a slow REST call in
// one event never blocks the gateway loop. Each event gets a deadline, an
// event ID and a child logger, and a panic in one event is logged and
// swallowed.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/zmattingly/FoDBot-SQL/internal/affirmation"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/ctxutil"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/metrics"
	"github.com/zmattingly/FoDBot-SQL/internal/reactionrole"
)

// ErrGatewayNotReady is reported by [Router.Ready] until the first READY
// event and after a disconnect.
var ErrGatewayNotReady = errors.New("discord gateway is not ready")

type ReactionHandler interface {
	Handle(ctx context.Context, event reactionrole.ReactionEvent) (reactionrole.Outcome, error)
}

type Command interface {
	Execute(ctx context.Context, invocation reactionrole.Invocation) (reactionrole.Report, error)
}

type IndexBuilder interface {
	Rebuild(ctx context.Context) (*reactionrole.Snapshot, error)
}

// Messenger posts the bot's own chat messages.
type Messenger interface {
	SendText(ctx context.Context, channelID, content string) error
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	Reply(ctx context.Context, channelID, messageID, content string) error
}

// Router owns the gateway handlers.
type Router struct {
	reactions    ReactionHandler
	command      Command
	index        IndexBuilder
	messenger    Messenger
	affirmations *affirmation.Responder
	metrics      *metrics.Metrics
	prefix       string
	logger       *slog.Logger

	ready atomic.Bool
}

// Dependencies groups what the router dispatches to. Affirmations may be nil.
type Dependencies struct {
	Reactions    ReactionHandler
	Command      Command
	Index        IndexBuilder
	Messenger    Messenger
	Affirmations *affirmation.Responder
	Metrics      *metrics.Metrics
	Prefix       string
}

func NewRouter(deps Dependencies, logger *slog.Logger) *Router {
	return &Router{
		reactions:    deps.Reactions,
		command:      deps.Command,
		index:        deps.Index,
		messenger:    deps.Messenger,
		affirmations: deps.Affirmations,
		metrics:      deps.Metrics,
		prefix:       deps.Prefix,
		logger:       logger,
	}
}

// Register attaches the handlers to a session.
func (router *Router) Register(session *discordgo.Session) {
	session.AddHandler(router.OnReady)
	session.AddHandler(router.OnDisconnect)
	session.AddHandler(router.OnReactionAdd)
	session.AddHandler(router.OnMessageCreate)
}

// Ready reports whether the gateway session is currently usable.
func (router *Router) Ready() error {
	if !router.ready.Load() {
		return ErrGatewayNotReady
	}
	return nil
}

// # Gateway Events

// OnReady builds the first index snapshot. It runs again after every full
// reconnect, which also picks up roles renamed while the bot was away.
func (router *Router) OnReady(_ *discordgo.Session, event *discordgo.Ready) {
	ctx, cancel, logger := router.eventContext("ready", constants.StartupTimeout)
	defer cancel()
	defer router.recoverPanic(logger)

	if event.User != nil {
		logger.Info("gateway_ready", slog.String("user", event.User.Username))
	}

	if _, err := router.index.Rebuild(ctx); err != nil {
		// Reactions stay unmatched until the next successful rebuild.
		logger.Error("reaction_index_build_failed", slog.Any("error", err))
	}

	router.ready.Store(true)
}

func (router *Router) OnDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	router.ready.Store(false)
	router.logger.Warn("gateway_disconnected")
}

// OnReactionAdd feeds reaction-add events to the reaction handler.
func (router *Router) OnReactionAdd(_ *discordgo.Session, event *discordgo.MessageReactionAdd) {
	if event.MessageReaction == nil {
		return
	}

	ctx, cancel, logger := router.eventContext("reaction_add", constants.EventTimeout)
	defer cancel()
	defer router.recoverPanic(logger)

	reaction, ok := toReactionEvent(event)
	if !ok {
		logger.Debug("reaction_event_malformed", slog.String("message_id", event.MessageID))
		return
	}

	outcome, err := router.reactions.Handle(ctx, reaction)
	router.metrics.ObserveReaction(string(outcome))

	switch {
	case err != nil:
		logger.Error("reaction_handling_failed",
			slog.String("outcome", string(outcome)),
			slog.String("user_id", reaction.UserID),
			slog.String("message_id", reaction.MessageID.String()),
			slog.Any("error", err),
		)
	case outcome != reactionrole.OutcomeIgnored:
		logger.Info("reaction_handled",
			slog.String("outcome", string(outcome)),
			slog.String("user_id", reaction.UserID),
			slog.String("member", memberName(event.Member)),
			slog.String("emoji", reaction.Emoji),
		)
	}
}

// OnMessageCreate dispatches the republish command and affirmation replies.
func (router *Router) OnMessageCreate(_ *discordgo.Session, event *discordgo.MessageCreate) {
	if event.Message == nil || event.Author == nil || event.Author.Bot {
		return
	}

	if strings.TrimSpace(event.Content) == router.prefix+constants.CommandRepublish {
		router.runRepublish(event.Message)
		return
	}

	if router.affirmations == nil {
		return
	}
	if reply, ok := router.affirmations.Match(event.Content); ok {
		router.sendAffirmation(event.Message, reply)
	}
}

func (router *Router) runRepublish(message *discordgo.Message) {
	ctx, cancel, logger := router.eventContext("republish", constants.RepublishTimeout)
	defer cancel()
	defer router.recoverPanic(logger)

	report, err := router.command.Execute(ctx, reactionrole.Invocation{
		ChannelID:  message.ChannelID,
		MessageID:  message.ID,
		AuthorID:   message.Author.ID,
		AuthorName: authorName(message),
	})

	switch {
	case err == nil:
		router.metrics.ObserveRepublish("ok")
		logger.Info("republish_succeeded", slog.Any("published", report.Published))
	case apperr.IsCode(err, apperr.CodeForbidden):
		router.metrics.ObserveRepublish("denied")
	default:
		router.metrics.ObserveRepublish("failed")
		logger.Error("republish_failed", slog.Any("error", err))
	}

	if text := reactionrole.Reply(err); text != "" {
		if sendErr := router.messenger.SendText(ctx, message.ChannelID, text); sendErr != nil {
			logger.Error("command_reply_failed", slog.Any("error", sendErr))
		}
	}
}

func (router *Router) sendAffirmation(message *discordgo.Message, reply affirmation.Reply) {
	ctx, cancel, logger := router.eventContext("affirmation", constants.EventTimeout)
	defer cancel()
	defer router.recoverPanic(logger)

	logger.Info("affirmation_received", slog.String("author", authorName(message)))

	if err := router.messenger.AddReaction(ctx, message.ChannelID, message.ID, reply.Emoji); err != nil {
		logger.Warn("affirmation_reaction_failed", slog.Any("error", err))
	}
	if err := router.messenger.Reply(ctx, message.ChannelID, message.ID, reply.Text); err != nil {
		logger.Warn("affirmation_reply_failed", slog.Any("error", err))
	}
}

// # Helpers

// eventContext derives the per-event context carrying the deadline, an event
// ID and a logger tagged with both.
func (router *Router) eventContext(kind string, timeout time.Duration) (context.Context, context.CancelFunc, *slog.Logger) {
	eventID := ctxutil.NewCorrelationID()
	logger := router.logger.With(slog.String("event", kind), slog.String("event_id", eventID))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = ctxutil.WithEventID(ctx, eventID)
	ctx = ctxutil.WithLogger(ctx, logger)

	return ctx, cancel, logger
}

func (router *Router) recoverPanic(logger *slog.Logger) {
	if recovered := recover(); recovered != nil {
		stackTrace := make([]byte, 2048)
		length := runtime.Stack(stackTrace, false)
		logger.Error("event_panic_recovered",
			slog.Any("error", recovered),
			slog.String("stack", string(stackTrace[:length])),
		)
	}
}

func toReactionEvent(event *discordgo.MessageReactionAdd) (reactionrole.ReactionEvent, bool) {
	messageID, err := snowflake.Parse(event.MessageID)
	if err != nil {
		return reactionrole.ReactionEvent{}, false
	}
	channelID, err := snowflake.Parse(event.ChannelID)
	if err != nil {
		return reactionrole.ReactionEvent{}, false
	}

	return reactionrole.ReactionEvent{
		MessageID: messageID,
		ChannelID: channelID,
		UserID:    event.UserID,
		Emoji:     event.Emoji.APIName(),
		IsBot:     event.Member != nil && event.Member.User != nil && event.Member.User.Bot,
	}, true
}

func memberName(member *discordgo.Member) string {
	if member == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User != nil {
		return member.User.Username
	}
	return ""
}

func authorName(message *discordgo.Message) string {
	if name := memberName(message.Member); name != "" {
		return name
	}
	if message.Author.GlobalName != "" {
		return message.Author.GlobalName
	}
	return message.Author.Username
}
