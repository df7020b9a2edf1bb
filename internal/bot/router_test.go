package bot_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmattingly/FoDBot-SQL/internal/affirmation"
	"github.com/zmattingly/FoDBot-SQL/internal/bot"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/ctxutil"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/metrics"
	"github.com/zmattingly/FoDBot-SQL/internal/reactionrole"
)

type fakeReactions struct {
	events  []reactionrole.ReactionEvent
	outcome reactionrole.Outcome
	err     error
	panics  bool
	eventID string
}

func (f *fakeReactions) Handle(ctx context.Context, event reactionrole.ReactionEvent) (reactionrole.Outcome, error) {
	if f.panics {
		panic("boom")
	}
	f.eventID = ctxutil.GetEventID(ctx)
	f.events = append(f.events, event)
	return f.outcome, f.err
}

type fakeCommand struct {
	invocations []reactionrole.Invocation
	err         error
}

func (f *fakeCommand) Execute(ctx context.Context, invocation reactionrole.Invocation) (reactionrole.Report, error) {
	f.invocations = append(f.invocations, invocation)
	return reactionrole.Report{}, f.err
}

type fakeIndex struct {
	calls int
	err   error
}

func (f *fakeIndex) Rebuild(ctx context.Context) (*reactionrole.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &reactionrole.Snapshot{Index: reactionrole.BuildIndex(nil, reactionrole.NewDefinitions(), nil)}, nil
}

type fakeMessenger struct {
	mu        sync.Mutex
	texts     []string
	reactions []string
	replies   []string
}

func (f *fakeMessenger) SendText(ctx context.Context, channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, channelID+":"+content)
	return nil
}

func (f *fakeMessenger) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, messageID+":"+emoji)
	return nil
}

func (f *fakeMessenger) Reply(ctx context.Context, channelID, messageID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, messageID+":"+content)
	return nil
}

type routerFixture struct {
	reactions *fakeReactions
	command   *fakeCommand
	index     *fakeIndex
	messenger *fakeMessenger
	router    *bot.Router
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	responder, err := affirmation.New(affirmation.Document{
		Affirmations: []string{"good"},
		Responses:    []string{"Thank you!"},
	})
	require.NoError(t, err)

	f := &routerFixture{
		reactions: &fakeReactions{outcome: reactionrole.OutcomeGranted},
		command:   &fakeCommand{},
		index:     &fakeIndex{},
		messenger: &fakeMessenger{},
	}
	f.router = bot.NewRouter(bot.Dependencies{
		Reactions:    f.reactions,
		Command:      f.command,
		Index:        f.index,
		Messenger:    f.messenger,
		Affirmations: responder,
		Metrics:      metrics.New(),
		Prefix:       "!",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return f
}

func message(content string, author *discordgo.User) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "701",
		ChannelID: "700",
		Content:   content,
		Author:    author,
	}}
}

var captain = &discordgo.User{ID: "42", Username: "jl", GlobalName: "Captain"}

/*
TestRouter_ReadyLifecycle checks the index is built on READY and readiness follows the gateway.
*/
func TestRouter_ReadyLifecycle(t *testing.T) {
	f := newRouterFixture(t)

	require.ErrorIs(t, f.router.Ready(), bot.ErrGatewayNotReady)

	f.router.OnReady(nil, &discordgo.Ready{User: &discordgo.User{Username: "FoDBot"}})
	assert.Equal(t, 1, f.index.calls)
	assert.NoError(t, f.router.Ready())

	f.router.OnDisconnect(nil, &discordgo.Disconnect{})
	assert.ErrorIs(t, f.router.Ready(), bot.ErrGatewayNotReady)
}

/*
TestRouter_ReadyWithFailedRebuild still marks the gateway ready.
*/
func TestRouter_ReadyWithFailedRebuild(t *testing.T) {
	f := newRouterFixture(t)
	f.index.err = errors.New("ledger unavailable")

	f.router.OnReady(nil, &discordgo.Ready{})

	assert.NoError(t, f.router.Ready())
}

/*
TestRouter_ReactionAdd converts the gateway payload.
*/
func TestRouter_ReactionAdd(t *testing.T) {
	f := newRouterFixture(t)

	f.router.OnReactionAdd(nil, &discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{
			UserID:    "42",
			MessageID: "1187654321098765432",
			ChannelID: "900",
			Emoji:     discordgo.Emoji{Name: "starfleet", ID: "123456"},
		},
		Member: &discordgo.Member{User: &discordgo.User{ID: "42", Bot: true}},
	})

	require.Len(t, f.reactions.events, 1)
	event := f.reactions.events[0]
	assert.Equal(t, "1187654321098765432", event.MessageID.String())
	assert.Equal(t, "900", event.ChannelID.String())
	assert.Equal(t, "starfleet:123456", event.Emoji)
	assert.True(t, event.IsBot)
	assert.NotEmpty(t, f.reactions.eventID)
}

/*
TestRouter_ReactionAddSurvivesFailures checks malformed payloads and panics.
*/
func TestRouter_ReactionAddSurvivesFailures(t *testing.T) {
	f := newRouterFixture(t)

	f.router.OnReactionAdd(nil, &discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{MessageID: "not-a-snowflake", ChannelID: "900"},
	})
	assert.Empty(t, f.reactions.events)

	f.reactions.panics = true
	assert.NotPanics(t, func() {
		f.router.OnReactionAdd(nil, &discordgo.MessageReactionAdd{
			MessageReaction: &discordgo.MessageReaction{MessageID: "1", ChannelID: "900", Emoji: discordgo.Emoji{Name: "👍"}},
		})
	})
}

/*
TestRouter_RepublishCommand covers dispatch and the replies.
*/
func TestRouter_RepublishCommand(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		reply []string
	}{
		{"success is silent", nil, nil},
		{"denied", apperr.Forbidden(constants.ReplyPermissionDenied), []string{"700:" + constants.ReplyPermissionDenied}},
		{"failed", errors.New("ledger unavailable"), []string{"700:" + constants.ReplyGenericFailure}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			f.command.err = tt.err

			f.router.OnMessageCreate(nil, message("!q_update_role_messages", captain))

			require.Len(t, f.command.invocations, 1)
			assert.Equal(t, reactionrole.Invocation{ChannelID: "700", MessageID: "701", AuthorID: "42", AuthorName: "Captain"}, f.command.invocations[0])
			assert.Equal(t, tt.reply, f.messenger.texts)
		})
	}
}

/*
TestRouter_MessageFilters ignores bots, other prefixes and ordinary chat.
*/
func TestRouter_MessageFilters(t *testing.T) {
	f := newRouterFixture(t)

	f.router.OnMessageCreate(nil, message("!q_update_role_messages", &discordgo.User{ID: "7", Bot: true}))
	f.router.OnMessageCreate(nil, message("?q_update_role_messages", captain))
	f.router.OnMessageCreate(nil, message("hello there", captain))

	assert.Empty(t, f.command.invocations)
	assert.Empty(t, f.messenger.replies)
}

/*
TestRouter_Affirmation reacts and replies to compliments.
*/
func TestRouter_Affirmation(t *testing.T) {
	f := newRouterFixture(t)

	f.router.OnMessageCreate(nil, message("Good bot!", captain))

	assert.Equal(t, []string{"701:❤️"}, f.messenger.reactions)
	assert.Equal(t, []string{"701:Thank you!"}, f.messenger.replies)
	assert.Empty(t, f.command.invocations)
}

/*
TestMeteredIndex publishes the live message count.
*/
func TestMeteredIndex(t *testing.T) {
	m := metrics.New()
	index := bot.NewMeteredIndex(&fakeIndex{}, m)

	snapshot, err := index.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Index.Len())

	_, err = bot.NewMeteredIndex(&fakeIndex{err: errors.New("ledger unavailable")}, m).Rebuild(context.Background())
	assert.Error(t, err)
}
