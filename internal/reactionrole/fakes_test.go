package reactionrole_test

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/reactionrole"
)

var errPlatform = errors.New("discord: 500 internal server error")

// fakeGuild keeps member roles in memory and records every mutation.
type fakeGuild struct {
	mu        sync.Mutex
	roles     []reactionrole.Role
	members   map[string][]string
	mutations []string

	rolesErr  error
	addErr    error
	removeErr error
}

func newFakeGuild(roles ...reactionrole.Role) *fakeGuild {
	return &fakeGuild{roles: roles, members: map[string][]string{}}
}

func (g *fakeGuild) join(userID string, roleIDs ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.members[userID] = append([]string{}, roleIDs...)
}

func (g *fakeGuild) held(userID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	held := append([]string{}, g.members[userID]...)
	sort.Strings(held)
	return held
}

func (g *fakeGuild) Roles(ctx context.Context) ([]reactionrole.Role, error) {
	if g.rolesErr != nil {
		return nil, g.rolesErr
	}
	return append([]reactionrole.Role{}, g.roles...), nil
}

func (g *fakeGuild) Member(ctx context.Context, userID string) (*reactionrole.Member, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	roleIDs, ok := g.members[userID]
	if !ok {
		return nil, apperr.NotFound("Member")
	}
	return &reactionrole.Member{ID: userID, DisplayName: "member-" + userID, RoleIDs: append([]string{}, roleIDs...)}, nil
}

func (g *fakeGuild) AddRole(ctx context.Context, userID, roleID string) error {
	if g.addErr != nil {
		return g.addErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mutations = append(g.mutations, "add:"+roleID)
	if !slices.Contains(g.members[userID], roleID) {
		g.members[userID] = append(g.members[userID], roleID)
	}
	return nil
}

func (g *fakeGuild) RemoveRoles(ctx context.Context, userID string, roleIDs []string) error {
	if g.removeErr != nil {
		return g.removeErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, roleID := range roleIDs {
		g.mutations = append(g.mutations, "remove:"+roleID)
	}
	g.members[userID] = slices.DeleteFunc(g.members[userID], func(id string) bool {
		return slices.Contains(roleIDs, id)
	})
	return nil
}

// fakeChannel is the roles channel.
type fakeChannel struct {
	mu        sync.Mutex
	nextID    snowflake.ID
	messages  map[snowflake.ID]reactionrole.OutgoingMessage
	reactions map[snowflake.ID][]string
	unreacts  []string
	deleted   []snowflake.ID

	sendErr error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		nextID:    5000,
		messages:  map[snowflake.ID]reactionrole.OutgoingMessage{},
		reactions: map[snowflake.ID][]string{},
	}
}

func (c *fakeChannel) Send(ctx context.Context, message reactionrole.OutgoingMessage) (snowflake.ID, error) {
	if c.sendErr != nil {
		return 0, c.sendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.messages[c.nextID] = message
	return c.nextID, nil
}

func (c *fakeChannel) Fetch(ctx context.Context, messageID snowflake.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.messages[messageID]; !ok {
		return apperr.NotFound("Message")
	}
	return nil
}

func (c *fakeChannel) Delete(ctx context.Context, messageID snowflake.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.messages, messageID)
	delete(c.reactions, messageID)
	c.deleted = append(c.deleted, messageID)
	return nil
}

func (c *fakeChannel) React(ctx context.Context, messageID snowflake.ID, emoji string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reactions[messageID] = append(c.reactions[messageID], emoji)
	return nil
}

func (c *fakeChannel) Unreact(ctx context.Context, messageID snowflake.ID, emoji, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unreacts = append(c.unreacts, messageID.String()+"/"+emoji+"/"+userID)
	return nil
}

// memoryLedger is an in-memory Repository.
type memoryLedger struct {
	mu      sync.Mutex
	records []reactionrole.PublicationRecord
	listErr error
}

func (l *memoryLedger) ReplaceTopic(ctx context.Context, topic string, records []reactionrole.PublicationRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = slices.DeleteFunc(l.records, func(r reactionrole.PublicationRecord) bool {
		return r.Name == topic || r.Name == reactionrole.HeaderName(topic)
	})
	l.records = append(l.records, records...)
	return nil
}

func (l *memoryLedger) ListAll(ctx context.Context) ([]reactionrole.PublicationRecord, error) {
	if l.listErr != nil {
		return nil, l.listErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]reactionrole.PublicationRecord{}, l.records...), nil
}

// Fixture topics shared by the tests.

var (
	roleHeHim      = reactionrole.Role{ID: "101", Name: "He/Him"}
	roleSheHer     = reactionrole.Role{ID: "102", Name: "She/Her"}
	roleAnnounce   = reactionrole.Role{ID: "201", Name: "Announcements"}
	roleEvents     = reactionrole.Role{ID: "202", Name: "Events"}
	rolesChannelID = snowflake.ID(900)
)

func pronounsTopic() reactionrole.TopicDefinition {
	return reactionrole.TopicDefinition{
		Name:           "pronouns",
		MessageContent: "Pick your pronouns",
		HeaderImageURL: "https://example.com/pronouns.png",
		Embed:          &reactionrole.EmbedDefinition{Title: "Pronouns", Description: "React below", Footer: "One at a time"},
		Reactions: []reactionrole.ReactionSpec{
			{Emoji: "👍", Role: "He/Him"},
			{Emoji: "👎", Role: "She/Her"},
		},
		Mode: reactionrole.ModeSingle,
	}
}

func notificationsTopic() reactionrole.TopicDefinition {
	return reactionrole.TopicDefinition{
		Name:           "notifications",
		MessageContent: "Pick your pings",
		HeaderImageURL: "https://example.com/notifications.png",
		Embed:          &reactionrole.EmbedDefinition{Title: "Notifications", Description: "React below", Footer: "As many as you like"},
		Reactions: []reactionrole.ReactionSpec{
			{Emoji: "🔔", Role: "Announcements"},
			{Emoji: "📅", Role: "Events"},
		},
		Mode: reactionrole.ModeMulti,
	}
}
