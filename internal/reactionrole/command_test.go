package reactionrole_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
	"github.com/zmattingly/FoDBot-SQL/internal/reactionrole"
)

type fakeSurface struct {
	admins    map[string]bool
	permErr   error
	deleteErr error
	deleted   []string
}

func (s *fakeSurface) IsAdministrator(ctx context.Context, userID, channelID string) (bool, error) {
	if s.permErr != nil {
		return false, s.permErr
	}
	return s.admins[userID], nil
}

func (s *fakeSurface) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, channelID+"/"+messageID)
	return nil
}

type fakeRepublisher struct {
	calls  int
	report reactionrole.Report
	err    error
}

func (p *fakeRepublisher) Republish(ctx context.Context) (reactionrole.Report, error) {
	p.calls++
	return p.report, p.err
}

var invocation = reactionrole.Invocation{
	ChannelID:  "700",
	MessageID:  "701",
	AuthorID:   "42",
	AuthorName: "Captain",
}

/*
TestRepublishCommand_Denied checks non-administrators get the fixed denial.
*/
func TestRepublishCommand_Denied(t *testing.T) {
	surface := &fakeSurface{admins: map[string]bool{}}
	publisher := &fakeRepublisher{}
	command := reactionrole.NewRepublishCommand(publisher, surface)

	_, err := command.Execute(context.Background(), invocation)

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
	assert.Equal(t, constants.ReplyPermissionDenied, reactionrole.Reply(err))
	assert.Zero(t, publisher.calls)
	assert.Empty(t, surface.deleted)
}

/*
TestRepublishCommand_Administrator runs the workflow after removing the command message.
*/
func TestRepublishCommand_Administrator(t *testing.T) {
	surface := &fakeSurface{admins: map[string]bool{"42": true}}
	publisher := &fakeRepublisher{report: reactionrole.Report{Published: []string{"pronouns"}}}
	command := reactionrole.NewRepublishCommand(publisher, surface)

	report, err := command.Execute(context.Background(), invocation)

	require.NoError(t, err)
	assert.Equal(t, []string{"pronouns"}, report.Published)
	assert.Equal(t, 1, publisher.calls)
	assert.Equal(t, []string{"700/701"}, surface.deleted)
	assert.Empty(t, reactionrole.Reply(err))
}

/*
TestRepublishCommand_Failures covers the generic reply paths.
*/
func TestRepublishCommand_Failures(t *testing.T) {
	tests := []struct {
		name      string
		surface   *fakeSurface
		publisher *fakeRepublisher
		calls     int
	}{
		{
			name:      "permission lookup fails",
			surface:   &fakeSurface{permErr: errPlatform},
			publisher: &fakeRepublisher{},
			calls:     0,
		},
		{
			name:      "workflow fails",
			surface:   &fakeSurface{admins: map[string]bool{"42": true}},
			publisher: &fakeRepublisher{err: errPlatform},
			calls:     1,
		},
		{
			name:      "workflow fails after the command message could not be deleted",
			surface:   &fakeSurface{admins: map[string]bool{"42": true}, deleteErr: errPlatform},
			publisher: &fakeRepublisher{err: apperr.NotFound("Role")},
			calls:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command := reactionrole.NewRepublishCommand(tt.publisher, tt.surface)

			_, err := command.Execute(context.Background(), invocation)

			require.Error(t, err)
			assert.Equal(t, constants.ReplyGenericFailure, reactionrole.Reply(err))
			assert.Equal(t, tt.calls, tt.publisher.calls)
		})
	}
}
