// Copyright (c) 2026 FoDBot. All rights reserved.

package api

import (
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/go-chi/chi/v5"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/respond"
	"github.com/zmattingly/FoDBot-SQL/internal/reactionrole"
	"github.com/zmattingly/FoDBot-SQL/pkg/slice"
)

// SnapshotResponse is the JSON view of the current reaction-role snapshot.
type SnapshotResponse struct {
	BuiltAt  time.Time        `json:"built_at"`
	Ledger   []LedgerRow      `json:"ledger"`
	Messages []MessageBinding `json:"messages"`
}

// LedgerRow mirrors one row of the publication ledger.
type LedgerRow struct {
	MessageID string `json:"message_id"`
	Name      string `json:"message_name"`
	Mode      string `json:"reaction_type,omitempty"`
}

// MessageBinding is one live content message and its resolved reactions.
type MessageBinding struct {
	MessageID string            `json:"message_id"`
	Topic     string            `json:"topic"`
	Mode      string            `json:"reaction_type"`
	Reactions []ReactionBinding `json:"reactions"`
}

// ReactionBinding maps one emoji on a message to the role it grants.
type ReactionBinding struct {
	Emoji    string `json:"emoji"`
	RoleID   string `json:"role_id"`
	RoleName string `json:"role_name"`
}

// ReactionRoleHandler serves the read-only snapshot view.
type ReactionRoleHandler struct {
	snapshots reactionrole.SnapshotSource
}

func NewReactionRoleHandler(snapshots reactionrole.SnapshotSource) *ReactionRoleHandler {
	return &ReactionRoleHandler{snapshots: snapshots}
}

func (handler *ReactionRoleHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", handler.list)
	r.Get("/{messageID}", handler.get)
	return r
}

// list handles GET /api/v1/reaction-roles.
func (handler *ReactionRoleHandler) list(writer http.ResponseWriter, request *http.Request) {
	snapshot := handler.snapshots.Current()
	entries := snapshot.Index.Entries()

	messages := make([]MessageBinding, 0, len(entries))
	for _, id := range slices.Sorted(maps.Keys(entries)) {
		messages = append(messages, toMessageBinding(id, entries[id]))
	}

	respond.OK(writer, SnapshotResponse{
		BuiltAt: snapshot.BuiltAt,
		Ledger: slice.Map(snapshot.Records, func(record reactionrole.PublicationRecord) LedgerRow {
			return LedgerRow{MessageID: record.MessageID.String(), Name: record.Name, Mode: string(record.Mode)}
		}),
		Messages: messages,
	})
}

// get handles GET /api/v1/reaction-roles/{messageID}.
func (handler *ReactionRoleHandler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := snowflake.Parse(chi.URLParam(request, "messageID"))
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid message ID",
			apperr.FieldError{Field: "messageID", Message: "Must be a Discord snowflake"}))
		return
	}

	entry, ok := handler.snapshots.Current().Index.Lookup(id)
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Role message"))
		return
	}

	respond.OK(writer, toMessageBinding(id, entry))
}

func toMessageBinding(id snowflake.ID, entry reactionrole.Entry) MessageBinding {
	return MessageBinding{
		MessageID: id.String(),
		Topic:     entry.Topic,
		Mode:      string(entry.Mode),
		Reactions: slice.Map(entry.Bindings, func(binding reactionrole.Binding) ReactionBinding {
			return ReactionBinding{Emoji: binding.Emoji, RoleID: binding.Role.ID, RoleName: binding.Role.Name}
		}),
	}
}
