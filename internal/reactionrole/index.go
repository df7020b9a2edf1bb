package reactionrole

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/zmattingly/FoDBot-SQL/pkg/emoji"
)

// Binding is one resolved emoji → role pair of an index entry.
type Binding struct {
	Emoji string
	Role  Role
}

// Entry is the Role-Reaction Index value for one live content message.
type Entry struct {
	Topic    string
	Mode     Mode
	Bindings []Binding

	byEmoji map[string]Role
}

// RoleFor resolves a reacted emoji to its role.
func (e Entry) RoleFor(reacted string) (Role, bool) {
	role, ok := e.byEmoji[emoji.Key(reacted)]
	return role, ok
}

// RoleIDs returns every role bound on this message, in definition order.
func (e Entry) RoleIDs() []string {
	ids := make([]string, 0, len(e.Bindings))
	for _, binding := range e.Bindings {
		ids = append(ids, binding.Role.ID)
	}
	return ids
}

// Index maps live content message IDs to their entries. It is immutable
// once built.
type Index struct {
	entries map[snowflake.ID]Entry
}

// Lookup returns the entry of a message.
func (i *Index) Lookup(messageID snowflake.ID) (Entry, bool) {
	entry, ok := i.entries[messageID]
	return entry, ok
}

// Len returns the number of live content messages.
func (i *Index) Len() int {
	return len(i.entries)
}

// Entries returns a copy of the underlying map for read-only inspection.
func (i *Index) Entries() map[snowflake.ID]Entry {
	result := make(map[snowflake.ID]Entry, len(i.entries))
	for id, entry := range i.entries {
		result[id] = entry
	}
	return result
}

// BuildIndex projects the ledger through the definitions and the guild's
// current roles. Header rows are skipped. A row whose topic is unknown, or a
// reaction whose role name no longer exists, yields a smaller entry rather than
// an error. Role names match exactly; with duplicate names the first role
// listed wins.
func BuildIndex(records []PublicationRecord, definitions *Definitions, roles []Role) *Index {
	byName := make(map[string]Role, len(roles))
	for _, role := range roles {
		if _, exists := byName[role.Name]; !exists {
			byName[role.Name] = role
		}
	}

	entries := make(map[snowflake.ID]Entry)
	for _, record := range records {
		if !record.IsContent() {
			continue
		}

		entry := Entry{Topic: record.Name, Mode: record.Mode, byEmoji: map[string]Role{}}

		if definition, ok := definitions.Get(record.Name); ok {
			for _, spec := range definition.Reactions {
				role, found := byName[spec.Role]
				if !found {
					continue
				}
				entry.Bindings = append(entry.Bindings, Binding{Emoji: spec.Emoji, Role: role})
				entry.byEmoji[emoji.Key(spec.Emoji)] = role
			}
		}

		entries[record.MessageID] = entry
	}

	return &Index{entries: entries}
}
