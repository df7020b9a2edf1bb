package schema

// ReactionRoleMessagesTable represents the 'reaction_role_messages' table
type ReactionRoleMessagesTable struct {
	Table        string
	MessageID    string
	MessageName  string
	ReactionType string
}

// ReactionRoleMessages is the schema definition for the publication ledger.
var ReactionRoleMessages = ReactionRoleMessagesTable{
	Table:        "reaction_role_messages",
	MessageID:    "message_id",
	MessageName:  "message_name",
	ReactionType: "reaction_type",
}

func (t ReactionRoleMessagesTable) Columns() []string {
	return []string{t.MessageID, t.MessageName, t.ReactionType}
}
