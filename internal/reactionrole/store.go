package reactionrole

import "context"

// Repository is the Publication Ledger.
type Repository interface {
	// ReplaceTopic deletes the rows named topic and HeaderName(topic), then
	// inserts records. It never edits a row in place.
	ReplaceTopic(ctx context.Context, topic string, records []PublicationRecord) error
	// ListAll returns every row, ordered by name then message ID.
	ListAll(ctx context.Context) ([]PublicationRecord, error)
}
