package reactionrole

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/database/schema"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/dberr"
)

// SQLiteRepository is the ledger for local runs and tests.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a ledger on an already migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (repository *SQLiteRepository) ReplaceTopic(ctx context.Context, topic string, records []PublicationRecord) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s IN (?, ?)`,
		schema.ReactionRoleMessages.Table, schema.ReactionRoleMessages.MessageName)
	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES (?, ?, ?)`,
		schema.ReactionRoleMessages.Table,
		schema.ReactionRoleMessages.MessageID, schema.ReactionRoleMessages.MessageName, schema.ReactionRoleMessages.ReactionType)

	tx, err := repository.db.BeginTx(ctx, nil)
	if err != nil {
		return dberr.Wrap(err, "begin_replace_topic")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteQuery, topic, HeaderName(topic)); err != nil {
		return dberr.Wrap(err, "delete_topic_rows")
	}

	for _, record := range records {
		if _, err := tx.ExecContext(ctx, insertQuery, int64(record.MessageID), record.Name, nullableMode(record.Mode)); err != nil {
			return dberr.Wrap(err, "insert_topic_row")
		}
	}

	return dberr.Wrap(tx.Commit(), "commit_replace_topic")
}

func (repository *SQLiteRepository) ListAll(ctx context.Context) ([]PublicationRecord, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s ORDER BY %s, %s`,
		schema.ReactionRoleMessages.MessageID, schema.ReactionRoleMessages.MessageName, schema.ReactionRoleMessages.ReactionType,
		schema.ReactionRoleMessages.Table,
		schema.ReactionRoleMessages.MessageName, schema.ReactionRoleMessages.MessageID)

	rows, err := repository.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_reaction_role_messages")
	}
	defer rows.Close()

	records := make([]PublicationRecord, 0)
	for rows.Next() {
		var (
			id   int64
			name string
			mode sql.NullString
		)
		if err := rows.Scan(&id, &name, &mode); err != nil {
			return nil, dberr.Wrap(err, "scan_reaction_role_message")
		}

		var modePtr *string
		if mode.Valid {
			modePtr = &mode.String
		}
		records = append(records, newRecord(id, name, modePtr))
	}

	return records, dberr.Wrap(rows.Err(), "iterate_reaction_role_messages")
}
