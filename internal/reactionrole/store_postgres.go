package reactionrole

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/database/schema"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/dberr"
)

// PostgresRepository is the production ledger. Rows keep the snowflake in a
// BIGINT column and store the mode of header rows as NULL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a ledger backed by the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ReplaceTopic(ctx context.Context, topic string, records []PublicationRecord) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s IN ($1, $2)`,
		schema.ReactionRoleMessages.Table, schema.ReactionRoleMessages.MessageName)
	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.ReactionRoleMessages.Table,
		schema.ReactionRoleMessages.MessageID, schema.ReactionRoleMessages.MessageName, schema.ReactionRoleMessages.ReactionType)

	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_replace_topic")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, deleteQuery, topic, HeaderName(topic)); err != nil {
		return dberr.Wrap(err, "delete_topic_rows")
	}

	if len(records) > 0 {
		batch := &pgx.Batch{}
		for _, record := range records {
			batch.Queue(insertQuery, int64(record.MessageID), record.Name, nullableMode(record.Mode))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return dberr.Wrap(err, "insert_topic_rows")
		}
	}

	return dberr.Wrap(tx.Commit(ctx), "commit_replace_topic")
}

func (repository *PostgresRepository) ListAll(ctx context.Context) ([]PublicationRecord, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s ORDER BY %s, %s`,
		schema.ReactionRoleMessages.MessageID, schema.ReactionRoleMessages.MessageName, schema.ReactionRoleMessages.ReactionType,
		schema.ReactionRoleMessages.Table,
		schema.ReactionRoleMessages.MessageName, schema.ReactionRoleMessages.MessageID)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_reaction_role_messages")
	}
	defer rows.Close()

	records := make([]PublicationRecord, 0)
	for rows.Next() {
		var (
			id   int64
			name string
			mode *string
		)
		if err := rows.Scan(&id, &name, &mode); err != nil {
			return nil, dberr.Wrap(err, "scan_reaction_role_message")
		}
		records = append(records, newRecord(id, name, mode))
	}

	return records, dberr.Wrap(rows.Err(), "iterate_reaction_role_messages")
}

func nullableMode(mode Mode) *string {
	if mode == "" {
		return nil
	}
	value := string(mode)
	return &value
}

func newRecord(id int64, name string, mode *string) PublicationRecord {
	record := PublicationRecord{MessageID: snowflake.ID(id), Name: name}
	if mode != nil {
		record.Mode = Mode(*mode)
	}
	return record
}
