package reactionrole

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Snapshot is the in-memory view of the ledger and the index built from it.
// Snapshots are never modified after they are published.
type Snapshot struct {
	Index   *Index
	Records []PublicationRecord
	BuiltAt time.Time
}

// SnapshotSource hands out the current snapshot.
type SnapshotSource interface {
	Current() *Snapshot
}

// Registry owns the current [Snapshot] and replaces it on every rebuild.
type Registry struct {
	repository  Repository
	definitions *Definitions
	guild       Guild
	logger      *slog.Logger

	current atomic.Pointer[Snapshot]
}

// NewRegistry starts with an empty snapshot so reactions received before the
// first rebuild are simply unmatched.
func NewRegistry(repository Repository, definitions *Definitions, guild Guild, logger *slog.Logger) *Registry {
	registry := &Registry{
		repository:  repository,
		definitions: definitions,
		guild:       guild,
		logger:      logger,
	}
	registry.current.Store(&Snapshot{Index: &Index{}})
	return registry
}

// Current returns the most recently published snapshot.
func (registry *Registry) Current() *Snapshot {
	return registry.current.Load()
}

// Rebuild re-reads the ledger and the guild roles and publishes a new
// snapshot. On failure the previous snapshot stays current.
func (registry *Registry) Rebuild(ctx context.Context) (*Snapshot, error) {
	records, err := registry.repository.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("rebuild index: list ledger: %w", err)
	}

	roles, err := registry.guild.Roles(ctx)
	if err != nil {
		return nil, fmt.Errorf("rebuild index: list roles: %w", err)
	}

	snapshot := &Snapshot{
		Index:   BuildIndex(records, registry.definitions, roles),
		Records: records,
		BuiltAt: time.Now().UTC(),
	}
	registry.current.Store(snapshot)

	registry.logger.Info("reaction_index_rebuilt",
		slog.Int("ledger_rows", len(records)),
		slog.Int("live_messages", snapshot.Index.Len()),
	)

	return snapshot, nil
}
