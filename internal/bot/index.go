package bot

import (
	"context"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/metrics"
	"github.com/zmattingly/FoDBot-SQL/internal/reactionrole"
)

// MeteredIndex reports the size of every snapshot it builds.
type MeteredIndex struct {
	index   IndexBuilder
	metrics *metrics.Metrics
}

func NewMeteredIndex(index IndexBuilder, m *metrics.Metrics) *MeteredIndex {
	return &MeteredIndex{index: index, metrics: m}
}

func (m *MeteredIndex) Rebuild(ctx context.Context) (*reactionrole.Snapshot, error) {
	snapshot, err := m.index.Rebuild(ctx)
	if err != nil {
		return nil, err
	}
	m.metrics.SetLiveMessages(snapshot.Index.Len())
	return snapshot, nil
}
