// Copyright (c) 2026 FoDBot. All rights reserved.

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriverURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"postgres", "postgres://u:p@db:5432/bot", "pgx5://u:p@db:5432/bot"},
		{"postgresql", "postgresql://db/bot", "pgx5://db/bot"},
		{"already_pgx5", "pgx5://db/bot", "pgx5://db/bot"},
		{"sqlite", "sqlite:///tmp/ledger.db", "sqlite:///tmp/ledger.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, driverURL(tt.in))
		})
	}
}
