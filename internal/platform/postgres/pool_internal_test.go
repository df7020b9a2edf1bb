// Copyright (c) 2026 FoDBot. All rights reserved.

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	poolConfig, err := configure("postgres://bot:secret@db:5432/fodbot")
	require.NoError(t, err)

	assert.EqualValues(t, maxConns, poolConfig.MaxConns)
	assert.EqualValues(t, minConns, poolConfig.MinConns)
	assert.Equal(t, connectTimeout, poolConfig.ConnConfig.ConnectTimeout)
	assert.Equal(t, "fodbot", poolConfig.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "15000", poolConfig.ConnConfig.RuntimeParams["statement_timeout"])
}

func TestConfigure_KeepsApplicationNameFromDSN(t *testing.T) {
	poolConfig, err := configure("postgres://db/fodbot?application_name=fodbot-staging")
	require.NoError(t, err)

	assert.Equal(t, "fodbot-staging", poolConfig.ConnConfig.RuntimeParams["application_name"])
}

func TestConfigure_InvalidDSN(t *testing.T) {
	_, err := configure("postgres://db:notaport/fodbot")
	assert.ErrorContains(t, err, "invalid DSN")
}
