package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func Test_parseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(nil, envOf(nil))

	require.NoError(t, err)
	assert.Equal(t, adapterPGX, cfg.Adapter)
	assert.Equal(t, defaultDSN, cfg.DSN)
	assert.Equal(t, defaultTableName, cfg.TableName)
	assert.Empty(t, cfg.EventTypes)
	assert.Zero(t, cfg.Limit)
	assert.False(t, cfg.OTelEnabled)
	assert.True(t, cfg.filter().MatchesAnyEvent())
}

func Test_parseConfig_FlagsAndEnvironment(t *testing.T) {
	// arrange
	args := []string{"-table", "library_events", "-event-types", "B, A ,", "-after", "10", "-limit", "5", "-log-level", "debug", "-otel"}
	env := envOf(map[string]string{envDBAdapter: "SQLX", envDatabaseURL: "postgres://u:p@db:5432/x"})

	// act
	cfg, err := parseConfig(args, env)

	// assert
	require.NoError(t, err)
	assert.Equal(t, adapterSQLX, cfg.Adapter)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DSN)
	assert.Equal(t, "library_events", cfg.TableName)
	assert.Equal(t, []string{"B", "A"}, cfg.EventTypes)
	assert.Equal(t, 5, cfg.Limit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.OTelEnabled)

	filter := cfg.filter()
	assert.Equal(t, []string{"A", "B"}, filter.EventTypes())
	assert.Equal(t, uint64(10), filter.AfterSequenceNumber())
}

func Test_parseConfig_SQLDBAliasesSQL(t *testing.T) {
	cfg, err := parseConfig(nil, envOf(map[string]string{envDBAdapter: "sql.db"}))

	require.NoError(t, err)
	assert.Equal(t, adapterSQL, cfg.Adapter)
}

func Test_parseConfig_Invalid(t *testing.T) {
	_, adapterErr := parseConfig(nil, envOf(map[string]string{envDBAdapter: "mysql"}))
	_, limitErr := parseConfig([]string{"-limit", "-1"}, envOf(nil))
	_, flagErr := parseConfig([]string{"-unknown"}, envOf(nil))

	assert.ErrorIs(t, adapterErr, errUnknownAdapter)
	assert.Error(t, limitErr)
	assert.Error(t, flagErr)
}
