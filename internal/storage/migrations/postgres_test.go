package migrations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecer struct {
	statements []string
	failOn     int
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.statements = append(r.statements, sql)
	if r.failOn > 0 && len(r.statements) == r.failOn {
		return pgconn.CommandTag{}, errors.New("boom")
	}
	return pgconn.CommandTag{}, nil
}

func TestPostgresFiles_Ordered(t *testing.T) {
	files, err := PostgresFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_clusters.sql", files[0])
}

func TestRunPostgresMigrations_AppliesEmbeddedSQL(t *testing.T) {
	db := &recordingExecer{}
	require.NoError(t, RunPostgresMigrations(context.Background(), db))

	require.NotEmpty(t, db.statements)
	assert.True(t, strings.Contains(db.statements[0], "CREATE TABLE IF NOT EXISTS clusters"))
	assert.True(t, strings.Contains(db.statements[0], "cluster_children"))
}

func TestRunPostgresMigrations_WrapsError(t *testing.T) {
	db := &recordingExecer{failOn: 1}
	err := RunPostgresMigrations(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply migration 001_clusters.sql")
}
