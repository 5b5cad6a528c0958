package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_LegacySections simulates a database created before
// priorities, snapshots, trickle-down and the timeline existed, with
// commitments still filed under the focus/extra section names.
func TestMigrate_UpgradePath_LegacySections(t *testing.T) {
	raw, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { raw.Close() })

	legacy := []string{
		`CREATE TABLE tasks (
			id TEXT PRIMARY KEY, user_id TEXT NOT NULL, title TEXT NOT NULL, description TEXT,
			type TEXT NOT NULL DEFAULT 'task', is_completed INTEGER NOT NULL DEFAULT 0,
			completed_date TEXT, created_date TEXT NOT NULL, modified_date TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0, is_in_library INTEGER NOT NULL DEFAULT 0,
			category_id TEXT, project_id TEXT, parent_task_id TEXT
		)`,
		`CREATE TABLE commitments (
			id TEXT PRIMARY KEY, user_id TEXT NOT NULL, task_id TEXT NOT NULL,
			timeframe TEXT NOT NULL, section TEXT NOT NULL, commitment_date TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0, created_date TEXT NOT NULL
		)`,
		`INSERT INTO tasks (id, user_id, title, created_date, modified_date)
			VALUES ('t1', 'u1', 'Write report', '2024-01-01T00:00:00.000000000Z', '2024-01-01T00:00:00.000000000Z')`,
		`INSERT INTO commitments (id, user_id, task_id, timeframe, section, commitment_date, created_date)
			VALUES ('c1', 'u1', 't1', 'daily', 'focus', '2024-01-02', '2024-01-01T00:00:00.000000000Z')`,
		`INSERT INTO commitments (id, user_id, task_id, timeframe, section, commitment_date, created_date)
			VALUES ('c2', 'u1', 't1', 'weekly', 'extra', '2024-01-01', '2024-01-01T00:00:00.000000000Z')`,
	}
	for _, stmt := range legacy {
		_, err := raw.Exec(stmt)
		require.NoError(t, err)
	}

	d := &DB{sql: raw, dialect: DialectSQLite}
	require.NoError(t, Migrate(context.Background(), d))
	// Running twice must be a no-op.
	require.NoError(t, Migrate(context.Background(), d))

	var section string
	require.NoError(t, raw.QueryRow(`SELECT section FROM commitments WHERE id = 'c1'`).Scan(&section))
	assert.Equal(t, "target", section)
	require.NoError(t, raw.QueryRow(`SELECT section FROM commitments WHERE id = 'c2'`).Scan(&section))
	assert.Equal(t, "todo", section)

	var priority string
	require.NoError(t, raw.QueryRow(`SELECT priority FROM tasks WHERE id = 't1'`).Scan(&priority))
	assert.Equal(t, "medium", priority, "new column should be backfilled with its default")

	var parent, scheduled sql.NullString
	var duration sql.NullInt64
	require.NoError(t, raw.QueryRow(
		`SELECT parent_commitment_id, scheduled_time, duration_minutes FROM commitments WHERE id = 'c1'`,
	).Scan(&parent, &scheduled, &duration))
	assert.False(t, parent.Valid)
	assert.False(t, scheduled.Valid)
	assert.False(t, duration.Valid)
}

func TestMigrate_FreshDatabaseHasAllTables(t *testing.T) {
	d, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	for _, table := range []string{"users", "user_identities", "password_resets", "revoked_tokens", "categories", "tasks", "commitments"} {
		var name string
		err := d.QueryRowContext(context.Background(),
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}
