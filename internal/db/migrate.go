package db

import (
	"context"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run on
// every open; re-adding an existing column is tolerated.
func Migrate(ctx context.Context, d *DB) error {
	for i, stmt := range migrations {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateLegacySections(ctx, d); err != nil {
		return fmt.Errorf("renaming legacy commitment sections: %w", err)
	}
	return nil
}

// migrateLegacySections renames the historical focus/extra sections to
// target/todo. Idempotent.
func migrateLegacySections(ctx context.Context, d *DB) error {
	renames := []struct{ from, to string }{
		{"focus", "target"},
		{"extra", "todo"},
	}
	for _, r := range renames {
		if _, err := d.ExecContext(ctx,
			`UPDATE commitments SET section = ? WHERE section = ?`, r.to, r.from); err != nil {
			return fmt.Errorf("renaming section %s: %w", r.from, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT,
		created_date  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_identities (
		provider     TEXT NOT NULL,
		subject      TEXT NOT NULL,
		user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_date TEXT NOT NULL,
		PRIMARY KEY (provider, subject)
	)`,

	`CREATE TABLE IF NOT EXISTS password_resets (
		token_hash TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at TEXT NOT NULL,
		used_at    TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS revoked_tokens (
		token_id   TEXT PRIMARY KEY,
		expires_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		name         TEXT NOT NULL,
		sort_order   INTEGER NOT NULL DEFAULT 0,
		type         TEXT NOT NULL DEFAULT '',
		created_date TEXT NOT NULL,
		UNIQUE (user_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		title          TEXT NOT NULL,
		description    TEXT,
		type           TEXT NOT NULL DEFAULT 'task'
		               CHECK(type IN ('task','project','list')),
		is_completed   INTEGER NOT NULL DEFAULT 0,
		completed_date TEXT,
		created_date   TEXT NOT NULL,
		modified_date  TEXT NOT NULL,
		sort_order     INTEGER NOT NULL DEFAULT 0,
		is_in_library  INTEGER NOT NULL DEFAULT 0,
		category_id    TEXT REFERENCES categories(id) ON DELETE SET NULL,
		project_id     TEXT REFERENCES tasks(id) ON DELETE CASCADE,
		parent_task_id TEXT REFERENCES tasks(id) ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,

	`CREATE TABLE IF NOT EXISTS commitments (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		task_id         TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		timeframe       TEXT NOT NULL
		                CHECK(timeframe IN ('daily','weekly','monthly','yearly')),
		section         TEXT NOT NULL,
		commitment_date TEXT NOT NULL,
		sort_order      INTEGER NOT NULL DEFAULT 0,
		created_date    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_commitments_lookup ON commitments(user_id, timeframe, commitment_date)`,
	`CREATE INDEX IF NOT EXISTS idx_commitments_task ON commitments(task_id)`,

	// Subtask completion snapshot for undo of bulk completion
	`ALTER TABLE tasks ADD COLUMN previous_subtask_states TEXT`,

	// Priority
	`ALTER TABLE tasks ADD COLUMN priority TEXT NOT NULL DEFAULT 'medium'`,

	// Trickle-down breakdown of commitments
	`ALTER TABLE commitments ADD COLUMN parent_commitment_id TEXT REFERENCES commitments(id) ON DELETE CASCADE`,
	`CREATE INDEX IF NOT EXISTS idx_commitments_parent ON commitments(parent_commitment_id)`,

	// Timeline placement
	`ALTER TABLE commitments ADD COLUMN scheduled_time TEXT`,
	`ALTER TABLE commitments ADD COLUMN duration_minutes INTEGER`,
}
