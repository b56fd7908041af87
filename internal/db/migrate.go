package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the whole
// list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		due_date TEXT NOT NULL,
		complexity TEXT NOT NULL DEFAULT 'medium'
			CHECK (complexity IN ('low', 'medium', 'high', 'very-high')),
		estimated_hours REAL CHECK (estimated_hours IS NULL OR estimated_hours > 0),
		status TEXT NOT NULL DEFAULT 'proposed'
			CHECK (status IN ('proposed', 'planning', 'in-progress', 'completed', 'deferred')),
		tags_json TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_user_status ON projects(user_id, status)`,

	`CREATE TABLE IF NOT EXISTS sprint_tasks (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'medium'
			CHECK (priority IN ('low', 'medium', 'high', 'critical')),
		estimated_hours REAL NOT NULL CHECK (estimated_hours > 0),
		due_date TEXT NOT NULL,
		sprint_week INTEGER NOT NULL CHECK (sprint_week BETWEEN 1 AND 53),
		sprint_year INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'todo'
			CHECK (status IN ('todo', 'in-progress', 'blocked', 'completed')),
		order_in_sprint INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sprint_tasks_bucket ON sprint_tasks(sprint_year, sprint_week)`,
	`CREATE INDEX IF NOT EXISTS idx_sprint_tasks_project ON sprint_tasks(project_id)`,

	`CREATE TABLE IF NOT EXISTS activity_signals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL
			CHECK (kind IN ('browser_tab', 'lms_assignment', 'pdf_text', 'video_transcript', 'manual_input')),
		raw_text TEXT NOT NULL DEFAULT '',
		concepts_json TEXT NOT NULL DEFAULT '[]',
		observed_at TEXT NOT NULL,
		duration_sec INTEGER CHECK (duration_sec IS NULL OR duration_sec >= 0),
		detected_due_date TEXT,
		title TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_signals_user_observed ON activity_signals(user_id, observed_at)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_signals_user_due ON activity_signals(user_id, detected_due_date)`,

	`CREATE TABLE IF NOT EXISTS user_profile (
		id TEXT PRIMARY KEY,
		weekly_hours_available REAL NOT NULL DEFAULT 0 CHECK (weekly_hours_available >= 0),
		max_project_hours_per_week REAL NOT NULL DEFAULT 0 CHECK (max_project_hours_per_week >= 0)
	)`,
}
