package db

import (
	"database/sql"
	"log"
	"time"
)

const (
	sqlCreateMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER NOT NULL PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	// Per device client preferences ("remember me" email)
	sqlCreatePreferencesTable = `CREATE TABLE IF NOT EXISTS preferences (
		device_key TEXT NOT NULL PRIMARY KEY,
		saved_email TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	sqlCreateSessionsIndices = `
		CREATE INDEX IF NOT EXISTS idx_sessions_feed_token ON sessions(feed_token);
	`

	sqlExtendSessionsTable = `ALTER TABLE sessions ADD COLUMN last_used_at TIMESTAMP`
)

// migrations run once each, in order. Never edit an applied one, append.
var migrations = []struct {
	version int
	name    string
	sql     string
}{
	{1, "preferences", sqlCreatePreferencesTable},
	{2, "sessions indices", sqlCreateSessionsIndices},
	{3, "sessions last_used_at", sqlExtendSessionsTable},
}

// RunMigrations applies every migration not yet recorded.
func (db *DB) RunMigrations() error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(sqlCreateMigrationsTable); err != nil {
			return err
		}

		applied := map[int]bool{}
		rows, err := tx.Query(`SELECT version FROM schema_migrations`)
		if err != nil {
			return err
		}
		for rows.Next() {
			var v int
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return err
			}
			applied[v] = true
		}
		rows.Close()

		for _, m := range migrations {
			if applied[m.version] {
				continue
			}
			if _, err := tx.Exec(m.sql); err != nil {
				log.Printf("Migration %d (%s) failed: %v", m.version, m.name, err)
				return err
			}
			if _, err := tx.Exec(`INSERT INTO schema_migrations(version, applied_at) VALUES (?, ?)`, m.version, time.Now()); err != nil {
				return err
			}
			log.Printf("Applied migration %d (%s)", m.version, m.name)
		}
		return nil
	})
}
