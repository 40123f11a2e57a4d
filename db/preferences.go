package db

import (
	"database/sql"
	"time"
)

const (
	sqlUpsertSavedEmail = `INSERT INTO preferences(device_key, saved_email, updated_at) VALUES (?, ?, ?)
                           ON CONFLICT(device_key) DO UPDATE SET saved_email = excluded.saved_email, updated_at = excluded.updated_at`
	sqlSelectSavedEmail = `SELECT saved_email FROM preferences WHERE device_key = ?`
	sqlClearSavedEmail  = `UPDATE preferences SET saved_email = NULL, updated_at = ? WHERE device_key = ?`
	sqlTouchSession     = `UPDATE sessions SET last_used_at = ? WHERE device_key = ?`
)

// SaveEmail remembers the login email of a device.
func (db *DB) SaveEmail(deviceKey, email string) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlUpsertSavedEmail, deviceKey, email, time.Now())
		return err
	})
}

// ReadSavedEmail returns the remembered email or "" when there is none.
func (db *DB) ReadSavedEmail(deviceKey string) (string, error) {
	var email sql.NullString
	err := db.db.QueryRow(sqlSelectSavedEmail, deviceKey).Scan(&email)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return email.String, err
}

func (db *DB) ForgetEmail(deviceKey string) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlClearSavedEmail, time.Now(), deviceKey)
		return err
	})
}

// TouchSession records that a device used its session.
func (db *DB) TouchSession(deviceKey string) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlTouchSession, time.Now(), deviceKey)
		return err
	})
}
