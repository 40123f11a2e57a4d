package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/deemkeen/bnotas/domain"
	"github.com/deemkeen/bnotas/util"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// DB is the local store for auth sessions and client preferences. It plays
// the part browser local storage plays for the web client, keyed by device.
type DB struct {
	db *sql.DB
}

var (
	dbInstance *DB
	dbOnce     sync.Once

	// Path is the database file GetDB opens. Set it before the first call.
	Path = "bnotas.db"
)

const maxBusyRetries = 5

// connPragmas run on every pooled connection, not just the first one.
const connPragmas = "_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

func dsn(path string) string {
	return path + "?" + connPragmas
}

const (
	//Sessions
	sqlCreateSessionsTable = `CREATE TABLE IF NOT EXISTS sessions(
                        id uuid NOT NULL PRIMARY KEY,
                        device_key varchar(100) UNIQUE NOT NULL,
                        token text NOT NULL,
                        user_json text NOT NULL,
                        feed_token varchar(64) UNIQUE NOT NULL,
                        created_at timestamp default current_timestamp,
                        updated_at timestamp default current_timestamp
                        )`
	sqlUpsertSession = `INSERT INTO sessions(id, device_key, token, user_json, feed_token, created_at, updated_at)
                        VALUES (?, ?, ?, ?, ?, ?, ?)
                        ON CONFLICT(device_key) DO UPDATE SET
                            token = excluded.token,
                            user_json = excluded.user_json,
                            updated_at = excluded.updated_at`
	sqlSelectSessionByDevice    = `SELECT token, user_json FROM sessions WHERE device_key = ?`
	sqlSelectSessionByFeedToken = `SELECT device_key, token, user_json FROM sessions WHERE feed_token = ?`
	sqlSelectFeedToken          = `SELECT feed_token FROM sessions WHERE device_key = ?`
	sqlDeleteSession            = `DELETE FROM sessions WHERE device_key = ?`
)

// userRecord is the stored shape of the profile; it mirrors the API's user.
type userRecord struct {
	Id      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"nome,omitempty"`
	Surname string `json:"sobrenome,omitempty"`
	Phone   string `json:"telefone,omitempty"`
}

// Open opens (and creates if needed) the store at path.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}

	if path == ":memory:" {
		// every connection to :memory: is a different database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(8)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxLifetime(time.Hour)

		var journalMode string
		if err := sqlDB.QueryRow("PRAGMA journal_mode=WAL").Scan(&journalMode); err != nil {
			log.Printf("Warning: Failed to enable WAL mode: %v", err)
		} else {
			log.Printf("Database journal mode: %s", journalMode)
		}
	}

	d := &DB{db: sqlDB}
	if err := d.CreateDB(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := d.RunMigrations(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return d, nil
}

// GetDB returns the process wide store, opening it on first use.
func GetDB() *DB {
	dbOnce.Do(func() {
		d, err := Open(util.ResolveFilePath(Path))
		if err != nil {
			panic(err)
		}
		dbInstance = d
	})

	return dbInstance
}

func (db *DB) Close() error {
	return db.db.Close()
}

// CreateDB creates the base schema.
func (db *DB) CreateDB() error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlCreateSessionsTable)
		return err
	})
}

// SaveSession stores the session of a device, replacing any previous one.
// The feed token of an existing row is kept so published feed links survive
// a new login.
func (db *DB) SaveSession(deviceKey string, s *domain.AuthSession) error {
	if !s.Valid() {
		return fmt.Errorf("refusing to store a session without token")
	}
	userJSON, err := json.Marshal(userRecord{
		Id:      s.User.Id,
		Email:   s.User.Email,
		Name:    s.User.Name,
		Surname: s.User.Surname,
		Phone:   s.User.Phone,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlUpsertSession, uuid.New(), deviceKey, s.Token, string(userJSON), uuid.NewString(), now, now)
		return err
	})
}

// ReadSession returns the stored session of a device, or nil when the
// device is logged out.
func (db *DB) ReadSession(deviceKey string) (*domain.AuthSession, error) {
	var token, userJSON string
	err := db.db.QueryRow(sqlSelectSessionByDevice, deviceKey).Scan(&token, &userJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeSession(token, userJSON)
}

// ReadSessionByFeedToken resolves a feed link back to its device and session.
func (db *DB) ReadSessionByFeedToken(feedToken string) (string, *domain.AuthSession, error) {
	var deviceKey, token, userJSON string
	err := db.db.QueryRow(sqlSelectSessionByFeedToken, feedToken).Scan(&deviceKey, &token, &userJSON)
	if err != nil {
		return "", nil, err
	}
	s, err := decodeSession(token, userJSON)
	return deviceKey, s, err
}

func (db *DB) ReadFeedToken(deviceKey string) (string, error) {
	var feedToken string
	err := db.db.QueryRow(sqlSelectFeedToken, deviceKey).Scan(&feedToken)
	return feedToken, err
}

func (db *DB) DeleteSession(deviceKey string) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlDeleteSession, deviceKey)
		return err
	})
}

func decodeSession(token, userJSON string) (*domain.AuthSession, error) {
	var u userRecord
	if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
		return nil, fmt.Errorf("decoding stored user: %w", err)
	}
	return &domain.AuthSession{
		Token: token,
		User: domain.User{
			Id:      u.Id,
			Email:   u.Email,
			Name:    u.Name,
			Surname: u.Surname,
			Phone:   u.Phone,
		},
	}, nil
}

// wrapTransaction runs the given function within a transaction. A busy
// database restarts the whole transaction a bounded number of times.
func (db *DB) wrapTransaction(f func(tx *sql.Tx) error) error {
	var err error
	for attempt := 0; attempt <= maxBusyRetries; attempt++ {
		err = db.runTransaction(f)
		if !isBusy(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 20 * time.Millisecond)
	}
	return err
}

func (db *DB) runTransaction(f func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("error starting transaction: %s", err)
		return err
	}
	if err = f(tx); err != nil {
		tx.Rollback()
		if !isBusy(err) {
			log.Printf("error in transaction: %s", err)
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		log.Printf("error committing transaction: %s", err)
		return err
	}
	return nil
}

func isBusy(err error) bool {
	serr, ok := err.(*sqlite.Error)
	return ok && serr.Code() == sqlitelib.SQLITE_BUSY
}
