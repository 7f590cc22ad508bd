// Package store is the daemon's persistence backend: three SQLite
// databases (accounts, characters, world), mirroring the split the realm
// infrastructure expects.
package store

import (
	"database/sql"
	"path/filepath"
	"sync"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/tebeka/atexit"
)

// realmFlagOffline is the realm-list flag bit that marks a realm as down.
const realmFlagOffline = 0x2

const accountsSchema = `
CREATE TABLE IF NOT EXISTS realmlist (
	id    INTEGER PRIMARY KEY,
	name  TEXT    NOT NULL DEFAULT '',
	flags INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS uptime (
	realm_id       INTEGER NOT NULL,
	run_id         TEXT    NOT NULL,
	recorded_at    INTEGER NOT NULL,
	uptime_seconds INTEGER NOT NULL,
	sessions       INTEGER NOT NULL
);`

const charactersSchema = `
CREATE TABLE IF NOT EXISTS characters (
	guid     INTEGER PRIMARY KEY AUTOINCREMENT,
	realm_id INTEGER NOT NULL,
	account  TEXT    NOT NULL,
	name     TEXT    NOT NULL,
	online   INTEGER NOT NULL DEFAULT 0
);`

const worldSchema = `
CREATE TABLE IF NOT EXISTS world_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store holds the three database handles for one realm.
type Store struct {
	realmID int

	accounts   *sql.DB
	characters *sql.DB
	world      *sql.DB

	closeOnce sync.Once
	closeErr  error
}

// Open opens (creating if needed) the three databases under dataDir and
// applies the schema. The store is also closed at process exit so a fatal
// path still releases the handles.
func Open(dataDir string, realmID int) (*Store, error) {
	s := &Store{realmID: realmID}

	var err error
	if s.accounts, err = openDB(filepath.Join(dataDir, "accounts.db")); err != nil {
		return nil, err
	}
	if s.characters, err = openDB(filepath.Join(dataDir, "characters.db")); err != nil {
		s.Close()
		return nil, err
	}
	if s.world, err = openDB(filepath.Join(dataDir, "world.db")); err != nil {
		s.Close()
		return nil, err
	}

	if err := s.migrate(); err != nil {
		s.Close()
		return nil, err
	}

	atexit.Register(func() { s.Close() })

	return s, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "ping %s", path)
	}

	return db, nil
}

func (s *Store) migrate() error {
	if _, err := s.accounts.Exec(accountsSchema); err != nil {
		return errors.Wrap(err, "migrate accounts")
	}
	if _, err := s.characters.Exec(charactersSchema); err != nil {
		return errors.Wrap(err, "migrate characters")
	}
	if _, err := s.world.Exec(worldSchema); err != nil {
		return errors.Wrap(err, "migrate world")
	}

	_, err := s.accounts.Exec(
		"INSERT OR IGNORE INTO realmlist (id) VALUES (?)", s.realmID)
	return errors.Wrap(err, "seed realmlist")
}

// RealmID returns the realm this store serves.
func (s *Store) RealmID() int {
	return s.realmID
}

// SetRealmOffline raises the offline flag on the realm-list row.
func (s *Store) SetRealmOffline() error {
	_, err := s.accounts.Exec(
		"UPDATE realmlist SET flags = flags | ? WHERE id = ?",
		realmFlagOffline, s.realmID)
	return errors.Wrap(err, "set realm offline")
}

// SetRealmOnline clears the offline flag on the realm-list row.
func (s *Store) SetRealmOnline() error {
	_, err := s.accounts.Exec(
		"UPDATE realmlist SET flags = flags & ~? WHERE id = ?",
		realmFlagOffline, s.realmID)
	return errors.Wrap(err, "set realm online")
}

// RealmOffline reports the offline flag.
func (s *Store) RealmOffline() (bool, error) {
	var flags int
	err := s.accounts.QueryRow(
		"SELECT flags FROM realmlist WHERE id = ?", s.realmID).Scan(&flags)
	if err != nil {
		return false, errors.Wrap(err, "read realm flags")
	}

	return flags&realmFlagOffline != 0, nil
}

// RecordUptime appends an uptime sample for a world run. It implements the
// world package's UptimeSink.
func (s *Store) RecordUptime(
	runID string,
	uptime time.Duration,
	sessions int,
) error {
	_, err := s.accounts.Exec(
		`INSERT INTO uptime
			(realm_id, run_id, recorded_at, uptime_seconds, sessions)
			VALUES (?, ?, ?, ?, ?)`,
		s.realmID, runID, time.Now().Unix(),
		int64(uptime/time.Second), sessions)
	return errors.Wrap(err, "record uptime")
}

// UptimeSamples returns how many uptime samples a run has written.
func (s *Store) UptimeSamples(runID string) (int, error) {
	var n int
	err := s.accounts.QueryRow(
		"SELECT COUNT(*) FROM uptime WHERE run_id = ?", runID).Scan(&n)
	return n, errors.Wrap(err, "count uptime samples")
}

// CreateCharacter inserts a character row and returns its guid.
func (s *Store) CreateCharacter(account, name string) (int64, error) {
	res, err := s.characters.Exec(
		"INSERT INTO characters (realm_id, account, name) VALUES (?, ?, ?)",
		s.realmID, account, name)
	if err != nil {
		return 0, errors.Wrap(err, "create character")
	}

	guid, err := res.LastInsertId()
	return guid, errors.Wrap(err, "character guid")
}

// CharacterCount returns the number of characters on this realm.
func (s *Store) CharacterCount() (int, error) {
	var n int
	err := s.characters.QueryRow(
		"SELECT COUNT(*) FROM characters WHERE realm_id = ?",
		s.realmID).Scan(&n)
	return n, errors.Wrap(err, "count characters")
}

// SetWorldState upserts a world-state key.
func (s *Store) SetWorldState(key, value string) error {
	_, err := s.world.Exec(
		`INSERT INTO world_state (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return errors.Wrap(err, "set world state")
}

// WorldState reads a world-state key. A missing key yields an empty string.
func (s *Store) WorldState(key string) (string, error) {
	var value string
	err := s.world.QueryRow(
		"SELECT value FROM world_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}

	return value, errors.Wrap(err, "read world state")
}

// Close closes all three databases. It is safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		for _, db := range []*sql.DB{s.accounts, s.characters, s.world} {
			if db == nil {
				continue
			}
			if err := db.Close(); err != nil && s.closeErr == nil {
				s.closeErr = errors.Wrap(err, "close store")
			}
		}
	})

	return s.closeErr
}
