// Package database provides SQLite persistence for identities and tasks.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) *SQLiteStore {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Fatalf("failed to connect to database: %v\n", err)
	}

	// one connection: pragmas are per connection and ":memory:" databases
	// are private to the connection that created them
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		log.Fatalf("failed to init database schema: couldn't enable foreign keys: %v\n", err)
	}

	if err := initSchema(db); err != nil {
		log.Fatalf("failed to init database: %v\n", err)
	}

	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	if err := initTable(db, "identity", `
		CREATE TABLE IF NOT EXISTS identity (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			email       TEXT NOT NULL UNIQUE,
			secret      BLOB NOT NULL,
			role        TEXT NOT NULL CHECK (role IN ('user', 'admin')),
			created_at  INTEGER NOT NULL
		);`,
	); err != nil {
		return err
	}

	if err := initTable(db, "task", `
		CREATE TABLE IF NOT EXISTS task (
			id           TEXT PRIMARY KEY,
			owner        TEXT NOT NULL,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			status       TEXT NOT NULL,
			priority     TEXT NOT NULL,
			created_at   INTEGER NOT NULL,
			updated_at   INTEGER NOT NULL,
			FOREIGN KEY (owner) REFERENCES identity (id) ON DELETE CASCADE
		);`,
	); err != nil {
		return err
	}

	if err := initTable(db, "task_owner_index", `
		CREATE INDEX IF NOT EXISTS task_owner ON task (owner);`,
	); err != nil {
		return err
	}

	return nil
}

func initTable(
	db *sql.DB,
	name string,
	sql string,
) error {
	if _, err := db.Exec(sql); err != nil {
		return fmt.Errorf("failed to init '%s' table schema: %v", name, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func resultsEmpty(result sql.Result) bool {
	count, err := result.RowsAffected()
	if err != nil {
		return false
	}
	return count == 0
}

// nullString turns an optional value into a bind parameter that is NULL
// when absent, for use with COALESCE updates.
func nullString[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

func nullBytes(v []byte) any {
	if v == nil {
		return nil
	}
	return v
}
