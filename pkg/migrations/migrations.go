package migrations

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	// sqlite only allows a single writer, and an in-memory database only
	// lives as long as its one connection
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, wrapOpenDB(err)
		}
	}
	_, err = db.Exec("PRAGMA foreign_keys=ON")
	if err != nil {
		db.Close()
		return nil, wrapOpenDB(err)
	}

	return db, nil
}

func wrapOpenAndMigrate(err error) error {
	return fmt.Errorf("open and migrate db: %w", err)
}

// OpenAndMigrateDB opens the db and applies the schema, the schema must be
// written so that applying it again is a no-op (CREATE ... IF NOT EXISTS).
func OpenAndMigrateDB(schema, path string) (*sql.DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, wrapOpenAndMigrate(err)
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, wrapOpenAndMigrate(err)
	}
	return db, nil
}
