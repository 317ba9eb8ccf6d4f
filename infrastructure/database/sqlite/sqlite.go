package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/vfg2006/bizpredict-api/infrastructure/database"
)

const driver = "sqlite3"

// NewConnection opens the database file at path, creating its directory.
// SQLite allows a single writer, so the pool is capped at one connection.
func NewConnection(ctx context.Context, path string) (*database.Connection, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: creating directory: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enabling WAL mode: %w", err)
	}

	return database.NewConnection(db, driver, squirrel.Question), nil
}
