package postgres

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/vfg2006/bizpredict-api/infrastructure/database"
	"github.com/vfg2006/bizpredict-api/internal/config"
)

const driver = "postgres"

func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*database.Connection, error) {
	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return database.NewConnection(db, driver, squirrel.Dollar), nil
}
