// Package database wraps the SQL connections used by the sales store.
package database

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
)

type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Conn interface {
	Queryer
	Close() error
	Ping(context.Context) error
	RunInTransaction(context.Context, func(*sql.Tx) error) error
	Builder() squirrel.StatementBuilderType
}

// Connection is a *sql.DB tagged with the placeholder style of its driver.
type Connection struct {
	*sql.DB
	Driver      string
	placeholder squirrel.PlaceholderFormat
}

func NewConnection(db *sql.DB, driver string, placeholder squirrel.PlaceholderFormat) *Connection {
	return &Connection{DB: db, Driver: driver, placeholder: placeholder}
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Builder returns a statement builder using the driver's placeholder format.
func (c *Connection) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(c.placeholder)
}

// RunInTransaction run a query in the transaction
func (c *Connection) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			_ = tx.Rollback()
			panic(err)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return rbErr
		}
		return err
	}

	return tx.Commit()
}
