package infra_sqlite_init

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/humanbelnik/pollcast/core/internal/config"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

//go:embed schema.sql
var schema string

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

func MustEstablishConn(cfg config.SQLite) *sqlx.DB {
	db, err := Open(context.Background(), cfg.Path)
	if err != nil {
		log.Fatal(err)
	}
	return db
}

// Open opens the database at path, ":memory:" included, and creates missing
// tables.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}

	// One writer at a time; a memory database also lives in a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

func dsn(path string) string {
	pragmas := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + strings.Join(pragmas, "&")
}
