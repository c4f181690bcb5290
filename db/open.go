// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypePgx      = "pgx"
)

// pragmas applied to every SQLite connection
var sqlitePragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_time_format=sqlite",
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, dbType, url string) (*sql.DB, error) {
	driver, dsn, err := driverFor(dbType, url)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if dbType == TypeSQLite {
		// SQLite allows one writer; a single connection serializes
		// transactions instead of surfacing SQLITE_BUSY to callers.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return conn, nil
}

func driverFor(dbType, url string) (driver, dsn string, err error) {
	switch dbType {
	case TypePostgres:
		return "postgres", url, nil
	case TypePgx:
		return "pgx", url, nil
	case TypeSQLite:
		return "sqlite", SQLiteDSN(url), nil
	default:
		return "", "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

// SQLiteDSN appends the connection pragmas the schema relies on (foreign
// keys for cascades) unless the DSN already sets them.
func SQLiteDSN(url string) string {
	var missing []string
	for _, p := range sqlitePragmas {
		key := p[:strings.Index(p, "=")+1]
		if i := strings.Index(p, "("); i >= 0 {
			key = p[:i+1]
		}
		if !strings.Contains(url, key) {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return url
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(missing, "&")
}
