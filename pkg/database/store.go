package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mercator-hq/pulse/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	_ "modernc.org/sqlite" // SQLite driver
)

// helloQuery is answered by both Hello and HelloConn.
const helloQuery = `SELECT 'hello world from sqlite'`

var (
	// ErrNoURL is returned by Open when no database URL is configured.
	ErrNoURL = errors.New("database URL is not set")

	// ErrUnsupportedURL is returned for URLs of a database other than SQLite.
	ErrUnsupportedURL = errors.New("unsupported database URL")
)

// Store is a pooled SQLite connection used by the /db routes.
type Store struct {
	db     *sql.DB
	dsn    string
	logger *slog.Logger
}

// Open opens the database named by cfg.URL and verifies it with a ping
// bounded by cfg.ConnectTimeout.
//
// Accepted URLs:
//
//	sqlite:///var/lib/pulse/pulse.db
//	sqlite::memory:
//	file:pulse.db?mode=ro
//	/var/lib/pulse/pulse.db
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	if cfg == nil || strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrNoURL
	}

	dsn, err := driverDSN(strings.TrimSpace(cfg.URL))
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = config.DefaultDatabaseConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{
		db:     db,
		dsn:    dsn,
		logger: slog.Default().With("component", "database"),
	}
	s.logger.Info("database connected", "max_open_conns", cfg.MaxOpenConns)
	return s, nil
}

// driverDSN strips the sqlite scheme from a database URL.
func driverDSN(raw string) (string, error) {
	switch {
	case strings.HasPrefix(raw, "sqlite://"):
		return strings.TrimPrefix(raw, "sqlite://"), nil
	case strings.HasPrefix(raw, "sqlite:"):
		return strings.TrimPrefix(raw, "sqlite:"), nil
	case strings.Contains(raw, "://"):
		scheme, _, _ := strings.Cut(raw, "://")
		return "", fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, scheme)
	default:
		return raw, nil
	}
}

// Hello runs the greeting query on a pooled connection.
func (s *Store) Hello(ctx context.Context) (string, error) {
	var msg string
	if err := s.db.QueryRowContext(ctx, helloQuery).Scan(&msg); err != nil {
		return "", fmt.Errorf("hello query failed: %w", err)
	}
	return msg, nil
}

// HelloConn runs the greeting query on a dedicated connection checked out
// from the pool for the duration of the call.
func (s *Store) HelloConn(ctx context.Context) (string, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	var msg string
	if err := conn.QueryRowContext(ctx, helloQuery).Scan(&msg); err != nil {
		return "", fmt.Errorf("hello query failed: %w", err)
	}
	return msg, nil
}

// Ping checks that the database is reachable. It is used as a readiness check.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Collector exposes connection pool statistics as go_sql_* metrics.
func (s *Store) Collector() prometheus.Collector {
	return collectors.NewDBStatsCollector(s.db, "pulse")
}

// Close closes every pooled connection.
func (s *Store) Close() error {
	return s.db.Close()
}
