// Package sqlite provides a SQLite-backed registry storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/harborforge/depot/internal/platform/storage/sqlitemigrate"
	"github.com/harborforge/depot/internal/services/registry/storage"
	"github.com/harborforge/depot/internal/services/registry/storage/sqlite/migrations"
	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const tracerName = "depot.registry.storage.sqlite"

// Store persists registry state in SQLite.
//
// A single SQLite file backs origins, signing keys, invitations and
// memberships so multi-row transitions share one transaction boundary.
type Store struct {
	sqlDB  *sql.DB
	tracer trace.Tracer
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a registry SQLite store and applies embedded migrations.
//
// Migration failure is fatal: no store handle is returned and callers must
// not proceed to other operations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{
		sqlDB:  sqlDB,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// DB returns the raw database handle for schema-owning callers.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// startSpan opens a tracing span for one store operation. The installed
// global tracer provider decides whether spans are recorded.
func (s *Store) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, operation)
}

// endSpan records the operation outcome and closes the span. Meant to be
// deferred with a named error return.
func endSpan(span trace.Span, err *error) {
	if *err != nil {
		span.RecordError(*err)
		span.SetStatus(otelcodes.Error, (*err).Error())
	}
	span.End()
}

// isUniqueViolation reports whether err is a SQLite unique or primary key
// constraint failure on the given table.column.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, column)
}

var _ storage.RegistryStore = (*Store)(nil)
