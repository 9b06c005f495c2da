package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harborforge/depot/internal/services/registry/origin"
	"github.com/harborforge/depot/internal/services/registry/storage"
)

// CreateOrigin inserts an origin and its owner's membership in one
// transaction, so the owner is a member from the moment the origin exists.
func (s *Store) CreateOrigin(ctx context.Context, input origin.CreateOriginInput) (created origin.Origin, err error) {
	if err = ctx.Err(); err != nil {
		return origin.Origin{}, err
	}
	if s == nil || s.sqlDB == nil {
		return origin.Origin{}, fmt.Errorf("storage is not configured")
	}
	ctx, span := s.startSpan(ctx, "registry.storage.CreateOrigin")
	defer endSpan(span, &err)

	input, err = origin.NormalizeCreateOriginInput(input)
	if err != nil {
		return origin.Origin{}, err
	}

	now := time.Now().UTC()

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return origin.Origin{}, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO origins (name, owner_id, owner_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		input.Name,
		input.OwnerID,
		input.OwnerName,
		toMillis(now),
		toMillis(now),
	)
	if err != nil {
		if isUniqueViolation(err, "origins.name") {
			return origin.Origin{}, storage.ErrAlreadyExists
		}
		return origin.Origin{}, fmt.Errorf("create origin: %w", err)
	}

	originID, err := result.LastInsertId()
	if err != nil {
		return origin.Origin{}, fmt.Errorf("origin id: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO origin_members (origin_id, origin_name, account_id, account_name, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		originID,
		input.Name,
		input.OwnerID,
		input.OwnerName,
		toMillis(now),
	); err != nil {
		return origin.Origin{}, fmt.Errorf("create owner membership: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return origin.Origin{}, fmt.Errorf("commit origin: %w", err)
	}

	return origin.Origin{
		ID:        originID,
		Name:      input.Name,
		OwnerID:   input.OwnerID,
		OwnerName: input.OwnerName,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetOriginByName returns one origin with its derived PrivateKeyName.
func (s *Store) GetOriginByName(ctx context.Context, name string) (found origin.Origin, err error) {
	if err = ctx.Err(); err != nil {
		return origin.Origin{}, err
	}
	if s == nil || s.sqlDB == nil {
		return origin.Origin{}, fmt.Errorf("storage is not configured")
	}
	ctx, span := s.startSpan(ctx, "registry.storage.GetOriginByName")
	defer endSpan(span, &err)

	name = strings.TrimSpace(name)
	if name == "" {
		return origin.Origin{}, origin.ErrNameEmpty
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT o.id, o.name, o.owner_id, o.owner_name,
		        COALESCE((SELECT k.revision
		                    FROM origin_secret_keys k
		                   WHERE k.origin_id = o.id
		                   ORDER BY k.revision DESC
		                   LIMIT 1), '') AS latest_revision,
		        o.created_at, o.updated_at
		   FROM origins o
		  WHERE o.name = ?`,
		name,
	)

	var record origin.Origin
	var latestRevision string
	var createdAt int64
	var updatedAt int64
	if err = row.Scan(
		&record.ID,
		&record.Name,
		&record.OwnerID,
		&record.OwnerName,
		&latestRevision,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = storage.ErrNotFound
			return origin.Origin{}, err
		}
		return origin.Origin{}, fmt.Errorf("get origin by name: %w", err)
	}

	if latestRevision != "" {
		record.PrivateKeyName = origin.KeyName(record.Name, latestRevision)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
