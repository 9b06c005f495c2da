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
	"go.opentelemetry.io/otel/attribute"
)

// CreateOriginSecretKey appends a new key revision to an origin's chain.
// Existing revisions are never touched; calling again with a later revision
// moves the derived "latest" forward.
func (s *Store) CreateOriginSecretKey(ctx context.Context, input origin.CreateSecretKeyInput) (created origin.SecretKey, err error) {
	if err = ctx.Err(); err != nil {
		return origin.SecretKey{}, err
	}
	if s == nil || s.sqlDB == nil {
		return origin.SecretKey{}, fmt.Errorf("storage is not configured")
	}
	ctx, span := s.startSpan(ctx, "registry.storage.CreateOriginSecretKey")
	defer endSpan(span, &err)

	input, err = origin.NormalizeCreateSecretKeyInput(input)
	if err != nil {
		return origin.SecretKey{}, err
	}

	now := time.Now().UTC()

	result, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO origin_secret_keys (origin_id, name, revision, owner_id, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		input.OriginID,
		input.Name,
		input.Revision,
		input.OwnerID,
		input.Body,
		toMillis(now),
	)
	if err != nil {
		return origin.SecretKey{}, fmt.Errorf("create origin secret key: %w", err)
	}

	keyID, err := result.LastInsertId()
	if err != nil {
		return origin.SecretKey{}, fmt.Errorf("secret key id: %w", err)
	}

	return origin.SecretKey{
		ID:        keyID,
		OriginID:  input.OriginID,
		Name:      input.Name,
		Revision:  input.Revision,
		OwnerID:   input.OwnerID,
		Body:      input.Body,
		CreatedAt: now,
	}, nil
}

// GetOriginSecretKey returns the latest key revision for the named origin.
// ownerID identifies the caller for span attribution only; it does not
// restrict which key comes back.
func (s *Store) GetOriginSecretKey(ctx context.Context, originName string, ownerID int64) (found origin.SecretKey, err error) {
	if err = ctx.Err(); err != nil {
		return origin.SecretKey{}, err
	}
	if s == nil || s.sqlDB == nil {
		return origin.SecretKey{}, fmt.Errorf("storage is not configured")
	}
	ctx, span := s.startSpan(ctx, "registry.storage.GetOriginSecretKey")
	defer endSpan(span, &err)

	originName = strings.TrimSpace(originName)
	if originName == "" {
		return origin.SecretKey{}, origin.ErrNameEmpty
	}
	span.SetAttributes(attribute.Int64("registry.caller_account_id", ownerID))

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT k.id, k.origin_id, k.name, k.revision, k.owner_id, k.body, k.created_at
		   FROM origin_secret_keys k
		   JOIN origins o ON o.id = k.origin_id
		  WHERE o.name = ?
		  ORDER BY k.revision DESC
		  LIMIT 1`,
		originName,
	)

	var record origin.SecretKey
	var createdAt int64
	if err = row.Scan(
		&record.ID,
		&record.OriginID,
		&record.Name,
		&record.Revision,
		&record.OwnerID,
		&record.Body,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = storage.ErrNotFound
			return origin.SecretKey{}, err
		}
		return origin.SecretKey{}, fmt.Errorf("get origin secret key: %w", err)
	}

	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}
