package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harborforge/depot/internal/services/registry/origin"
	"github.com/harborforge/depot/internal/services/registry/storage"
)

// CreateOriginInvitation creates a pending invitation unless one already
// exists for the (origin, account) pair or the account is already a member.
//
// The membership precheck and the insert share one transaction, and the
// insert itself is guarded by the pair's unique constraint, so concurrent
// identical requests collapse into a single row with the original issuer
// preserved.
func (s *Store) CreateOriginInvitation(ctx context.Context, input origin.CreateInvitationInput) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	ctx, span := s.startSpan(ctx, "registry.storage.CreateOriginInvitation")
	defer endSpan(span, &err)

	input, err = origin.NormalizeCreateInvitationInput(input)
	if err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var isMember int
	row := tx.QueryRowContext(ctx,
		`SELECT 1 FROM origin_members WHERE origin_id = ? AND account_id = ?`,
		input.OriginID,
		input.AccountID,
	)
	if err = row.Scan(&isMember); err == nil {
		// Already a member; nothing to invite.
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check membership: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO origin_invitations (origin_id, origin_name, account_id, account_name, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (origin_id, account_id) DO NOTHING`,
		input.OriginID,
		input.OriginName,
		input.AccountID,
		input.AccountName,
		input.OwnerID,
		toMillis(time.Now().UTC()),
	); err != nil {
		if isUniqueViolation(err, "origin_invitations") {
			// Concurrent writer got there first; same no-op outcome.
			err = nil
			return tx.Commit()
		}
		return fmt.Errorf("create origin invitation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit invitation: %w", err)
	}
	return nil
}

// ListOriginInvitationsForOrigin returns pending invitations for an origin,
// alphabetically by invitee account name.
func (s *Store) ListOriginInvitationsForOrigin(ctx context.Context, originID int64) (invitations []origin.Invitation, err error) {
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	ctx, span := s.startSpan(ctx, "registry.storage.ListOriginInvitationsForOrigin")
	defer endSpan(span, &err)

	if originID <= 0 {
		return nil, origin.ErrInviteOriginInvalid
	}

	return s.listInvitations(ctx,
		`SELECT id, origin_id, origin_name, account_id, account_name, owner_id, created_at
		   FROM origin_invitations
		  WHERE origin_id = ?
		  ORDER BY account_name`,
		originID,
	)
}

// ListOriginInvitationsForAccount returns pending invitations for an account,
// alphabetically by origin name.
func (s *Store) ListOriginInvitationsForAccount(ctx context.Context, accountID int64) (invitations []origin.Invitation, err error) {
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	ctx, span := s.startSpan(ctx, "registry.storage.ListOriginInvitationsForAccount")
	defer endSpan(span, &err)

	if accountID <= 0 {
		return nil, origin.ErrInviteAccountInvalid
	}

	return s.listInvitations(ctx,
		`SELECT id, origin_id, origin_name, account_id, account_name, owner_id, created_at
		   FROM origin_invitations
		  WHERE account_id = ?
		  ORDER BY origin_name`,
		accountID,
	)
}

func (s *Store) listInvitations(ctx context.Context, query string, arg int64) ([]origin.Invitation, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var invitations []origin.Invitation
	for rows.Next() {
		var record origin.Invitation
		var createdAt int64
		if err := rows.Scan(
			&record.ID,
			&record.OriginID,
			&record.OriginName,
			&record.AccountID,
			&record.AccountName,
			&record.OwnerID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		invitations = append(invitations, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

// AcceptOriginInvitation consumes an invitation. Acceptance deletes the row
// and grants membership in the same transaction; ignoring deletes the row
// only. Partial application is never observable: the transaction either
// commits both effects or neither.
func (s *Store) AcceptOriginInvitation(ctx context.Context, req storage.AcceptInvitationRequest) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	ctx, span := s.startSpan(ctx, "registry.storage.AcceptOriginInvitation")
	defer endSpan(span, &err)

	if req.InviteID <= 0 {
		return storage.ErrNotFound
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var invite origin.Invitation
	row := tx.QueryRowContext(ctx,
		`SELECT id, origin_id, origin_name, account_id, account_name
		   FROM origin_invitations
		  WHERE id = ?`,
		req.InviteID,
	)
	if err = row.Scan(
		&invite.ID,
		&invite.OriginID,
		&invite.OriginName,
		&invite.AccountID,
		&invite.AccountName,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = storage.ErrNotFound
			return err
		}
		return fmt.Errorf("load invitation: %w", err)
	}

	if invite.AccountID != req.AccountID {
		err = storage.ErrInviteAccountMismatch
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM origin_invitations WHERE id = ?`,
		invite.ID,
	); err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}

	if !req.Ignore {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO origin_members (origin_id, origin_name, account_id, account_name, created_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (origin_id, account_id) DO NOTHING`,
			invite.OriginID,
			invite.OriginName,
			invite.AccountID,
			invite.AccountName,
			toMillis(time.Now().UTC()),
		); err != nil {
			return fmt.Errorf("create membership: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit invitation resolution: %w", err)
	}
	return nil
}
