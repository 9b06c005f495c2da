package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/harborforge/depot/internal/services/registry/origin"
)

// ListOriginMembers returns the member account names for an origin,
// alphabetically. The owner's membership row is written at origin creation,
// so owners always appear.
func (s *Store) ListOriginMembers(ctx context.Context, originID int64) (members []string, err error) {
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	ctx, span := s.startSpan(ctx, "registry.storage.ListOriginMembers")
	defer endSpan(span, &err)

	if originID <= 0 {
		return nil, origin.ErrInviteOriginInvalid
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT account_name
		   FROM origin_members
		  WHERE origin_id = ?
		  ORDER BY account_name`,
		originID,
	)
	if err != nil {
		return nil, fmt.Errorf("list origin members: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list origin members: %w", err)
	}
	return members, nil
}

// CheckAccountInOrigin reports whether the account owns the named origin or
// holds an accepted membership in it. An unknown origin grants no access, so
// it reports false rather than an error.
func (s *Store) CheckAccountInOrigin(ctx context.Context, originName string, accountID int64) (member bool, err error) {
	if err = ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	ctx, span := s.startSpan(ctx, "registry.storage.CheckAccountInOrigin")
	defer endSpan(span, &err)

	originName = strings.TrimSpace(originName)
	if originName == "" {
		return false, origin.ErrNameEmpty
	}
	if accountID <= 0 {
		return false, origin.ErrInviteAccountInvalid
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT EXISTS (
		    SELECT 1
		      FROM origins o
		     WHERE o.name = ?1
		       AND (o.owner_id = ?2
		            OR EXISTS (SELECT 1
		                         FROM origin_members m
		                        WHERE m.origin_id = o.id
		                          AND m.account_id = ?2)))`,
		originName,
		accountID,
	)
	var exists int
	if err = row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check account in origin: %w", err)
	}
	return exists == 1, nil
}
