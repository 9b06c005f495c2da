package storage

import (
	"context"

	"github.com/harborforge/depot/internal/platform/errors"
	"github.com/harborforge/depot/internal/services/registry/origin"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New(errors.CodeNotFound, "record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New(errors.CodeAlreadyExists, "record already exists")
	// ErrInviteAccountMismatch indicates an account tried to resolve an
	// invitation issued to a different account.
	ErrInviteAccountMismatch = errors.New(errors.CodeInviteAccountMismatch, "invitation belongs to a different account")
)

// AcceptInvitationRequest describes an invitation resolution.
//
// AccountID is the account acting on the invitation and must match the
// invitation's invitee. Ignore declines instead of accepting; either way the
// invitation is consumed.
type AcceptInvitationRequest struct {
	InviteID  int64
	AccountID int64
	Ignore    bool
}

// OriginStore persists origin records.
type OriginStore interface {
	// CreateOrigin creates an origin and the owner's membership in one
	// transaction. A duplicate name yields ErrAlreadyExists.
	CreateOrigin(ctx context.Context, input origin.CreateOriginInput) (origin.Origin, error)
	// GetOriginByName returns the origin with its derived PrivateKeyName
	// populated, or ErrNotFound.
	GetOriginByName(ctx context.Context, name string) (origin.Origin, error)
}

// SecretKeyStore persists the append-only signing key chain per origin.
type SecretKeyStore interface {
	// CreateOriginSecretKey appends a new immutable key revision. Prior
	// revisions are never overwritten or deleted.
	CreateOriginSecretKey(ctx context.Context, input origin.CreateSecretKeyInput) (origin.SecretKey, error)
	// GetOriginSecretKey returns the latest key revision for the named
	// origin, or ErrNotFound when the origin has no keys. ownerID
	// identifies the caller for auditing and does not filter the result.
	GetOriginSecretKey(ctx context.Context, originName string, ownerID int64) (origin.SecretKey, error)
}

// InvitationStore persists pending origin invitations.
//
// An invitation has no persisted resolved state: accepting or ignoring it
// deletes the row.
type InvitationStore interface {
	// CreateOriginInvitation creates a pending invitation. It is a no-op
	// when the invitee is already a member or a pending invitation for the
	// same (origin, account) pair exists; the existing row is preserved
	// untouched.
	CreateOriginInvitation(ctx context.Context, input origin.CreateInvitationInput) error
	// ListOriginInvitationsForOrigin returns the pending invitations for an
	// origin ordered alphabetically by invitee account name.
	ListOriginInvitationsForOrigin(ctx context.Context, originID int64) ([]origin.Invitation, error)
	// ListOriginInvitationsForAccount returns the pending invitations for
	// an account ordered alphabetically by origin name.
	ListOriginInvitationsForAccount(ctx context.Context, accountID int64) ([]origin.Invitation, error)
	// AcceptOriginInvitation consumes an invitation, atomically granting
	// membership unless the request ignores it. Unknown invitations yield
	// ErrNotFound; a mismatched account yields ErrInviteAccountMismatch and
	// has no effect.
	AcceptOriginInvitation(ctx context.Context, req AcceptInvitationRequest) error
}

// MembershipStore queries the membership relation derived from origin
// ownership and accepted invitations.
type MembershipStore interface {
	// ListOriginMembers returns member account names for an origin,
	// ordered alphabetically.
	ListOriginMembers(ctx context.Context, originID int64) ([]string, error)
	// CheckAccountInOrigin reports whether the account is the origin's
	// owner or an accepted member. An unknown origin is not a member
	// relation, so it reports false rather than an error.
	CheckAccountInOrigin(ctx context.Context, originName string, accountID int64) (bool, error)
}

// RegistryStore aggregates every persistence contract of the registry.
type RegistryStore interface {
	OriginStore
	SecretKeyStore
	InvitationStore
	MembershipStore
}
