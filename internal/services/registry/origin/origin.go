// Package origin provides the domain model for package origins, their
// signing keys, and origin membership invitations.
package origin

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/harborforge/depot/internal/platform/errors"
)

var (
	// ErrNameEmpty indicates a missing origin name.
	ErrNameEmpty = apperrors.New(apperrors.CodeOriginNameEmpty, "origin name is required")
	// ErrOwnerInvalid indicates a missing or invalid owner account ID.
	ErrOwnerInvalid = apperrors.New(apperrors.CodeOriginOwnerInvalid, "origin owner id is required")
	// ErrOwnerNameEmpty indicates a missing owner account name.
	ErrOwnerNameEmpty = apperrors.New(apperrors.CodeOriginOwnerNameEmpty, "origin owner name is required")

	// ErrKeyNameEmpty indicates a missing secret key name.
	ErrKeyNameEmpty = apperrors.New(apperrors.CodeSecretKeyNameEmpty, "secret key name is required")
	// ErrKeyRevisionEmpty indicates a missing secret key revision.
	ErrKeyRevisionEmpty = apperrors.New(apperrors.CodeSecretKeyRevisionEmpty, "secret key revision is required")
	// ErrKeyOriginInvalid indicates a missing origin reference on a secret key.
	ErrKeyOriginInvalid = apperrors.New(apperrors.CodeSecretKeyOriginInvalid, "secret key origin id is required")
	// ErrKeyBodyEmpty indicates a missing secret key payload.
	ErrKeyBodyEmpty = apperrors.New(apperrors.CodeSecretKeyBodyEmpty, "secret key body is required")

	// ErrInviteOriginInvalid indicates a missing origin reference on an invitation.
	ErrInviteOriginInvalid = apperrors.New(apperrors.CodeInviteOriginInvalid, "invitation origin id is required")
	// ErrInviteOriginNameEmpty indicates a missing origin name on an invitation.
	ErrInviteOriginNameEmpty = apperrors.New(apperrors.CodeInviteOriginNameEmpty, "invitation origin name is required")
	// ErrInviteAccountInvalid indicates a missing invitee account ID.
	ErrInviteAccountInvalid = apperrors.New(apperrors.CodeInviteAccountInvalid, "invitation account id is required")
	// ErrInviteAccountNameEmpty indicates a missing invitee account name.
	ErrInviteAccountNameEmpty = apperrors.New(apperrors.CodeInviteAccountNameEmpty, "invitation account name is required")
)

// Origin is a namespace that owns packages and signing keys.
//
// PrivateKeyName is derived from the newest secret key revision and is empty
// when the origin has no keys yet.
type Origin struct {
	ID             int64
	Name           string
	OwnerID        int64
	OwnerName      string
	PrivateKeyName string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SecretKey is one immutable revision in an origin's signing key chain.
type SecretKey struct {
	ID        int64
	OriginID  int64
	Name      string
	Revision  string
	OwnerID   int64
	Body      []byte
	CreatedAt time.Time
}

// Invitation is a pending request for an account to join an origin.
//
// OriginName and AccountName are snapshots taken at creation time; they do
// not track later renames.
type Invitation struct {
	ID          int64
	OriginID    int64
	OriginName  string
	AccountID   int64
	AccountName string
	OwnerID     int64
	CreatedAt   time.Time
}

// CreateOriginInput describes the fields needed to create an origin.
type CreateOriginInput struct {
	Name      string
	OwnerID   int64
	OwnerName string
}

// CreateSecretKeyInput describes the fields needed to append a signing key
// revision to an origin.
type CreateSecretKeyInput struct {
	Name     string
	Revision string
	OriginID int64
	OwnerID  int64
	Body     []byte
}

// CreateInvitationInput describes the fields needed to invite an account to
// an origin.
type CreateInvitationInput struct {
	OriginID    int64
	OriginName  string
	AccountID   int64
	AccountName string
	OwnerID     int64
}

// NormalizeCreateOriginInput trims and validates origin creation input.
func NormalizeCreateOriginInput(input CreateOriginInput) (CreateOriginInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateOriginInput{}, ErrNameEmpty
	}
	if input.OwnerID <= 0 {
		return CreateOriginInput{}, ErrOwnerInvalid
	}
	input.OwnerName = strings.TrimSpace(input.OwnerName)
	if input.OwnerName == "" {
		return CreateOriginInput{}, ErrOwnerNameEmpty
	}
	return input, nil
}

// NormalizeCreateSecretKeyInput trims and validates secret key creation input.
func NormalizeCreateSecretKeyInput(input CreateSecretKeyInput) (CreateSecretKeyInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateSecretKeyInput{}, ErrKeyNameEmpty
	}
	input.Revision = strings.TrimSpace(input.Revision)
	if input.Revision == "" {
		return CreateSecretKeyInput{}, ErrKeyRevisionEmpty
	}
	if input.OriginID <= 0 {
		return CreateSecretKeyInput{}, ErrKeyOriginInvalid
	}
	if len(input.Body) == 0 {
		return CreateSecretKeyInput{}, ErrKeyBodyEmpty
	}
	return input, nil
}

// NormalizeCreateInvitationInput trims and validates invitation creation input.
func NormalizeCreateInvitationInput(input CreateInvitationInput) (CreateInvitationInput, error) {
	if input.OriginID <= 0 {
		return CreateInvitationInput{}, ErrInviteOriginInvalid
	}
	input.OriginName = strings.TrimSpace(input.OriginName)
	if input.OriginName == "" {
		return CreateInvitationInput{}, ErrInviteOriginNameEmpty
	}
	if input.AccountID <= 0 {
		return CreateInvitationInput{}, ErrInviteAccountInvalid
	}
	input.AccountName = strings.TrimSpace(input.AccountName)
	if input.AccountName == "" {
		return CreateInvitationInput{}, ErrInviteAccountNameEmpty
	}
	return input, nil
}

// KeyName formats the canonical name of one key revision, "{origin}-{revision}".
func KeyName(originName, revision string) string {
	return fmt.Sprintf("%s-%s", originName, revision)
}

// LatestRevision returns the newest revision token by bytewise string
// comparison, the ordering the key chain is defined over. Returns the empty
// string for an empty chain.
func LatestRevision(revisions []string) string {
	latest := ""
	for _, revision := range revisions {
		if revision > latest {
			latest = revision
		}
	}
	return latest
}
