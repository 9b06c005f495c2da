// Package errors provides structured error handling for the depot services.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Origin errors
	CodeOriginNameEmpty      Code = "ORIGIN_NAME_EMPTY"
	CodeOriginOwnerInvalid   Code = "ORIGIN_OWNER_INVALID"
	CodeOriginOwnerNameEmpty Code = "ORIGIN_OWNER_NAME_EMPTY"

	// Secret key errors
	CodeSecretKeyNameEmpty     Code = "SECRET_KEY_NAME_EMPTY"
	CodeSecretKeyRevisionEmpty Code = "SECRET_KEY_REVISION_EMPTY"
	CodeSecretKeyOriginInvalid Code = "SECRET_KEY_ORIGIN_INVALID"
	CodeSecretKeyBodyEmpty     Code = "SECRET_KEY_BODY_EMPTY"

	// Invitation errors
	CodeInviteOriginInvalid    Code = "INVITE_ORIGIN_INVALID"
	CodeInviteOriginNameEmpty  Code = "INVITE_ORIGIN_NAME_EMPTY"
	CodeInviteAccountInvalid   Code = "INVITE_ACCOUNT_INVALID"
	CodeInviteAccountNameEmpty Code = "INVITE_ACCOUNT_NAME_EMPTY"
	CodeInviteAccountMismatch  Code = "INVITE_ACCOUNT_MISMATCH"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// GRPCCode maps a domain error code to the gRPC status code a service
// surface should respond with.
func (c Code) GRPCCode() codes.Code {
	switch c {

	// InvalidArgument - malformed or rejected input
	case CodeOriginNameEmpty,
		CodeOriginOwnerInvalid,
		CodeOriginOwnerNameEmpty,
		CodeSecretKeyNameEmpty,
		CodeSecretKeyRevisionEmpty,
		CodeSecretKeyOriginInvalid,
		CodeSecretKeyBodyEmpty,
		CodeInviteOriginInvalid,
		CodeInviteOriginNameEmpty,
		CodeInviteAccountInvalid,
		CodeInviteAccountNameEmpty:
		return codes.InvalidArgument

	// PermissionDenied - caller may not act on this resource
	case CodeInviteAccountMismatch:
		return codes.PermissionDenied

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeAlreadyExists:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}
