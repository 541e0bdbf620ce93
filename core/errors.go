package core

import "errors"

// Error kinds. Every operation error unwraps to exactly one of these.
var (
	ErrValidation   = errors.New("validation error") // 400
	ErrConflict     = errors.New("conflict")         // 400
	ErrUnauthorized = errors.New("unauthorized")     // 401
	ErrForbidden    = errors.New("forbidden")        // 403
	ErrNotFound     = errors.New("not found")        // 404
	ErrUpstream     = errors.New("upstream error")   // 500
)

// Error is an operation failure with a kind, a machine reason and a
// client-facing message
type Error struct {
	Kind    error
	Reason  string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, reason, message string) error {
	return &Error{Kind: kind, Reason: reason, Message: message}
}

// ReasonOf returns the reason code of err, or "internal" if err is not an *Error
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return "internal"
}

// Credential errors
var (
	ErrEmailTaken         = newError(ErrConflict, "email_taken", "email already exists, please login or use a different one")
	ErrUserNotFound       = newError(ErrNotFound, "user_not_found", "user not found")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid_credentials", "invalid email or password")
)

// Auth gate errors. The client sees the same message for all three.
var (
	ErrNoToken      = newError(ErrUnauthorized, "no_token", "unauthorized")
	ErrInvalidToken = newError(ErrUnauthorized, "invalid_token", "unauthorized")
	ErrUnknownUser  = newError(ErrUnauthorized, "user_not_found", "unauthorized")
)

// Validation errors (client input)
var (
	ErrEmailRequired      = newError(ErrValidation, "email_required", "email is required")
	ErrPasswordRequired   = newError(ErrValidation, "password_required", "password is required")
	ErrFullNameRequired   = newError(ErrValidation, "full_name_required", "full name is required")
	ErrPasswordTooShort   = newError(ErrValidation, "password_too_short", "password must be at least 6 characters long")
	ErrPasswordTooLong    = newError(ErrValidation, "password_too_long", "password must be at most 72 bytes long")
	ErrInvalidEmail       = newError(ErrValidation, "invalid_email", "invalid email format")
	ErrProfileIncomplete  = newError(ErrValidation, "profile_incomplete", "all fields are required")
	ErrInvalidRequestBody = newError(ErrValidation, "invalid_body", "invalid request body")
	ErrWrongPassword      = newError(ErrValidation, "wrong_password", "current password is incorrect")
	ErrPasswordUnchanged  = newError(ErrValidation, "password_unchanged", "new password must differ from the current one")
)

// Friend graph errors
var (
	ErrSelfRequest           = newError(ErrValidation, "self_request", "you cannot send a friend request to yourself")
	ErrAlreadyFriends        = newError(ErrConflict, "already_friends", "you are already friends with this user")
	ErrDuplicateRequest      = newError(ErrConflict, "duplicate_request", "a friend request already exists between you and this user")
	ErrFriendRequestNotFound = newError(ErrNotFound, "request_not_found", "friend request not found")
	ErrNotRequestRecipient   = newError(ErrForbidden, "not_recipient", "you are not authorized to accept this friend request")
	ErrFriendRequestAccepted = newError(ErrConflict, "already_accepted", "friend request already accepted")
	ErrRecipientNotFound     = newError(ErrNotFound, "recipient_not_found", "user not found")
)

// Chat bridge errors
var (
	ErrChatUpstream    = newError(ErrUpstream, "chat_upstream", "failed to sync chat identity")
	ErrChatUnavailable = newError(ErrUpstream, "chat_unavailable", "chat is not configured")
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired     = errors.New("storage adapter is required")
	ErrHTTPAdapterRequired = errors.New("http adapter is required")
	ErrSecretRequired      = errors.New("secret is required")
	ErrSecretTooShort      = errors.New("secret too short")
)
