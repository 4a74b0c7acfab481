package authenticator

import "errors"

//go:generate go run github.com/dmarkham/enumer -type FailureKind -trimprefix Failure -transform snake -output failure_kind.gen.go

// FailureKind classifies an authentication failure. Every kind is terminal
// for the call that produced it.
type FailureKind int

const (
	// Input errors
	FailureMissingPrincipal FailureKind = iota
	FailureMissingCredentials
	FailureTokenMissing

	// Credential errors
	FailureBadCredentials
	FailureUserNotFound

	// Token errors, surfaced verbatim from the payload resolver
	FailureTokenExpired
	FailureTokenInvalid
	FailureTokenMalformed

	// Account status policy errors
	FailureAccountDisabled
	FailureAccountExpired
	FailureAccountLocked
	FailureCredentialsExpired
)

// Error is an authentication failure of a known kind.
type Error struct {
	Kind FailureKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the exported sentinels work with
// errors.Is regardless of message or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds a failure of the given kind wrapping cause.
func NewError(kind FailureKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf returns the failure kind carried by err, if any.
func KindOf(err error) (FailureKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

var (
	ErrMissingPrincipal   = &Error{Kind: FailureMissingPrincipal, Msg: "no principal found in request"}
	ErrMissingCredentials = &Error{Kind: FailureMissingCredentials, Msg: "no credentials found in request"}
	ErrTokenMissing       = &Error{Kind: FailureTokenMissing, Msg: "no JWT found in request"}

	ErrBadCredentials = &Error{Kind: FailureBadCredentials, Msg: "username or password not valid"}
	ErrUserNotFound   = &Error{Kind: FailureUserNotFound, Msg: "user not found"}

	ErrTokenExpired   = &Error{Kind: FailureTokenExpired, Msg: "token expired"}
	ErrTokenInvalid   = &Error{Kind: FailureTokenInvalid, Msg: "invalid token"}
	ErrTokenMalformed = &Error{Kind: FailureTokenMalformed, Msg: "malformed token"}

	ErrAccountDisabled    = &Error{Kind: FailureAccountDisabled, Msg: "user account is disabled"}
	ErrAccountExpired     = &Error{Kind: FailureAccountExpired, Msg: "user account has expired"}
	ErrAccountLocked      = &Error{Kind: FailureAccountLocked, Msg: "user account is locked"}
	ErrCredentialsExpired = &Error{Kind: FailureCredentialsExpired, Msg: "user credentials have expired"}
)
