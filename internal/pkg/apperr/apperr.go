// Package apperr holds the error kinds shared by every domain package.
// Domain sentinels wrap one of these so handlers can classify any error
// with errors.Is.
package apperr

import "errors"

var (
	ErrValidation            = errors.New("validation failed")
	ErrDuplicate             = errors.New("already exists")
	ErrNotFound              = errors.New("not found")
	ErrAlreadyFinalized      = errors.New("already finalized")
	ErrReferrerLimitExceeded = errors.New("referral limit exceeded")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInternal              = errors.New("internal error")
)

// Kind is a stable machine-readable error code.
type Kind string

const (
	KindValidation            Kind = "VALIDATION_ERROR"
	KindDuplicate             Kind = "DUPLICATE"
	KindNotFound              Kind = "NOT_FOUND"
	KindAlreadyFinalized      Kind = "ALREADY_FINALIZED"
	KindReferrerLimitExceeded Kind = "REFERRAL_LIMIT_EXCEEDED"
	KindInsufficientBalance   Kind = "INSUFFICIENT_BALANCE"
	KindUnauthorized          Kind = "UNAUTHORIZED"
	KindForbidden             Kind = "FORBIDDEN"
	KindInternal              Kind = "INTERNAL_ERROR"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrValidation, KindValidation},
	{ErrDuplicate, KindDuplicate},
	{ErrNotFound, KindNotFound},
	{ErrAlreadyFinalized, KindAlreadyFinalized},
	{ErrReferrerLimitExceeded, KindReferrerLimitExceeded},
	{ErrInsufficientBalance, KindInsufficientBalance},
	{ErrUnauthorized, KindUnauthorized},
	{ErrForbidden, KindForbidden},
}

// KindOf classifies err. Anything unrecognised is internal.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
