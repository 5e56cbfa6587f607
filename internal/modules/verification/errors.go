package verification

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrReasonRequired    = errors.New("rejection reason is required")
	ErrNotFound          = errors.New("verification request not found")
	ErrForbidden         = errors.New("forbidden")
	ErrActiveRequest     = errors.New("an active verification request already exists")
	ErrInvalidTransition = errors.New("invalid verification status transition")
)
