package listing

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrReasonRequired    = errors.New("rejection reason is required")
	ErrNotFound          = errors.New("property not found")
	ErrForbidden         = errors.New("forbidden")
	ErrOwnerNotVerified  = errors.New("owner is not verified")
	ErrInvalidTransition = errors.New("invalid property status transition")
	ErrAlreadyTokenized  = errors.New("tokens already issued for this property")
)
