package claim

import "errors"

var (
	ErrListingNotFound   = errors.New("listing not found")
	ErrAlreadyClaimed    = errors.New("listing already claimed")
	ErrListingHasNoPhone = errors.New("listing has no phone")
	ErrTokenRequired     = errors.New("verification token required")
	ErrForbidden         = errors.New("listing belongs to another user")
	ErrMissingFields     = errors.New("required listing fields missing")
	ErrInvalidCategory   = errors.New("category does not exist")
)
