package verification

import "errors"

var (
	ErrPhoneRequired        = errors.New("phone is required")
	ErrInvalidPhone         = errors.New("phone is not a valid E.164 number")
	ErrInvalidChannel       = errors.New("channel must be sms or call")
	ErrTooManyRequests      = errors.New("too many verification requests")
	ErrListingNotFound      = errors.New("listing not found")
	ErrAlreadyClaimed       = errors.New("listing already claimed")
	ErrListingHasNoPhone    = errors.New("listing has no phone")
	ErrPhoneMismatch        = errors.New("phone does not match listing")
	ErrCodeRequired         = errors.New("phone and code are required")
	ErrCodeExpired          = errors.New("verification code expired or not found")
	ErrTooManyAttempts      = errors.New("too many verification attempts")
	ErrWrongCode            = errors.New("wrong verification code")
	ErrTokenInvalid         = errors.New("verification token invalid or expired")
	ErrTokenForbidden       = errors.New("verification token belongs to another user")
	ErrVerifiedPhoneDiffers = errors.New("verified phone differs from target phone")
	ErrNotVerified          = errors.New("phone verification not completed")
	ErrTokenListingMismatch = errors.New("verification was requested for another listing")
	ErrTokenConsumed        = errors.New("verification token already used")
)
