package otp

import "time"

// Verification event types
const (
	EventSent      = "sent"
	EventConfirmed = "confirmed"
	EventWrongCode = "wrong_code"
	EventLocked    = "locked"
)

// VerificationEvent mirrors a PhoneVerification row at a state change. The
// code itself is never copied.
type VerificationEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	VerificationID string    `gorm:"type:varchar(36);not null;index" json:"verification_id"`
	UserID         string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Phone          string    `gorm:"type:varchar(20);not null" json:"phone"`
	Channel        string    `gorm:"type:varchar(10)" json:"channel"`
	ListingID      *string   `gorm:"type:varchar(36)" json:"listing_id,omitempty"`
	Attempts       int       `json:"attempts"`
	Verified       bool      `json:"verified"`
	ExpiresAt      time.Time `json:"expires_at"`

	EventType string    `gorm:"type:varchar(50);not null" json:"event_type"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (VerificationEvent) TableName() string {
	return "verification_events"
}
