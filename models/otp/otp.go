package otp

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhoneVerification is one OTP issued to a user for a phone number. Rows are
// never deleted; a resend creates a new row and the old one lapses.
// ConsumedAt is set once a claim or listing write has used the token issued
// for the row.
type PhoneVerification struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Phone      string     `gorm:"type:varchar(20);not null;index:idx_verifications_user_phone" json:"phone"`
	Code       string     `gorm:"type:varchar(6);not null" json:"-"`
	Channel    string     `gorm:"type:varchar(10);not null" json:"channel"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expiresAt"`
	Attempts   int        `gorm:"not null;default:0" json:"attempts"`
	Verified   bool       `gorm:"not null;default:false" json:"verified"`
	UserID     string     `gorm:"type:varchar(36);not null;index:idx_verifications_user_phone;index" json:"userId"`
	ListingID  *string    `gorm:"type:varchar(36);index" json:"listingId,omitempty"`
	ConsumedAt *time.Time `json:"consumedAt,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
}

func (PhoneVerification) TableName() string {
	return "phone_verifications"
}

func (v *PhoneVerification) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	return nil
}

// IsExpired checks the row against now.
func (v *PhoneVerification) IsExpired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// BoundListing returns the listing the code was requested for, or "".
func (v *PhoneVerification) BoundListing() string {
	if v.ListingID == nil {
		return ""
	}
	return *v.ListingID
}
