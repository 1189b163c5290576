package otp_event

import (
	"persian-pages/models/otp"

	"gorm.io/gorm"
)

// SnapshotVerificationToEvent writes the current state of a verification row
// into verification_events with the given event type.
func SnapshotVerificationToEvent(tx *gorm.DB, v *otp.PhoneVerification, eventType string) error {
	ev := otp.VerificationEvent{
		VerificationID: v.ID,
		UserID:         v.UserID,
		Phone:          v.Phone,
		Channel:        v.Channel,
		ListingID:      v.ListingID,
		Attempts:       v.Attempts,
		Verified:       v.Verified,
		ExpiresAt:      v.ExpiresAt,
		EventType:      eventType,
	}

	return tx.Create(&ev).Error
}
