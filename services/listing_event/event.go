package listing_event

import (
	"persian-pages/models/listing"

	"gorm.io/gorm"
)

// Listing event types
const (
	EventCreated      = "created"
	EventClaimed      = "claimed"
	EventUpdated      = "updated"
	EventPhoneChanged = "phone_changed"
	EventDeleted      = "deleted"
	EventImported     = "imported"
)

// SnapshotListingToEvent writes the ownership-relevant fields of a listing
// into listing_events. If the caller only has the id, the row is reloaded.
func SnapshotListingToEvent(tx *gorm.DB, l *listing.Listing, eventType string, updatedBy string) error {
	if l.Slug == "" {
		if err := tx.First(l, "id = ?", l.ID).Error; err != nil {
			return err
		}
	}

	ev := listing.ListingEvent{
		ListingID:     l.ID,
		Slug:          l.Slug,
		Title:         l.Title,
		Phone:         l.Phone,
		PhoneVerified: l.PhoneVerified,
		IsClaimed:     l.IsClaimed,
		ClaimedAt:     l.ClaimedAt,
		UserID:        l.UserID,
		UpdatedBy:     updatedBy,
		EventType:     eventType,
	}

	return tx.Create(&ev).Error
}
