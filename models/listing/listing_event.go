package listing

import (
	"time"
)

// ListingEvent is a snapshot of ownership-relevant listing fields taken on
// every claim and phone change.
type ListingEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ListingID     string     `gorm:"type:varchar(36);not null;index" json:"listing_id"`
	Slug          string     `gorm:"type:varchar(120)" json:"slug"`
	Title         string     `gorm:"type:varchar(255)" json:"title"`
	Phone         *string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	PhoneVerified bool       `json:"phone_verified"`
	IsClaimed     bool       `json:"is_claimed"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty"`
	UserID        *string    `gorm:"type:varchar(36)" json:"user_id,omitempty"`
	UpdatedBy     string     `gorm:"type:varchar(36)" json:"updated_by"`

	EventType string    `gorm:"type:varchar(50);not null" json:"event_type"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ListingEvent) TableName() string {
	return "listing_events"
}
