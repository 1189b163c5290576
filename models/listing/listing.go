package listing

import (
	"time"

	"persian-pages/models/category"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing is a business entry in the directory. Scraped rows start unclaimed
// with no owner; once claimed, ownership is never given up.
type Listing struct {
	ID          string             `gorm:"type:varchar(36);primaryKey" json:"id"`
	Slug        string             `gorm:"type:varchar(120);not null;uniqueIndex" json:"slug"`
	PlaceID     *string            `gorm:"type:varchar(255);uniqueIndex" json:"placeId,omitempty"`
	Title       string             `gorm:"type:varchar(255);not null" json:"title"`
	Description string             `gorm:"type:text" json:"description"`
	CategoryID  string             `gorm:"type:varchar(36);not null;index" json:"categoryId"`
	Category    *category.Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Address   string   `gorm:"type:text" json:"address"`
	City      string   `gorm:"type:varchar(120);index" json:"city"`
	Country   string   `gorm:"type:varchar(120)" json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Phone         *string       `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	PhoneVerified bool          `gorm:"default:false" json:"phoneVerified"`
	Website       *string       `gorm:"type:varchar(2048)" json:"website,omitempty"`
	SocialLinks   SocialLinks   `gorm:"type:json" json:"socialLinks,omitempty"`
	BusinessHours BusinessHours `gorm:"type:json" json:"businessHours,omitempty"`
	Photos        StringSlice   `gorm:"type:json" json:"photos"`

	IsActive  bool       `gorm:"default:true" json:"isActive"`
	Source    string     `gorm:"type:varchar(20);not null;default:'user'" json:"source"`
	IsClaimed bool       `gorm:"default:false;index" json:"isClaimed"`
	ClaimedAt *time.Time `json:"claimedAt,omitempty"`
	UserID    *string    `gorm:"type:varchar(36);index" json:"userId,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Photos == nil {
		l.Photos = StringSlice{}
	}
	return nil
}

// OwnedBy reports whether userID owns the listing.
func (l *Listing) OwnedBy(userID string) bool {
	return l.UserID != nil && *l.UserID == userID
}

// PhoneValue returns the stored phone or "".
func (l *Listing) PhoneValue() string {
	if l.Phone == nil {
		return ""
	}
	return *l.Phone
}
