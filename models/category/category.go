package category

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Slug      string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"slug"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	NameFa    string    `gorm:"type:varchar(100);not null" json:"nameFa"`
	Icon      string    `gorm:"type:varchar(16)" json:"icon"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Slugs accepted from the classifier, in display order.
var Slugs = []string{
	"restaurant", "grocery", "services", "real-estate", "legal",
	"medical", "beauty", "automotive", "education", "financial",
}

// FallbackSlug replaces any classifier category outside Slugs.
const FallbackSlug = "services"

func IsKnownSlug(slug string) bool {
	for _, s := range Slugs {
		if s == slug {
			return true
		}
	}
	return false
}
