package seeders

import (
	"fmt"

	"persian-pages/logger"
	"persian-pages/models/category"

	"gorm.io/gorm"
)

// Categories is the fixed directory taxonomy. The slugs match category.Slugs.
var Categories = []category.Category{
	{Slug: "restaurant", Name: "Restaurant", NameFa: "رستوران", Icon: "🍽️"},
	{Slug: "grocery", Name: "Grocery", NameFa: "سوپرمارکت", Icon: "🛒"},
	{Slug: "services", Name: "Services", NameFa: "خدمات", Icon: "🔧"},
	{Slug: "real-estate", Name: "Real Estate", NameFa: "املاک", Icon: "🏠"},
	{Slug: "legal", Name: "Legal", NameFa: "حقوقی", Icon: "⚖️"},
	{Slug: "medical", Name: "Medical", NameFa: "پزشکی", Icon: "🏥"},
	{Slug: "beauty", Name: "Beauty", NameFa: "زیبایی", Icon: "💇"},
	{Slug: "automotive", Name: "Automotive", NameFa: "خودرو", Icon: "🚗"},
	{Slug: "education", Name: "Education", NameFa: "آموزش", Icon: "📚"},
	{Slug: "financial", Name: "Financial", NameFa: "مالی", Icon: "💰"},
}

// SeedCategories inserts whichever categories are missing.
func SeedCategories(db *gorm.DB) {
	logger.Info("🔍 Checking category data integrity...")

	var existingSlugs []string
	if err := db.Model(&category.Category{}).Pluck("slug", &existingSlugs).Error; err != nil {
		logger.Error("Failed to read existing categories", err)
		return
	}

	existing := make(map[string]bool, len(existingSlugs))
	for _, slug := range existingSlugs {
		existing[slug] = true
	}

	var missing []category.Category
	for _, c := range Categories {
		if !existing[c.Slug] {
			missing = append(missing, c)
		}
	}

	if len(missing) == 0 {
		logger.Success("All categories are already present. No seeding needed.")
		return
	}

	logger.Info(fmt.Sprintf("🌱 Seeding %d missing categories...", len(missing)))
	successCount, failureCount := 0, 0
	for _, c := range missing {
		c := c
		if err := db.Create(&c).Error; err != nil {
			logger.Error(fmt.Sprintf("Failed to seed category %s", c.Slug), err)
			failureCount++
			continue
		}
		successCount++
	}

	logger.Success(fmt.Sprintf("Seeding completed! Inserted %d categories, %d failures", successCount, failureCount))
}
