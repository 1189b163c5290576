package scrape

import (
	"context"
	"fmt"

	"persian-pages/constants"
	"persian-pages/database"
	"persian-pages/httpServices/places"
	"persian-pages/logger"
	"persian-pages/metrics"
	"persian-pages/models/category"
	"persian-pages/models/listing"
	"persian-pages/services/listing_event"
	"persian-pages/utils"

	"gorm.io/gorm"
)

var dayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

type ImportResult struct {
	Imported int
	Filtered int
	Listings []string
}

// Importer turns accepted classifications into scraped listings.
type Importer struct {
	DB *gorm.DB
}

// Import inserts up to limit accepted places for city. Rejected or
// unclassified places count as filtered; places left after the limit is hit
// are not counted.
func (im *Importer) Import(ctx context.Context, candidates []places.Place, classifications map[string]Classification, city City, limit int) (ImportResult, error) {
	var result ImportResult
	db := im.DB.WithContext(ctx)

	categoryIDs, err := loadCategoryIDs(db)
	if err != nil {
		return result, err
	}

	var existing []string
	if err := db.Model(&listing.Listing{}).Pluck("slug", &existing).Error; err != nil {
		return result, fmt.Errorf("failed to load existing slugs: %w", err)
	}
	slugs := utils.NewSlugSet(existing)

	for _, place := range candidates {
		if result.Imported >= limit {
			break
		}

		cls, ok := classifications[place.ID]
		if !ok || !cls.Accepted() {
			result.Filtered++
			continue
		}

		categoryID, ok := categoryIDs[cls.CategorySlug]
		if !ok {
			logger.Error(fmt.Sprintf("Unknown category slug %q, skipping %s", cls.CategorySlug, place.ID), nil)
			result.Filtered++
			continue
		}

		englishName := place.Name()
		if englishName == "" {
			englishName = "Unknown Business"
		}

		row := buildListing(place, cls, city, categoryID)
		inserted, err := insertWithSlug(db, row, utils.SlugBase(englishName, city.NameEn), slugs)
		if err != nil {
			return result, err
		}
		if !inserted {
			logger.Warning(fmt.Sprintf("Place %s was imported by another run, skipping", place.ID))
			continue
		}

		line := fmt.Sprintf("%s → %s (%s)", englishName, cls.Title, cls.CategorySlug)
		logger.Printf("  + %s", line)
		result.Listings = append(result.Listings, line)
		result.Imported++
		metrics.ScrapeImportedTotal.Inc()
	}
	return result, nil
}

// insertWithSlug reserves a slug and inserts row, moving to the next suffix
// when another writer takes the slug first. It returns false when the
// place id already exists.
func insertWithSlug(db *gorm.DB, row *listing.Listing, base string, slugs *utils.SlugSet) (bool, error) {
	for attempt := 0; attempt < constants.MaxInsertRetries; attempt++ {
		row.Slug = slugs.Reserve(base)

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			return listing_event.SnapshotListingToEvent(tx, row, listing_event.EventImported, "")
		})
		if err == nil {
			return true, nil
		}
		if !database.IsUniqueViolation(err) {
			return false, fmt.Errorf("failed to insert listing %q: %w", row.Slug, err)
		}

		switch database.ViolatedColumn(err, "place_id", "slug") {
		case "place_id":
			return false, nil
		case "slug":
			row.ID = ""
			continue
		default:
			return false, fmt.Errorf("failed to insert listing %q: %w", row.Slug, err)
		}
	}
	return false, fmt.Errorf("%w: %s", utils.ErrSlugExhausted, base)
}

func buildListing(place places.Place, cls Classification, city City, categoryID string) *listing.Listing {
	placeID := place.ID
	row := &listing.Listing{
		PlaceID:       &placeID,
		Title:         cls.Title,
		Description:   cls.Description,
		CategoryID:    categoryID,
		Address:       place.FormattedAddress,
		City:          city.Name,
		Country:       city.Country,
		BusinessHours: openingHours(place.RegularOpeningHours),
		Photos:        listing.StringSlice{},
		IsActive:      true,
		Source:        constants.SourceScraped,
		IsClaimed:     false,
	}
	if row.Title == "" {
		row.Title = place.Name()
	}
	if place.Location != nil {
		lat, lng := place.Location.Latitude, place.Location.Longitude
		row.Latitude = &lat
		row.Longitude = &lng
	}
	if phone, ok := utils.ToE164(place.InternationalPhoneNumber, city.CountryCode); ok {
		row.Phone = &phone
	}
	if place.WebsiteURI != "" {
		website := place.WebsiteURI
		row.Website = &website
	}
	return row
}

// openingHours maps provider periods to {"monday": {"open": "09:00", ...}}.
// Periods without both ends are skipped.
func openingHours(hours *places.OpeningHours) listing.BusinessHours {
	if hours == nil || len(hours.Periods) == 0 {
		return nil
	}
	out := listing.BusinessHours{}
	for _, p := range hours.Periods {
		if p.Open == nil || p.Close == nil || p.Open.Day < 0 || p.Open.Day > 6 {
			continue
		}
		out[dayNames[p.Open.Day]] = listing.DayHours{
			Open:  fmt.Sprintf("%02d:%02d", p.Open.Hour, p.Open.Minute),
			Close: fmt.Sprintf("%02d:%02d", p.Close.Hour, p.Close.Minute),
		}
	}
	return out
}

func loadCategoryIDs(db *gorm.DB) (map[string]string, error) {
	var categories []category.Category
	if err := db.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	ids := make(map[string]string, len(categories))
	for _, c := range categories {
		ids[c.Slug] = c.ID
	}
	return ids, nil
}
