package scrape

import (
	"context"
	"fmt"

	"persian-pages/httpServices/places"
	"persian-pages/models/listing"

	"gorm.io/gorm"
)

// Dedup drops places whose id is already stored. alreadyInDB counts the
// dropped places.
func Dedup(ctx context.Context, db *gorm.DB, candidates []places.Place) (fresh []places.Place, alreadyInDB int, err error) {
	if len(candidates) == 0 {
		return nil, 0, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, p := range candidates {
		ids = append(ids, p.ID)
	}

	var existing []string
	if err := db.WithContext(ctx).Model(&listing.Listing{}).
		Where("place_id IN ?", ids).
		Pluck("place_id", &existing).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to look up existing place ids: %w", err)
	}

	known := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}
	for _, p := range candidates {
		if _, ok := known[p.ID]; !ok {
			fresh = append(fresh, p)
		}
	}
	return fresh, len(candidates) - len(fresh), nil
}
