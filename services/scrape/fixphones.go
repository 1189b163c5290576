package scrape

import (
	"context"
	"fmt"

	"persian-pages/models/listing"
	"persian-pages/utils"

	"gorm.io/gorm"
)

type FixPhonesResult struct {
	DryRun    bool     `json:"dryRun"`
	Fixed     int      `json:"fixed"`
	AlreadyOk int      `json:"alreadyOk"`
	Failed    int      `json:"failed"`
	Total     int      `json:"total"`
	Changes   []string `json:"changes"`
}

// FixPhones rewrites stored listing phones to E.164. Numbers already in
// E.164 after stripping formatting are kept; the rest are parsed with the
// listing's country as region hint. Unparsable numbers are reported and
// left untouched.
func FixPhones(ctx context.Context, db *gorm.DB, dryRun bool) (*FixPhonesResult, error) {
	var rows []listing.Listing
	err := db.WithContext(ctx).
		Select("id", "title", "phone", "country").
		Where("phone IS NOT NULL AND phone <> ''").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load listing phones: %w", err)
	}

	result := &FixPhonesResult{DryRun: dryRun, Total: len(rows), Changes: []string{}}
	for _, row := range rows {
		phone := row.PhoneValue()
		cleaned := utils.NormalizePhone(phone)

		var next string
		switch {
		case utils.IsValidE164(cleaned) && cleaned == phone:
			result.AlreadyOk++
			continue
		case utils.IsValidE164(cleaned):
			next = cleaned
		default:
			parsed, ok := utils.ToE164(phone, utils.CountryHint(row.Country))
			if !ok {
				result.Failed++
				result.Changes = append(result.Changes, fmt.Sprintf("FAILED: %s: %q", row.Title, phone))
				continue
			}
			next = parsed
		}

		result.Changes = append(result.Changes, fmt.Sprintf("%s: %q → %q", row.Title, phone, next))
		result.Fixed++
		if dryRun {
			continue
		}
		err := db.WithContext(ctx).
			Model(&listing.Listing{}).
			Where("id = ?", row.ID).
			Update("phone", next).Error
		if err != nil {
			return nil, fmt.Errorf("failed to update phone of listing %s: %w", row.ID, err)
		}
	}
	return result, nil
}
