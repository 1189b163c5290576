package scrape

import (
	"context"
	"fmt"
	"time"

	"persian-pages/constants"
	"persian-pages/models/listing"
	"persian-pages/models/scrape"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

type WindowStats struct {
	Runs     int64 `json:"runs"`
	Imported int64 `json:"imported"`
}

type Stats struct {
	Today           WindowStats `json:"today"`
	ThisWeek        WindowStats `json:"thisWeek"`
	ScrapedListings int64       `json:"scrapedListings"`
	ClaimedScraped  int64       `json:"claimedScraped"`
	LastRunCity     string      `json:"lastRunCity,omitempty"`
	LastRunAt       *time.Time  `json:"lastRunAt,omitempty"`
}

// CollectStats summarizes scrape runs for the day and week containing at.
func CollectStats(ctx context.Context, db *gorm.DB, at time.Time) (*Stats, error) {
	db = db.WithContext(ctx)
	moment := now.With(at)

	stats := &Stats{}
	var err error
	if stats.Today, err = windowStats(db, moment.BeginningOfDay()); err != nil {
		return nil, err
	}
	if stats.ThisWeek, err = windowStats(db, moment.BeginningOfWeek()); err != nil {
		return nil, err
	}

	scraped := db.Model(&listing.Listing{}).Where("source = ?", constants.SourceScraped)
	if err := scraped.Count(&stats.ScrapedListings).Error; err != nil {
		return nil, fmt.Errorf("failed to count scraped listings: %w", err)
	}
	err = db.Model(&listing.Listing{}).
		Where("source = ? AND is_claimed = ?", constants.SourceScraped, true).
		Count(&stats.ClaimedScraped).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count claimed listings: %w", err)
	}

	var last scrape.Run
	res := db.Order("created_at DESC").Limit(1).Find(&last)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to load last scrape run: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		stats.LastRunCity = last.City
		stats.LastRunAt = &last.CreatedAt
	}
	return stats, nil
}

func windowStats(db *gorm.DB, since time.Time) (WindowStats, error) {
	var row struct {
		Runs     int64
		Imported int64
	}
	err := db.Model(&scrape.Run{}).
		Select("COUNT(*) AS runs, COALESCE(SUM(imported), 0) AS imported").
		Where("created_at >= ?", since).
		Scan(&row).Error
	if err != nil {
		return WindowStats{}, fmt.Errorf("failed to aggregate scrape runs: %w", err)
	}
	return WindowStats{Runs: row.Runs, Imported: row.Imported}, nil
}
