package scrape

import (
	"context"
	"testing"
	"time"

	"persian-pages/database/dbtest"
	"persian-pages/models/scrape"
)

func TestCollectStats(t *testing.T) {
	db := dbtest.New(t)
	at := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC) // Wednesday

	runs := []scrape.Run{
		{City: "Toronto", Imported: 4, CreatedAt: at.Add(-2 * time.Hour)},
		{City: "Berlin", Imported: 2, CreatedAt: at.AddDate(0, 0, -2)},
		{City: "Paris", Imported: 7, CreatedAt: at.AddDate(0, 0, -10)},
	}
	for i := range runs {
		if err := db.Create(&runs[i]).Error; err != nil {
			t.Fatalf("seed run: %v", err)
		}
	}
	seedScraped(t, db, "p1", "shandiz-toronto")

	stats, err := CollectStats(context.Background(), db, at)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if stats.Today.Runs != 1 || stats.Today.Imported != 4 {
		t.Fatalf("unexpected today stats %+v", stats.Today)
	}
	if stats.ThisWeek.Runs != 2 || stats.ThisWeek.Imported != 6 {
		t.Fatalf("unexpected week stats %+v", stats.ThisWeek)
	}
	if stats.ScrapedListings != 1 || stats.ClaimedScraped != 0 {
		t.Fatalf("unexpected listing counts %+v", stats)
	}
	if stats.LastRunCity != "Toronto" {
		t.Fatalf("expected Toronto as last run, got %q", stats.LastRunCity)
	}
}
