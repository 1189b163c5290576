package scrape

import (
	"context"
	"testing"

	"persian-pages/database/dbtest"
	"persian-pages/httpServices/places"
	"persian-pages/models/listing"
	"persian-pages/utils"
)

func TestOpeningHours(t *testing.T) {
	hours := &places.OpeningHours{Periods: []places.Period{
		{Open: &places.Point{Day: 1, Hour: 9}, Close: &places.Point{Day: 1, Hour: 17, Minute: 30}},
		{Open: &places.Point{Day: 0, Hour: 11, Minute: 5}, Close: &places.Point{Day: 0, Hour: 22}},
		{Open: &places.Point{Day: 3, Hour: 0}},
	}}

	got := openingHours(hours)
	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %v", got)
	}
	if got["monday"] != (listing.DayHours{Open: "09:00", Close: "17:30"}) {
		t.Fatalf("unexpected monday %+v", got["monday"])
	}
	if got["sunday"] != (listing.DayHours{Open: "11:05", Close: "22:00"}) {
		t.Fatalf("unexpected sunday %+v", got["sunday"])
	}
	if openingHours(nil) != nil {
		t.Fatalf("expected nil hours for a place without hours")
	}
}

func TestImportSuffixesTakenSlug(t *testing.T) {
	db := dbtest.New(t)
	seedScraped(t, db, "older", "apadana-toronto")
	toronto, _ := FindCity("Toronto")

	candidates := []places.Place{place("p2", "Apadana", "")}
	classifications := map[string]Classification{
		"p2": {PlaceID: "p2", IsPersian: true, Confidence: 4, CategorySlug: "restaurant", Title: "آپادانا"},
	}

	result, err := (&Importer{DB: db}).Import(context.Background(), candidates, classifications, toronto, 10)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("expected 1 import, got %+v", result)
	}

	var row listing.Listing
	if err := db.Where("place_id = ?", "p2").First(&row).Error; err != nil {
		t.Fatalf("load listing: %v", err)
	}
	if row.Slug != "apadana-toronto-2" {
		t.Fatalf("expected apadana-toronto-2, got %q", row.Slug)
	}
	if row.Phone != nil {
		t.Fatalf("expected no phone, got %q", row.PhoneValue())
	}
}

func TestInsertWithSlugRetriesAfterRace(t *testing.T) {
	db := dbtest.New(t)
	seedScraped(t, db, "other", "darband-toronto")

	// The set does not know about the stored slug, as if another run took it
	// after this one loaded its slugs.
	slugs := utils.NewSlugSet(nil)
	row := &listing.Listing{Title: "دربند", CategoryID: categoryID(t, db, "restaurant"), Source: "scraped"}
	pid := "p9"
	row.PlaceID = &pid

	inserted, err := insertWithSlug(db, row, "darband-toronto", slugs)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !inserted || row.Slug != "darband-toronto-2" {
		t.Fatalf("expected insert under darband-toronto-2, got %v %q", inserted, row.Slug)
	}

	dup := &listing.Listing{Title: "دربند", CategoryID: row.CategoryID, Source: "scraped", PlaceID: &pid}
	inserted, err = insertWithSlug(db, dup, "darband-toronto", slugs)
	if err != nil {
		t.Fatalf("insert duplicate: %v", err)
	}
	if inserted {
		t.Fatalf("expected duplicate place id to be skipped")
	}
}
