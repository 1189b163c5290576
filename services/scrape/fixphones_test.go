package scrape

import (
	"context"
	"fmt"
	"testing"

	"persian-pages/database/dbtest"
	"persian-pages/models/listing"

	"gorm.io/gorm"
)

func seedPhone(t *testing.T, db *gorm.DB, title, phone, country string) *listing.Listing {
	t.Helper()
	l := &listing.Listing{
		Slug:       fmt.Sprintf("phone-%s", title),
		Title:      title,
		CategoryID: categoryID(t, db, "services"),
		Country:    country,
		Source:     "scraped",
	}
	if phone != "" {
		l.Phone = &phone
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return l
}

func TestFixPhones(t *testing.T) {
	db := dbtest.New(t)
	ok := seedPhone(t, db, "ok", "+14167360123", "کانادا")
	spaced := seedPhone(t, db, "spaced", "+1 416 736 0124", "کانادا")
	national := seedPhone(t, db, "national", "(416) 736-0125", "کانادا")
	broken := seedPhone(t, db, "broken", "call us", "کانادا")
	seedPhone(t, db, "none", "", "کانادا")

	dry, err := FixPhones(context.Background(), db, true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !dry.DryRun || dry.Total != 4 || dry.AlreadyOk != 1 || dry.Fixed != 2 || dry.Failed != 1 {
		t.Fatalf("unexpected dry run result %+v", dry)
	}
	if len(dry.Changes) != 3 {
		t.Fatalf("expected 3 change lines, got %v", dry.Changes)
	}

	var reloaded listing.Listing
	db.First(&reloaded, "id = ?", national.ID)
	if reloaded.PhoneValue() != "(416) 736-0125" {
		t.Fatalf("dry run modified a phone: %q", reloaded.PhoneValue())
	}

	live, err := FixPhones(context.Background(), db, false)
	if err != nil {
		t.Fatalf("live run: %v", err)
	}
	if live.Fixed != 2 || live.Failed != 1 {
		t.Fatalf("unexpected live result %+v", live)
	}

	want := map[string]string{
		ok.ID:       "+14167360123",
		spaced.ID:   "+14167360124",
		national.ID: "+14167360125",
		broken.ID:   "call us",
	}
	for id, phone := range want {
		var row listing.Listing
		if err := db.First(&row, "id = ?", id).Error; err != nil {
			t.Fatalf("reload %s: %v", id, err)
		}
		if row.PhoneValue() != phone {
			t.Fatalf("listing %s: expected %q, got %q", row.Title, phone, row.PhoneValue())
		}
	}

	again, err := FixPhones(context.Background(), db, false)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.Fixed != 0 || again.AlreadyOk != 3 || again.Failed != 1 {
		t.Fatalf("expected an idempotent second run, got %+v", again)
	}
}
