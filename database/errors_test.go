package database_test

import (
	"errors"
	"testing"

	"persian-pages/database"
	"persian-pages/database/dbtest"
	"persian-pages/database/seeders"
	"persian-pages/models/category"
	"persian-pages/models/listing"
)

func TestIsUniqueViolation(t *testing.T) {
	db := dbtest.New(t)

	var restaurant category.Category
	if err := db.Where("slug = ?", "restaurant").First(&restaurant).Error; err != nil {
		t.Fatalf("seeded category missing: %v", err)
	}

	first := listing.Listing{Slug: "apadana", Title: "Apadana", CategoryID: restaurant.ID}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create first: %v", err)
	}

	dup := listing.Listing{Slug: "apadana", Title: "Apadana 2", CategoryID: restaurant.ID}
	err := db.Create(&dup).Error
	if err == nil {
		t.Fatalf("expected duplicate slug to fail")
	}
	if !database.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if col := database.ViolatedColumn(err, "place_id", "slug"); col != "slug" {
		t.Fatalf("expected slug column, got %q", col)
	}

	if database.IsUniqueViolation(errors.New("connection refused")) {
		t.Fatalf("plain errors are not unique violations")
	}
	if database.IsUniqueViolation(nil) {
		t.Fatalf("nil is not a unique violation")
	}
}

func TestSeedCategoriesIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	seeders.SeedCategories(db)

	var count int64
	db.Model(&category.Category{}).Count(&count)
	if count != int64(len(category.Slugs)) {
		t.Fatalf("expected %d categories, got %d", len(category.Slugs), count)
	}
}
