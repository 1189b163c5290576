package database

import (
	"fmt"

	"persian-pages/config"
	"persian-pages/database/seeders"
	"persian-pages/logger"
	"persian-pages/models/category"
	"persian-pages/models/listing"
	"persian-pages/models/log"
	"persian-pages/models/otp"
	"persian-pages/models/scrape"
	"persian-pages/models/user"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the configured database, migrates every model, creates the
// secondary indexes and seeds the category table.
func InitDB(cfg config.Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := Migrate(db); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(db); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	seeders.SeedCategories(db)
	return db, nil
}

// Open connects without migrating.
func Open(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	switch cfg.DBDriver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DBName), gormCfg)
	case "postgres", "":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
		return gorm.Open(postgres.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		// Stage 1: foundation
		&user.User{},
		&category.Category{},

		// Stage 2: depends on users and categories
		&listing.Listing{},
		&otp.PhoneVerification{},

		// Stage 3: history and bookkeeping
		&listing.ListingEvent{},
		&otp.VerificationEvent{},
		&scrape.Job{},
		&scrape.Run{},
		&log.Log{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	return nil
}

func createIndexes(db *gorm.DB) error {
	statements := []struct {
		name string
		sql  string
	}{
		{"listings source", "CREATE INDEX IF NOT EXISTS idx_listings_source ON listings(source)"},
		{"listings created_at", "CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at)"},
		{"verifications user created_at", "CREATE INDEX IF NOT EXISTS idx_verifications_user_created ON phone_verifications(user_id, created_at)"},
		{"verification events created_at", "CREATE INDEX IF NOT EXISTS idx_verification_events_created_at ON verification_events(created_at)"},
		{"listing events created_at", "CREATE INDEX IF NOT EXISTS idx_listing_events_created_at ON listing_events(created_at)"},
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt.sql).Error; err != nil {
			return fmt.Errorf("failed to create %s index: %w", stmt.name, err)
		}
	}
	return nil
}
