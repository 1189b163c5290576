package claim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"persian-pages/constants"
	"persian-pages/database"
	"persian-pages/logger"
	"persian-pages/metrics"
	"persian-pages/models/category"
	"persian-pages/models/listing"
	"persian-pages/services/listing_event"
	"persian-pages/services/verification"
	"persian-pages/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service owns every listing write that depends on who the caller is:
// claiming, owner edits, user-created listings and deletes.
type Service struct {
	DB       *gorm.DB
	Verifier *verification.Service
	Now      func() time.Time
}

func NewService(db *gorm.DB, verifier *verification.Service) *Service {
	return &Service{DB: db, Verifier: verifier, Now: time.Now}
}

type UpdateInput struct {
	Title             *string               `json:"title"`
	Description       *string               `json:"description"`
	CategoryID        *string               `json:"categoryId"`
	Phone             *string               `json:"phone"`
	Address           *string               `json:"address"`
	City              *string               `json:"city"`
	Country           *string               `json:"country"`
	Website           *string               `json:"website"`
	SocialLinks       listing.SocialLinks   `json:"socialLinks"`
	BusinessHours     listing.BusinessHours `json:"businessHours"`
	Photos            listing.StringSlice   `json:"photos"`
	IsActive          *bool                 `json:"isActive"`
	Latitude          *float64              `json:"latitude"`
	Longitude         *float64              `json:"longitude"`
	VerificationToken string                `json:"verificationToken"`
}

type CreateInput struct {
	Title             string                `json:"title"`
	Description       string                `json:"description"`
	CategoryID        string                `json:"categoryId"`
	Address           string                `json:"address"`
	City              string                `json:"city"`
	Country           string                `json:"country"`
	Phone             string                `json:"phone"`
	Website           *string               `json:"website"`
	SocialLinks       listing.SocialLinks   `json:"socialLinks"`
	BusinessHours     listing.BusinessHours `json:"businessHours"`
	Photos            listing.StringSlice   `json:"photos"`
	Latitude          *float64              `json:"latitude"`
	Longitude         *float64              `json:"longitude"`
	VerificationToken string                `json:"verificationToken"`
}

// Claim transfers an unclaimed listing to userID. token must prove userID
// verified the listing's phone. Exactly one concurrent claim can win.
func (s *Service) Claim(ctx context.Context, listingID, userID, token string) (*listing.Listing, error) {
	l, err := s.load(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.IsClaimed {
		metrics.ClaimsTotal.WithLabelValues("already_claimed").Inc()
		return nil, ErrAlreadyClaimed
	}
	if l.PhoneValue() == "" {
		return nil, ErrListingHasNoPhone
	}
	if token == "" {
		return nil, ErrTokenRequired
	}
	claims, err := s.Verifier.Validate(ctx, userID, token, l.PhoneValue(), l.ID)
	if err != nil {
		metrics.ClaimsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	now := s.Now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Verifier.Consume(tx, claims, now); err != nil {
			return err
		}
		res := tx.Model(&listing.Listing{}).
			Where("id = ? AND is_claimed = ?", l.ID, false).
			Updates(map[string]interface{}{
				"user_id":        userID,
				"is_claimed":     true,
				"claimed_at":     now,
				"phone_verified": true,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to claim listing: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyClaimed
		}

		l.UserID = &userID
		l.IsClaimed = true
		l.ClaimedAt = &now
		l.PhoneVerified = true
		return listing_event.SnapshotListingToEvent(tx, l, listing_event.EventClaimed, userID)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyClaimed) {
			metrics.ClaimsTotal.WithLabelValues("already_claimed").Inc()
		}
		return nil, err
	}

	metrics.ClaimsTotal.WithLabelValues("claimed").Inc()
	logger.Success(fmt.Sprintf("Listing %s claimed by user %s", l.ID, userID))
	return s.Get(ctx, l.ID)
}

// Update applies an owner's edit. A new phone drops the verified flag unless
// the request carries a token for that phone.
func (s *Service) Update(ctx context.Context, listingID, userID string, in UpdateInput) (*listing.Listing, error) {
	l, err := s.load(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !l.OwnedBy(userID) {
		return nil, ErrForbidden
	}
	if in.CategoryID != nil {
		if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	oldTitle, oldCity, oldPhone := l.Title, l.City, l.PhoneValue()
	applyUpdate(l, in)

	if in.Phone != nil {
		l.Phone = normalizeListingPhone(*in.Phone, l.Country)
	}
	phoneChanged := l.PhoneValue() != oldPhone

	var claims *verification.ClaimClaims
	if in.VerificationToken != "" {
		claims, err = s.Verifier.Validate(ctx, userID, in.VerificationToken, l.PhoneValue(), l.ID)
		if err != nil {
			return nil, err
		}
		l.PhoneVerified = true
	} else if phoneChanged {
		l.PhoneVerified = false
	}

	regenerate := l.Title != oldTitle || l.City != oldCity
	event := listing_event.EventUpdated
	if phoneChanged {
		event = listing_event.EventPhoneChanged
	}

	now := s.Now()
	err = s.saveWithSlug(ctx, l, regenerate, func(tx *gorm.DB) error {
		if err := s.consume(tx, claims, now); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(l).Error; err != nil {
			return err
		}
		return listing_event.SnapshotListingToEvent(tx, l, event, userID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, l.ID)
}

// Create stores a listing entered by its owner.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*listing.Listing, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" ||
		in.CategoryID == "" || strings.TrimSpace(in.Address) == "" ||
		strings.TrimSpace(in.City) == "" || strings.TrimSpace(in.Country) == "" ||
		strings.TrimSpace(in.Phone) == "" {
		return nil, ErrMissingFields
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := s.Now()
	l := &listing.Listing{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		Address:       in.Address,
		City:          strings.TrimSpace(in.City),
		Country:       strings.TrimSpace(in.Country),
		Phone:         normalizeListingPhone(in.Phone, in.Country),
		Website:       in.Website,
		SocialLinks:   in.SocialLinks,
		BusinessHours: in.BusinessHours,
		Photos:        in.Photos,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		IsActive:      true,
		Source:        constants.SourceUser,
		IsClaimed:     true,
		ClaimedAt:     &now,
		UserID:        &userID,
	}

	var claims *verification.ClaimClaims
	if in.VerificationToken != "" {
		var err error
		claims, err = s.Verifier.Validate(ctx, userID, in.VerificationToken, l.PhoneValue(), "")
		if err != nil {
			return nil, err
		}
		l.PhoneVerified = true
	}

	err := s.saveWithSlug(ctx, l, true, func(tx *gorm.DB) error {
		if err := s.consume(tx, claims, now); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(l).Error; err != nil {
			return err
		}
		return listing_event.SnapshotListingToEvent(tx, l, listing_event.EventCreated, userID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, l.ID)
}

// Get finds a listing by id or slug.
func (s *Service) Get(ctx context.Context, idOrSlug string) (*listing.Listing, error) {
	var l listing.Listing
	err := s.DB.WithContext(ctx).Preload("Category").
		Where("id = ? OR slug = ?", idOrSlug, idOrSlug).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	return &l, nil
}

func (s *Service) Delete(ctx context.Context, listingID, userID string) error {
	l, err := s.load(ctx, listingID)
	if err != nil {
		return err
	}
	if !l.OwnedBy(userID) {
		return ErrForbidden
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := listing_event.SnapshotListingToEvent(tx, l, listing_event.EventDeleted, userID); err != nil {
			return err
		}
		if err := tx.Delete(&listing.Listing{}, "id = ?", l.ID).Error; err != nil {
			return fmt.Errorf("failed to delete listing: %w", err)
		}
		return nil
	})
}

// ListMine returns the listings owned by userID, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]listing.Listing, error) {
	var listings []listing.Listing
	err := s.DB.WithContext(ctx).Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

func (s *Service) load(ctx context.Context, id string) (*listing.Listing, error) {
	var l listing.Listing
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	return &l, nil
}

func (s *Service) requireCategory(ctx context.Context, id string) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&category.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if count == 0 {
		return ErrInvalidCategory
	}
	return nil
}

// saveWithSlug runs write in a transaction. When regenerate is set it first
// picks a free slug for the listing's title and city, and picks again if the
// write loses a race for it.
func (s *Service) saveWithSlug(ctx context.Context, l *listing.Listing, regenerate bool, write func(tx *gorm.DB) error) error {
	db := s.DB.WithContext(ctx)
	base := utils.SlugBase(l.Title, l.City)

	for attempt := 0; attempt < constants.MaxInsertRetries; attempt++ {
		if regenerate {
			slug, err := utils.UniqueSlug(ctx, base, s.slugOwner, l.ID)
			if err != nil {
				return err
			}
			l.Slug = slug
		}

		err := db.Transaction(write)
		if err == nil {
			return nil
		}
		if !regenerate || !database.IsUniqueViolation(err) || database.ViolatedColumn(err, "slug") == "" {
			return err
		}
		logger.Warning(fmt.Sprintf("Slug %q taken concurrently, retrying", l.Slug))
	}
	return fmt.Errorf("%w: %s", utils.ErrSlugExhausted, base)
}

// consume spends the token behind claims, if the write carried one.
func (s *Service) consume(tx *gorm.DB, claims *verification.ClaimClaims, at time.Time) error {
	if claims == nil {
		return nil
	}
	return s.Verifier.Consume(tx, claims, at)
}

func (s *Service) slugOwner(ctx context.Context, slug string) (string, bool, error) {
	var ids []string
	err := s.DB.WithContext(ctx).Model(&listing.Listing{}).
		Where("slug = ?", slug).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", false, err
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[0], true, nil
}

func applyUpdate(l *listing.Listing, in UpdateInput) {
	if in.Title != nil {
		l.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	if in.CategoryID != nil {
		l.CategoryID = *in.CategoryID
	}
	if in.Address != nil {
		l.Address = *in.Address
	}
	if in.City != nil {
		l.City = strings.TrimSpace(*in.City)
	}
	if in.Country != nil {
		l.Country = strings.TrimSpace(*in.Country)
	}
	if in.Website != nil {
		l.Website = in.Website
	}
	if in.SocialLinks != nil {
		l.SocialLinks = in.SocialLinks
	}
	if in.BusinessHours != nil {
		l.BusinessHours = in.BusinessHours
	}
	if in.Photos != nil {
		l.Photos = in.Photos
	}
	if in.IsActive != nil {
		l.IsActive = *in.IsActive
	}
	if in.Latitude != nil {
		l.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		l.Longitude = in.Longitude
	}
}

// normalizeListingPhone prefers E.164 using the listing's country as a hint
// and falls back to the stripped input. Blank input clears the phone.
func normalizeListingPhone(phone, country string) *string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	if e164, ok := utils.ToE164(phone, utils.CountryHint(country)); ok {
		return &e164
	}
	normalized := utils.NormalizePhone(phone)
	return &normalized
}
