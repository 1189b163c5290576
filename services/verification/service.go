package verification

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"persian-pages/constants"
	"persian-pages/logger"
	"persian-pages/metrics"
	"persian-pages/models/listing"
	"persian-pages/models/otp"
	otpService "persian-pages/services/otp"
	"persian-pages/services/otp_event"
	"persian-pages/utils"

	"gorm.io/gorm"
)

// Service runs the send / confirm handshake that proves a user controls a
// phone number, and validates the resulting tokens.
type Service struct {
	DB     *gorm.DB
	OTP    *otpService.Service
	Tokens *TokenIssuer
	Now    func() time.Time
}

func NewService(db *gorm.DB, otpSvc *otpService.Service, tokens *TokenIssuer) *Service {
	return &Service{
		DB:     db,
		OTP:    otpSvc,
		Tokens: tokens,
		Now:    time.Now,
	}
}

type SendInput struct {
	Phone     string `json:"phone"`
	Channel   string `json:"channel"`
	ListingID string `json:"listingId"`
}

type ConfirmInput struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// Send issues a new code for userID and phone. The returned time is when the
// code stops being accepted.
func (s *Service) Send(ctx context.Context, userID string, in SendInput) (time.Time, error) {
	if in.Phone == "" {
		return time.Time{}, ErrPhoneRequired
	}
	phone, ok := utils.ToE164(in.Phone, "")
	if !ok {
		return time.Time{}, ErrInvalidPhone
	}

	channel := in.Channel
	if channel == "" {
		channel = constants.ChannelSMS
	}
	if channel != constants.ChannelSMS && channel != constants.ChannelCall {
		return time.Time{}, ErrInvalidChannel
	}

	db := s.DB.WithContext(ctx)
	now := s.Now()

	var recent int64
	if err := db.Model(&otp.PhoneVerification{}).
		Where("user_id = ? AND created_at >= ?", userID, now.Add(-constants.OTPSendWindow)).
		Count(&recent).Error; err != nil {
		return time.Time{}, fmt.Errorf("failed to count recent verifications: %w", err)
	}
	if recent >= constants.OTPMaxSendsInWindow {
		metrics.OTPSendsTotal.WithLabelValues(channel, "rate_limited").Inc()
		return time.Time{}, ErrTooManyRequests
	}

	var listingID *string
	if in.ListingID != "" {
		l, err := s.claimableListing(ctx, in.ListingID)
		if err != nil {
			return time.Time{}, err
		}
		if canonicalPhone(l.PhoneValue()) != phone {
			return time.Time{}, ErrPhoneMismatch
		}
		listingID = &l.ID
	}

	code, err := otpService.GenerateOTP()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to generate OTP: %w", err)
	}

	record := &otp.PhoneVerification{
		Phone:     phone,
		Code:      code,
		Channel:   channel,
		ExpiresAt: now.Add(constants.OTPTTL),
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: now,
	}
	if err := db.Create(record).Error; err != nil {
		return time.Time{}, fmt.Errorf("failed to create verification record: %w", err)
	}
	s.snapshot(db, record, otp.EventSent)

	// The row stays valid when delivery fails; the user can ask for a resend.
	if err := s.OTP.Dispatch(ctx, channel, phone, code); err != nil {
		logger.Error(fmt.Sprintf("Failed to deliver verification code to %s", utils.MaskPhone(phone)), err)
	}

	return record.ExpiresAt, nil
}

// Confirm checks code against the newest open verification for userID and
// phone and returns a signed verification token on success.
func (s *Service) Confirm(ctx context.Context, userID string, in ConfirmInput) (string, error) {
	if in.Phone == "" || in.Code == "" {
		return "", ErrCodeRequired
	}
	phone := canonicalPhone(in.Phone)
	db := s.DB.WithContext(ctx)
	now := s.Now()

	var record otp.PhoneVerification
	err := db.Where("user_id = ? AND phone = ? AND verified = ? AND expires_at >= ?", userID, phone, false, now).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.reconfirm(db, userID, phone, in.Code, now)
	}
	if err != nil {
		return "", fmt.Errorf("failed to find verification record: %w", err)
	}

	if record.Attempts >= constants.OTPMaxAttempts {
		metrics.OTPConfirmsTotal.WithLabelValues("locked").Inc()
		return "", ErrTooManyAttempts
	}

	// Count the attempt before comparing so concurrent guesses cannot share one.
	res := db.Model(&otp.PhoneVerification{}).
		Where("id = ? AND attempts < ?", record.ID, constants.OTPMaxAttempts).
		UpdateColumn("attempts", gorm.Expr("attempts + 1"))
	if res.Error != nil {
		return "", fmt.Errorf("failed to record verification attempt: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		metrics.OTPConfirmsTotal.WithLabelValues("locked").Inc()
		return "", ErrTooManyAttempts
	}
	record.Attempts++

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(in.Code)) != 1 {
		event := otp.EventWrongCode
		if record.Attempts >= constants.OTPMaxAttempts {
			event = otp.EventLocked
		}
		s.snapshot(db, &record, event)
		metrics.OTPConfirmsTotal.WithLabelValues("wrong_code").Inc()
		return "", ErrWrongCode
	}

	res = db.Model(&otp.PhoneVerification{}).
		Where("id = ? AND verified = ?", record.ID, false).
		UpdateColumn("verified", true)
	if res.Error != nil {
		return "", fmt.Errorf("failed to mark verification as verified: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrCodeExpired
	}
	record.Verified = true
	s.snapshot(db, &record, otp.EventConfirmed)

	token, err := s.Tokens.Issue(userID, record.Phone, record.ID)
	if err != nil {
		return "", err
	}
	metrics.OTPConfirmsTotal.WithLabelValues("verified").Inc()
	return token, nil
}

// reconfirm answers a repeated confirm for a row that is already verified and
// whose token has not been spent: the same code gets a fresh token for the
// same verification. Anything else means the user has to start over.
func (s *Service) reconfirm(db *gorm.DB, userID, phone, code string, now time.Time) (string, error) {
	var record otp.PhoneVerification
	err := db.Where("user_id = ? AND phone = ? AND verified = ? AND consumed_at IS NULL AND expires_at >= ?", userID, phone, true, now).
		Order("created_at DESC").
		First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to find verification record: %w", err)
	}
	if err != nil || subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		metrics.OTPConfirmsTotal.WithLabelValues("expired").Inc()
		return "", ErrCodeExpired
	}

	token, err := s.Tokens.Issue(userID, record.Phone, record.ID)
	if err != nil {
		return "", err
	}
	metrics.OTPConfirmsTotal.WithLabelValues("already_verified").Inc()
	return token, nil
}

// PhoneHint returns the masked phone of a claimable listing so the user knows
// which number to enter.
func (s *Service) PhoneHint(ctx context.Context, listingID string) (string, error) {
	l, err := s.claimableListing(ctx, listingID)
	if err != nil {
		return "", err
	}
	return utils.MaskPhone(l.PhoneValue()), nil
}

// Validate checks that token was issued to userID for phone and that the
// verification it names completed. When listingID is set and the code was
// requested for a listing, the two must match.
func (s *Service) Validate(ctx context.Context, userID, token, phone, listingID string) (*ClaimClaims, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.UserID != userID {
		return nil, ErrTokenForbidden
	}
	if canonicalPhone(claims.Phone) != canonicalPhone(phone) {
		return nil, ErrVerifiedPhoneDiffers
	}

	var record otp.PhoneVerification
	err = s.DB.WithContext(ctx).Where("id = ?", claims.VerificationID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotVerified
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load verification record: %w", err)
	}
	if !record.Verified || record.UserID != userID {
		return nil, ErrNotVerified
	}
	if record.ConsumedAt != nil {
		return nil, ErrTokenConsumed
	}
	if bound := record.BoundListing(); bound != "" && listingID != "" && bound != listingID {
		return nil, ErrTokenListingMismatch
	}
	return claims, nil
}

// Consume marks the verification behind claims as used. Call it inside the
// transaction of the write the token authorizes; a second use of the same
// token gets ErrTokenConsumed.
func (s *Service) Consume(tx *gorm.DB, claims *ClaimClaims, at time.Time) error {
	res := tx.Model(&otp.PhoneVerification{}).
		Where("id = ? AND verified = ? AND consumed_at IS NULL", claims.VerificationID, true).
		UpdateColumn("consumed_at", at)
	if res.Error != nil {
		return fmt.Errorf("failed to consume verification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTokenConsumed
	}
	return nil
}

func (s *Service) claimableListing(ctx context.Context, id string) (*listing.Listing, error) {
	var l listing.Listing
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	if l.IsClaimed {
		return nil, ErrAlreadyClaimed
	}
	if l.PhoneValue() == "" {
		return nil, ErrListingHasNoPhone
	}
	return &l, nil
}

func (s *Service) snapshot(db *gorm.DB, v *otp.PhoneVerification, event string) {
	if err := otp_event.SnapshotVerificationToEvent(db, v, event); err != nil {
		logger.Error("Failed to write verification event", err)
	}
}

// canonicalPhone is the E.164 form when the input parses, otherwise the
// normalized input.
func canonicalPhone(phone string) string {
	if e164, ok := utils.ToE164(phone, ""); ok {
		return e164
	}
	return utils.NormalizePhone(phone)
}
