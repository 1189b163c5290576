package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"persian-pages/constants"
	"persian-pages/logger"
	"persian-pages/metrics"
)

// Messenger delivers a code over SMS or a voice call.
type Messenger interface {
	SendSMS(ctx context.Context, to, code string) error
	SendVoiceCall(ctx context.Context, to, code string) error
}

// Service generates verification codes and hands them to a Messenger.
type Service struct {
	Messenger Messenger
}

// NewOTPService creates a new OTP service
func NewOTPService(m Messenger) *Service {
	return &Service{Messenger: m}
}

const (
	otpMin = 100000
	otpMax = 999999
)

// GenerateOTP returns a uniformly random 6-digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}

// Dispatch sends the code over channel. Errors are reported to the caller and
// counted; the stored code stays valid either way.
func (s *Service) Dispatch(ctx context.Context, channel, phone, code string) error {
	var err error
	switch channel {
	case constants.ChannelCall:
		err = s.Messenger.SendVoiceCall(ctx, phone, code)
	case constants.ChannelSMS, "":
		channel = constants.ChannelSMS
		err = s.Messenger.SendSMS(ctx, phone, code)
	default:
		err = fmt.Errorf("unsupported channel %q", channel)
	}

	if err != nil {
		metrics.OTPSendsTotal.WithLabelValues(channel, "failed").Inc()
		return fmt.Errorf("failed to send OTP via %s: %w", channel, err)
	}
	metrics.OTPSendsTotal.WithLabelValues(channel, "sent").Inc()
	logger.Info(fmt.Sprintf("OTP sent via %s", channel))
	return nil
}
