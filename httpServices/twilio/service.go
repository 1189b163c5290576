package twilio

import (
	"context"
	"fmt"
	"strings"

	"persian-pages/config"
	"persian-pages/logger"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Messenger delivers verification codes.
type Messenger interface {
	SendSMS(ctx context.Context, to, code string) error
	SendVoiceCall(ctx context.Context, to, code string) error
}

// NewMessenger returns a Twilio-backed messenger when credentials are
// configured and a logging stand-in otherwise.
func NewMessenger(cfg config.Config) Messenger {
	if !cfg.TwilioConfigured() {
		logger.Warning("Twilio credentials missing, verification codes will only be logged")
		return DevMessenger{}
	}
	return NewService(cfg)
}

type Service struct {
	client       *twilio.RestClient
	from         string
	messagingSID string
}

func NewService(cfg config.Config) *Service {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &Service{
		client:       client,
		from:         cfg.TwilioFromNumber,
		messagingSID: cfg.TwilioMessagingSID,
	}
}

func SMSBody(code string) string {
	return "Your PersianPages verification code is: " + code
}

// VoiceTwiML reads the code digit by digit, twice.
func VoiceTwiML(code string) string {
	spoken := strings.Join(strings.Split(code, ""), ", ")
	return fmt.Sprintf(`<Response><Say language="en-US">Your PersianPages verification code is: %s. I repeat: %s.</Say></Response>`, spoken, spoken)
}

func (s *Service) SendSMS(ctx context.Context, to, code string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	if s.from != "" {
		params.SetFrom(s.from)
	}
	if s.messagingSID != "" {
		params.SetMessagingServiceSid(s.messagingSID)
	}
	params.SetBody(SMSBody(code))

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		return fmt.Errorf("twilio error %d", *resp.ErrorCode)
	}
	if resp.Sid != nil {
		logger.Success("SMS verification code sent, SID: " + *resp.Sid)
	}
	return nil
}

func (s *Service) SendVoiceCall(ctx context.Context, to, code string) error {
	// Voice needs a caller id; a messaging service alone cannot place calls.
	if s.from == "" {
		return DevMessenger{}.SendVoiceCall(ctx, to, code)
	}

	params := &twilioApi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetTwiml(VoiceTwiML(code))

	resp, err := s.client.Api.CreateCall(params)
	if err != nil {
		return fmt.Errorf("twilio create call: %w", err)
	}
	if resp.Sid != nil {
		logger.Success("Voice verification call placed, SID: " + *resp.Sid)
	}
	return nil
}

// DevMessenger logs codes instead of sending them.
type DevMessenger struct{}

func (DevMessenger) SendSMS(_ context.Context, to, code string) error {
	logger.Printf("[DEV] SMS OTP to %s: %s", to, code)
	return nil
}

func (DevMessenger) SendVoiceCall(_ context.Context, to, code string) error {
	logger.Printf("[DEV] Voice OTP to %s: %s", to, code)
	return nil
}
