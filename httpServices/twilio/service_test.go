package twilio

import (
	"context"
	"testing"

	"persian-pages/config"
)

func TestVoiceTwiMLRepeatsDigits(t *testing.T) {
	got := VoiceTwiML("123456")
	want := `<Response><Say language="en-US">Your PersianPages verification code is: 1, 2, 3, 4, 5, 6. I repeat: 1, 2, 3, 4, 5, 6.</Say></Response>`
	if got != want {
		t.Fatalf("unexpected twiml:\n%s", got)
	}
}

func TestSMSBody(t *testing.T) {
	if got := SMSBody("654321"); got != "Your PersianPages verification code is: 654321" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestNewMessengerFallsBackWithoutCredentials(t *testing.T) {
	m := NewMessenger(config.Config{TwilioAccountSID: "AC123"})
	if _, ok := m.(DevMessenger); !ok {
		t.Fatalf("expected dev messenger without full credentials, got %T", m)
	}
	if err := m.SendSMS(context.Background(), "+15551234567", "123456"); err != nil {
		t.Fatalf("dev messenger must not fail: %v", err)
	}
}

func TestNewMessengerUsesTwilioWhenConfigured(t *testing.T) {
	m := NewMessenger(config.Config{
		TwilioAccountSID:   "AC123",
		TwilioAuthToken:    "secret",
		TwilioMessagingSID: "MG123",
	})
	if _, ok := m.(*Service); !ok {
		t.Fatalf("expected twilio service when configured, got %T", m)
	}
}
