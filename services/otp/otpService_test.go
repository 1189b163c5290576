package otp

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

type recordingMessenger struct {
	sms, calls []string
	err        error
}

func (m *recordingMessenger) SendSMS(_ context.Context, to, code string) error {
	m.sms = append(m.sms, to+":"+code)
	return m.err
}

func (m *recordingMessenger) SendVoiceCall(_ context.Context, to, code string) error {
	m.calls = append(m.calls, to+":"+code)
	return m.err
}

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code is not numeric: %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code out of range: %d", n)
		}
	}
}

func TestDispatchRoutesByChannel(t *testing.T) {
	m := &recordingMessenger{}
	svc := NewOTPService(m)

	if err := svc.Dispatch(context.Background(), "sms", "+15551234567", "123456"); err != nil {
		t.Fatalf("sms: %v", err)
	}
	if err := svc.Dispatch(context.Background(), "call", "+15551234567", "654321"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if err := svc.Dispatch(context.Background(), "", "+15551234567", "111111"); err != nil {
		t.Fatalf("default: %v", err)
	}

	if len(m.sms) != 2 || len(m.calls) != 1 {
		t.Fatalf("unexpected routing sms=%v calls=%v", m.sms, m.calls)
	}
	if m.calls[0] != "+15551234567:654321" {
		t.Fatalf("unexpected call %q", m.calls[0])
	}
}

func TestDispatchReportsFailure(t *testing.T) {
	boom := errors.New("provider down")
	svc := NewOTPService(&recordingMessenger{err: boom})

	if err := svc.Dispatch(context.Background(), "sms", "+15551234567", "123456"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	if err := svc.Dispatch(context.Background(), "fax", "+15551234567", "123456"); err == nil {
		t.Fatalf("expected unsupported channel error")
	}
}
