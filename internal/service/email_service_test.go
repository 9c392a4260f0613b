package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/bakehouse-next/internal/config"
)

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{350, "$3.50"},
		{1500, "$15.00"},
		{123456, "$1234.56"},
		{-350, "-$3.50"},
	}
	for _, tc := range cases {
		if got := formatCents(tc.cents); got != tc.want {
			t.Errorf("formatCents(%d) want %s got %s", tc.cents, tc.want, got)
		}
	}
}

func TestSendTextEmailGuards(t *testing.T) {
	disabled := NewEmailService(config.EmailConfig{Enabled: false}, "Bakehouse")
	if err := disabled.sendTextEmail("a@example.com", "s", "b"); !errors.Is(err, ErrEmailDisabled) {
		t.Fatalf("want ErrEmailDisabled got %v", err)
	}

	unconfigured := NewEmailService(config.EmailConfig{Enabled: true}, "Bakehouse")
	if err := unconfigured.sendTextEmail("a@example.com", "s", "b"); !errors.Is(err, ErrEmailNotConfigured) {
		t.Fatalf("want ErrEmailNotConfigured got %v", err)
	}

	badRecipient := NewEmailService(config.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "orders@example.com",
	}, "Bakehouse")
	if err := badRecipient.sendTextEmail("not-an-address", "s", "b"); !errors.Is(err, ErrEmailInvalidTo) {
		t.Fatalf("want ErrEmailInvalidTo got %v", err)
	}
}

func TestBuildEmailMessage(t *testing.T) {
	msg := buildEmailMessage("orders@example.com", "casey@example.com", "Order #7 received", "Hello")
	for _, want := range []string{
		"From: orders@example.com\r\n",
		"To: casey@example.com\r\n",
		"Subject: Order #7 received\r\n",
		"Content-Type: text/plain; charset=UTF-8\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if !strings.HasSuffix(msg, "\r\n\r\nHello") && !strings.Contains(msg, "\r\n\r\nHello") {
		t.Errorf("body not separated by blank line: %q", msg)
	}
}

func TestBuildFromAddress(t *testing.T) {
	if got := buildFromAddress("orders@example.com", ""); got != "orders@example.com" {
		t.Fatalf("bare from want orders@example.com got %s", got)
	}
	got := buildFromAddress("orders@example.com", "Bakehouse")
	if !strings.Contains(got, "<orders@example.com>") {
		t.Fatalf("named from missing address: %s", got)
	}
}
