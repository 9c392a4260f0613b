package service

import (
	"errors"
	"testing"

	"github.com/bakehouse-next/internal/config"
)

func TestValidatePassword(t *testing.T) {
	strict := config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true, RequireLetter: true}

	cases := []struct {
		name     string
		policy   config.PasswordPolicyConfig
		password string
		wantWeak bool
	}{
		{"empty policy accepts anything", config.PasswordPolicyConfig{}, "", false},
		{"valid", strict, "rollingpin7", false},
		{"too short", strict, "abc1", true},
		{"no number", strict, "rollingpins", true},
		{"no letter", strict, "12345678", true},
		{"multibyte counts as one rune", strict, "pätissier7", false},
		{"length only", config.PasswordPolicyConfig{MinLength: 4}, "1234", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.policy, tc.password)
			if tc.wantWeak && !errors.Is(err, ErrPasswordTooWeak) {
				t.Fatalf("want ErrPasswordTooWeak got %v", err)
			}
			if !tc.wantWeak && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
