package service

import (
	"fmt"
	"unicode"

	"github.com/bakehouse-next/internal/config"
)

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength <= 0 && !policy.RequireNumber && !policy.RequireLetter {
		return nil
	}

	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return fmt.Errorf("%w: at least %d characters required", ErrPasswordTooWeak, policy.MinLength)
	}

	var hasLetter, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}

	if policy.RequireLetter && !hasLetter {
		return fmt.Errorf("%w: a letter is required", ErrPasswordTooWeak)
	}
	if policy.RequireNumber && !hasNumber {
		return fmt.Errorf("%w: a number is required", ErrPasswordTooWeak)
	}
	return nil
}
