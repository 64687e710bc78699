package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrWeakPassword = errors.New("password does not meet requirements")
	ErrInvalidName  = errors.New("invalid name")
)

const (
	minPasswordLength = 12
	// bcrypt only hashes the first 72 bytes; longer input is rejected
	// here rather than silently truncated or failed downstream.
	maxPasswordLength = 72
	maxNameLength     = 50

	// passwordSymbols is the accepted punctuation set for the symbol clause.
	passwordSymbols = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"
)

// ValidateRegistration checks registration input before any credential is
// hashed or persisted. It returns the trimmed first and last names on
// success. Unlike login failures, the returned messages are deliberately
// specific about which clause failed.
func ValidateRegistration(password, firstName, lastName string) (string, string, error) {
	if err := validatePassword(password); err != nil {
		return "", "", err
	}

	first := strings.TrimSpace(firstName)
	if err := validateName(first, "first name"); err != nil {
		return "", "", err
	}

	last := strings.TrimSpace(lastName)
	if err := validateName(last, "last name"); err != nil {
		return "", "", err
	}

	return first, last, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: must be at most %d characters", ErrWeakPassword, maxPasswordLength)
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("%w: must contain an uppercase letter", ErrWeakPassword)
	case !hasLower:
		return fmt.Errorf("%w: must contain a lowercase letter", ErrWeakPassword)
	case !hasDigit:
		return fmt.Errorf("%w: must contain a digit", ErrWeakPassword)
	case !hasSymbol:
		return fmt.Errorf("%w: must contain a symbol", ErrWeakPassword)
	}

	return nil
}

func validateName(name, field string) error {
	if name == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidName, field)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidName, field, maxNameLength)
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) && r != '-' {
			return fmt.Errorf("%w: %s may only contain letters, spaces and hyphens", ErrInvalidName, field)
		}
	}

	return nil
}
