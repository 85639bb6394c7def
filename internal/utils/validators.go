package utils

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrInvalidEmail = errors.New("not a valid email address")
	ErrWeakPassword = errors.New("password needs at least 8 characters with upper and lower case letters, a digit and a symbol")
)

// IsValidEmail accepts local@domain.tld with no whitespace.
func IsValidEmail(email string) bool {
	if strings.ContainsFunc(email, unicode.IsSpace) {
		return false
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// IsComplexPassword checks if the password meets the complexity requirements.
func IsComplexPassword(password string) bool {
	var (
		hasMinLen  = len(password) >= 8
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasMinLen && hasUpper && hasLower && hasNumber && hasSpecial
}

// ValidateCredentials returns the first rule a registration breaks.
func ValidateCredentials(email, password string) error {
	if !IsValidEmail(email) {
		return ErrInvalidEmail
	}
	if !IsComplexPassword(password) {
		return ErrWeakPassword
	}
	return nil
}
