package auth

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidPhone         = errors.New("phone number must be exactly 10 digits")
	ErrInvalidPayoutAddress = errors.New("UPI ID must look like name@bank")
)

var (
	phoneRe = regexp.MustCompile(`^\d{10}$`)
	upiRe   = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z][a-zA-Z0-9]{1,64}$`)
)

// NormalizePhone strips surrounding whitespace and inner spaces or dashes.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	return strings.NewReplacer(" ", "", "-", "").Replace(phone)
}

// ValidatePhone accepts exactly ten digits.
func ValidatePhone(phone string) error {
	if !phoneRe.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidatePayoutAddress checks the UPI virtual payment address shape.
func ValidatePayoutAddress(address string) error {
	if !upiRe.MatchString(address) {
		return ErrInvalidPayoutAddress
	}
	return nil
}
