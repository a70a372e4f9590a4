package util

import (
	"fmt"
	"regexp"
	"time"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks basic email shape before the value is sent to
// the backend.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email: %s", email)
	}
	return nil
}

// ValidatePassword enforces the registration password policy: 8-32
// characters with upper case, lower case and a digit.
func ValidatePassword(pwd string) error {
	if len(pwd) < 8 || len(pwd) > 32 {
		return fmt.Errorf("password must be 8-32 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("password must contain upper case, lower case and a digit")
	}
	return nil
}

// ValidateDate checks YYYY-MM-DD format.
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}
