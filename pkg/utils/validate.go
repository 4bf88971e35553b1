package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength     = 100
	MaxPasswordLength = 256
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateSignup checks the fields a new account needs. Name is optional.
func ValidateSignup(name, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	if !emailRegex.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Email address is invalid"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	if len(password) > MaxPasswordLength {
		return &ValidationError{Field: "password", Message: "Password is too long"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(name)) > MaxNameLength {
		return &ValidationError{Field: "name", Message: "Name must be at most 100 characters"}
	}
	return nil
}
