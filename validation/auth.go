// Package validation implements the registration/login field rules.
// Grounded on original_source/src/validation/auth.rs's validate_username,
// validate_password, validate_email, and the email-sniffing regex used by
// CustomDeserializable for LoginIdentifier.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const passwordSpecialChars = "!@#$%^&*()-=+?"

var emailSniffPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Username enforces length and character-set rules.
func Username(username string) error {
	n := len(username)
	if n < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if n > 30 {
		return fmt.Errorf("username cannot be longer than 30 characters")
	}
	for _, c := range username {
		if !isAlphanumASCII(c) && c != '-' && c != '_' {
			return fmt.Errorf("username may only contain letters, digits, '-' and '_'")
		}
	}
	return nil
}

// Password enforces length and a mix of digit/upper/lower/special
// characters.
func Password(password string) error {
	n := len(password)
	if n < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if n > 64 {
		return fmt.Errorf("password is too long, max: 64 characters")
	}

	var hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, c := range password {
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case strings.ContainsRune(passwordSpecialChars, c):
			hasSpecial = true
		}
		if hasDigit && hasUpper && hasLower && hasSpecial {
			return nil
		}
	}

	switch {
	case !hasDigit:
		return fmt.Errorf("password must contain at least one digit")
	case !hasUpper:
		return fmt.Errorf("password must contain at least one uppercase letter")
	case !hasLower:
		return fmt.Errorf("password must contain at least one lowercase letter")
	default:
		return fmt.Errorf("password must contain at least one special character, allowed: %s", passwordSpecialChars)
	}
}

// Email enforces local/domain length limits and a restricted character
// set (no implicit quoting or internationalization support).
func Email(email string) error {
	const maxLocal = 64
	const maxDomain = 255

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("email must contain exactly one '@'")
	}
	local, domain := parts[0], parts[1]
	if len(local) > maxLocal {
		return fmt.Errorf("the part of the email before the '@' is too long")
	}
	if len(domain) > maxDomain {
		return fmt.Errorf("the domain part of the email is too long")
	}
	if err := checkAllowedEmailChars(local); err != nil {
		return err
	}
	return checkAllowedEmailChars(domain)
}

func checkAllowedEmailChars(s string) error {
	for _, c := range s {
		if !isAlphanumASCII(c) && c != '.' && c != '-' {
			return fmt.Errorf("email format is invalid: only letters, digits, dots, and hyphens are allowed")
		}
	}
	return nil
}

func isAlphanumASCII(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// LooksLikeEmail sniffs whether input should be treated as an email
// address (vs. a bare username) when decoding a login identifier.
func LooksLikeEmail(input string) bool {
	return emailSniffPattern.MatchString(input)
}

// Register validates a full set of registration fields in one call.
func Register(username, password, email string) error {
	if err := Username(username); err != nil {
		return err
	}
	if err := Password(password); err != nil {
		return err
	}
	return Email(email)
}
