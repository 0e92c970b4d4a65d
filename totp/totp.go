// Package totp generates and stores time-based one-time codes. Generation
// is grounded on original_source/src/utils/totp.rs's TotpGen (SHA1,
// 6 digits, 30s step); storage is grounded on its TotpStorage (a 600s
// validity window with a 60s resend cooldown).
package totp

import (
	"fmt"
	"time"

	potp "github.com/pquerna/otp/totp"
)

// Generate returns the current 6-digit code for secret.
func Generate(secret string) (string, error) {
	code, err := potp.GenerateCode(secret, time.Now())
	if err != nil {
		return "", fmt.Errorf("totp: generate: %w", err)
	}
	return code, nil
}

// Validate reports whether code is the current (or one-step-adjacent)
// valid code for secret.
func Validate(code, secret string) bool {
	return potp.Validate(code, secret)
}
