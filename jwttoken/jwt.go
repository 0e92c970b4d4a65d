// Package jwttoken wraps HS256 JWT creation and parsing. Grounded on
// original_source/src/utils/jwt.rs's JwtToken::create_jwt/decode_jwt,
// including the explicit expiry re-check the original performs even
// though the library already checks it on decode.
package jwttoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired mirrors the original's explicit post-decode expiry check.
var ErrExpired = errors.New("jwttoken: token is expired")

// Claim is satisfied by any claim set this package issues; Exp reports the
// Unix expiry time carried inside the token.
type Claim interface {
	jwt.Claims
	Exp() int64
}

// UserClaims is minted for end-user sessions; JTI is the revocation handle
// round-tripped through auth_tokens by package tokenhandler.
type UserClaims struct {
	UserID string `json:"user_id"`
	JTI    string `json:"jti"`
	jwt.RegisteredClaims
}

func (c UserClaims) Exp() int64 {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}

// BackendClaims is minted for service-to-service calls; no JTI, no
// revocation round trip.
type BackendClaims struct {
	Timestamp int64 `json:"timestamp"`
	jwt.RegisteredClaims
}

func (c BackendClaims) Exp() int64 {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}

// Codec signs and parses tokens with a single HS256 secret.
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec keyed by secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Create signs claims and returns the compact JWT.
func (c *Codec) Create(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwttoken: sign: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature on tokenStr and decodes into claims. It then
// re-checks expiry explicitly, matching the original's defensive
// belt-and-suspenders check.
func (c *Codec) Parse(tokenStr string, claims Claim) error {
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return fmt.Errorf("jwttoken: parse: %w", err)
	}
	if !parsed.Valid {
		return fmt.Errorf("jwttoken: token failed validation")
	}
	if claims.Exp() <= time.Now().Unix() {
		return ErrExpired
	}
	return nil
}
