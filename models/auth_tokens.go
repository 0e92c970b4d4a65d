package models

import (
	"encoding/json"
	"fmt"

	"github.com/brinedb/queryengine/registry"
)

// AuthTokens is the auth_tokens row minted on login and consulted on
// verify. Grounded on original_source/src/utils/token_handler.rs's
// AuthTokens usage.
type AuthTokens struct {
	JTI       string
	UID       int64
	ExpiresAt int64
}

const AuthTokensTable = "auth_tokens"

// AuthTokensFromRow builds an AuthTokens from a raw store row. Registered
// under AuthTokensTable.
func AuthTokensFromRow(row registry.RowData) (registry.TableModel, error) {
	jti, err := rowString(row, "jti")
	if err != nil {
		return nil, err
	}
	uid, err := rowInt64(row, "uid")
	if err != nil {
		return nil, err
	}
	expiresAt, err := rowInt64(row, "expires_at")
	if err != nil {
		return nil, err
	}
	return &AuthTokens{JTI: jti, UID: uid, ExpiresAt: expiresAt}, nil
}

func (t *AuthTokens) TableName() string { return AuthTokensTable }

func (t *AuthTokens) DebugString() string {
	return fmt.Sprintf("AuthTokens{jti: %s, uid: %d, expires_at: %d}", t.JTI, t.UID, t.ExpiresAt)
}

func (t *AuthTokens) AsMap() map[string]any {
	return map[string]any{"jti": t.JTI, "uid": t.UID, "expires_at": t.ExpiresAt}
}

func (t *AuthTokens) AsValue() (json.RawMessage, error) {
	return json.Marshal(t.AsMap())
}

func (t *AuthTokens) Project(keys []string) map[string]any {
	return project(t.AsMap(), keys)
}
