package models

import (
	"encoding/json"
	"fmt"

	"github.com/brinedb/queryengine/registry"
)

// AuthUser is the auth_users row: credentials plus verification state.
// Grounded on original_source/src/models/auth.rs's AuthUser.
type AuthUser struct {
	UID           int64
	Email         string
	EmailVerified bool
	Username      string
	PasswordHash  string
}

const AuthUsersTable = "auth_users"

// FromRow builds an AuthUser from a raw store row. Registered under
// AuthUsersTable.
func FromRow(row registry.RowData) (registry.TableModel, error) {
	uid, err := rowInt64(row, "uid")
	if err != nil {
		return nil, err
	}
	email, err := rowString(row, "email")
	if err != nil {
		return nil, err
	}
	verified, err := rowBool(row, "email_verified")
	if err != nil {
		return nil, err
	}
	username, err := rowString(row, "username")
	if err != nil {
		return nil, err
	}
	hash, err := rowString(row, "password_hash")
	if err != nil {
		return nil, err
	}
	return &AuthUser{
		UID:           uid,
		Email:         email,
		EmailVerified: verified,
		Username:      username,
		PasswordHash:  hash,
	}, nil
}

func (u *AuthUser) TableName() string { return AuthUsersTable }

func (u *AuthUser) DebugString() string {
	return fmt.Sprintf(
		"AuthUser{uid: %d, email: %s, email_verified: %t, username: %s, password_hash: <redacted>}",
		u.UID, u.Email, u.EmailVerified, u.Username,
	)
}

func (u *AuthUser) AsMap() map[string]any {
	return map[string]any{
		"uid":            u.UID,
		"email":          u.Email,
		"email_verified": u.EmailVerified,
		"username":       u.Username,
		"password_hash":  u.PasswordHash,
	}
}

func (u *AuthUser) AsValue() (json.RawMessage, error) {
	return json.Marshal(u.AsMap())
}

func (u *AuthUser) Project(keys []string) map[string]any {
	return project(u.AsMap(), keys)
}
