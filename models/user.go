package models

import (
	"encoding/json"
	"fmt"

	"github.com/brinedb/queryengine/registry"
)

// User is the public-facing users row (no credentials). Grounded on
// original_source/src/models/api/users.rs's User.
type User struct {
	UID           int64
	Email         string
	Owner         bool
	EmailVerified bool
	Username      string
}

const UsersTable = "users"

// UserFromRow builds a User from a raw store row. Registered under
// UsersTable.
func UserFromRow(row registry.RowData) (registry.TableModel, error) {
	uid, err := rowInt64(row, "uid")
	if err != nil {
		return nil, err
	}
	email, err := rowString(row, "email")
	if err != nil {
		return nil, err
	}
	owner, err := rowBool(row, "owner")
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
	return &User{
		UID:           uid,
		Email:         email,
		Owner:         owner,
		EmailVerified: verified,
		Username:      username,
	}, nil
}

func (u *User) TableName() string { return UsersTable }

func (u *User) DebugString() string {
	return fmt.Sprintf(
		"User{uid: %d, email: %s, owner: %t, email_verified: %t, username: %s}",
		u.UID, u.Email, u.Owner, u.EmailVerified, u.Username,
	)
}

func (u *User) AsMap() map[string]any {
	return map[string]any{
		"uid":            u.UID,
		"email":          u.Email,
		"owner":          u.Owner,
		"email_verified": u.EmailVerified,
		"username":       u.Username,
	}
}

func (u *User) AsValue() (json.RawMessage, error) {
	return json.Marshal(u.AsMap())
}

// Project restricts AsMap to keys — grounds original_source's
// get_keys_as_hashmap projection helper used to build partial "values"
// payloads.
func (u *User) Project(keys []string) map[string]any {
	return project(u.AsMap(), keys)
}
