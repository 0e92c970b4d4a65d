package models_test

import (
	"testing"

	"github.com/brinedb/queryengine/models"
	"github.com/brinedb/queryengine/registry"
)

func TestAuthUserFromRowAndProject(t *testing.T) {
	row := registry.RowData{
		"uid": int64(1), "email": "a@b.co", "email_verified": true,
		"username": "alice", "password_hash": "hashed",
	}
	m, err := models.FromRow(row)
	if err != nil {
		t.Fatalf("FromRow: %v", err)
	}
	if m.TableName() != models.AuthUsersTable {
		t.Errorf("TableName() = %q", m.TableName())
	}
	projected := m.Project([]string{"uid", "email"})
	if len(projected) != 2 || projected["uid"] != int64(1) || projected["email"] != "a@b.co" {
		t.Errorf("Project() = %v", projected)
	}
	if _, ok := projected["password_hash"]; ok {
		t.Error("Project() leaked password_hash when not requested")
	}
}

func TestAuthUserFromRowMissingColumn(t *testing.T) {
	if _, err := models.FromRow(registry.RowData{"uid": int64(1)}); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestUserFromRow(t *testing.T) {
	row := registry.RowData{
		"uid": float64(2), "email": "b@c.co", "owner": true,
		"email_verified": false, "username": "bob",
	}
	m, err := models.UserFromRow(row)
	if err != nil {
		t.Fatalf("UserFromRow: %v", err)
	}
	u := m.(*models.User)
	if u.UID != 2 || !u.Owner {
		t.Errorf("User = %+v", u)
	}
}

func TestAuthTokensFromRow(t *testing.T) {
	row := registry.RowData{"jti": "abc", "uid": int64(9), "expires_at": int64(123)}
	m, err := models.AuthTokensFromRow(row)
	if err != nil {
		t.Fatalf("AuthTokensFromRow: %v", err)
	}
	if m.TableName() != models.AuthTokensTable {
		t.Errorf("TableName() = %q", m.TableName())
	}
}
