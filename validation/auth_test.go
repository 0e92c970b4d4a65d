package validation_test

import (
	"testing"

	"github.com/brinedb/queryengine/validation"
)

func TestUsername(t *testing.T) {
	cases := []struct {
		name    string
		wantErr bool
	}{
		{"ab", true},
		{"alice", false},
		{"alice_01-2", false},
		{"has space", true},
		{"x'; DROP TABLE users; --", true},
	}
	for _, c := range cases {
		err := validation.Username(c.name)
		if (err != nil) != c.wantErr {
			t.Errorf("Username(%q) err = %v, wantErr %v", c.name, err, c.wantErr)
		}
	}
}

func TestPassword(t *testing.T) {
	cases := []struct {
		pw      string
		wantErr bool
	}{
		{"short1!A", false},
		{"tooshort", true},
		{"nouppercase1!", true},
		{"NOLOWERCASE1!", true},
		{"NoDigitsHere!", true},
		{"NoSpecial123", true},
	}
	for _, c := range cases {
		err := validation.Password(c.pw)
		if (err != nil) != c.wantErr {
			t.Errorf("Password(%q) err = %v, wantErr %v", c.pw, err, c.wantErr)
		}
	}
}

func TestEmail(t *testing.T) {
	cases := []struct {
		email   string
		wantErr bool
	}{
		{"a@b.co", false},
		{"no-at-sign", true},
		{"two@at@signs.com", true},
		{"bad chars@b.co", true},
	}
	for _, c := range cases {
		err := validation.Email(c.email)
		if (err != nil) != c.wantErr {
			t.Errorf("Email(%q) err = %v, wantErr %v", c.email, err, c.wantErr)
		}
	}
}

func TestLooksLikeEmail(t *testing.T) {
	if !validation.LooksLikeEmail("a@b.co") {
		t.Error("expected a@b.co to look like an email")
	}
	if validation.LooksLikeEmail("alice") {
		t.Error("expected alice to not look like an email")
	}
}
