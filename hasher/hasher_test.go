package hasher_test

import (
	"testing"

	"github.com/brinedb/queryengine/hasher"
)

func TestHashAndVerify(t *testing.T) {
	hashed, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	ok, err := hasher.Verify("correct horse battery staple", hashed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("Verify() = false for the correct password")
	}
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	hashed, err := hasher.Hash("right-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	ok, err := hasher.Verify("wrong-password", hashed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("Verify() = true for the wrong password")
	}
}
