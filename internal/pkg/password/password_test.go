package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	Cost = bcrypt.MinCost

	hash, err := Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must not equal the plain password")
	}
	if !Verify("secret1", hash) {
		t.Fatal("expected password to verify")
	}
	if Verify("secret2", hash) {
		t.Fatal("expected wrong password to fail")
	}
	if _, err := Hash(""); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}
