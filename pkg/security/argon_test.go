package security

import (
	"strings"
	"testing"
)

func TestGenerateAndVerify(t *testing.T) {
	a := New()

	encoded, err := a.GenerateFromPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Errorf("unexpected hash format: %q", encoded)
	}

	ok, err := a.VerifyPasswd("correct horse battery staple", encoded)
	if err != nil {
		t.Fatalf("failed to verify password: %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	ok, err = a.VerifyPasswd("wrong password", encoded)
	if err != nil {
		t.Fatalf("failed to verify password: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	a := New()

	if _, err := a.VerifyPasswd("whatever", "not-a-phc-hash"); err == nil {
		t.Error("expected an error for a malformed hash")
	}
}

func TestHashesAreSalted(t *testing.T) {
	a := New()

	h1, err := a.GenerateFromPassword("same password")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := a.GenerateFromPassword("same password")
	if err != nil {
		t.Fatal(err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password are identical, salt is not applied")
	}
}
