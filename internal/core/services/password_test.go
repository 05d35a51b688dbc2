package services

import (
	"strings"
	"testing"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("unexpected hash format: %s", hash)
	}
	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("correct password did not verify")
	}
	if VerifyPassword("correct horse battery stapl", hash) {
		t.Error("wrong password verified")
	}
}

func TestPasswordHashesSalted(t *testing.T) {
	a, err := HashPassword("same-password")
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPassword("same-password")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical, salt is not random")
	}
	if !VerifyPassword("same-password", a) || !VerifyPassword("same-password", b) {
		t.Error("salted hashes did not both verify")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, hash := range []string{
		"",
		"plaintext-password",
		"$argon2id$v=19$m=65536,t=3,p=2$notbase64!!$alsonot!!",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
	} {
		if VerifyPassword("anything", hash) {
			t.Errorf("verified against malformed hash %q", hash)
		}
	}
}
