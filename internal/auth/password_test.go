package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Error("correct password should verify")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Error("wrong password should not verify")
	}
}
