package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("user123")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hashed == "user123" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword(hashed, "user123") {
		t.Error("correct password should verify")
	}
	if CheckPassword(hashed, "wrong") {
		t.Error("wrong password should not verify")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("abc"); err == nil {
		t.Error("short password should fail validation")
	}
	if err := ValidatePassword("user123"); err != nil {
		t.Errorf("acceptable password rejected: %v", err)
	}
}
