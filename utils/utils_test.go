package utils

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestTokenMaker_RoundTrip(t *testing.T) {
	maker, err := NewTokenMaker(testKey)
	if err != nil {
		t.Fatalf("Failed to create token maker: %v", err)
	}

	token, err := maker.Issue("session-1", 42, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	claims, err := maker.Validate(token)
	if err != nil {
		t.Fatalf("Expected the token to validate, got: %v", err)
	}
	if claims.SessionID != "session-1" || claims.UserID != 42 {
		t.Errorf("Expected session-1 for user 42, got %s for %d", claims.SessionID, claims.UserID)
	}
}

func TestTokenMaker_Rejections(t *testing.T) {
	if _, err := NewTokenMaker([]byte("short")); !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("Expected ErrInvalidKeyLength, got: %v", err)
	}

	maker, _ := NewTokenMaker(testKey)
	expired, _ := maker.Issue("session-1", 42, -time.Minute)
	if _, err := maker.Validate(expired); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got: %v", err)
	}

	other, _ := NewTokenMaker([]byte(strings.Repeat("x", SymmetricKeyLength)))
	foreign, _ := other.Issue("session-1", 42, time.Hour)
	if _, err := maker.Validate(foreign); err == nil {
		t.Error("Expected a token from another key to be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("s3curePass")
	if err != nil {
		t.Fatal(err)
	}
	if hashed == "s3curePass" {
		t.Error("Expected the password to be hashed")
	}
	if !CheckPassword(hashed, "s3curePass") {
		t.Error("Expected the password to match")
	}
	if CheckPassword(hashed, "wrong") {
		t.Error("Expected a wrong password to fail")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"s3curePass", nil},
		{"short1", ErrPasswordTooShort},
		{"1234567890", ErrPasswordNumeric},
	}
	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if tt.want == nil && err != nil {
			t.Errorf("%q: expected no error, got %v", tt.password, err)
		}
		if tt.want != nil && (err == nil || err.Error() != tt.want.Error()) {
			t.Errorf("%q: expected %v, got %v", tt.password, tt.want, err)
		}
	}
	if err := ValidatePassword(""); err == nil {
		t.Error("Expected a blank password to be rejected")
	}
}

func TestValidatePasswordReset(t *testing.T) {
	if err := ValidatePasswordReset("alice@example.com", "123456", "newPassw0rd"); err != nil {
		t.Errorf("Expected a valid request, got: %v", err)
	}
	if err := ValidatePasswordReset("alice@example.com", "12345", "newPassw0rd"); err == nil {
		t.Error("Expected a 5-digit code to be rejected")
	}
	if err := ValidatePasswordReset("alice", "123456", "newPassw0rd"); err == nil {
		t.Error("Expected a malformed email to be rejected")
	}
}

func TestGenerateResetCode(t *testing.T) {
	digits := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 20; i++ {
		code, err := GenerateResetCode()
		if err != nil {
			t.Fatal(err)
		}
		if !digits.MatchString(code) {
			t.Fatalf("Expected 6 digits, got %q", code)
		}
	}
}
