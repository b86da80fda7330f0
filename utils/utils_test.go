package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "supersecret", time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := ParseToken(token, "supersecret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != userID {
		t.Errorf("Expected user %s, got %s", userID, got)
	}

	if _, err := ParseToken(token, "wrongsecret"); err == nil {
		t.Errorf("Expected error with wrong secret")
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "supersecret", -time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := ParseToken(token, "supersecret"); err == nil {
		t.Errorf("Expected expired token to fail")
	}
}

func TestNewMeetingID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := NewMeetingID()
		if len(id) != meetingIDLength {
			t.Fatalf("Expected length %d, got %q", meetingIDLength, id)
		}
		if strings.Trim(id, letterBytes) != "" {
			t.Fatalf("Unexpected characters in %q", id)
		}
		seen[id] = true
	}
	if len(seen) < 50 {
		t.Errorf("Expected unique ids, got %d distinct of 50", len(seen))
	}
}
