package model

import (
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestKey_IsExpired(t *testing.T) {
	testCases := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{
			name:      "no expiration never expires",
			expiresAt: nil,
			want:      false,
		},
		{
			name:      "future expiration",
			expiresAt: timePtr(time.Now().Add(time.Hour)),
			want:      false,
		},
		{
			name:      "past expiration",
			expiresAt: timePtr(time.Now().Add(-time.Hour)),
			want:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key := &Key{ExpiresAt: tc.expiresAt}
			if got := key.IsExpired(); got != tc.want {
				t.Errorf("IsExpired() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestKey_IsValid(t *testing.T) {
	testCases := []struct {
		name      string
		isActive  bool
		expiresAt *time.Time
		want      bool
	}{
		{
			name:      "active without expiration",
			isActive:  true,
			expiresAt: nil,
			want:      true,
		},
		{
			name:      "active with future expiration",
			isActive:  true,
			expiresAt: timePtr(time.Now().Add(24 * time.Hour)),
			want:      true,
		},
		{
			name:      "active but expired",
			isActive:  true,
			expiresAt: timePtr(time.Now().Add(-time.Minute)),
			want:      false,
		},
		{
			name:      "revoked without expiration",
			isActive:  false,
			expiresAt: nil,
			want:      false,
		},
		{
			name:      "revoked and expired",
			isActive:  false,
			expiresAt: timePtr(time.Now().Add(-time.Minute)),
			want:      false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key := &Key{IsActive: tc.isActive, ExpiresAt: tc.expiresAt}
			if got := key.IsValid(); got != tc.want {
				t.Errorf("IsValid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestKey_ToResponse(t *testing.T) {
	now := time.Now()
	key := &Key{
		ID:          "key_123",
		ProjectID:   "proj_123",
		Description: "CI key",
		SecretHash:  "$argon2id$v=19$m=65536,t=3,p=4$salt$hash",
		Prefix:      "abc123",
		IsActive:    true,
		CreatedAt:   now,
	}

	resp := key.ToResponse()
	if resp.ID != key.ID {
		t.Errorf("ID mismatch")
	}
	if resp.Prefix != key.Prefix {
		t.Errorf("Prefix mismatch")
	}
	if !resp.IsActive {
		t.Errorf("IsActive should be true for active key")
	}
}
