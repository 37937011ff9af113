package model

import "time"

// Key expiration bounds in days for KeyCreateRequest.
const (
	KeyExpiresMinDays     = 1
	KeyExpiresMaxDays     = 365
	KeyExpiresDefaultDays = 30

	KeyDescriptionMaxLength = 255
)

// Key is an API credential owned by a project. The secret is generated
// once at creation; only its argon2id hash is stored.
type Key struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Description string     `json:"description"`
	SecretHash  string     `json:"-"` // Never serialize
	Prefix      string     `json:"prefix"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// IsExpired reports whether the key is past its expiration.
// Keys without an expiration never expire.
func (k *Key) IsExpired() bool {
	if k.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*k.ExpiresAt)
}

// IsValid reports whether the key can authenticate requests:
// active and not expired.
func (k *Key) IsValid() bool {
	return k.IsActive && !k.IsExpired()
}

// KeyCreateRequest is the request body for creating an API key.
// ExpiresInDays defaults to 30 when the field is omitted; an explicit
// null produces a never-expiring key.
type KeyCreateRequest struct {
	Description   string `json:"description"`
	ExpiresInDays *int   `json:"expires_in_days"`
}

// KeyResponse is the public projection of a key. It never carries
// the secret.
type KeyResponse struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Prefix      string     `json:"prefix"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ToResponse converts a Key to its public projection.
func (k *Key) ToResponse() KeyResponse {
	return KeyResponse{
		ID:          k.ID,
		Description: k.Description,
		Prefix:      k.Prefix,
		IsActive:    k.IsActive,
		ExpiresAt:   k.ExpiresAt,
		CreatedAt:   k.CreatedAt,
		UpdatedAt:   k.UpdatedAt,
	}
}

// KeyCreateResponse includes the plaintext secret. Returned exactly
// once, from the creation endpoint.
type KeyCreateResponse struct {
	ID          string     `json:"id"`
	Key         string     `json:"key"` // Plaintext - display once only!
	Description string     `json:"description"`
	Prefix      string     `json:"prefix"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
