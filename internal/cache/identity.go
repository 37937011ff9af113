package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/baynext/baynext/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for resolved identities.
	identityCachePrefix = "identity:"
	// identityCacheTTL bounds how long a revoked or expired key keeps
	// authenticating from cache.
	identityCacheTTL = 5 * time.Minute
)

// cachedIdentity is the resolved identity stored in Redis. It carries
// the full user record so a cache hit serves the same body as a miss.
type cachedIdentity struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// GetIdentity retrieves a cached resolved identity by cache key.
// Returns nil on cache miss.
func (c *Cache) GetIdentity(ctx context.Context, cacheKey string) (*model.User, error) {
	data, err := c.client.Get(ctx, identityCachePrefix+cacheKey).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	user, err := decodeIdentity(data)
	if err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return user, nil
}

// SetIdentity caches a resolved identity.
func (c *Cache) SetIdentity(ctx context.Context, cacheKey string, user *model.User) error {
	data, err := encodeIdentity(user)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, identityCachePrefix+cacheKey, data, identityCacheTTL).Err()
}

func encodeIdentity(user *model.User) ([]byte, error) {
	data, err := json.Marshal(cachedIdentity{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal identity: %w", err)
	}
	return data, nil
}

func decodeIdentity(data []byte) (*model.User, error) {
	var cached cachedIdentity
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}

	return &model.User{
		ID:        cached.UserID,
		Email:     cached.Email,
		CreatedAt: cached.CreatedAt,
		UpdatedAt: cached.UpdatedAt,
	}, nil
}

// DeleteIdentity removes a cached identity. Used when a key is revoked
// and the plaintext credential is known.
func (c *Cache) DeleteIdentity(ctx context.Context, cacheKey string) error {
	return c.client.Del(ctx, identityCachePrefix+cacheKey).Err()
}
