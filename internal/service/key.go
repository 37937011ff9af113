package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/baynext/baynext/internal/auth"
	"github.com/baynext/baynext/internal/metrics"
	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
)

// Key service errors.
var (
	ErrKeyNotFound            = errors.New("API key not found")
	ErrKeyDescriptionRequired = errors.New("key description cannot be empty")
	ErrKeyDescriptionTooLong  = errors.New("key description cannot exceed 255 characters")
	ErrKeyExpiryOutOfRange    = errors.New("expires_in_days must be between 1 and 365")
)

// KeyStore is the persistence surface the key service needs.
type KeyStore interface {
	CreateKey(ctx context.Context, key *model.Key) error
	GetKeyByID(ctx context.Context, id string) (*model.Key, error)
	ListKeysByProject(ctx context.Context, projectID string) ([]*model.Key, error)
	RevokeKey(ctx context.Context, id string) error
}

// KeyService handles API key lifecycle.
type KeyService struct {
	store   KeyStore
	metrics metrics.Recorder
}

// NewKeyService creates a new KeyService.
func NewKeyService(store KeyStore, recorder metrics.Recorder) *KeyService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &KeyService{
		store:   store,
		metrics: recorder,
	}
}

// CreateKey generates and persists an API key for a project. The
// expiration is computed as now + N days when a window is supplied,
// else the key never expires. The returned plaintext secret is shown
// exactly once; only its hash is stored.
func (s *KeyService) CreateKey(ctx context.Context, projectID string, req model.KeyCreateRequest) (*model.Key, string, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, "", ErrKeyDescriptionRequired
	}
	if utf8.RuneCountInString(description) > model.KeyDescriptionMaxLength {
		return nil, "", ErrKeyDescriptionTooLong
	}

	var expiresAt *time.Time
	if req.ExpiresInDays != nil {
		days := *req.ExpiresInDays
		if days < model.KeyExpiresMinDays || days > model.KeyExpiresMaxDays {
			return nil, "", ErrKeyExpiryOutOfRange
		}
		t := time.Now().AddDate(0, 0, days)
		expiresAt = &t
	}

	generated, err := auth.GenerateKey(auth.EnvLive)
	if err != nil {
		return nil, "", fmt.Errorf("generate key: %w", err)
	}

	key := &model.Key{
		ID:          "key_" + uuid.NewString(),
		ProjectID:   projectID,
		Description: description,
		SecretHash:  generated.Hash,
		Prefix:      generated.Prefix,
		IsActive:    true,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now(),
	}

	if err := s.store.CreateKey(ctx, key); err != nil {
		return nil, "", fmt.Errorf("create key: %w", err)
	}

	s.metrics.IncKeyCreated()
	return key, generated.Plaintext, nil
}

// ListKeys returns all keys owned by a project, newest first.
func (s *KeyService) ListKeys(ctx context.Context, projectID string) ([]*model.Key, error) {
	keys, err := s.store.ListKeysByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

// RevokeKey deactivates a key owned by the project. Revocation is a
// soft flag flip; the row is kept. Keys outside the project or
// already revoked resolve to ErrKeyNotFound.
func (s *KeyService) RevokeKey(ctx context.Context, projectID, keyID string) error {
	key, err := s.store.GetKeyByID(ctx, keyID)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("get key: %w", err)
	}

	if key.ProjectID != projectID || !key.IsActive {
		return ErrKeyNotFound
	}

	if err := s.store.RevokeKey(ctx, keyID); err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("revoke key: %w", err)
	}

	s.metrics.IncKeyRevoked()
	return nil
}
