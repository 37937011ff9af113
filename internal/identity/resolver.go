package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/baynext/baynext/internal/auth"
	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
)

// Resolution errors. Both map to HTTP 401; the distinction between a
// bad key and a missing downstream identity is never surfaced to the
// client.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
)

// KeyStore looks up API key rows and their owning projects.
type KeyStore interface {
	GetKeysByPrefix(ctx context.Context, prefix string) ([]*model.Key, error)
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
}

// Directory persists resolved users locally.
type Directory interface {
	GetOrCreateUser(ctx context.Context, user *model.User) (*model.User, error)
}

// Provider fetches identity records from the external provider.
type Provider interface {
	GetUserByID(ctx context.Context, id string) (*ProviderUser, error)
}

// Resolver turns a bearer credential into a trusted, locally
// persisted user.
type Resolver struct {
	keys      KeyStore
	directory Directory
	provider  Provider
	logger    *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(keys KeyStore, directory Directory, provider Provider, logger *slog.Logger) *Resolver {
	return &Resolver{
		keys:      keys,
		directory: directory,
		provider:  provider,
		logger:    logger,
	}
}

// Resolve validates a raw credential and returns the owning user.
//
// The credential's visible prefix selects candidate key rows; each
// candidate is verified with a constant-time argon2id comparison.
// The matched key's project chain yields the subject, whose full
// record is fetched from the identity provider and persisted in the
// local user directory. Every failure past the missing-credential
// check is reported as ErrInvalidCredential so the caller cannot tell
// which link was broken.
func (r *Resolver) Resolve(ctx context.Context, credential string) (*model.User, error) {
	if credential == "" {
		return nil, ErrMissingCredential
	}

	parsed, err := auth.ParseKey(credential)
	if err != nil {
		r.logger.Warn("credential resolution failed", slog.String("reason", "invalid_format"))
		return nil, ErrInvalidCredential
	}

	candidates, err := r.keys.GetKeysByPrefix(ctx, parsed.Prefix)
	if err != nil {
		return nil, fmt.Errorf("key lookup: %w", err)
	}

	// Verify against each candidate key (handles prefix collisions)
	var matched *model.Key
	for _, k := range candidates {
		ok, err := auth.VerifySecret(credential, k.SecretHash)
		if err != nil {
			continue
		}
		if ok {
			matched = k
			break
		}
	}

	if matched == nil {
		r.logger.Warn("credential resolution failed",
			slog.String("reason", "unknown_key"),
			slog.String("prefix", parsed.Prefix),
		)
		return nil, ErrInvalidCredential
	}

	if !matched.IsValid() {
		r.logger.Warn("credential resolution failed",
			slog.String("reason", "inactive_or_expired_key"),
			slog.String("key_id", matched.ID),
		)
		return nil, ErrInvalidCredential
	}

	project, err := r.keys.GetProjectByID(ctx, matched.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			r.logger.Warn("credential resolution failed",
				slog.String("reason", "orphaned_key"),
				slog.String("key_id", matched.ID),
			)
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("project lookup: %w", err)
	}

	record, err := r.provider.GetUserByID(ctx, project.OwnerID)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			r.logger.Warn("credential resolution failed",
				slog.String("reason", "identity_not_found"),
				slog.String("key_id", matched.ID),
			)
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("identity lookup: %w", err)
	}

	user, err := r.directory.GetOrCreateUser(ctx, &model.User{
		ID:    record.ID,
		Email: record.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("persist resolved user: %w", err)
	}

	return user, nil
}
