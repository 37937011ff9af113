package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/baynext/baynext/internal/auth"
	"github.com/baynext/baynext/internal/identity"
	"github.com/baynext/baynext/internal/metrics"
	"github.com/baynext/baynext/internal/model"
)

// CredentialResolver exchanges a bearer credential for a user.
type CredentialResolver interface {
	Resolve(ctx context.Context, credential string) (*model.User, error)
}

// IdentityCache caches resolved identities between requests.
type IdentityCache interface {
	GetIdentity(ctx context.Context, cacheKey string) (*model.User, error)
	SetIdentity(ctx context.Context, cacheKey string, user *model.User) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Resolver CredentialResolver
	Cache    IdentityCache    // optional; nil disables caching
	Metrics  metrics.Recorder // optional
}

// Auth returns a middleware that authenticates API requests.
// It extracts the bearer credential from the Authorization header,
// resolves it to a user, and injects the user into the request context.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential, ok := auth.ExtractBearer(r)
			if !ok {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_key"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncAuthFailure("missing")
				writeAuthError(w, "API key is missing")
				return
			}

			// Check cache first
			cacheKey := auth.QuickHash(credential)
			if cfg.Cache != nil {
				if user, _ := cfg.Cache.GetIdentity(r.Context(), cacheKey); user != nil {
					recorder.IncAuthSuccess(true)
					ctx := auth.ContextWithUser(r.Context(), user)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			start := time.Now()
			user, err := cfg.Resolver.Resolve(r.Context(), credential)
			recorder.ObserveResolveDuration(time.Since(start))

			if err != nil {
				if !errors.Is(err, identity.ErrInvalidCredential) && !errors.Is(err, identity.ErrMissingCredential) {
					cfg.Logger.Error("error during credential resolution",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				} else {
					cfg.Logger.Warn("authentication failed",
						slog.String("reason", "invalid_key"),
						slog.String("ip", r.RemoteAddr),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				}
				recorder.IncAuthFailure("invalid")
				writeAuthError(w, "Invalid API key")
				return
			}

			if cfg.Cache != nil {
				_ = cfg.Cache.SetIdentity(r.Context(), cacheKey, user)
			}

			recorder.IncAuthSuccess(false)

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError writes a 401 Unauthorized response.
// Messages stay generic to prevent credential enumeration.
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"` + message + `"}}`))
}
