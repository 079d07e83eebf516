package session

import (
	"context"
	"fmt"

	"sharc-gateway/internal/logger"
	"sharc-gateway/internal/models"
)

// ProfileFetcher asks the backend who a token belongs to. A nil user with
// a nil error means the token is not valid.
type ProfileFetcher interface {
	FetchCurrentUser(ctx context.Context, token string) (*models.User, error)
}

// ProfileCache is an optional read-through cache in front of the fetcher.
type ProfileCache interface {
	Get(ctx context.Context, token string) (*models.User, error)
	Put(ctx context.Context, token string, user *models.User) error
}

// Resolver turns a raw bearer token into a tagged Session exactly once at
// the boundary, so nothing downstream ever deals with a maybe-user.
type Resolver struct {
	Backend ProfileFetcher
	Cache   ProfileCache
	Logger  *logger.Logger
}

func NewResolver(backend ProfileFetcher, cache ProfileCache, log *logger.Logger) *Resolver {
	return &Resolver{Backend: backend, Cache: cache, Logger: log}
}

// Resolve returns the session for a token. An empty token is anonymous
// without a backend round-trip. Cache failures fall through to the
// backend rather than failing the request.
func (r *Resolver) Resolve(ctx context.Context, token string) (models.Session, error) {
	if token == "" {
		return models.Anonymous(), nil
	}

	if r.Cache != nil {
		user, err := r.Cache.Get(ctx, token)
		if err != nil {
			r.Logger.Warn("SESSION", fmt.Sprintf("Profile cache read failed: %v", err))
		} else if user != nil {
			return models.ForUser(*user), nil
		}
	}

	user, err := r.Backend.FetchCurrentUser(ctx, token)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to resolve session: %w", err)
	}
	if user == nil {
		r.Logger.LogSession("RESOLVE", "token rejected by backend, treating as anonymous")
		return models.Anonymous(), nil
	}

	if r.Cache != nil {
		if err := r.Cache.Put(ctx, token, user); err != nil {
			r.Logger.Warn("SESSION", fmt.Sprintf("Profile cache write failed: %v", err))
		}
	}

	return models.ForUser(*user), nil
}
