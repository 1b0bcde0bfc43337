package storefront

import (
	"context"
	"errors"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
)

// OptimisticCommand changes a local projection before the server confirms it.
// On success the server's answer replaces the projection; on failure the projection
// is replaced by a fresh read, or by its previous value if that read fails too.
type OptimisticCommand[T any] struct {
	Name    string
	Apply   func(current T) T
	Remote  func(ctx context.Context) (T, error)
	Refetch func(ctx context.Context) (T, error)
}

// Execute runs the command against *state. The caller must serialize access to state.
func (c OptimisticCommand[T]) Execute(ctx context.Context, state *T) error {
	previous := *state
	*state = c.Apply(previous)

	confirmed, err := c.Remote(ctx)
	if err == nil {
		*state = confirmed
		return nil
	}

	if domain.KindOf(err) == nil {
		err = domain.UpstreamError(c.Name, err)
	}

	log := logger.WithContext(ctx)
	fresh, ferr := c.Refetch(ctx)
	if ferr != nil {
		*state = previous
		log.Warn().Err(ferr).Str("command", c.Name).Msg("Rollback refetch failed, restored previous state")
		return errors.Join(err, ferr)
	}
	*state = fresh
	log.Info().Err(err).Str("command", c.Name).Msg("Optimistic update rolled back")
	return err
}
