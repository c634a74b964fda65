package service

import (
	"context"
	"errors"
	"fmt"

	"pelican/internal/model"
	"pelican/internal/repository"

	"github.com/rs/zerolog/log"
)

// ErrLinkNotFound is returned when an identifier resolves to nothing
var ErrLinkNotFound = errors.New("link not found")

// Resolver performs cache-aside link resolution and per-country destination
// selection.
type Resolver struct {
	cache repository.LinkCache
	store repository.LinkStore
}

// NewResolver creates a new Resolver
func NewResolver(cache repository.LinkCache, store repository.LinkStore) *Resolver {
	return &Resolver{
		cache: cache,
		store: store,
	}
}

// Resolve looks up a link record by id. A cache hit is returned without
// re-checking the store. On a miss the store is queried; a hit populates
// the cache best-effort, a negative result is never cached.
func (r *Resolver) Resolve(ctx context.Context, id string) (*model.Link, error) {
	if cached, err := r.cache.GetLink(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	link, err := r.store.GetLink(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to load link %s: %w", id, err)
	}

	if err := r.cache.SaveLink(ctx, link); err != nil {
		// Serving the record takes precedence over cache population
		log.Error().Err(err).Str("link_id", id).Msg("Failed to cache link")
	}

	return link, nil
}

// SelectDestination returns the destination URL for a country code, falling
// back to the default entry when the code is empty or unmapped.
func (r *Resolver) SelectDestination(link *model.Link, countryCode string) string {
	return link.DestinationFor(countryCode)
}
