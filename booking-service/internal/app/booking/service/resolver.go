package service

import (
	"context"
	"errors"
	"strings"

	"trahy/booking-service/internal/app/booking/infrastructure"
	"trahy/booking-service/internal/app/booking/repository"
	"trahy/pkg/logger"
)

// PropertyResolver maps a caller-supplied property identifier, either the
// canonical id or a human slug, to the canonical id.
type PropertyResolver struct {
	propertyRepo repository.PropertyRepository
	slugCache    infrastructure.SlugCache
}

// NewPropertyResolver creates a resolver. slugCache may be nil.
func NewPropertyResolver(propertyRepo repository.PropertyRepository, slugCache infrastructure.SlugCache) *PropertyResolver {
	return &PropertyResolver{
		propertyRepo: propertyRepo,
		slugCache:    slugCache,
	}
}

// Resolve tries the identifier as a canonical id first, then as a slug.
// When several properties share a slug the store's first match wins.
// The slug cache is consulted before any store read: it only ever holds
// identifiers that already missed the id lookup, mapped to canonical ids.
func (r *PropertyResolver) Resolve(ctx context.Context, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", missing("property identifier")
	}

	// 1. Slug cache
	if id, ok := r.cachedID(ctx, identifier); ok {
		return id, nil
	}

	// 2. Direct lookup by canonical id
	_, err := r.propertyRepo.GetByID(ctx, identifier)
	if err == nil {
		return identifier, nil
	}
	if !errors.Is(err, repository.ErrPropertyNotFound) {
		return "", translate(err, "get property")
	}

	// 3. Equality query on slug
	id, err := r.propertyRepo.FindIDBySlug(ctx, identifier)
	if err != nil {
		return "", translate(err, "find property by slug")
	}

	if r.slugCache != nil {
		if err := r.slugCache.SetPropertyID(ctx, identifier, id); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("slug", identifier).Msg("Failed to cache property slug")
		}
	}

	return id, nil
}

func (r *PropertyResolver) cachedID(ctx context.Context, slug string) (string, bool) {
	if r.slugCache == nil {
		return "", false
	}

	id, found, err := r.slugCache.GetPropertyID(ctx, slug)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("slug", slug).Msg("Slug cache lookup failed")
		return "", false
	}
	return id, found
}
