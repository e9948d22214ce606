package service

import (
	"context"
	"fmt"

	"storefront-service/internal/catalog"
	"storefront-service/internal/entity"
)

type CatalogStore interface {
	ListProducts(ctx context.Context) ([]entity.ProductStock, error)
	GetProduct(ctx context.Context, name string) (*entity.ProductStock, error)
	UpdateProductStock(ctx context.Context, name string, stock int) (*entity.ProductStock, error)
}

type CatalogCache interface {
	Get(ctx context.Context) ([]entity.ProductStock, bool, error)
	Set(ctx context.Context, rows []entity.ProductStock) error
	Invalidate(ctx context.Context) error
}

// CatalogService serves the product cards.
type CatalogService struct {
	store CatalogStore
	cache CatalogCache
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(store CatalogStore, cache CatalogCache) *CatalogService {
	return &CatalogService{store: store, cache: cache}
}

// ListProducts returns every product with its stock. The stock comes from
// the cache when it is warm; a cache failure falls back to the store.
func (s *CatalogService) ListProducts(ctx context.Context) ([]entity.CatalogItem, error) {
	rows, ok, err := s.cache.Get(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error reading catalog from cache")
	}
	if ok {
		return catalog.Merge(rows), nil
	}

	rows, err = s.store.ListProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing products")
		return nil, err
	}

	if err := s.cache.Set(ctx, rows); err != nil {
		logger.Error().Err(err).Msg("Error writing catalog to cache")
	}
	return catalog.Merge(rows), nil
}

// Warm loads the stock snapshot into the cache ahead of the first request.
func (s *CatalogService) Warm(ctx context.Context) error {
	rows, err := s.store.ListProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing products for cache warm-up")
		return err
	}
	if err := s.cache.Set(ctx, rows); err != nil {
		logger.Error().Err(err).Msg("Error warming catalog cache")
		return err
	}
	logger.Info().Msgf("Catalog cache warmed with %d products", len(rows))
	return nil
}

// LiveStock reads the current stock of a product straight from the store.
func (s *CatalogService) LiveStock(ctx context.Context, name string) (entity.Product, int, error) {
	def, ok := catalog.Lookup(name)
	if !ok {
		return entity.Product{}, 0, entity.NewValidationError(fmt.Sprintf("unknown product %q", name))
	}
	row, err := s.store.GetProduct(ctx, name)
	if err != nil {
		return def, 0, err
	}
	return def, row.Stock, nil
}

// Restock sets the absolute stock of a product.
func (s *CatalogService) Restock(ctx context.Context, name string, stock int) (*entity.ProductStock, error) {
	if _, ok := catalog.Lookup(name); !ok {
		return nil, entity.NewValidationError(fmt.Sprintf("unknown product %q", name))
	}
	if stock < 0 {
		return nil, entity.NewValidationError("stock cannot be negative")
	}
	row, err := s.store.UpdateProductStock(ctx, name, stock)
	if err != nil {
		logger.Error().Err(err).Msgf("Error restocking %s", name)
		return nil, err
	}
	s.Invalidate(ctx)
	logger.Info().Msgf("Restocked %s to %d", name, stock)
	return row, nil
}

func (s *CatalogService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Error().Err(err).Msg("Error invalidating catalog cache")
	}
}
