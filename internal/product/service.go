package product

import (
	"context"
	"strings"
	"time"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// Service is the storefront's view of the catalog. It never fails: upstream
// errors are logged and read as an empty list or an absent product.
type Service interface {
	ListProducts(ctx context.Context, opts ListOptions) []Product
	GetProduct(ctx context.Context, id string) *Product
	SearchProducts(ctx context.Context, query string) []Product
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListProducts(ctx context.Context, opts ListOptions) []Product {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListProducts"),
	)

	start := time.Now()
	products, err := s.repo.List(ctx, opts)
	if err != nil {
		log.Error("failed to fetch products", zap.Error(err))
		return []Product{}
	}

	log.Debug("products fetched", zap.Int("count", len(products)), zap.Duration("duration", time.Since(start)))
	return products
}

func (s *service) GetProduct(ctx context.Context, id string) *Product {
	if strings.TrimSpace(id) == "" {
		return nil
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to fetch product", zap.String("product_id", id), zap.Error(err))
		return nil
	}
	return p
}

func (s *service) SearchProducts(ctx context.Context, query string) []Product {
	if strings.TrimSpace(query) == "" {
		return []Product{}
	}

	products, err := s.repo.Search(ctx, query)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to search products", zap.String("query", query), zap.Error(err))
		return []Product{}
	}
	return products
}
