package service

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/storefront/internal/constants"
	apperrors "github.com/Payphone-Digital/storefront/internal/errors"
	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/pkg/catalog"
	"github.com/Payphone-Digital/storefront/pkg/circuit"
	"go.uber.org/zap"
)

// CatalogClient is the remote product API.
type CatalogClient interface {
	ListProducts(ctx context.Context, sort model.SortOrder) ([]model.ProductSummary, error)
	GetProduct(ctx context.Context, id model.ProductID) (*model.Product, error)
}

// CatalogService fronts the remote catalog. Every failure, whatever its
// cause, comes back as ErrFetchFailed.
type CatalogService struct {
	client   CatalogClient
	breakers *circuit.BreakerRegistry
	logger   *zap.Logger
}

// NewBreakerRegistry builds the per-endpoint catalog breakers. They trip on
// upstream failures only, so requests for unknown ids never open them.
func NewBreakerRegistry(config circuit.Config, logger *zap.Logger) *circuit.BreakerRegistry {
	config.IsFailure = catalog.IsUpstreamFailure
	return circuit.NewBreakerRegistry(config, logger)
}

func NewCatalogService(client CatalogClient, breakers *circuit.BreakerRegistry, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if breakers == nil {
		breakers = NewBreakerRegistry(circuit.DefaultConfig(), logger)
	}
	return &CatalogService{
		client:   client,
		breakers: breakers,
		logger:   logger,
	}
}

// ListProducts returns the collection in the requested order.
func (s *CatalogService) ListProducts(ctx context.Context, sort model.SortOrder) ([]model.ProductSummary, error) {
	var products []model.ProductSummary
	err := s.breakers.GetOrCreate(constants.BreakerCatalogList).Execute(ctx, func(ctx context.Context) error {
		var err error
		products, err = s.client.ListProducts(ctx, sort)
		return err
	})
	if err != nil {
		return nil, s.fetchFailed(err, zap.String("endpoint", "collection"), zap.Stringer("sort", sort))
	}
	return products, nil
}

// GetProduct returns one full record.
func (s *CatalogService) GetProduct(ctx context.Context, id model.ProductID) (*model.Product, error) {
	var product *model.Product
	err := s.breakers.GetOrCreate(constants.BreakerCatalogItem).Execute(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.client.GetProduct(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.fetchFailed(err, zap.String("endpoint", "item"), zap.Stringer("product_id", id))
	}
	return product, nil
}

// BreakerStats reports the circuit state of each catalog endpoint.
func (s *CatalogService) BreakerStats() []circuit.Stats {
	s.breakers.GetOrCreate(constants.BreakerCatalogList)
	s.breakers.GetOrCreate(constants.BreakerCatalogItem)
	return s.breakers.Stats()
}

func (s *CatalogService) fetchFailed(err error, fields ...zap.Field) error {
	fields = append(fields, zap.Error(err))
	switch {
	case errors.Is(err, context.Canceled):
		s.logger.Debug("Catalog fetch abandoned by client", fields...)
	case errors.Is(err, circuit.ErrCircuitOpen), errors.Is(err, circuit.ErrTooManyRequests):
		s.logger.Warn("Catalog fetch rejected by circuit breaker", fields...)
	default:
		s.logger.Warn("Catalog fetch failed", fields...)
	}
	return apperrors.WrapError(apperrors.ErrFetchFailed, err)
}
