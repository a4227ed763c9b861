package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/cache"
	"github.com/karavan-market/karavan/internal/config"
	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/internal/entity"
	repo "github.com/karavan-market/karavan/internal/repository/product"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/karavan-market/karavan/service/catalog")

const listCacheKey = "products:all"

// ProductStore is the persistence surface for catalog products.
type ProductStore interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Delete(ctx context.Context, id int64) error
}

// Service encapsulates catalog reads and admin-only writes. Reads go
// through the cache; every write invalidates the affected keys.
type Service struct {
	products ProductStore
	cache    cache.Store
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService wires a catalog service.
func NewService(products ProductStore, store cache.Store, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		products: products,
		cache:    store,
		cacheTTL: ttl,
		logger:   logger,
	}
}

// Params defines dependencies for constructing Service via Fx.
type Params struct {
	fx.In

	Products *repo.Repository
	Cache    cache.Store
	Config   config.Config
	Logger   *zap.Logger
}

// Module provides the catalog service to Fx.
var Module = fx.Provide(func(p Params) *Service {
	return NewService(p.Products, p.Cache, p.Config.Cache.DefaultTTL, p.Logger)
})

// Get retrieves a product by id, consulting the cache first.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "CatalogService.Get", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if cached, err := s.getCached(ctx, id); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("product cache read failed", zap.Int64("id", id), zap.Error(err))
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("product not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load product", errorbank.WithCause(err))
	}

	s.putCached(ctx, product)
	return product, nil
}

// List returns all products, newest first.
func (s *Service) List(ctx context.Context) ([]entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "CatalogService.List")
	defer span.End()

	if bytes, err := s.cache.Get(ctx, listCacheKey); err == nil {
		var products []entity.Product
		if err := json.Unmarshal(bytes, &products); err == nil {
			return products, nil
		}
	}

	products, err := s.products.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list products", errorbank.WithCause(err))
	}

	if bytes, err := json.Marshal(products); err == nil {
		if err := s.cache.Set(ctx, listCacheKey, bytes, s.cacheTTL); err != nil {
			s.logger.Warn("product list cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

// Create persists a new product.
func (s *Service) Create(ctx context.Context, req dto.ProductRequest) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "CatalogService.Create", trace.WithAttributes(attribute.String("product.name", req.Name)))
	defer span.End()

	if fields := validateProduct(req); len(fields) > 0 {
		return nil, errorbank.Validation(fields)
	}

	now := time.Now().UTC()
	product := &entity.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		InStock:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}

	if err := s.products.Create(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create product", errorbank.WithCause(err))
	}

	s.invalidate(ctx, product.ID)
	return product, nil
}

// Update overwrites a product's mutable fields.
func (s *Service) Update(ctx context.Context, id int64, req dto.ProductRequest) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "CatalogService.Update", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if fields := validateProduct(req); len(fields) > 0 {
		return nil, errorbank.Validation(fields)
	}

	current, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("product not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load product", errorbank.WithCause(err))
	}

	current.Name = req.Name
	current.Description = req.Description
	current.Price = req.Price
	current.Image = req.Image
	if req.InStock != nil {
		current.InStock = *req.InStock
	}

	updated, err := s.products.Update(ctx, current)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("product not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update product", errorbank.WithCause(err))
	}

	s.invalidate(ctx, id)
	return updated, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "CatalogService.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("product not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete product", errorbank.WithCause(err))
	}

	s.invalidate(ctx, id)
	return nil
}

func cacheKey(id int64) string {
	return fmt.Sprintf("products:%d", id)
}

func (s *Service) getCached(ctx context.Context, id int64) (*entity.Product, error) {
	bytes, err := s.cache.Get(ctx, cacheKey(id))
	if err != nil {
		return nil, err
	}
	var product entity.Product
	if err := json.Unmarshal(bytes, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) putCached(ctx context.Context, product *entity.Product) {
	bytes, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(product.ID), bytes, s.cacheTTL); err != nil {
		s.logger.Warn("product cache write failed", zap.Int64("id", product.ID), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.Int64("id", id), zap.Error(err))
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("product list cache invalidation failed", zap.Error(err))
	}
}

func validateProduct(req dto.ProductRequest) map[string]any {
	fields := make(map[string]any)
	if req.Name == "" {
		fields["name"] = "is required"
	}
	if req.Description == "" {
		fields["description"] = "is required"
	}
	if req.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	return fields
}
