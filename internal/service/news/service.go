package news

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/auth"
	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/internal/entity"
	repo "github.com/karavan-market/karavan/internal/repository/news"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/karavan-market/karavan/service/news")

// NewsStore is the persistence surface for announcements.
type NewsStore interface {
	Create(ctx context.Context, item *entity.News) error
	GetByID(ctx context.Context, id int64) (*entity.News, error)
	List(ctx context.Context) ([]entity.News, error)
	Update(ctx context.Context, item *entity.News) (*entity.News, error)
	Delete(ctx context.Context, id int64) error
}

// Service manages storefront announcements.
type Service struct {
	store  NewsStore
	logger *zap.Logger
}

// NewService wires a news service.
func NewService(store NewsStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Params defines dependencies for constructing Service via Fx.
type Params struct {
	fx.In

	Store  *repo.Repository
	Logger *zap.Logger
}

// Module provides the news service to Fx.
var Module = fx.Provide(func(p Params) *Service {
	return NewService(p.Store, p.Logger)
})

// List returns all announcements, newest first.
func (s *Service) List(ctx context.Context) ([]entity.News, error) {
	ctx, span := serviceTracer.Start(ctx, "NewsService.List")
	defer span.End()

	items, err := s.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list news", errorbank.WithCause(err))
	}
	return items, nil
}

// Get returns one announcement.
func (s *Service) Get(ctx context.Context, id int64) (*entity.News, error) {
	ctx, span := serviceTracer.Start(ctx, "NewsService.Get", trace.WithAttributes(attribute.Int64("news.id", id)))
	defer span.End()

	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("news not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load news", errorbank.WithCause(err))
	}
	return item, nil
}

// Create publishes an announcement authored by the principal.
func (s *Service) Create(ctx context.Context, principal auth.Principal, req dto.NewsRequest) (*entity.News, error) {
	ctx, span := serviceTracer.Start(ctx, "NewsService.Create", trace.WithAttributes(attribute.String("news.title", req.Title)))
	defer span.End()

	if fields := validateNews(req); len(fields) > 0 {
		return nil, errorbank.Validation(fields)
	}

	now := time.Now().UTC()
	item := &entity.News{
		Title:     req.Title,
		Content:   req.Content,
		Image:     req.Image,
		AuthorID:  principal.AccountID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, item); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create news", errorbank.WithCause(err))
	}
	return s.Get(ctx, item.ID)
}

// Update overwrites an announcement's mutable fields.
func (s *Service) Update(ctx context.Context, id int64, req dto.NewsRequest) (*entity.News, error) {
	ctx, span := serviceTracer.Start(ctx, "NewsService.Update", trace.WithAttributes(attribute.Int64("news.id", id)))
	defer span.End()

	if fields := validateNews(req); len(fields) > 0 {
		return nil, errorbank.Validation(fields)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Title = req.Title
	current.Content = req.Content
	current.Image = req.Image

	updated, err := s.store.Update(ctx, current)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("news not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update news", errorbank.WithCause(err))
	}
	return updated, nil
}

// Delete removes an announcement.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "NewsService.Delete", trace.WithAttributes(attribute.Int64("news.id", id)))
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("news not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete news", errorbank.WithCause(err))
	}
	return nil
}

func validateNews(req dto.NewsRequest) map[string]any {
	fields := make(map[string]any)
	if req.Title == "" {
		fields["title"] = "is required"
	}
	if req.Content == "" {
		fields["content"] = "is required"
	}
	return fields
}
