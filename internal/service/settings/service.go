package settings

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/config"
	"github.com/karavan-market/karavan/internal/entity"
	repo "github.com/karavan-market/karavan/internal/repository/settings"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/karavan-market/karavan/service/settings")

// Store is the persistence surface for the settings row.
type Store interface {
	Get(ctx context.Context) (*entity.Settings, error)
	Put(ctx context.Context, s *entity.Settings) error
}

// Service exposes store-wide settings. When no settings row exists the
// configured default prepayment percentage applies.
type Service struct {
	store    Store
	fallback float64
	logger   *zap.Logger
}

// NewService wires a settings service.
func NewService(store Store, fallback float64, logger *zap.Logger) *Service {
	return &Service{store: store, fallback: fallback, logger: logger}
}

// Params defines dependencies for constructing Service via Fx.
type Params struct {
	fx.In

	Store  *repo.Repository
	Config config.Config
	Logger *zap.Logger
}

// Module provides the settings service to Fx.
var Module = fx.Provide(func(p Params) *Service {
	return NewService(p.Store, p.Config.Orders.DefaultPrepaymentPercentage, p.Logger)
})

// Get returns the effective prepayment percentage.
func (s *Service) Get(ctx context.Context) (float64, error) {
	ctx, span := serviceTracer.Start(ctx, "SettingsService.Get")
	defer span.End()

	row, err := s.store.Get(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, errorbank.Internal("failed to load settings", errorbank.WithCause(err))
	}
	if row == nil {
		return s.fallback, nil
	}
	return row.PrepaymentPercentage, nil
}

// Update stores a new default prepayment percentage.
func (s *Service) Update(ctx context.Context, percentage float64) error {
	ctx, span := serviceTracer.Start(ctx, "SettingsService.Update")
	defer span.End()

	if percentage < 0 || percentage > 100 {
		return errorbank.Validation(map[string]any{"prepayment_percentage": "must be between 0 and 100"})
	}
	if err := s.store.Put(ctx, &entity.Settings{PrepaymentPercentage: percentage}); err != nil {
		span.RecordError(err)
		return errorbank.Internal("failed to store settings", errorbank.WithCause(err))
	}
	return nil
}

// DefaultPrepaymentPercentage resolves the default applied to new orders.
// Lookup failures fall back to the configured default rather than blocking
// order creation.
func (s *Service) DefaultPrepaymentPercentage(ctx context.Context) float64 {
	row, err := s.store.Get(ctx)
	if err != nil {
		s.logger.Warn("settings lookup failed; using configured default", zap.Error(err))
		return s.fallback
	}
	if row == nil {
		return s.fallback
	}
	return row.PrepaymentPercentage
}
