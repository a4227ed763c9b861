package seeder

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/config"
	"github.com/karavan-market/karavan/internal/database"
	"github.com/karavan-market/karavan/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	cfg    config.Config
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, cfg config.Config, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, cfg: cfg, logger: logger}
}

// Products seeds a starter catalog if the products are missing.
func (s *Seeder) Products(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Product{
		{
			Name:        "iPhone 15 Pro 256GB",
			Description: "Imported, factory sealed. Delivery in 10-14 days.",
			Price:       decimal.NewFromInt(115000),
			Image:       "/uploads/seed-iphone.jpg",
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			Name:        "PlayStation 5 Slim",
			Description: "Disc edition, EU region.",
			Price:       decimal.NewFromInt(52000),
			Image:       "/uploads/seed-ps5.jpg",
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			Name:        "Dyson Airwrap Complete",
			Description: "Long barrels set.",
			Price:       decimal.NewFromInt(48000),
			Image:       "/uploads/seed-airwrap.jpg",
			InStock:     false,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	for _, sample := range samples {
		product := sample
		_, err := s.db.NewInsert().Model(&product).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded products", zap.Int("count", len(samples)))
	}
	return nil
}

// Settings ensures the singleton settings row exists with the configured
// default prepayment percentage.
func (s *Seeder) Settings(ctx context.Context) error {
	now := time.Now().UTC()
	settings := entity.Settings{
		ID:                   1,
		PrepaymentPercentage: s.cfg.Orders.DefaultPrepaymentPercentage,
		UpdatedAt:            now,
	}

	_, err := s.db.NewInsert().Model(&settings).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("seeded settings", zap.Float64("prepayment_percentage", settings.PrepaymentPercentage))
	}
	return nil
}

// All runs every seeder.
func (s *Seeder) All(ctx context.Context) error {
	if err := s.Products(ctx); err != nil {
		return err
	}
	return s.Settings(ctx)
}
