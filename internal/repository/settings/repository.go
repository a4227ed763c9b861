package settings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"

	"github.com/karavan-market/karavan/internal/database"
	"github.com/karavan-market/karavan/internal/entity"
)

var repoTracer = otel.Tracer("github.com/karavan-market/karavan/repository/settings")

// settingsRowID is the primary key of the single settings row.
const settingsRowID = 1

// Repository reads and writes the single-row store settings.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Get returns the settings row, or nil when it has never been written.
func (r *Repository) Get(ctx context.Context) (*entity.Settings, error) {
	ctx, span := repoTracer.Start(ctx, "SettingsRepository.Get")
	defer span.End()

	s := new(entity.Settings)
	err := r.reader.NewSelect().Model(s).Where("s.id = ?", settingsRowID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s, nil
}

// Put upserts the settings row.
func (r *Repository) Put(ctx context.Context, s *entity.Settings) error {
	if s == nil {
		return errors.New("nil settings")
	}
	ctx, span := repoTracer.Start(ctx, "SettingsRepository.Put")
	defer span.End()

	s.ID = settingsRowID
	s.UpdatedAt = time.Now().UTC()
	_, err := r.writer.NewInsert().Model(s).
		On("CONFLICT (id) DO UPDATE").
		Set("prepayment_percentage = EXCLUDED.prepayment_percentage").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return err
}
