package news

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/karavan-market/karavan/internal/database"
	"github.com/karavan-market/karavan/internal/entity"
)

var repoTracer = otel.Tracer("github.com/karavan-market/karavan/repository/news")

// ErrNotFound is returned when a news item is missing.
var ErrNotFound = errors.New("news not found")

// Repository encapsulates read/write access for news items.
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

// Create persists a news item.
func (r *Repository) Create(ctx context.Context, item *entity.News) error {
	if item == nil {
		return errors.New("nil news item")
	}
	ctx, span := repoTracer.Start(ctx, "NewsRepository.Create", trace.WithAttributes(attribute.String("news.title", item.Title)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(item).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a news item with its author joined.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.News, error) {
	ctx, span := repoTracer.Start(ctx, "NewsRepository.GetByID", trace.WithAttributes(attribute.Int64("news.id", id)))
	defer span.End()

	item := new(entity.News)
	err := r.reader.NewSelect().Model(item).
		Relation("Author").
		Where("n.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return item, nil
}

// List returns all news items, newest first, with authors joined.
func (r *Repository) List(ctx context.Context) ([]entity.News, error) {
	ctx, span := repoTracer.Start(ctx, "NewsRepository.List")
	defer span.End()

	var items []entity.News
	err := r.reader.NewSelect().Model(&items).
		Relation("Author").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return items, nil
}

// Update overwrites the mutable fields and returns the stored row.
func (r *Repository) Update(ctx context.Context, item *entity.News) (*entity.News, error) {
	if item == nil {
		return nil, errors.New("nil news item")
	}
	ctx, span := repoTracer.Start(ctx, "NewsRepository.Update", trace.WithAttributes(attribute.Int64("news.id", item.ID)))
	defer span.End()

	item.UpdatedAt = time.Now().UTC()
	res, err := r.writer.NewUpdate().Model(item).
		Column("title", "content", "image", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, item.ID)
}

// Delete removes a news item by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "NewsRepository.Delete", trace.WithAttributes(attribute.Int64("news.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.News)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}
