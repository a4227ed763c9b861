package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/karavan-market/karavan/internal/database"
	"github.com/karavan-market/karavan/internal/entity"
)

var repoTracer = otel.Tracer("github.com/karavan-market/karavan/repository/account")

// ErrNotFound is returned when an account is missing.
var ErrNotFound = errors.New("account not found")

// Repository encapsulates read/write access for accounts.
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

// Create persists a new account. Phone uniqueness is enforced by the
// accounts_phone_key constraint.
func (r *Repository) Create(ctx context.Context, account *entity.Account) error {
	if account == nil {
		return errors.New("nil account")
	}
	ctx, span := repoTracer.Start(ctx, "AccountRepository.Create", trace.WithAttributes(attribute.String("account.phone", account.Phone)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(account).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches an account by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	ctx, span := repoTracer.Start(ctx, "AccountRepository.GetByID", trace.WithAttributes(attribute.Int64("account.id", id)))
	defer span.End()

	account := new(entity.Account)
	err := r.reader.NewSelect().Model(account).Where("a.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return account, nil
}

// GetByPhone fetches an account by its login phone number.
func (r *Repository) GetByPhone(ctx context.Context, phone string) (*entity.Account, error) {
	ctx, span := repoTracer.Start(ctx, "AccountRepository.GetByPhone")
	defer span.End()

	account := new(entity.Account)
	err := r.reader.NewSelect().Model(account).Where("a.phone = ?", phone).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return account, nil
}
