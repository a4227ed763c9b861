package auth

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/karavan-market/karavan/internal/auth"
	"github.com/karavan-market/karavan/internal/config"
	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/internal/entity"
	repo "github.com/karavan-market/karavan/internal/repository/account"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/karavan-market/karavan/service/auth")

const minPasswordLength = 5

// AccountStore is the persistence surface for account identities.
type AccountStore interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id int64) (*entity.Account, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Account, error)
}

// Service handles registration, login, and profile resolution.
type Service struct {
	accounts   AccountStore
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
	logger     *zap.Logger
}

// NewService wires an auth service.
func NewService(accounts AccountStore, cfg config.Auth, logger *zap.Logger) *Service {
	return &Service{
		accounts:   accounts,
		jwtSecret:  cfg.JWTSecret,
		tokenTTL:   cfg.TokenTTL,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Params defines dependencies for constructing Service via Fx.
type Params struct {
	fx.In

	Accounts *repo.Repository
	Config   config.Config
	Logger   *zap.Logger
}

// Module provides the auth service to Fx.
var Module = fx.Provide(func(p Params) *Service {
	return NewService(p.Accounts, p.Config.Auth, p.Logger)
})

// Register creates an account keyed by phone number and issues a token.
// A duplicate phone is a conflict.
func (s *Service) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	ctx, span := serviceTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	if fields := validateCredentials(req.Phone, req.Password); len(fields) > 0 {
		return nil, errorbank.Validation(fields)
	}

	existing, err := s.accounts.GetByPhone(ctx, req.Phone)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to check phone", errorbank.WithCause(err))
	}
	if existing != nil {
		return nil, errorbank.Conflict("an account with this phone already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, errorbank.Internal("failed to hash password", errorbank.WithCause(err))
	}

	account := &entity.Account{
		Phone:        req.Phone,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create account", errorbank.WithCause(err))
	}

	return s.issue(account)
}

// Login verifies the credential and issues a token. Invalid phone and
// invalid password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx, span := serviceTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	if req.Phone == "" || req.Password == "" {
		return nil, errorbank.Validation(map[string]any{"phone": "phone and password are required"})
	}

	account, err := s.accounts.GetByPhone(ctx, req.Phone)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.Unauthorized("invalid phone or password")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load account", errorbank.WithCause(err))
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return nil, errorbank.Unauthorized("invalid phone or password")
	}

	return s.issue(account)
}

// Me resolves the authenticated account's profile.
func (s *Service) Me(ctx context.Context, accountID int64) (*dto.AccountProfile, error) {
	ctx, span := serviceTracer.Start(ctx, "AuthService.Me")
	defer span.End()

	account, err := s.accounts.GetByID(ctx, accountID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("account not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load account", errorbank.WithCause(err))
	}

	profile := dto.ToAccountProfile(account)
	return &profile, nil
}

// CreateAdmin provisions an administrator account. Used by the CLI, not
// exposed over HTTP.
func (s *Service) CreateAdmin(ctx context.Context, phone, password string) (*entity.Account, error) {
	if fields := validateCredentials(phone, password); len(fields) > 0 {
		return nil, errorbank.Validation(fields)
	}

	existing, err := s.accounts.GetByPhone(ctx, phone)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.Internal("failed to check phone", errorbank.WithCause(err))
	}
	if existing != nil {
		return nil, errorbank.Conflict("an account with this phone already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, errorbank.Internal("failed to hash password", errorbank.WithCause(err))
	}

	account := &entity.Account{
		Phone:        phone,
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, errorbank.Internal("failed to create account", errorbank.WithCause(err))
	}
	return account, nil
}

func (s *Service) issue(account *entity.Account) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(account.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, errorbank.Internal("failed to issue token", errorbank.WithCause(err))
	}
	return &dto.AuthResponse{
		Token:   token,
		Account: dto.ToAccountProfile(account),
	}, nil
}

func validateCredentials(phone, password string) map[string]any {
	fields := make(map[string]any)
	if phone == "" {
		fields["phone"] = "is required"
	}
	if len(password) < minPasswordLength {
		fields["password"] = "must be at least 5 characters"
	}
	return fields
}
