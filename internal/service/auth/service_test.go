package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/karavan-market/karavan/internal/config"
	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/internal/entity"
	repo "github.com/karavan-market/karavan/internal/repository/account"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

type fakeAccountStore struct {
	byID    map[int64]*entity.Account
	byPhone map[string]*entity.Account
	nextID  int64
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		byID:    make(map[int64]*entity.Account),
		byPhone: make(map[string]*entity.Account),
		nextID:  1,
	}
}

func (f *fakeAccountStore) Create(ctx context.Context, account *entity.Account) error {
	account.ID = f.nextID
	f.nextID++
	f.byID[account.ID] = account
	f.byPhone[account.Phone] = account
	return nil
}

func (f *fakeAccountStore) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	account, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return account, nil
}

func (f *fakeAccountStore) GetByPhone(ctx context.Context, phone string) (*entity.Account, error) {
	account, ok := f.byPhone[phone]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return account, nil
}

func newTestService() (*Service, *fakeAccountStore) {
	store := newFakeAccountStore()
	cfg := config.Auth{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	return NewService(store, cfg, zap.NewNop()), store
}

func TestRegister_IssuesToken(t *testing.T) {
	svc, store := newTestService()

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{Phone: "+79990001122", Password: "secret1"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "+79990001122", resp.Account.Phone)
	assert.False(t, resp.Account.IsAdmin)

	stored := store.byPhone["+79990001122"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.PasswordHash, "password must be hashed")
}

func TestRegister_DuplicatePhone(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Phone: "+79990001122", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{Phone: "+79990001122", Password: "another1"})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Phone: "+79990001122", Password: "1234"})
	require.Error(t, err)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
	assert.Contains(t, appErr.Details(), "password")
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Phone: "+79990001122", Password: "secret1"})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Phone: "+79990001122", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Phone: "+79990001122", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Phone: "+79990001122", Password: "wrong-pass"})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindUnauthorized, errorbank.From(err).Kind())
}

func TestLogin_UnknownPhoneIndistinguishable(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), dto.LoginRequest{Phone: "+70000000000", Password: "whatever"})
	require.Error(t, err)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindUnauthorized, appErr.Kind())
	assert.Equal(t, "invalid phone or password", appErr.Message())
}

func TestMe(t *testing.T) {
	svc, store := newTestService()

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{Phone: "+79990001122", Password: "secret1"})
	require.NoError(t, err)

	profile, err := svc.Me(context.Background(), resp.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, store.byPhone["+79990001122"].ID, profile.ID)

	_, err = svc.Me(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestCreateAdmin(t *testing.T) {
	svc, store := newTestService()

	account, err := svc.CreateAdmin(context.Background(), "+79990005566", "admin-pass")
	require.NoError(t, err)
	assert.True(t, account.IsAdmin)
	assert.NotNil(t, store.byPhone["+79990005566"])

	_, err = svc.CreateAdmin(context.Background(), "+79990005566", "admin-pass")
	require.Error(t, err)
	assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())
}
