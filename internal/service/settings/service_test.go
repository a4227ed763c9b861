package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/entity"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

type fakeStore struct {
	row *entity.Settings
	err error
}

func (f *fakeStore) Get(ctx context.Context) (*entity.Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.row, nil
}

func (f *fakeStore) Put(ctx context.Context, s *entity.Settings) error {
	if f.err != nil {
		return f.err
	}
	f.row = s
	return nil
}

func TestGet_FallsBackWhenMissing(t *testing.T) {
	svc := NewService(&fakeStore{}, 50, zap.NewNop())

	pct, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50.0, pct)
}

func TestGet_ReturnsStoredValue(t *testing.T) {
	svc := NewService(&fakeStore{row: &entity.Settings{ID: 1, PrepaymentPercentage: 30}}, 50, zap.NewNop())

	pct, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30.0, pct)
}

func TestUpdate_ValidatesRange(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, 50, zap.NewNop())

	for _, pct := range []float64{-1, 101} {
		err := svc.Update(context.Background(), pct)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	}

	require.NoError(t, svc.Update(context.Background(), 70))
	assert.Equal(t, 70.0, store.row.PrepaymentPercentage)
}

func TestDefaultPrepaymentPercentage_SurvivesStoreFailure(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("connection refused")}, 50, zap.NewNop())

	assert.Equal(t, 50.0, svc.DefaultPrepaymentPercentage(context.Background()))
}

func TestDefaultPrepaymentPercentage_UsesStoredRow(t *testing.T) {
	svc := NewService(&fakeStore{row: &entity.Settings{ID: 1, PrepaymentPercentage: 25}}, 50, zap.NewNop())

	assert.Equal(t, 25.0, svc.DefaultPrepaymentPercentage(context.Background()))
}
