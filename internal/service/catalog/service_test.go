package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/cache"
	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/internal/entity"
	repo "github.com/karavan-market/karavan/internal/repository/product"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

type fakeProductStore struct {
	products map[int64]*entity.Product
	nextID   int64
	getCalls int
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[int64]*entity.Product), nextID: 1}
}

func (f *fakeProductStore) Create(ctx context.Context, product *entity.Product) error {
	product.ID = f.nextID
	f.nextID++
	clone := *product
	f.products[product.ID] = &clone
	return nil
}

func (f *fakeProductStore) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	f.getCalls++
	product, ok := f.products[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (f *fakeProductStore) List(ctx context.Context) ([]entity.Product, error) {
	out := make([]entity.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductStore) Update(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if _, ok := f.products[product.ID]; !ok {
		return nil, repo.ErrNotFound
	}
	clone := *product
	f.products[product.ID] = &clone
	return product, nil
}

func (f *fakeProductStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := m.entries[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return value, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.entries[key] = value
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func newTestService() (*Service, *fakeProductStore, *memoryCache) {
	store := newFakeProductStore()
	mem := newMemoryCache()
	return NewService(store, mem, time.Minute, zap.NewNop()), store, mem
}

func productRequest(name string) dto.ProductRequest {
	return dto.ProductRequest{
		Name:        name,
		Description: "imported",
		Price:       decimal.NewFromInt(1000),
	}
}

func TestGet_PopulatesCache(t *testing.T) {
	svc, store, mem := newTestService()
	created, err := svc.Create(context.Background(), productRequest("iPhone"))
	require.NoError(t, err)

	first, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "iPhone", first.Name)
	assert.NotEmpty(t, mem.entries)

	callsBefore := store.getCalls
	second, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, callsBefore, store.getCalls, "second read must be served from cache")
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Get(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestUpdate_InvalidatesCache(t *testing.T) {
	svc, _, mem := newTestService()
	created, err := svc.Create(context.Background(), productRequest("iPhone"))
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, mem.entries)

	inStock := false
	_, err = svc.Update(context.Background(), created.ID, dto.ProductRequest{
		Name:        "iPhone 15",
		Description: "imported",
		Price:       decimal.NewFromInt(1200),
		InStock:     &inStock,
	})
	require.NoError(t, err)
	assert.Empty(t, mem.entries, "write must drop cached entries")

	refreshed, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "iPhone 15", refreshed.Name)
	assert.False(t, refreshed.InStock)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), dto.ProductRequest{Price: decimal.NewFromInt(-5)})
	require.Error(t, err)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
	assert.Contains(t, appErr.Details(), "name")
	assert.Contains(t, appErr.Details(), "price")
}

func TestDelete(t *testing.T) {
	svc, _, _ := newTestService()
	created, err := svc.Create(context.Background(), productRequest("iPhone"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}
