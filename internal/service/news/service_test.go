package news

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/auth"
	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/internal/entity"
	repo "github.com/karavan-market/karavan/internal/repository/news"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

type fakeNewsStore struct {
	items  map[int64]*entity.News
	nextID int64
}

func newFakeNewsStore() *fakeNewsStore {
	return &fakeNewsStore{items: make(map[int64]*entity.News), nextID: 1}
}

func (f *fakeNewsStore) Create(ctx context.Context, item *entity.News) error {
	item.ID = f.nextID
	f.nextID++
	clone := *item
	f.items[item.ID] = &clone
	return nil
}

func (f *fakeNewsStore) GetByID(ctx context.Context, id int64) (*entity.News, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (f *fakeNewsStore) List(ctx context.Context) ([]entity.News, error) {
	out := make([]entity.News, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeNewsStore) Update(ctx context.Context, item *entity.News) (*entity.News, error) {
	if _, ok := f.items[item.ID]; !ok {
		return nil, repo.ErrNotFound
	}
	clone := *item
	f.items[item.ID] = &clone
	return item, nil
}

func (f *fakeNewsStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

var author = auth.Principal{AccountID: 1, Admin: true}

func TestCreate_SetsAuthor(t *testing.T) {
	svc := NewService(newFakeNewsStore(), zap.NewNop())

	item, err := svc.Create(context.Background(), author, dto.NewsRequest{
		Title:   "New arrivals",
		Content: "iPhones back in stock",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.AuthorID)
	assert.NotZero(t, item.ID)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newFakeNewsStore(), zap.NewNop())

	_, err := svc.Create(context.Background(), author, dto.NewsRequest{})
	require.Error(t, err)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
	assert.Contains(t, appErr.Details(), "title")
	assert.Contains(t, appErr.Details(), "content")
}

func TestUpdate(t *testing.T) {
	svc := NewService(newFakeNewsStore(), zap.NewNop())
	item, err := svc.Create(context.Background(), author, dto.NewsRequest{Title: "Old", Content: "text"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), item.ID, dto.NewsRequest{Title: "New", Content: "text"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, item.AuthorID, updated.AuthorID, "author must survive edits")
}

func TestGetAndDelete_NotFound(t *testing.T) {
	svc := NewService(newFakeNewsStore(), zap.NewNop())

	_, err := svc.Get(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())

	err = svc.Delete(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}
