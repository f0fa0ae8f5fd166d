package bundles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type mockRepo struct {
	bundles      map[int64]Bundle
	nextItemID   int64
	replaceCalls int
	deleteCalls  int
}

func newMockRepo(bundles ...Bundle) *mockRepo {
	m := &mockRepo{bundles: make(map[int64]Bundle), nextItemID: 100}
	for _, b := range bundles {
		m.bundles[b.ID] = b
	}
	return m
}

func (m *mockRepo) List(_ context.Context, _ ListFilters) ([]Bundle, error) {
	out := make([]Bundle, 0, len(m.bundles))
	for _, b := range m.bundles {
		out = append(out, b)
	}
	return out, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (Bundle, error) {
	b, ok := m.bundles[id]
	if !ok {
		return Bundle{}, httpx.ErrNotFound
	}
	return b, nil
}

func (m *mockRepo) Create(_ context.Context, b Bundle) (Bundle, error) {
	b.ID = int64(len(m.bundles) + 1)
	m.bundles[b.ID] = b
	return b, nil
}

func (m *mockRepo) Update(_ context.Context, id int64, b Bundle) error {
	if _, ok := m.bundles[id]; !ok {
		return httpx.ErrNotFound
	}
	b.ID = id
	b.Items = m.bundles[id].Items
	m.bundles[id] = b
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.bundles[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.bundles, id)
	return nil
}

func (m *mockRepo) ReplaceItems(_ context.Context, bundleID int64, items []BundleItem) error {
	m.replaceCalls++
	b, ok := m.bundles[bundleID]
	if !ok {
		return httpx.ErrNotFound
	}
	b.Items = nil
	for _, it := range items {
		m.nextItemID++
		it.ID = m.nextItemID
		it.BundleID = bundleID
		b.Items = append(b.Items, it)
	}
	m.bundles[bundleID] = b
	return nil
}

func (m *mockRepo) InsertItem(_ context.Context, item BundleItem) (BundleItem, error) {
	b, ok := m.bundles[item.BundleID]
	if !ok {
		return BundleItem{}, httpx.ErrNotFound
	}
	m.nextItemID++
	item.ID = m.nextItemID
	b.Items = append(b.Items, item)
	m.bundles[item.BundleID] = b
	return item, nil
}

func (m *mockRepo) DeleteItem(_ context.Context, bundleID, itemID int64) error {
	m.deleteCalls++
	b, ok := m.bundles[bundleID]
	if !ok {
		return httpx.ErrNotFound
	}
	for i, it := range b.Items {
		if it.ID == itemID {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			m.bundles[bundleID] = b
			return nil
		}
	}
	return httpx.ErrNotFound
}

func testBundle() Bundle {
	return Bundle{
		ID:       1,
		SchoolID: 10,
		Session:  "2026-27",
		Status:   StatusIssued,
		IsActive: true,
		Items: []BundleItem{
			{ID: 11, BundleID: 1, ProductID: 501, Qty: 1, MRP: 250, SalePrice: 225},
			{ID: 12, BundleID: 1, ProductID: 502, Qty: 2, MRP: 90, SalePrice: 90},
		},
	}
}

func TestAddItemDuplicateIsNoOp(t *testing.T) {
	repo := newMockRepo(testBundle())
	svc := NewService(repo)

	result, err := svc.AddItem(context.Background(), 1, AddItemRequest{ProductID: 501, Qty: 1})
	require.NoError(t, err)
	assert.Equal(t, "already in bundle", result.Notice)
	assert.Len(t, result.Bundle.Items, 2)
}

func TestAddItemAppendsNewProduct(t *testing.T) {
	repo := newMockRepo(testBundle())
	svc := NewService(repo)

	result, err := svc.AddItem(context.Background(), 1, AddItemRequest{ProductID: 503, Qty: 1, MRP: 40, SalePrice: 35})
	require.NoError(t, err)
	assert.Empty(t, result.Notice)
	require.Len(t, result.Bundle.Items, 3)
	assert.Equal(t, int64(503), result.Bundle.Items[2].ProductID)
	assert.Equal(t, 2, result.Bundle.Items[2].SortOrder)
}

func TestReplaceItemsTransmitsEveryLine(t *testing.T) {
	repo := newMockRepo(testBundle())
	svc := NewService(repo)

	// Editor state: one persisted line kept, one pending line added, one
	// persisted line dropped. The payload is the full remaining set.
	req := ReplaceItemsRequest{
		Replace: true,
		Items: []ItemInput{
			{ID: 11, ProductID: 501, Qty: 1, MRP: 250, SalePrice: 225, SortOrder: 0},
			{ClientKey: "pending-1", ProductID: 700, Qty: 3, MRP: 60, SalePrice: 55, SortOrder: 1},
		},
	}
	bundle, err := svc.ReplaceItems(context.Background(), 1, req)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.replaceCalls)
	require.Len(t, bundle.Items, 2)
	assert.Equal(t, int64(501), bundle.Items[0].ProductID)
	assert.Equal(t, int64(700), bundle.Items[1].ProductID)
}

func TestReplaceItemsFloorsNegativeNumbers(t *testing.T) {
	repo := newMockRepo(testBundle())
	svc := NewService(repo)

	req := ReplaceItemsRequest{
		Replace: true,
		Items: []ItemInput{
			{ClientKey: "a", ProductID: 501, Qty: -2, MRP: -10, SalePrice: -5},
		},
	}
	bundle, err := svc.ReplaceItems(context.Background(), 1, req)
	require.NoError(t, err)
	require.Len(t, bundle.Items, 1)
	assert.Equal(t, 0, bundle.Items[0].Qty)
	assert.Equal(t, 0.0, bundle.Items[0].MRP)
	assert.Equal(t, 0.0, bundle.Items[0].SalePrice)
}

func TestReplaceItemsRejectsAllOrNothing(t *testing.T) {
	repo := newMockRepo(testBundle())
	svc := NewService(repo)

	req := ReplaceItemsRequest{
		Replace: true,
		Items: []ItemInput{
			{ClientKey: "a", ProductID: 501, Qty: 1},
			{ClientKey: "b", ProductID: 0, Qty: 1}, // missing product
		},
	}
	_, err := svc.ReplaceItems(context.Background(), 1, req)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Equal(t, 0, repo.replaceCalls)

	b, _ := repo.Get(context.Background(), 1)
	assert.Len(t, b.Items, 2)
}

func TestReplaceItemsRejectsDuplicateProducts(t *testing.T) {
	repo := newMockRepo(testBundle())
	svc := NewService(repo)

	req := ReplaceItemsRequest{
		Replace: true,
		Items: []ItemInput{
			{ClientKey: "a", ProductID: 501, Qty: 1},
			{ClientKey: "b", ProductID: 501, Qty: 2},
		},
	}
	_, err := svc.ReplaceItems(context.Background(), 1, req)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Equal(t, 0, repo.replaceCalls)
}

func TestReplaceItemsRequiresReplaceFlag(t *testing.T) {
	repo := newMockRepo(testBundle())
	svc := NewService(repo)

	_, err := svc.ReplaceItems(context.Background(), 1, ReplaceItemsRequest{Replace: false})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteItemPersistedHitsRepositoryOnce(t *testing.T) {
	repo := newMockRepo(testBundle())
	svc := NewService(repo)

	bundle, err := svc.DeleteItem(context.Background(), 1, 11)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.deleteCalls)
	require.Len(t, bundle.Items, 1)
	assert.Equal(t, int64(12), bundle.Items[0].ID)
}

func TestDeleteItemRejectsPendingRefs(t *testing.T) {
	repo := newMockRepo(testBundle())
	svc := NewService(repo)

	// A line that was never saved has no server id; the old client sent a
	// negative synthetic one. Neither may reach the repository.
	_, err := svc.DeleteItem(context.Background(), 1, -1756372800000)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	_, err = svc.DeleteItem(context.Background(), 1, 0)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Equal(t, 0, repo.deleteCalls)
}

func TestItemInputRefMapping(t *testing.T) {
	id, ok := ItemInput{ID: 42}.Ref().Persisted()
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	ref := ItemInput{ClientKey: "k1"}.Ref()
	_, ok = ref.Persisted()
	assert.False(t, ok)
	assert.Equal(t, "k1", ref.ClientKey())

	ref = ItemInput{ID: -1700000000000}.Ref()
	_, ok = ref.Persisted()
	assert.False(t, ok)
	assert.Equal(t, "legacy--1700000000000", ref.ClientKey())
}
