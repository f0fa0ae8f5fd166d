package pos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpost-erp/bookpost/internal/bundles"
	"github.com/bookpost-erp/bookpost/internal/catalog"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type fakeBundles struct {
	candidates []bundles.Bundle
	full       map[int64]bundles.Bundle
	gotByID    int64
}

func (f *fakeBundles) List(_ context.Context, _ bundles.ListFilters) ([]bundles.Bundle, error) {
	return f.candidates, nil
}

func (f *fakeBundles) Get(_ context.Context, id int64) (bundles.Bundle, error) {
	f.gotByID = id
	b, ok := f.full[id]
	if !ok {
		return bundles.Bundle{}, httpx.ErrNotFound
	}
	return b, nil
}

type fakeProducts struct {
	products map[int64]catalog.Product
}

func (f *fakeProducts) GetMany(_ context.Context, ids []int64) (map[int64]catalog.Product, error) {
	out := make(map[int64]catalog.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeClasses struct {
	name string
}

func (f *fakeClasses) ClassName(_ context.Context, _ int64) (string, error) {
	return f.name, nil
}

func bookProduct(id int64, title string) catalog.Product {
	return catalog.Product{ID: id, Type: "BOOK", Book: &catalog.Book{ID: id * 10, Title: title}}
}

func materialProduct(id int64, name string) catalog.Product {
	return catalog.Product{ID: id, Type: "MATERIAL", Name: name}
}

func newTestLoader(t *testing.T, fb *fakeBundles, fp *fakeProducts) (*Loader, *Store, Cart) {
	t.Helper()
	store := newTestStore(t)
	cart, err := store.Create(context.Background())
	require.NoError(t, err)
	return NewLoader(fb, fp, &fakeClasses{name: "V"}, store), store, cart
}

func TestLoadPrefersBillableStatus(t *testing.T) {
	fb := &fakeBundles{
		candidates: []bundles.Bundle{
			{ID: 1, Status: "CLOSED"},
			{ID: 2, Status: "issued"},
			{ID: 3, Status: "PARTIAL"},
		},
		full: map[int64]bundles.Bundle{
			2: {ID: 2, Status: "issued", Items: []bundles.BundleItem{
				{ProductID: 7, Qty: 1, SalePrice: 50, MRP: 60},
			}},
		},
	}
	fp := &fakeProducts{products: map[int64]catalog.Product{7: bookProduct(7, "Math")}}
	loader, _, cart := newTestLoader(t, fb, fp)

	loaded, err := loader.Load(context.Background(), cart.ID, LoadRequest{SchoolID: 1, ClassID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), fb.gotByID, "first billable status wins over first overall")
	assert.Equal(t, int64(2), loaded.BundleID)
}

func TestLoadFallsBackToFirstCandidate(t *testing.T) {
	fb := &fakeBundles{
		candidates: []bundles.Bundle{
			{ID: 4, Status: "DRAFT"},
			{ID: 5, Status: "CLOSED"},
		},
		full: map[int64]bundles.Bundle{
			4: {ID: 4, Items: []bundles.BundleItem{{ProductID: 7, Qty: 1, SalePrice: 10}}},
		},
	}
	fp := &fakeProducts{products: map[int64]catalog.Product{7: bookProduct(7, "Math")}}
	loader, _, cart := newTestLoader(t, fb, fp)

	loaded, err := loader.Load(context.Background(), cart.ID, LoadRequest{SchoolID: 1, ClassID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), loaded.BundleID)
}

func TestLoadNoBundleLeavesCartUntouched(t *testing.T) {
	fb := &fakeBundles{}
	fp := &fakeProducts{}
	loader, store, cart := newTestLoader(t, fb, fp)

	cart.PaidAmount = 42
	cart, err := store.Save(context.Background(), cart)
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), cart.ID, LoadRequest{SchoolID: 1, ClassID: 2})
	assert.ErrorIs(t, err, ErrNoBundle)

	kept, err := store.Get(context.Background(), cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 42.0, kept.PaidAmount)
}

func TestLoadEmptyBundleIsDistinctError(t *testing.T) {
	fb := &fakeBundles{
		candidates: []bundles.Bundle{{ID: 9, Status: "ISSUED"}},
		full:       map[int64]bundles.Bundle{9: {ID: 9, Status: "ISSUED"}},
	}
	loader, _, cart := newTestLoader(t, fb, &fakeProducts{})

	_, err := loader.Load(context.Background(), cart.ID, LoadRequest{SchoolID: 1, ClassID: 2})
	assert.ErrorIs(t, err, ErrBundleEmpty)
	assert.NotErrorIs(t, err, ErrNoBundle)
}

func TestLoadRequiresSchoolAndClass(t *testing.T) {
	loader, _, cart := newTestLoader(t, &fakeBundles{}, &fakeProducts{})

	_, err := loader.Load(context.Background(), cart.ID, LoadRequest{SchoolID: 1})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	_, err = loader.Load(context.Background(), cart.ID, LoadRequest{ClassID: 2})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestLoadEndToEndTotals(t *testing.T) {
	fb := &fakeBundles{
		candidates: []bundles.Bundle{{ID: 1, Status: "ISSUED"}},
		full: map[int64]bundles.Bundle{
			1: {ID: 1, Status: "ISSUED", Items: []bundles.BundleItem{
				{ProductID: 1, Qty: 2, SalePrice: 100},
				{ProductID: 2, Qty: 3, SalePrice: 20},
			}},
		},
	}
	fp := &fakeProducts{products: map[int64]catalog.Product{
		1: bookProduct(1, "Math"),
		2: materialProduct(2, "Notebook"),
	}}
	loader, store, cart := newTestLoader(t, fb, fp)

	loaded, err := loader.Load(context.Background(), cart.ID, LoadRequest{SchoolID: 1, ClassID: 2})
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 2)
	assert.Equal(t, "Math", loaded.Lines[0].Title)
	assert.Equal(t, KindBook, loaded.Lines[0].Kind)
	assert.Equal(t, "Notebook", loaded.Lines[1].Title)
	assert.Equal(t, KindMaterial, loaded.Lines[1].Kind)
	assert.Equal(t, "V", loaded.Lines[1].ClassName)

	totals := loaded.Totals()
	assert.Equal(t, 260.0, totals.Subtotal)
	assert.Equal(t, 260.0, totals.Total)
	assert.Equal(t, 260.0, totals.Paid, "full payment assumed on load")
	assert.Equal(t, 0.0, totals.Balance)

	// Operator lowers paid, then overpays; clamping holds both ways.
	loaded, err = store.Save(context.Background(), withPaid(loaded, 100))
	require.NoError(t, err)
	assert.Equal(t, 160.0, loaded.Totals().Balance)

	loaded, err = store.Save(context.Background(), withPaid(loaded, 500))
	require.NoError(t, err)
	assert.Equal(t, 260.0, loaded.Totals().Paid)
	assert.Equal(t, 0.0, loaded.Totals().Balance)
}

func withPaid(c Cart, amount float64) Cart {
	c.SetPaid(amount)
	return c
}
