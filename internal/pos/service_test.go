package pos

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpost-erp/bookpost/internal/catalog"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
	"github.com/bookpost-erp/bookpost/report"
)

type fakeSales struct {
	nextID int64
	sales  map[int64]Sale
}

func newFakeSales() *fakeSales {
	return &fakeSales{nextID: 100, sales: make(map[int64]Sale)}
}

func (f *fakeSales) Create(_ context.Context, sale Sale) (int64, error) {
	f.nextID++
	sale.ID = f.nextID
	f.sales[sale.ID] = sale
	return sale.ID, nil
}

func (f *fakeSales) Get(_ context.Context, id int64) (Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return Sale{}, httpx.ErrNotFound
	}
	return s, nil
}

func (f *fakeSales) List(_ context.Context, _ SaleFilters) ([]Sale, error) {
	out := make([]Sale, 0, len(f.sales))
	for _, s := range f.sales {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSales) ReceiptInfo(_ context.Context, _ Sale) (ReceiptInfo, error) {
	return ReceiptInfo{SchoolName: "Green Valley", CompanyName: "BookPost"}, nil
}

type fakeRenderer struct {
	calls int
}

func (f *fakeRenderer) RenderHTMLSized(_ context.Context, _ string, _ report.PageOptions) ([]byte, error) {
	f.calls++
	return []byte("%PDF-fake"), nil
}

func newTestService(t *testing.T) (*Service, *fakeSales, *fakeRenderer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sales := newFakeSales()
	renderer := &fakeRenderer{}
	store := NewStore(rdb)
	products := &fakeProducts{products: map[int64]catalog.Product{
		1: bookProduct(1, "Math"),
		2: materialProduct(2, "Notebook"),
	}}
	loader := NewLoader(&fakeBundles{}, products, &fakeClasses{}, store)
	return NewService(sales, products, store, loader, renderer, rdb), sales, renderer, mr
}

func schoolID(v int64) *int64 { return &v }

func TestCheckoutRecomputesTotals(t *testing.T) {
	svc, sales, _, _ := newTestService(t)

	result, err := svc.Checkout(context.Background(), CheckoutRequest{
		SoldToType: SoldToSchool,
		SoldToID:   schoolID(3),
		PaidAmount: 9999, // client-side figure is not trusted
		Items: []CheckoutItem{
			{ProductID: 1, Qty: 2, UnitPrice: 100, Include: true},
			{ProductID: 2, Qty: 3, UnitPrice: 20, Include: true},
		},
	})
	require.NoError(t, err)
	assert.Greater(t, result.SaleID, int64(0))
	assert.Equal(t, 260.0, result.Totals.Total)
	assert.Equal(t, 260.0, result.Totals.Paid, "paid clamps server-side too")

	stored := sales.sales[result.SaleID]
	assert.Equal(t, 260.0, stored.Total)
	assert.Equal(t, "Math", stored.Items[0].Title)
	assert.Equal(t, 200.0, stored.Items[0].LineTotal)
}

func TestCheckoutExcludedLineBillsNothing(t *testing.T) {
	svc, sales, _, _ := newTestService(t)

	result, err := svc.Checkout(context.Background(), CheckoutRequest{
		SoldToType: SoldToWalkIn,
		PaidAmount: 200,
		Items: []CheckoutItem{
			{ProductID: 1, Qty: 2, UnitPrice: 100, Include: true},
			{ProductID: 2, Qty: 3, UnitPrice: 20, Include: false},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, result.Totals.Total)

	stored := sales.sales[result.SaleID]
	require.Len(t, stored.Items, 2, "excluded lines are kept for the record")
	assert.Equal(t, 0.0, stored.Items[1].LineTotal)
}

func TestCheckoutValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Checkout(ctx, CheckoutRequest{SoldToType: "OTHER"})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Checkout(ctx, CheckoutRequest{SoldToType: SoldToSchool})
	assert.ErrorIs(t, err, httpx.ErrValidation, "school sale needs a school")

	_, err = svc.Checkout(ctx, CheckoutRequest{SoldToType: SoldToWalkIn})
	assert.ErrorIs(t, err, httpx.ErrValidation, "empty items")

	_, err = svc.Checkout(ctx, CheckoutRequest{
		SoldToType: SoldToWalkIn,
		Items:      []CheckoutItem{{ProductID: 0, Qty: 1}},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestPaymentModeDerivation(t *testing.T) {
	assert.Equal(t, "UPI", paymentMode("UPI", Totals{Total: 100, Paid: 100}))
	assert.Equal(t, PaymentCash, paymentMode("", Totals{Total: 100, Paid: 100}))
	assert.Equal(t, PaymentPartial, paymentMode("", Totals{Total: 100, Paid: 40}))
	assert.Equal(t, PaymentCredit, paymentMode("", Totals{Total: 100, Paid: 0}))
}

func TestReceiptCachesForSixtySeconds(t *testing.T) {
	svc, _, renderer, mr := newTestService(t)
	ctx := context.Background()

	result, err := svc.Checkout(ctx, CheckoutRequest{
		SoldToType: SoldToWalkIn,
		PaidAmount: 100,
		Items:      []CheckoutItem{{ProductID: 1, Qty: 1, UnitPrice: 100, Include: true}},
	})
	require.NoError(t, err)

	pdf, err := svc.Receipt(ctx, result.SaleID, "a5")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, 1, renderer.calls)

	_, err = svc.Receipt(ctx, result.SaleID, "a5")
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls, "second open within the window hits the cache")

	mr.FastForward(61 * time.Second)
	_, err = svc.Receipt(ctx, result.SaleID, "a5")
	require.NoError(t, err)
	assert.Equal(t, 2, renderer.calls, "cache expires after a minute")
}
