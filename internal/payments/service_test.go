package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type mockRepo struct {
	payments []Payment
	entries  []LedgerEntry
}

func (m *mockRepo) Create(_ context.Context, p Payment) (Payment, error) {
	p.ID = int64(len(m.payments) + 1)
	m.payments = append(m.payments, p)
	return p, nil
}

func (m *mockRepo) List(_ context.Context, _ int64) ([]Payment, error) {
	return m.payments, nil
}

func (m *mockRepo) LedgerEntries(_ context.Context, _ int64) ([]LedgerEntry, error) {
	return m.entries, nil
}

func f(v float64) *float64 { return &v }

func TestReconcilePercentDerivesAmount(t *testing.T) {
	percent, amount, err := ReconcileDiscount(1000, Discount{Percent: f(10)})
	require.NoError(t, err)
	assert.Equal(t, 10.0, percent)
	assert.Equal(t, 100.0, amount)
}

func TestReconcileAmountDerivesPercent(t *testing.T) {
	percent, amount, err := ReconcileDiscount(1000, Discount{Amount: f(50)})
	require.NoError(t, err)
	assert.Equal(t, 5.0, percent)
	assert.Equal(t, 50.0, amount)
}

func TestReconcileBothRejected(t *testing.T) {
	_, _, err := ReconcileDiscount(1000, Discount{Percent: f(10), Amount: f(50)})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReconcileBounds(t *testing.T) {
	_, _, err := ReconcileDiscount(1000, Discount{Percent: f(120)})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, _, err = ReconcileDiscount(1000, Discount{Amount: f(1200)})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	percent, amount, err := ReconcileDiscount(1000, Discount{})
	require.NoError(t, err)
	assert.Zero(t, percent)
	assert.Zero(t, amount)
}

func TestCreateStoresReconciledDiscount(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreateRequest{
		SupplierID: 3,
		Amount:     1000,
		Discount:   Discount{Percent: f(10)},
		Mode:       "NEFT",
		PaidOn:     "2026-08-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.DiscountAmount)
	assert.Equal(t, 10.0, p.DiscountPercent)
	assert.Equal(t, "2026-08-01", p.PaidOn.Format("2006-01-02"))
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&mockRepo{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Amount: 100})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, CreateRequest{SupplierID: 1, Amount: 0})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, CreateRequest{SupplierID: 1, Amount: 100, PaidOn: "01-08-2026"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestLedgerRunningBalance(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC) }
	repo := &mockRepo{entries: []LedgerEntry{
		{Date: day(1), Kind: EntryInvoice, Ref: "PO #1", Debit: 5000},
		{Date: day(5), Kind: EntryPayment, Ref: "NEFT-77", Credit: 2000},
		{Date: day(9), Kind: EntryInvoice, Ref: "PO #2", Debit: 1200.5},
		{Date: day(12), Kind: EntryPayment, Ref: "Payment #2", Credit: 4200.5},
	}}
	svc := NewService(repo)

	ledger, err := svc.Ledger(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, ledger.Entries, 4)
	assert.Equal(t, 5000.0, ledger.Entries[0].Balance)
	assert.Equal(t, 3000.0, ledger.Entries[1].Balance)
	assert.Equal(t, 4200.5, ledger.Entries[2].Balance)
	assert.Equal(t, 0.0, ledger.Entries[3].Balance)
	assert.Equal(t, 0.0, ledger.Balance)
}
