package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/bookpost-erp/bookpost/internal/money"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateRequest is a payment entry. The discount arrives as percent or
// fixed amount, never both.
type CreateRequest struct {
	SupplierID int64   `json:"supplier_id"`
	Amount     float64 `json:"amount"`
	Discount
	Mode   string `json:"mode,omitempty"`
	Ref    string `json:"ref,omitempty"`
	Notes  string `json:"notes,omitempty"`
	PaidOn string `json:"paid_on,omitempty"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Payment, error) {
	if req.SupplierID <= 0 {
		return Payment{}, fmt.Errorf("%w: supplier is required", httpx.ErrValidation)
	}
	if req.Amount <= 0 {
		return Payment{}, fmt.Errorf("%w: amount must be positive", httpx.ErrValidation)
	}
	percent, amount, err := ReconcileDiscount(req.Amount, req.Discount)
	if err != nil {
		return Payment{}, err
	}

	paidOn := time.Now()
	if req.PaidOn != "" {
		parsed, err := time.Parse("2006-01-02", req.PaidOn)
		if err != nil {
			return Payment{}, fmt.Errorf("%w: paid_on must be YYYY-MM-DD", httpx.ErrValidation)
		}
		paidOn = parsed
	}

	return s.repo.Create(ctx, Payment{
		SupplierID:      req.SupplierID,
		Amount:          money.Round2(req.Amount),
		DiscountPercent: percent,
		DiscountAmount:  amount,
		Mode:            req.Mode,
		Ref:             req.Ref,
		Notes:           req.Notes,
		PaidOn:          paidOn,
	})
}

func (s *Service) List(ctx context.Context, supplierID int64) ([]Payment, error) {
	if supplierID <= 0 {
		return nil, fmt.Errorf("%w: supplier is required", httpx.ErrValidation)
	}
	return s.repo.List(ctx, supplierID)
}

// Ledger builds the running-balance statement for a supplier.
func (s *Service) Ledger(ctx context.Context, supplierID int64) (Ledger, error) {
	if supplierID <= 0 {
		return Ledger{}, fmt.Errorf("%w: supplier is required", httpx.ErrValidation)
	}
	entries, err := s.repo.LedgerEntries(ctx, supplierID)
	if err != nil {
		return Ledger{}, err
	}

	var balance float64
	for i := range entries {
		balance = money.Round2(balance + entries[i].Debit - entries[i].Credit)
		entries[i].Balance = balance
	}
	return Ledger{SupplierID: supplierID, Entries: entries, Balance: balance}, nil
}
