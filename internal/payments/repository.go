package payments

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookpost-erp/bookpost/internal/money"
)

type Repository interface {
	Create(ctx context.Context, p Payment) (Payment, error)
	List(ctx context.Context, supplierID int64) ([]Payment, error)
	LedgerEntries(ctx context.Context, supplierID int64) ([]LedgerEntry, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p Payment) (Payment, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO supplier_payments (supplier_id, amount, discount_percent, discount_amount, mode, ref, notes, paid_on, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		p.SupplierID, p.Amount, p.DiscountPercent, p.DiscountAmount, p.Mode, p.Ref, p.Notes, p.PaidOn, now,
	).Scan(&p.ID)
	if err != nil {
		return Payment{}, err
	}
	p.CreatedAt = now
	return p, nil
}

func (r *repository) List(ctx context.Context, supplierID int64) ([]Payment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, supplier_id, amount, discount_percent, discount_amount, mode, ref, notes, paid_on, created_at
		 FROM supplier_payments WHERE supplier_id = $1 ORDER BY paid_on DESC, id DESC`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.Amount, &p.DiscountPercent, &p.DiscountAmount, &p.Mode, &p.Ref, &p.Notes, &p.PaidOn, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LedgerEntries merges received publisher orders (invoices, valued at the
// product cost rate) and payments into one date-ordered statement without
// the running balance; the service computes that.
func (r *repository) LedgerEntries(ctx context.Context, supplierID int64) ([]LedgerEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT o.updated_at, 'INVOICE', 'PO #' || o.id,
		        SUM(oi.received_qty * COALESCE(p.rate, 0)), 0::numeric
		 FROM publisher_orders o
		 JOIN publisher_order_items oi ON oi.order_id = o.id
		 JOIN products p ON p.id = oi.product_id
		 WHERE o.supplier_id = $1 AND o.status <> 'CANCELLED'
		 GROUP BY o.id, o.updated_at
		 HAVING SUM(oi.received_qty) > 0
		 UNION ALL
		 SELECT sp.paid_on, 'PAYMENT', COALESCE(NULLIF(sp.ref, ''), 'Payment #' || sp.id),
		        0::numeric, sp.amount + sp.discount_amount
		 FROM supplier_payments sp
		 WHERE sp.supplier_id = $1
		 ORDER BY 1 ASC`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.Date, &e.Kind, &e.Ref, &e.Debit, &e.Credit); err != nil {
			return nil, err
		}
		e.Debit = money.Round2(e.Debit)
		e.Credit = money.Round2(e.Credit)
		out = append(out, e)
	}
	return out, rows.Err()
}
