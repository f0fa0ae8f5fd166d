package publisher

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type ListFilters struct {
	SupplierID *int64
	Session    string
	Status     string
}

type Repository interface {
	AggregateRequirements(ctx context.Context, supplierID int64, session string) ([]Requirement, error)
	Create(ctx context.Context, order Order) (Order, error)
	Get(ctx context.Context, id int64) (Order, error)
	List(ctx context.Context, filters ListFilters) ([]Order, error)
	Delete(ctx context.Context, id int64) error
	MarkSent(ctx context.Context, id int64, at time.Time) error
	ApplyReceive(ctx context.Context, id int64, status string, items []OrderItem) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// AggregateRequirements sums bundle item quantities for the supplier's
// products across the session's active bundles.
func (r *repository) AggregateRequirements(ctx context.Context, supplierID int64, session string) ([]Requirement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT bi.product_id, COALESCE(bk.title, p.name), SUM(bi.qty)::int
		 FROM bundle_items bi
		 JOIN bundles b ON b.id = bi.bundle_id AND b.is_active AND b.session = $2
		 JOIN products p ON p.id = bi.product_id AND p.supplier_id = $1
		 LEFT JOIN books bk ON bk.id = p.book_id
		 GROUP BY bi.product_id, COALESCE(bk.title, p.name)
		 ORDER BY COALESCE(bk.title, p.name) ASC`,
		supplierID, session,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Requirement
	for rows.Next() {
		var req Requirement
		if err := rows.Scan(&req.ProductID, &req.Title, &req.Qty); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, order Order) (Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	err = tx.QueryRow(ctx,
		`INSERT INTO publisher_orders (supplier_id, session, status, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`,
		order.SupplierID, order.Session, order.Status, order.Notes, now,
	).Scan(&order.ID)
	if err != nil {
		return Order{}, err
	}
	for i := range order.Items {
		it := &order.Items[i]
		it.OrderID = order.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO publisher_order_items (order_id, product_id, title, ordered_qty, received_qty, pending_qty)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			order.ID, it.ProductID, it.Title, it.OrderedQty, it.ReceivedQty, it.PendingQty,
		).Scan(&it.ID)
		if err != nil {
			return Order{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	return order, nil
}

const orderSelect = `
	SELECT o.id, o.supplier_id, s.name, COALESCE(s.email, ''), o.session, o.status, o.notes, o.sent_at, o.created_at, o.updated_at
	FROM publisher_orders o
	JOIN suppliers s ON s.id = o.supplier_id`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.SupplierID, &o.SupplierName, &o.SupplierEmail, &o.Session, &o.Status, &o.Notes, &o.SentAt, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, httpx.ErrNotFound
	}
	return o, err
}

func (r *repository) Get(ctx context.Context, id int64) (Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		return Order{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, product_id, title, ordered_qty, received_qty, pending_qty
		 FROM publisher_order_items WHERE order_id = $1 ORDER BY id ASC`, id)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Title, &it.OrderedQty, &it.ReceivedQty, &it.PendingQty); err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Order, error) {
	query := orderSelect + ` WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.SupplierID != nil {
		argCount++
		query += ` AND o.supplier_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.SupplierID)
	}
	if filters.Session != "" {
		argCount++
		query += ` AND o.session = $` + strconv.Itoa(argCount)
		args = append(args, filters.Session)
	}
	if filters.Status != "" {
		argCount++
		query += ` AND o.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	query += ` ORDER BY o.created_at DESC, o.id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM publisher_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE publisher_orders SET status = $1, sent_at = $2, updated_at = $2 WHERE id = $3`,
		StatusSent, at, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// ApplyReceive writes every item's received/pending quantities and the new
// status in one transaction.
func (r *repository) ApplyReceive(ctx context.Context, id int64, status string, items []OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, it := range items {
		tag, err := tx.Exec(ctx,
			`UPDATE publisher_order_items SET received_qty = $1, pending_qty = $2 WHERE id = $3 AND order_id = $4`,
			it.ReceivedQty, it.PendingQty, it.ID, id,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return httpx.ErrNotFound
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE publisher_orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
