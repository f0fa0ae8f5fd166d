package pos

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

// ReceiptInfo carries the names printed on a receipt besides the sale
// itself.
type ReceiptInfo struct {
	SchoolName   string
	CompanyName  string
	CompanyPhone string
	CompanyAddr  string
}

type SaleFilters struct {
	SchoolID *int64
	From     *time.Time
	To       *time.Time
	Limit    int
}

type SaleRepository interface {
	Create(ctx context.Context, sale Sale) (int64, error)
	Get(ctx context.Context, id int64) (Sale, error)
	List(ctx context.Context, filters SaleFilters) ([]Sale, error)
	ReceiptInfo(ctx context.Context, sale Sale) (ReceiptInfo, error)
}

type saleRepository struct {
	db *pgxpool.Pool
}

func NewSaleRepository(db *pgxpool.Pool) SaleRepository {
	return &saleRepository{db: db}
}

// Create persists the sale and its lines in one transaction.
func (r *saleRepository) Create(ctx context.Context, sale Sale) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO sales (sold_to_type, sold_to_id, bundle_id, class_name, payment_mode, subtotal, total, paid, balance, notes, sold_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		sale.SoldToType, sale.SoldToID, sale.BundleID, sale.ClassName, sale.PaymentMode,
		sale.Subtotal, sale.Total, sale.Paid, sale.Balance, sale.Notes, sale.SoldAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	for _, it := range sale.Items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO sale_items (sale_id, product_id, title, qty, unit_price, line_total, include)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, it.ProductID, it.Title, it.Qty, it.UnitPrice, it.LineTotal, it.Include,
		); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

const saleColumns = `id, sold_to_type, sold_to_id, bundle_id, class_name, payment_mode, subtotal, total, paid, balance, notes, sold_at`

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.SoldToType, &s.SoldToID, &s.BundleID, &s.ClassName, &s.PaymentMode,
		&s.Subtotal, &s.Total, &s.Paid, &s.Balance, &s.Notes, &s.SoldAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *saleRepository) Get(ctx context.Context, id int64) (Sale, error) {
	s, err := scanSale(r.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		return Sale{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, sale_id, product_id, title, qty, unit_price, line_total, include
		 FROM sale_items WHERE sale_id = $1 ORDER BY id ASC`, id)
	if err != nil {
		return Sale{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var it SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Title, &it.Qty, &it.UnitPrice, &it.LineTotal, &it.Include); err != nil {
			return Sale{}, err
		}
		s.Items = append(s.Items, it)
	}
	return s, rows.Err()
}

func (r *saleRepository) List(ctx context.Context, filters SaleFilters) ([]Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.SchoolID != nil {
		argCount++
		query += ` AND sold_to_type = 'SCHOOL' AND sold_to_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.SchoolID)
	}
	if filters.From != nil {
		argCount++
		query += ` AND sold_at >= $` + strconv.Itoa(argCount)
		args = append(args, *filters.From)
	}
	if filters.To != nil {
		argCount++
		query += ` AND sold_at < $` + strconv.Itoa(argCount)
		args = append(args, *filters.To)
	}
	query += ` ORDER BY sold_at DESC, id DESC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *saleRepository) ReceiptInfo(ctx context.Context, sale Sale) (ReceiptInfo, error) {
	var info ReceiptInfo
	err := r.db.QueryRow(ctx,
		`SELECT name, phone, address FROM company_profiles WHERE is_default ORDER BY id LIMIT 1`,
	).Scan(&info.CompanyName, &info.CompanyPhone, &info.CompanyAddr)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return ReceiptInfo{}, err
	}

	if sale.SoldToType == SoldToSchool && sale.SoldToID != nil {
		err := r.db.QueryRow(ctx, `SELECT name FROM schools WHERE id = $1`, *sale.SoldToID).Scan(&info.SchoolName)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return ReceiptInfo{}, err
		}
	}
	return info, nil
}
