package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Repository interface {
	Search(ctx context.Context, q string, limit int) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]Product, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productSelect = `
	SELECT p.id, p.type, p.name, p.uom, p.selling_price, p.rate, p.mrp, p.is_active,
	       b.id, b.title, b.subject, b.code, b.class_name
	FROM products p
	LEFT JOIN books b ON b.id = p.book_id`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p         Product
		bookID    *int64
		title     *string
		subject   *string
		code      *string
		className *string
	)
	err := row.Scan(&p.ID, &p.Type, &p.Name, &p.UOM, &p.SellingPrice, &p.Rate, &p.MRP, &p.IsActive,
		&bookID, &title, &subject, &code, &className)
	if err != nil {
		return Product{}, err
	}
	if bookID != nil {
		p.Book = &Book{ID: *bookID}
		if title != nil {
			p.Book.Title = *title
		}
		if subject != nil {
			p.Book.Subject = *subject
		}
		if code != nil {
			p.Book.Code = *code
		}
		if className != nil {
			p.Book.ClassName = *className
		}
	}
	return p, nil
}

func (r *repository) Search(ctx context.Context, q string, limit int) ([]Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	rows, err := r.db.Query(ctx,
		productSelect+`
		WHERE p.is_active AND (p.name ILIKE $1 OR b.title ILIKE $1 OR b.code ILIKE $1)
		ORDER BY p.name ASC LIMIT $2`,
		"%"+q+"%", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *repository) GetMany(ctx context.Context, ids []int64) (map[int64]Product, error) {
	out := make(map[int64]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, productSelect+` WHERE p.id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}
