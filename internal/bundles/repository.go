package bundles

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookpost-erp/bookpost/internal/platform/db"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

// ListFilters narrows bundle listings. The POS loader queries by school and
// class with a small limit.
type ListFilters struct {
	SchoolID *int64
	ClassID  *int64
	Session  string
	Status   string
	Limit    int
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Bundle, error)
	Get(ctx context.Context, id int64) (Bundle, error)
	Create(ctx context.Context, bundle Bundle) (Bundle, error)
	Update(ctx context.Context, id int64, bundle Bundle) error
	Delete(ctx context.Context, id int64) error
	ReplaceItems(ctx context.Context, bundleID int64, items []BundleItem) error
	InsertItem(ctx context.Context, item BundleItem) (BundleItem, error)
	DeleteItem(ctx context.Context, bundleID, itemID int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const bundleColumns = `id, school_id, class_id, class_name, session, status, is_active, sort_order, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Bundle, error) {
	query := `SELECT ` + bundleColumns + ` FROM bundles WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.SchoolID != nil {
		argCount++
		query += ` AND school_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.SchoolID)
	}
	if filters.ClassID != nil {
		argCount++
		query += ` AND class_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.ClassID)
	}
	if filters.Session != "" {
		argCount++
		query += ` AND session = $` + strconv.Itoa(argCount)
		args = append(args, filters.Session)
	}
	if filters.Status != "" {
		argCount++
		query += ` AND upper(status) = upper($` + strconv.Itoa(argCount) + `)`
		args = append(args, filters.Status)
	}

	query += ` ORDER BY sort_order ASC, id ASC`
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

	var bundles []Bundle
	for rows.Next() {
		var b Bundle
		if err := rows.Scan(&b.ID, &b.SchoolID, &b.ClassID, &b.ClassName, &b.Session, &b.Status, &b.IsActive, &b.SortOrder, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Bundle, error) {
	var b Bundle
	err := r.db.QueryRow(ctx, `SELECT `+bundleColumns+` FROM bundles WHERE id = $1`, id).
		Scan(&b.ID, &b.SchoolID, &b.ClassID, &b.ClassName, &b.Session, &b.Status, &b.IsActive, &b.SortOrder, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Bundle{}, httpx.ErrNotFound
	}
	if err != nil {
		return Bundle{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, bundle_id, product_id, qty, mrp, sale_price, is_optional, sort_order
		 FROM bundle_items WHERE bundle_id = $1 ORDER BY sort_order ASC, id ASC`, id)
	if err != nil {
		return Bundle{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var it BundleItem
		if err := rows.Scan(&it.ID, &it.BundleID, &it.ProductID, &it.Qty, &it.MRP, &it.SalePrice, &it.IsOptional, &it.SortOrder); err != nil {
			return Bundle{}, err
		}
		b.Items = append(b.Items, it)
	}
	return b, rows.Err()
}

func (r *repository) Create(ctx context.Context, bundle Bundle) (Bundle, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO bundles (school_id, class_id, class_name, session, status, is_active, sort_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`,
		bundle.SchoolID, bundle.ClassID, bundle.ClassName, bundle.Session, bundle.Status, bundle.IsActive, bundle.SortOrder, now,
	).Scan(&bundle.ID)
	if err != nil {
		return Bundle{}, err
	}
	bundle.CreatedAt = now
	bundle.UpdatedAt = now
	return bundle, nil
}

func (r *repository) Update(ctx context.Context, id int64, bundle Bundle) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bundles SET school_id = $1, class_id = $2, class_name = $3, session = $4, status = $5, is_active = $6, sort_order = $7, updated_at = $8 WHERE id = $9`,
		bundle.SchoolID, bundle.ClassID, bundle.ClassName, bundle.Session, bundle.Status, bundle.IsActive, bundle.SortOrder, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bundles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// ReplaceItems swaps the bundle's whole item set in one transaction. The
// server performs the replace; the client never computes a diff.
func (r *repository) ReplaceItems(ctx context.Context, bundleID int64, items []BundleItem) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bundles WHERE id = $1)`, bundleID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return httpx.ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM bundle_items WHERE bundle_id = $1`, bundleID); err != nil {
			return err
		}
		for _, it := range items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO bundle_items (bundle_id, product_id, qty, mrp, sale_price, is_optional, sort_order)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				bundleID, it.ProductID, it.Qty, it.MRP, it.SalePrice, it.IsOptional, it.SortOrder,
			); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `UPDATE bundles SET updated_at = $1 WHERE id = $2`, time.Now(), bundleID); err != nil {
			return err
		}
		return nil
	})
}

func (r *repository) InsertItem(ctx context.Context, item BundleItem) (BundleItem, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO bundle_items (bundle_id, product_id, qty, mrp, sale_price, is_optional, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		item.BundleID, item.ProductID, item.Qty, item.MRP, item.SalePrice, item.IsOptional, item.SortOrder,
	).Scan(&item.ID)
	if err != nil {
		return BundleItem{}, err
	}
	return item, nil
}

func (r *repository) DeleteItem(ctx context.Context, bundleID, itemID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bundle_items WHERE bundle_id = $1 AND id = $2`, bundleID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
