package classes

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookpost-erp/bookpost/internal/masterdata/shared"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Class, int, error)
	Get(ctx context.Context, id int64) (Class, error)
	Create(ctx context.Context, class Class) (Class, error)
	Update(ctx context.Context, id int64, class Class) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const classColumns = `id, school_id, name, section, sort_order, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Class, int, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM classes WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.SchoolID != nil {
		argCount++
		cond := ` AND school_id = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, *filters.SchoolID)
	}
	if filters.Search != "" {
		argCount++
		cond := ` AND name ILIKE $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		argCount++
		cond := ` AND is_active = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, *filters.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY sort_order ASC, name ASC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var classes []Class
	for rows.Next() {
		var c Class
		if err := rows.Scan(&c.ID, &c.SchoolID, &c.Name, &c.Section, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		classes = append(classes, c)
	}
	return classes, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Class, error) {
	var c Class
	err := r.db.QueryRow(ctx, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id).
		Scan(&c.ID, &c.SchoolID, &c.Name, &c.Section, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Class{}, httpx.ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, class Class) (Class, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO classes (school_id, name, section, sort_order, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`,
		class.SchoolID, class.Name, class.Section, class.SortOrder, class.IsActive, now,
	).Scan(&class.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Class{}, httpx.ErrDuplicate
		}
		return Class{}, err
	}
	class.CreatedAt = now
	class.UpdatedAt = now
	return class, nil
}

func (r *repository) Update(ctx context.Context, id int64, class Class) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE classes SET school_id = $1, name = $2, section = $3, sort_order = $4, is_active = $5, updated_at = $6 WHERE id = $7`,
		class.SchoolID, class.Name, class.Section, class.SortOrder, class.IsActive, time.Now(), id,
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
	tag, err := r.db.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
