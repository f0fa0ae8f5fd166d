package schools

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
	List(ctx context.Context, filters shared.ListFilters) ([]School, int, error)
	Get(ctx context.Context, id int64) (School, error)
	GetByName(ctx context.Context, name string) (School, error)
	Create(ctx context.Context, school School) (School, error)
	Update(ctx context.Context, id int64, school School) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const schoolColumns = `id, name, address, city, phone, email, contact_person, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]School, int, error) {
	query := `SELECT ` + schoolColumns + ` FROM schools WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM schools WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		cond := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR city ILIKE $` + strconv.Itoa(argCount) + `)`
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

	query += " ORDER BY " + sortOrder(filters.SortBy, filters.SortDir)
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

	var schools []School
	for rows.Next() {
		var s School
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.Phone, &s.Email, &s.ContactPerson, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		schools = append(schools, s)
	}
	return schools, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (School, error) {
	var s School
	err := r.db.QueryRow(ctx, `SELECT `+schoolColumns+` FROM schools WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.Phone, &s.Email, &s.ContactPerson, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return School{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *repository) GetByName(ctx context.Context, name string) (School, error) {
	var s School
	err := r.db.QueryRow(ctx, `SELECT `+schoolColumns+` FROM schools WHERE lower(name) = lower($1)`, name).
		Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.Phone, &s.Email, &s.ContactPerson, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return School{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, school School) (School, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO schools (name, address, city, phone, email, contact_person, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`,
		school.Name, school.Address, school.City, school.Phone, school.Email, school.ContactPerson, school.IsActive, now,
	).Scan(&school.ID)
	if err != nil {
		return School{}, mapDBError(err)
	}
	school.CreatedAt = now
	school.UpdatedAt = now
	return school, nil
}

func (r *repository) Update(ctx context.Context, id int64, school School) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE schools SET name = $1, address = $2, city = $3, phone = $4, email = $5, contact_person = $6, is_active = $7, updated_at = $8 WHERE id = $9`,
		school.Name, school.Address, school.City, school.Phone, school.Email, school.ContactPerson, school.IsActive, time.Now(), id,
	)
	if err != nil {
		return mapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM schools WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func mapDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "city":
		return "city " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
