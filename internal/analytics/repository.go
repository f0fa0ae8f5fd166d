package analytics

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Summary(ctx context.Context, r Range) (Summary, error)
	DailyTrend(ctx context.Context, r Range) ([]TrendPoint, error)
	TopBundles(ctx context.Context, r Range, limit int) ([]TopBundle, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func rangeClause(r Range, args *[]any) string {
	clause := ""
	if !r.From.IsZero() {
		*args = append(*args, r.From)
		clause += ` AND s.sold_at >= $` + strconv.Itoa(len(*args))
	}
	if !r.To.IsZero() {
		*args = append(*args, r.To)
		clause += ` AND s.sold_at < $` + strconv.Itoa(len(*args))
	}
	if r.SchoolID != nil {
		*args = append(*args, *r.SchoolID)
		clause += ` AND s.sold_to_type = 'SCHOOL' AND s.sold_to_id = $` + strconv.Itoa(len(*args))
	}
	return clause
}

func (r *repository) Summary(ctx context.Context, rng Range) (Summary, error) {
	args := []any{}
	clause := rangeClause(rng, &args)

	var s Summary
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(s.total), 0), COALESCE(SUM(s.paid), 0), COALESCE(SUM(s.balance), 0), COUNT(*)
		 FROM sales s WHERE 1=1`+clause, args...,
	).Scan(&s.Revenue, &s.Paid, &s.Balance, &s.SaleCount)
	return s, err
}

func (r *repository) DailyTrend(ctx context.Context, rng Range) ([]TrendPoint, error) {
	args := []any{}
	clause := rangeClause(rng, &args)

	rows, err := r.db.Query(ctx,
		`SELECT to_char(s.sold_at::date, 'YYYY-MM-DD'), COALESCE(SUM(s.total), 0), COUNT(*)
		 FROM sales s WHERE 1=1`+clause+`
		 GROUP BY s.sold_at::date ORDER BY s.sold_at::date ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Date, &p.Revenue, &p.SaleCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) TopBundles(ctx context.Context, rng Range, limit int) ([]TopBundle, error) {
	if limit <= 0 {
		limit = 10
	}
	args := []any{}
	clause := rangeClause(rng, &args)
	args = append(args, limit)

	rows, err := r.db.Query(ctx,
		`SELECT b.id, sc.name, COALESCE(c.name, b.class_name), b.session,
		        COUNT(s.id), COALESCE(SUM(s.total), 0)
		 FROM sales s
		 JOIN bundles b ON b.id = s.bundle_id
		 JOIN schools sc ON sc.id = b.school_id
		 LEFT JOIN classes c ON c.id = b.class_id
		 WHERE s.bundle_id IS NOT NULL`+clause+`
		 GROUP BY b.id, sc.name, COALESCE(c.name, b.class_name), b.session
		 ORDER BY SUM(s.total) DESC
		 LIMIT $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopBundle
	for rows.Next() {
		var t TopBundle
		if err := rows.Scan(&t.BundleID, &t.SchoolName, &t.ClassName, &t.Session, &t.SaleCount, &t.Revenue); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
