package dispatches

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
	SchoolID *int64
	BundleID *int64
	Status   string
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Dispatch, error)
	Get(ctx context.Context, id int64) (Dispatch, error)
	Create(ctx context.Context, d Dispatch) (Dispatch, error)
	Update(ctx context.Context, id int64, d Dispatch) error
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status string, deliveredAt *time.Time) error
	Challan(ctx context.Context, id int64) (ChallanData, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const dispatchColumns = `id, bundle_id, school_id, distributor_id, transport_id, challan_no, vehicle_no, qty, status, dispatched_at, delivered_at, notes, created_at, updated_at`

func scanDispatch(row pgx.Row) (Dispatch, error) {
	var d Dispatch
	err := row.Scan(&d.ID, &d.BundleID, &d.SchoolID, &d.DistributorID, &d.TransportID, &d.ChallanNo, &d.VehicleNo, &d.Qty, &d.Status, &d.DispatchedAt, &d.DeliveredAt, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Dispatch{}, httpx.ErrNotFound
	}
	return d, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Dispatch, error) {
	query := `SELECT ` + dispatchColumns + ` FROM bundle_dispatches WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.SchoolID != nil {
		argCount++
		query += ` AND school_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.SchoolID)
	}
	if filters.BundleID != nil {
		argCount++
		query += ` AND bundle_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.BundleID)
	}
	if filters.Status != "" {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	query += ` ORDER BY dispatched_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Dispatch
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Dispatch, error) {
	return scanDispatch(r.db.QueryRow(ctx, `SELECT `+dispatchColumns+` FROM bundle_dispatches WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, d Dispatch) (Dispatch, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO bundle_dispatches (bundle_id, school_id, distributor_id, transport_id, challan_no, vehicle_no, qty, status, dispatched_at, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING id`,
		d.BundleID, d.SchoolID, d.DistributorID, d.TransportID, d.ChallanNo, d.VehicleNo, d.Qty, d.Status, d.DispatchedAt, d.Notes, now,
	).Scan(&d.ID)
	if err != nil {
		return Dispatch{}, err
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	return d, nil
}

func (r *repository) Update(ctx context.Context, id int64, d Dispatch) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bundle_dispatches SET bundle_id = $1, school_id = $2, distributor_id = $3, transport_id = $4, challan_no = $5, vehicle_no = $6, qty = $7, dispatched_at = $8, notes = $9, updated_at = $10 WHERE id = $11`,
		d.BundleID, d.SchoolID, d.DistributorID, d.TransportID, d.ChallanNo, d.VehicleNo, d.Qty, d.DispatchedAt, d.Notes, time.Now(), id,
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
	tag, err := r.db.Exec(ctx, `DELETE FROM bundle_dispatches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status string, deliveredAt *time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bundle_dispatches SET status = $1, delivered_at = $2, updated_at = $3 WHERE id = $4`,
		status, deliveredAt, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Challan(ctx context.Context, id int64) (ChallanData, error) {
	var data ChallanData
	d, err := scanDispatch(r.db.QueryRow(ctx, `SELECT `+dispatchColumns+` FROM bundle_dispatches WHERE id = $1`, id))
	if err != nil {
		return ChallanData{}, err
	}
	data.Dispatch = d

	err = r.db.QueryRow(ctx,
		`SELECT s.name, s.address,
		        COALESCE(dt.name, ''), COALESCE(t.name, ''),
		        b.session, COALESCE(c.name, b.class_name)
		 FROM bundle_dispatches bd
		 JOIN schools s ON s.id = bd.school_id
		 JOIN bundles b ON b.id = bd.bundle_id
		 LEFT JOIN classes c ON c.id = b.class_id
		 LEFT JOIN distributors dt ON dt.id = bd.distributor_id
		 LEFT JOIN transports t ON t.id = bd.transport_id
		 WHERE bd.id = $1`, id,
	).Scan(&data.SchoolName, &data.SchoolAddress, &data.DistributorName, &data.TransportName, &data.BundleSession, &data.BundleClass)
	if err != nil {
		return ChallanData{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT COALESCE(bk.title, p.name), bi.qty
		 FROM bundle_items bi
		 JOIN products p ON p.id = bi.product_id
		 LEFT JOIN books bk ON bk.id = p.book_id
		 WHERE bi.bundle_id = $1 ORDER BY bi.sort_order ASC, bi.id ASC`, d.BundleID)
	if err != nil {
		return ChallanData{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var it ChallanItem
		if err := rows.Scan(&it.Title, &it.Qty); err != nil {
			return ChallanData{}, err
		}
		data.Items = append(data.Items, it)
	}
	return data, rows.Err()
}
