// Package transports manages the transport operators used for dispatches.
package transports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookpost-erp/bookpost/internal/masterdata/shared"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Transport struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	VehicleNo string    `json:"vehicle_no"`
	Route     string    `json:"route"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Transport, int, error)
	Get(ctx context.Context, id int64) (Transport, error)
	Create(ctx context.Context, t Transport) (Transport, error)
	Update(ctx context.Context, id int64, t Transport) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, name, phone, vehicle_no, route, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Transport, int, error) {
	query := `SELECT ` + columns + ` FROM transports WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM transports WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		cond := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR vehicle_no ILIKE $` + strconv.Itoa(argCount) + `)`
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

	query += ` ORDER BY name ASC`
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

	var out []Transport
	for rows.Next() {
		var t Transport
		if err := rows.Scan(&t.ID, &t.Name, &t.Phone, &t.VehicleNo, &t.Route, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Transport, error) {
	var t Transport
	err := r.db.QueryRow(ctx, `SELECT `+columns+` FROM transports WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Phone, &t.VehicleNo, &t.Route, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transport{}, httpx.ErrNotFound
	}
	return t, err
}

func (r *repository) Create(ctx context.Context, t Transport) (Transport, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO transports (name, phone, vehicle_no, route, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`,
		t.Name, t.Phone, t.VehicleNo, t.Route, t.IsActive, now,
	).Scan(&t.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Transport{}, httpx.ErrDuplicate
		}
		return Transport{}, err
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return t, nil
}

func (r *repository) Update(ctx context.Context, id int64, t Transport) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE transports SET name = $1, phone = $2, vehicle_no = $3, route = $4, is_active = $5, updated_at = $6 WHERE id = $7`,
		t.Name, t.Phone, t.VehicleNo, t.Route, t.IsActive, time.Now(), id,
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
	tag, err := r.db.Exec(ctx, `DELETE FROM transports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Transport, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Transport, error) {
	if id <= 0 {
		return Transport{}, fmt.Errorf("%w: invalid transport ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, t Transport) (Transport, error) {
	if strings.TrimSpace(t.Name) == "" {
		return Transport{}, fmt.Errorf("%w: transport name is required", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, t)
}

func (s *Service) Update(ctx context.Context, id int64, t Transport) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid transport ID", httpx.ErrValidation)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: transport name is required", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, t)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid transport ID", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseFilters(r)
	transports, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list transports failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load transports")
		return
	}
	if transports == nil {
		transports = []Transport{}
	}
	httpx.List(w, transports, total, filters.Page, filters.Limit)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid transport ID")
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load transport")
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var t Transport
	if err := httpx.DecodeJSON(r, &t); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	created, err := h.service.Create(r.Context(), t)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to create transport")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid transport ID")
		return
	}
	var t Transport
	if err := httpx.DecodeJSON(r, &t); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.service.Update(r.Context(), id, t); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to update transport")
		return
	}
	t.ID = id
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid transport ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to delete transport")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
