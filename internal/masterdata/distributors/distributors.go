// Package distributors manages the field distributors who carry bundles from
// the warehouse to schools.
package distributors

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

type Distributor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Area      string    `json:"area"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Distributor, int, error)
	Get(ctx context.Context, id int64) (Distributor, error)
	Create(ctx context.Context, d Distributor) (Distributor, error)
	Update(ctx context.Context, id int64, d Distributor) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, name, phone, email, area, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Distributor, int, error) {
	query := `SELECT ` + columns + ` FROM distributors WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM distributors WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		cond := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR area ILIKE $` + strconv.Itoa(argCount) + `)`
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

	var out []Distributor
	for rows.Next() {
		var d Distributor
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.Email, &d.Area, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Distributor, error) {
	var d Distributor
	err := r.db.QueryRow(ctx, `SELECT `+columns+` FROM distributors WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, &d.Phone, &d.Email, &d.Area, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Distributor{}, httpx.ErrNotFound
	}
	return d, err
}

func (r *repository) Create(ctx context.Context, d Distributor) (Distributor, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO distributors (name, phone, email, area, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`,
		d.Name, d.Phone, d.Email, d.Area, d.IsActive, now,
	).Scan(&d.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Distributor{}, httpx.ErrDuplicate
		}
		return Distributor{}, err
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	return d, nil
}

func (r *repository) Update(ctx context.Context, id int64, d Distributor) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE distributors SET name = $1, phone = $2, email = $3, area = $4, is_active = $5, updated_at = $6 WHERE id = $7`,
		d.Name, d.Phone, d.Email, d.Area, d.IsActive, time.Now(), id,
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
	tag, err := r.db.Exec(ctx, `DELETE FROM distributors WHERE id = $1`, id)
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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Distributor, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Distributor, error) {
	if id <= 0 {
		return Distributor{}, fmt.Errorf("%w: invalid distributor ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, d Distributor) (Distributor, error) {
	if strings.TrimSpace(d.Name) == "" {
		return Distributor{}, fmt.Errorf("%w: distributor name is required", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) Update(ctx context.Context, id int64, d Distributor) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid distributor ID", httpx.ErrValidation)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: distributor name is required", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, d)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid distributor ID", httpx.ErrValidation)
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
	r.Get("/export", h.Export)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseFilters(r)
	distributors, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list distributors failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load distributors")
		return
	}
	if distributors == nil {
		distributors = []Distributor{}
	}
	httpx.List(w, distributors, total, filters.Page, filters.Limit)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid distributor ID")
		return
	}
	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load distributor")
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var d Distributor
	if err := httpx.DecodeJSON(r, &d); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	created, err := h.service.Create(r.Context(), d)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to create distributor")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid distributor ID")
		return
	}
	var d Distributor
	if err := httpx.DecodeJSON(r, &d); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.service.Update(r.Context(), id, d); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to update distributor")
		return
	}
	d.ID = id
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid distributor ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to delete distributor")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	distributors, _, err := h.service.List(r.Context(), shared.ListFilters{})
	if err != nil {
		h.logger.Error("export distributors failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to export distributors")
		return
	}
	rows := make([][]any, 0, len(distributors))
	for _, d := range distributors {
		rows = append(rows, []any{d.Name, d.Phone, d.Email, d.Area, d.IsActive})
	}
	header := []string{"Name", "Phone", "Email", "Area", "Active"}
	if err := shared.WriteSheet(w, "distributors", header, rows); err != nil {
		h.logger.Error("write distributors sheet failed", "error", err)
	}
}
