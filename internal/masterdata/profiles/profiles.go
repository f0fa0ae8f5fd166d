// Package profiles manages company billing profiles. Exactly one profile is
// the default at any time; receipts and challans print its letterhead.
package profiles

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
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookpost-erp/bookpost/internal/masterdata/shared"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	GSTIN     string    `json:"gstin"`
	BankName  string    `json:"bank_name"`
	BankAcct  string    `json:"bank_account"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository interface {
	List(ctx context.Context) ([]Profile, error)
	Get(ctx context.Context, id int64) (Profile, error)
	GetDefault(ctx context.Context) (Profile, error)
	Create(ctx context.Context, p Profile) (Profile, error)
	Update(ctx context.Context, id int64, p Profile) error
	Delete(ctx context.Context, id int64) error
	SetDefault(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, name, address, phone, email, gstin, bank_name, bank_account, is_default, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM company_profiles ORDER BY is_default DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.Phone, &p.Email, &p.GSTIN, &p.BankName, &p.BankAcct, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Profile, error) {
	var p Profile
	err := r.db.QueryRow(ctx, `SELECT `+columns+` FROM company_profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Address, &p.Phone, &p.Email, &p.GSTIN, &p.BankName, &p.BankAcct, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *repository) GetDefault(ctx context.Context) (Profile, error) {
	var p Profile
	err := r.db.QueryRow(ctx, `SELECT `+columns+` FROM company_profiles WHERE is_default ORDER BY id LIMIT 1`).
		Scan(&p.ID, &p.Name, &p.Address, &p.Phone, &p.Email, &p.GSTIN, &p.BankName, &p.BankAcct, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, p Profile) (Profile, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO company_profiles (name, address, phone, email, gstin, bank_name, bank_account, is_default, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`,
		p.Name, p.Address, p.Phone, p.Email, p.GSTIN, p.BankName, p.BankAcct, p.IsDefault, now,
	).Scan(&p.ID)
	if err != nil {
		return Profile{}, err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *repository) Update(ctx context.Context, id int64, p Profile) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE company_profiles SET name = $1, address = $2, phone = $3, email = $4, gstin = $5, bank_name = $6, bank_account = $7, updated_at = $8 WHERE id = $9`,
		p.Name, p.Address, p.Phone, p.Email, p.GSTIN, p.BankName, p.BankAcct, time.Now(), id,
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
	tag, err := r.db.Exec(ctx, `DELETE FROM company_profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// SetDefault flips the default flag to the given profile in one transaction.
func (r *repository) SetDefault(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE company_profiles SET is_default = FALSE WHERE is_default`); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `UPDATE company_profiles SET is_default = TRUE, updated_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return tx.Commit(ctx)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Profile, error) {
	if id <= 0 {
		return Profile{}, fmt.Errorf("%w: invalid profile ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) GetDefault(ctx context.Context) (Profile, error) {
	return s.repo.GetDefault(ctx)
}

func (s *Service) Create(ctx context.Context, p Profile) (Profile, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Profile{}, fmt.Errorf("%w: profile name is required", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id int64, p Profile) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid profile ID", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: profile name is required", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid profile ID", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) SetDefault(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid profile ID", httpx.ErrValidation)
	}
	return s.repo.SetDefault(ctx, id)
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
	r.Get("/default", h.ShowDefault)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Patch("/{id}/toggle", h.Toggle)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list profiles failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load company profiles")
		return
	}
	if profiles == nil {
		profiles = []Profile{}
	}
	httpx.List(w, profiles, len(profiles), shared.DefaultPage, len(profiles))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid profile ID")
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load company profile")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) ShowDefault(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetDefault(r.Context())
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load default profile")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p Profile
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	created, err := h.service.Create(r.Context(), p)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to create company profile")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid profile ID")
		return
	}
	var p Profile
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.service.Update(r.Context(), id, p); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to update company profile")
		return
	}
	p.ID = id
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid profile ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to delete company profile")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid profile ID")
		return
	}
	if err := h.service.SetDefault(r.Context(), id); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to set default profile")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": id, "is_default": true})
}
