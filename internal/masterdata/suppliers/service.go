package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bookpost-erp/bookpost/internal/masterdata/shared"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, fmt.Errorf("%w: invalid supplier ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	if err := s.validate(supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, supplier)
}

func (s *Service) Update(ctx context.Context, id int64, supplier Supplier) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid supplier ID", httpx.ErrValidation)
	}
	if err := s.validate(supplier); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, supplier)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid supplier ID", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

// Import upserts rows by (name, phone). Columns: name, address, email, phone, gstin.
func (s *Service) Import(ctx context.Context, rows [][]string) (shared.ImportResult, error) {
	var result shared.ImportResult
	for i, row := range rows {
		sup := Supplier{IsActive: true}
		if len(row) > 0 {
			sup.Name = row[0]
		}
		if len(row) > 1 {
			sup.Address = row[1]
		}
		if len(row) > 2 {
			sup.Email = row[2]
		}
		if len(row) > 3 {
			sup.Phone = row[3]
		}
		if len(row) > 4 {
			sup.GSTIN = row[4]
		}

		if err := s.validate(sup); err != nil {
			result.AddRowError(i+2, err)
			continue
		}

		existing, err := s.repo.GetByNamePhone(ctx, sup.Name, sup.Phone)
		switch {
		case err == nil:
			sup.IsActive = existing.IsActive
			if err := s.repo.Update(ctx, existing.ID, sup); err != nil {
				result.AddRowError(i+2, err)
				continue
			}
			result.Updated++
		case errors.Is(err, httpx.ErrNotFound):
			if _, err := s.repo.Create(ctx, sup); err != nil {
				result.AddRowError(i+2, err)
				continue
			}
			result.Created++
		default:
			return result, err
		}
	}
	return result, nil
}

func (s *Service) validate(sup Supplier) error {
	if strings.TrimSpace(sup.Name) == "" {
		return fmt.Errorf("%w: supplier name is required", httpx.ErrValidation)
	}
	return nil
}
