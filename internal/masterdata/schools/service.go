package schools

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookpost-erp/bookpost/internal/masterdata/shared"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]School, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (School, error) {
	if id <= 0 {
		return School{}, fmt.Errorf("%w: invalid school ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, school School) (School, error) {
	if err := s.validate(school); err != nil {
		return School{}, err
	}
	return s.repo.Create(ctx, school)
}

func (s *Service) Update(ctx context.Context, id int64, school School) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid school ID", httpx.ErrValidation)
	}
	if err := s.validate(school); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, school)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid school ID", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

// Import upserts rows by school name. Row errors are collected, not fatal.
// Expected columns: name, address, city, phone, email, contact person.
func (s *Service) Import(ctx context.Context, rows [][]string) (shared.ImportResult, error) {
	var result shared.ImportResult
	for i, row := range rows {
		school := School{IsActive: true}
		if len(row) > 0 {
			school.Name = row[0]
		}
		if len(row) > 1 {
			school.Address = row[1]
		}
		if len(row) > 2 {
			school.City = row[2]
		}
		if len(row) > 3 {
			school.Phone = row[3]
		}
		if len(row) > 4 {
			school.Email = row[4]
		}
		if len(row) > 5 {
			school.ContactPerson = row[5]
		}

		if err := s.validate(school); err != nil {
			result.AddRowError(i+2, err)
			continue
		}

		existing, err := s.repo.GetByName(ctx, school.Name)
		switch {
		case err == nil:
			school.IsActive = existing.IsActive
			if err := s.repo.Update(ctx, existing.ID, school); err != nil {
				result.AddRowError(i+2, err)
				continue
			}
			result.Updated++
		case errors.Is(err, httpx.ErrNotFound):
			if _, err := s.repo.Create(ctx, school); err != nil {
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
