package classes

import (
	"context"
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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Class, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Class, error) {
	if id <= 0 {
		return Class{}, fmt.Errorf("%w: invalid class ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// ClassName resolves a class id to its display name for callers that only
// need the label.
func (s *Service) ClassName(ctx context.Context, id int64) (string, error) {
	class, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return class.Name, nil
}

func (s *Service) Create(ctx context.Context, class Class) (Class, error) {
	if err := s.validate(class); err != nil {
		return Class{}, err
	}
	return s.repo.Create(ctx, class)
}

func (s *Service) Update(ctx context.Context, id int64, class Class) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid class ID", httpx.ErrValidation)
	}
	if err := s.validate(class); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, class)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid class ID", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(class Class) error {
	if class.SchoolID <= 0 {
		return fmt.Errorf("%w: school is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(class.Name) == "" {
		return fmt.Errorf("%w: class name is required", httpx.ErrValidation)
	}
	return nil
}
