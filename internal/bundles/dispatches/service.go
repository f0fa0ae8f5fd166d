package dispatches

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Dispatch, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Dispatch, error) {
	if id <= 0 {
		return Dispatch{}, fmt.Errorf("%w: invalid dispatch ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, d Dispatch) (Dispatch, error) {
	if err := s.validate(d); err != nil {
		return Dispatch{}, err
	}
	d.Status = StatusDispatched
	if d.DispatchedAt.IsZero() {
		d.DispatchedAt = time.Now()
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) Update(ctx context.Context, id int64, d Dispatch) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid dispatch ID", httpx.ErrValidation)
	}
	if err := s.validate(d); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, d)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid dispatch ID", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(d Dispatch) error {
	if d.BundleID <= 0 {
		return fmt.Errorf("%w: bundle is required", httpx.ErrValidation)
	}
	if d.SchoolID <= 0 {
		return fmt.Errorf("%w: school is required", httpx.ErrValidation)
	}
	if d.Qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", httpx.ErrValidation)
	}
	return nil
}

// SetStatus advances the dispatch along the delivery workflow. Transitions
// only move forward; DELIVERED stamps the delivery time.
func (s *Service) SetStatus(ctx context.Context, id int64, status string) (Dispatch, error) {
	if id <= 0 {
		return Dispatch{}, fmt.Errorf("%w: invalid dispatch ID", httpx.ErrValidation)
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case StatusDispatched, StatusPartiallyDelivered, StatusDelivered:
	default:
		return Dispatch{}, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Dispatch{}, err
	}
	if !CanTransition(current.Status, status) {
		return Dispatch{}, fmt.Errorf("%w: cannot move from %s to %s", httpx.ErrValidation, current.Status, status)
	}

	var deliveredAt *time.Time
	if status == StatusDelivered {
		now := time.Now()
		deliveredAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, status, deliveredAt); err != nil {
		return Dispatch{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Challan(ctx context.Context, id int64) (ChallanData, error) {
	if id <= 0 {
		return ChallanData{}, fmt.Errorf("%w: invalid dispatch ID", httpx.ErrValidation)
	}
	return s.repo.Challan(ctx, id)
}
