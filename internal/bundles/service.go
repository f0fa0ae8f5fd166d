package bundles

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Bundle, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Bundle, error) {
	if id <= 0 {
		return Bundle{}, fmt.Errorf("%w: invalid bundle ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, bundle Bundle) (Bundle, error) {
	if err := s.validate(bundle); err != nil {
		return Bundle{}, err
	}
	return s.repo.Create(ctx, bundle)
}

func (s *Service) Update(ctx context.Context, id int64, bundle Bundle) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid bundle ID", httpx.ErrValidation)
	}
	if err := s.validate(bundle); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, bundle)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid bundle ID", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(bundle Bundle) error {
	if bundle.SchoolID <= 0 {
		return fmt.Errorf("%w: school is required", httpx.ErrValidation)
	}
	if bundle.ClassID == nil && strings.TrimSpace(bundle.ClassName) == "" {
		return fmt.Errorf("%w: class or class name is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(bundle.Session) == "" {
		return fmt.Errorf("%w: session is required", httpx.ErrValidation)
	}
	return nil
}

// AddItem inserts one product picked from the catalogue. Adding a product
// that is already in the bundle leaves the item set untouched and returns a
// notice instead of an error.
func (s *Service) AddItem(ctx context.Context, bundleID int64, req AddItemRequest) (AddItemResult, error) {
	if bundleID <= 0 {
		return AddItemResult{}, fmt.Errorf("%w: invalid bundle ID", httpx.ErrValidation)
	}
	if req.ProductID <= 0 {
		return AddItemResult{}, fmt.Errorf("%w: product is required", httpx.ErrValidation)
	}

	bundle, err := s.repo.Get(ctx, bundleID)
	if err != nil {
		return AddItemResult{}, err
	}
	for _, it := range bundle.Items {
		if it.ProductID == req.ProductID {
			return AddItemResult{Bundle: bundle, Notice: "already in bundle"}, nil
		}
	}

	item := BundleItem{
		BundleID:   bundleID,
		ProductID:  req.ProductID,
		Qty:        maxInt(0, req.Qty),
		MRP:        maxFloat(0, req.MRP),
		SalePrice:  maxFloat(0, req.SalePrice),
		IsOptional: req.IsOptional,
		SortOrder:  len(bundle.Items),
	}
	if _, err := s.repo.InsertItem(ctx, item); err != nil {
		return AddItemResult{}, err
	}

	bundle, err = s.repo.Get(ctx, bundleID)
	if err != nil {
		return AddItemResult{}, err
	}
	return AddItemResult{Bundle: bundle}, nil
}

// ReplaceItems persists the editor's full item list, replacing whatever the
// bundle held before. Quantities and prices are floored at zero; a line with
// no product or a negative quantity after flooring rejects the whole request
// and nothing is written.
func (s *Service) ReplaceItems(ctx context.Context, bundleID int64, req ReplaceItemsRequest) (Bundle, error) {
	if bundleID <= 0 {
		return Bundle{}, fmt.Errorf("%w: invalid bundle ID", httpx.ErrValidation)
	}
	if !req.Replace {
		return Bundle{}, fmt.Errorf("%w: incremental item updates are not supported, set replace", httpx.ErrValidation)
	}

	items := make([]BundleItem, 0, len(req.Items))
	seen := make(map[int64]bool, len(req.Items))
	for i, in := range req.Items {
		item := BundleItem{
			BundleID:   bundleID,
			ProductID:  in.ProductID,
			Qty:        maxInt(0, in.Qty),
			MRP:        maxFloat(0, in.MRP),
			SalePrice:  maxFloat(0, in.SalePrice),
			IsOptional: in.IsOptional,
			SortOrder:  in.SortOrder,
		}
		if id, ok := in.Ref().Persisted(); ok {
			item.ID = id
		}
		if item.ProductID <= 0 || item.Qty < 0 {
			return Bundle{}, fmt.Errorf("%w: item %d is invalid", httpx.ErrValidation, i+1)
		}
		if seen[item.ProductID] {
			return Bundle{}, fmt.Errorf("%w: product %d appears more than once", httpx.ErrValidation, item.ProductID)
		}
		seen[item.ProductID] = true
		items = append(items, item)
	}

	if err := s.repo.ReplaceItems(ctx, bundleID, items); err != nil {
		return Bundle{}, err
	}
	return s.repo.Get(ctx, bundleID)
}

// DeleteItem removes a persisted line immediately. Pending editor lines
// never reach the server, so a non-positive id is a client bug.
func (s *Service) DeleteItem(ctx context.Context, bundleID, itemID int64) (Bundle, error) {
	if bundleID <= 0 {
		return Bundle{}, fmt.Errorf("%w: invalid bundle ID", httpx.ErrValidation)
	}
	if itemID <= 0 {
		return Bundle{}, fmt.Errorf("%w: only persisted items can be deleted", httpx.ErrValidation)
	}
	if err := s.repo.DeleteItem(ctx, bundleID, itemID); err != nil {
		return Bundle{}, err
	}
	return s.repo.Get(ctx, bundleID)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
