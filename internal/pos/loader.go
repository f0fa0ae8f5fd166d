package pos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bookpost-erp/bookpost/internal/bundles"
	"github.com/bookpost-erp/bookpost/internal/catalog"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

// Loader errors. "No bundle found" and "items list is empty" stay distinct
// so the operator can tell a missing bundle apart from an unpopulated one.
var (
	ErrNoBundle    = fmt.Errorf("%w: No bundle found", httpx.ErrNotFound)
	ErrBundleEmpty = fmt.Errorf("%w: items list is empty", httpx.ErrValidation)
)

type BundleSource interface {
	List(ctx context.Context, filters bundles.ListFilters) ([]bundles.Bundle, error)
	Get(ctx context.Context, id int64) (bundles.Bundle, error)
}

type ProductLookup interface {
	GetMany(ctx context.Context, ids []int64) (map[int64]catalog.Product, error)
}

// ClassNamer resolves a class id to its display name. Lookup failures are
// tolerated; the cart then falls back to an empty class label.
type ClassNamer interface {
	ClassName(ctx context.Context, id int64) (string, error)
}

// Loader resolves a school/class selection into a priced cart.
type Loader struct {
	bundles  BundleSource
	products ProductLookup
	classes  ClassNamer
	store    *Store
}

func NewLoader(bundles BundleSource, products ProductLookup, classes ClassNamer, store *Store) *Loader {
	return &Loader{bundles: bundles, products: products, classes: classes, store: store}
}

type LoadRequest struct {
	SchoolID int64 `json:"school_id"`
	ClassID  int64 `json:"class_id"`
}

const candidatePageSize = 5

// Load finds the billable bundle for the selection, resolves its items into
// cart lines and saves the cart. Any failure leaves the existing cart
// untouched; a save racing a newer mutation is discarded with ErrStaleCart.
func (l *Loader) Load(ctx context.Context, cartID string, req LoadRequest) (Cart, error) {
	if req.SchoolID <= 0 || req.ClassID <= 0 {
		return Cart{}, fmt.Errorf("%w: select a school and a class first", httpx.ErrValidation)
	}

	cart, err := l.store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}

	candidates, err := l.bundles.List(ctx, bundles.ListFilters{
		SchoolID: &req.SchoolID,
		ClassID:  &req.ClassID,
		Limit:    candidatePageSize,
	})
	if err != nil {
		return Cart{}, err
	}
	if len(candidates) == 0 {
		return Cart{}, ErrNoBundle
	}
	chosen := pickCandidate(candidates)

	var (
		bundle    bundles.Bundle
		products  map[int64]catalog.Product
		className string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bundle, err = l.bundles.Get(gctx, chosen.ID)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(bundle.Items))
		for _, it := range bundle.Items {
			if it.ProductID > 0 {
				ids = append(ids, it.ProductID)
			}
		}
		products, err = l.products.GetMany(gctx, ids)
		return err
	})
	g.Go(func() error {
		// Best effort; an empty label beats failing the load.
		if name, err := l.classes.ClassName(gctx, req.ClassID); err == nil {
			className = name
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Cart{}, err
	}

	lines := make([]CartLine, 0, len(bundle.Items))
	for _, it := range bundle.Items {
		src := itemSource(it, products[it.ProductID])
		if line, ok := ResolveLine(src, className); ok {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return Cart{}, ErrBundleEmpty
	}

	cart.SchoolID = req.SchoolID
	cart.ClassID = req.ClassID
	cart.ClassName = className
	cart.BundleID = bundle.ID
	cart.Lines = lines
	cart.LoadedAt = time.Now()
	// Full payment is assumed until the operator lowers it.
	cart.PaidAmount = ComputeTotals(lines, 0).Subtotal

	return l.store.Save(ctx, cart)
}

// pickCandidate prefers the first bundle in a billable status and otherwise
// falls back to the first result.
func pickCandidate(candidates []bundles.Bundle) bundles.Bundle {
	for _, b := range candidates {
		switch strings.ToUpper(b.Status) {
		case bundles.StatusIssued, bundles.StatusPartial, bundles.StatusReserved:
			return b
		}
	}
	return candidates[0]
}

func itemSource(it bundles.BundleItem, p catalog.Product) ItemSource {
	src := ItemSource{
		ProductID: it.ProductID,
		Qty:       N(float64(it.Qty)),
		SalePrice: N(it.SalePrice),
		MRP:       N(it.MRP),
	}
	src.Product.Type = string(p.Type)
	src.Product.Name = p.Name
	if p.SellingPrice != nil {
		src.Product.SellingPrice = N(*p.SellingPrice)
	}
	if p.Rate != nil {
		src.Product.Rate = N(*p.Rate)
	}
	if p.MRP != nil {
		src.Product.MRP = N(*p.MRP)
	}
	if p.Book != nil {
		src.Product.Book = BookSource{ID: p.Book.ID, Title: p.Book.Title, ClassName: p.Book.ClassName}
	}
	return src
}
