package pos

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookpost-erp/bookpost/internal/money"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
	"github.com/bookpost-erp/bookpost/report"
)

// Renderer turns receipt HTML into PDF bytes with explicit paper sizing.
type Renderer interface {
	RenderHTMLSized(ctx context.Context, html string, opts report.PageOptions) ([]byte, error)
}

const receiptCacheTTL = 60 * time.Second

// Service drives the sales terminal: cart sessions, checkout and receipts.
type Service struct {
	sales    SaleRepository
	products ProductLookup
	store    *Store
	loader   *Loader
	renderer Renderer
	rdb      *redis.Client
}

func NewService(sales SaleRepository, products ProductLookup, store *Store, loader *Loader, renderer Renderer, rdb *redis.Client) *Service {
	return &Service{sales: sales, products: products, store: store, loader: loader, renderer: renderer, rdb: rdb}
}

func (s *Service) CreateCart(ctx context.Context) (Cart, error) {
	return s.store.Create(ctx)
}

func (s *Service) GetCart(ctx context.Context, cartID string) (Cart, error) {
	return s.store.Get(ctx, cartID)
}

func (s *Service) LoadBundle(ctx context.Context, cartID string, req LoadRequest) (Cart, error) {
	return s.loader.Load(ctx, cartID, req)
}

// mutate applies fn to the stored cart and saves it under the generation it
// was read at, so a slower concurrent writer loses.
func (s *Service) mutate(ctx context.Context, cartID string, fn func(*Cart)) (Cart, error) {
	cart, err := s.store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	fn(&cart)
	return s.store.Save(ctx, cart)
}

func (s *Service) SetLine(ctx context.Context, cartID, key string, patch LinePatch) (Cart, error) {
	return s.mutate(ctx, cartID, func(c *Cart) { c.SetLine(key, patch) })
}

func (s *Service) IncQty(ctx context.Context, cartID, key string) (Cart, error) {
	return s.mutate(ctx, cartID, func(c *Cart) { c.IncQty(key) })
}

func (s *Service) DecQty(ctx context.Context, cartID, key string) (Cart, error) {
	return s.mutate(ctx, cartID, func(c *Cart) { c.DecQty(key) })
}

func (s *Service) ToggleInclude(ctx context.Context, cartID, key string) (Cart, error) {
	return s.mutate(ctx, cartID, func(c *Cart) { c.ToggleInclude(key) })
}

func (s *Service) SetPaid(ctx context.Context, cartID string, amount float64) (Cart, error) {
	return s.mutate(ctx, cartID, func(c *Cart) { c.SetPaid(amount) })
}

type CheckoutItem struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Qty       float64 `json:"qty" validate:"gte=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Include   bool    `json:"include"`
}

type CheckoutRequest struct {
	CartID      string         `json:"cart_id,omitempty"`
	SoldToType  string         `json:"sold_to_type" validate:"required,oneof=SCHOOL WALKIN"`
	SoldToID    *int64         `json:"sold_to_id,omitempty"`
	BundleID    *int64         `json:"bundle_id,omitempty"`
	ClassName   string         `json:"class_name,omitempty"`
	PaymentMode string         `json:"payment_mode,omitempty"`
	PaidAmount  float64        `json:"paid_amount"`
	Notes       string         `json:"notes,omitempty"`
	Items       []CheckoutItem `json:"items" validate:"required,min=1,dive"`
}

type CheckoutResult struct {
	SaleID int64  `json:"sale_id"`
	Totals Totals `json:"totals"`
}

// Checkout recomputes the submitted cart with the shared totals engine and
// persists the sale. Client-side arithmetic is never trusted.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	switch req.SoldToType {
	case SoldToSchool:
		if req.SoldToID == nil || *req.SoldToID <= 0 {
			return CheckoutResult{}, fmt.Errorf("%w: school is required for a school sale", httpx.ErrValidation)
		}
	case SoldToWalkIn:
	default:
		return CheckoutResult{}, fmt.Errorf("%w: unknown sold_to_type %q", httpx.ErrValidation, req.SoldToType)
	}
	if len(req.Items) == 0 {
		return CheckoutResult{}, fmt.Errorf("%w: items list is empty", httpx.ErrValidation)
	}

	ids := make([]int64, 0, len(req.Items))
	lines := make([]CartLine, 0, len(req.Items))
	for i, it := range req.Items {
		if it.ProductID <= 0 {
			return CheckoutResult{}, fmt.Errorf("%w: item %d has no product", httpx.ErrValidation, i+1)
		}
		if it.Qty < 0 || it.UnitPrice < 0 {
			return CheckoutResult{}, fmt.Errorf("%w: item %d has a negative quantity or price", httpx.ErrValidation, i+1)
		}
		ids = append(ids, it.ProductID)
		lines = append(lines, CartLine{
			ProductID: it.ProductID,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			Include:   it.Include,
		})
	}

	products, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return CheckoutResult{}, err
	}

	totals := ComputeTotals(lines, req.PaidAmount)
	sale := Sale{
		SoldToType:  req.SoldToType,
		SoldToID:    req.SoldToID,
		BundleID:    req.BundleID,
		ClassName:   req.ClassName,
		PaymentMode: paymentMode(req.PaymentMode, totals),
		Subtotal:    totals.Subtotal,
		Total:       totals.Total,
		Paid:        totals.Paid,
		Balance:     totals.Balance,
		Notes:       req.Notes,
		SoldAt:      time.Now(),
	}
	for _, l := range lines {
		item := SaleItem{
			ProductID: l.ProductID,
			Title:     products[l.ProductID].DisplayTitle(),
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
			Include:   l.Include,
		}
		if l.Include {
			item.LineTotal = money.Round2(l.Qty * l.UnitPrice)
		}
		sale.Items = append(sale.Items, item)
	}

	id, err := s.sales.Create(ctx, sale)
	if err != nil {
		return CheckoutResult{}, err
	}

	if req.CartID != "" {
		// The terminal starts fresh after a sale.
		_ = s.store.Delete(ctx, req.CartID)
	}
	return CheckoutResult{SaleID: id, Totals: totals}, nil
}

// paymentMode keeps the submitted mode when given and otherwise derives it
// from the amounts.
func paymentMode(given string, t Totals) string {
	if given != "" {
		return given
	}
	switch {
	case t.Paid <= 0 && t.Total > 0:
		return PaymentCredit
	case t.Paid < t.Total:
		return PaymentPartial
	default:
		return PaymentCash
	}
}

func (s *Service) GetSale(ctx context.Context, id int64) (Sale, error) {
	if id <= 0 {
		return Sale{}, fmt.Errorf("%w: invalid sale ID", httpx.ErrValidation)
	}
	return s.sales.Get(ctx, id)
}

func (s *Service) ListSales(ctx context.Context, filters SaleFilters) ([]Sale, error) {
	return s.sales.List(ctx, filters)
}

// Receipt renders the sale receipt as PDF. Rendered bytes stay cached for
// 60 seconds so repeated opens right after checkout do not re-render.
func (s *Service) Receipt(ctx context.Context, saleID int64, size string) ([]byte, error) {
	if saleID <= 0 {
		return nil, fmt.Errorf("%w: invalid sale ID", httpx.ErrValidation)
	}
	cacheKey := "pos:receipt:" + strconv.FormatInt(saleID, 10) + ":" + size
	if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		return cached, nil
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	sale, err := s.sales.Get(ctx, saleID)
	if err != nil {
		return nil, err
	}
	info, err := s.sales.ReceiptInfo(ctx, sale)
	if err != nil {
		return nil, err
	}

	data := report.ReceiptData{
		SaleID:       sale.ID,
		CompanyName:  info.CompanyName,
		CompanyPhone: info.CompanyPhone,
		CompanyAddr:  info.CompanyAddr,
		SchoolName:   info.SchoolName,
		ClassName:    sale.ClassName,
		SoldAt:       sale.SoldAt,
		Subtotal:     sale.Subtotal,
		Total:        sale.Total,
		Paid:         sale.Paid,
		Balance:      sale.Balance,
		PaymentMode:  sale.PaymentMode,
	}
	for _, it := range sale.Items {
		if !it.Include {
			continue
		}
		data.Lines = append(data.Lines, report.ReceiptLine{
			Title:     it.Title,
			Qty:       int(it.Qty),
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}

	html, err := report.ReceiptHTML(data)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.RenderHTMLSized(ctx, html, report.ReceiptPageOptions(size))
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, cacheKey, pdf, receiptCacheTTL).Err(); err != nil {
		return nil, err
	}
	return pdf, nil
}
