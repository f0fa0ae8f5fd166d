package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
	"github.com/bookpost-erp/bookpost/jobs"
)

// Mailer enqueues outgoing order emails. The asynq jobs client satisfies
// it; a nil mailer disables sending and leaves orders in DRAFT.
type Mailer interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error)
}

type Service struct {
	logger *slog.Logger
	repo   Repository
	mailer Mailer
}

func NewService(logger *slog.Logger, repo Repository, mailer Mailer) *Service {
	return &Service{logger: logger, repo: repo, mailer: mailer}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Order, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	if id <= 0 {
		return Order{}, fmt.Errorf("%w: invalid order ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid order ID", httpx.ErrValidation)
	}
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != StatusDraft && order.Status != StatusCancelled {
		return fmt.Errorf("%w: only draft or cancelled orders can be deleted", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

type GenerateRequest struct {
	SupplierID int64  `json:"supplier_id"`
	Session    string `json:"session"`
	Notes      string `json:"notes,omitempty"`
}

// Generate aggregates the supplier's demand across the session's active
// bundles into a new DRAFT order. Ordered quantities are fixed here and
// never change afterwards.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (Order, error) {
	if req.SupplierID <= 0 {
		return Order{}, fmt.Errorf("%w: supplier is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(req.Session) == "" {
		return Order{}, fmt.Errorf("%w: session is required", httpx.ErrValidation)
	}

	requirements, err := s.repo.AggregateRequirements(ctx, req.SupplierID, req.Session)
	if err != nil {
		return Order{}, err
	}
	if len(requirements) == 0 {
		return Order{}, fmt.Errorf("%w: no bundle requirements found for this supplier and session", httpx.ErrValidation)
	}

	order := Order{
		SupplierID: req.SupplierID,
		Session:    req.Session,
		Status:     StatusDraft,
		Notes:      req.Notes,
	}
	for _, r := range requirements {
		order.Items = append(order.Items, OrderItem{
			ProductID:  r.ProductID,
			Title:      r.Title,
			OrderedQty: r.Qty,
			PendingQty: r.Qty,
		})
	}
	return s.repo.Create(ctx, order)
}

// Send emails the order to the supplier and marks it SENT.
func (s *Service) Send(ctx context.Context, id int64) (Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if order.Status != StatusDraft {
		return Order{}, fmt.Errorf("%w: only draft orders can be sent", httpx.ErrValidation)
	}
	if order.SupplierEmail == "" {
		return Order{}, fmt.Errorf("%w: supplier has no email address", httpx.ErrValidation)
	}
	if s.mailer == nil {
		return Order{}, fmt.Errorf("%w: mail delivery is not configured", httpx.ErrValidation)
	}

	if _, err := s.mailer.EnqueueSendEmail(ctx, jobs.SendEmailPayload{
		To:      order.SupplierEmail,
		Subject: fmt.Sprintf("Purchase order #%d (%s)", order.ID, order.Session),
		Body:    orderEmailBody(order),
	}); err != nil {
		return Order{}, err
	}

	now := time.Now()
	if err := s.repo.MarkSent(ctx, id, now); err != nil {
		return Order{}, err
	}
	s.logger.Info("publisher order sent", "order_id", id, "supplier_id", order.SupplierID)
	return s.repo.Get(ctx, id)
}

func orderEmailBody(order Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Purchase order #%d for session %s\n\n", order.ID, order.Session)
	for i, it := range order.Items {
		fmt.Fprintf(&b, "%2d. %s x %d\n", i+1, it.Title, it.OrderedQty)
	}
	if order.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", order.Notes)
	}
	return b.String()
}

type ReceiveItem struct {
	ItemID      int64 `json:"item_id"`
	ReceivedQty int   `json:"received_qty"`
}

type ReceiveRequest struct {
	Status string        `json:"status"`
	Items  []ReceiveItem `json:"items"`
}

// Receive applies a full receive payload. Every order item must appear in
// the request; quantities are clamped into [0, ordered] and pending is
// recomputed. With the "auto" directive the status is inferred from the
// quantities; "cancelled" closes the order permanently.
func (s *Service) Receive(ctx context.Context, id int64, req ReceiveRequest) (Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if order.Status == StatusCancelled {
		return Order{}, fmt.Errorf("%w: order is cancelled", httpx.ErrValidation)
	}
	if req.Status != DirectiveAuto && req.Status != DirectiveCancelled {
		return Order{}, fmt.Errorf("%w: status must be %q or %q", httpx.ErrValidation, DirectiveAuto, DirectiveCancelled)
	}

	received := make(map[int64]int, len(req.Items))
	for _, it := range req.Items {
		if _, dup := received[it.ItemID]; dup {
			return Order{}, fmt.Errorf("%w: item %d appears more than once", httpx.ErrValidation, it.ItemID)
		}
		received[it.ItemID] = it.ReceivedQty
	}
	if len(received) != len(order.Items) {
		return Order{}, fmt.Errorf("%w: receive payload must cover every order item", httpx.ErrValidation)
	}

	allReceived := true
	anyReceived := false
	updated := make([]OrderItem, 0, len(order.Items))
	for _, it := range order.Items {
		qty, ok := received[it.ID]
		if !ok {
			return Order{}, fmt.Errorf("%w: item %d is missing from the payload", httpx.ErrValidation, it.ID)
		}
		if qty < 0 {
			qty = 0
		}
		if qty > it.OrderedQty {
			qty = it.OrderedQty
		}
		it.ReceivedQty = qty
		it.PendingQty = it.OrderedQty - qty
		if it.PendingQty < 0 {
			it.PendingQty = 0
		}
		if qty > 0 {
			anyReceived = true
		}
		if qty < it.OrderedQty {
			allReceived = false
		}
		updated = append(updated, it)
	}

	status := StatusCancelled
	if req.Status == DirectiveAuto {
		status = inferStatus(order, anyReceived, allReceived)
	}
	if err := s.repo.ApplyReceive(ctx, id, status, updated); err != nil {
		return Order{}, err
	}
	return s.repo.Get(ctx, id)
}

// inferStatus maps receipt progress onto a status. An untouched order drops
// back to SENT, or DRAFT if it was never sent.
func inferStatus(order Order, anyReceived, allReceived bool) string {
	switch {
	case !anyReceived:
		if order.SentAt == nil {
			return StatusDraft
		}
		return StatusSent
	case allReceived:
		return StatusCompleted
	default:
		return StatusPartialReceived
	}
}
