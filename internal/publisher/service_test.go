package publisher

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
	"github.com/bookpost-erp/bookpost/jobs"
)

type mockRepo struct {
	requirements []Requirement
	orders       map[int64]Order
	nextID       int64
}

func newMockRepo(orders ...Order) *mockRepo {
	m := &mockRepo{orders: make(map[int64]Order), nextID: 10}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *mockRepo) AggregateRequirements(_ context.Context, _ int64, _ string) ([]Requirement, error) {
	return m.requirements, nil
}

func (m *mockRepo) Create(_ context.Context, order Order) (Order, error) {
	m.nextID++
	order.ID = m.nextID
	var itemID int64 = 100
	for i := range order.Items {
		itemID++
		order.Items[i].ID = itemID
		order.Items[i].OrderID = order.ID
	}
	m.orders[order.ID] = order
	return order, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return Order{}, httpx.ErrNotFound
	}
	return o, nil
}

func (m *mockRepo) List(_ context.Context, _ ListFilters) ([]Order, error) {
	out := make([]Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *mockRepo) MarkSent(_ context.Context, id int64, at time.Time) error {
	o, ok := m.orders[id]
	if !ok {
		return httpx.ErrNotFound
	}
	o.Status = StatusSent
	o.SentAt = &at
	m.orders[id] = o
	return nil
}

func (m *mockRepo) ApplyReceive(_ context.Context, id int64, status string, items []OrderItem) error {
	o, ok := m.orders[id]
	if !ok {
		return httpx.ErrNotFound
	}
	o.Status = status
	o.Items = items
	m.orders[id] = o
	return nil
}

type mockMailer struct {
	sent []jobs.SendEmailPayload
}

func (m *mockMailer) EnqueueSendEmail(_ context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error) {
	m.sent = append(m.sent, payload)
	return &asynq.TaskInfo{}, nil
}

func testLogger() *slog.Logger {
	return slog.Default()
}

func sentOrder() Order {
	at := time.Now().Add(-time.Hour)
	return Order{
		ID:            1,
		SupplierID:    5,
		SupplierEmail: "orders@acme.test",
		Session:       "2026-27",
		Status:        StatusSent,
		SentAt:        &at,
		Items: []OrderItem{
			{ID: 11, OrderID: 1, ProductID: 501, Title: "Math V", OrderedQty: 40, PendingQty: 40},
			{ID: 12, OrderID: 1, ProductID: 502, Title: "Notebook", OrderedQty: 100, PendingQty: 100},
		},
	}
}

func TestGenerateBuildsDraftFromRequirements(t *testing.T) {
	repo := newMockRepo()
	repo.requirements = []Requirement{
		{ProductID: 501, Title: "Math V", Qty: 40},
		{ProductID: 502, Title: "Notebook", Qty: 100},
	}
	svc := NewService(testLogger(), repo, &mockMailer{})

	order, err := svc.Generate(context.Background(), GenerateRequest{SupplierID: 5, Session: "2026-27"})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 40, order.Items[0].OrderedQty)
	assert.Equal(t, 40, order.Items[0].PendingQty)
	assert.Equal(t, 0, order.Items[0].ReceivedQty)
}

func TestGenerateWithoutRequirements(t *testing.T) {
	svc := NewService(testLogger(), newMockRepo(), &mockMailer{})
	_, err := svc.Generate(context.Background(), GenerateRequest{SupplierID: 5, Session: "2026-27"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSendMarksSentAndEmails(t *testing.T) {
	order := sentOrder()
	order.Status = StatusDraft
	order.SentAt = nil
	repo := newMockRepo(order)
	mailer := &mockMailer{}
	svc := NewService(testLogger(), repo, mailer)

	sent, err := svc.Send(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, sent.Status)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "orders@acme.test", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, "Math V x 40")
}

func TestSendRejectsNonDraft(t *testing.T) {
	repo := newMockRepo(sentOrder())
	svc := NewService(testLogger(), repo, &mockMailer{})
	_, err := svc.Send(context.Background(), 1)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReceiveClampsAndInfersPartial(t *testing.T) {
	repo := newMockRepo(sentOrder())
	svc := NewService(testLogger(), repo, &mockMailer{})

	order, err := svc.Receive(context.Background(), 1, ReceiveRequest{
		Status: DirectiveAuto,
		Items: []ReceiveItem{
			{ItemID: 11, ReceivedQty: 999}, // clamps to 40
			{ItemID: 12, ReceivedQty: -5},  // clamps to 0
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPartialReceived, order.Status)
	assert.Equal(t, 40, order.Items[0].ReceivedQty)
	assert.Equal(t, 0, order.Items[0].PendingQty)
	assert.Equal(t, 0, order.Items[1].ReceivedQty)
	assert.Equal(t, 100, order.Items[1].PendingQty)
}

func TestReceiveAllInfersCompleted(t *testing.T) {
	repo := newMockRepo(sentOrder())
	svc := NewService(testLogger(), repo, &mockMailer{})

	order, err := svc.Receive(context.Background(), 1, ReceiveRequest{
		Status: DirectiveAuto,
		Items: []ReceiveItem{
			{ItemID: 11, ReceivedQty: 40},
			{ItemID: 12, ReceivedQty: 100},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, order.Status)
}

func TestReceiveNoneFallsBackToSent(t *testing.T) {
	repo := newMockRepo(sentOrder())
	svc := NewService(testLogger(), repo, &mockMailer{})

	order, err := svc.Receive(context.Background(), 1, ReceiveRequest{
		Status: DirectiveAuto,
		Items: []ReceiveItem{
			{ItemID: 11, ReceivedQty: 0},
			{ItemID: 12, ReceivedQty: 0},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSent, order.Status)
}

func TestReceiveRequiresEveryItem(t *testing.T) {
	repo := newMockRepo(sentOrder())
	svc := NewService(testLogger(), repo, &mockMailer{})

	_, err := svc.Receive(context.Background(), 1, ReceiveRequest{
		Status: DirectiveAuto,
		Items:  []ReceiveItem{{ItemID: 11, ReceivedQty: 10}},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReceiveCancelledIsTerminal(t *testing.T) {
	repo := newMockRepo(sentOrder())
	svc := NewService(testLogger(), repo, &mockMailer{})

	order, err := svc.Receive(context.Background(), 1, ReceiveRequest{
		Status: DirectiveCancelled,
		Items: []ReceiveItem{
			{ItemID: 11, ReceivedQty: 10},
			{ItemID: 12, ReceivedQty: 0},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, order.Status)

	_, err = svc.Receive(context.Background(), 1, ReceiveRequest{
		Status: DirectiveAuto,
		Items: []ReceiveItem{
			{ItemID: 11, ReceivedQty: 10},
			{ItemID: 12, ReceivedQty: 0},
		},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
