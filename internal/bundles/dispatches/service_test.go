package dispatches

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type mockRepo struct {
	dispatches map[int64]Dispatch
}

func newMockRepo(ds ...Dispatch) *mockRepo {
	m := &mockRepo{dispatches: make(map[int64]Dispatch)}
	for _, d := range ds {
		m.dispatches[d.ID] = d
	}
	return m
}

func (m *mockRepo) List(_ context.Context, _ ListFilters) ([]Dispatch, error) {
	out := make([]Dispatch, 0, len(m.dispatches))
	for _, d := range m.dispatches {
		out = append(out, d)
	}
	return out, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (Dispatch, error) {
	d, ok := m.dispatches[id]
	if !ok {
		return Dispatch{}, httpx.ErrNotFound
	}
	return d, nil
}

func (m *mockRepo) Create(_ context.Context, d Dispatch) (Dispatch, error) {
	d.ID = int64(len(m.dispatches) + 1)
	m.dispatches[d.ID] = d
	return d, nil
}

func (m *mockRepo) Update(_ context.Context, id int64, d Dispatch) error {
	if _, ok := m.dispatches[id]; !ok {
		return httpx.ErrNotFound
	}
	d.ID = id
	m.dispatches[id] = d
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.dispatches[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.dispatches, id)
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id int64, status string, deliveredAt *time.Time) error {
	d, ok := m.dispatches[id]
	if !ok {
		return httpx.ErrNotFound
	}
	d.Status = status
	d.DeliveredAt = deliveredAt
	m.dispatches[id] = d
	return nil
}

func (m *mockRepo) Challan(_ context.Context, id int64) (ChallanData, error) {
	d, ok := m.dispatches[id]
	if !ok {
		return ChallanData{}, httpx.ErrNotFound
	}
	return ChallanData{Dispatch: d}, nil
}

func TestCreateDefaultsToDispatched(t *testing.T) {
	svc := NewService(newMockRepo())
	d, err := svc.Create(context.Background(), Dispatch{BundleID: 1, SchoolID: 2, Qty: 40, Status: "DELIVERED"})
	require.NoError(t, err)
	assert.Equal(t, StatusDispatched, d.Status)
	assert.False(t, d.DispatchedAt.IsZero())
}

func TestSetStatusForwardOnly(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusDispatched, StatusPartiallyDelivered, true},
		{StatusDispatched, StatusDelivered, true},
		{StatusPartiallyDelivered, StatusDelivered, true},
		{StatusPartiallyDelivered, StatusDispatched, false},
		{StatusDelivered, StatusPartiallyDelivered, false},
		{StatusDelivered, StatusDispatched, false},
		{StatusDispatched, StatusDispatched, false},
	}
	for _, tc := range cases {
		repo := newMockRepo(Dispatch{ID: 1, BundleID: 1, SchoolID: 2, Qty: 10, Status: tc.from})
		svc := NewService(repo)
		d, err := svc.SetStatus(context.Background(), 1, tc.to)
		if tc.ok {
			require.NoError(t, err, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.to, d.Status)
		} else {
			assert.ErrorIs(t, err, httpx.ErrValidation, "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestSetStatusStampsDeliveryTime(t *testing.T) {
	repo := newMockRepo(Dispatch{ID: 1, BundleID: 1, SchoolID: 2, Qty: 10, Status: StatusPartiallyDelivered})
	svc := NewService(repo)

	d, err := svc.SetStatus(context.Background(), 1, "delivered")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, d.Status)
	require.NotNil(t, d.DeliveredAt)
	assert.WithinDuration(t, time.Now(), *d.DeliveredAt, time.Minute)
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	repo := newMockRepo(Dispatch{ID: 1, Status: StatusDispatched})
	svc := NewService(repo)
	_, err := svc.SetStatus(context.Background(), 1, "RETURNED")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.Create(context.Background(), Dispatch{SchoolID: 2, Qty: 10})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	_, err = svc.Create(context.Background(), Dispatch{BundleID: 1, Qty: 10})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	_, err = svc.Create(context.Background(), Dispatch{BundleID: 1, SchoolID: 2})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
