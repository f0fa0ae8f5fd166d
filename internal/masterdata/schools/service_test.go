package schools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpost-erp/bookpost/internal/masterdata/shared"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type mockRepo struct {
	schools map[int64]School
	nextID  int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{schools: map[int64]School{}, nextID: 1}
}

func (m *mockRepo) List(_ context.Context, _ shared.ListFilters) ([]School, int, error) {
	out := make([]School, 0, len(m.schools))
	for _, s := range m.schools {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (School, error) {
	s, ok := m.schools[id]
	if !ok {
		return School{}, httpx.ErrNotFound
	}
	return s, nil
}

func (m *mockRepo) GetByName(_ context.Context, name string) (School, error) {
	for _, s := range m.schools {
		if s.Name == name {
			return s, nil
		}
	}
	return School{}, httpx.ErrNotFound
}

func (m *mockRepo) Create(_ context.Context, school School) (School, error) {
	school.ID = m.nextID
	m.nextID++
	m.schools[school.ID] = school
	return school, nil
}

func (m *mockRepo) Update(_ context.Context, id int64, school School) error {
	if _, ok := m.schools[id]; !ok {
		return httpx.ErrNotFound
	}
	school.ID = id
	m.schools[id] = school
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.schools[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.schools, id)
	return nil
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Create(context.Background(), School{Name: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestGetRejectsInvalidID(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Get(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestImportUpsertsByName(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	existing, err := svc.Create(ctx, School{Name: "Green Valley", City: "Pune", IsActive: true})
	require.NoError(t, err)

	rows := [][]string{
		{"Green Valley", "12 Hill Road", "Pune", "020-1111", "office@gv.example", "R. Mehta"},
		{"St. Xavier's", "4 Park Street", "Kolkata", "033-2222", "", ""},
		{"", "no name", "Nowhere"},
	}
	result, err := svc.Import(ctx, rows)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 4")

	updated, err := repo.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 Hill Road", updated.Address)
	assert.True(t, updated.IsActive, "import must not flip the active flag")
}

func TestImportRowErrorsDoNotAbortBatch(t *testing.T) {
	svc := NewService(newMockRepo())

	rows := [][]string{
		{""},
		{"Hillcrest", "9 Lake View", "Nashik"},
	}
	result, err := svc.Import(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Len(t, result.Errors, 1)
}
