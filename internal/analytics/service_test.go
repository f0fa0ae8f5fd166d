package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	summaryCalls int
	trendCalls   int
	topCalls     int
}

func (m *mockRepo) Summary(_ context.Context, _ Range) (Summary, error) {
	m.summaryCalls++
	return Summary{Revenue: 5000, Paid: 4200, Balance: 800, SaleCount: 17}, nil
}

func (m *mockRepo) DailyTrend(_ context.Context, _ Range) ([]TrendPoint, error) {
	m.trendCalls++
	return []TrendPoint{{Date: "2026-08-01", Revenue: 1200, SaleCount: 4}}, nil
}

func (m *mockRepo) TopBundles(_ context.Context, _ Range, _ int) ([]TopBundle, error) {
	m.topCalls++
	return []TopBundle{{BundleID: 1, SchoolName: "Green Valley", SaleCount: 9, Revenue: 3100}}, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &mockRepo{}
	return NewService(repo, NewCache(rdb, time.Minute)), repo
}

func TestDashboardLoadsAllSections(t *testing.T) {
	svc, _ := newTestService(t)

	d, err := svc.Dashboard(context.Background(), Range{})
	require.NoError(t, err)
	assert.Equal(t, 17, d.Summary.SaleCount)
	require.Len(t, d.Trend, 1)
	require.Len(t, d.TopBundles, 1)
}

func TestSummaryIsCached(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Summary(ctx, Range{})
	require.NoError(t, err)
	_, err = svc.Summary(ctx, Range{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.summaryCalls, "second call must hit the cache")
}

func TestInvalidateBumpsVersion(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Summary(ctx, Range{})
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(ctx))

	_, err = svc.Summary(ctx, Range{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.summaryCalls, "version bump must miss the old key")
}

func TestDifferentRangesUseDifferentKeys(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Summary(ctx, Range{})
	require.NoError(t, err)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.Summary(ctx, Range{From: from})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.summaryCalls)
}
