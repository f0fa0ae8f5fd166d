package analytics

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Service coordinates the dashboard sections with the cache layer.
type Service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

func rangeToken(r Range) []string {
	school := "-"
	if r.SchoolID != nil {
		school = strconv.FormatInt(*r.SchoolID, 10)
	}
	from, to := "-", "-"
	if !r.From.IsZero() {
		from = r.From.Format("2006-01-02")
	}
	if !r.To.IsZero() {
		to = r.To.Format("2006-01-02")
	}
	return []string{school, from, to}
}

func (s *Service) key(ctx context.Context, section string, r Range) (string, error) {
	parts := append([]string{"analytics", section}, rangeToken(r)...)
	return s.cache.BuildKey(ctx, parts...)
}

func (s *Service) Summary(ctx context.Context, r Range) (Summary, error) {
	key, err := s.key(ctx, "summary", r)
	if err != nil {
		return Summary{}, err
	}
	var out Summary
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.repo.Summary(ctx, r)
	})
	return out, err
}

func (s *Service) DailyTrend(ctx context.Context, r Range) ([]TrendPoint, error) {
	key, err := s.key(ctx, "trend", r)
	if err != nil {
		return nil, err
	}
	var out []TrendPoint
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		points, err := s.repo.DailyTrend(ctx, r)
		if err != nil {
			return nil, err
		}
		if points == nil {
			points = []TrendPoint{}
		}
		return points, nil
	})
	return out, err
}

func (s *Service) TopBundles(ctx context.Context, r Range, limit int) ([]TopBundle, error) {
	key, err := s.key(ctx, "top_bundles:"+strconv.Itoa(limit), r)
	if err != nil {
		return nil, err
	}
	var out []TopBundle
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		bundles, err := s.repo.TopBundles(ctx, r, limit)
		if err != nil {
			return nil, err
		}
		if bundles == nil {
			bundles = []TopBundle{}
		}
		return bundles, nil
	})
	return out, err
}

// Dashboard loads every section in parallel.
func (s *Service) Dashboard(ctx context.Context, r Range) (Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Summary, err = s.Summary(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		d.Trend, err = s.DailyTrend(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		d.TopBundles, err = s.TopBundles(gctx, r, 10)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// Invalidate bumps the cache version after new sales land.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// Warmup pre-populates the unfiltered dashboard, used by the cron task.
func (s *Service) Warmup(ctx context.Context) error {
	_, err := s.Dashboard(ctx, Range{})
	return err
}
