package kpi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/pkg/redis"
)

// ReportCache memoizes JSON-encodable reports. *redis.Cache satisfies it.
type ReportCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() error) error
	DeletePrefix(ctx context.Context, keyPrefix string) (int, error)
}

// WithReportCache memoizes the Internet, Fiber and Mobile reports for ttl,
// keyed by KPI, parameter hash and overrides. ttl <= 0 uses redis.TTLMedium.
func (s *Service) WithReportCache(cache ReportCache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = redis.TTLMedium
	}
	s.reports = cache
	s.reportTTL = ttl
	return s
}

// Internet returns KPI 1, memoized when a report cache is set
func (s *Service) Internet(ctx context.Context, params Params) (*contracts.InternetReport, error) {
	return memoizeReport(ctx, s, contracts.KPIInternet, params, s.computeInternet)
}

// Fiber returns KPI 2, memoized when a report cache is set
func (s *Service) Fiber(ctx context.Context, params Params) (*contracts.FiberReport, error) {
	return memoizeReport(ctx, s, contracts.KPIFiber, params, s.computeFiber)
}

// Mobile returns KPI 3, memoized when a report cache is set
func (s *Service) Mobile(ctx context.Context, params Params) (*contracts.MobileReport, error) {
	return memoizeReport(ctx, s, contracts.KPIMobile, params, s.computeMobile)
}

// Invalidate drops every memoized report (after an ingest)
func (s *Service) Invalidate(ctx context.Context) error {
	if s.reports == nil {
		return nil
	}
	n, err := s.reports.DeletePrefix(ctx, redis.KPIKeyPrefix)
	if err != nil {
		return fmt.Errorf("invalidate kpi reports: %w", err)
	}
	s.log.Info().Int("keys", n).Msg("report cache invalidated")
	return nil
}

// reportKey identifies a report by KPI, configured parameters and overrides
func (s *Service) reportKey(k contracts.KPI, params Params) string {
	hash := s.ParamsHash()
	if params.MinYear != nil {
		hash += ":y" + strconv.Itoa(*params.MinYear)
	}
	if params.GrowthRate != nil {
		hash += ":g" + strconv.FormatFloat(*params.GrowthRate, 'g', -1, 64)
	}
	return redis.KPIKey(string(k), hash)
}

// memoizeReport serves a cached report or computes and stores it. Failed
// computations are never stored; cache failures fall back to computing.
func memoizeReport[T any](ctx context.Context, s *Service, k contracts.KPI, params Params, compute func(context.Context, Params) (*T, error)) (*T, error) {
	if s.reports == nil {
		return compute(ctx, params)
	}

	key := s.reportKey(k, params)
	var (
		report     *T
		computed   bool
		computeErr error
	)
	err := s.reports.GetOrSet(ctx, key, &report, s.reportTTL, func() error {
		computed = true
		report, computeErr = compute(ctx, params)
		return computeErr
	})
	if err == nil && report != nil {
		s.log.Debug().Str("key", key).Bool("hit", !computed).Msg("memoized report")
		return report, nil
	}
	if computed {
		return nil, computeErr
	}

	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("report cache read failed, computing directly")
	}
	return compute(ctx, params)
}
