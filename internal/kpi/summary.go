package kpi

import (
	"context"
	"fmt"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// Summary lists the KPI definitions with their configured rates
func (s *Service) Summary(_ context.Context) *contracts.SummaryReport {
	cfg := s.cfg
	return &contracts.SummaryReport{
		KPIs: []contracts.KPIDefinition{
			{
				ID:          contracts.KPIInternet,
				Title:       "Internet penetration per 100 households",
				Description: fmt.Sprintf("Accesses per 100 households by province since %d", cfg.Internet.MinYear),
				GrowthRate:  cfg.Internet.GrowthRate,
				Target:      fmt.Sprintf("+%s accesses per 100 households next quarter", percent(cfg.Internet.GrowthRate)),
			},
			{
				ID:          contracts.KPIFiber,
				Title:       "Fiber optic coverage of localities",
				Description: "Share of connected localities with fiber by province",
				GrowthRate:  cfg.Fiber.QuartileGrowthRate,
				Target: fmt.Sprintf("+%s in the lowest-coverage quartile, +%s national mean",
					percent(cfg.Fiber.QuartileGrowthRate), percent(cfg.Fiber.TargetGrowthRate)),
			},
			{
				ID:          contracts.KPIMobile,
				Title:       "Postpaid mobile accesses",
				Description: fmt.Sprintf("National postpaid accesses since %d", cfg.Mobile.MinYear),
				GrowthRate:  cfg.Mobile.GrowthRate,
				Target:      fmt.Sprintf("+%s postpaid accesses next quarter", percent(cfg.Mobile.GrowthRate)),
			},
		},
		ParamsHash:  s.paramsHash,
		GeneratedAt: s.now(),
	}
}

// percent formats 0.02 as "2%"
func percent(rate float64) string {
	return fmt.Sprintf("%.4g%%", rate*100)
}
