package contracts

import (
	"fmt"
	"time"
)

// KPI identifies one tracked indicator
type KPI string

const (
	KPIInternet KPI = "internet" // accesses per 100 households
	KPIFiber    KPI = "fiber"    // localities with fiber coverage
	KPIMobile   KPI = "mobile"   // postpaid mobile accesses
)

// AllKPIs returns every KPI in presentation order
func AllKPIs() []KPI {
	return []KPI{KPIInternet, KPIFiber, KPIMobile}
}

// ParseKPI validates a KPI name
func ParseKPI(s string) (KPI, error) {
	for _, k := range AllKPIs() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown kpi %q (use: internet, fiber, mobile)", s)
}

// KPIDefinition describes a KPI and its configured projection rate
type KPIDefinition struct {
	ID          KPI     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	GrowthRate  float64 `json:"growth_rate"`
	Target      string  `json:"target"`
}

// SummaryReport lists the KPIs with their rates
type SummaryReport struct {
	KPIs        []KPIDefinition `json:"kpis"`
	ParamsHash  string          `json:"params_hash"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// MapPoint is a per-province value keyed for a map layer
type MapPoint struct {
	Province  string  `json:"province"` // normalized lowercase name
	Code      string  `json:"code,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Value     float64 `json:"value"`
}

// InternetReport is KPI 1: internet penetration per 100 households
type InternetReport struct {
	MinYear      int                  `json:"min_year"`
	GrowthRate   float64              `json:"growth_rate"`
	Penetration  []SeriesPoint        `json:"penetration"`
	LatestPeriod string               `json:"latest_period"`
	Comparison   []ProjectedAggregate `json:"comparison"`
	Map          []MapPoint           `json:"map"`
	Provinces    []string             `json:"provinces"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

// ProvinceEvolution is the history of one province plus its projected point
type ProvinceEvolution struct {
	Province   string        `json:"province"`
	GrowthRate float64       `json:"growth_rate"`
	Points     []SeriesPoint `json:"points"`
}

// FiberReport is KPI 2: fiber coverage of localities
type FiberReport struct {
	Coverage          []RatioResult        `json:"coverage"`
	QuartileThreshold float64              `json:"quartile_threshold"`
	LowestCoverage    []ProjectedAggregate `json:"lowest_coverage"`
	Map               []MapPoint           `json:"map"`
	Cards             FiberCards           `json:"cards"`
	GeneratedAt       time.Time            `json:"generated_at"`
}

// FiberCards are the headline numbers of KPI 2
type FiberCards struct {
	NationalMean     float64 `json:"national_mean"`
	Target           float64 `json:"target"`
	TargetGrowthRate float64 `json:"target_growth_rate"`
}

// MobileReport is KPI 3: postpaid mobile accesses
type MobileReport struct {
	MinYear      int                `json:"min_year"`
	GrowthRate   float64            `json:"growth_rate"`
	Evolution    []SeriesPoint      `json:"evolution"`
	Cards        MobileCards        `json:"cards"`
	Distribution MobileDistribution `json:"distribution"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

// MobileCards are the headline numbers of KPI 3
type MobileCards struct {
	CurrentPeriod   string  `json:"current_period"`
	Current         float64 `json:"current"`
	ProjectedPeriod string  `json:"projected_period"`
	Projected       float64 `json:"projected"`
	Delta           float64 `json:"delta"`
}

// MobileDistribution is the postpaid/prepaid split of one year
type MobileDistribution struct {
	Year          int     `json:"year"`
	Postpaid      float64 `json:"postpaid"`
	Prepaid       float64 `json:"prepaid"`
	PostpaidShare float64 `json:"postpaid_share"`
	PrepaidShare  float64 `json:"prepaid_share"`
}
