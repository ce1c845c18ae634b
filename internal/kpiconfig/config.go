package kpiconfig

// Config holds every KPI parameter: cutoff years and projection rates.
// Rates are multiplicative (0.02 = +2%).
type Config struct {
	Meta     Meta           `yaml:"meta" json:"meta"`
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline"`
	Internet InternetConfig `yaml:"internet" json:"internet"`
	Fiber    FiberConfig    `yaml:"fiber" json:"fiber"`
	Mobile   MobileConfig   `yaml:"mobile" json:"mobile"`
}

// Meta identifies the parameter set
type Meta struct {
	ConfigID string `yaml:"config_id" json:"config_id"`
	Version  string `yaml:"version" json:"version"`
}

// PipelineConfig holds options shared by every KPI
type PipelineConfig struct {
	GroupDimension string `yaml:"group_dimension" json:"group_dimension"` // province
	RatioStrict    bool   `yaml:"ratio_strict" json:"ratio_strict"`
}

// InternetConfig KPI 1: accesses per 100 households
type InternetConfig struct {
	MinYear    int     `yaml:"min_year" json:"min_year"`
	GrowthRate float64 `yaml:"growth_rate" json:"growth_rate"`
	MapMinYear int     `yaml:"map_min_year" json:"map_min_year"`
}

// FiberConfig KPI 2: localities with fiber coverage
type FiberConfig struct {
	QuartileGrowthRate float64 `yaml:"quartile_growth_rate" json:"quartile_growth_rate"` // lowest-quartile scenario
	TargetGrowthRate   float64 `yaml:"target_growth_rate" json:"target_growth_rate"`     // national target card
}

// MobileConfig KPI 3: postpaid mobile accesses
type MobileConfig struct {
	MinYear          int     `yaml:"min_year" json:"min_year"`
	GrowthRate       float64 `yaml:"growth_rate" json:"growth_rate"`
	DistributionYear int     `yaml:"distribution_year" json:"distribution_year"`
}

// Default returns the parameters the dashboards were published with
func Default() *Config {
	return &Config{
		Meta: Meta{
			ConfigID: "telecom_kpi_ar",
			Version:  "1",
		},
		Pipeline: PipelineConfig{
			GroupDimension: "province",
			RatioStrict:    false,
		},
		Internet: InternetConfig{
			MinYear:    2023,
			GrowthRate: 0.02,
			MapMinYear: 2024,
		},
		Fiber: FiberConfig{
			QuartileGrowthRate: 0.30,
			TargetGrowthRate:   0.10,
		},
		Mobile: MobileConfig{
			MinYear:          2023,
			GrowthRate:       0.05,
			DistributionYear: 2024,
		},
	}
}
