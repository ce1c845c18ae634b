package kpiconfig

import (
	"fmt"
	"math"
)

// ValidationError reports the first invalid field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.ConfigID == "" {
		return ValidationError{"meta.config_id", "required"}
	}

	// === Pipeline ===
	if cfg.Pipeline.GroupDimension != "province" {
		return ValidationError{"pipeline.group_dimension", "only province is supported"}
	}

	// === Internet ===
	if err := validateYear(cfg.Internet.MinYear); err != nil {
		return ValidationError{"internet.min_year", err.Error()}
	}
	if err := validateRate(cfg.Internet.GrowthRate); err != nil {
		return ValidationError{"internet.growth_rate", err.Error()}
	}
	if err := validateYear(cfg.Internet.MapMinYear); err != nil {
		return ValidationError{"internet.map_min_year", err.Error()}
	}

	// === Fiber ===
	if err := validateRate(cfg.Fiber.QuartileGrowthRate); err != nil {
		return ValidationError{"fiber.quartile_growth_rate", err.Error()}
	}
	if err := validateRate(cfg.Fiber.TargetGrowthRate); err != nil {
		return ValidationError{"fiber.target_growth_rate", err.Error()}
	}

	// === Mobile ===
	if err := validateYear(cfg.Mobile.MinYear); err != nil {
		return ValidationError{"mobile.min_year", err.Error()}
	}
	if err := validateRate(cfg.Mobile.GrowthRate); err != nil {
		return ValidationError{"mobile.growth_rate", err.Error()}
	}
	if err := validateYear(cfg.Mobile.DistributionYear); err != nil {
		return ValidationError{"mobile.distribution_year", err.Error()}
	}

	return nil
}

// ValidateYear checks a cutoff year (also used for query overrides)
func ValidateYear(year int) error {
	return validateYear(year)
}

// ValidateRate checks a growth rate (also used for query overrides)
func ValidateRate(rate float64) error {
	return validateRate(rate)
}

func validateYear(year int) error {
	if year < 1990 || year > 2100 {
		return fmt.Errorf("must be in [1990, 2100], got %d", year)
	}
	return nil
}

// rates in (-1, 10]: a 1000% projection is a typo
func validateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("must be finite")
	}
	if rate <= -1 || rate > 10 {
		return fmt.Errorf("must be in (-1, 10], got %v", rate)
	}
	return nil
}
