package contracts

// Pipeline stage definitions (SSOT)
// Every log line and typed error names its stage with these constants.
//
// Flow (one direction, each stage returns a new value):
//   P0 → P1 → P2 → P3 → P4 → P5
//   Fetch  Filter  PeriodKeys  Aggregate/Ratio  Project  Outlier

// Stage represents a pipeline stage
type Stage string

const (
	// StageFetch P0: observations read from the data source
	// location: internal/source/
	StageFetch Stage = "P0_FETCH"

	// StageFilter P1: cutoff year / province / year filters
	// location: internal/pipeline/filter.go
	StageFilter Stage = "P1_FILTER"

	// StagePeriodKeys P2: labels, ordering, series building
	// location: internal/pipeline/period.go
	StagePeriodKeys Stage = "P2_PERIOD_KEYS"

	// StageAggregate P3: count / mean / sum per group
	// location: internal/pipeline/aggregate.go
	StageAggregate Stage = "P3_AGGREGATE"

	// StageRatio P3: numerator / denominator percentage per group
	// location: internal/pipeline/ratio.go
	StageRatio Stage = "P3_RATIO"

	// StageProject P4: naive single-step projection
	// location: internal/pipeline/projector.go
	StageProject Stage = "P4_PROJECT"

	// StageOutlier P5: lowest quartile selection
	// location: internal/pipeline/outlier.go
	StageOutlier Stage = "P5_OUTLIER"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "P0", "P4")
func (s Stage) ShortName() string {
	switch s {
	case StageFetch:
		return "P0"
	case StageFilter:
		return "P1"
	case StagePeriodKeys:
		return "P2"
	case StageAggregate, StageRatio:
		return "P3"
	case StageProject:
		return "P4"
	case StageOutlier:
		return "P5"
	default:
		return "UNKNOWN"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageFetch,
		StageFilter,
		StagePeriodKeys,
		StageAggregate,
		StageRatio,
		StageProject,
		StageOutlier,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}
