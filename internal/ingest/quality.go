package ingest

import (
	"fmt"
	"sort"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// QualityConfig holds the gate threshold
type QualityConfig struct {
	MinScore float64 `yaml:"min_score"` // 0.5
}

// QualitySnapshot is the coverage of one fetched dataset
type QualitySnapshot struct {
	Coverage        map[string]float64 `json:"coverage"`
	Score           float64            `json:"score"`
	LatestPeriod    string             `json:"latest_period,omitempty"`
	MissingInternet []string           `json:"missing_internet,omitempty"` // provinces without a row in LatestPeriod
	Unresolved      []string           `json:"unresolved,omitempty"`       // province names no lookup matches
}

// qualityWeights sum to 1.0
var qualityWeights = map[string]float64{
	"internet":   0.35, // provinces with penetration in the latest period
	"localities": 0.25, // provinces with at least one locality
	"mobile":     0.20, // internet periods that also have mobile totals
	"resolved":   0.20, // rows whose province name resolves
}

// QualityGate scores a dataset before it is written
// ⭐ SSOT: fetch → write quality check
type QualityGate struct {
	config QualityConfig
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(config QualityConfig) *QualityGate {
	return &QualityGate{config: config}
}

// Check scores ds and fails when the score is below MinScore
func (g *QualityGate) Check(ds contracts.Dataset) (*QualitySnapshot, error) {
	snapshot := &QualitySnapshot{Coverage: make(map[string]float64)}

	total := float64(len(contracts.Provinces()))

	internetByPeriod := make(map[contracts.Period]map[string]struct{})
	var latest contracts.Period
	for _, o := range ds.Internet {
		p := o.Period()
		if internetByPeriod[p] == nil {
			internetByPeriod[p] = make(map[string]struct{})
		}
		if info, ok := contracts.LookupProvince(o.Province); ok {
			internetByPeriod[p][info.Name] = struct{}{}
		}
		if latest.Before(p) {
			latest = p
		}
	}
	if len(internetByPeriod) > 0 {
		snapshot.LatestPeriod = latest.Label()
		present := internetByPeriod[latest]
		snapshot.Coverage["internet"] = float64(len(present)) / total
		for _, info := range contracts.Provinces() {
			if _, ok := present[info.Name]; !ok {
				snapshot.MissingInternet = append(snapshot.MissingInternet, info.Name)
			}
		}
	}

	withLocalities := make(map[string]struct{})
	for _, l := range ds.Localities {
		if info, ok := contracts.LookupProvince(l.Province); ok {
			withLocalities[info.Name] = struct{}{}
		}
	}
	snapshot.Coverage["localities"] = float64(len(withLocalities)) / total

	if len(internetByPeriod) > 0 {
		mobilePeriods := make(map[contracts.Period]struct{})
		for _, m := range ds.Mobile {
			mobilePeriods[m.Period()] = struct{}{}
		}
		covered := 0
		for p := range internetByPeriod {
			if _, ok := mobilePeriods[p]; ok {
				covered++
			}
		}
		snapshot.Coverage["mobile"] = float64(covered) / float64(len(internetByPeriod))
	} else if len(ds.Mobile) > 0 {
		snapshot.Coverage["mobile"] = 1
	}

	snapshot.Unresolved = unresolvedProvinces(ds)
	named := len(ds.Internet) + len(ds.Localities)
	if named > 0 {
		bad := 0
		for _, o := range ds.Internet {
			if _, ok := contracts.LookupProvince(o.Province); !ok {
				bad++
			}
		}
		for _, l := range ds.Localities {
			if _, ok := contracts.LookupProvince(l.Province); !ok {
				bad++
			}
		}
		snapshot.Coverage["resolved"] = float64(named-bad) / float64(named)
	}

	snapshot.Score = g.calculateScore(snapshot.Coverage)

	if snapshot.Score < g.config.MinScore {
		return snapshot, fmt.Errorf("%w: quality score %.2f below %.2f",
			contracts.ErrDataInconsistency, snapshot.Score, g.config.MinScore)
	}
	return snapshot, nil
}

// calculateScore calculates overall quality score using weighted average
func (g *QualityGate) calculateScore(coverage map[string]float64) float64 {
	score := 0.0
	for key, weight := range qualityWeights {
		score += coverage[key] * weight
	}
	return score
}

func unresolvedProvinces(ds contracts.Dataset) []string {
	seen := make(map[string]struct{})
	for _, o := range ds.Internet {
		if _, ok := contracts.LookupProvince(o.Province); !ok {
			seen[o.Province] = struct{}{}
		}
	}
	for _, l := range ds.Localities {
		if _, ok := contracts.LookupProvince(l.Province); !ok {
			seen[l.Province] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
