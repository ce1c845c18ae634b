package contracts

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Observation is one period-tagged metric value for a province.
// Identity within a metric series is (Province, Year, Quarter).
// ⭐ SSOT: every pipeline stage consumes and produces Observations
type Observation struct {
	Province  string  `json:"province"`
	Year      int     `json:"year"`
	Quarter   int     `json:"quarter"`
	Value     float64 `json:"value"`
	Projected bool    `json:"projected"` // synthetic point appended by the projector
}

// Period returns the (year, quarter) of the observation
func (o Observation) Period() Period {
	return Period{Year: o.Year, Quarter: o.Quarter}
}

// Period is a (year, quarter) reporting interval
type Period struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter"`
}

// Label formats the period as "{year} T{quarter}" (e.g. "2024 T1")
func (p Period) Label() string {
	return fmt.Sprintf("%d T%d", p.Year, p.Quarter)
}

// OrderKey returns year*10+quarter.
// Only monotonic while 1 <= quarter <= 4; sorting uses Compare instead.
func (p Period) OrderKey() int {
	return p.Year*10 + p.Quarter
}

// Compare orders periods by (year, quarter): -1, 0 or +1
func (p Period) Compare(other Period) int {
	switch {
	case p.Year < other.Year:
		return -1
	case p.Year > other.Year:
		return 1
	case p.Quarter < other.Quarter:
		return -1
	case p.Quarter > other.Quarter:
		return 1
	default:
		return 0
	}
}

// Before reports whether p is strictly earlier than other
func (p Period) Before(other Period) bool {
	return p.Compare(other) < 0
}

// Next returns the following quarter; Q4 rolls over to Q1 of the next year
func (p Period) Next() Period {
	if p.Quarter >= 4 {
		return Period{Year: p.Year + 1, Quarter: 1}
	}
	return Period{Year: p.Year, Quarter: p.Quarter + 1}
}

// IsZero reports whether the period is unset (e.g. locality snapshots)
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Quarter == 0
}

// Validate rejects quarters outside 1..4
func (p Period) Validate() error {
	if p.Quarter < 1 || p.Quarter > 4 {
		return &InvalidPeriodError{
			Year:    p.Year,
			Quarter: p.Quarter,
			Reason:  "quarter must be between 1 and 4",
		}
	}
	return nil
}

// ParsePeriodLabel parses "{year} T{quarter}" back into a Period
func ParsePeriodLabel(label string) (Period, error) {
	yearStr, quarterStr, ok := strings.Cut(strings.TrimSpace(label), " T")
	if !ok {
		return Period{}, &InvalidPeriodError{Label: label, Reason: `expected "{year} T{quarter}"`}
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Period{}, &InvalidPeriodError{Label: label, Reason: "year is not a number"}
	}
	quarter, err := strconv.Atoi(quarterStr)
	if err != nil {
		return Period{}, &InvalidPeriodError{Label: label, Reason: "quarter is not a number"}
	}

	p := Period{Year: year, Quarter: quarter}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// ProvinceSeries is the period-ordered history of one province.
// Points are ascending with no duplicate periods; a projected point, if any, is last.
type ProvinceSeries struct {
	Province string        `json:"province"`
	Points   []Observation `json:"points"`
}

// Len returns the number of points including a projected one
func (s ProvinceSeries) Len() int {
	return len(s.Points)
}

// Last returns the chronologically last point
func (s ProvinceSeries) Last() (Observation, bool) {
	if len(s.Points) == 0 {
		return Observation{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Historical returns a copy of the points without the projected one
func (s ProvinceSeries) Historical() []Observation {
	out := make([]Observation, 0, len(s.Points))
	for _, p := range s.Points {
		if !p.Projected {
			out = append(out, p)
		}
	}
	return out
}

// Projection returns the projected point, if present
func (s ProvinceSeries) Projection() (Observation, bool) {
	last, ok := s.Last()
	if !ok || !last.Projected {
		return Observation{}, false
	}
	return last, true
}

// SeriesPoint is an Observation with its period label, for charts and JSON
type SeriesPoint struct {
	Observation
	Label string `json:"label"`
}

// Labeled attaches period labels to observations
func Labeled(obs []Observation) []SeriesPoint {
	out := make([]SeriesPoint, len(obs))
	for i, o := range obs {
		out[i] = SeriesPoint{Observation: o, Label: o.Period().Label()}
	}
	return out
}

// Aggregates maps a group key to its reduced value
type Aggregates map[string]float64

// Aggregate is one group of Aggregates
type Aggregate struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Sorted returns the groups ordered by key
func (a Aggregates) Sorted() []Aggregate {
	out := make([]Aggregate, 0, len(a))
	for k, v := range a {
		out = append(out, Aggregate{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Values returns the values ordered by key
func (a Aggregates) Values() []float64 {
	sorted := a.Sorted()
	out := make([]float64, len(sorted))
	for i, agg := range sorted {
		out[i] = agg.Value
	}
	return out
}

// RatioResult is numerator/denominator*100 for one group
type RatioResult struct {
	Key         string  `json:"key"`
	Numerator   float64 `json:"numerator"`
	Denominator float64 `json:"denominator"`
	Percentage  float64 `json:"percentage"`
}

// ProjectedAggregate is a group value with its naive projection
type ProjectedAggregate struct {
	Key        string  `json:"key"`
	Current    float64 `json:"current"`
	Projected  float64 `json:"projected"`
	GrowthRate float64 `json:"growth_rate"`
}

// Reducer selects how observations of a group collapse into one value
type Reducer string

const (
	ReducerCount Reducer = "count"
	ReducerMean  Reducer = "mean"
	ReducerSum   Reducer = "sum"
)

// Valid reports whether r is a supported reducer
func (r Reducer) Valid() bool {
	switch r {
	case ReducerCount, ReducerMean, ReducerSum:
		return true
	}
	return false
}

// Dimension selects the group key of an aggregation
type Dimension string

const (
	DimensionProvince Dimension = "province"
	DimensionPeriod   Dimension = "period"
)

// Valid reports whether d is a supported dimension
func (d Dimension) Valid() bool {
	return d == DimensionProvince || d == DimensionPeriod
}

// KeyOf returns the group key of o under d
func (d Dimension) KeyOf(o Observation) string {
	if d == DimensionPeriod {
		return o.Period().Label()
	}
	return o.Province
}
