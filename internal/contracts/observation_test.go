package contracts

import (
	"errors"
	"testing"
)

func TestPeriod_Label(t *testing.T) {
	tests := []struct {
		period Period
		want   string
	}{
		{Period{2023, 1}, "2023 T1"},
		{Period{2024, 4}, "2024 T4"},
		{Period{999, 2}, "999 T2"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.period.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPeriod_LabelRoundTrip(t *testing.T) {
	for year := 2019; year <= 2026; year++ {
		for quarter := 1; quarter <= 4; quarter++ {
			p := Period{Year: year, Quarter: quarter}
			parsed, err := ParsePeriodLabel(p.Label())
			if err != nil {
				t.Fatalf("ParsePeriodLabel(%q) error = %v", p.Label(), err)
			}
			if parsed != p {
				t.Errorf("round trip %v -> %q -> %v", p, p.Label(), parsed)
			}
		}
	}
}

func TestPeriod_OrderKeyStrictlyIncreasing(t *testing.T) {
	p := Period{Year: 2020, Quarter: 1}
	for i := 0; i < 40; i++ {
		next := p.Next()
		if next.OrderKey() <= p.OrderKey() {
			t.Fatalf("OrderKey(%v)=%d not greater than OrderKey(%v)=%d",
				next, next.OrderKey(), p, p.OrderKey())
		}
		if !p.Before(next) {
			t.Fatalf("expected %v before %v", p, next)
		}
		p = next
	}
}

func TestPeriod_Next(t *testing.T) {
	tests := []struct {
		in   Period
		want Period
	}{
		{Period{2023, 1}, Period{2023, 2}},
		{Period{2023, 3}, Period{2023, 4}},
		{Period{2023, 4}, Period{2024, 1}},
	}

	for _, tt := range tests {
		if got := tt.in.Next(); got != tt.want {
			t.Errorf("%v.Next() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPeriod_Compare(t *testing.T) {
	a := Period{2023, 4}
	b := Period{2024, 1}

	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("unexpected Compare results for %v and %v", a, b)
	}
}

func TestPeriod_Validate(t *testing.T) {
	for _, q := range []int{0, 5, 10, -1} {
		err := Period{Year: 2024, Quarter: q}.Validate()
		if !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("quarter %d: expected ErrInvalidPeriod, got %v", q, err)
		}
	}
	if err := (Period{Year: 2024, Quarter: 3}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParsePeriodLabel_Invalid(t *testing.T) {
	for _, label := range []string{"", "2024", "2024 Q1", "abcd T1", "2024 Tx", "2024 T5", "2024 T0"} {
		if _, err := ParsePeriodLabel(label); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("ParsePeriodLabel(%q): expected ErrInvalidPeriod, got %v", label, err)
		}
	}
}

func TestProvinceSeries_Helpers(t *testing.T) {
	s := ProvinceSeries{
		Province: "chaco",
		Points: []Observation{
			{Province: "chaco", Year: 2023, Quarter: 1, Value: 40},
			{Province: "chaco", Year: 2023, Quarter: 2, Value: 42},
			{Province: "chaco", Year: 2023, Quarter: 3, Value: 42.84, Projected: true},
		},
	}

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if got := s.Historical(); len(got) != 2 {
		t.Errorf("Historical() returned %d points, want 2", len(got))
	}
	if p, ok := s.Projection(); !ok || p.Quarter != 3 {
		t.Errorf("Projection() = %v, %v", p, ok)
	}

	empty := ProvinceSeries{Province: "jujuy"}
	if _, ok := empty.Last(); ok {
		t.Error("Last() on empty series should report false")
	}
	if _, ok := empty.Projection(); ok {
		t.Error("Projection() on empty series should report false")
	}
}

func TestAggregates_Sorted(t *testing.T) {
	aggs := Aggregates{"salta": 25, "chaco": 10, "jujuy": 0}

	sorted := aggs.Sorted()
	want := []string{"chaco", "jujuy", "salta"}
	for i, agg := range sorted {
		if agg.Key != want[i] {
			t.Errorf("Sorted()[%d].Key = %q, want %q", i, agg.Key, want[i])
		}
	}

	values := aggs.Values()
	if values[0] != 10 || values[2] != 25 {
		t.Errorf("Values() = %v", values)
	}
}

func TestLabeled(t *testing.T) {
	points := Labeled([]Observation{{Province: "caba", Year: 2024, Quarter: 2, Value: 120}})
	if points[0].Label != "2024 T2" || points[0].Value != 120 {
		t.Errorf("Labeled() = %+v", points[0])
	}
}

func TestReducerAndDimension(t *testing.T) {
	if !ReducerMean.Valid() || Reducer("median").Valid() {
		t.Error("unexpected Reducer.Valid result")
	}
	if !DimensionPeriod.Valid() || Dimension("city").Valid() {
		t.Error("unexpected Dimension.Valid result")
	}

	o := Observation{Province: "salta", Year: 2024, Quarter: 1}
	if DimensionProvince.KeyOf(o) != "salta" || DimensionPeriod.KeyOf(o) != "2024 T1" {
		t.Error("unexpected KeyOf result")
	}
}
