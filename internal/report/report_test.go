package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

func sampleReports() Reports {
	point := func(year, quarter int, value float64, projected bool) contracts.SeriesPoint {
		o := contracts.Observation{Province: "Argentina", Year: year, Quarter: quarter, Value: value, Projected: projected}
		return contracts.SeriesPoint{Observation: o, Label: o.Period().Label()}
	}

	return Reports{
		Internet: &contracts.InternetReport{
			MinYear:    2023,
			GrowthRate: 0.02,
			Penetration: []contracts.SeriesPoint{
				point(2024, 1, 44, false),
				point(2024, 2, 45, false),
			},
			LatestPeriod: "2024 T2",
			Comparison: []contracts.ProjectedAggregate{
				{Key: "CABA", Current: 125, Projected: 127.5, GrowthRate: 0.02},
				{Key: "Chaco", Current: 45, Projected: 45.9, GrowthRate: 0.02},
			},
		},
		Fiber: &contracts.FiberReport{
			Coverage: []contracts.RatioResult{
				{Key: "Jujuy", Numerator: 1, Denominator: 10, Percentage: 10},
				{Key: "CABA", Numerator: 1, Denominator: 1, Percentage: 100},
			},
			QuartileThreshold: 25,
			LowestCoverage:    []contracts.ProjectedAggregate{{Key: "Jujuy", Current: 10, Projected: 13, GrowthRate: 0.3}},
			Cards:             contracts.FiberCards{NationalMean: 52, Target: 57.2, TargetGrowthRate: 0.1},
		},
		Mobile: &contracts.MobileReport{
			MinYear:    2023,
			GrowthRate: 0.05,
			Evolution: []contracts.SeriesPoint{
				point(2024, 1, 8398514, false),
				point(2024, 2, 8397205, false),
				point(2024, 3, 8817065.25, true),
			},
			Distribution: contracts.MobileDistribution{Year: 2024, Postpaid: 16795719, Prepaid: 103800000},
		},
	}
}

func TestReportsTables(t *testing.T) {
	tables := sampleReports().Tables()

	sheets := make([]string, len(tables))
	for i, tbl := range tables {
		sheets[i] = tbl.Sheet
	}
	assert.Equal(t, []string{
		"Internet", "Internet projection",
		"Fiber coverage", "Fiber lowest quartile",
		"Mobile", "Mobile distribution",
	}, sheets)

	assert.Equal(t, "2024 T2 vs next quarter (+2%)", tables[1].Title)
	assert.Len(t, tables[4].Rows, 3)

	assert.Empty(t, Reports{}.Tables())
}

func TestExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleReports().Tables()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Internet", "Internet projection",
		"Fiber coverage", "Fiber lowest quartile",
		"Mobile", "Mobile distribution",
	}, f.GetSheetList())

	rows, err := f.GetRows("Internet projection")
	require.NoError(t, err)
	require.Len(t, rows, 5) // title, blank, header, two provinces
	assert.Equal(t, []string{"Province", "Current", "Projected"}, rows[2])
	assert.Equal(t, "CABA", rows[3][0])
	assert.Equal(t, "127.5", rows[3][2])

	title, err := f.GetCellValue("Fiber coverage", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Localities with fiber optic per province", title)
}

func TestExport_NoTables(t *testing.T) {
	assert.Error(t, Export(&bytes.Buffer{}, nil))
}

func TestCharts(t *testing.T) {
	reports := sampleReports()
	pngMagic := []byte("\x89PNG")

	for name, report := range map[string]interface{}{
		"internet": reports.Internet,
		"fiber":    reports.Fiber,
		"mobile":   reports.Mobile,
		"province": &contracts.ProvinceEvolution{Province: "Chaco", GrowthRate: 0.02, Points: reports.Internet.Penetration},
	} {
		t.Run(name, func(t *testing.T) {
			p, err := Chart(report)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, WritePNG(&buf, p))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestChart_Errors(t *testing.T) {
	_, err := Chart("not a report")
	assert.Error(t, err)

	_, err = SeriesChart("empty", "value", nil)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)

	_, err = RatioChart("empty", nil)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)

	_, err = ComparisonChart("empty", "value", nil)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "2%", percent(0.02))
	assert.Equal(t, "30%", percent(0.3))
}
