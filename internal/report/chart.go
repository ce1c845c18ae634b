package report

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

var (
	historicalColor = color.RGBA{R: 31, G: 78, B: 120, A: 255}
	projectedColor  = color.RGBA{R: 192, G: 57, B: 43, A: 255}
)

// Chart picks the chart of a report: comparison bars for internet, coverage
// bars for fiber, the series with its projection for mobile and provinces.
func Chart(report interface{}) (*plot.Plot, error) {
	switch r := report.(type) {
	case *contracts.InternetReport:
		return ComparisonChart(
			fmt.Sprintf("Internet accesses per 100 households: %s vs projection", r.LatestPeriod),
			"Accesses per 100 households", r.Comparison)
	case *contracts.ProvinceEvolution:
		return SeriesChart(
			fmt.Sprintf("Internet penetration: %s", r.Province),
			"Accesses per 100 households", r.Points)
	case *contracts.FiberReport:
		return RatioChart("Localities with fiber optic per province", r.Coverage)
	case *contracts.MobileReport:
		return SeriesChart(
			fmt.Sprintf("Postpaid mobile accesses (+%s projection)", percent(r.GrowthRate)),
			"Postpaid accesses", r.Evolution)
	default:
		return nil, fmt.Errorf("no chart for %T", report)
	}
}

// SeriesChart draws the historical points as a line and the projected point
// as a dashed continuation.
func SeriesChart(title, yLabel string, points []contracts.SeriesPoint) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, &contracts.InsufficientDataError{Reason: "empty series"}
	}

	p := newPlot(title, "Period", yLabel)

	var history, projection plotter.XYs
	labels := make([]string, len(points))
	for i, pt := range points {
		xy := plotter.XY{X: float64(i), Y: pt.Value}
		labels[i] = pt.Label
		if pt.Projected {
			// connect from the last historical point
			if len(history) > 0 {
				projection = append(projection, history[len(history)-1])
			}
			projection = append(projection, xy)
			continue
		}
		history = append(history, xy)
	}

	if len(history) > 0 {
		line, scatter, err := plotter.NewLinePoints(history)
		if err != nil {
			return nil, err
		}
		line.Color = historicalColor
		line.Width = vg.Points(2)
		scatter.GlyphStyle.Color = historicalColor
		p.Add(line, scatter)
		p.Legend.Add("Historical", line)
	}

	if len(projection) > 0 {
		line, scatter, err := plotter.NewLinePoints(projection)
		if err != nil {
			return nil, err
		}
		line.Color = projectedColor
		line.Width = vg.Points(2)
		line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		scatter.GlyphStyle.Color = projectedColor
		scatter.GlyphStyle.Radius = vg.Points(4)
		p.Add(line, scatter)
		p.Legend.Add("Projection", line)
	}

	p.Add(plotter.NewGrid())
	p.NominalX(labels...)
	p.Legend.Top = true
	return p, nil
}

// RatioChart draws one bar per group with its percentage on top
func RatioChart(title string, results []contracts.RatioResult) (*plot.Plot, error) {
	if len(results) == 0 {
		return nil, &contracts.InsufficientDataError{Stage: contracts.StageRatio, Reason: "no ratios to chart"}
	}

	p := newPlot(title, "Province", "Percentage")

	values := make(plotter.Values, len(results))
	labels := make([]string, len(results))
	for i, r := range results {
		values[i] = r.Percentage
		labels[i] = r.Key
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, err
	}
	bars.Color = historicalColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	valueLabels := make([]string, len(values))
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v}
		valueLabels[i] = fmt.Sprintf("%.1f%%", v)
	}
	text, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: valueLabels})
	if err != nil {
		return nil, err
	}
	p.Add(text)

	p.NominalX(labels...)
	rotateTicks(p)
	p.Y.Min = 0
	p.Y.Max = math.Max(100, maxValue(values)) * 1.05
	return p, nil
}

// ComparisonChart draws current and projected bars side by side per group
func ComparisonChart(title, yLabel string, aggs []contracts.ProjectedAggregate) (*plot.Plot, error) {
	if len(aggs) == 0 {
		return nil, &contracts.InsufficientDataError{Stage: contracts.StageProject, Reason: "nothing to compare"}
	}

	p := newPlot(title, "Province", yLabel)

	current := make(plotter.Values, len(aggs))
	projected := make(plotter.Values, len(aggs))
	labels := make([]string, len(aggs))
	for i, a := range aggs {
		current[i] = a.Current
		projected[i] = a.Projected
		labels[i] = a.Key
	}

	width := vg.Points(12)

	currentBars, err := plotter.NewBarChart(current, width)
	if err != nil {
		return nil, err
	}
	currentBars.Color = historicalColor
	currentBars.LineStyle.Width = vg.Length(0)
	currentBars.Offset = -width / 2

	projectedBars, err := plotter.NewBarChart(projected, width)
	if err != nil {
		return nil, err
	}
	projectedBars.Color = projectedColor
	projectedBars.LineStyle.Width = vg.Length(0)
	projectedBars.Offset = width / 2

	p.Add(currentBars, projectedBars)
	p.Legend.Add("Current", currentBars)
	p.Legend.Add(fmt.Sprintf("Projected (+%s)", percent(aggs[0].GrowthRate)), projectedBars)
	p.Legend.Top = true

	p.NominalX(labels...)
	rotateTicks(p)
	p.Y.Min = 0
	return p, nil
}

// WritePNG renders p as a 10x6 inch PNG
func WritePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(10*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func rotateTicks(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight
}

func maxValue(values plotter.Values) float64 {
	m := 0.0
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}
