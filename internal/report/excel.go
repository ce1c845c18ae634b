// Package report renders KPI reports as Excel workbooks and PNG charts.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// ContentTypeXLSX is the MIME type of Export output
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Reports groups the KPI reports of one export. Nil reports get no sheet.
type Reports struct {
	Internet *contracts.InternetReport
	Fiber    *contracts.FiberReport
	Mobile   *contracts.MobileReport
}

// Table is one sheet: a bold title, a header row and data rows
type Table struct {
	Sheet   string
	Title   string
	Headers []string
	Rows    [][]interface{}
}

// Tables flattens the reports into sheets, in KPI order
func (r Reports) Tables() []Table {
	var tables []Table

	if r.Internet != nil {
		tables = append(tables, internetTables(r.Internet)...)
	}
	if r.Fiber != nil {
		tables = append(tables, fiberTables(r.Fiber)...)
	}
	if r.Mobile != nil {
		tables = append(tables, mobileTables(r.Mobile)...)
	}
	return tables
}

// Export writes one sheet per table to w
func Export(w io.Writer, tables []Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("export: no tables")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(t.Sheet); err != nil {
			return fmt.Errorf("create sheet %q: %w", t.Sheet, err)
		}

		if err := writeTable(f, t, headerStyle, titleStyle); err != nil {
			return fmt.Errorf("write sheet %q: %w", t.Sheet, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, t Table, headerStyle, titleStyle int) error {
	if err := f.SetCellValue(t.Sheet, "A1", t.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(t.Sheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	// row 2 stays blank
	const headerRow = 3
	for col, header := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, headerRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(t.Sheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(t.Sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, headerRow+1+r)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(t.Sheet, cell, &values); err != nil {
			return err
		}
	}

	if len(t.Headers) == 0 {
		return nil
	}
	lastCol, err := excelize.ColumnNumberToName(len(t.Headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(t.Sheet, "A", lastCol, 18); err != nil {
		return err
	}
	if err := f.SetPanes(t.Sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	if len(t.Rows) > 0 {
		ref := fmt.Sprintf("A%d:%s%d", headerRow, lastCol, headerRow+len(t.Rows))
		if err := f.AutoFilter(t.Sheet, ref, nil); err != nil {
			return err
		}
	}
	return nil
}

func internetTables(r *contracts.InternetReport) []Table {
	penetration := Table{
		Sheet:   "Internet",
		Title:   fmt.Sprintf("Internet accesses per 100 households since %d", r.MinYear),
		Headers: []string{"Province", "Period", "Accesses per 100 households"},
	}
	for _, p := range r.Penetration {
		penetration.Rows = append(penetration.Rows, []interface{}{p.Province, p.Label, p.Value})
	}

	comparison := Table{
		Sheet:   "Internet projection",
		Title:   fmt.Sprintf("%s vs next quarter (+%s)", r.LatestPeriod, percent(r.GrowthRate)),
		Headers: []string{"Province", "Current", "Projected"},
	}
	for _, c := range r.Comparison {
		comparison.Rows = append(comparison.Rows, []interface{}{c.Key, c.Current, c.Projected})
	}

	return []Table{penetration, comparison}
}

func fiberTables(r *contracts.FiberReport) []Table {
	coverage := Table{
		Sheet:   "Fiber coverage",
		Title:   "Localities with fiber optic per province",
		Headers: []string{"Province", "Localities with fiber", "Localities", "Coverage %"},
	}
	for _, c := range r.Coverage {
		coverage.Rows = append(coverage.Rows, []interface{}{c.Key, c.Numerator, c.Denominator, c.Percentage})
	}

	lowest := Table{
		Sheet:   "Fiber lowest quartile",
		Title:   fmt.Sprintf("Provinces below Q1 (%.2f%%)", r.QuartileThreshold),
		Headers: []string{"Province", "Coverage %", "Projected %"},
	}
	for _, l := range r.LowestCoverage {
		lowest.Rows = append(lowest.Rows, []interface{}{l.Key, l.Current, l.Projected})
	}
	lowest.Rows = append(lowest.Rows,
		[]interface{}{},
		[]interface{}{"National mean", r.Cards.NationalMean, r.Cards.Target},
	)

	return []Table{coverage, lowest}
}

func mobileTables(r *contracts.MobileReport) []Table {
	evolution := Table{
		Sheet:   "Mobile",
		Title:   fmt.Sprintf("Postpaid mobile accesses since %d (+%s projection)", r.MinYear, percent(r.GrowthRate)),
		Headers: []string{"Period", "Postpaid accesses", "Projected"},
	}
	for _, p := range r.Evolution {
		evolution.Rows = append(evolution.Rows, []interface{}{p.Label, p.Value, p.Projected})
	}

	d := r.Distribution
	distribution := Table{
		Sheet:   "Mobile distribution",
		Title:   fmt.Sprintf("Postpaid vs prepaid accesses %d", d.Year),
		Headers: []string{"Plan", "Accesses", "Share %"},
		Rows: [][]interface{}{
			{"Postpaid", d.Postpaid, d.PostpaidShare},
			{"Prepaid", d.Prepaid, d.PrepaidShare},
		},
	}

	return []Table{evolution, distribution}
}

// percent formats 0.02 as "2%"
func percent(rate float64) string {
	return fmt.Sprintf("%.4g%%", rate*100)
}
