package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/soltixdb/trendlens/internal/models"
)

// Sheet names of the exported workbook
const (
	SheetAnalysis = "Analysis"
	SheetForecast = "Forecast"
	SheetSummary  = "Summary"
)

var analysisHeader = []interface{}{
	"Country", "Data Points", "Time Range", "Earliest Value", "Latest Value",
	"Trend", "Avg Growth Rate (%)", "Volatility (%)",
}

// WriteXLSX writes a workbook with one row per selected entity, the forecast
// points, and the global summary.
func WriteXLSX(w io.Writer, r *models.AnalysisResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetAnalysis); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetForecast); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}

	if err := writeRow(f, SheetAnalysis, 1, analysisHeader); err != nil {
		return err
	}
	if err := writeRow(f, SheetForecast, 1, []interface{}{"Country", "Period", "Value"}); err != nil {
		return err
	}

	forecastRow := 2
	for i, a := range r.EntityAnalyses {
		row := []interface{}{
			a.Entity, a.DataPoints, a.TimeRange, a.EarliestValue, a.LatestValue,
			a.Trend, a.GrowthRate, a.Volatility,
		}
		if err := writeRow(f, SheetAnalysis, i+2, row); err != nil {
			return err
		}
		for _, p := range a.Forecast {
			if err := writeRow(f, SheetForecast, forecastRow, []interface{}{a.Entity, p.Period, p.Value}); err != nil {
				return err
			}
			forecastRow++
		}
	}

	summary := [][]interface{}{
		{"Indicator", r.Indicator},
		{"Total Countries", r.TotalEntities},
		{"Selected", len(r.EntityAnalyses)},
	}
	if s := r.GlobalSummary; s != nil {
		summary = append(summary,
			[]interface{}{"Max Value", s.MaxValue},
			[]interface{}{"Min Value", s.MinValue},
			[]interface{}{"Mean Value", s.MeanValue},
			[]interface{}{"Median Value", s.MedianValue},
		)
	}
	for i, row := range summary {
		if err := writeRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// XLSXBytes renders the workbook into memory
func XLSXBytes(r *models.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
