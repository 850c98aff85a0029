// Package excel provides Excel export of a health snapshot: the consolidated
// summary plus the active alert list, rendered as an .xlsx workbook.
package excel

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"obs-engine/internal/model"
)

const (
	// Sheet names
	sheetSummary = "Health Summary"
	sheetAlerts  = "Active Alerts"

	// Default sheet to remove
	defaultSheet = "Sheet1"

	// Colors for conditional formatting (RGB without #)
	colorCriticalBg = "FFC7CE" // Red background for critical
	colorCriticalFg = "9C0006" // Dark red text for critical
	colorWarningBg  = "FFEB9C" // Yellow background for warning
	colorWarningFg  = "9C6500" // Dark yellow text for warning
	colorHeaderBg   = "4472C4" // Blue background for header
	colorHeaderFg   = "FFFFFF" // White text for header

	// Column widths
	defaultColWidth = 15.0
	wideColWidth    = 30.0
)

// Snapshot is the material rendered into a workbook: one summary plus the
// alert list it was computed from.
type Snapshot struct {
	Summary model.HealthSummary
	Alerts  []*model.Alert
	TakenAt time.Time
}

// Writer renders health snapshots as Excel workbooks.
type Writer struct{}

// NewWriter creates a new Excel snapshot writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write generates the workbook at outputPath, appending the .xlsx extension
// when missing.
func (w *Writer) Write(snapshot *Snapshot, outputPath string) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.createSummarySheet(f, snapshot); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := w.createAlertsSheet(f, snapshot); err != nil {
		return fmt.Errorf("failed to create alerts sheet: %w", err)
	}

	_ = f.DeleteSheet(defaultSheet)

	idx, _ := f.GetSheetIndex(sheetSummary)
	f.SetActiveSheet(idx)

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// createSummarySheet renders the consolidated health summary as key/value rows.
func (w *Writer) createSummarySheet(f *excelize.File, snapshot *Snapshot) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: colorHeaderFg},
		Fill: excelize.Fill{Type: "pattern", Color: []string{colorHeaderBg}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	s := snapshot.Summary
	rows := [][2]string{
		{"Taken at", snapshot.TakenAt.UTC().Format(time.RFC3339)},
		{"Active alerts", strconv.Itoa(s.AlertCount)},
		{"Critical alerts", strconv.Itoa(s.CriticalCount)},
		{"Warning alerts", strconv.Itoa(s.WarningCount)},
		{"Healthy targets", fmt.Sprintf("%d / %d", s.HealthyTargets, s.TotalTargets)},
		{"All healthy", strconv.FormatBool(s.AllHealthy)},
		{"Storage bytes", formatGauge(s.StorageBytes)},
		{"Ingestion rate", formatGauge(s.IngestionRate)},
		{"Active series", formatGauge(s.ActiveSeries)},
	}

	_ = f.SetCellValue(sheetSummary, "A1", "Field")
	_ = f.SetCellValue(sheetSummary, "B1", "Value")
	_ = f.SetCellStyle(sheetSummary, "A1", "B1", headerStyle)

	for i, row := range rows {
		rowNum := i + 2
		_ = f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", rowNum), row[0])
		_ = f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", rowNum), row[1])
	}

	_ = f.SetColWidth(sheetSummary, "A", "A", defaultColWidth)
	_ = f.SetColWidth(sheetSummary, "B", "B", wideColWidth)

	return nil
}

// createAlertsSheet renders the active alert list with severity highlighting.
func (w *Writer) createAlertsSheet(f *excelize.File, snapshot *Snapshot) error {
	if _, err := f.NewSheet(sheetAlerts); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: colorHeaderFg},
		Fill: excelize.Fill{Type: "pattern", Color: []string{colorHeaderBg}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	criticalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: colorCriticalFg},
		Fill: excelize.Fill{Type: "pattern", Color: []string{colorCriticalBg}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	warningStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: colorWarningFg},
		Fill: excelize.Fill{Type: "pattern", Color: []string{colorWarningBg}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	headers := []string{"Name", "Severity", "State", "Duration", "Summary", "Fingerprint"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetAlerts, cell, h)
	}
	_ = f.SetCellStyle(sheetAlerts, "A1", "F1", headerStyle)

	for i, alert := range snapshot.Alerts {
		rowNum := i + 2
		values := []interface{}{
			alert.Name,
			string(alert.Severity),
			string(alert.State),
			alert.Duration,
			alert.Summary,
			alert.Fingerprint,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			_ = f.SetCellValue(sheetAlerts, cell, v)
		}

		severityCell := fmt.Sprintf("B%d", rowNum)
		switch alert.Severity {
		case model.SeverityCritical:
			_ = f.SetCellStyle(sheetAlerts, severityCell, severityCell, criticalStyle)
		case model.SeverityWarning:
			_ = f.SetCellStyle(sheetAlerts, severityCell, severityCell, warningStyle)
		}
	}

	_ = f.SetColWidth(sheetAlerts, "A", "D", defaultColWidth)
	_ = f.SetColWidth(sheetAlerts, "E", "F", wideColWidth)

	return nil
}

// formatGauge renders an optional gauge value, keeping "no data" visible
// as N/A rather than zero.
func formatGauge(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
