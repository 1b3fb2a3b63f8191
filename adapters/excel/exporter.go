package excel

import (
	"fmt"
	"path/filepath"
	"strings"

	"fieldbook/domain/record"
	"fieldbook/domain/schema"
	"fieldbook/domain/stats"

	"github.com/xuri/excelize/v2"
)

const (
	recordsSheet = "Records"
	summarySheet = "Summary"
)

// Exporter writes a schema's record set plus its statistics summary to an
// .xlsx workbook. Column order follows schema field order.
type Exporter struct {
	dir string
}

// NewExporter creates an exporter writing into dir
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Export writes the workbook and returns its path.
func (e *Exporter) Export(s *schema.Schema, datas []record.Data, summaries map[string]stats.Summary) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeRecords(f, s, datas); err != nil {
		return "", err
	}
	if err := e.writeSummary(f, s, summaries); err != nil {
		return "", err
	}

	// Drop the default sheet so Records opens first.
	index, err := f.GetSheetIndex(recordsSheet)
	if err != nil {
		return "", fmt.Errorf("failed to locate records sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to remove default sheet: %w", err)
	}

	path := filepath.Join(e.dir, exportFilename(s.Name))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	return path, nil
}

func (e *Exporter) writeRecords(f *excelize.File, s *schema.Schema, datas []record.Data) error {
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return fmt.Errorf("failed to create records sheet: %w", err)
	}

	header := make([]interface{}, len(s.Fields))
	for i, field := range s.Fields {
		header[i] = field.Name
	}
	if err := f.SetSheetRow(recordsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, data := range datas {
		row := make([]interface{}, len(s.Fields))
		for j, field := range s.Fields {
			val, ok := data[field.Name]
			if !ok || val.Missing() {
				row[j] = ""
				continue
			}
			if n, ok := val.Float(); ok && field.Type == schema.FieldTypeNumber {
				row[j] = n
				continue
			}
			row[j] = val.String()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(recordsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write record row %d: %w", i+1, err)
		}
	}

	return nil
}

func (e *Exporter) writeSummary(f *excelize.File, s *schema.Schema, summaries map[string]stats.Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	header := []interface{}{"field", "count", "mean", "median", "min", "max", "variance", "standard_deviation"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	rowIdx := 2
	for _, field := range s.NumericFields() {
		summary, ok := summaries[field.Name]
		if !ok {
			// Field omitted from the summary mapping: no numeric data.
			continue
		}
		row := []interface{}{
			field.Name, summary.Count, summary.Mean, summary.Median,
			summary.Min, summary.Max, summary.Variance, summary.StandardDeviation,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
		rowIdx++
	}

	return nil
}

// exportFilename derives a safe workbook filename from the schema name.
func exportFilename(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if safe == "" {
		safe = "export"
	}
	return safe + ".xlsx"
}
