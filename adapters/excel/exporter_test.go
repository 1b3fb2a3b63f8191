package excel

import (
	"path/filepath"
	"testing"

	"fieldbook/domain/record"
	"fieldbook/domain/schema"
	"fieldbook/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExporter_Export(t *testing.T) {
	s, err := schema.New("trip costs", []schema.FieldDescriptor{
		{Name: "city", Type: schema.FieldTypeText},
		{Name: "cost", Type: schema.FieldTypeNumber},
	})
	require.NoError(t, err)

	datas := []record.Data{
		{"city": schema.NewTextValue("oslo"), "cost": schema.NewNumberValue(120)},
		{"cost": schema.NewNumberValue(80)},
	}
	summaries := stats.Compute(s.Fields, datas)

	dir := t.TempDir()
	path, err := NewExporter(dir).Export(s, datas, summaries)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "trip_costs.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// Header follows schema field order.
	rows, err := f.GetRows(recordsSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, []string{"city", "cost"}, rows[0])
	assert.Equal(t, "oslo", rows[1][0])

	// Summary sheet carries the computed count.
	cell, err := f.GetCellValue(summarySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "cost", cell)
	count, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", count)
}

func TestExporter_OmittedFieldLeftOutOfSummary(t *testing.T) {
	s, err := schema.New("sparse", []schema.FieldDescriptor{
		{Name: "v", Type: schema.FieldTypeNumber},
	})
	require.NoError(t, err)

	// No usable values: summary sheet gets a header and nothing else.
	path, err := NewExporter(t.TempDir()).Export(s, nil, stats.Compute(s.Fields, nil))
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "trip_costs.xlsx", exportFilename("trip costs"))
	assert.Equal(t, "export.xlsx", exportFilename("///"))
	assert.Equal(t, "a-b_c.xlsx", exportFilename("a-b_c"))
}
