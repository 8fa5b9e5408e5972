package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gocalib/domain/study"
)

// CSVExporter renders a scored participant table as a flat CSV document.
type CSVExporter struct{}

// NewCSVExporter creates a CSV exporter
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes the header row in the table's canonical column order
// followed by one record per participant. Missing values render as empty
// cells and no index column is written.
func (e *CSVExporter) Export(table *study.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(table.ColumnOrder()); err != nil {
		return nil, err
	}

	for i := range table.Rows {
		if err := w.Write(exportRecord(table, &table.Rows[i])); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders the table and persists it to path, creating parent
// directories on demand.
func (e *CSVExporter) WriteFile(path string, table *study.Table) error {
	data, err := e.Export(table)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func exportRecord(table *study.Table, row *study.Row) []string {
	record := []string{row.Participant, row.Group}

	for _, block := range [][]study.Value{row.Correct, row.Conf, row.P} {
		record = appendValues(record, block, table.Questions)
	}
	if table.UseABS {
		record = appendValues(record, row.ABS, table.Questions)
	}
	if table.UseCWS {
		record = appendValues(record, row.CWS, table.Questions)
	}

	record = append(record, formatFloat(row.TotalCorrect), formatFloat(row.Accuracy), row.MeanConf.String())
	if table.UseABS {
		record = append(record, formatFloat(row.TotalABS))
	}
	if table.UseCWS {
		record = append(record, formatFloat(row.TotalCWS))
	}
	return record
}

func appendValues(record []string, values []study.Value, n int) []string {
	for i := 0; i < n; i++ {
		if i < len(values) {
			record = append(record, values[i].String())
		} else {
			record = append(record, "")
		}
	}
	return record
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
