package app

import (
	"fmt"

	"gocalib/domain/study"
	"gocalib/internal"
	"gocalib/internal/errors"
	"gocalib/ports"
)

// TableLoader rebuilds a scored participant table from a previously
// processed flat file, so the analysis commands can run without re-reading
// the raw workbook.
type TableLoader struct {
	coercer     ports.ValueCoercer
	groupColumn string
	logger      *internal.Logger
}

// NewTableLoader creates a table loader. groupColumn names the header
// carrying the group label; empty selects the canonical "group", so tables
// produced elsewhere can relabel that one column.
func NewTableLoader(coercer ports.ValueCoercer, groupColumn string, logger *internal.Logger) *TableLoader {
	if groupColumn == "" {
		groupColumn = study.GroupColumn
	}
	return &TableLoader{
		coercer:     coercer,
		groupColumn: groupColumn,
		logger:      logger.WithComponent("Loader"),
	}
}

// Load reads the processed table through the given source. The source's
// single sheet must carry the pipeline's column layout: participant, group
// and at least one correct_i column.
func (l *TableLoader) Load(source ports.SheetSource) (*study.Table, error) {
	raw, err := source.ReadSheet("")
	if err != nil {
		return nil, errors.IngestFailed("failed to read processed table", err)
	}

	headerSet := make(map[string]bool, len(raw.Headers))
	for _, header := range raw.Headers {
		headerSet[header] = true
	}
	if !headerSet["participant"] || !headerSet[l.groupColumn] {
		return nil, errors.InvalidInput(fmt.Sprintf(
			"not a processed results table: participant/%s columns missing", l.groupColumn))
	}

	questions := 0
	for headerSet[fmt.Sprintf("correct_%d", questions+1)] {
		questions++
	}
	if questions == 0 {
		return nil, errors.InvalidInput("not a processed results table: no correct_i columns")
	}

	table := &study.Table{
		NQuestions: questions,
		Questions:  questions,
		UseABS:     headerSet[study.ColTotalABS],
		UseCWS:     headerSet[study.ColTotalCWS],
	}

	for _, rowData := range raw.Rows {
		row := study.Row{
			Participant: rowData["participant"],
			Group:       rowData[l.groupColumn],
			Correct:     l.valueBlock(rowData, "correct_%d", questions),
			Conf:        l.valueBlock(rowData, "conf_%d", questions),
			P:           l.valueBlock(rowData, "p_%d", questions),
			MeanConf:    l.coercer.NumericValue(rowData[study.ColMeanConf]),
		}
		if table.UseABS {
			row.ABS = l.valueBlock(rowData, "abs_%d", questions)
			row.TotalABS = l.scalar(rowData, study.ColTotalABS)
		}
		if table.UseCWS {
			row.CWS = l.valueBlock(rowData, "cws_%d", questions)
			row.TotalCWS = l.scalar(rowData, study.ColTotalCWS)
		}
		row.TotalCorrect = l.scalar(rowData, study.ColTotalCorrect)
		row.Accuracy = l.scalar(rowData, study.ColAccuracy)

		table.Rows = append(table.Rows, row)
	}

	l.logger.Info("loaded %d participants across %d questions", len(table.Rows), questions)
	return table, nil
}

func (l *TableLoader) valueBlock(row study.RawRowData, pattern string, n int) []study.Value {
	values := make([]study.Value, n)
	for i := 0; i < n; i++ {
		values[i] = l.coercer.NumericValue(row[fmt.Sprintf(pattern, i+1)])
	}
	return values
}

// scalar reads a participant-level total; the pipeline always writes these,
// so an unparseable cell reads as zero rather than missing.
func (l *TableLoader) scalar(row study.RawRowData, column string) float64 {
	if v, ok := l.coercer.NumericValue(row[column]).Float64(); ok {
		return v
	}
	return 0
}
