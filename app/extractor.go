package app

import (
	"gocalib/domain/study"
	"gocalib/internal"
	"gocalib/internal/errors"
	"gocalib/ports"
)

// GroupSheet is one raw partition tagged with its group label before union.
type GroupSheet struct {
	Label string
	Table *study.RawTable
}

// RowExtractor turns tagged raw sheets into the tidy participant table. It
// unions the partitions, discovers the score/confidence column schema by
// naming convention, filters non-participant rows and projects exactly the
// participant, group, correct_i and conf_i columns.
type RowExtractor struct {
	coercer ports.ValueCoercer
	logger  *internal.Logger
}

// NewRowExtractor creates a row extractor
func NewRowExtractor(coercer ports.ValueCoercer, logger *internal.Logger) *RowExtractor {
	return &RowExtractor{
		coercer: coercer,
		logger:  logger.WithComponent("Extractor"),
	}
}

// taggedRow carries one raw row through the union with its group label.
type taggedRow struct {
	group string
	data  study.RawRowData
}

// Extract runs the full extraction pass. The returned schema carries any
// column-count warnings; those are advisory and already logged. Finding no
// score columns at all is fatal.
func (e *RowExtractor) Extract(sheets []GroupSheet, nQuestions int) (*study.Table, *study.Schema, error) {
	headers, rows := e.union(sheets)

	schema, err := study.DiscoverSchema(headers, nQuestions)
	if err != nil {
		return nil, nil, errors.WithCode(errors.CodeSchemaInvalid, err)
	}
	for _, warning := range schema.Warnings {
		e.logger.Warn("%s", warning)
	}

	strategy, namer := schema.ParticipantNamer()
	e.logger.Debug("participant naming strategy: %s", strategy)

	table := &study.Table{
		NQuestions: nQuestions,
		Questions:  len(schema.Questions),
	}

	// Secondary validity filter: the first score column must parse as a
	// number, which drops header echoes and blank trailer rows.
	firstScore := schema.FirstScoreColumn()
	index := 0
	for _, row := range rows {
		if probe := e.coercer.NumericValue(row.data[firstScore]); probe.IsMissing {
			continue
		}
		index++
		table.Rows = append(table.Rows, e.project(row, schema, namer, index))
	}

	if len(table.Rows) == 0 {
		e.logger.Warn("no participant rows survived extraction")
	}
	e.logger.Info("extracted %d participants across %d questions", len(table.Rows), table.Questions)

	return table, schema, nil
}

// union applies the per-sheet timestamp validity filter, tags each surviving
// row with its group label and merges the partitions. Headers keep the first
// sheet's order with later sheets' unseen columns appended.
func (e *RowExtractor) union(sheets []GroupSheet) ([]string, []taggedRow) {
	var headers []string
	seen := make(map[string]bool)
	var rows []taggedRow

	for _, sheet := range sheets {
		hasTimestamp := false
		for _, header := range sheet.Table.Headers {
			if !seen[header] {
				seen[header] = true
				headers = append(headers, header)
			}
			if header == study.TimestampColumn {
				hasTimestamp = true
			}
		}

		kept := 0
		for _, row := range sheet.Table.Rows {
			if hasTimestamp && !e.coercer.IsTimestamp(row[study.TimestampColumn]) {
				continue
			}
			kept++
			rows = append(rows, taggedRow{group: sheet.Label, data: row})
		}
		e.logger.Info("sheet %q: %d of %d rows pass the timestamp filter",
			sheet.Label, kept, len(sheet.Table.Rows))
	}

	return headers, rows
}

// project emits one tidy row: participant, group and the numeric-coerced
// correct_i/conf_i pairs in canonical question order.
func (e *RowExtractor) project(row taggedRow, schema *study.Schema, namer study.RowNamer, index int) study.Row {
	tidy := study.Row{
		Participant: namer(row.data, index),
		Group:       row.group,
		Correct:     make([]study.Value, len(schema.Questions)),
		Conf:        make([]study.Value, len(schema.Questions)),
	}
	for i, pair := range schema.Questions {
		tidy.Correct[i] = e.coercer.NumericValue(row.data[pair.Score])
		tidy.Conf[i] = e.coercer.NumericValue(row.data[pair.Confidence])
	}
	return tidy
}
