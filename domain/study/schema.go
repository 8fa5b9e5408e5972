package study

import (
	"fmt"
	"strconv"
	"strings"
)

// Column conventions of the exported response sheets.
const (
	ScoreSuffix      = "[Score]"
	ConfidencePrefix = "How confident"
	NamePhrase       = "What is your name"
	TimestampColumn  = "Timestamp"
	GroupColumn      = "group"
)

// QuestionColumns pairs the score and confidence headers for one question.
type QuestionColumns struct {
	Score      string
	Confidence string
}

// Schema is the typed result of column discovery over a header row.
// Questions keep the original left-to-right header order, which is the
// canonical question order 1..N.
type Schema struct {
	Questions    []QuestionColumns
	NameColumn   string // empty when no name column exists
	HasTimestamp bool
	Warnings     []string
}

// DiscoverSchema locates score and confidence columns by naming convention
// (score headers end with ScoreSuffix, confidence headers start with
// ConfidencePrefix) and pairs them positionally. A discovered count that
// differs from nQuestions is recorded as a warning and pairing truncates to
// the shorter list, capped at nQuestions. Finding no score columns at all is
// fatal: the first score column doubles as the row-validity probe.
func DiscoverSchema(headers []string, nQuestions int) (*Schema, error) {
	schema := &Schema{}

	var scoreCols, confCols []string
	for _, header := range headers {
		if strings.HasSuffix(header, ScoreSuffix) {
			scoreCols = append(scoreCols, header)
		}
		if strings.HasPrefix(header, ConfidencePrefix) {
			confCols = append(confCols, header)
		}
		if schema.NameColumn == "" && strings.Contains(header, NamePhrase) {
			schema.NameColumn = header
		}
		if header == TimestampColumn {
			schema.HasTimestamp = true
		}
	}

	if len(scoreCols) == 0 {
		return nil, fmt.Errorf("no score columns found (headers ending with %q)", ScoreSuffix)
	}
	if len(scoreCols) != nQuestions {
		schema.Warnings = append(schema.Warnings,
			fmt.Sprintf("expected %d score columns, found %d", nQuestions, len(scoreCols)))
	}
	if len(confCols) != nQuestions {
		schema.Warnings = append(schema.Warnings,
			fmt.Sprintf("expected %d confidence columns, found %d", nQuestions, len(confCols)))
	}

	pairs := len(scoreCols)
	if len(confCols) < pairs {
		pairs = len(confCols)
	}
	if pairs > nQuestions {
		pairs = nQuestions
	}
	for i := 0; i < pairs; i++ {
		schema.Questions = append(schema.Questions, QuestionColumns{
			Score:      scoreCols[i],
			Confidence: confCols[i],
		})
	}

	return schema, nil
}

// FirstScoreColumn returns the row-validity probe column.
func (s *Schema) FirstScoreColumn() string {
	if len(s.Questions) == 0 {
		return ""
	}
	return s.Questions[0].Score
}

// RowNamer renders the participant identifier for one row; index is the
// 1-based position among validated rows.
type RowNamer func(row RawRowData, index int) string

// nameStrategy is one dataset-level naming rule. try returns the per-row
// extractor when the rule applies to the discovered schema.
type nameStrategy struct {
	name string
	try  func(s *Schema) (RowNamer, bool)
}

// Ordered fallback chain for participant naming: explicit name column, then
// the timestamp rendered as text, then a synthetic 1-based row index.
var nameStrategies = []nameStrategy{
	{
		name: "name-column",
		try: func(s *Schema) (RowNamer, bool) {
			if s.NameColumn == "" {
				return nil, false
			}
			column := s.NameColumn
			return func(row RawRowData, _ int) string {
				return row[column]
			}, true
		},
	},
	{
		name: "timestamp",
		try: func(s *Schema) (RowNamer, bool) {
			if !s.HasTimestamp {
				return nil, false
			}
			return func(row RawRowData, _ int) string {
				return row[TimestampColumn]
			}, true
		},
	},
	{
		name: "row-index",
		try: func(s *Schema) (RowNamer, bool) {
			return func(_ RawRowData, index int) string {
				return strconv.Itoa(index)
			}, true
		},
	},
}

// ParticipantNamer picks the first naming strategy that applies to this
// schema and returns the strategy name with the per-row extractor. The
// row-index strategy always applies, so the chain cannot come up empty.
func (s *Schema) ParticipantNamer() (string, RowNamer) {
	for _, strategy := range nameStrategies {
		if namer, ok := strategy.try(s); ok {
			return strategy.name, namer
		}
	}
	// unreachable: row-index always matches
	return "row-index", func(_ RawRowData, index int) string {
		return strconv.Itoa(index)
	}
}
