package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gocalib/adapters/coercer"
	"gocalib/domain/study"
	"gocalib/internal"
	"gocalib/internal/errors"
)

func quietLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

func rawSheet(headers []string, rows ...study.RawRowData) *study.RawTable {
	return &study.RawTable{Headers: headers, Rows: rows}
}

func responseRow(stamp, name, score1, conf1, score2, conf2 string) study.RawRowData {
	return study.RawRowData{
		"Timestamp":          stamp,
		"What is your name?": name,
		"Question 1 [Score]": score1,
		"How confident are you in your answer to question 1?": conf1,
		"Question 2 [Score]": score2,
		"How confident are you in your answer to question 2?": conf2,
	}
}

var twoQuestionHeaders = []string{
	"Timestamp",
	"What is your name?",
	"Question 1 [Score]",
	"How confident are you in your answer to question 1?",
	"Question 2 [Score]",
	"How confident are you in your answer to question 2?",
}

func TestRowExtractor_TagsAndProjects(t *testing.T) {
	extractor := NewRowExtractor(coercer.New(), quietLogger())

	sheets := []GroupSheet{
		{Label: "CG", Table: rawSheet(twoQuestionHeaders,
			responseRow("1/15/2024 10:30:00", "Alice", "1", "7", "0", "4"),
		)},
		{Label: "EG", Table: rawSheet(twoQuestionHeaders,
			responseRow("1/15/2024 11:00:00", "Bob", "0", "6", "1", "2"),
		)},
	}

	table, schema, err := extractor.Extract(sheets, 2)
	assert.NoError(t, err)
	assert.Empty(t, schema.Warnings)
	assert.Equal(t, 2, table.Questions)

	assert.Len(t, table.Rows, 2)
	alice, bob := table.Rows[0], table.Rows[1]

	assert.Equal(t, "Alice", alice.Participant)
	assert.Equal(t, "CG", alice.Group)
	assert.Equal(t, study.NewNumericValue(1), alice.Correct[0])
	assert.Equal(t, study.NewNumericValue(7), alice.Conf[0])
	assert.Equal(t, study.NewNumericValue(0), alice.Correct[1])
	assert.Equal(t, study.NewNumericValue(4), alice.Conf[1])

	assert.Equal(t, "Bob", bob.Participant)
	assert.Equal(t, "EG", bob.Group)
	assert.Equal(t, study.NewNumericValue(2), bob.Conf[1])
}

func TestRowExtractor_TimestampFilterIsPerSheet(t *testing.T) {
	extractor := NewRowExtractor(coercer.New(), quietLogger())

	// The control sheet carries a Timestamp column with junk rows; the
	// experimental sheet has no Timestamp column at all, so its rows bypass
	// the timestamp filter entirely.
	noTimestampHeaders := twoQuestionHeaders[1:]
	egRow := responseRow("", "Eve", "1", "5", "1", "6")
	delete(egRow, "Timestamp")

	// One real response, a template row without a timestamp, a header echo,
	// and a preview row with a valid stamp but no scores.
	sheets := []GroupSheet{
		{Label: "CG", Table: rawSheet(twoQuestionHeaders,
			responseRow("1/15/2024 10:30:00", "Alice", "1", "7", "0", "4"),
			responseRow("", "Example answer", "", "", "", ""),
			responseRow("Timestamp", "header echo", "", "", "", ""),
			responseRow("1/15/2024 10:45:00", "Preview", "", "", "", ""),
		)},
		{Label: "EG", Table: rawSheet(noTimestampHeaders, egRow)},
	}

	table, _, err := extractor.Extract(sheets, 2)
	assert.NoError(t, err)

	// Alice survives both filters; the template and echo rows fail the
	// timestamp filter; the preview row passes it but fails the numeric
	// score probe; Eve bypasses the timestamp filter and has scores.
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "Alice", table.Rows[0].Participant)
	assert.Equal(t, "Eve", table.Rows[1].Participant)
}

func TestRowExtractor_UnionMergesHeaders(t *testing.T) {
	extractor := NewRowExtractor(coercer.New(), quietLogger())

	// The second sheet carries an extra trailing column the first sheet
	// lacks; discovery must still pair questions in first-sheet order.
	extendedHeaders := append(append([]string{}, twoQuestionHeaders...), "Question 3 [Score]",
		"How confident are you in your answer to question 3?")

	egRow := responseRow("1/16/2024 09:00:00", "Bob", "1", "6", "1", "7")
	egRow["Question 3 [Score]"] = "0"
	egRow["How confident are you in your answer to question 3?"] = "3"

	sheets := []GroupSheet{
		{Label: "CG", Table: rawSheet(twoQuestionHeaders,
			responseRow("1/15/2024 10:30:00", "Alice", "1", "7", "0", "4"),
		)},
		{Label: "EG", Table: rawSheet(extendedHeaders, egRow)},
	}

	table, schema, err := extractor.Extract(sheets, 3)
	assert.NoError(t, err)

	// Union discovers 3 question pairs; the schema warns about nothing
	// since 3 of each were found across the merged header set.
	assert.Len(t, schema.Questions, 3)
	assert.Empty(t, schema.Warnings)
	assert.Equal(t, 3, table.Questions)

	// Alice never saw question 3, so her cells there are missing.
	alice := table.Rows[0]
	assert.True(t, alice.Correct[2].IsMissing)
	assert.True(t, alice.Conf[2].IsMissing)

	bob := table.Rows[1]
	assert.Equal(t, study.NewNumericValue(0), bob.Correct[2])
	assert.Equal(t, study.NewNumericValue(3), bob.Conf[2])
}

func TestRowExtractor_CountMismatchWarnsAndTruncates(t *testing.T) {
	extractor := NewRowExtractor(coercer.New(), quietLogger())

	sheets := []GroupSheet{
		{Label: "CG", Table: rawSheet(twoQuestionHeaders,
			responseRow("1/15/2024 10:30:00", "Alice", "1", "7", "0", "4"),
		)},
	}

	table, schema, err := extractor.Extract(sheets, 5)
	assert.NoError(t, err)
	assert.Len(t, schema.Warnings, 2, "score and confidence count warnings")
	assert.Contains(t, schema.Warnings[0], "expected 5 score columns, found 2")
	assert.Equal(t, 2, table.Questions)
	assert.Equal(t, 5, table.NQuestions, "configured instrument length is preserved")
}

func TestRowExtractor_NoScoreColumnsFatal(t *testing.T) {
	extractor := NewRowExtractor(coercer.New(), quietLogger())

	sheets := []GroupSheet{
		{Label: "CG", Table: rawSheet(
			[]string{"Timestamp", "What is your name?"},
			study.RawRowData{"Timestamp": "1/15/2024 10:30:00", "What is your name?": "Alice"},
		)},
	}

	_, _, err := extractor.Extract(sheets, 2)
	assert.Error(t, err)
	assert.Equal(t, errors.CodeSchemaInvalid, errors.GetCode(err))
}

func TestRowExtractor_NameFallsBackToTimestamp(t *testing.T) {
	extractor := NewRowExtractor(coercer.New(), quietLogger())

	headers := []string{
		"Timestamp",
		"Question 1 [Score]",
		"How confident are you in your answer to question 1?",
	}
	sheets := []GroupSheet{
		{Label: "CG", Table: rawSheet(headers, study.RawRowData{
			"Timestamp":          "1/15/2024 10:30:00",
			"Question 1 [Score]": "1",
			"How confident are you in your answer to question 1?": "7",
		})},
	}

	table, _, err := extractor.Extract(sheets, 1)
	assert.NoError(t, err)
	assert.Equal(t, "1/15/2024 10:30:00", table.Rows[0].Participant)
}

func TestRowExtractor_NameFallsBackToRowIndex(t *testing.T) {
	extractor := NewRowExtractor(coercer.New(), quietLogger())

	headers := []string{
		"Question 1 [Score]",
		"How confident are you in your answer to question 1?",
	}
	rows := []study.RawRowData{
		{"Question 1 [Score]": "1", "How confident are you in your answer to question 1?": "7"},
		{"Question 1 [Score]": "junk"}, // dropped by the score probe
		{"Question 1 [Score]": "0", "How confident are you in your answer to question 1?": "2"},
	}
	sheets := []GroupSheet{{Label: "CG", Table: rawSheet(headers, rows...)}}

	table, _, err := extractor.Extract(sheets, 1)
	assert.NoError(t, err)

	// Synthetic names index the surviving rows, not the raw positions.
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "1", table.Rows[0].Participant)
	assert.Equal(t, "2", table.Rows[1].Participant)
}
