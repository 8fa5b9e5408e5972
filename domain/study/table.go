package study

import "fmt"

// Summary column names, in persisted order.
const (
	ColTotalCorrect = "total_correct"
	ColAccuracy     = "accuracy"
	ColMeanConf     = "mean_conf"
	ColTotalABS     = "total_abs"
	ColTotalCWS     = "total_cws"
)

// Row is one validated participant. The question slices are indexed 0..Q-1
// for questions 1..Q; derived and summary fields are filled in by the
// scoring passes and stay zero-valued until then.
type Row struct {
	Participant string
	Group       string

	Correct []Value
	Conf    []Value

	P   []Value
	ABS []Value
	CWS []Value

	TotalCorrect float64
	Accuracy     float64
	MeanConf     Value
	TotalABS     float64
	TotalCWS     float64
}

// Table is the tidy participant table plus derived columns. Built once by
// ingestion and extended additively by the scoring passes; nothing ever
// removes a column.
type Table struct {
	// NQuestions is the configured instrument length N. Questions is the
	// discovered pair count, which trails N when the sheet came up short.
	NQuestions int
	Questions  int

	UseABS bool
	UseCWS bool

	Rows []Row
}

// SummaryColumns lists the participant-level columns present on this table,
// in persisted order.
func (t *Table) SummaryColumns() []string {
	cols := []string{ColTotalCorrect, ColAccuracy, ColMeanConf}
	if t.UseABS {
		cols = append(cols, ColTotalABS)
	}
	if t.UseCWS {
		cols = append(cols, ColTotalCWS)
	}
	return cols
}

// HasSummaryColumn reports whether dv names a summary column on this table.
func (t *Table) HasSummaryColumn(dv string) bool {
	for _, col := range t.SummaryColumns() {
		if col == dv {
			return true
		}
	}
	return false
}

// ColumnOrder returns the exact persisted header order:
// participant, group, correct_1..Q, conf_1..Q, p_1..Q, abs_1..Q, cws_1..Q,
// total_correct, accuracy, mean_conf, total_abs, total_cws. The abs/cws
// blocks appear only when enabled. No index column.
func (t *Table) ColumnOrder() []string {
	cols := []string{"participant", GroupColumn}
	for i := 1; i <= t.Questions; i++ {
		cols = append(cols, fmt.Sprintf("correct_%d", i))
	}
	for i := 1; i <= t.Questions; i++ {
		cols = append(cols, fmt.Sprintf("conf_%d", i))
	}
	for i := 1; i <= t.Questions; i++ {
		cols = append(cols, fmt.Sprintf("p_%d", i))
	}
	if t.UseABS {
		for i := 1; i <= t.Questions; i++ {
			cols = append(cols, fmt.Sprintf("abs_%d", i))
		}
	}
	if t.UseCWS {
		for i := 1; i <= t.Questions; i++ {
			cols = append(cols, fmt.Sprintf("cws_%d", i))
		}
	}
	cols = append(cols, ColTotalCorrect, ColAccuracy, ColMeanConf)
	if t.UseABS {
		cols = append(cols, ColTotalABS)
	}
	if t.UseCWS {
		cols = append(cols, ColTotalCWS)
	}
	return cols
}

// SummaryValue returns the named participant-level value for this row,
// reporting false for unknown columns and for a missing mean_conf.
func (r *Row) SummaryValue(dv string) (float64, bool) {
	switch dv {
	case ColTotalCorrect:
		return r.TotalCorrect, true
	case ColAccuracy:
		return r.Accuracy, true
	case ColMeanConf:
		return r.MeanConf.Float64()
	case ColTotalABS:
		return r.TotalABS, true
	case ColTotalCWS:
		return r.TotalCWS, true
	}
	return 0, false
}
