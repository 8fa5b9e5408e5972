package study

// RawRowData is one survey response row as raw header-keyed cell text.
// Cells the row does not carry read as the empty string, which every
// downstream coercion treats as missing.
type RawRowData map[string]string

// RawTable is one sheet's complete contents before extraction. Headers keep
// the sheet's original column order; schema discovery treats that order as
// the canonical question order.
type RawTable struct {
	Headers []string
	Rows    []RawRowData
}
