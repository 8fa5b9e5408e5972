package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"gocalib/domain/study"
)

// Coercer converts raw cell text into domain values with deterministic
// rules. Numeric coercion never errors: anything unparseable is a missing
// value.
type Coercer struct{}

// New creates a coercer
func New() *Coercer {
	return &Coercer{}
}

// NumericValue coerces raw cell text to a numeric Value. Empty text,
// unparseable text, Inf and NaN all coerce to missing.
func (c *Coercer) NumericValue(raw string) study.Value {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return study.NewMissingValue()
	}

	// Sheet exports occasionally carry thousands separators
	cleanVal = strings.ReplaceAll(cleanVal, ",", "")

	if val, err := strconv.ParseFloat(cleanVal, 64); err == nil {
		if !math.IsInf(val, 0) && !math.IsNaN(val) {
			return study.NewNumericValue(val)
		}
	}

	return study.NewMissingValue()
}

// timestampFormats are the layouts form exports and workbook cells surface
// through GetRows, most specific first.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"01/02/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
}

// IsTimestamp reports whether raw cell text parses as a timestamp in any of
// the known export layouts, or as a spreadsheet date serial. Rows whose
// timestamp cell fails this check are not participant responses.
func (c *Coercer) IsTimestamp(raw string) bool {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return false
	}

	for _, format := range timestampFormats {
		if _, err := time.Parse(format, cleanVal); err == nil {
			return true
		}
	}

	// Unformatted date cells surface as raw serials (days since 1900)
	if val, err := strconv.ParseFloat(cleanVal, 64); err == nil {
		return val >= 1 && val < 2958466
	}

	return false
}
