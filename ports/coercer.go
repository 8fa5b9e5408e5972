package ports

import "gocalib/domain/study"

// ValueCoercer converts raw cell text into domain values. Numeric coercion
// never fails: unparseable text becomes a missing Value. IsTimestamp is the
// row-validity probe for the designated timestamp column.
type ValueCoercer interface {
	NumericValue(raw string) study.Value
	IsTimestamp(raw string) bool
}
