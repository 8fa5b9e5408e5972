package study

import "strconv"

// Value is a numeric cell that may be missing. Cells that fail numeric
// coercion become missing rather than erroring, and every reduction in this
// package skips missing entries.
type Value struct {
	Num       float64
	IsMissing bool
}

// NewNumericValue creates a present numeric value
func NewNumericValue(num float64) Value {
	return Value{Num: num}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{IsMissing: true}
}

// Float64 returns the numeric value and whether it is present
func (v Value) Float64() (float64, bool) {
	if v.IsMissing {
		return 0, false
	}
	return v.Num, true
}

// String renders the value for display and CSV export; missing is empty
func (v Value) String() string {
	if v.IsMissing {
		return ""
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// SumValues sums the present entries; an all-missing slice sums to zero
func SumValues(values []Value) float64 {
	sum := 0.0
	for _, v := range values {
		if !v.IsMissing {
			sum += v.Num
		}
	}
	return sum
}

// MeanValues averages the present entries; the mean of an all-missing slice
// is itself missing
func MeanValues(values []Value) Value {
	sum := 0.0
	count := 0
	for _, v := range values {
		if !v.IsMissing {
			sum += v.Num
			count++
		}
	}
	if count == 0 {
		return NewMissingValue()
	}
	return NewNumericValue(sum / float64(count))
}
