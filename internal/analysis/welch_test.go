package analysis

import (
	"math"
	"strings"
	"testing"

	"gocalib/domain/study"
	"gocalib/internal/errors"
)

// rowsWithTotals builds one row per value with total_cws carrying the value
func rowsWithTotals(group string, values ...float64) []study.Row {
	rows := make([]study.Row, 0, len(values))
	for _, v := range values {
		rows = append(rows, study.Row{Group: group, TotalCWS: v})
	}
	return rows
}

// TestIndependentT_KnownValues verifies the Welch statistic, degrees of
// freedom, p-value and Cohen's d on a hand-computed example:
// [4,6] vs [1,3] gives t = 3/sqrt(2), df = 2, d = 3/sqrt(2)
func TestIndependentT_KnownValues(t *testing.T) {
	rows := append(rowsWithTotals("CG", 4, 6), rowsWithTotals("EG", 1, 3)...)

	result, err := IndependentT(rows, study.ColTotalCWS, "CG", "EG")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expectedT := 3 / math.Sqrt2
	if math.Abs(result.T-expectedT) > 1e-12 {
		t.Errorf("Expected t=%v, got %v", expectedT, result.T)
	}
	if math.Abs(result.DF-2) > 1e-12 {
		t.Errorf("Expected df=2, got %v", result.DF)
	}
	// Closed form for df=2: p = 2*(1 - (1/2 + t/(2*sqrt(2)*sqrt(1+t^2/2))))
	if math.Abs(result.P-0.16794970566215628) > 1e-6 {
		t.Errorf("Expected p~0.1679, got %v", result.P)
	}
	if math.Abs(result.CohensD-expectedT) > 1e-12 {
		t.Errorf("Expected d=%v (pooled sd = sqrt(2)), got %v", expectedT, result.CohensD)
	}

	if result.Mean1 != 5 || result.Mean2 != 2 {
		t.Errorf("Expected means 5 and 2, got %v and %v", result.Mean1, result.Mean2)
	}
	if result.N1 != 2 || result.N2 != 2 {
		t.Errorf("Expected n=2 per group, got %d and %d", result.N1, result.N2)
	}
	if result.DV != study.ColTotalCWS || result.Group1 != "CG" || result.Group2 != "EG" {
		t.Errorf("Expected result tagged with dv and groups, got %+v", result)
	}
}

// TestIndependentT_GroupSwapFlipsSigns verifies swapping the group order
// flips t and d but leaves df and p unchanged
func TestIndependentT_GroupSwapFlipsSigns(t *testing.T) {
	rows := append(rowsWithTotals("CG", 4, 6), rowsWithTotals("EG", 1, 3)...)

	forward, err := IndependentT(rows, study.ColTotalCWS, "CG", "EG")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	backward, err := IndependentT(rows, study.ColTotalCWS, "EG", "CG")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if math.Abs(forward.T+backward.T) > 1e-12 {
		t.Errorf("Expected t to flip sign: %v vs %v", forward.T, backward.T)
	}
	if math.Abs(forward.CohensD+backward.CohensD) > 1e-12 {
		t.Errorf("Expected d to flip sign: %v vs %v", forward.CohensD, backward.CohensD)
	}
	if math.Abs(forward.DF-backward.DF) > 1e-12 {
		t.Errorf("Expected identical df: %v vs %v", forward.DF, backward.DF)
	}
	if math.Abs(forward.P-backward.P) > 1e-12 {
		t.Errorf("Expected identical p: %v vs %v", forward.P, backward.P)
	}
}

// TestIndependentT_InsufficientData verifies a group under 2 non-missing
// observations is fatal and the error names the offending group
func TestIndependentT_InsufficientData(t *testing.T) {
	rows := append(rowsWithTotals("CG", 4, 6), rowsWithTotals("EG", 1)...)

	_, err := IndependentT(rows, study.ColTotalCWS, "CG", "EG")
	if err == nil {
		t.Fatal("Expected error for a single-observation group")
	}
	if errors.GetCode(err) != errors.CodeInsufficientData {
		t.Errorf("Expected code %s, got %s", errors.CodeInsufficientData, errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), `"EG"`) {
		t.Errorf("Expected error to name the offending group, got: %v", err)
	}

	_, err = IndependentT(rows, study.ColTotalCWS, "EG", "CG")
	if err == nil || !strings.Contains(err.Error(), `"EG"`) {
		t.Errorf("Expected the same group named regardless of order, got: %v", err)
	}
}

// TestIndependentT_MissingValuesExcluded verifies undefined mean_conf entries
// drop out before the n >= 2 check
func TestIndependentT_MissingValuesExcluded(t *testing.T) {
	rows := []study.Row{
		{Group: "CG", MeanConf: study.NewNumericValue(5)},
		{Group: "CG", MeanConf: study.NewMissingValue()},
		{Group: "CG", MeanConf: study.NewNumericValue(6)},
		{Group: "EG", MeanConf: study.NewNumericValue(2)},
		{Group: "EG", MeanConf: study.NewMissingValue()},
	}

	_, err := IndependentT(rows, study.ColMeanConf, "CG", "EG")
	if err == nil {
		t.Fatal("Expected insufficient data once missing values are excluded")
	}
	if !strings.Contains(err.Error(), "1 non-missing") {
		t.Errorf("Expected the post-exclusion count in the error, got: %v", err)
	}
}

// TestIndependentT_ZeroVariance verifies two constant groups are fatal while
// a single constant group is not
func TestIndependentT_ZeroVariance(t *testing.T) {
	constant := append(rowsWithTotals("CG", 5, 5, 5), rowsWithTotals("EG", 3, 3, 3)...)
	_, err := IndependentT(constant, study.ColTotalCWS, "CG", "EG")
	if err == nil {
		t.Fatal("Expected error when both groups have zero variance")
	}
	if errors.GetCode(err) != errors.CodeZeroVariance {
		t.Errorf("Expected code %s, got %s", errors.CodeZeroVariance, errors.GetCode(err))
	}

	oneVaries := append(rowsWithTotals("CG", 5, 5, 5), rowsWithTotals("EG", 1, 3)...)
	result, err := IndependentT(oneVaries, study.ColTotalCWS, "CG", "EG")
	if err != nil {
		t.Fatalf("Expected one varying group to be sufficient, got: %v", err)
	}
	if math.IsNaN(result.T) || math.IsInf(result.T, 0) {
		t.Errorf("Expected finite t, got %v", result.T)
	}
}

// TestEffectLabel verifies the conventional magnitude buckets, including the
// boundaries and negative effects
func TestEffectLabel(t *testing.T) {
	tests := []struct {
		d        float64
		expected string
	}{
		{0.0, "negligible"},
		{0.19, "negligible"},
		{0.2, "small"},
		{-0.3, "small"},
		{0.5, "medium"},
		{-0.79, "medium"},
		{0.8, "large"},
		{-2.5, "large"},
	}

	for _, test := range tests {
		if got := EffectLabel(test.d); got != test.expected {
			t.Errorf("EffectLabel(%v): expected %q, got %q", test.d, test.expected, got)
		}
	}
}
