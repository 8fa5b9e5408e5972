package study

import (
	"math"
	"testing"
)

const scoreEpsilon = 1e-12

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < scoreEpsilon
}

// TestConfidenceToProbability_ScaleAnchors verifies the three anchor points
// of the 1-7 confidence scale
func TestConfidenceToProbability_ScaleAnchors(t *testing.T) {
	tests := []struct {
		conf     float64
		expected float64
	}{
		{1, 0.0},
		{4, 0.5},
		{7, 1.0},
		{2.5, 0.25},
	}

	for _, test := range tests {
		got := ConfidenceToProbability(test.conf)
		if !almostEqual(got, test.expected) {
			t.Errorf("ConfidenceToProbability(%v): expected %v, got %v", test.conf, test.expected, got)
		}
	}
}

// TestConfidenceToProbability_Unclamped verifies out-of-range confidences
// extrapolate instead of clamping
func TestConfidenceToProbability_Unclamped(t *testing.T) {
	if got := ConfidenceToProbability(13); !almostEqual(got, 2.0) {
		t.Errorf("Expected conf=13 to extrapolate to 2.0, got %v", got)
	}
	if got := ConfidenceToProbability(0); !almostEqual(got, -1.0/6.0) {
		t.Errorf("Expected conf=0 to extrapolate below zero, got %v", got)
	}
}

// TestABSScore_CornerCases verifies the four certainty corners of the
// augmented Brier score
func TestABSScore_CornerCases(t *testing.T) {
	tests := []struct {
		p, y     float64
		expected float64
	}{
		{1, 1, 1.5}, // certain and correct: best possible
		{0, 1, 0.5}, // certain-wrong prediction, correct answer
		{1, 0, 0.0}, // certain and wrong: worst possible
		{0, 0, 1.0}, // certain the answer is wrong, and it is
	}

	for _, test := range tests {
		got := ABSScore(test.p, test.y)
		if !almostEqual(got, test.expected) {
			t.Errorf("ABSScore(%v, %v): expected %v, got %v", test.p, test.y, test.expected, got)
		}
	}
}

// TestABSScore_CorrectAlwaysGetsBonus verifies the +0.5 correctness bonus
// separates the score ranges: correct answers land in [0.5, 1.5], wrong
// answers in [0, 1]
func TestABSScore_CorrectAlwaysGetsBonus(t *testing.T) {
	for p := 0.0; p <= 1.0; p += 0.1 {
		correct := ABSScore(p, 1)
		wrong := ABSScore(p, 0)
		if correct < 0.5-scoreEpsilon || correct > 1.5+scoreEpsilon {
			t.Errorf("ABSScore(%v, 1) = %v outside [0.5, 1.5]", p, correct)
		}
		if wrong < -scoreEpsilon || wrong > 1+scoreEpsilon {
			t.Errorf("ABSScore(%v, 0) = %v outside [0, 1]", p, wrong)
		}
	}
}

// TestCWSScore_CornerCases verifies the four certainty corners of the
// confidence-weighted score
func TestCWSScore_CornerCases(t *testing.T) {
	tests := []struct {
		p, y     float64
		expected float64
	}{
		{1, 1, 1.0}, // confident correct
		{0, 1, 0.6}, // hesitant correct
		{0, 0, 0.4}, // hesitant wrong
		{1, 0, 0.0}, // confident wrong: lowest of all
	}

	for _, test := range tests {
		got := CWSScore(test.p, test.y)
		if !almostEqual(got, test.expected) {
			t.Errorf("CWSScore(%v, %v): expected %v, got %v", test.p, test.y, test.expected, got)
		}
	}
}

// TestCWSScore_OrderingContract verifies every correct answer outscores every
// wrong answer, whatever the two confidence levels
func TestCWSScore_OrderingContract(t *testing.T) {
	for pCorrect := 0.0; pCorrect <= 1.0; pCorrect += 0.25 {
		for pWrong := 0.0; pWrong <= 1.0; pWrong += 0.25 {
			correct := CWSScore(pCorrect, 1)
			wrong := CWSScore(pWrong, 0)
			if correct <= wrong {
				t.Errorf("CWS ordering violated: correct(p=%v)=%v <= wrong(p=%v)=%v",
					pCorrect, correct, pWrong, wrong)
			}
		}
	}
}

// TestValueScoring_MissingPropagation verifies missing inputs produce missing
// scores without touching present questions
func TestValueScoring_MissingPropagation(t *testing.T) {
	if got := ProbabilityValue(NewMissingValue()); !got.IsMissing {
		t.Error("Expected missing confidence to yield missing probability")
	}
	if got := ProbabilityValue(NewNumericValue(7)); got.IsMissing || !almostEqual(got.Num, 1.0) {
		t.Errorf("Expected present conf=7 to yield p=1, got %+v", got)
	}

	present := NewNumericValue(1)
	missing := NewMissingValue()

	if got := ABSValue(missing, present); !got.IsMissing {
		t.Error("Expected ABS with missing p to be missing")
	}
	if got := ABSValue(present, missing); !got.IsMissing {
		t.Error("Expected ABS with missing y to be missing")
	}
	if got := CWSValue(missing, present); !got.IsMissing {
		t.Error("Expected CWS with missing p to be missing")
	}
	if got := CWSValue(present, present); got.IsMissing || !almostEqual(got.Num, 1.0) {
		t.Errorf("Expected CWS(1,1)=1 for present inputs, got %+v", got)
	}
}
