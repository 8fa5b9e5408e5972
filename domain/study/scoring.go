package study

// ConfidenceToProbability maps the 1-7 ordinal confidence scale onto [0,1]:
// 1 -> 0.0, 4 -> 0.5, 7 -> 1.0. The map is linear and deliberately
// unclamped, so out-of-range inputs extrapolate and stay detectable
// downstream.
func ConfidenceToProbability(conf float64) float64 {
	return (conf - 1) / 6
}

// ABSScore computes the augmented Brier score for one question from the
// stated probability p and the correctness y (0 or 1):
//
//	ABS = (1 - (p-y)^2) + 0.5y
//
// Wrong answers land in [0,1], correct answers in [0.5,1.5]; the squared
// term penalizes confident-wrong harder than hesitant-wrong.
func ABSScore(p, y float64) float64 {
	diff := p - y
	return (1 - diff*diff) + 0.5*y
}

// CWSScore computes the confidence-weighted score for one question:
//
//	correct: 0.6 + 0.4p   (0.6..1.0)
//	wrong:   0.4 - 0.4p   (0.0..0.4)
//
// Every correct answer outscores every wrong answer, and a confident wrong
// answer scores lowest of all.
func CWSScore(p, y float64) float64 {
	return y*(0.6+0.4*p) + (1-y)*(0.4-0.4*p)
}

// ProbabilityValue is the Value-aware ConfidenceToProbability; missing
// confidence yields a missing probability.
func ProbabilityValue(conf Value) Value {
	if conf.IsMissing {
		return NewMissingValue()
	}
	return NewNumericValue(ConfidenceToProbability(conf.Num))
}

// ABSValue applies ABSScore when both inputs are present. A missing p or y
// yields a missing score for that question only.
func ABSValue(p, y Value) Value {
	if p.IsMissing || y.IsMissing {
		return NewMissingValue()
	}
	return NewNumericValue(ABSScore(p.Num, y.Num))
}

// CWSValue applies CWSScore when both inputs are present
func CWSValue(p, y Value) Value {
	if p.IsMissing || y.IsMissing {
		return NewMissingValue()
	}
	return NewNumericValue(CWSScore(p.Num, y.Num))
}
