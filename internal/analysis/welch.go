package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gocalib/domain/study"
	"gocalib/internal/errors"
)

// ComparisonResult is the outcome of a two-group Welch comparison on one
// dependent variable. The significance test assumes unequal variances while
// Cohen's d pools them; both formulations are part of the contract.
type ComparisonResult struct {
	DV      string  `json:"dv"`
	Group1  string  `json:"group1"`
	Group2  string  `json:"group2"`
	Mean1   float64 `json:"mean1"`
	Mean2   float64 `json:"mean2"`
	T       float64 `json:"t"`
	DF      float64 `json:"df"`
	P       float64 `json:"p"`
	CohensD float64 `json:"cohens_d"`
	N1      int     `json:"n1"`
	N2      int     `json:"n2"`
}

// IndependentT runs Welch's t-test comparing dv between groups g1 and g2.
//
//	t  = (mean1 - mean2) / sqrt(var1/n1 + var2/n2)
//	df = Welch-Satterthwaite
//	p  = two-tailed from the Student's t distribution
//	d  = (mean1 - mean2) / sqrt(pooled variance)
//
// A group with fewer than 2 non-missing observations is fatal (sample
// standard deviation undefined), as is zero variance in both groups.
func IndependentT(rows []study.Row, dv, g1, g2 string) (*ComparisonResult, error) {
	x1 := groupValues(rows, dv, g1)
	x2 := groupValues(rows, dv, g2)

	if len(x1) < 2 {
		return nil, errors.InsufficientData(g1, len(x1))
	}
	if len(x2) < 2 {
		return nil, errors.InsufficientData(g2, len(x2))
	}

	n1 := float64(len(x1))
	n2 := float64(len(x2))
	mean1 := mean(x1)
	mean2 := mean(x2)
	var1 := variance(x1)
	var2 := variance(x2)

	se := math.Sqrt(var1/n1 + var2/n2)
	if se == 0 {
		return nil, errors.ZeroVariance(dv)
	}

	tStat := (mean1 - mean2) / se
	df := math.Pow(var1/n1+var2/n2, 2) / (math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue := 2 * (1 - tDist.CDF(math.Abs(tStat)))

	pooledVar := ((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2)
	cohensD := (mean1 - mean2) / math.Sqrt(pooledVar)

	return &ComparisonResult{
		DV:      dv,
		Group1:  g1,
		Group2:  g2,
		Mean1:   mean1,
		Mean2:   mean2,
		T:       tStat,
		DF:      df,
		P:       pValue,
		CohensD: cohensD,
		N1:      len(x1),
		N2:      len(x2),
	}, nil
}

// EffectLabel buckets |d| by the conventional 0.2/0.5/0.8 thresholds.
func EffectLabel(d float64) string {
	absD := math.Abs(d)
	switch {
	case absD < 0.2:
		return "negligible"
	case absD < 0.5:
		return "small"
	case absD < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// groupValues extracts the non-missing dv values for one group, in row order
func groupValues(rows []study.Row, dv, group string) []float64 {
	var values []float64
	for i := range rows {
		if rows[i].Group != group {
			continue
		}
		if v, ok := rows[i].SummaryValue(dv); ok {
			values = append(values, v)
		}
	}
	return values
}

// Helper statistical functions
func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, val := range data {
		sum += val
	}
	return sum / float64(len(data))
}

// variance is the Bessel-corrected sample variance
func variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	m := mean(data)
	sumSq := 0.0
	for _, val := range data {
		diff := val - m
		sumSq += diff * diff
	}
	return sumSq / float64(len(data)-1)
}
