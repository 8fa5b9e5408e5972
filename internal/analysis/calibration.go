package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"gocalib/domain/study"
)

// CalibrationResult measures confidence-accuracy calibration within one
// group: the Pearson correlation between each participant's mean confidence
// and their accuracy. R is NaN when fewer than 2 complete pairs exist.
type CalibrationResult struct {
	Group string  `json:"group"`
	N     int     `json:"n"`
	R     float64 `json:"r"`
}

// Calibration computes the per-group confidence-accuracy correlation, in the
// order the group labels are given. Participants with an undefined mean
// confidence are excluded from their group's pairs.
func Calibration(rows []study.Row, groups []string) []CalibrationResult {
	results := make([]CalibrationResult, 0, len(groups))

	for _, group := range groups {
		var confs, accs []float64
		for i := range rows {
			if rows[i].Group != group {
				continue
			}
			conf, ok := rows[i].MeanConf.Float64()
			if !ok {
				continue
			}
			confs = append(confs, conf)
			accs = append(accs, rows[i].Accuracy)
		}

		r := math.NaN()
		if len(confs) >= 2 {
			if pearson, err := stats.Pearson(confs, accs); err == nil {
				r = pearson
			}
		}
		results = append(results, CalibrationResult{Group: group, N: len(confs), R: r})
	}

	return results
}

// ReliabilityResult is the KR-20 internal-consistency estimate over the
// dichotomous correctness items. Alpha is NaN when undefined: fewer than 2
// items, fewer than 2 complete rows, or zero total-score variance.
type ReliabilityResult struct {
	Items int     `json:"items"`
	N     int     `json:"n"`
	Alpha float64 `json:"alpha"`
}

// KR20 computes the Kuder-Richardson 20 coefficient over correct_1..Q using
// the rows with complete correctness data. Item and total variances are
// population variances, so perfectly consistent items reach alpha = 1.
func KR20(rows []study.Row, questions int) ReliabilityResult {
	result := ReliabilityResult{Items: questions, Alpha: math.NaN()}
	if questions < 2 {
		return result
	}

	// Only rows answering every item enter the matrix; a missing item would
	// distort both the item proportions and the total-score variance.
	var complete []study.Row
	for i := range rows {
		if hasCompleteCorrectness(&rows[i], questions) {
			complete = append(complete, rows[i])
		}
	}
	result.N = len(complete)
	if len(complete) < 2 {
		return result
	}

	n := float64(len(complete))
	totals := make([]float64, len(complete))
	sumPQ := 0.0
	for j := 0; j < questions; j++ {
		p := 0.0
		for i := range complete {
			y := complete[i].Correct[j].Num
			p += y
			totals[i] += y
		}
		p /= n
		sumPQ += p * (1 - p)
	}

	totalVar, err := stats.PopulationVariance(totals)
	if err != nil || totalVar == 0 {
		return result
	}

	k := float64(questions)
	result.Alpha = (k / (k - 1)) * (1 - sumPQ/totalVar)
	return result
}

func hasCompleteCorrectness(row *study.Row, questions int) bool {
	if len(row.Correct) < questions {
		return false
	}
	for j := 0; j < questions; j++ {
		if row.Correct[j].IsMissing {
			return false
		}
	}
	return true
}
