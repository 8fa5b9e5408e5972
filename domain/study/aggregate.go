package study

// ScoreOptions toggles the derived scoring systems. The probability column
// is always derived; ABS and CWS are independently optional.
type ScoreOptions struct {
	UseABS bool
	UseCWS bool
}

// AddQuestionScores derives, for every discovered question i, p_i from
// conf_i and then abs_i/cws_i from (p_i, correct_i). The pass is additive
// and idempotent: input columns are untouched and derived columns are
// recomputed in place on a second run.
func AddQuestionScores(t *Table, opts ScoreOptions) {
	t.UseABS = opts.UseABS
	t.UseCWS = opts.UseCWS

	for ri := range t.Rows {
		row := &t.Rows[ri]
		row.P = make([]Value, t.Questions)
		if opts.UseABS {
			row.ABS = make([]Value, t.Questions)
		} else {
			row.ABS = nil
		}
		if opts.UseCWS {
			row.CWS = make([]Value, t.Questions)
		} else {
			row.CWS = nil
		}

		for i := 0; i < t.Questions; i++ {
			row.P[i] = ProbabilityValue(row.Conf[i])
			if opts.UseABS {
				row.ABS[i] = ABSValue(row.P[i], row.Correct[i])
			}
			if opts.UseCWS {
				row.CWS[i] = CWSValue(row.P[i], row.Correct[i])
			}
		}
	}
}

// AddSummaryScores reduces the per-question columns into participant-level
// totals: total_correct (sum skips missing; all-missing sums to 0),
// accuracy = total_correct / N with N the configured instrument length,
// mean_conf (missing-skipping mean, undefined when every conf is missing),
// and total_abs/total_cws when enabled. Pure row-wise reductions, no
// branching on group.
func AddSummaryScores(t *Table, opts ScoreOptions) {
	for ri := range t.Rows {
		row := &t.Rows[ri]
		row.TotalCorrect = SumValues(row.Correct)
		row.Accuracy = row.TotalCorrect / float64(t.NQuestions)
		row.MeanConf = MeanValues(row.Conf)
		if opts.UseABS {
			row.TotalABS = SumValues(row.ABS)
		}
		if opts.UseCWS {
			row.TotalCWS = SumValues(row.CWS)
		}
	}
}
