package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"gocalib/domain/core"
	"gocalib/domain/study"
	"gocalib/internal"
	"gocalib/internal/analysis"
	"gocalib/internal/config"
	"gocalib/internal/errors"
	"gocalib/internal/report"
)

// sweepConcurrency bounds the fan-out of per-DV comparisons.
const sweepConcurrency = 4

// CompareService computes group descriptives and Welch comparisons over the
// scored participant table.
type CompareService struct {
	cfg    *config.Config
	logger *internal.Logger
}

// NewCompareService creates a compare service
func NewCompareService(cfg *config.Config, logger *internal.Logger) *CompareService {
	return &CompareService{
		cfg:    cfg,
		logger: logger.WithComponent("Compare"),
	}
}

// Comparison bundles the per-group descriptives with the Welch test result
// for one dependent variable.
type Comparison struct {
	DV           string                       `json:"dv"`
	Descriptives []analysis.GroupDescriptives `json:"descriptives"`
	Result       *analysis.ComparisonResult   `json:"result"`
	Effect       string                       `json:"effect"`
}

// groups returns the configured group labels in canonical order.
func (s *CompareService) groups() []string {
	return []string{s.cfg.Data.ControlLabel, s.cfg.Data.ExperimentLabel}
}

// Compare runs descriptives plus Welch's t-test on one dependent variable.
func (s *CompareService) Compare(ctx context.Context, table *study.Table, dv string) (*Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !table.HasSummaryColumn(dv) {
		return nil, errors.InvalidInput("unknown dependent variable " + dv)
	}

	labels := s.groups()
	descriptives := analysis.Descriptives(table.Rows, dv, labels)

	result, err := analysis.IndependentT(table.Rows, dv, labels[0], labels[1])
	if err != nil {
		return nil, err
	}
	s.logger.Info("%s: t=%.4f p=%.4f d=%.4f (n1=%d, n2=%d)",
		dv, result.T, result.P, result.CohensD, result.N1, result.N2)

	return &Comparison{
		DV:           dv,
		Descriptives: descriptives,
		Result:       result,
		Effect:       analysis.EffectLabel(result.CohensD),
	}, nil
}

// SweepOutcome is one dependent variable's result within a sweep. A DV whose
// comparison fails carries the error message instead of a result; one bad DV
// never aborts the others.
type SweepOutcome struct {
	DV     string      `json:"dv"`
	Result *Comparison `json:"result,omitempty"`
	Err    string      `json:"error,omitempty"`
}

// SweepResult is the outcome of comparing the groups on every enabled
// summary column.
type SweepResult struct {
	RunID     core.RunID     `json:"run_id"`
	Outcomes  []SweepOutcome `json:"outcomes"`
	RuntimeMs int64          `json:"runtime_ms"`
}

// Sweep compares the two groups on every enabled summary column. The
// comparisons are independent, so they fan out through a bounded errgroup;
// outcomes keep the canonical column order regardless of completion order.
func (s *CompareService) Sweep(ctx context.Context, table *study.Table) (*SweepResult, error) {
	startTime := time.Now()
	runID := core.NewRunID()
	columns := table.SummaryColumns()
	outcomes := make([]SweepOutcome, len(columns))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(sweepConcurrency)
	for i, dv := range columns {
		i, dv := i, dv
		eg.Go(func() error {
			outcome := SweepOutcome{DV: dv}
			if comparison, err := s.Compare(egCtx, table, dv); err != nil {
				outcome.Err = err.Error()
			} else {
				outcome.Result = comparison
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("run %s: swept %d dependent variables", runID, len(columns))
	return &SweepResult{
		RunID:     runID,
		Outcomes:  outcomes,
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}, nil
}

// Describe profiles every enabled summary column over the whole table.
func (s *CompareService) Describe(table *study.Table) []analysis.ColumnProfile {
	return analysis.DescribeColumns(table.Rows, table.SummaryColumns())
}

// BuildReport assembles the full report payload for one dependent variable:
// descriptives, Welch result, calibration, KR-20 reliability and the column
// profiles.
func (s *CompareService) BuildReport(ctx context.Context, table *study.Table, dv, sourcePath string, warnings []string) (*report.Data, error) {
	comparison, err := s.Compare(ctx, table, dv)
	if err != nil {
		return nil, err
	}

	reliability := analysis.KR20(table.Rows, table.Questions)

	return &report.Data{
		RunID:       core.NewRunID().String(),
		GeneratedAt: time.Now(),
		SourcePath:  sourcePath,
		DV:          dv,
		Groups:      comparison.Descriptives,
		Comparison:  comparison.Result,
		Effect:      comparison.Effect,
		Calibration: analysis.Calibration(table.Rows, s.groups()),
		Reliability: reliability,
		Profiles:    s.Describe(table),
		Warnings:    warnings,
	}, nil
}
