package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gocalib/domain/core"
	"gocalib/domain/study"
	"gocalib/internal"
	"gocalib/internal/config"
	"gocalib/internal/errors"
	"gocalib/ports"
)

// PipelineService runs the full processing pipeline: read both group sheets,
// extract the tidy participant table, attach the per-question and summary
// scores and persist the flat CSV.
type PipelineService struct {
	source    ports.SheetSource
	extractor *RowExtractor
	exporter  ports.TableExporter
	cfg       *config.Config
	logger    *internal.Logger
}

// ProcessResult contains the outcome of one pipeline run
type ProcessResult struct {
	RunID        core.RunID     `json:"run_id"`
	OutputPath   string         `json:"output_path"`
	Participants int            `json:"participants"`
	Questions    int            `json:"questions"`
	GroupCounts  map[string]int `json:"group_counts"`
	Warnings     []string       `json:"warnings"`
	RuntimeMs    int64          `json:"runtime_ms"`

	Table *study.Table `json:"-"`
}

// NewPipelineService creates a pipeline service
func NewPipelineService(source ports.SheetSource, coercer ports.ValueCoercer, exporter ports.TableExporter, cfg *config.Config, logger *internal.Logger) *PipelineService {
	return &PipelineService{
		source:    source,
		extractor: NewRowExtractor(coercer, logger),
		exporter:  exporter,
		cfg:       cfg,
		logger:    logger.WithComponent("Pipeline"),
	}
}

// BuildTable runs ingestion through summary scoring without persisting
// anything: load both sheets, tag and union them, extract the tidy table and
// attach question plus summary scores.
func (s *PipelineService) BuildTable(ctx context.Context) (*study.Table, *study.Schema, error) {
	sheets := []struct {
		label string
		sheet string
	}{
		{s.cfg.Data.ControlLabel, s.cfg.Data.ControlSheet},
		{s.cfg.Data.ExperimentLabel, s.cfg.Data.ExperimentSheet},
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := s.verifySheets(sheets[0].sheet, sheets[1].sheet); err != nil {
		return nil, nil, err
	}

	var tagged []GroupSheet
	for _, spec := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		raw, err := s.source.ReadSheet(spec.sheet)
		if err != nil {
			return nil, nil, errors.IngestFailed("failed to read group "+spec.label, err)
		}
		tagged = append(tagged, GroupSheet{Label: spec.label, Table: raw})
	}

	table, schema, err := s.extractor.Extract(tagged, s.cfg.Scoring.NQuestions)
	if err != nil {
		return nil, nil, err
	}

	opts := study.ScoreOptions{
		UseABS: s.cfg.Scoring.UseABS,
		UseCWS: s.cfg.Scoring.UseCWS,
	}
	study.AddQuestionScores(table, opts)
	study.AddSummaryScores(table, opts)

	return table, schema, nil
}

// verifySheets checks the configured sheet names against the workbook before
// reading, so a renamed sheet fails with the available names rather than a
// bare not-found. Sources with a single unnamed sheet (CSV) skip the check.
func (s *PipelineService) verifySheets(wanted ...string) error {
	names, err := s.source.SheetNames()
	if err != nil {
		return errors.IngestFailed("failed to list workbook sheets", err)
	}
	if len(names) == 1 && names[0] == "" {
		return nil
	}

	have := make(map[string]bool, len(names))
	for _, name := range names {
		have[name] = true
	}
	for _, want := range wanted {
		if !have[want] {
			return errors.IngestFailed(fmt.Sprintf(
				"sheet %q not found in workbook (sheets: %s)", want, strings.Join(names, ", ")), nil)
		}
	}
	return nil
}

// Process runs BuildTable and persists the scored table to the configured
// processed path.
func (s *PipelineService) Process(ctx context.Context) (*ProcessResult, error) {
	startTime := time.Now()
	runID := core.NewRunID()
	s.logger.Info("run %s: processing %s", runID, s.cfg.Data.RawPath)

	table, schema, err := s.BuildTable(ctx)
	if err != nil {
		return nil, err
	}

	outputPath := s.cfg.Data.ProcessedPath
	if err := s.exporter.WriteFile(outputPath, table); err != nil {
		return nil, errors.ExportFailed("failed to write "+outputPath, err)
	}

	groupCounts := make(map[string]int)
	for i := range table.Rows {
		groupCounts[table.Rows[i].Group]++
	}

	result := &ProcessResult{
		RunID:        runID,
		OutputPath:   outputPath,
		Participants: len(table.Rows),
		Questions:    table.Questions,
		GroupCounts:  groupCounts,
		Warnings:     schema.Warnings,
		RuntimeMs:    time.Since(startTime).Milliseconds(),
		Table:        table,
	}
	s.logger.Info("run %s: saved %d participants to %s", runID, result.Participants, outputPath)

	return result, nil
}
