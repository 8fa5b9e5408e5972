// Package testkit builds synthetic two-sheet study workbooks with known
// response patterns, for pipeline tests and local runs without real data.
package testkit

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/xuri/excelize/v2"
)

// ResponsePattern shapes one group's synthetic answers.
type ResponsePattern int

const (
	// PatternConfidentCorrect answers everything correctly at high confidence.
	PatternConfidentCorrect ResponsePattern = iota
	// PatternConfidentWrong answers everything incorrectly at high confidence.
	PatternConfidentWrong
	// PatternCalibrated states confidence uniformly and is correct with
	// probability matching the stated level.
	PatternCalibrated
	// PatternNoisy states random confidence and answers at chance.
	PatternNoisy
)

// WorkbookConfig configures the synthetic workbook generator
type WorkbookConfig struct {
	ControlSheet      string          `json:"control_sheet"`
	ExperimentSheet   string          `json:"experiment_sheet"`
	ControlPattern    ResponsePattern `json:"control_pattern"`
	ExperimentPattern ResponsePattern `json:"experiment_pattern"`
	NQuestions        int             `json:"n_questions"`
	GroupSize         int             `json:"group_size"`
	JunkRows          bool            `json:"junk_rows"`
	Seed              int64           `json:"seed"`
}

// DefaultWorkbookConfig mirrors the real export layout: two named sheets,
// twenty questions, a handful of participants per group, with the junk rows
// a forms export typically carries.
func DefaultWorkbookConfig() WorkbookConfig {
	return WorkbookConfig{
		ControlSheet:      "Psychology Study - CG",
		ExperimentSheet:   "Psychology Study - EG",
		ControlPattern:    PatternConfidentCorrect,
		ExperimentPattern: PatternConfidentWrong,
		NQuestions:        20,
		GroupSize:         8,
		JunkRows:          true,
		Seed:              42,
	}
}

// StudyWorkbookGenerator builds synthetic response workbooks
type StudyWorkbookGenerator struct {
	cfg WorkbookConfig
	rng *rand.Rand
}

// NewStudyWorkbookGenerator creates a generator with a seeded RNG so
// fixtures stay deterministic.
func NewStudyWorkbookGenerator(cfg WorkbookConfig) *StudyWorkbookGenerator {
	return &StudyWorkbookGenerator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Headers returns the synthetic sheet's header row: timestamp, name column,
// then one score and one confidence column per question, score block first.
func (g *StudyWorkbookGenerator) Headers() []string {
	headers := []string{"Timestamp", "What is your name?"}
	for q := 1; q <= g.cfg.NQuestions; q++ {
		headers = append(headers, fmt.Sprintf("Question %d [Score]", q))
	}
	for q := 1; q <= g.cfg.NQuestions; q++ {
		headers = append(headers, fmt.Sprintf("How confident are you in your answer to question %d?", q))
	}
	return headers
}

// Build renders the workbook in memory
func (g *StudyWorkbookGenerator) Build() (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", g.cfg.ControlSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(g.cfg.ExperimentSheet); err != nil {
		return nil, err
	}

	if err := g.fillSheet(f, g.cfg.ControlSheet, "C", g.cfg.ControlPattern); err != nil {
		return nil, err
	}
	if err := g.fillSheet(f, g.cfg.ExperimentSheet, "E", g.cfg.ExperimentPattern); err != nil {
		return nil, err
	}

	return f, nil
}

// SaveTo builds the workbook and writes it to path
func (g *StudyWorkbookGenerator) SaveTo(path string) error {
	f, err := g.Build()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func (g *StudyWorkbookGenerator) fillSheet(f *excelize.File, sheet, tag string, pattern ResponsePattern) error {
	if err := g.writeRow(f, sheet, 1, g.headerCells()); err != nil {
		return err
	}

	row := 2
	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	for p := 1; p <= g.cfg.GroupSize; p++ {
		stamp := base.Add(time.Duration(p) * 137 * time.Second)
		cells := g.participantCells(stamp, fmt.Sprintf("%s-P%02d", tag, p), pattern)
		if err := g.writeRow(f, sheet, row, cells); err != nil {
			return err
		}
		row++
	}

	if g.cfg.JunkRows {
		for _, cells := range g.junkCells(base) {
			if err := g.writeRow(f, sheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (g *StudyWorkbookGenerator) headerCells() []interface{} {
	headers := g.Headers()
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}

func (g *StudyWorkbookGenerator) participantCells(stamp time.Time, name string, pattern ResponsePattern) []interface{} {
	correct := make([]int, g.cfg.NQuestions)
	conf := make([]int, g.cfg.NQuestions)
	for q := range correct {
		correct[q], conf[q] = g.answer(pattern)
	}

	cells := []interface{}{stamp.Format("1/2/2006 15:04:05"), name}
	for _, y := range correct {
		cells = append(cells, y)
	}
	for _, c := range conf {
		cells = append(cells, c)
	}
	return cells
}

// answer draws one (correctness, confidence) pair for the pattern. The
// confident patterns jitter between 6 and 7 so group variances stay nonzero.
func (g *StudyWorkbookGenerator) answer(pattern ResponsePattern) (correct, conf int) {
	switch pattern {
	case PatternConfidentCorrect:
		return 1, 6 + g.rng.Intn(2)
	case PatternConfidentWrong:
		return 0, 6 + g.rng.Intn(2)
	case PatternCalibrated:
		conf = 1 + g.rng.Intn(7)
		if g.rng.Float64() < float64(conf-1)/6 {
			correct = 1
		}
		return correct, conf
	default: // PatternNoisy
		return g.rng.Intn(2), 1 + g.rng.Intn(7)
	}
}

// junkCells reproduces the non-response rows a forms export carries: a
// template row with no timestamp, a preview row whose scores never filled
// in, and a stray header echo.
func (g *StudyWorkbookGenerator) junkCells(base time.Time) [][]interface{} {
	width := len(g.Headers())

	template := make([]interface{}, width)
	template[0] = ""
	template[1] = "Example answer"

	preview := make([]interface{}, width)
	preview[0] = base.Add(-time.Hour).Format("1/2/2006 15:04:05")
	preview[1] = "Form preview"

	echo := make([]interface{}, width)
	headers := g.Headers()
	for i, h := range headers {
		echo[i] = h
	}

	return [][]interface{}{template, preview, echo}
}

func (g *StudyWorkbookGenerator) writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for col, value := range cells {
		if value == nil || value == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
