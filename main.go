package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gocalib/adapters/coercer"
	"gocalib/adapters/excel"
	"gocalib/adapters/export"
	"gocalib/app"
	"gocalib/domain/study"
	"gocalib/internal"
	"gocalib/internal/config"
	"gocalib/internal/report"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "gocalib",
		Short: "Scoring and comparison pipeline for two-group confidence studies",
		Long: `gocalib ingests a two-sheet study workbook (control vs experimental group),
tidies it into a per-participant table of correctness and confidence values,
derives the probability, ABS and CWS scoring systems, and compares the groups
with Welch's t-test and Cohen's d.`,
	}

	rootCmd.AddCommand(
		newProcessCmd(),
		newCompareCmd(),
		newSweepCmd(),
		newDescribeCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newProcessCmd() *cobra.Command {
	var rawPath, outPath string
	var nQuestions int
	var useABS, useCWS bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run the full pipeline: ingest, score, summarize and save the CSV",
		Long: `Read both group sheets from the raw workbook, extract the tidy participant
table, attach per-question probability/ABS/CWS scores and participant-level
totals, and persist the flat CSV.

Example: gocalib process --raw "data/raw/Psychology Study Results.xlsx"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("raw") {
				cfg.Data.RawPath = rawPath
			}
			if cmd.Flags().Changed("out") {
				cfg.Data.ProcessedPath = outPath
			}
			if cmd.Flags().Changed("n-questions") {
				cfg.Scoring.NQuestions = nQuestions
			}
			if cmd.Flags().Changed("abs") {
				cfg.Scoring.UseABS = useABS
			}
			if cmd.Flags().Changed("cws") {
				cfg.Scoring.UseCWS = useCWS
			}

			svc := app.NewPipelineService(
				excel.NewDataReader(cfg.Data.RawPath),
				coercer.New(),
				export.NewCSVExporter(),
				cfg,
				logger,
			)
			result, err := svc.Process(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("\n=== PROCESSING RESULTS ===\n")
			fmt.Printf("Run ID: %s\n", result.RunID)
			fmt.Printf("Participants: %d (%s)\n", result.Participants, groupCountString(result.GroupCounts))
			fmt.Printf("Questions: %d\n", result.Questions)
			for _, warning := range result.Warnings {
				fmt.Printf("⚠ WARNING: %s\n", warning)
			}
			fmt.Printf("Runtime: %d ms\n", result.RuntimeMs)
			fmt.Printf("\n✅ Saved cleaned data to %s\n", result.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawPath, "raw", "", "Raw workbook path (overrides RAW_DATA_PATH)")
	cmd.Flags().StringVar(&outPath, "out", "", "Processed CSV path (overrides PROCESSED_DATA_PATH)")
	cmd.Flags().IntVar(&nQuestions, "n-questions", 20, "Expected number of questions")
	cmd.Flags().BoolVar(&useABS, "abs", true, "Compute the ABS scoring system")
	cmd.Flags().BoolVar(&useCWS, "cws", true, "Compute the CWS scoring system")

	return cmd
}

func newCompareCmd() *cobra.Command {
	var dataPath, dv string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the two groups on one dependent variable",
		Long: `Compute per-group descriptives and Welch's t-test with Cohen's d for one
summary column of the processed table.

Example: gocalib compare --dv total_cws`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dv") {
				dv = cfg.Analysis.DefaultDV
			}

			table, _, err := loadTable(cmd, cfg, logger, dataPath)
			if err != nil {
				return err
			}

			comparison, err := app.NewCompareService(cfg, logger).Compare(cmd.Context(), table, dv)
			if err != nil {
				return err
			}

			printComparison(comparison)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Processed CSV or raw workbook path")
	cmd.Flags().StringVar(&dv, "dv", "", "Dependent variable (default from DEFAULT_DV)")

	return cmd
}

func newSweepCmd() *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare the two groups on every summary column",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			table, _, err := loadTable(cmd, cfg, logger, dataPath)
			if err != nil {
				return err
			}

			result, err := app.NewCompareService(cfg, logger).Sweep(cmd.Context(), table)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== DV SWEEP (%s vs %s) ===\n", cfg.Data.ControlLabel, cfg.Data.ExperimentLabel)
			fmt.Printf("Run ID: %s\n\n", result.RunID)
			for _, outcome := range result.Outcomes {
				if outcome.Err != "" {
					fmt.Printf("%-14s ❌ %s\n", outcome.DV, outcome.Err)
					continue
				}
				r := outcome.Result.Result
				fmt.Printf("%-14s t(%.2f) = %8.4f  %-12s d = %7.4f (%s)\n",
					outcome.DV, r.DF, r.T, pString(r.P), r.CohensD, outcome.Result.Effect)
			}
			fmt.Printf("\nRuntime: %d ms\n", result.RuntimeMs)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Processed CSV or raw workbook path")

	return cmd
}

func newDescribeCmd() *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Profile the summary columns of the processed table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			table, _, err := loadTable(cmd, cfg, logger, dataPath)
			if err != nil {
				return err
			}

			profiles := app.NewCompareService(cfg, logger).Describe(table)

			fmt.Printf("\n=== COLUMN PROFILES ===\n")
			fmt.Printf("%-14s %5s %8s %10s %10s %10s %10s %10s %10s %10s\n",
				"column", "n", "missing", "mean", "sd", "min", "p25", "median", "p75", "max")
			for _, p := range profiles {
				fmt.Printf("%-14s %5d %8d %10.4f %10.4f %10.4f %10.4f %10.4f %10.4f %10.4f\n",
					p.Column, p.N, p.Missing, p.Mean, p.SD, p.Min, p.P25, p.Median, p.P75, p.Max)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Processed CSV or raw workbook path")

	return cmd
}

func newReportCmd() *cobra.Command {
	var dataPath, dv, outPath string
	var withHTML bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the full comparison report as Markdown (optionally HTML)",
		Long: `Build a Markdown report with group descriptives, the Welch comparison,
confidence-accuracy calibration, KR-20 reliability and column profiles.

Example: gocalib report --dv total_cws --html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dv") {
				dv = cfg.Analysis.DefaultDV
			}
			if !cmd.Flags().Changed("out") {
				outPath = cfg.Analysis.ReportPath
			}

			table, warnings, err := loadTable(cmd, cfg, logger, dataPath)
			if err != nil {
				return err
			}

			sourcePath := dataPath
			if sourcePath == "" {
				sourcePath = cfg.Data.ProcessedPath
			}
			data, err := app.NewCompareService(cfg, logger).BuildReport(cmd.Context(), table, dv, sourcePath, warnings)
			if err != nil {
				return err
			}

			md := report.RenderMarkdown(data)
			if err := writeFile(outPath, md); err != nil {
				return err
			}
			fmt.Printf("✅ Report written to %s\n", outPath)

			if withHTML {
				htmlPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".html"
				if err := writeFile(htmlPath, report.RenderHTML(md)); err != nil {
					return err
				}
				fmt.Printf("✅ HTML report written to %s\n", htmlPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Processed CSV or raw workbook path")
	cmd.Flags().StringVar(&dv, "dv", "", "Dependent variable (default from DEFAULT_DV)")
	cmd.Flags().StringVar(&outPath, "out", "", "Report output path (overrides REPORT_PATH)")
	cmd.Flags().BoolVar(&withHTML, "html", false, "Also render a standalone HTML page")

	return cmd
}

// loadConfig loads the environment configuration and the default logger.
func loadConfig() (*config.Config, *internal.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, internal.NewDefaultLogger(), nil
}

// loadTable reads the analysis input: the processed CSV by default, or the
// full in-memory pipeline when pointed at a raw workbook.
func loadTable(cmd *cobra.Command, cfg *config.Config, logger *internal.Logger, dataPath string) (*study.Table, []string, error) {
	if dataPath == "" {
		dataPath = cfg.Data.ProcessedPath
	}

	if strings.EqualFold(filepath.Ext(dataPath), ".csv") {
		loader := app.NewTableLoader(coercer.New(), cfg.Analysis.GroupColumn, logger)
		table, err := loader.Load(excel.NewDataReader(dataPath))
		return table, nil, err
	}

	// Raw workbook: run the pipeline in memory without persisting.
	cfg.Data.RawPath = dataPath
	svc := app.NewPipelineService(
		excel.NewDataReader(dataPath),
		coercer.New(),
		export.NewCSVExporter(),
		cfg,
		logger,
	)
	table, schema, err := svc.BuildTable(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return table, schema.Warnings, nil
}

func printComparison(c *app.Comparison) {
	fmt.Printf("\n=== GROUP DESCRIPTIVES (%s) ===\n", c.DV)
	for _, g := range c.Descriptives {
		fmt.Printf("%-4s n=%-4d mean=%.4f sd=%.4f se=%.4f\n", g.Group, g.N, g.Mean, g.SD, g.SE)
	}

	r := c.Result
	fmt.Printf("\n=== WELCH'S T-TEST ===\n")
	fmt.Printf("t(%.2f) = %.4f, two-tailed %s\n", r.DF, r.T, pString(r.P))
	fmt.Printf("Cohen's d = %.4f (%s effect)\n", r.CohensD, c.Effect)
	fmt.Printf("%s mean = %.4f (n=%d), %s mean = %.4f (n=%d)\n",
		r.Group1, r.Mean1, r.N1, r.Group2, r.Mean2, r.N2)
}

func pString(p float64) string {
	if p < 0.0001 {
		return "p < 0.0001"
	}
	return fmt.Sprintf("p = %.4f", p)
}

func groupCountString(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	// Deterministic order for the two labels
	if len(keys) == 2 && keys[0] > keys[1] {
		keys[0], keys[1] = keys[1], keys[0]
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}

// writeFile persists rendered output, creating parent directories on demand.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
