// Package report renders the group-comparison results as a Markdown
// document, optionally converted to a standalone HTML page.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gocalib/internal/analysis"
)

// Data is everything one study report renders.
type Data struct {
	RunID       string
	GeneratedAt time.Time
	SourcePath  string
	DV          string

	Groups      []analysis.GroupDescriptives
	Comparison  *analysis.ComparisonResult
	Effect      string
	Calibration []analysis.CalibrationResult
	Reliability analysis.ReliabilityResult
	Profiles    []analysis.ColumnProfile
	Warnings    []string
}

// RenderMarkdown builds the full Markdown report
func RenderMarkdown(d *Data) []byte {
	var b strings.Builder

	b.WriteString("# Study Comparison Report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", d.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", d.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "- Source: `%s`\n", d.SourcePath)
	fmt.Fprintf(&b, "- Dependent variable: `%s`\n\n", d.DV)

	writeDescriptives(&b, d.Groups)
	writeComparison(&b, d)
	writeCalibration(&b, d.Calibration)
	writeReliability(&b, d.Reliability)
	writeProfiles(&b, d.Profiles)
	writeWarnings(&b, d.Warnings)

	return []byte(b.String())
}

// RenderHTML converts a Markdown report into a standalone HTML page.
func RenderHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)

	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Study Comparison Report",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}

func writeDescriptives(b *strings.Builder, groups []analysis.GroupDescriptives) {
	b.WriteString("## Group Descriptives\n\n")
	b.WriteString("| Group | n | Mean | SD | SE |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, g := range groups {
		fmt.Fprintf(b, "| %s | %d | %s | %s | %s |\n",
			g.Group, g.N, num(g.Mean), num(g.SD), num(g.SE))
	}
	b.WriteString("\n")
}

func writeComparison(b *strings.Builder, d *Data) {
	b.WriteString("## Welch's t-test\n\n")
	c := d.Comparison
	if c == nil {
		b.WriteString("Comparison unavailable.\n\n")
		return
	}

	fmt.Fprintf(b, "t(%.2f) = %.4f, two-tailed %s, Cohen's d = %.2f (%s effect).\n\n",
		c.DF, c.T, pString(c.P), c.CohensD, d.Effect)
	fmt.Fprintf(b, "Group means: %s %s vs %s %s (n1 = %d, n2 = %d).\n\n",
		c.Group1, num(c.Mean1), c.Group2, num(c.Mean2), c.N1, c.N2)

	if c.P < 0.05 {
		fmt.Fprintf(b, "The difference between %s and %s is statistically significant at α = 0.05.\n\n", c.Group1, c.Group2)
	} else {
		fmt.Fprintf(b, "The difference between %s and %s is not statistically significant at α = 0.05.\n\n", c.Group1, c.Group2)
	}
}

func writeCalibration(b *strings.Builder, results []analysis.CalibrationResult) {
	if len(results) == 0 {
		return
	}
	b.WriteString("## Confidence-Accuracy Calibration\n\n")
	b.WriteString("| Group | n | Pearson r |\n")
	b.WriteString("|---|---:|---:|\n")
	for _, r := range results {
		fmt.Fprintf(b, "| %s | %d | %s |\n", r.Group, r.N, num(r.R))
	}
	b.WriteString("\n")
}

func writeReliability(b *strings.Builder, r analysis.ReliabilityResult) {
	b.WriteString("## Internal Consistency\n\n")
	fmt.Fprintf(b, "KR-20 over the %d correctness items (%d complete responses): %s.\n\n",
		r.Items, r.N, num(r.Alpha))
}

func writeProfiles(b *strings.Builder, profiles []analysis.ColumnProfile) {
	if len(profiles) == 0 {
		return
	}
	b.WriteString("## Column Profiles\n\n")
	b.WriteString("| Column | n | Missing | Mean | SD | Min | P25 | Median | P75 | Max |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, p := range profiles {
		fmt.Fprintf(b, "| %s | %d | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			p.Column, p.N, p.Missing, num(p.Mean), num(p.SD),
			num(p.Min), num(p.P25), num(p.Median), num(p.P75), num(p.Max))
	}
	b.WriteString("\n")
}

func writeWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("## Warnings\n\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "- %s\n", w)
	}
	b.WriteString("\n")
}

// num renders a statistic for the report; undefined values show as n/a.
func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

// pString keeps very small p-values readable instead of printing 0.0000.
func pString(p float64) string {
	if math.IsNaN(p) {
		return "p = n/a"
	}
	if p < 0.0001 {
		return "p < 0.0001"
	}
	return fmt.Sprintf("p = %.4f", p)
}
