package extractor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"clipforge/internal/types"
)

const (
	reportFileName  = "extraction_report.json"
	summaryFileName = "extraction_summary.txt"
)

// WriteReport persists the batch report next to the clips, machine-readable
// and human-readable.
func WriteReport(rep types.ExtractionReport, outDir string) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, reportFileName), b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, summaryFileName), []byte(RenderSummary(rep)), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// RenderSummary formats the report as a table for operators.
func RenderSummary(rep types.ExtractionReport) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Clip extraction: %s", filepath.Base(rep.Source))
	tw.AppendHeader(table.Row{"#", "Section", "Status", "Size", "Elapsed"})
	for i, res := range rep.Results {
		status := "FAILED"
		switch {
		case res.Skipped:
			status = "EXISTS"
		case res.Success:
			status = "OK"
		}
		tw.AppendRow(table.Row{
			i + 1,
			res.SectionID,
			status,
			humanSize(res.FileSize),
			fmt.Sprintf("%.1fs", res.ElapsedSec),
		})
	}
	tw.AppendFooter(table.Row{
		"", "",
		fmt.Sprintf("%d ok / %d exist / %d failed", rep.Succeeded, rep.Skipped, rep.Failed),
		"",
		fmt.Sprintf("%.1fs", rep.TotalElapsedSec),
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	var sb strings.Builder
	sb.WriteString(tw.Render())
	sb.WriteString("\n")
	if len(rep.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, e := range rep.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.2f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.2f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
