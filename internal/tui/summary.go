package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type SummaryRow struct {
	Label string
	Value string
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// ResultRow is one per-image outcome in the end-of-batch report.
type ResultRow struct {
	DisplayName string
	Outcome     string
	Saved       bool
}

func RenderResults(rows []ResultRow) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		marker := skipStyle.Render("·")
		outcome := dimStyle.Render(row.Outcome)
		if row.Saved {
			marker = okStyle.Render("+")
			outcome = valueStyle.Render(row.Outcome)
		}
		lines = append(lines, fmt.Sprintf("  %s %s  %s", marker, labelStyle.Render(row.DisplayName), outcome))
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(ColorSuccess)
	skipStyle  = lipgloss.NewStyle().Foreground(ColorDim)
)
