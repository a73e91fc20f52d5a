package main

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fyrsmithlabs/jsondistill/internal/distill"
)

var (
	// Header style - bold bright cyan
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	// Label style - dim cyan
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")).
			Padding(0, 1)

	// Value style - bright white, right aligned
	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true).
			Padding(0, 1).
			Align(lipgloss.Right)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// renderStats renders a summary table for one run.
func renderStats(result *distill.Result, inputBytes int) string {
	s := result.Stats
	redacted := 0
	if result.Secrets != nil {
		redacted = result.Secrets.TotalFindings
	}

	rows := [][]string{
		{"Input bytes", strconv.Itoa(inputBytes)},
		{"Output bytes", strconv.Itoa(len(result.Output))},
		{"Reduction", reduction(inputBytes, len(result.Output))},
		{"Lists", strconv.Itoa(s.Lists)},
		{"Representatives", strconv.Itoa(s.Representatives)},
		{"Folded items", strconv.Itoa(s.FoldedItems)},
		{"Pattern summaries", strconv.Itoa(s.Summaries)},
		{"Unique shapes", strconv.Itoa(s.UniqueShapes)},
		{"Secrets redacted", strconv.Itoa(redacted)},
		{"Duration", s.Duration.Round(time.Microsecond).String()},
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Run "+result.RunID, "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return valueStyle
			}
		})
	return t.String()
}

// reduction formats how many times smaller the output is.
func reduction(in, out int) string {
	if out == 0 {
		return "n/a"
	}
	return strconv.FormatFloat(float64(in)/float64(out), 'f', 1, 64) + "x"
}
