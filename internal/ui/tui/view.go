package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderRows(&b, m)

	if m.Done && len(m.Outputs) > 0 {
		b.WriteString(sectionStyle.Render("  Outputs"))
		b.WriteString("\n")
		b.WriteString(RenderOutputs(m.Outputs))
	}

	renderFooter(&b, m)
	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	b.WriteString(titleStyle.Render(fmt.Sprintf("jenkins-stack %s: %s", m.Operation, m.Title)))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Done:
		status += readyStyle.Render("Done")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame))
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	fmt.Fprintf(b, "  %s %d%%\n", bar, int(progress*100))
}

func renderRows(b *strings.Builder, m Model) {
	step := -1
	for _, row := range m.Rows {
		if row.Step != step {
			step = row.Step
			b.WriteString(sectionStyle.Render(fmt.Sprintf("  Step %d", step+1)))
			b.WriteString("\n")
		}

		icon, style := rowIcon(row, m.SpinnerFrame)
		extra := ""
		switch {
		case row.Err != nil:
			extra = failedStyle.Render(row.Err.Error())
		case row.State == RowDone:
			extra = dimStyle.Render(formatDuration(row.Duration))
		}
		fmt.Fprintf(b, "    %s %-22s %-20s %s\n", style(icon), style(row.Kind), row.Name, extra)
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	b.WriteString(footerStyle.Render(fmt.Sprintf("  elapsed: %s  |  q: quit", elapsed)))
	b.WriteString("\n")
}

func rowIcon(row Row, frame int) (string, styleFunc) {
	switch row.State {
	case RowDone:
		return checkMark, sf(readyStyle)
	case RowFailed:
		return crossMark, sf(failedStyle)
	case RowActive:
		return currentSpinner(frame), sf(activeStyle)
	default:
		return pending, sf(dimStyle)
	}
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}
	if len(m.Rows) == 0 {
		return 0
	}

	done := 0
	for _, row := range m.Rows {
		if row.State == RowDone {
			done++
		}
	}
	return float64(done) / float64(len(m.Rows))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
