package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/coursepack/internal/workflow"
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyleReady   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	labelStyleBlocked = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	labelStyleRunning = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	labelStyleSkipped = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	labelStyleDefault = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	detailTextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

var stagePhases = []workflow.Phase{
	workflow.PhaseCleanup,
	workflow.PhaseDoc,
	workflow.PhaseGraded,
	workflow.PhaseStudent,
}

// View renders one line per project followed by its current detail.
func (m Model) View() string {
	lines := []string{titleStyle.Render("coursepack"), ""}
	for _, row := range m.rows {
		lines = append(lines, m.renderRow(row))
		if row.detail != "" {
			lines = append(lines, detailTextStyle.Render("    "+truncate(row.detail, m.width-4)))
		}
	}
	lines = append(lines, "")
	switch {
	case m.quitting:
		lines = append(lines, labelStyleBlocked.Render("interrupted"))
	case m.finished && m.err != nil:
		lines = append(lines, labelStyleBlocked.Render("failed: ")+m.err.Error())
	case m.finished:
		lines = append(lines, labelStyleReady.Render(fmt.Sprintf("%d project(s) packaged", len(m.rows))))
	default:
		lines = append(lines, m.spinner.View()+" working  q=quit")
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) renderRow(row *projectRow) string {
	labels := make([]string, 0, len(stagePhases))
	for _, phase := range stagePhases {
		state := row.phases[phase]
		labels = append(labels, labelStyleFor(state).Render(phaseLabel(phase, state)))
	}
	return fmt.Sprintf("  %-20s %s", row.name, strings.Join(labels, " "))
}

func phaseLabel(phase workflow.Phase, state phaseState) string {
	marker := "·"
	switch state {
	case phaseRunning:
		marker = "…"
	case phaseDone:
		marker = "✓"
	case phaseSkipped:
		marker = "-"
	case phaseFailed:
		marker = "✗"
	}
	return marker + strings.ToLower(phase.String())
}

func labelStyleFor(state phaseState) lipgloss.Style {
	switch state {
	case phaseRunning:
		return labelStyleRunning
	case phaseDone:
		return labelStyleReady
	case phaseSkipped:
		return labelStyleSkipped
	case phaseFailed:
		return labelStyleBlocked
	default:
		return labelStyleDefault
	}
}

func truncate(s string, width int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if width <= 1 || len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}
