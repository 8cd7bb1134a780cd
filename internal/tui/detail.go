package tui

import (
	"fmt"
	"strings"
)

// renderContent renders the active step's heading and paragraph.
func renderContent(m *Model, view stageView, width, height int) string {
	if !view.Shown {
		return emptyStateStyle.Render("Nothing to show yet.")
	}

	var lines []string
	lines = append(lines, stepCounterStyle.Render(
		fmt.Sprintf("Step %d of %d", view.Index+1, m.stepCount())))
	lines = append(lines, stepTitleStyle.Render(truncate(view.Step.Title, width)))

	if view.Step.Body != "" {
		lines = append(lines, "")
		body := stepBodyStyle.Width(width).Render(view.Step.Body)
		lines = append(lines, strings.Split(body, "\n")...)
	}

	// Truncate to available height
	if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

// renderContentPanel wraps the content region in a styled panel.
func renderContentPanel(m *Model, view stageView, width, height int) string {
	content := renderContent(m, view, width-2, height)
	return panelStyle.Width(width).Height(height).Render(content)
}
