package tui

import (
	"fmt"
	"strings"

	"github.com/Mr-Dark-debug/tempo/pkg/timeutil"
	"github.com/charmbracelet/lipgloss"
)

// renderDeckList renders the deck selection screen.
func renderDeckList(m *Model, height int) string {
	if len(m.decks) == 0 {
		empty := emptyStateStyle.Render(
			"No decks found.\n\n" +
				"Import one with `tempo import deck.yaml`,\n" +
				"then press r to refresh.")
		return lipgloss.Place(
			m.width,
			maxInt(height, 1),
			lipgloss.Center,
			lipgloss.Center,
			empty,
		)
	}

	title := listTitleStyle.Render("Decks")
	count := dimStyle.Render(fmt.Sprintf("  %d total", len(m.decks)))

	var lines []string
	lines = append(lines, title+count)
	lines = append(lines, "")

	// Visible range for scrolling
	maxVisible := maxInt(height-2, 1)

	startIdx := 0
	if m.selectedDeck >= maxVisible {
		startIdx = m.selectedDeck - maxVisible + 1
	}
	endIdx := minInt(startIdx+maxVisible, len(m.decks))

	for i := startIdx; i < endIdx; i++ {
		d := m.decks[i]

		interval := "default"
		if d.Interval > 0 {
			interval = timeutil.FormatDuration(d.Interval)
		}
		content := fmt.Sprintf("%s  %s  %s  %s",
			langBadgeStyle.Render(d.SourceLang),
			d.Name,
			dimStyle.Render(fmt.Sprintf("%d steps", d.StepCount)),
			dimStyle.Render(interval))

		style := deckItemStyle
		if i == m.selectedDeck {
			style = deckSelectedStyle
		}
		lines = append(lines, style.Width(maxInt(m.width-4, 1)).Render(content))
	}

	return strings.Join(lines, "\n")
}
