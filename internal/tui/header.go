package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader produces the top bar:
//
//	TEMPO  |  Care path  |  es  |  running
func renderHeader(m *Model) string {
	brand := headerBrandStyle.Render("TEMPO")
	sep := headerSepStyle.Render(" │ ")

	var parts []string
	parts = append(parts, brand)

	if m.deck != nil && !m.showDeckList {
		parts = append(parts, sep)
		parts = append(parts, headerMetaStyle.Render(m.deck.Name))
		parts = append(parts, sep)
		parts = append(parts, headerMetaStyle.Render(m.lang))

		if m.ctrl != nil {
			parts = append(parts, sep)
			parts = append(parts, phaseLabel(m.ctrl.State()))
		}
	} else {
		parts = append(parts, sep)
		parts = append(parts, headerMetaStyle.Render("Decks"))
	}

	content := strings.Join(parts, "")

	return headerBarStyle.Width(m.width).Render(content)
}

// renderFooter produces the bottom status bar with keyboard hints.
func renderFooter(m *Model) string {
	var left, right string

	if m.statusMsg != "" {
		left = statusStyle.Render(m.statusMsg)
	}

	switch {
	case m.showDeckList || m.ctrl == nil:
		right = renderHints([]hint{
			{"↑↓", "navigate"},
			{"enter", "play"},
			{"r", "refresh"},
			{"q", "quit"},
		})
	case m.activePane == PaneSelectors:
		right = renderHints([]hint{
			{"←→", "move"},
			{"enter", "select"},
			{"tab", "leave"},
			{"q", "quit"},
		})
	default:
		var hints []hint
		if m.navEnabled() {
			hints = append(hints, hint{"←→", "step"})
		}
		hints = append(hints,
			hint{"1-9", "jump"},
			hint{"tab", "selectors"},
			hint{"L", "language"},
			hint{"esc", "decks"},
			hint{"q", "quit"},
		)
		right = renderHints(hints)
	}

	// Hints win over the status line on narrow terminals.
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		left = ""
		gap = maxInt(m.width-lipgloss.Width(right), 0)
	}

	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Background(colorBgSurface).
		Width(m.width).
		Render(bar)
}

type hint struct {
	key  string
	desc string
}

func renderHints(hints []hint) string {
	var parts []string
	for _, h := range hints {
		parts = append(parts,
			hintKeyStyle.Render(h.key)+" "+hintDescStyle.Render(h.desc))
	}
	return strings.Join(parts, hintDescStyle.Render("  "))
}
