package tui

import (
	"fmt"
	"strings"

	"github.com/Mr-Dark-debug/tempo/internal/timeline"
)

const minSelectorWidth = 4

// selectorWidth is the width of one selector cell when n selectors share
// a panel of the given outer width.
func selectorWidth(width, n int) int {
	if n <= 0 {
		return 0
	}
	return maxInt((width-2)/n, minSelectorWidth)
}

// selectorAt maps a screen column on the selector row to a step index.
func selectorAt(x, width, n int) (int, bool) {
	cell := selectorWidth(width, n)
	if cell == 0 {
		return 0, false
	}
	col := x - 1 // left padding
	if col < 0 || col >= cell*n {
		return 0, false
	}
	return col / cell, true
}

// renderSelectors renders one cell per step, numbered from 1. The
// active step is highlighted; while the row has focus the keyboard
// cursor is underlined.
func renderSelectors(m *Model, steps []timeline.Step, active int) string {
	n := len(steps)
	if n == 0 {
		return ""
	}
	cell := selectorWidth(m.width, n)

	var b strings.Builder
	for i, st := range steps {
		label := truncate(fmt.Sprintf("%d %s", i+1, st.Title), cell-1)
		label = " " + label + strings.Repeat(" ", maxInt(cell-1-runeLen(label), 0))

		style := selectorStyle
		if i == active {
			style = selectorActiveStyle
		}
		if m.activePane == PaneSelectors && i == m.cursor {
			style = style.Inherit(selectorCursorStyle)
		}
		b.WriteString(style.Render(label))
	}
	return b.String()
}

// renderSelectorsPanel wraps the selector row in a styled panel.
func renderSelectorsPanel(m *Model, steps []timeline.Step, view stageView, width int) string {
	content := renderSelectors(m, steps, view.Active)

	style := panelStyle
	if m.activePane == PaneSelectors {
		style = panelActiveStyle
	}

	return style.Width(width).Height(selectorsRows - 1).Render(content)
}
