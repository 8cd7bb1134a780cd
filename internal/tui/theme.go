package tui

import "github.com/charmbracelet/lipgloss"

// ────────────────────────────────────────────────────────────
// Color Palette
// ────────────────────────────────────────────────────────────
//
// All colors are defined here. No ad-hoc color literals anywhere.

var (
	// Base
	colorBg        = lipgloss.Color("#0d1117")
	colorBgSurface = lipgloss.Color("#1c2128")

	// Text
	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	// Accents
	colorBlue   = lipgloss.Color("#58a6ff")
	colorGreen  = lipgloss.Color("#3fb950")
	colorYellow = lipgloss.Color("#d29922")
	colorPurple = lipgloss.Color("#bc8cff")

	// Structural
	colorDivider   = lipgloss.Color("#30363d")
	colorHighlight = lipgloss.Color("#1f6feb")
)

// ────────────────────────────────────────────────────────────
// Component Styles
// ────────────────────────────────────────────────────────────

// Header bar
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// Panel chrome
var (
	topRule = lipgloss.Border{Top: "─"}

	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(topRule, true, false, false, false).
			BorderForeground(colorDivider)

	panelActiveStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Border(topRule, true, false, false, false).
				BorderForeground(colorBlue)
)

// Step selectors
var (
	selectorStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	selectorActiveStyle = lipgloss.NewStyle().
				Background(colorHighlight).
				Foreground(colorText).
				Bold(true)

	selectorCursorStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Underline(true)
)

// Content region
var (
	stepCounterStyle = lipgloss.NewStyle().
				Foreground(colorTextMuted)

	stepTitleStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	stepBodyStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// Progress bar
var (
	progressFillStyle = lipgloss.NewStyle().
				Foreground(colorPurple)

	progressTrackStyle = lipgloss.NewStyle().
				Foreground(colorTextMuted)

	phaseRunningStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	phasePausedStyle = lipgloss.NewStyle().
				Foreground(colorYellow)

	phaseIdleStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)

// Footer / status bar
var (
	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)

// Deck list
var (
	listTitleStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	deckItemStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	deckSelectedStyle = lipgloss.NewStyle().
				Background(colorHighlight).
				Foreground(colorText).
				Bold(true).
				Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(2, 4)

	langBadgeStyle = lipgloss.NewStyle().
			Foreground(colorBg).
			Background(colorBlue).
			Padding(0, 1)
)
