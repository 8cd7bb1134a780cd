// Package analysis reports how completely a deck is translated and how
// long it takes to play through.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Mr-Dark-debug/tempo/internal/catalog"
	"github.com/Mr-Dark-debug/tempo/internal/database"
	"github.com/Mr-Dark-debug/tempo/pkg/timeutil"
)

// Analyzer inspects stored decks against a translation bundle.
type Analyzer struct {
	store           database.Store
	bundle          *catalog.Bundle
	defaultInterval time.Duration
}

// NewAnalyzer creates an analyzer. defaultInterval is the step duration
// assumed for decks that do not set their own.
func NewAnalyzer(store database.Store, bundle *catalog.Bundle, defaultInterval time.Duration) *Analyzer {
	return &Analyzer{store: store, bundle: bundle, defaultInterval: defaultInterval}
}

// ============================================================
// Coverage
// ============================================================

// LanguageCoverage is the translation state of a deck in one language.
type LanguageCoverage struct {
	Language   string   `json:"language"`
	Translated int      `json:"translated"`
	Total      int      `json:"total"`
	Percent    float64  `json:"percent"`
	Missing    []string `json:"missing,omitempty"`
	Status     string   `json:"status"` // "complete", "partial", "untranslated"
}

// CoverageReport is the full report for one deck.
type CoverageReport struct {
	DeckID      string             `json:"deck_id"`
	DeckName    string             `json:"deck_name"`
	SourceLang  string             `json:"source_lang"`
	StepCount   int                `json:"step_count"`
	Interval    time.Duration      `json:"interval"`
	CycleTime   time.Duration      `json:"cycle_time"`
	Languages   []LanguageCoverage `json:"languages"`
	GeneratedAt string             `json:"generated_at"`
}

// Coverage computes per-language translation coverage for a deck. Every
// language with at least one message file is reported, complete or not.
func (a *Analyzer) Coverage(deckID string) (*CoverageReport, error) {
	deck, err := a.store.GetDeck(deckID)
	if err != nil {
		return nil, fmt.Errorf("loading deck for coverage: %w", err)
	}

	interval := deck.Interval
	if interval <= 0 {
		interval = a.defaultInterval
	}

	report := &CoverageReport{
		DeckID:      deck.DeckID,
		DeckName:    deck.Name,
		SourceLang:  deck.SourceLang,
		StepCount:   len(deck.Steps),
		Interval:    interval,
		CycleTime:   interval * time.Duration(len(deck.Steps)),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	total := messageCount(deck)
	for _, lang := range a.bundle.Languages(deck) {
		if lang == deck.SourceLang {
			continue
		}
		missing := a.bundle.Missing(deck, lang)
		cov := LanguageCoverage{
			Language:   lang,
			Translated: total - len(missing),
			Total:      total,
			Missing:    missing,
		}
		cov.Percent = percent(cov.Translated, total)
		cov.Status = status(cov.Translated, total)
		report.Languages = append(report.Languages, cov)
	}

	// Least complete first
	sort.SliceStable(report.Languages, func(i, j int) bool {
		return report.Languages[i].Percent < report.Languages[j].Percent
	})

	return report, nil
}

func messageCount(deck *database.Deck) int {
	n := 0
	for _, st := range deck.Steps {
		n++
		if st.Body != "" {
			n++
		}
	}
	return n
}

func percent(part, total int) float64 {
	if total == 0 {
		return 100
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

func status(translated, total int) string {
	switch {
	case translated >= total:
		return "complete"
	case translated == 0:
		return "untranslated"
	default:
		return "partial"
	}
}

// ============================================================
// Report formatting
// ============================================================

// FormatReport generates a human-readable markdown report.
func (a *Analyzer) FormatReport(report *CoverageReport) string {
	var b strings.Builder

	b.WriteString("# Tempo Coverage Report\n\n")
	fmt.Fprintf(&b, "**Deck:** `%s` (%s)\n", report.DeckID, report.DeckName)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", report.GeneratedAt)

	b.WriteString("## Playback\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Steps | %d |\n", report.StepCount)
	fmt.Fprintf(&b, "| Source Language | %s |\n", report.SourceLang)
	fmt.Fprintf(&b, "| Interval | %s |\n", timeutil.FormatDuration(report.Interval))
	fmt.Fprintf(&b, "| Full Cycle | %s |\n\n", timeutil.FormatDuration(report.CycleTime))

	if len(report.Languages) == 0 {
		b.WriteString("No translations found.\n")
		return b.String()
	}

	b.WriteString("## Translations\n\n")
	b.WriteString("| Language | Translated | Coverage | Status |\n")
	b.WriteString("|----------|------------|----------|--------|\n")
	for _, l := range report.Languages {
		fmt.Fprintf(&b, "| %s | %d/%d | %.1f%% | %s |\n",
			l.Language, l.Translated, l.Total, l.Percent, l.Status)
	}
	b.WriteString("\n")

	for _, l := range report.Languages {
		if len(l.Missing) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### Missing in %s\n\n", l.Language)
		for _, id := range l.Missing {
			fmt.Fprintf(&b, "- `%s`\n", id)
		}
		b.WriteString("\n")
	}

	return b.String()
}
