package analysis

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Mr-Dark-debug/tempo/internal/catalog"
	"github.com/Mr-Dark-debug/tempo/internal/database"
)

func setup(t *testing.T) *Analyzer {
	t.Helper()

	store, err := database.NewDBService(":memory:")
	if err != nil {
		t.Fatalf("NewDBService failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	deck := &database.Deck{
		DeckID:     "tour",
		Name:       "Tour",
		SourceLang: "en",
		Steps: []database.DeckStep{
			{Key: "a", Title: "One", Body: "First"},
			{Key: "b", Title: "Two"},
			{Key: "c", Title: "Three", Body: "Third"},
		},
	}
	if err := store.UpsertDeck(deck); err != nil {
		t.Fatalf("UpsertDeck failed: %v", err)
	}

	bundle, err := catalog.NewBundle("en")
	if err != nil {
		t.Fatalf("NewBundle failed: %v", err)
	}
	es := "tour.a.title: Uno\ntour.a.body: Primero\ntour.b.title: Dos\ntour.c.title: Tres\ntour.c.body: Tercero\n"
	fr := "tour.a.title: Un\n"
	if err := bundle.AddMessageFile([]byte(es), "es.yaml"); err != nil {
		t.Fatal(err)
	}
	if err := bundle.AddMessageFile([]byte(fr), "fr.yaml"); err != nil {
		t.Fatal(err)
	}

	return NewAnalyzer(store, bundle, 10*time.Second)
}

func TestCoverage(t *testing.T) {
	a := setup(t)

	report, err := a.Coverage("tour")
	if err != nil {
		t.Fatalf("Coverage failed: %v", err)
	}

	if report.StepCount != 3 || report.Interval != 10*time.Second || report.CycleTime != 30*time.Second {
		t.Errorf("unexpected playback numbers: %+v", report)
	}
	if len(report.Languages) != 2 {
		t.Fatalf("expected 2 languages, got %+v", report.Languages)
	}

	// Least complete first.
	fr, es := report.Languages[0], report.Languages[1]
	if fr.Language != "fr" || fr.Translated != 1 || fr.Total != 5 || fr.Status != "partial" {
		t.Errorf("unexpected fr coverage: %+v", fr)
	}
	if fr.Percent != 20 {
		t.Errorf("expected 20%%, got %v", fr.Percent)
	}
	if len(fr.Missing) != 4 || fr.Missing[0] != "tour.a.body" {
		t.Errorf("unexpected fr missing list: %v", fr.Missing)
	}
	if es.Language != "es" || es.Status != "complete" || len(es.Missing) != 0 {
		t.Errorf("unexpected es coverage: %+v", es)
	}
}

func TestCoverageUnknownDeck(t *testing.T) {
	a := setup(t)
	_, err := a.Coverage("nope")
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFormatReport(t *testing.T) {
	a := setup(t)
	report, err := a.Coverage("tour")
	if err != nil {
		t.Fatalf("Coverage failed: %v", err)
	}

	out := a.FormatReport(report)
	for _, want := range []string{
		"# Tempo Coverage Report",
		"| Full Cycle | 30.0s |",
		"| fr | 1/5 | 20.0% | partial |",
		"### Missing in fr",
		"- `tour.c.body`",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Missing in es") {
		t.Error("complete languages should not list missing messages")
	}
}

func TestPercentAndStatus(t *testing.T) {
	if got := percent(1, 3); got != 33.3 {
		t.Errorf("percent(1, 3) = %v", got)
	}
	if got := percent(0, 0); got != 100 {
		t.Errorf("percent(0, 0) = %v", got)
	}
	if status(0, 4) != "untranslated" || status(4, 4) != "complete" || status(2, 4) != "partial" {
		t.Error("unexpected status labels")
	}
}

func TestCoverageOmitsDefaultLanguageWithoutFile(t *testing.T) {
	store, err := database.NewDBService(":memory:")
	if err != nil {
		t.Fatalf("NewDBService failed: %v", err)
	}
	defer store.Close()

	deck := &database.Deck{
		DeckID:     "d",
		Name:       "D",
		SourceLang: "es",
		Steps:      []database.DeckStep{{Key: "a", Title: "Hola"}},
	}
	if err := store.UpsertDeck(deck); err != nil {
		t.Fatalf("UpsertDeck failed: %v", err)
	}

	bundle, err := catalog.NewBundle("en")
	if err != nil {
		t.Fatalf("NewBundle failed: %v", err)
	}
	if err := bundle.AddMessageFile([]byte("d.a.title: Hola\n"), "ca.yaml"); err != nil {
		t.Fatal(err)
	}

	report, err := NewAnalyzer(store, bundle, time.Second).Coverage("d")
	if err != nil {
		t.Fatalf("Coverage failed: %v", err)
	}
	if len(report.Languages) != 1 || report.Languages[0].Language != "ca" {
		t.Errorf("expected only ca, got %+v", report.Languages)
	}
}
