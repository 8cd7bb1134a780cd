package tui

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Mr-Dark-debug/tempo/internal/catalog"
	"github.com/Mr-Dark-debug/tempo/internal/database"
	"github.com/Mr-Dark-debug/tempo/internal/timeline/timelinetest"

	tea "github.com/charmbracelet/bubbletea"
)

const testInterval = 12 * time.Second

var stepKeys = []string{"intake", "assessment", "plan", "sessions", "followup"}

func newTestModel(t *testing.T, tweak func(*Options)) (Model, *timelinetest.ManualClock, *database.DBService) {
	t.Helper()

	store, err := database.NewDBService(":memory:")
	if err != nil {
		t.Fatalf("NewDBService failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	deck := &database.Deck{
		DeckID:     "care-path",
		Name:       "Care path",
		SourceLang: "en",
		Interval:   testInterval,
	}
	for _, k := range stepKeys {
		title := strings.ToUpper(k[:1]) + k[1:]
		deck.Steps = append(deck.Steps, database.DeckStep{Key: k, Title: title, Body: "About " + k})
	}
	if err := store.UpsertDeck(deck); err != nil {
		t.Fatalf("UpsertDeck failed: %v", err)
	}

	bundle, err := catalog.NewBundle("en")
	if err != nil {
		t.Fatalf("NewBundle failed: %v", err)
	}
	if err := bundle.AddMessageFile([]byte("care-path.intake.title: Primera consulta\n"), "es.yaml"); err != nil {
		t.Fatalf("AddMessageFile failed: %v", err)
	}

	clock := timelinetest.NewManualClock()
	opts := Options{
		DefaultLanguage: "en",
		Clock:           clock,
		Logger:          log.New(io.Discard, "", 0),
	}
	if tweak != nil {
		tweak(&opts)
	}
	return NewModel(store, bundle, opts), clock, store
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// openTestDeck loads the sample deck into a terminal big enough to show
// the whole stage.
func openTestDeck(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, m.loadDeck("care-path")())
	if m.err != nil {
		t.Fatalf("opening deck: %v", m.err)
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOpenDeckStartsAutoplayWhenVisible(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	m, _ = update(t, m, m.loadDeck("care-path")())
	if m.showDeckList {
		t.Fatal("expected stage after loading a deck")
	}
	if m.Controller().State().Running {
		t.Error("autoplay should wait for a window size")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	state := m.Controller().State()
	if !state.Running || !state.Visible {
		t.Errorf("expected running and visible, got %+v", state)
	}
	if state.Interval != testInterval {
		t.Errorf("expected deck interval %s, got %s", testInterval, state.Interval)
	}

	view := m.stage.snapshot()
	if !view.Shown || view.Index != 0 || view.Active != 0 || view.Step.Title != "Intake" {
		t.Errorf("unexpected stage after open: %+v", view)
	}
}

func TestAutoplayAdvancesStage(t *testing.T) {
	m, clock, _ := newTestModel(t, nil)
	m = openTestDeck(t, m)

	clock.Advance(testInterval)
	view := m.stage.snapshot()
	if view.Index != 1 || view.Active != 1 {
		t.Errorf("expected step 1 after one interval, got %+v", view)
	}
	if view.Step.Title != "Assessment" {
		t.Errorf("expected Assessment, got %q", view.Step.Title)
	}
}

func TestBlurPausesAndFocusResumes(t *testing.T) {
	m, clock, _ := newTestModel(t, nil)
	m = openTestDeck(t, m)

	clock.Advance(5 * time.Second)
	m, _ = update(t, m, tea.BlurMsg{})

	state := m.Controller().State()
	if state.Running {
		t.Fatal("expected autoplay to stop on blur")
	}
	if state.Elapsed != 5*time.Second {
		t.Errorf("expected 5s banked, got %s", state.Elapsed)
	}

	clock.Advance(time.Minute)
	if got := m.stage.snapshot().Index; got != 0 {
		t.Errorf("expected no advance while blurred, got index %d", got)
	}

	m, _ = update(t, m, tea.FocusMsg{})
	if !m.Controller().State().Running {
		t.Fatal("expected autoplay to resume on focus")
	}
	if d, ok := clock.NextDeadline(); !ok || d != 7*time.Second {
		t.Errorf("expected 7s remaining, got %s (armed=%v)", d, ok)
	}
}

func TestSmallTerminalHoldsAutoplay(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = openTestDeck(t, m)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 4})
	if m.Controller().State().Running {
		t.Error("expected autoplay to stop when the stage barely fits")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})
	if !m.Controller().State().Running {
		t.Error("expected autoplay to resume once the stage fits again")
	}
}

func TestNumberKeySelectsStep(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = openTestDeck(t, m)

	m, _ = update(t, m, runes("3"))
	if got := m.Controller().State().Index; got != 2 {
		t.Errorf("expected index 2, got %d", got)
	}

	// Beyond the deck: ignored.
	m, _ = update(t, m, runes("9"))
	if got := m.Controller().State().Index; got != 2 {
		t.Errorf("expected index to stay at 2, got %d", got)
	}
}

func TestArrowKeysStepAndWrap(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = openTestDeck(t, m)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.Controller().State().Index; got != 1 {
		t.Errorf("right: expected 1, got %d", got)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, runes("h"))
	if got := m.Controller().State().Index; got != 4 {
		t.Errorf("expected wrap to 4, got %d", got)
	}
}

func TestTabFocusesSelectors(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = openTestDeck(t, m)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	state := m.Controller().State()
	if !state.Focused || state.Running {
		t.Fatalf("expected focused and stopped, got %+v", state)
	}

	// The cursor moves without selecting.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.Controller().State().Index; got != 0 {
		t.Errorf("expected index to stay at 0 while moving the cursor, got %d", got)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Controller().State().Index; got != 2 {
		t.Errorf("expected enter to select 2, got %d", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	state = m.Controller().State()
	if state.Focused || !state.Running {
		t.Errorf("expected unfocused and running, got %+v", state)
	}
}

func TestMouseHoverHoldsAutoplay(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = openTestDeck(t, m)

	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 6, Action: tea.MouseActionMotion})
	state := m.Controller().State()
	if !state.Hovered || state.Running {
		t.Fatalf("expected hovered and stopped, got %+v", state)
	}

	// Onto the header: outside the stage.
	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 0, Action: tea.MouseActionMotion})
	state = m.Controller().State()
	if state.Hovered || !state.Running {
		t.Errorf("expected running after the pointer left, got %+v", state)
	}
}

func TestMouseClickSelectsStep(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = openTestDeck(t, m)

	cell := selectorWidth(80, len(stepKeys))
	x := 1 + cell*3 + 2
	m, _ = update(t, m, tea.MouseMsg{X: x, Y: selectorsY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	if got := m.Controller().State().Index; got != 3 {
		t.Errorf("expected click to select 3, got %d", got)
	}
}

func TestLanguageCycleKeepsPlayback(t *testing.T) {
	m, clock, store := newTestModel(t, nil)
	m = openTestDeck(t, m)

	clock.Advance(4 * time.Second)
	m, cmd := update(t, m, runes("L"))

	if m.lang != "es" {
		t.Fatalf("expected es, got %q", m.lang)
	}
	if got := m.stage.snapshot().Step.Title; got != "Primera consulta" {
		t.Errorf("expected translated title, got %q", got)
	}
	state := m.Controller().State()
	if !state.Running || state.Index != 0 {
		t.Errorf("expected playback to continue on step 0, got %+v", state)
	}
	if pos := m.Controller().Position(); pos != 4*time.Second {
		t.Errorf("expected position 4s, got %s", pos)
	}

	if cmd == nil {
		t.Fatal("expected a command saving the preference")
	}
	m, _ = update(t, m, cmd())
	pref, err := store.GetPreference(database.PrefLanguage)
	if err != nil || pref != "es" {
		t.Errorf("expected stored preference es, got %q (%v)", pref, err)
	}

	// And back to the source language.
	m, _ = update(t, m, runes("L"))
	if got := m.stage.snapshot().Step.Title; got != "Intake" {
		t.Errorf("expected source title, got %q", got)
	}
}

func TestStoredLanguagePreferenceIsUsed(t *testing.T) {
	m, _, store := newTestModel(t, nil)
	if err := store.SetPreference(database.PrefLanguage, "ES"); err != nil {
		t.Fatalf("SetPreference failed: %v", err)
	}
	m = openTestDeck(t, m)

	if m.lang != "es" {
		t.Errorf("expected normalized es, got %q", m.lang)
	}
	if got := m.stage.snapshot().Step.Title; got != "Primera consulta" {
		t.Errorf("expected translated title, got %q", got)
	}
}

func TestCatalogReloadSwapsText(t *testing.T) {
	dir := t.TempDir()
	m, clock, _ := newTestModel(t, func(o *Options) {
		o.Language = "es"
		o.LocalesDir = dir
	})
	m = openTestDeck(t, m)
	clock.Advance(testInterval)

	data := "care-path.assessment.title: Evaluación\n"
	if err := os.WriteFile(filepath.Join(dir, "es.yaml"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m, cmd := update(t, m, CatalogChangedMsg{})
	if cmd == nil {
		t.Fatal("expected a reload command")
	}
	m, _ = update(t, m, cmd())

	view := m.stage.snapshot()
	if view.Index != 1 || view.Step.Title != "Evaluación" {
		t.Errorf("expected reloaded text on step 1, got %+v", view)
	}
	if !m.Controller().State().Running {
		t.Error("expected reload not to interrupt autoplay")
	}
}

func TestEscReturnsToDeckList(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = openTestDeck(t, m)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if !m.showDeckList {
		t.Fatal("expected the deck list")
	}
	if m.Controller().State().Running {
		t.Error("expected autoplay to stop once the stage is hidden")
	}

	m, _ = update(t, m, cmd())
	if len(m.decks) != 1 || m.decks[0].DeckID != "care-path" {
		t.Errorf("unexpected deck list: %+v", m.decks)
	}
}

func TestQuitDisposesController(t *testing.T) {
	m, clock, _ := newTestModel(t, nil)
	m = openTestDeck(t, m)

	if clock.Pending() != 1 {
		t.Fatalf("expected one armed timer, got %d", clock.Pending())
	}

	_, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if clock.Pending() != 0 {
		t.Errorf("expected the timer to be cancelled, %d pending", clock.Pending())
	}
}

func TestDeckListNavigation(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m, _ = update(t, m, m.loadDecks()())

	if m.statusMsg != "1 decks" {
		t.Errorf("unexpected status %q", m.statusMsg)
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	m, _ = update(t, m, cmd())
	if m.showDeckList || m.deck == nil || m.deck.DeckID != "care-path" {
		t.Errorf("expected the stage for care-path")
	}
}

func TestViewRendersStage(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = openTestDeck(t, m)

	out := m.View()
	for _, want := range []string{"TEMPO", "Care path", "Intake", "About intake", "1/5"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines > 30 {
		t.Errorf("view has %d lines, terminal has 30", lines)
	}
}

func TestInvalidDefaultLanguageFallsBackToEnglish(t *testing.T) {
	store, err := database.NewDBService(":memory:")
	if err != nil {
		t.Fatalf("NewDBService failed: %v", err)
	}
	defer store.Close()

	m := NewModel(store, nil, Options{DefaultLanguage: "!!"})
	if m.bundle == nil {
		t.Fatal("expected a bundle for an invalid default language")
	}
	if m.opts.DefaultLanguage != "en" {
		t.Errorf("expected fallback to en, got %q", m.opts.DefaultLanguage)
	}

	deck := &database.Deck{DeckID: "d", SourceLang: "en", Steps: []database.DeckStep{{Key: "a", Title: "A"}}}
	if steps := m.bundle.Localize(deck, "es"); len(steps) != 1 || steps[0].Title != "A" {
		t.Errorf("unexpected localized steps: %+v", steps)
	}
}
