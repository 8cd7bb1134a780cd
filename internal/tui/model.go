package tui

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Mr-Dark-debug/tempo/internal/catalog"
	"github.com/Mr-Dark-debug/tempo/internal/database"
	"github.com/Mr-Dark-debug/tempo/internal/timeline"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ────────────────────────────────────────────────────────────
// Pane focuses
// ────────────────────────────────────────────────────────────

// Pane represents which part of the stage has keyboard focus.
type Pane int

const (
	PaneStage Pane = iota
	PaneSelectors
)

// ────────────────────────────────────────────────────────────
// Layout
// ────────────────────────────────────────────────────────────

const (
	headerRows = 1
	footerRows = 1

	// Each panel is a top rule plus its content rows.
	selectorsRows  = 2
	progressRows   = 3
	minContentRows = 4

	// stageRows is the height the stage needs to be fully in view.
	stageRows = selectorsRows + 1 + minContentRows + progressRows

	// selectorsY is the screen row holding the step selectors.
	selectorsY = headerRows + 1

	defaultFrameInterval = 50 * time.Millisecond
)

// stageVisibleRatio is the fraction of the stage that fits in a
// terminal of the given height.
func stageVisibleRatio(height int) float64 {
	body := height - headerRows - footerRows
	if body <= 0 {
		return 0
	}
	r := float64(body) / float64(stageRows)
	if r > 1 {
		return 1
	}
	return r
}

// ────────────────────────────────────────────────────────────
// Options
// ────────────────────────────────────────────────────────────

// Options configures the playback side of the TUI.
type Options struct {
	// Deck, when set, is opened straight away instead of showing the list.
	Deck string
	// Language overrides the stored preference for this session.
	Language string

	DefaultLanguage string
	LocalesDir      string

	Interval             time.Duration
	VisibilityThreshold  float64
	RespectReducedMotion bool
	PrefersReducedMotion func() bool
	FrameInterval        time.Duration

	// Clock drives both the controller and the progress animation.
	Clock  timeline.Clock
	Logger *log.Logger
}

// ────────────────────────────────────────────────────────────
// Model
// ────────────────────────────────────────────────────────────

// Model is the root BubbleTea model for the Tempo TUI.
// Playback lives in a timeline.Controller that renders into the stage;
// the model turns terminal input into controller signals.
type Model struct {
	store  database.Store
	bundle *catalog.Bundle
	opts   Options

	// Data
	decks []*database.DeckSummary
	deck  *database.Deck
	lang  string

	// Playback
	ctrl  *timeline.Controller
	bus   *timeline.Bus
	stage *stage

	// UI state
	activePane   Pane
	selectedDeck int
	cursor       int
	width        int
	height       int
	showDeckList bool
	hovered      bool
	blurred      bool

	// Status
	statusMsg string
	err       error
}

// NewModel creates a new TUI model backed by the given store and
// translation bundle.
func NewModel(store database.Store, bundle *catalog.Bundle, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = timeline.DefaultInterval
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = defaultFrameInterval
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	if _, err := catalog.NormalizeLanguage(opts.DefaultLanguage); err != nil {
		log.Printf("[WARN] tui: default language %q is invalid, using en", opts.DefaultLanguage)
		opts.DefaultLanguage = "en"
	}
	if bundle == nil {
		// Cannot fail: the default language was validated above.
		bundle, _ = catalog.NewBundle(opts.DefaultLanguage)
	}
	return Model{
		store:        store,
		bundle:       bundle,
		opts:         opts,
		showDeckList: true,
		statusMsg:    "Loading decks...",
	}
}

// Controller returns the controller of the open deck, or nil.
func (m Model) Controller() *timeline.Controller { return m.ctrl }

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

// CatalogChangedMsg reports that message files changed on disk.
type CatalogChangedMsg struct{}

type decksLoadedMsg []*database.DeckSummary
type deckLoadedMsg struct {
	deck *database.Deck
	lang string
}
type bundleLoadedMsg struct{ bundle *catalog.Bundle }
type languageSavedMsg string
type frameMsg time.Time
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// ────────────────────────────────────────────────────────────
// Init
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadDecks(), m.tick()}
	if m.opts.Deck != "" {
		cmds = append(cmds, m.loadDeck(m.opts.Deck))
	}
	return tea.Batch(cmds...)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) loadDecks() tea.Cmd {
	return func() tea.Msg {
		decks, err := m.store.ListDecks()
		if err != nil {
			return errMsg{err}
		}
		return decksLoadedMsg(decks)
	}
}

// loadDeck fetches a deck and resolves its language: the session
// override, then the stored preference, then the deck's own language.
func (m Model) loadDeck(deckID string) tea.Cmd {
	return func() tea.Msg {
		deck, err := m.store.GetDeck(deckID)
		if err != nil {
			return errMsg{fmt.Errorf("loading deck %s: %w", deckID, err)}
		}

		lang := m.opts.Language
		if lang == "" {
			pref, err := m.store.GetPreference(database.PrefLanguage)
			switch {
			case err == nil:
				lang = pref
			case errors.Is(err, database.ErrNotFound):
			default:
				return errMsg{fmt.Errorf("reading language preference: %w", err)}
			}
		}
		if lang == "" {
			lang = deck.SourceLang
		}
		if norm, err := catalog.NormalizeLanguage(lang); err == nil {
			lang = norm
		}
		return deckLoadedMsg{deck: deck, lang: lang}
	}
}

func (m Model) reloadBundle() tea.Cmd {
	return func() tea.Msg {
		b, err := catalog.LoadBundle(m.opts.LocalesDir, m.opts.DefaultLanguage)
		if err != nil {
			return errMsg{fmt.Errorf("reloading translations: %w", err)}
		}
		return bundleLoadedMsg{bundle: b}
	}
}

func (m Model) saveLanguage(lang string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.SetPreference(database.PrefLanguage, lang); err != nil {
			return errMsg{fmt.Errorf("saving language preference: %w", err)}
		}
		return languageSavedMsg(lang)
	}
}

// ────────────────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.publishVisibility()
		return m, nil

	case tea.FocusMsg:
		m.blurred = false
		m.publishVisibility()
		return m, nil

	case tea.BlurMsg:
		m.blurred = true
		m.publishVisibility()
		m.setHovered(false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case frameMsg:
		return m, m.tick()

	case decksLoadedMsg:
		m.decks = []*database.DeckSummary(msg)
		if m.selectedDeck >= len(m.decks) {
			m.selectedDeck = maxInt(len(m.decks)-1, 0)
		}
		if m.showDeckList {
			if len(m.decks) > 0 {
				m.statusMsg = fmt.Sprintf("%d decks", len(m.decks))
			} else {
				m.statusMsg = "No decks"
			}
		}
		return m, nil

	case deckLoadedMsg:
		if err := m.openDeck(msg.deck, msg.lang); err != nil {
			m.err = err
			m.statusMsg = fmt.Sprintf("Error: %v", err)
		}
		return m, nil

	case CatalogChangedMsg:
		return m, m.reloadBundle()

	case bundleLoadedMsg:
		m.bundle = msg.bundle
		if m.ctrl != nil {
			m.applyLanguage()
			m.statusMsg = "Translations reloaded"
		}
		return m, nil

	case languageSavedMsg:
		m.statusMsg = fmt.Sprintf("Language %s saved", string(msg))
		return m, nil

	case errMsg:
		m.err = msg.err
		m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		return m, nil
	}

	return m, nil
}

// handleKey routes keyboard input based on current mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// ── Global ──

	switch key {
	case "q", "ctrl+c":
		m.closeStage()
		return m, tea.Quit
	}

	// ── Deck list mode ──

	if m.showDeckList {
		switch key {
		case "j", "down":
			if m.selectedDeck < len(m.decks)-1 {
				m.selectedDeck++
			}
		case "k", "up":
			if m.selectedDeck > 0 {
				m.selectedDeck--
			}
		case "r":
			return m, m.loadDecks()
		case "enter":
			if m.selectedDeck < len(m.decks) {
				return m, m.loadDeck(m.decks[m.selectedDeck].DeckID)
			}
		}
		return m, nil
	}

	// ── Stage ──

	n := m.stepCount()

	switch key {
	case "esc":
		if m.activePane == PaneSelectors {
			m.setPane(PaneStage)
			return m, nil
		}
		m.setPane(PaneStage)
		m.showDeckList = true
		m.publishVisibility()
		m.statusMsg = fmt.Sprintf("%d decks", len(m.decks))
		return m, m.loadDecks()

	case "tab", "shift+tab":
		if m.activePane == PaneStage {
			m.setPane(PaneSelectors)
		} else {
			m.setPane(PaneStage)
		}
		return m, nil

	case "left", "h":
		if m.activePane == PaneSelectors {
			m.cursor = wrap(m.cursor-1, n)
		} else if m.navEnabled() {
			m.publish(timeline.Event{Kind: timeline.EventPrev})
		}
		return m, nil

	case "right", "l":
		if m.activePane == PaneSelectors {
			m.cursor = wrap(m.cursor+1, n)
		} else if m.navEnabled() {
			m.publish(timeline.Event{Kind: timeline.EventNext})
		}
		return m, nil

	case "enter", " ":
		if m.activePane == PaneSelectors {
			m.publish(timeline.Event{Kind: timeline.EventSelect, Index: m.cursor})
		}
		return m, nil

	case "L":
		return m.cycleLanguage()
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if i := int(key[0] - '1'); i < n {
			m.cursor = i
			m.publish(timeline.Event{Kind: timeline.EventSelect, Index: i})
		}
	}
	return m, nil
}

// handleMouse turns pointer motion over the stage into hover signals
// and clicks on the selector row into selections.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showDeckList || m.bus == nil {
		return m, nil
	}

	inside := msg.Y >= headerRows && msg.Y < m.height-footerRows
	m.setHovered(inside)

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == selectorsY {
		if i, ok := selectorAt(msg.X, m.width, m.stepCount()); ok {
			m.cursor = i
			m.publish(timeline.Event{Kind: timeline.EventSelect, Index: i})
		}
	}
	return m, nil
}

// ────────────────────────────────────────────────────────────
// Playback wiring
// ────────────────────────────────────────────────────────────

// openDeck replaces the current controller with one playing deck.
func (m *Model) openDeck(deck *database.Deck, lang string) error {
	m.closeStage()

	interval := deck.Interval
	if interval <= 0 {
		interval = m.opts.Interval
	}

	now := time.Now
	if m.opts.Clock != nil {
		now = m.opts.Clock.Now
	}
	st := newStage(now)
	bus := timeline.NewBus()

	ctrl, err := timeline.New(timeline.Config{
		Steps:                m.bundle.Localize(deck, lang),
		Interval:             interval,
		RespectReducedMotion: m.opts.RespectReducedMotion,
		PrefersReducedMotion: m.opts.PrefersReducedMotion,
		VisibilityThreshold:  m.opts.VisibilityThreshold,
		Clock:                m.opts.Clock,
		Logger:               m.opts.Logger,
	}, st.surfaces())
	if err != nil {
		return fmt.Errorf("starting deck %s: %w", deck.DeckID, err)
	}
	ctrl.Attach(bus)
	ctrl.Render(0)

	m.deck = deck
	m.lang = lang
	m.ctrl = ctrl
	m.bus = bus
	m.stage = st
	m.cursor = 0
	m.hovered = false
	m.activePane = PaneStage
	m.showDeckList = false
	m.err = nil
	m.statusMsg = fmt.Sprintf("%s  %d steps  %s each", deck.Name, len(deck.Steps), interval)

	m.publishVisibility()
	return nil
}

// closeStage disposes the running controller, if any.
func (m *Model) closeStage() {
	if m.ctrl != nil {
		m.ctrl.Dispose()
	}
	m.ctrl = nil
	m.bus = nil
}

func (m *Model) publish(ev timeline.Event) {
	if m.bus != nil {
		m.bus.Publish(ev)
	}
}

// visibleRatio is how much of the stage the user can see right now.
func (m *Model) visibleRatio() float64 {
	if m.showDeckList || m.blurred {
		return 0
	}
	return stageVisibleRatio(m.height)
}

func (m *Model) publishVisibility() {
	m.publish(timeline.Event{Kind: timeline.EventVisibility, Ratio: m.visibleRatio()})
}

func (m *Model) setHovered(hovered bool) {
	if hovered == m.hovered {
		return
	}
	m.hovered = hovered
	if hovered {
		m.publish(timeline.Event{Kind: timeline.EventPointerEnter})
	} else {
		m.publish(timeline.Event{Kind: timeline.EventPointerLeave})
	}
}

func (m *Model) setPane(p Pane) {
	if p == m.activePane {
		return
	}
	m.activePane = p
	if p == PaneSelectors {
		if m.ctrl != nil {
			m.cursor = m.ctrl.State().Index
		}
		m.publish(timeline.Event{Kind: timeline.EventFocusIn})
	} else {
		m.publish(timeline.Event{Kind: timeline.EventFocusOut})
	}
}

func (m Model) cycleLanguage() (tea.Model, tea.Cmd) {
	if m.deck == nil || m.ctrl == nil {
		return m, nil
	}
	langs := m.bundle.Languages(m.deck)
	if len(langs) < 2 {
		m.statusMsg = "No other languages"
		return m, nil
	}

	next := langs[0]
	for i, l := range langs {
		if strings.EqualFold(l, m.lang) {
			next = langs[(i+1)%len(langs)]
			break
		}
	}
	m.lang = next
	m.applyLanguage()
	return m, m.saveLanguage(next)
}

// applyLanguage swaps the controller's steps for the current language.
// Playback position is kept.
func (m *Model) applyLanguage() {
	if err := m.ctrl.SetSteps(m.bundle.Localize(m.deck, m.lang)); err != nil {
		m.statusMsg = fmt.Sprintf("Error: %v", err)
	}
}

// navEnabled reports whether the controller left prev/next switched on.
func (m Model) navEnabled() bool {
	return m.stage != nil && m.stage.snapshot().Nav
}

func (m Model) stepCount() int {
	if m.deck == nil {
		return 0
	}
	return len(m.deck.Steps)
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := renderHeader(&m)
	footer := renderFooter(&m)

	bodyHeight := m.height - headerRows - footerRows

	var body string
	if m.showDeckList || m.ctrl == nil {
		body = renderDeckList(&m, bodyHeight)
	} else {
		body = m.renderStage(bodyHeight)
	}
	body = clipLines(body, maxInt(bodyHeight, 0))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderStage stacks selectors, content and progress. The content
// region absorbs whatever height is left.
func (m Model) renderStage(totalHeight int) string {
	view := m.stage.snapshot()
	steps := m.ctrl.Steps()
	state := m.ctrl.State()

	contentHeight := maxInt(totalHeight-selectorsRows-progressRows-1, 1)

	selectors := renderSelectorsPanel(&m, steps, view, m.width)
	content := renderContentPanel(&m, view, m.width, contentHeight)
	progress := renderProgressPanel(&m, view, state, m.width)

	return lipgloss.JoinVertical(lipgloss.Left, selectors, content, progress)
}
