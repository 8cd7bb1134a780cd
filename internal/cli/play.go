package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Mr-Dark-debug/tempo/internal/catalog"
	"github.com/Mr-Dark-debug/tempo/internal/config"
	"github.com/Mr-Dark-debug/tempo/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newPlayCmd(opts *options) *cobra.Command {
	var (
		deckID  string
		lang    string
		reduced bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play decks in the terminal",
		Long: `Open the deck list, or a deck directly with --deck. Autoplay pauses
while the pointer is over the stage, while the step selectors have
keyboard focus, and while the terminal window is unfocused or too small.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), opts, deckID, lang, reduced)
		},
	}

	cmd.Flags().StringVar(&deckID, "deck", "", "deck to open (default from config)")
	cmd.Flags().StringVar(&lang, "lang", "", "language for this session (default: stored preference)")
	cmd.Flags().BoolVar(&reduced, "reduced-motion", false, "disable autoplay and progress animation")
	return cmd
}

func runPlay(ctx context.Context, opts *options, deckID, lang string, reduced bool) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if deckID == "" {
		deckID = cfg.Deck
	}
	if lang == "" {
		lang = cfg.Language
	}
	if lang != "" {
		if lang, err = catalog.NormalizeLanguage(lang); err != nil {
			return err
		}
	}

	// The alt screen owns the terminal; logs go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.LogFile, "tempo ")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	bundle, err := catalog.LoadBundle(cfg.LocalesDir, cfg.DefaultLanguage)
	if err != nil {
		return err
	}

	prefersReduced := config.HostPrefersReducedMotion
	if reduced {
		prefersReduced = func() bool { return true }
	}

	model := tui.NewModel(store, bundle, tui.Options{
		Deck:                 deckID,
		Language:             lang,
		DefaultLanguage:      cfg.DefaultLanguage,
		LocalesDir:           cfg.LocalesDir,
		Interval:             cfg.Interval,
		VisibilityThreshold:  cfg.VisibilityThreshold,
		RespectReducedMotion: cfg.RespectReducedMotion || reduced,
		PrefersReducedMotion: prefersReduced,
		FrameInterval:        cfg.FrameInterval(),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	go func() {
		err := catalog.Watch(ctx, cfg.LocalesDir, catalog.DefaultDebounce, func() {
			log.Printf("[INFO] play: translations changed, reloading")
			p.Send(tui.CatalogChangedMsg{})
		})
		if err != nil {
			log.Printf("[WARN] play: translations will not reload live: %v", err)
		}
	}()

	log.Printf("[INFO] play: starting (db=%s, locales=%s)", cfg.DBPath, cfg.LocalesDir)
	final, err := p.Run()
	if m, ok := final.(tui.Model); ok && m.Controller() != nil {
		m.Controller().Dispose()
	}
	if err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
