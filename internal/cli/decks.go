package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Mr-Dark-debug/tempo/internal/catalog"
	"github.com/Mr-Dark-debug/tempo/internal/database"
	"github.com/Mr-Dark-debug/tempo/pkg/jsonutil"
	"github.com/Mr-Dark-debug/tempo/pkg/timeutil"
	"github.com/spf13/cobra"
)

func newImportCmd(opts *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <deck.yaml>...",
		Short: "Store decks from YAML files",
		Long: `Validate each deck file and store it, replacing any deck with the same
id. Changes against the stored version are listed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, path := range args {
				if err := importDeck(cmd.OutOrStdout(), store, path, dryRun); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show changes without storing")
	return cmd
}

func importDeck(w io.Writer, store database.Store, path string, dryRun bool) error {
	deck, err := catalog.LoadDeckFile(path)
	if err != nil {
		return err
	}

	existing, err := store.GetDeck(deck.DeckID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return err
	}

	verb := "Imported"
	if dryRun {
		verb = "Would import"
	}

	if existing == nil {
		if !dryRun {
			if err := store.UpsertDeck(deck); err != nil {
				return fmt.Errorf("storing deck %s: %w", deck.DeckID, err)
			}
		}
		fmt.Fprintf(w, "%s %s (%d steps, new)\n", verb, deck.DeckID, len(deck.Steps))
		return nil
	}

	before, after := *existing, *deck
	before.UpdatedAt, after.UpdatedAt = 0, 0
	changes, err := jsonutil.Diff(before, after)
	if err != nil {
		return fmt.Errorf("comparing deck %s: %w", deck.DeckID, err)
	}
	if len(changes) == 0 {
		fmt.Fprintf(w, "%s unchanged\n", deck.DeckID)
		return nil
	}

	if !dryRun {
		if err := store.UpsertDeck(deck); err != nil {
			return fmt.Errorf("storing deck %s: %w", deck.DeckID, err)
		}
	}
	fmt.Fprintf(w, "%s %s (%d steps, %d changes)\n", verb, deck.DeckID, len(deck.Steps), len(changes))
	for _, c := range changes {
		printChange(w, c)
	}
	return nil
}

func printChange(w io.Writer, c jsonutil.Change) {
	switch c.Type {
	case "add":
		fmt.Fprintf(w, "  + %s: %s\n", c.Path, jsonutil.TruncateString(c.NewValue, 60))
	case "delete":
		fmt.Fprintf(w, "  - %s: %s\n", c.Path, jsonutil.TruncateString(c.OldValue, 60))
	default:
		fmt.Fprintf(w, "  ~ %s: %s -> %s\n", c.Path,
			jsonutil.TruncateString(c.OldValue, 30), jsonutil.TruncateString(c.NewValue, 30))
	}
}

func newDecksCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decks",
		Short: "List stored decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			decks, err := store.ListDecks()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if decks == nil {
					decks = []*database.DeckSummary{}
				}
				return jsonutil.Print(out, decks)
			}
			if len(decks) == 0 {
				fmt.Fprintln(out, "No decks. Import one with: tempo import <deck.yaml>")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tLANG\tSTEPS\tINTERVAL")
			for _, d := range decks {
				interval := timeutil.FormatDuration(cfg.Interval) + " (default)"
				if d.Interval > 0 {
					interval = timeutil.FormatDuration(d.Interval)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", d.DeckID, d.Name, d.SourceLang, d.StepCount, interval)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <deck>",
		Short: "Delete a stored deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteDeck(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}
