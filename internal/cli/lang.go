package cli

import (
	"errors"
	"fmt"

	"github.com/Mr-Dark-debug/tempo/internal/analysis"
	"github.com/Mr-Dark-debug/tempo/internal/catalog"
	"github.com/Mr-Dark-debug/tempo/internal/database"
	"github.com/Mr-Dark-debug/tempo/pkg/jsonutil"
	"github.com/spf13/cobra"
)

func newLangCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lang [tag]",
		Short: "Show or set the preferred language",
		Long: `Without an argument, print the stored language preference. With a
BCP 47 tag (es, pt-BR, ...), store it. Decks fall back to their own
language for any message that has no translation.`,
		Args: cobra.MaximumNArgs(1),
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

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				lang, err := store.GetPreference(database.PrefLanguage)
				if errors.Is(err, database.ErrNotFound) {
					fmt.Fprintln(out, "not set (decks play in their own language)")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(out, lang)
				return nil
			}

			lang, err := catalog.NormalizeLanguage(args[0])
			if err != nil {
				return err
			}
			if err := store.SetPreference(database.PrefLanguage, lang); err != nil {
				return err
			}
			fmt.Fprintf(out, "Language set to %s\n", lang)
			return nil
		},
	}
}

func newCoverageCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "coverage <deck>",
		Short: "Report translation coverage for a deck",
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

			bundle, err := catalog.LoadBundle(cfg.LocalesDir, cfg.DefaultLanguage)
			if err != nil {
				return err
			}

			analyzer := analysis.NewAnalyzer(store, bundle, cfg.Interval)
			report, err := analyzer.Coverage(args[0])
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return jsonutil.Print(cmd.OutOrStdout(), report)
			case "markdown":
				fmt.Fprint(cmd.OutOrStdout(), analyzer.FormatReport(report))
				return nil
			default:
				return fmt.Errorf("unknown format %q (want markdown or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown, json")
	return cmd
}
