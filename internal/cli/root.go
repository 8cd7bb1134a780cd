// Package cli holds Tempo's cobra commands.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/Mr-Dark-debug/tempo/internal/config"
	"github.com/Mr-Dark-debug/tempo/internal/database"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

type options struct {
	cfgFile string
	verbose bool
}

func defaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".tempo", "config.yml")
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tempo",
		Short: "Auto-advancing, resumable step timelines in the terminal",
		Long: `Tempo plays decks of titled steps as a timeline that advances on its
own, pauses while you hover, focus or look away, and resumes exactly
where it stopped. Decks live in SQLite; translations are go-i18n
message files that reload while a deck is playing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !opts.verbose {
				log.SetOutput(io.Discard)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", defaultConfigPath(), "config file path")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newPlayCmd(opts),
		newImportCmd(opts),
		newDecksCmd(opts),
		newRemoveCmd(opts),
		newLangCmd(opts),
		newCoverageCmd(opts),
		newInitCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*database.DBService, error) {
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}
	return database.NewDBService(cfg.DBPath)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of tempo",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tempo %s\n", Version)
		},
	}
}

func newInitCmd(opts *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.cfgFile); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.cfgFile)
			}
			if err := config.DefaultConfig().Save(opts.cfgFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.cfgFile)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
