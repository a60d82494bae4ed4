// Package cli implements vsubctl, the command line companion to the
// vsubgo server: parse scripts, run synthesis, export timelines and
// inspect stored projects without the HTTP API.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vsubgo/pkg/config"
	"vsubgo/pkg/model"
	"vsubgo/pkg/store"
)

var (
	cfgPath string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vsubctl",
	Short: "Offline companion for the vsubgo narration engine",
	Long: `vsubctl works on the same project database as the vsubgo server.

It parses narration scripts, runs text-to-speech synthesis, exports
canonical timeline documents and subtitle files, and drafts scripts
with the configured LLM.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// CLI output goes to stdout; logs stay on stderr and quiet
		// unless asked for.
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "configs/vsubgo.yaml", "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// openStore opens the configured project database.
func openStore() (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", cfg.DB.Path, err)
	}
	return st, nil
}

// loadStoredProject fetches a project by name, or the most recently
// saved one when name is empty.
func loadStoredProject(ctx context.Context, st *store.SQLiteStore, name string) (*model.Project, error) {
	if name == "" {
		infos, err := st.ListProjects(ctx)
		if err != nil {
			return nil, err
		}
		if len(infos) == 0 {
			return nil, fmt.Errorf("no stored projects; run 'vsubctl parse' first")
		}
		name = infos[0].Name
	}

	p, err := st.GetProject(ctx, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("project %q not found", name)
	}
	return p, nil
}
