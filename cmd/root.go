package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/numinary/internal/llm"
	"github.com/abhisek/numinary/internal/problemgen"
	"github.com/abhisek/numinary/internal/store"
	"github.com/abhisek/numinary/internal/tutor"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "numinary",
	Short: "Calculator and math practice in the terminal",
	Long:  "Numinary: a keyboard-driven calculator with practice problems, lessons and streaks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite path or postgres:// DSN (overrides NUMINARY_DB)")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Seed for problem generation (0 = random)")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(problemsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then NUMINARY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.OpenContext(cmd.Context(), dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newGenerator honors --seed.
func newGenerator(cmd *cobra.Command) *problemgen.Generator {
	if seed, _ := cmd.Flags().GetUint64("seed"); seed != 0 {
		return problemgen.NewSeeded(seed, nil)
	}
	return problemgen.New(nil, nil)
}

// newTutor returns nil when no LLM provider is configured.
func newTutor(ctx context.Context, events store.EventRepo) *tutor.Service {
	cfg, ok := llm.Resolve()
	if !ok {
		if err := cfg.Validate(); err != nil && cfg.Provider != "" {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Explanations and hints will be unavailable.")
		}
		return nil
	}
	provider, err := llm.NewProvider(ctx, cfg, events)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Explanations and hints will be unavailable.")
		return nil
	}
	return tutor.NewService(provider, tutor.DefaultConfig())
}
