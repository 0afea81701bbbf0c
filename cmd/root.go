package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizy/internal/app"
	"github.com/abhisek/quizy/internal/config"
	"github.com/abhisek/quizy/internal/store"
)

// cfg is loaded once before any command runs.
var cfg config.Config

var logFile *os.File

var rootCmd = &cobra.Command{
	Use:   "quizy",
	Short: "Quiz game with levels, streaks and badges",
	Long: "Quizy is a terminal quiz game. Answer AI-generated questions, earn XP,\n" +
		"keep your streak alive and unlock badges.\n\n" +
		"Set GEMINI_API_KEY (or OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY)\n" +
		"for fresh questions. Without a key Quizy plays from its offline question bank.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.Options{})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZY_DB env var)")
	rootCmd.PersistentFlags().StringSlice("env", nil, "Extra dotenv file to load (repeatable)")
	rootCmd.PersistentFlags().Bool("debug", false, "Write debug logs to the cache directory")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and routes the standard logger. Background
// failures (narration, artwork, event writes) are logged, never shown.
func setup(cmd *cobra.Command, args []string) error {
	envFiles, _ := cmd.Flags().GetStringSlice("env")
	var err error
	cfg, err = config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	if !cfg.Debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := store.EnsureDir(cfg.LogPath()); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err = tea.LogToFile(cfg.LogPath(), "quizy")
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	log.Printf("config loaded: llm=%s speech=%s artwork=%s env=%v",
		cfg.LLM.Provider, cfg.Speech.Backend, cfg.Artwork.Backend, cfg.EnvFiles)
	return nil
}

// openStore opens the database selected by --db or the environment.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
