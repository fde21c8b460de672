package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/draftgen/draftgen/internal/config"
	"github.com/draftgen/draftgen/internal/llm"
	"github.com/draftgen/draftgen/internal/orchestrator"
	"github.com/draftgen/draftgen/internal/pipeline"
	"github.com/draftgen/draftgen/internal/state"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "draftgen",
	Short: "Business proposal generator",
	Long: `Draftgen turns a project idea into a multi-section business
proposal: scope, market survey, business analysis, technical design,
delivery plan, and costed staffing.

With no arguments it starts an interactive chat session. Describe your
project, refine it in conversation, then say "generate" to build the
proposal. Individual sections can be edited afterwards by asking for
changes in plain language.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// app bundles everything a command needs.
type app struct {
	cfg   *config.Config
	db    *state.DB
	store *state.Store
	orc   *orchestrator.Orchestrator
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// newApp loads config, opens the session database, and wires the
// orchestrator.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := state.OpenDefault()
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session database: %w", err)
	}
	store := state.NewStore(db)
	if n, err := store.RecoverInterrupted(); err != nil {
		db.Close()
		return nil, fmt.Errorf("recover interrupted sessions: %w", err)
	} else if n > 0 && (debugFlag || cfg.Debug) {
		log.Printf("marked %d interrupted session(s) failed", n)
	}

	// Keys set in the environment win over config values.
	if key, _, err := config.ResolveAPIKey(cfg, "anthropic"); err == nil {
		cfg.LLM.APIKey = key
	}
	if key, _, err := config.ResolveAPIKey(cfg, "gemini"); err == nil {
		cfg.LLM.GeminiAPIKey = key
	}

	client, err := llm.New(ctx, llm.FactoryConfig{
		Provider:      cfg.LLM.Provider,
		Model:         cfg.LLM.Model,
		APIKey:        cfg.LLM.APIKey,
		GeminiAPIKey:  cfg.LLM.GeminiAPIKey,
		UseAWSBedrock: cfg.LLM.UseAWSBedrock,
		AWSRegion:     cfg.LLM.AWSRegion,
		AWSProfile:    cfg.LLM.AWSProfile,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create llm client: %w", err)
	}

	opts := []orchestrator.Option{
		orchestrator.WithObserver(pipeline.NewConsoleObserver()),
		orchestrator.WithDefaultRates(cfg.Defaults.Rates),
	}
	if debugFlag || cfg.Debug {
		opts = append(opts, orchestrator.WithDebugLog(log.Printf))
	}

	orc, err := orchestrator.New(store, client, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{cfg: cfg, db: db, store: store, orc: orc}, nil
}
