package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/draftgen/draftgen/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fmt.Printf("config file: %s\n", config.GetUserConfigPath())
		if project := config.FindProjectConfig(); project != "" {
			fmt.Printf("project override: %s\n", project)
		}

		provider := cfg.LLM.Provider
		if provider == "" {
			provider = "anthropic"
		}
		fmt.Printf("provider: %s\n", provider)
		if cfg.LLM.Model != "" {
			fmt.Printf("model: %s\n", cfg.LLM.Model)
		}

		for _, p := range []string{"anthropic", "gemini"} {
			key, source, err := config.ResolveAPIKey(cfg, p)
			if err != nil {
				fmt.Printf("%s key: not configured\n", p)
				continue
			}
			fmt.Printf("%s key: %s (%s)\n", p, config.MaskAPIKey(key), source)
			if err := config.ValidateAPIKey(p, key); err != nil {
				fmt.Printf("  warning: %v\n", err)
			}
		}

		fmt.Printf("currency: %s\n", cfg.Defaults.Currency)
		fmt.Println("default rates:")
		roles := make([]string, 0, len(cfg.Defaults.Rates))
		for role := range cfg.Defaults.Rates {
			roles = append(roles, role)
		}
		sort.Strings(roles)
		for _, role := range roles {
			fmt.Printf("  %-20s $%g/hour\n", role, cfg.Defaults.Rates[role])
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the built-in defaults",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.Save(config.Default()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", config.GetUserConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
