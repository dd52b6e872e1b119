// Package main is the entry point for the battlebrain encounter builder
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/battlebrain/internal/config"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "battlebrain",
	Short: "BattleBrain encounter builder",
	Long: `BattleBrain composes a D&D party and a group of enemies, looks monsters up in a
catalog and asks a prediction service how likely the party is to win.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})))
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(builderCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(resultsCmd)
}
