package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/battlebrain/internal/engine"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/lookup"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [name]",
	Short: "Look a monster up in the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		name := strings.Join(args, " ")
		monster, err := a.catalog.LookupMonster(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("%s: %w", lookup.MsgCatalogUnreachable, err)
		}

		out := cmd.OutOrStdout()
		if !monster.Found {
			msg := monster.Message
			if msg == "" {
				msg = lookup.MsgNotFound
			}
			fmt.Fprintln(out, msg)
			return nil
		}

		fmt.Fprintf(out, "%s\n", monster.Name)
		if monster.HitPoints != nil {
			fmt.Fprintf(out, "  HP: %s\n", engine.FormatStat(*monster.HitPoints))
		}
		if monster.ArmorClass != nil {
			fmt.Fprintf(out, "  AC: %s\n", engine.FormatStat(*monster.ArmorClass))
		}
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [query]",
	Short: "List catalog names matching a partial query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.catalog.SuggestMonsters(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		for i, s := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, s.Name)
		}
		return nil
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show the last saved prediction",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if clearResults {
			if err := a.sessions.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved session cleared.")
			return nil
		}

		res := a.encounter.Results(cmd.Context())
		if res.Stats == nil || res.Prediction == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved prediction. Run predict first.")
			return nil
		}
		printPrediction(cmd.OutOrStdout(), *res.Stats, res.Prediction)
		return nil
	},
}

var clearResults bool

func init() {
	resultsCmd.Flags().BoolVar(&clearResults, "clear", false, "delete the saved session instead of showing it")
}
