package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/battlebrain/internal/engine"
	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/encounter"
	"github.com/KirkDiggler/battlebrain/internal/services/roster"
)

var (
	memberSpecs []string
	enemySpecs  []string
	showSummary bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict one encounter from flags",
	Long: `Build the rosters from flags and request a prediction. Examples:

  predict --member 45/16/Paladin/Aria --member 45/14 --enemy 7/15/4/Goblins
  predict --member 90/15 --enemy 60/13 --summary`,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringArrayVar(&memberSpecs, "member", nil, "party member as hp/ac[/class[/name]] (repeatable)")
	predictCmd.Flags().StringArrayVar(&enemySpecs, "enemy", nil, "enemy as hp/ac[/qty[/label]] (repeatable)")
	predictCmd.Flags().BoolVar(&showSummary, "summary", false, "print the shareable summary")
	_ = predictCmd.MarkFlagRequired("member")
	_ = predictCmd.MarkFlagRequired("enemy")
}

func runPredict(cmd *cobra.Command, _ []string) error {
	input, err := parseRosters(memberSpecs, enemySpecs)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	a.encounter.Roster().Restore(input)

	fmt.Fprintln(cmd.OutOrStdout(), "Predicting...")
	out, err := a.encounter.Predict(ctx, &encounter.PredictInput{})
	if err != nil {
		printFieldErrors(cmd.ErrOrStderr(), a.encounter.View().Prediction.FieldErrors)
		return err
	}

	printPrediction(cmd.OutOrStdout(), out.Stats, out.Result)
	if showSummary {
		summary, err := a.encounter.Summary(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", summary.Text)
	}
	return nil
}

func parseRosters(members, enemies []string) (*roster.RestoreInput, error) {
	input := &roster.RestoreInput{}

	for _, spec := range members {
		m, err := parseMember(spec)
		if err != nil {
			return nil, err
		}
		input.Party = append(input.Party, m)
	}
	for _, spec := range enemies {
		e, err := parseEnemy(spec)
		if err != nil {
			return nil, err
		}
		input.Enemies = append(input.Enemies, e)
	}

	return input, nil
}

// parseMember reads hp/ac[/class[/name]]
func parseMember(spec string) (entities.PartyMember, error) {
	parts := strings.Split(spec, "/")
	if len(parts) < 2 || len(parts) > 4 {
		return entities.PartyMember{}, errors.InvalidArgumentf("member %q: want hp/ac[/class[/name]]", spec)
	}

	m := entities.NewPartyMember("")
	m.HP = entities.RawStat(strings.TrimSpace(parts[0]))
	m.AC = entities.RawStat(strings.TrimSpace(parts[1]))

	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		class, ok := parseClass(parts[2])
		if !ok {
			return entities.PartyMember{}, errors.InvalidArgumentf("member %q: unknown class %q", spec, parts[2])
		}
		m.ClassName = class
	}
	if len(parts) > 3 {
		m.Name = strings.TrimSpace(parts[3])
	}

	return m, nil
}

// parseEnemy reads hp/ac[/qty[/label]]
func parseEnemy(spec string) (entities.Enemy, error) {
	parts := strings.Split(spec, "/")
	if len(parts) < 2 || len(parts) > 4 {
		return entities.Enemy{}, errors.InvalidArgumentf("enemy %q: want hp/ac[/qty[/label]]", spec)
	}

	e := entities.NewEnemy("")
	e.HP = entities.RawStat(strings.TrimSpace(parts[0]))
	e.AC = entities.RawStat(strings.TrimSpace(parts[1]))
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		e.Qty = entities.RawStat(strings.TrimSpace(parts[2]))
	}
	if len(parts) > 3 {
		e.Label = strings.TrimSpace(parts[3])
	}

	return e, nil
}

func parseClass(s string) (entities.ClassName, bool) {
	s = strings.TrimSpace(s)
	for _, c := range entities.PartyClasses {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

func printPrediction(w io.Writer, stats entities.EffectiveStats, result *entities.PredictionResult) {
	d := engine.DifficultyFor(result.WinProbability)

	fmt.Fprintf(w, "\nParty (Effective): HP %s, AC %s\n", engine.FormatStat(stats.PartyHP), engine.FormatStat(stats.PartyAC))
	fmt.Fprintf(w, "Enemy (Effective): HP %s, AC %s\n", engine.FormatStat(stats.EnemyHP), engine.FormatStat(stats.EnemyAC))
	fmt.Fprintf(w, "Win Probability: %s (%s)\n", engine.FormatPercent(result.WinProbability), d.Label)
	fmt.Fprintf(w, "Expected Rounds: %s\n", engine.FormatStat(result.ExpectedRounds))
	fmt.Fprintf(w, "Expected Party HP Lost: %s\n", engine.FormatStat(result.ExpectedPartyHPLost))
	fmt.Fprintf(w, "%s\n", d.Flavor)
}

func printFieldErrors(w io.Writer, fields engine.FieldErrors) {
	for _, key := range []string{engine.FieldPartyHP, engine.FieldPartyAC, engine.FieldEnemyHP, engine.FieldEnemyAC} {
		if msg, ok := fields[key]; ok {
			fmt.Fprintf(w, "  %s\n", msg)
		}
	}
}
