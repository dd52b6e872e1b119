package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/battlebrain/internal/engine"
	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/encounter"
	"github.com/KirkDiggler/battlebrain/internal/services/roster"
)

var builderCmd = &cobra.Command{
	Use:   "builder",
	Short: "Interactive encounter builder",
	Long: `Start an interactive shell over stdin. The last saved rosters are restored on
start. Type 'help' for the list of commands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.encounter.Mount(ctx, &encounter.MountInput{}); err != nil {
			return err
		}

		sh := &shell{
			enc: a.encounter,
			in:  cmd.InOrStdin(),
			out: cmd.OutOrStdout(),
		}
		return sh.run(ctx)
	},
}

const builderHelp = `Commands:
  show                              print the rosters and current state
  party add | rm N                  add or remove a party member
  party set N name|class|hp|ac V    edit party member N
  enemy add | rm N | select N       add, remove or select an enemy
  enemy set N label|name|hp|ac|qty V
  type TEXT                         type into the monster search field
  suggestions                       list the current suggestions
  pick N                            use suggestion N as the query
  search [NAME]                     look the query up into the selected enemy
  predict                           request a prediction
  summary                           print the shareable summary
  results                           print the last saved prediction
  reset                             start over
  quit`

type shell struct {
	enc *encounter.Orchestrator
	in  io.Reader
	out io.Writer
}

func (s *shell) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "BattleBrain encounter builder. Type 'help' for commands.")
	s.show()

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		quit, err := s.exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %s\n", errors.GetMessage(err))
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command line. It reports whether the shell should exit.
func (s *shell) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, builderHelp)
	case "show":
		s.show()
	case "party":
		return false, s.party(args)
	case "enemy":
		return false, s.enemy(args)
	case "type":
		s.enc.Lookup().Focus()
		s.enc.Lookup().SetQuery(strings.Join(args, " "))
	case "suggestions":
		s.suggestions()
	case "pick":
		return false, s.pick(args)
	case "search":
		return false, s.search(ctx, args)
	case "predict":
		return false, s.predict(ctx)
	case "summary":
		out, err := s.enc.Summary(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, out.Text)
	case "results":
		res := s.enc.Results(ctx)
		if res.Stats == nil || res.Prediction == nil {
			fmt.Fprintln(s.out, "No saved prediction.")
			return false, nil
		}
		printPrediction(s.out, *res.Stats, res.Prediction)
	case "reset":
		s.enc.Reset(ctx)
		s.show()
	default:
		return false, errors.InvalidArgumentf("unknown command %q", cmd)
	}

	return false, nil
}

func (s *shell) party(args []string) error {
	store := s.enc.Roster()
	if len(args) == 0 {
		return errors.InvalidArgument("usage: party add | rm N | set N FIELD VALUE")
	}

	switch args[0] {
	case "add":
		store.AddPartyMember()
	case "rm":
		id, err := s.memberID(args[1:])
		if err != nil {
			return err
		}
		if !store.CanRemovePartyMember() {
			return errors.FailedPrecondition("cannot remove the last party member")
		}
		store.RemovePartyMember(id)
	case "set":
		id, err := s.memberID(args[1:])
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return errors.InvalidArgument("usage: party set N FIELD VALUE")
		}
		patch, err := memberPatch(args[2], strings.Join(args[3:], " "))
		if err != nil {
			return err
		}
		store.UpdatePartyMember(id, patch)
	default:
		return errors.InvalidArgumentf("unknown party command %q", args[0])
	}

	s.show()
	return nil
}

func (s *shell) enemy(args []string) error {
	store := s.enc.Roster()
	if len(args) == 0 {
		return errors.InvalidArgument("usage: enemy add | rm N | select N | set N FIELD VALUE")
	}

	switch args[0] {
	case "add":
		store.AddEnemy()
	case "rm":
		id, err := s.enemyID(args[1:])
		if err != nil {
			return err
		}
		if !store.CanRemoveEnemy() {
			return errors.FailedPrecondition("cannot remove the last enemy")
		}
		store.RemoveEnemy(id)
	case "select":
		id, err := s.enemyID(args[1:])
		if err != nil {
			return err
		}
		if err := store.SelectEnemy(id); err != nil {
			return err
		}
	case "set":
		id, err := s.enemyID(args[1:])
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return errors.InvalidArgument("usage: enemy set N FIELD VALUE")
		}
		patch, err := enemyPatch(args[2], strings.Join(args[3:], " "))
		if err != nil {
			return err
		}
		store.UpdateEnemy(id, patch)
	default:
		return errors.InvalidArgumentf("unknown enemy command %q", args[0])
	}

	s.show()
	return nil
}

func (s *shell) suggestions() {
	state := s.enc.Lookup().State()
	if len(state.Suggestions) == 0 {
		fmt.Fprintln(s.out, "No suggestions.")
		return
	}
	for i, sug := range state.Suggestions {
		fmt.Fprintf(s.out, "%2d. %s\n", i+1, sug.Name)
	}
}

func (s *shell) pick(args []string) error {
	suggestions := s.enc.Lookup().State().Suggestions
	idx, err := index(args, len(suggestions))
	if err != nil {
		return err
	}
	s.enc.Lookup().SelectSuggestion(suggestions[idx].Name)
	fmt.Fprintf(s.out, "Query: %s\n", suggestions[idx].Name)
	return nil
}

func (s *shell) search(ctx context.Context, args []string) error {
	out, err := s.enc.Search(ctx, &encounter.SearchInput{Query: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, out.Status)
	if out.Applied {
		s.show()
	}
	return nil
}

func (s *shell) predict(ctx context.Context) error {
	fmt.Fprintln(s.out, "Predicting...")
	out, err := s.enc.Predict(ctx, &encounter.PredictInput{})
	if err != nil {
		printFieldErrors(s.out, s.enc.View().Prediction.FieldErrors)
		return err
	}
	printPrediction(s.out, out.Stats, out.Result)
	return nil
}

func (s *shell) show() {
	v := s.enc.View()

	fmt.Fprintln(s.out, "Party:")
	for i, m := range v.Party {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("Member %d", i+1)
		}
		fmt.Fprintf(s.out, "   %d. %s (%s) HP %s AC %s\n", i+1, name, m.ClassName, m.HP, m.AC)
	}

	fmt.Fprintln(s.out, "Enemies:")
	for i, e := range v.Enemies {
		marker := " "
		if e.ID == v.SelectedEnemyID {
			marker = "*"
		}
		label := e.Label
		if label == "" {
			label = fmt.Sprintf("Enemy %d", i+1)
		}
		if e.FullName != "" {
			label += " [" + e.FullName + "]"
		}
		fmt.Fprintf(s.out, " %s %d. %s x%d HP %s AC %s\n", marker, i+1, label, e.Quantity(), e.HP, e.AC)
	}

	fmt.Fprintf(s.out, "Effective: party HP %s AC %s | enemy HP %s AC %s\n",
		engine.FormatStat(v.Stats.PartyHP), engine.FormatStat(v.Stats.PartyAC),
		engine.FormatStat(v.Stats.EnemyHP), engine.FormatStat(v.Stats.EnemyAC))
	if !v.CanPredict {
		fmt.Fprintln(s.out, "Fill in HP and AC for both sides to predict.")
	}
}

func (s *shell) memberID(args []string) (string, error) {
	party := s.enc.Roster().Party()
	idx, err := index(args, len(party))
	if err != nil {
		return "", err
	}
	return party[idx].ID, nil
}

func (s *shell) enemyID(args []string) (string, error) {
	enemies := s.enc.Roster().Enemies()
	idx, err := index(args, len(enemies))
	if err != nil {
		return "", err
	}
	return enemies[idx].ID, nil
}

// index parses a 1-based row number from args[0]
func index(args []string, n int) (int, error) {
	if len(args) == 0 {
		return 0, errors.InvalidArgument("row number required")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 1 || i > n {
		return 0, errors.InvalidArgumentf("row %q out of range 1-%d", args[0], n)
	}
	return i - 1, nil
}

func memberPatch(field, value string) (roster.PartyMemberPatch, error) {
	var patch roster.PartyMemberPatch
	stat := entities.RawStat(value)

	switch field {
	case "name":
		patch.Name = &value
	case "class":
		class, ok := parseClass(value)
		if !ok {
			return patch, errors.InvalidArgumentf("unknown class %q", value)
		}
		patch.ClassName = &class
	case "hp":
		patch.HP = &stat
	case "ac":
		patch.AC = &stat
	default:
		return patch, errors.InvalidArgumentf("unknown party field %q", field)
	}
	return patch, nil
}

func enemyPatch(field, value string) (roster.EnemyPatch, error) {
	var patch roster.EnemyPatch
	stat := entities.RawStat(value)

	switch field {
	case "label":
		patch.Label = &value
	case "name":
		patch.Name = &value
	case "hp":
		patch.HP = &stat
	case "ac":
		patch.AC = &stat
	case "qty":
		patch.Qty = &stat
	default:
		return patch, errors.InvalidArgumentf("unknown enemy field %q", field)
	}
	return patch, nil
}
