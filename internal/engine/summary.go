package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/battlebrain/internal/entities"
)

// Summary renders the shareable plain-text description of a predicted
// encounter. It returns "" when there is no result yet.
func Summary(
	party []entities.PartyMember,
	enemies []entities.Enemy,
	stats entities.EffectiveStats,
	result *entities.PredictionResult,
) string {
	if result == nil {
		return ""
	}

	members := make([]string, 0, len(party))
	for i, m := range party {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			name = fmt.Sprintf("Member %d", i+1)
		}
		class := string(m.ClassName)
		if class == "" {
			class = "Unknown"
		}
		members = append(members, fmt.Sprintf("%s (%s) - HP %s, AC %s", name, class, rawOrUnknown(m.HP), rawOrUnknown(m.AC)))
	}

	foes := make([]string, 0, len(enemies))
	for i, e := range enemies {
		label := strings.TrimSpace(e.Label)
		if label == "" {
			label = fmt.Sprintf("Enemy %d", i+1)
		}
		base := strings.TrimSpace(e.Name)
		if base == "" {
			base = strings.TrimSpace(e.FullName)
		}
		if base == "" {
			base = "Enemy"
		}
		foes = append(foes, fmt.Sprintf("%s - %s x%d (HP %s, AC %s)", label, base, e.Quantity(), rawOrUnknown(e.HP), rawOrUnknown(e.AC)))
	}

	var b strings.Builder
	b.WriteString("BattleBrain Encounter Summary\n")
	fmt.Fprintf(&b, "Party (Effective): HP %s, AC %s\n", FormatStat(stats.PartyHP), FormatStat(stats.PartyAC))
	fmt.Fprintf(&b, "Party Members: %s\n", joinOrNone(members))
	fmt.Fprintf(&b, "Enemies: %s\n", joinOrNone(foes))
	fmt.Fprintf(&b, "Enemy (Effective): HP %s, AC %s\n", FormatStat(stats.EnemyHP), FormatStat(stats.EnemyAC))
	fmt.Fprintf(&b, "Win Probability: %s", FormatPercent(result.WinProbability))
	return b.String()
}

// FormatStat prints a stat without trailing zeros
func FormatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPercent prints a probability as a percentage with one decimal
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 1, 64) + "%"
}

func rawOrUnknown(s entities.RawStat) string {
	if s == "" {
		return "?"
	}
	return string(s)
}

func joinOrNone(parts []string) string {
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "; ")
}
