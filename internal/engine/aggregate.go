// Package engine derives the effective encounter statistics from the rosters
// and validates them before a prediction. Everything here is pure.
package engine

import (
	"math"

	"github.com/KirkDiggler/battlebrain/internal/entities"
)

// Aggregate computes the effective stats of the current rosters:
//   - party HP is the sum of member HP
//   - party AC is the rounded mean of the positive member ACs, 0 if none
//   - enemy HP is the sum of HP times quantity
//   - enemy AC is the highest enemy AC, never below 0
//
// Non-numeric HP and AC count as 0. Results must not be cached across roster
// mutations.
func Aggregate(party []entities.PartyMember, enemies []entities.Enemy) entities.EffectiveStats {
	var stats entities.EffectiveStats

	var acSum float64
	var acCount int
	for i := range party {
		stats.PartyHP += party[i].HP.Float()
		if ac, ok := party[i].AC.Value(); ok && ac > 0 {
			acSum += ac
			acCount++
		}
	}
	if acCount > 0 {
		stats.PartyAC = roundHalfUp(acSum / float64(acCount))
	}

	for i := range enemies {
		stats.EnemyHP += enemies[i].HP.Float() * float64(enemies[i].Quantity())
		stats.EnemyAC = math.Max(stats.EnemyAC, enemies[i].AC.Float())
	}

	return stats
}

// roundHalfUp rounds .5 toward positive infinity, which is how the stored
// results were rounded historically.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
