package testutils

import (
	"github.com/KirkDiggler/battlebrain/internal/clients/catalog"
	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/testutils/builders"
)

// TestMemberName is the default party member name for test fixtures
const TestMemberName = "Aria"

// ScenarioParty is a single fighter with HP 90 and AC 15
func ScenarioParty() []entities.PartyMember {
	return []entities.PartyMember{
		builders.NewPartyMemberBuilder().
			WithName(TestMemberName).
			WithStats("90", "15").
			Build(),
	}
}

// ScenarioEnemies is a single enemy with HP 60 and AC 13
func ScenarioEnemies() []entities.Enemy {
	return []entities.Enemy{
		builders.NewEnemyBuilder().
			WithMonster("ogre", "Ogre").
			WithStats("60", "13").
			Build(),
	}
}

// ScenarioStats are the effective stats of ScenarioParty against ScenarioEnemies
func ScenarioStats() entities.EffectiveStats {
	return entities.EffectiveStats{PartyHP: 90, PartyAC: 15, EnemyHP: 60, EnemyAC: 13}
}

// ScenarioPrediction is a safe win
func ScenarioPrediction() *entities.PredictionResult {
	return &entities.PredictionResult{
		WinProbability:      0.82,
		ExpectedRounds:      3.4,
		ExpectedPartyHPLost: 18.2,
	}
}

// GoblinMonster is the catalog answer for "goblin"
func GoblinMonster() *catalog.Monster {
	hp, ac := 7.0, 15.0
	return &catalog.Monster{
		Found:      true,
		Name:       "Goblin",
		Slug:       "goblin",
		HitPoints:  &hp,
		ArmorClass: &ac,
	}
}
