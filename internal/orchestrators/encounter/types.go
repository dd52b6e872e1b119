package encounter

import (
	"github.com/KirkDiggler/battlebrain/internal/engine"
	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/lookup"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/prediction"
)

// MountInput defines the request for restoring a persisted session
type MountInput struct{}

// MountOutput reports what was restored
type MountOutput struct {
	// AlreadyMounted is true when a previous Mount already ran
	AlreadyMounted  bool
	RestoredParty   bool
	RestoredEnemies bool
}

// PredictInput defines the request for predicting the current rosters
type PredictInput struct{}

// PredictOutput is the completed prediction
type PredictOutput struct {
	Stats      entities.EffectiveStats
	Result     *entities.PredictionResult
	Difficulty engine.Difficulty
}

// SearchInput defines the request for an exact monster lookup. A non-empty
// Query replaces the search field first.
type SearchInput struct {
	Query string
}

// SearchOutput is the lookup outcome
type SearchOutput struct {
	EnemyID string
	Applied bool
	Status  string
}

// SummaryOutput holds the shareable encounter text
type SummaryOutput struct {
	Text string
}

// ResultsOutput is what the results view renders from the session
type ResultsOutput struct {
	Stats      *entities.EffectiveStats
	Prediction *entities.PredictionResult
	Difficulty *engine.Difficulty
}

// View is a snapshot of everything the builder screen shows
type View struct {
	Party                []entities.PartyMember
	Enemies              []entities.Enemy
	SelectedEnemyID      string
	Stats                entities.EffectiveStats
	CanPredict           bool
	CanRemovePartyMember bool
	CanRemoveEnemy       bool
	Search               lookup.State
	Prediction           prediction.Snapshot
	Difficulty           *engine.Difficulty
}
