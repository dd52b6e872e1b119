// Package encounter composes the roster store, the lookup coordinator and
// the prediction orchestrator into the encounter builder.
package encounter

//go:generate mockgen -destination=mock/mock_service.go -package=encountermock github.com/KirkDiggler/battlebrain/internal/orchestrators/encounter Service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/battlebrain/internal/engine"
	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/lookup"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/prediction"
	"github.com/KirkDiggler/battlebrain/internal/services/roster"
	"github.com/KirkDiggler/battlebrain/internal/services/session"
)

// Service defines the builder operations
type Service interface {
	// Mount restores rosters from the persisted session, once
	Mount(ctx context.Context, input *MountInput) (*MountOutput, error)

	// Predict requests a prediction for the current rosters
	Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error)

	// Search looks up a monster and fills the selected enemy row
	Search(ctx context.Context, input *SearchInput) (*SearchOutput, error)

	// Reset returns the builder to a fresh state
	Reset(ctx context.Context)

	// Summary renders the shareable text of the last prediction
	Summary(ctx context.Context) (*SummaryOutput, error)

	// Results reads the last persisted stats and prediction
	Results(ctx context.Context) *ResultsOutput

	// View snapshots the builder state
	View() *View
}

// Config holds the dependencies for the encounter orchestrator
type Config struct {
	Roster     *roster.Store
	Lookup     *lookup.Coordinator
	Prediction *prediction.Orchestrator
	Session    session.Service
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roster == nil {
		vb.RequiredField("Roster")
	}
	if c.Lookup == nil {
		vb.RequiredField("Lookup")
	}
	if c.Prediction == nil {
		vb.RequiredField("Prediction")
	}
	if c.Session == nil {
		vb.RequiredField("Session")
	}

	return vb.Build()
}

// Orchestrator implements Service
type Orchestrator struct {
	roster     *roster.Store
	lookup     *lookup.Coordinator
	prediction *prediction.Orchestrator
	session    session.Service

	mountOnce sync.Once
}

var _ Service = (*Orchestrator)(nil)

// NewOrchestrator creates a new encounter orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Orchestrator{
		roster:     cfg.Roster,
		lookup:     cfg.Lookup,
		prediction: cfg.Prediction,
		session:    cfg.Session,
	}, nil
}

// Roster exposes the store for row edits
func (o *Orchestrator) Roster() *roster.Store {
	return o.roster
}

// Lookup exposes the search field
func (o *Orchestrator) Lookup() *lookup.Coordinator {
	return o.lookup
}

// Mount restores the rosters saved by the last successful prediction. When
// the party slot is missing but stats were saved, the party becomes a single
// member carrying the saved party HP and AC. A saved empty party list keeps
// the default party.
func (o *Orchestrator) Mount(ctx context.Context, _ *MountInput) (*MountOutput, error) {
	output := &MountOutput{AlreadyMounted: true}

	o.mountOnce.Do(func() {
		output.AlreadyMounted = false

		saved := o.session.Load(ctx)
		input := &roster.RestoreInput{
			Party:   saved.Party,
			Enemies: saved.Enemies,
		}

		if saved.Party == nil && saved.LastStats != nil {
			m := entities.NewPartyMember("")
			m.HP = entities.StatOf(saved.LastStats.PartyHP)
			m.AC = entities.StatOf(saved.LastStats.PartyAC)
			input.Party = []entities.PartyMember{m}
		}

		output.RestoredParty = len(input.Party) > 0
		output.RestoredEnemies = len(input.Enemies) > 0
		o.roster.Restore(input)

		slog.InfoContext(ctx, "Session restored",
			"party", len(input.Party),
			"enemies", len(input.Enemies),
		)
	})

	return output, nil
}

// Predict snapshots the rosters and hands them to the prediction orchestrator
func (o *Orchestrator) Predict(ctx context.Context, _ *PredictInput) (*PredictOutput, error) {
	out, err := o.prediction.Predict(ctx, &prediction.PredictInput{
		Party:   o.roster.Party(),
		Enemies: o.roster.Enemies(),
	})
	if err != nil {
		return nil, err
	}

	return &PredictOutput{
		Stats:      out.Stats,
		Result:     out.Result,
		Difficulty: engine.DifficultyFor(out.Result.WinProbability),
	}, nil
}

// Search runs an exact lookup into the selected enemy row
func (o *Orchestrator) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if input != nil && input.Query != "" {
		o.lookup.SetQuery(input.Query)
	}

	out, err := o.lookup.Search(ctx)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{
		EnemyID: out.EnemyID,
		Applied: out.Applied,
		Status:  o.lookup.State().Status,
	}, nil
}

// Reset clears the rosters, the search field and the prediction. Calling it
// twice leaves the same state as calling it once.
func (o *Orchestrator) Reset(ctx context.Context) {
	o.roster.Reset()
	o.lookup.Reset()
	o.prediction.Reset()
	slog.DebugContext(ctx, "Builder reset")
}

// Summary renders the last prediction with the current rosters
func (o *Orchestrator) Summary(_ context.Context) (*SummaryOutput, error) {
	snap := o.prediction.Snapshot()
	if snap.Result == nil {
		return nil, errors.FailedPrecondition("no prediction to summarize")
	}

	stats := o.roster.Stats()
	if snap.Stats != nil {
		stats = *snap.Stats
	}

	return &SummaryOutput{
		Text: engine.Summary(o.roster.Party(), o.roster.Enemies(), stats, snap.Result),
	}, nil
}

// Results loads the results view from the session
func (o *Orchestrator) Results(ctx context.Context) *ResultsOutput {
	saved := o.session.LoadResults(ctx)
	output := &ResultsOutput{
		Stats:      saved.Stats,
		Prediction: saved.Prediction,
	}
	if saved.Prediction != nil {
		d := engine.DifficultyFor(saved.Prediction.WinProbability)
		output.Difficulty = &d
	}
	return output
}

// View snapshots the builder
func (o *Orchestrator) View() *View {
	snap := o.prediction.Snapshot()
	stats := o.roster.Stats()

	view := &View{
		Party:                o.roster.Party(),
		Enemies:              o.roster.Enemies(),
		SelectedEnemyID:      o.roster.SelectedEnemyID(),
		Stats:                stats,
		CanPredict:           stats.CanPredict() && snap.State != prediction.StateRequesting,
		CanRemovePartyMember: o.roster.CanRemovePartyMember(),
		CanRemoveEnemy:       o.roster.CanRemoveEnemy(),
		Search:               o.lookup.State(),
		Prediction:           snap,
	}
	if snap.Result != nil {
		d := engine.DifficultyFor(snap.Result.WinProbability)
		view.Difficulty = &d
	}
	return view
}
