package encounter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	catalogmock "github.com/KirkDiggler/battlebrain/internal/clients/catalog/mock"
	predictormock "github.com/KirkDiggler/battlebrain/internal/clients/predictor/mock"
	"github.com/KirkDiggler/battlebrain/internal/engine"
	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/encounter"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/lookup"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/prediction"
	"github.com/KirkDiggler/battlebrain/internal/pkg/clock"
	"github.com/KirkDiggler/battlebrain/internal/pkg/idgen"
	"github.com/KirkDiggler/battlebrain/internal/repositories/slots"
	"github.com/KirkDiggler/battlebrain/internal/services/roster"
	"github.com/KirkDiggler/battlebrain/internal/services/session"
	"github.com/KirkDiggler/battlebrain/internal/testutils"
	"github.com/KirkDiggler/battlebrain/internal/testutils/builders"
	"github.com/KirkDiggler/battlebrain/internal/testutils/mocks"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockCatalog   *catalogmock.MockClient
	mockPredictor *predictormock.MockClient
	repo          *slots.InMemoryRepository
	session       *session.Adapter
	ctx           context.Context
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockCatalog = catalogmock.NewMockClient(s.ctrl)
	s.mockPredictor = predictormock.NewMockClient(s.ctrl)
	s.repo = slots.NewInMemory()
	s.ctx = context.Background()

	adapter, err := session.NewAdapter(&session.Config{Repository: s.repo})
	s.Require().NoError(err)
	s.session = adapter
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) newOrchestrator() *encounter.Orchestrator {
	store, err := roster.NewStore(&roster.Config{
		PartyIDs: idgen.NewSequential("pm"),
		EnemyIDs: idgen.NewSequential("en"),
	})
	s.Require().NoError(err)

	coordinator, err := lookup.NewCoordinator(&lookup.Config{
		Catalog: s.mockCatalog,
		Roster:  store,
		Clock:   clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	s.Require().NoError(err)
	s.T().Cleanup(coordinator.Close)

	predictions, err := prediction.New(&prediction.Config{
		Predictor:    s.mockPredictor,
		Session:      s.session,
		Clock:        clock.New(),
		LatencyFloor: time.Millisecond,
	})
	s.Require().NoError(err)

	o, err := encounter.NewOrchestrator(&encounter.Config{
		Roster:     store,
		Lookup:     coordinator,
		Prediction: predictions,
		Session:    s.session,
	})
	s.Require().NoError(err)
	return o
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidation() {
	_, err := encounter.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = encounter.NewOrchestrator(&encounter.Config{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestMountEmptySession() {
	o := s.newOrchestrator()

	out, err := o.Mount(s.ctx, &encounter.MountInput{})

	s.Require().NoError(err)
	s.False(out.AlreadyMounted)
	s.False(out.RestoredParty)
	s.False(out.RestoredEnemies)

	view := o.View()
	s.Equal([]entities.PartyMember{entities.NewPartyMember("pm_1")}, view.Party)
	s.Equal([]entities.Enemy{entities.NewEnemy("en_1")}, view.Enemies)
	s.False(view.CanPredict)
}

func (s *OrchestratorTestSuite) TestMountRestoresRosters() {
	s.session.Save(s.ctx, &entities.PersistedSession{
		Party: []entities.PartyMember{
			builders.NewPartyMemberBuilder().WithID("a").WithName("Aria").WithClass(entities.ClassWizard).WithStats("30", "12").Build(),
			builders.NewPartyMemberBuilder().WithID("").WithName("Bram").WithClass("Necromancer").WithStats("40", "16").Build(),
		},
		Enemies: []entities.Enemy{
			builders.NewEnemyBuilder().WithID("e1").WithLabel("Boss").WithMonster("", "Ogre").WithStats("59", "11").Build(),
			builders.NewEnemyBuilder().WithID("e2").WithMonster("", "Goblin").WithStats("7", "15").WithQty("3").Build(),
		},
	})
	o := s.newOrchestrator()

	out, err := o.Mount(s.ctx, nil)

	s.Require().NoError(err)
	s.True(out.RestoredParty)
	s.True(out.RestoredEnemies)

	view := o.View()
	s.Require().Len(view.Party, 2)
	s.Equal("a", view.Party[0].ID)
	s.NotEmpty(view.Party[1].ID)
	s.Equal(entities.ClassFighter, view.Party[1].ClassName)
	s.Len(view.Enemies, 2)
	s.Equal("e1", view.SelectedEnemyID)
}

func (s *OrchestratorTestSuite) TestMountPartyFromLastStats() {
	s.session.Save(s.ctx, &entities.PersistedSession{
		LastStats: &entities.EffectiveStats{PartyHP: 90, PartyAC: 15, EnemyHP: 60, EnemyAC: 13},
	})
	o := s.newOrchestrator()

	_, err := o.Mount(s.ctx, nil)

	s.Require().NoError(err)
	party := o.View().Party
	s.Require().Len(party, 1)
	s.Equal(entities.RawStat("90"), party[0].HP)
	s.Equal(entities.RawStat("15"), party[0].AC)
	s.Equal(entities.DefaultClass, party[0].ClassName)
	s.NotEmpty(party[0].ID)
}

func (s *OrchestratorTestSuite) TestMountEmptyPartyListKeepsDefault() {
	s.session.Save(s.ctx, &entities.PersistedSession{
		LastStats: &entities.EffectiveStats{PartyHP: 90, PartyAC: 15, EnemyHP: 60, EnemyAC: 13},
	})
	_, err := s.repo.Set(s.ctx, &slots.SetInput{Key: session.KeyPartyList, Value: []byte("[]")})
	s.Require().NoError(err)
	o := s.newOrchestrator()

	out, err := o.Mount(s.ctx, nil)

	s.Require().NoError(err)
	s.False(out.RestoredParty)
	s.Equal([]entities.PartyMember{entities.NewPartyMember("pm_1")}, o.View().Party)
}

func (s *OrchestratorTestSuite) TestMountMalformedEnemySlot() {
	s.session.Save(s.ctx, &entities.PersistedSession{
		Party: []entities.PartyMember{{ID: "a", Name: "Aria", ClassName: entities.ClassBard, HP: "20", AC: "13"}},
	})
	_, err := s.repo.Set(s.ctx, &slots.SetInput{Key: session.KeyEnemyList, Value: []byte("{not json")})
	s.Require().NoError(err)
	o := s.newOrchestrator()

	out, err := o.Mount(s.ctx, nil)

	s.Require().NoError(err)
	s.False(out.RestoredEnemies)
	view := o.View()
	s.Equal([]entities.Enemy{entities.NewEnemy("en_1")}, view.Enemies)
	s.Equal("Aria", view.Party[0].Name)
}

func (s *OrchestratorTestSuite) TestMountRunsOnce() {
	o := s.newOrchestrator()
	_, err := o.Mount(s.ctx, nil)
	s.Require().NoError(err)

	s.session.Save(s.ctx, &entities.PersistedSession{
		Enemies: []entities.Enemy{{ID: "late", Qty: "1"}},
	})
	out, err := o.Mount(s.ctx, nil)

	s.Require().NoError(err)
	s.True(out.AlreadyMounted)
	s.Equal("en_1", o.View().SelectedEnemyID)
}

func (s *OrchestratorTestSuite) TestBuildLookupPredictSummarize() {
	o := s.newOrchestrator()
	_, err := o.Mount(s.ctx, nil)
	s.Require().NoError(err)

	mocks.ExpectMonsterLookup(s.mockCatalog, "goblin", testutils.GoblinMonster())

	searched, err := o.Search(s.ctx, &encounter.SearchInput{Query: "goblin"})
	s.Require().NoError(err)
	s.True(searched.Applied)
	s.Equal("Loaded: Goblin", searched.Status)

	name, memberHP, memberAC := "Aria", entities.RawStat("90"), entities.RawStat("15")
	s.True(o.Roster().UpdatePartyMember("pm_1", roster.PartyMemberPatch{Name: &name, HP: &memberHP, AC: &memberAC}))
	label, qty := "Raiders", entities.RawStat("2")
	s.True(o.Roster().UpdateEnemy("en_1", roster.EnemyPatch{Label: &label, Qty: &qty}))

	stats := entities.EffectiveStats{PartyHP: 90, PartyAC: 15, EnemyHP: 14, EnemyAC: 15}
	result := &entities.PredictionResult{WinProbability: 0.82, ExpectedRounds: 3, ExpectedPartyHPLost: 12}
	mocks.ExpectPrediction(s.mockPredictor, stats, result, nil)

	predicted, err := o.Predict(s.ctx, &encounter.PredictInput{})
	s.Require().NoError(err)
	s.Equal(stats, predicted.Stats)
	s.Equal(engine.ToneSafe, predicted.Difficulty.Tone)

	summary, err := o.Summary(s.ctx)
	s.Require().NoError(err)
	s.Contains(summary.Text, "Party Members: Aria (Fighter) - HP 90, AC 15")
	s.Contains(summary.Text, "Raiders - goblin x2 (HP 7, AC 15)")
	s.Contains(summary.Text, "Win Probability: 82.0%")

	results := o.Results(s.ctx)
	s.Equal(&stats, results.Stats)
	s.Equal(result, results.Prediction)
	s.Equal("Safe", results.Difficulty.Label)
}

func (s *OrchestratorTestSuite) TestSearchNotFound() {
	o := s.newOrchestrator()
	mocks.ExpectMonsterNotFound(s.mockCatalog, "zzz", "No monster found for 'zzz'")

	out, err := o.Search(s.ctx, &encounter.SearchInput{Query: "zzz"})

	s.Require().NoError(err)
	s.False(out.Applied)
	s.Equal("No monster found for 'zzz'", out.Status)
}

func (s *OrchestratorTestSuite) TestPredictFailureKeepsSession() {
	s.session.Save(s.ctx, &entities.PersistedSession{
		Party:   testutils.ScenarioParty(),
		Enemies: testutils.ScenarioEnemies(),
	})
	o := s.newOrchestrator()
	_, err := o.Mount(s.ctx, nil)
	s.Require().NoError(err)

	mocks.ExpectPrediction(s.mockPredictor, testutils.ScenarioStats(), nil, errors.Unavailable("Predict request failed (503)"))

	_, err = o.Predict(s.ctx, &encounter.PredictInput{})

	s.True(errors.IsUnavailable(err))
	s.Equal(prediction.MsgPredictFailed, o.View().Prediction.Error)
	s.Nil(o.Results(s.ctx).Prediction)
}

func (s *OrchestratorTestSuite) TestSummaryWithoutPrediction() {
	o := s.newOrchestrator()

	_, err := o.Summary(s.ctx)

	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestPredictValidationError() {
	o := s.newOrchestrator()

	_, err := o.Predict(s.ctx, &encounter.PredictInput{})

	s.True(errors.IsInvalidArgument(err))
	s.Len(o.View().Prediction.FieldErrors, 4)
}

func (s *OrchestratorTestSuite) TestResetIsIdempotent() {
	o := s.newOrchestrator()
	o.Roster().AddPartyMember()
	o.Roster().AddEnemy()
	o.Lookup().SetQuery("ogre")

	o.Reset(s.ctx)
	first := o.View()
	o.Reset(s.ctx)
	second := o.View()

	s.Len(first.Party, 1)
	s.Len(first.Enemies, 1)
	s.Equal(lookup.State{}, first.Search)
	s.Equal(prediction.StateIdle, first.Prediction.State)
	s.Nil(first.Difficulty)

	// fresh ids differ between resets; everything else matches
	first.Party, second.Party = nil, nil
	first.Enemies, second.Enemies = nil, nil
	first.SelectedEnemyID, second.SelectedEnemyID = "", ""
	s.Equal(first, second)
}
