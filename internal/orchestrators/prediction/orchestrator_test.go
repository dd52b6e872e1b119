package prediction_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	predictormock "github.com/KirkDiggler/battlebrain/internal/clients/predictor/mock"
	"github.com/KirkDiggler/battlebrain/internal/engine"
	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/prediction"
	"github.com/KirkDiggler/battlebrain/internal/pkg/clock"
	"github.com/KirkDiggler/battlebrain/internal/repositories/slots"
	"github.com/KirkDiggler/battlebrain/internal/services/session"
	sessionmock "github.com/KirkDiggler/battlebrain/internal/services/session/mock"
)

const floor = 5 * time.Millisecond

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockPredictor *predictormock.MockClient
	session       *session.Adapter
	orchestrator  *prediction.Orchestrator
	ctx           context.Context

	input  *prediction.PredictInput
	stats  entities.EffectiveStats
	result *entities.PredictionResult
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockPredictor = predictormock.NewMockClient(s.ctrl)
	s.ctx = context.Background()

	adapter, err := session.NewAdapter(&session.Config{Repository: slots.NewInMemory()})
	s.Require().NoError(err)
	s.session = adapter

	s.orchestrator = s.newOrchestrator(clock.New(), floor)

	member := entities.NewPartyMember("pm_1")
	member.HP, member.AC = "90", "15"
	enemy := entities.NewEnemy("en_1")
	enemy.FullName, enemy.HP, enemy.AC = "Goblin", "60", "13"

	s.input = &prediction.PredictInput{
		Party:   []entities.PartyMember{member},
		Enemies: []entities.Enemy{enemy},
	}
	s.stats = entities.EffectiveStats{PartyHP: 90, PartyAC: 15, EnemyHP: 60, EnemyAC: 13}
	s.result = &entities.PredictionResult{WinProbability: 0.82, ExpectedRounds: 3.4, ExpectedPartyHPLost: 18.2}
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) newOrchestrator(clk clock.Clock, latencyFloor time.Duration) *prediction.Orchestrator {
	o, err := prediction.New(&prediction.Config{
		Predictor:    s.mockPredictor,
		Session:      s.session,
		Clock:        clk,
		LatencyFloor: latencyFloor,
	})
	s.Require().NoError(err)
	return o
}

func (s *OrchestratorTestSuite) TestNewValidation() {
	_, err := prediction.New(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = prediction.New(&prediction.Config{})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Predictor")
}

func (s *OrchestratorTestSuite) TestPredictSuccessPersistsResult() {
	s.mockPredictor.EXPECT().Predict(gomock.Any(), s.stats).Return(s.result, nil)

	out, err := s.orchestrator.Predict(s.ctx, s.input)

	s.Require().NoError(err)
	s.Equal(s.stats, out.Stats)
	s.Equal(s.result, out.Result)

	snap := s.orchestrator.Snapshot()
	s.Equal(prediction.StateSuccess, snap.State)
	s.Equal(prediction.StatusDone, snap.Status)
	s.Empty(snap.Error)
	s.Equal(s.result, snap.Result)

	saved := s.session.Load(s.ctx)
	s.Equal(&s.stats, saved.LastStats)
	s.Equal(s.result, saved.LastPrediction)
	s.Equal(s.input.Party, saved.Party)
	s.Equal(s.input.Enemies, saved.Enemies)
}

func (s *OrchestratorTestSuite) TestPredictHonorsLatencyFloor() {
	realFloor := 40 * time.Millisecond
	o := s.newOrchestrator(clock.New(), realFloor)
	s.mockPredictor.EXPECT().Predict(gomock.Any(), s.stats).Return(s.result, nil)

	start := time.Now()
	_, err := o.Predict(s.ctx, s.input)

	s.Require().NoError(err)
	s.GreaterOrEqual(time.Since(start), realFloor)
}

func (s *OrchestratorTestSuite) TestFloorHoldsOnFailure() {
	fake := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	o := s.newOrchestrator(fake, time.Second)
	s.mockPredictor.EXPECT().Predict(gomock.Any(), s.stats).Return(nil, errors.Unavailable("connection refused"))

	done := make(chan error, 1)
	go func() {
		_, err := o.Predict(s.ctx, s.input)
		done <- err
	}()

	s.Require().Eventually(func() bool { return fake.PendingTimers() == 1 }, time.Second, time.Millisecond)
	s.Equal(prediction.StatusPredicting, o.Snapshot().Status)
	s.True(o.Busy())

	fake.Advance(999 * time.Millisecond)
	select {
	case <-done:
		s.Fail("predict returned before the latency floor")
	case <-time.After(20 * time.Millisecond):
	}

	fake.Advance(time.Millisecond)
	err := <-done

	s.True(errors.IsUnavailable(err))
	snap := o.Snapshot()
	s.Equal(prediction.StateFailed, snap.State)
	s.Equal(prediction.MsgPredictFailed, snap.Error)
	s.Empty(snap.Status)
}

func (s *OrchestratorTestSuite) TestFailureLeavesSessionUntouched() {
	prior := &entities.PredictionResult{WinProbability: 0.4}
	s.session.Save(s.ctx, &entities.PersistedSession{LastPrediction: prior})
	s.mockPredictor.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailable("Predict request failed (500)"))

	_, err := s.orchestrator.Predict(s.ctx, s.input)

	s.Error(err)
	saved := s.session.LoadResults(s.ctx)
	s.Nil(saved.Stats)
	s.Equal(prior, saved.Prediction)
}

func (s *OrchestratorTestSuite) TestValidationBlocksRequest() {
	s.input.Party[0].HP = "0"
	s.input.Enemies[0].AC = ""

	_, err := s.orchestrator.Predict(s.ctx, s.input)

	s.True(errors.IsInvalidArgument(err))
	snap := s.orchestrator.Snapshot()
	s.Equal(prediction.StateFailed, snap.State)
	s.Equal(engine.FieldErrors{
		engine.FieldPartyHP: "Party HP must be 1 or higher.",
		engine.FieldEnemyAC: "Enemy AC must be 1 or higher.",
	}, snap.FieldErrors)
	s.Nil(s.session.LoadResults(s.ctx).Stats)
}

func (s *OrchestratorTestSuite) TestValidationKeepsPriorResult() {
	s.mockPredictor.EXPECT().Predict(gomock.Any(), s.stats).Return(s.result, nil)
	_, err := s.orchestrator.Predict(s.ctx, s.input)
	s.Require().NoError(err)

	s.input.Enemies[0].HP = "abc"
	_, err = s.orchestrator.Predict(s.ctx, s.input)

	s.True(errors.IsInvalidArgument(err))
	s.Equal(s.result, s.orchestrator.Snapshot().Result)
}

func (s *OrchestratorTestSuite) TestRetryAfterFailureClearsFieldErrors() {
	bad := *s.input
	bad.Party = []entities.PartyMember{entities.NewPartyMember("pm_9")}
	_, err := s.orchestrator.Predict(s.ctx, &bad)
	s.Require().Error(err)

	s.mockPredictor.EXPECT().Predict(gomock.Any(), s.stats).Return(s.result, nil)
	_, err = s.orchestrator.Predict(s.ctx, s.input)

	s.Require().NoError(err)
	s.Empty(s.orchestrator.Snapshot().FieldErrors)
}

func (s *OrchestratorTestSuite) TestSecondPredictWhileRequesting() {
	release := make(chan struct{})
	s.mockPredictor.EXPECT().
		Predict(gomock.Any(), s.stats).
		DoAndReturn(func(context.Context, entities.EffectiveStats) (*entities.PredictionResult, error) {
			<-release
			return s.result, nil
		})

	done := make(chan error, 1)
	go func() {
		_, err := s.orchestrator.Predict(s.ctx, s.input)
		done <- err
	}()
	s.Require().Eventually(s.orchestrator.Busy, time.Second, time.Millisecond)

	_, err := s.orchestrator.Predict(s.ctx, s.input)
	s.True(errors.IsFailedPrecondition(err))

	close(release)
	s.NoError(<-done)
}

func (s *OrchestratorTestSuite) TestResetDiscardsInflightResult() {
	release := make(chan struct{})
	s.mockPredictor.EXPECT().
		Predict(gomock.Any(), s.stats).
		DoAndReturn(func(context.Context, entities.EffectiveStats) (*entities.PredictionResult, error) {
			<-release
			return s.result, nil
		})

	done := make(chan error, 1)
	go func() {
		_, err := s.orchestrator.Predict(s.ctx, s.input)
		done <- err
	}()
	s.Require().Eventually(s.orchestrator.Busy, time.Second, time.Millisecond)

	s.orchestrator.Reset()
	close(release)
	err := <-done

	s.True(errors.IsCanceled(err))
	snap := s.orchestrator.Snapshot()
	s.Equal(prediction.StateIdle, snap.State)
	s.Nil(snap.Result)
	s.Empty(snap.Status)
	s.Nil(s.session.LoadResults(s.ctx).Prediction)
}

func (s *OrchestratorTestSuite) TestResetIsIdempotent() {
	s.mockPredictor.EXPECT().Predict(gomock.Any(), s.stats).Return(s.result, nil)
	_, err := s.orchestrator.Predict(s.ctx, s.input)
	s.Require().NoError(err)

	s.orchestrator.Reset()
	first := s.orchestrator.Snapshot()
	s.orchestrator.Reset()

	s.Equal(first, s.orchestrator.Snapshot())
	s.Equal(prediction.Snapshot{State: prediction.StateIdle}, first)
}

func (s *OrchestratorTestSuite) TestSnapshotDoesNotWaitForSessionWrite() {
	mockSession := sessionmock.NewMockService(s.ctrl)
	o, err := prediction.New(&prediction.Config{
		Predictor:    s.mockPredictor,
		Session:      mockSession,
		Clock:        clock.New(),
		LatencyFloor: time.Millisecond,
	})
	s.Require().NoError(err)

	saving := make(chan struct{})
	release := make(chan struct{})
	s.mockPredictor.EXPECT().Predict(gomock.Any(), s.stats).Return(s.result, nil)
	mockSession.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, saved *entities.PersistedSession) {
			s.Equal(&s.stats, saved.LastStats)
			s.Equal(s.result, saved.LastPrediction)
			close(saving)
			<-release
		})

	done := make(chan error, 1)
	go func() {
		_, err := o.Predict(s.ctx, s.input)
		done <- err
	}()
	<-saving

	snapshots := make(chan prediction.Snapshot, 1)
	go func() { snapshots <- o.Snapshot() }()

	select {
	case snap := <-snapshots:
		s.Equal(prediction.StateSuccess, snap.State)
		s.Equal(s.result, snap.Result)
	case <-time.After(time.Second):
		s.Fail("snapshot blocked while the session was being written")
	}

	close(release)
	s.NoError(<-done)
}
