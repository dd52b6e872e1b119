// Package prediction runs a win-probability request for the current rosters
// and persists the outcome for the results view.
package prediction

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/battlebrain/internal/clients/predictor"
	"github.com/KirkDiggler/battlebrain/internal/engine"
	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/observe"
	"github.com/KirkDiggler/battlebrain/internal/pkg/clock"
	"github.com/KirkDiggler/battlebrain/internal/services/session"
)

// Request states
const (
	StateIdle       = "idle"
	StateValidating = "validating"
	StateRequesting = "requesting"
	StateSuccess    = "success"
	StateFailed     = "failed"
)

const (
	eventValidate = "validate"
	eventReject   = "reject"
	eventRequest  = "request"
	eventSucceed  = "succeed"
	eventFail     = "fail"
)

// User-facing messages
const (
	StatusPredicting = "Predicting..."
	StatusDone       = "Done"
	MsgPredictFailed = "Prediction failed. Confirm the prediction service is reachable."
)

const defaultLatencyFloor = time.Second

// Config holds the dependencies of an Orchestrator
type Config struct {
	Predictor predictor.Client
	Session   session.Service
	Clock     clock.Clock

	// LatencyFloor is the minimum time a request stays in the requesting
	// state, on success and on failure (optional, defaults to 1s)
	LatencyFloor time.Duration

	OnChange func()
	Metrics  *observe.Metrics
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Predictor == nil {
		vb.RequiredField("Predictor")
	}
	if c.Session == nil {
		vb.RequiredField("Session")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.LatencyFloor < 0 {
		vb.Field("LatencyFloor", "must not be negative")
	}

	return vb.Build()
}

// PredictInput is the roster snapshot to predict for
type PredictInput struct {
	Party   []entities.PartyMember
	Enemies []entities.Enemy
}

// PredictOutput is a completed prediction
type PredictOutput struct {
	Stats  entities.EffectiveStats
	Result *entities.PredictionResult
}

// Snapshot is the observable state of the orchestrator
type Snapshot struct {
	State       string
	Stats       *entities.EffectiveStats
	Result      *entities.PredictionResult
	FieldErrors engine.FieldErrors
	Status      string
	Error       string
}

// Orchestrator drives one prediction at a time. Safe for concurrent use.
type Orchestrator struct {
	predictor predictor.Client
	session   session.Service
	clock     clock.Clock
	floor     time.Duration
	onChange  func()
	metrics   *observe.Metrics

	mu          sync.Mutex
	machine     *fsm.FSM
	epoch       uint64
	stats       *entities.EffectiveStats
	result      *entities.PredictionResult
	fieldErrors engine.FieldErrors
	status      string
	errMsg      string
}

// New creates an idle orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	floor := cfg.LatencyFloor
	if floor == 0 {
		floor = defaultLatencyFloor
	}

	return &Orchestrator{
		predictor: cfg.Predictor,
		session:   cfg.Session,
		clock:     cfg.Clock,
		floor:     floor,
		onChange:  cfg.OnChange,
		metrics:   cfg.Metrics,
		machine:   newMachine(),
	}, nil
}

func newMachine() *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventValidate, Src: []string{StateIdle, StateSuccess, StateFailed}, Dst: StateValidating},
			{Name: eventReject, Src: []string{StateValidating}, Dst: StateFailed},
			{Name: eventRequest, Src: []string{StateValidating}, Dst: StateRequesting},
			{Name: eventSucceed, Src: []string{StateRequesting}, Dst: StateSuccess},
			{Name: eventFail, Src: []string{StateRequesting}, Dst: StateFailed},
		},
		fsm.Callbacks{},
	)
}

// Snapshot returns a copy of the current state
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	return Snapshot{
		State:       o.machine.Current(),
		Stats:       o.stats,
		Result:      o.result,
		FieldErrors: maps.Clone(o.fieldErrors),
		Status:      o.status,
		Error:       o.errMsg,
	}
}

// Busy reports whether a request is in flight
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.machine.Current() == StateRequesting
}

// Predict validates the aggregated stats and, when they pass, requests a
// prediction. The call returns no sooner than the latency floor. On success
// the stats, result and both rosters are saved to the session.
func (o *Orchestrator) Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	o.mu.Lock()
	if o.machine.Current() == StateRequesting {
		o.mu.Unlock()
		return nil, errors.FailedPrecondition("a prediction is already in progress")
	}

	if err := o.machine.Event(ctx, eventValidate); err != nil {
		o.mu.Unlock()
		return nil, errors.Wrap(err, "failed to start validation")
	}

	stats := engine.Aggregate(input.Party, input.Enemies)
	if fields := engine.ValidateStats(stats); fields.HasErrors() {
		o.fieldErrors = fields
		o.errMsg = ""
		o.status = ""
		_ = o.machine.Event(ctx, eventReject)
		o.mu.Unlock()
		o.changed()
		return nil, fields.Err()
	}

	o.fieldErrors = nil
	o.errMsg = ""
	o.status = StatusPredicting
	_ = o.machine.Event(ctx, eventRequest)
	epoch := o.epoch
	o.mu.Unlock()
	o.changed()

	start := o.clock.Now()
	result, err := o.request(ctx, stats)
	elapsed := o.clock.Now().Sub(start)

	o.mu.Lock()
	if epoch != o.epoch {
		o.mu.Unlock()
		o.metrics.RecordPredict(ctx, elapsed, "discarded")
		slog.InfoContext(ctx, "Discarded prediction completed after reset")
		return nil, errors.Canceled("prediction was reset before it completed")
	}

	if err != nil {
		o.errMsg = MsgPredictFailed
		o.status = ""
		_ = o.machine.Event(ctx, eventFail)
		o.mu.Unlock()
		o.metrics.RecordPredict(ctx, elapsed, "failure")
		slog.WarnContext(ctx, "Prediction failed", "error", err)
		o.changed()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, MsgPredictFailed)
	}

	o.stats = &stats
	o.result = result
	o.status = StatusDone
	_ = o.machine.Event(ctx, eventSucceed)
	saved := &entities.PersistedSession{
		LastStats:      &stats,
		LastPrediction: result,
		Party:          input.Party,
		Enemies:        input.Enemies,
	}
	o.mu.Unlock()

	o.session.Save(ctx, saved)

	o.metrics.RecordPredict(ctx, elapsed, "success")
	slog.InfoContext(ctx, "Prediction completed",
		"win_probability", result.WinProbability,
		"expected_rounds", result.ExpectedRounds,
		"party_hp", stats.PartyHP,
		"enemy_hp", stats.EnemyHP,
	)
	o.changed()

	return &PredictOutput{Stats: stats, Result: result}, nil
}

// request runs the predictor call alongside the latency floor and returns
// once both are done
func (o *Orchestrator) request(ctx context.Context, stats entities.EffectiveStats) (*entities.PredictionResult, error) {
	var (
		eg     errgroup.Group
		result *entities.PredictionResult
	)

	eg.Go(func() error {
		res, err := o.predictor.Predict(ctx, stats)
		if err != nil {
			return err
		}
		if res == nil {
			return errors.Internal("predictor returned no result")
		}
		result = res
		return nil
	})

	eg.Go(func() error {
		select {
		case <-o.clock.After(o.floor):
		case <-ctx.Done():
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Reset returns to idle and clears the result and messages. A request
// already in flight is discarded when it completes.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.epoch++
	o.machine.SetState(StateIdle)
	o.stats = nil
	o.result = nil
	o.fieldErrors = nil
	o.status = ""
	o.errMsg = ""
	o.mu.Unlock()
	o.changed()
}

func (o *Orchestrator) changed() {
	if o.onChange != nil {
		o.onChange()
	}
}
