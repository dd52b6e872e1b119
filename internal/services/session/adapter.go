// Package session persists the encounter working set across the boundary
// between the builder and the results view. Each slot is read and written
// independently: a missing or corrupt slot never hides the others.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/repositories/slots"
)

//go:generate mockgen -destination=mock/mock_service.go -package=sessionmock github.com/KirkDiggler/battlebrain/internal/services/session Service

// Slot keys
const (
	KeyLastStats      = "bb_last_stats"
	KeyLastPrediction = "bb_last_prediction"
	KeyEnemyList      = "bb_enemy_list"
	KeyPartyList      = "bb_party_list"
)

// Service is the persistence port used by the orchestrators
type Service interface {
	// Save writes every non-nil slot. Failures are logged, never returned.
	Save(ctx context.Context, s *entities.PersistedSession)

	// Load reads all four slots
	Load(ctx context.Context) *entities.PersistedSession

	// LoadResults reads the stats and prediction slots only
	LoadResults(ctx context.Context) *Results

	// Clear removes all four slots
	Clear(ctx context.Context) error
}

// Results is what the results view renders
type Results struct {
	Stats      *entities.EffectiveStats
	Prediction *entities.PredictionResult
}

// Config holds the dependencies of an Adapter
type Config struct {
	Repository slots.Repository
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}

	return vb.Build()
}

// Adapter implements Service on a slots.Repository
type Adapter struct {
	repo slots.Repository
}

var _ Service = (*Adapter)(nil)

// NewAdapter creates a session adapter
func NewAdapter(cfg *Config) (*Adapter, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Adapter{repo: cfg.Repository}, nil
}

// Save overwrites the stats, prediction, enemy and party slots
func (a *Adapter) Save(ctx context.Context, s *entities.PersistedSession) {
	if s == nil {
		return
	}

	if s.LastStats != nil {
		a.put(ctx, KeyLastStats, s.LastStats)
	}
	if s.LastPrediction != nil {
		a.put(ctx, KeyLastPrediction, s.LastPrediction)
	}
	if s.Enemies != nil {
		a.put(ctx, KeyEnemyList, s.Enemies)
	}
	if s.Party != nil {
		a.put(ctx, KeyPartyList, s.Party)
	}
}

// Load reads every slot. A slot that is missing or does not decode is nil in
// the result.
func (a *Adapter) Load(ctx context.Context) *entities.PersistedSession {
	out := &entities.PersistedSession{}

	var stats entities.EffectiveStats
	if a.get(ctx, KeyLastStats, &stats) {
		out.LastStats = &stats
	}

	var prediction entities.PredictionResult
	if a.get(ctx, KeyLastPrediction, &prediction) {
		out.LastPrediction = &prediction
	}

	var enemies []entities.Enemy
	if a.get(ctx, KeyEnemyList, &enemies) {
		out.Enemies = enemies
	}

	var members []storedMember
	if a.get(ctx, KeyPartyList, &members) {
		out.Party = make([]entities.PartyMember, 0, len(members))
		for _, m := range members {
			out.Party = append(out.Party, m.toEntity())
		}
	}

	return out
}

// LoadResults reads the stats and prediction slots
func (a *Adapter) LoadResults(ctx context.Context) *Results {
	out := &Results{}

	var stats entities.EffectiveStats
	if a.get(ctx, KeyLastStats, &stats) {
		out.Stats = &stats
	}

	var prediction entities.PredictionResult
	if a.get(ctx, KeyLastPrediction, &prediction) {
		out.Prediction = &prediction
	}

	return out
}

// Clear deletes every slot. It keeps going past a failed delete and returns
// the first error.
func (a *Adapter) Clear(ctx context.Context) error {
	var first error
	for _, key := range []string{KeyLastStats, KeyLastPrediction, KeyEnemyList, KeyPartyList} {
		if _, err := a.repo.Delete(ctx, &slots.DeleteInput{Key: key}); err != nil {
			slog.WarnContext(ctx, "Failed to delete session slot", "slot", key, "error", err)
			if first == nil {
				first = errors.Wrapf(err, "failed to clear slot %s", key)
			}
		}
	}
	return first
}

func (a *Adapter) put(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.WarnContext(ctx, "Failed to encode session slot", "slot", key, "error", err)
		return
	}

	if _, err := a.repo.Set(ctx, &slots.SetInput{Key: key, Value: data}); err != nil {
		slog.WarnContext(ctx, "Failed to write session slot", "slot", key, "error", err)
	}
}

func (a *Adapter) get(ctx context.Context, key string, v any) bool {
	out, err := a.repo.Get(ctx, &slots.GetInput{Key: key})
	if err != nil {
		if !errors.IsNotFound(err) {
			slog.WarnContext(ctx, "Failed to read session slot", "slot", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(out.Value, v); err != nil {
		slog.DebugContext(ctx, "Ignoring malformed session slot", "slot", key, "error", err)
		return false
	}
	return true
}

// storedMember decodes a persisted party member loosely. Fields of the wrong
// JSON type fall back to their zero value instead of failing the whole slot.
type storedMember struct {
	ID        any `json:"id"`
	Name      any `json:"name"`
	ClassName any `json:"className"`
	HP        any `json:"hp"`
	AC        any `json:"ac"`
}

func (m storedMember) toEntity() entities.PartyMember {
	id, _ := m.ID.(string)
	name, _ := m.Name.(string)
	class, _ := m.ClassName.(string)

	return entities.PartyMember{
		ID:        id,
		Name:      name,
		ClassName: entities.ClassName(class),
		HP:        looseStat(m.HP),
		AC:        looseStat(m.AC),
	}
}

func looseStat(v any) entities.RawStat {
	switch t := v.(type) {
	case string:
		return entities.RawStat(t)
	case float64:
		return entities.RawStat(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		return "0"
	}
}
