// Package roster owns the mutable encounter state: the party roster, the
// enemy roster and the selected enemy. It is the only writer of roster
// fields; orchestrators receive the store and mutate it through its API.
package roster

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/battlebrain/internal/engine"
	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/observe"
	"github.com/KirkDiggler/battlebrain/internal/pkg/idgen"
)

// Mutation names reported to metrics
const (
	opAddPartyMember    = "add_party_member"
	opRemovePartyMember = "remove_party_member"
	opUpdatePartyMember = "update_party_member"
	opAddEnemy          = "add_enemy"
	opRemoveEnemy       = "remove_enemy"
	opUpdateEnemy       = "update_enemy"
	opSelectEnemy       = "select_enemy"
	opReset             = "reset"
	opRestore           = "restore"
)

// Config holds the dependencies of a Store
type Config struct {
	PartyIDs idgen.Generator
	EnemyIDs idgen.Generator

	// OnChange is called after every mutation, outside the store lock
	OnChange func()

	Metrics *observe.Metrics
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.PartyIDs == nil {
		vb.RequiredField("PartyIDs")
	}
	if c.EnemyIDs == nil {
		vb.RequiredField("EnemyIDs")
	}

	return vb.Build()
}

// PartyMemberPatch lists the editable fields of a party member. Nil fields
// are left unchanged.
type PartyMemberPatch struct {
	Name      *string
	ClassName *entities.ClassName
	HP        *entities.RawStat
	AC        *entities.RawStat
}

// EnemyPatch lists the editable fields of an enemy. Nil fields are left
// unchanged.
type EnemyPatch struct {
	Label    *string
	Name     *string
	FullName *string
	HP       *entities.RawStat
	AC       *entities.RawStat
	Qty      *entities.RawStat
}

// RestoreInput carries rosters loaded from the session. Empty slices leave
// the matching roster untouched.
type RestoreInput struct {
	Party   []entities.PartyMember
	Enemies []entities.Enemy
}

// Store is the encounter state. Both rosters always hold at least one entity
// and the selected enemy id always resolves. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	party    []entities.PartyMember
	enemies  []entities.Enemy
	selected string

	partyIDs idgen.Generator
	enemyIDs idgen.Generator
	onChange func()
	metrics  *observe.Metrics
}

// NewStore creates a store holding one default party member and one default,
// selected enemy
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Store{
		partyIDs: cfg.PartyIDs,
		enemyIDs: cfg.EnemyIDs,
		onChange: cfg.OnChange,
		metrics:  cfg.Metrics,
	}
	s.resetLocked()

	return s, nil
}

// AddPartyMember appends a default party member
func (s *Store) AddPartyMember() entities.PartyMember {
	s.mu.Lock()
	m := entities.NewPartyMember(s.partyIDs.Generate())
	s.party = append(s.party, m)
	s.mu.Unlock()

	s.changed(opAddPartyMember)
	return m
}

// RemovePartyMember removes the member with id. Removing the last member
// leaves a fresh default one in its place. Unknown ids are ignored.
func (s *Store) RemovePartyMember(id string) {
	s.mu.Lock()
	idx := s.partyIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	s.party = append(s.party[:idx:idx], s.party[idx+1:]...)
	if len(s.party) == 0 {
		s.party = []entities.PartyMember{entities.NewPartyMember(s.partyIDs.Generate())}
	}
	s.mu.Unlock()

	s.changed(opRemovePartyMember)
}

// UpdatePartyMember applies patch to the member with id. It reports whether
// the member exists.
func (s *Store) UpdatePartyMember(id string, patch PartyMemberPatch) bool {
	s.mu.Lock()
	idx := s.partyIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	m := &s.party[idx]
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.ClassName != nil {
		m.ClassName = *patch.ClassName
	}
	if patch.HP != nil {
		m.HP = *patch.HP
	}
	if patch.AC != nil {
		m.AC = *patch.AC
	}
	s.mu.Unlock()

	s.changed(opUpdatePartyMember)
	return true
}

// AddEnemy appends a default enemy and selects it
func (s *Store) AddEnemy() entities.Enemy {
	s.mu.Lock()
	e := entities.NewEnemy(s.enemyIDs.Generate())
	s.enemies = append(s.enemies, e)
	s.selected = e.ID
	s.mu.Unlock()

	s.changed(opAddEnemy)
	return e
}

// RemoveEnemy removes the enemy with id. Removing the last enemy leaves a
// fresh default one, selected. Removing the selected enemy selects the first
// remaining one. Unknown ids are ignored.
func (s *Store) RemoveEnemy(id string) {
	s.mu.Lock()
	idx := s.enemyIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	s.enemies = append(s.enemies[:idx:idx], s.enemies[idx+1:]...)
	if len(s.enemies) == 0 {
		s.enemies = []entities.Enemy{entities.NewEnemy(s.enemyIDs.Generate())}
	}
	if s.selected == id {
		s.selected = s.enemies[0].ID
	}
	s.mu.Unlock()

	s.changed(opRemoveEnemy)
}

// UpdateEnemy applies patch to the enemy with id. It reports whether the
// enemy exists.
func (s *Store) UpdateEnemy(id string, patch EnemyPatch) bool {
	s.mu.Lock()
	idx := s.enemyIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	e := &s.enemies[idx]
	if patch.Label != nil {
		e.Label = *patch.Label
	}
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.FullName != nil {
		e.FullName = *patch.FullName
	}
	if patch.HP != nil {
		e.HP = *patch.HP
	}
	if patch.AC != nil {
		e.AC = *patch.AC
	}
	if patch.Qty != nil {
		e.Qty = *patch.Qty
	}
	s.mu.Unlock()

	s.changed(opUpdateEnemy)
	return true
}

// SelectEnemy makes id the lookup target
func (s *Store) SelectEnemy(id string) error {
	s.mu.Lock()
	if s.enemyIndex(id) < 0 {
		s.mu.Unlock()
		return errors.NotFoundf("enemy %s not found", id).WithMeta("enemy_id", id)
	}
	s.selected = id
	s.mu.Unlock()

	s.changed(opSelectEnemy)
	return nil
}

// Party returns a copy of the party roster
func (s *Store) Party() []entities.PartyMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.PartyMember(nil), s.party...)
}

// Enemies returns a copy of the enemy roster
func (s *Store) Enemies() []entities.Enemy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Enemy(nil), s.enemies...)
}

// Enemy returns the enemy with id
func (s *Store) Enemy(id string) (entities.Enemy, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.enemyIndex(id)
	if idx < 0 {
		return entities.Enemy{}, false
	}
	return s.enemies[idx], true
}

// SelectedEnemyID returns the id of the lookup target
func (s *Store) SelectedEnemyID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Stats aggregates the current rosters
func (s *Store) Stats() entities.EffectiveStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return engine.Aggregate(s.party, s.enemies)
}

// CanPredict reports whether the current stats pass the predict gate
func (s *Store) CanPredict() bool {
	return s.Stats().CanPredict()
}

// CanRemovePartyMember is false while the party has a single member
func (s *Store) CanRemovePartyMember() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.party) > 1
}

// CanRemoveEnemy is false while the enemy roster has a single entry
func (s *Store) CanRemoveEnemy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.enemies) > 1
}

// Reset returns both rosters to a single fresh default entity
func (s *Store) Reset() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	s.changed(opReset)
}

// Restore replaces the rosters from persisted data. A non-empty enemy list
// replaces the enemies and selects the first. A non-empty party list replaces
// the party; members without an id get a new one and unknown classes become
// the default class.
func (s *Store) Restore(input *RestoreInput) {
	if input == nil || (len(input.Party) == 0 && len(input.Enemies) == 0) {
		return
	}

	s.mu.Lock()
	if len(input.Enemies) > 0 {
		enemies := make([]entities.Enemy, len(input.Enemies))
		for i, e := range input.Enemies {
			if e.ID == "" {
				e.ID = s.enemyIDs.Generate()
			}
			enemies[i] = e
		}
		s.enemies = enemies
		s.selected = enemies[0].ID
	}

	if len(input.Party) > 0 {
		party := make([]entities.PartyMember, len(input.Party))
		for i, m := range input.Party {
			if m.ID == "" {
				m.ID = s.partyIDs.Generate()
			}
			if !m.ClassName.IsValid() {
				m.ClassName = entities.DefaultClass
			}
			party[i] = m
		}
		s.party = party
	}
	s.mu.Unlock()

	s.changed(opRestore)
}

// CheckInvariants reports a FailedPrecondition error when a roster is empty
// or the selection dangles
func (s *Store) CheckInvariants() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.party) == 0 {
		return errors.FailedPrecondition("party roster is empty")
	}
	if len(s.enemies) == 0 {
		return errors.FailedPrecondition("enemy roster is empty")
	}
	if s.enemyIndex(s.selected) < 0 {
		return errors.FailedPreconditionf("selected enemy %q is not in the roster", s.selected)
	}
	return nil
}

func (s *Store) resetLocked() {
	s.party = []entities.PartyMember{entities.NewPartyMember(s.partyIDs.Generate())}
	e := entities.NewEnemy(s.enemyIDs.Generate())
	s.enemies = []entities.Enemy{e}
	s.selected = e.ID
}

func (s *Store) partyIndex(id string) int {
	return indexOf(s.party, id)
}

func (s *Store) enemyIndex(id string) int {
	return indexOf(s.enemies, id)
}

// indexOf returns the position of the entity with id, or -1
func indexOf[E any, P interface {
	*E
	core.Entity
}](items []E, id string) int {
	for i := range items {
		if P(&items[i]).GetID() == id {
			return i
		}
	}
	return -1
}

func (s *Store) changed(op string) {
	s.metrics.RecordRosterMutation(context.Background(), op)
	if s.onChange != nil {
		s.onChange()
	}
}
