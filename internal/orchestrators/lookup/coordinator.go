// Package lookup coordinates the monster search field: live suggestions
// while typing and an exact lookup that fills the selected enemy row.
//
// Suggestions are debounced. Every keystroke, blur or selection bumps a
// generation counter and cancels the request in flight, so a late response
// for an old query is dropped instead of overwriting newer suggestions.
package lookup

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/battlebrain/internal/clients/catalog"
	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/observe"
	"github.com/KirkDiggler/battlebrain/internal/pkg/clock"
	"github.com/KirkDiggler/battlebrain/internal/services/roster"
)

// User-facing messages
const (
	MsgCatalogUnreachable = "Catalog request failed. Confirm the catalog service is reachable."
	MsgEnterName          = "Enter a monster name to search."
	MsgSelectEnemy        = "Select an enemy row first."
	MsgRowRemoved         = "The selected enemy row was removed before the lookup finished."
	MsgNotFound           = "No monster found"
)

const (
	defaultDebounce  = 250 * time.Millisecond
	defaultBlurGrace = 150 * time.Millisecond
)

// Roster is the part of the roster store the coordinator writes to
type Roster interface {
	SelectedEnemyID() string
	UpdateEnemy(id string, patch roster.EnemyPatch) bool
}

// Config holds the dependencies of a Coordinator
type Config struct {
	Catalog catalog.Client
	Roster  Roster
	Clock   clock.Clock

	// Debounce is the quiet period after the last keystroke before
	// suggestions are fetched (optional, defaults to 250ms)
	Debounce time.Duration
	// BlurGrace delays closing the list on blur so a click on a suggestion
	// can still land (optional, defaults to 150ms)
	BlurGrace time.Duration

	// OnChange is called after every state change, outside the lock
	OnChange func()
	Metrics  *observe.Metrics
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Roster == nil {
		vb.RequiredField("Roster")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Debounce < 0 {
		vb.Field("Debounce", "must not be negative")
	}
	if c.BlurGrace < 0 {
		vb.Field("BlurGrace", "must not be negative")
	}

	return vb.Build()
}

// State is a snapshot of the search field
type State struct {
	Query       string
	Focused     bool
	Suggestions []catalog.Suggestion
	Open        bool
	Searching   bool
	Status      string
	Error       string
}

// SearchOutput reports what an exact lookup did
type SearchOutput struct {
	EnemyID string
	Monster *catalog.Monster
	Applied bool
}

// Coordinator owns the search field state. Safe for concurrent use.
type Coordinator struct {
	catalog   catalog.Client
	roster    Roster
	clock     clock.Clock
	debounce  time.Duration
	blurGrace time.Duration
	onChange  func()
	metrics   *observe.Metrics

	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.Mutex
	state          State
	generation     uint64
	debounceTimer  clock.Timer
	graceTimer     clock.Timer
	cancelInflight context.CancelFunc
}

// NewCoordinator creates a coordinator with an empty, unfocused field
func NewCoordinator(cfg *Config) (*Coordinator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = defaultDebounce
	}
	grace := cfg.BlurGrace
	if grace == 0 {
		grace = defaultBlurGrace
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		catalog:   cfg.Catalog,
		roster:    cfg.Roster,
		clock:     cfg.Clock,
		debounce:  debounce,
		blurGrace: grace,
		onChange:  cfg.OnChange,
		metrics:   cfg.Metrics,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// State returns a snapshot of the field
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Suggestions = append([]catalog.Suggestion(nil), c.state.Suggestions...)
	return s
}

// SetQuery records a keystroke and schedules a suggestion fetch once typing
// pauses. Nothing is fetched for a blank query or an unfocused field.
func (c *Coordinator) SetQuery(query string) {
	c.mu.Lock()
	c.state.Query = query
	gen := c.supersedeLocked()

	trimmed := strings.TrimSpace(query)
	if trimmed == "" || !c.state.Focused {
		c.state.Suggestions = nil
		c.state.Open = false
		c.mu.Unlock()
		c.changed()
		return
	}

	c.debounceTimer = c.clock.AfterFunc(c.debounce, func() {
		c.fetchSuggestions(gen, trimmed)
	})
	c.mu.Unlock()
	c.changed()
}

// Focus marks the field focused, reopening any suggestions still held
func (c *Coordinator) Focus() {
	c.mu.Lock()
	c.state.Focused = true
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}
	if len(c.state.Suggestions) > 0 {
		c.state.Open = true
	}
	c.mu.Unlock()
	c.changed()
}

// Blur marks the field unfocused. Pending and in-flight fetches are
// canceled; the list closes after the grace delay unless the field is
// focused again first.
func (c *Coordinator) Blur() {
	c.mu.Lock()
	c.state.Focused = false
	c.supersedeLocked()

	if c.graceTimer != nil {
		c.graceTimer.Stop()
	}
	c.graceTimer = c.clock.AfterFunc(c.blurGrace, func() {
		c.mu.Lock()
		c.graceTimer = nil
		if c.state.Focused {
			c.mu.Unlock()
			return
		}
		c.state.Open = false
		c.mu.Unlock()
		c.changed()
	})
	c.mu.Unlock()
	c.changed()
}

// SelectSuggestion copies a suggestion into the query and closes the list.
// It does not fill the enemy row and does not trigger another fetch.
func (c *Coordinator) SelectSuggestion(name string) {
	c.mu.Lock()
	c.state.Query = name
	c.state.Open = false
	c.supersedeLocked()
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}
	c.mu.Unlock()
	c.changed()
}

// Search looks the trimmed query up and fills the enemy row that was
// selected when the search started
func (c *Coordinator) Search(ctx context.Context) (*SearchOutput, error) {
	c.mu.Lock()
	c.state.Error = ""
	c.state.Status = ""

	query := strings.TrimSpace(c.state.Query)
	if query == "" {
		c.state.Error = MsgEnterName
		c.mu.Unlock()
		c.changed()
		return nil, errors.InvalidArgument(MsgEnterName)
	}

	target := c.roster.SelectedEnemyID()
	if target == "" {
		c.state.Error = MsgSelectEnemy
		c.mu.Unlock()
		c.changed()
		return nil, errors.FailedPrecondition(MsgSelectEnemy)
	}

	c.state.Searching = true
	c.mu.Unlock()
	c.changed()

	monster, err := c.catalog.LookupMonster(ctx, query)
	if err != nil {
		slog.WarnContext(ctx, "Catalog lookup failed", "query", query, "error", err)
		c.finishSearch("", MsgCatalogUnreachable)
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, MsgCatalogUnreachable)
	}

	out := &SearchOutput{EnemyID: target, Monster: monster}

	if !monster.Found {
		msg := monster.Message
		if msg == "" {
			msg = MsgNotFound
		}
		c.finishSearch(msg, "")
		return out, nil
	}

	fullName := monster.Name
	if fullName == "" {
		fullName = query
	}
	hp, ac := statOrBlank(monster.HitPoints), statOrBlank(monster.ArmorClass)

	out.Applied = c.roster.UpdateEnemy(target, roster.EnemyPatch{
		Name:     &query,
		FullName: &fullName,
		HP:       &hp,
		AC:       &ac,
	})
	if !out.Applied {
		c.finishSearch("", MsgRowRemoved)
		return out, errors.NotFound(MsgRowRemoved).WithMeta("enemy_id", target)
	}

	slog.InfoContext(ctx, "Monster loaded", "enemy_id", target, "name", fullName, "hp", hp, "ac", ac)
	c.finishSearch("Loaded: "+fullName, "")
	return out, nil
}

// Reset clears the field and drops any pending work
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.supersedeLocked()
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}
	c.state = State{}
	c.mu.Unlock()
	c.changed()
}

// Close cancels in-flight requests and stops all timers
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.supersedeLocked()
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}
	c.mu.Unlock()
	c.cancel()
}

func (c *Coordinator) fetchSuggestions(gen uint64, query string) {
	c.mu.Lock()
	if gen != c.generation || !c.state.Focused {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelInflight = cancel
	c.mu.Unlock()

	results, err := c.catalog.SuggestMonsters(ctx, query)
	cancel()

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.metrics.RecordDiscardedSuggestion(ctx)
		slog.Debug("Discarded stale suggestions", "query", query)
		return
	}
	c.cancelInflight = nil

	if err != nil {
		slog.Debug("Suggestion fetch failed", "query", query, "error", err)
		results = []catalog.Suggestion{}
	}
	c.state.Suggestions = results
	c.state.Open = c.state.Focused && len(results) > 0
	c.mu.Unlock()
	c.changed()
}

// supersedeLocked invalidates the pending debounce and any request in
// flight, returning the new generation
func (c *Coordinator) supersedeLocked() uint64 {
	c.generation++
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
		c.debounceTimer = nil
	}
	if c.cancelInflight != nil {
		c.cancelInflight()
		c.cancelInflight = nil
	}
	return c.generation
}

func (c *Coordinator) finishSearch(status, errMsg string) {
	c.mu.Lock()
	c.state.Searching = false
	c.state.Status = status
	c.state.Error = errMsg
	c.mu.Unlock()
	c.changed()
}

func (c *Coordinator) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func statOrBlank(v *float64) entities.RawStat {
	if v == nil {
		return ""
	}
	return entities.StatOf(*v)
}
