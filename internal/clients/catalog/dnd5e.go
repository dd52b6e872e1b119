package catalog

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/antzucaro/matchr"
	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/observe"
)

// fuzzyThreshold is the Jaro-Winkler similarity a name needs to be offered
// without containing the query
const fuzzyThreshold = 0.85

// DND5eConfig configures the catalog served straight from the D&D 5e SRD API
type DND5eConfig struct {
	// BaseURL for the D&D 5e API (optional, defaults to https://www.dnd5eapi.co/api/2014/)
	BaseURL string
	// Timeout for API requests (optional, defaults to 30 seconds)
	Timeout time.Duration
	// CacheTTL for the cached client (optional, defaults to 24 hours)
	CacheTTL time.Duration
	Metrics  *observe.Metrics
}

// Validate validates the config and sets defaults if not provided
func (c *DND5eConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Timeout < 0 {
		vb.Field("Timeout", "must not be negative")
	}
	if c.CacheTTL < 0 {
		vb.Field("CacheTTL", "must not be negative")
	}

	if c.BaseURL == "" {
		c.BaseURL = "https://www.dnd5eapi.co/api/2014/"
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 24 * time.Hour
	}

	return vb.Build()
}

type dnd5eClient struct {
	api     dnd5e.Interface
	metrics *observe.Metrics
}

// NewDND5e creates a catalog client over the SRD API, wrapped in the
// library's response cache
func NewDND5e(cfg *DND5eConfig) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	base, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  &http.Client{Timeout: cfg.Timeout},
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create D&D 5e API client")
	}

	return newDND5eWithAPI(dnd5e.NewCachedClient(base, cfg.CacheTTL), cfg.Metrics), nil
}

func newDND5eWithAPI(api dnd5e.Interface, metrics *observe.Metrics) *dnd5eClient {
	return &dnd5eClient{api: api, metrics: metrics}
}

// LookupMonster picks the exact name match, else the first name starting
// with the query, else the first name containing it
func (c *dnd5eClient) LookupMonster(ctx context.Context, name string) (*Monster, error) {
	query := strings.ToLower(strings.TrimSpace(name))

	refs, err := c.api.ListMonsters()
	if err != nil {
		c.metrics.RecordCatalogRequest(ctx, requestKindLookup, "error")
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list monsters")
	}

	var exact, prefix, first *entities.ReferenceItem
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		n := strings.ToLower(ref.Name)
		switch {
		case n == query:
			exact = ref
		case strings.HasPrefix(n, query):
			if prefix == nil {
				prefix = ref
			}
		case strings.Contains(n, query):
			if first == nil {
				first = ref
			}
		}
		if exact != nil {
			break
		}
	}

	pick := exact
	if pick == nil {
		pick = prefix
	}
	if pick == nil {
		pick = first
	}
	if pick == nil {
		c.metrics.RecordCatalogRequest(ctx, requestKindLookup, "not_found")
		return &Monster{Found: false, Message: fmt.Sprintf("No monster found for '%s'", strings.TrimSpace(name))}, nil
	}

	monster, err := c.api.GetMonster(pick.Key)
	if err != nil {
		c.metrics.RecordCatalogRequest(ctx, requestKindLookup, "error")
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get monster").
			WithMeta("key", pick.Key)
	}

	c.metrics.RecordCatalogRequest(ctx, requestKindLookup, "found")

	hp := float64(monster.HitPoints)
	ac := float64(monster.ArmorClass)
	display := monster.Name
	if display == "" {
		display = pick.Name
	}
	return &Monster{
		Found:      true,
		Name:       display,
		Slug:       pick.Key,
		HitPoints:  &hp,
		ArmorClass: &ac,
	}, nil
}

// SuggestMonsters ranks names that contain the query ahead of fuzzy matches
func (c *dnd5eClient) SuggestMonsters(ctx context.Context, query string) ([]Suggestion, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Suggestion{}, nil
	}

	refs, err := c.api.ListMonsters()
	if err != nil {
		c.metrics.RecordCatalogRequest(ctx, requestKindSuggest, "error")
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list monsters")
	}

	candidates := make([]Suggestion, 0, len(refs))
	for _, ref := range refs {
		if ref == nil || ref.Name == "" {
			continue
		}
		n := strings.ToLower(ref.Name)
		if strings.Contains(n, q) || matchr.JaroWinkler(q, n, false) >= fuzzyThreshold {
			candidates = append(candidates, Suggestion{Name: ref.Name, Slug: ref.Key})
		}
	}

	c.metrics.RecordCatalogRequest(ctx, requestKindSuggest, "ok")
	return RankSuggestions(q, candidates), nil
}

// RankSuggestions dedupes by name and slug, orders the names containing the
// query before the rest, each group by score, and keeps the top ten
func RankSuggestions(query string, items []Suggestion) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))

	type scored struct {
		Suggestion
		contains bool
		score    float64
	}

	seen := make(map[string]struct{}, len(items))
	ranked := make([]scored, 0, len(items))
	for _, it := range items {
		if it.Name == "" {
			continue
		}
		key := strings.ToLower(it.Name) + "\x00" + it.Slug
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		ranked = append(ranked, scored{
			Suggestion: it,
			contains:   strings.Contains(strings.ToLower(it.Name), q),
			score:      suggestionScore(q, it.Name),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].contains != ranked[j].contains {
			return ranked[i].contains
		}
		return ranked[i].score < ranked[j].score
	})

	if len(ranked) > maxSuggestions {
		ranked = ranked[:maxSuggestions]
	}

	out := make([]Suggestion, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].Suggestion
	}
	return out
}

// suggestionScore is lower for better matches: exact 0, prefix 1, word
// prefix 2, contains 3, otherwise 10 minus the similarity
func suggestionScore(q, name string) float64 {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case n == "":
		return 999
	case n == q:
		return 0
	case strings.HasPrefix(n, q):
		return 1
	}

	for _, w := range strings.Fields(strings.ReplaceAll(n, "-", " ")) {
		if strings.HasPrefix(w, q) {
			return 2
		}
	}

	if strings.Contains(n, q) {
		return 3
	}
	return 10 - matchr.JaroWinkler(q, n, false)
}
