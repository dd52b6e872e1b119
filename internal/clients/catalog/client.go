// Package catalog looks monsters up by name so enemy rows can be filled in
// without typing HP and AC by hand.
package catalog

//go:generate mockgen -destination=mock/mock_client.go -package=catalogmock github.com/KirkDiggler/battlebrain/internal/clients/catalog Client

import (
	"context"
)

// Provider names accepted in configuration
const (
	ProviderBattleBrain = "battlebrain"
	ProviderDND5e       = "dnd5e"
)

const (
	requestKindLookup  = "lookup"
	requestKindSuggest = "suggest"

	defaultNotFoundMessage = "No monster found"
	maxSuggestions         = 10
)

// Monster is the outcome of an exact lookup. Found=false is a normal answer,
// not an error; Message then explains why.
type Monster struct {
	Found      bool
	Name       string
	Slug       string
	HitPoints  *float64
	ArmorClass *float64
	Message    string
}

// Suggestion is one entry of the live suggestion list
type Suggestion struct {
	Name string
	Slug string
}

// Client is the monster catalog
type Client interface {
	// LookupMonster resolves one monster by name. An error means the catalog
	// could not be reached; a miss is reported through Monster.Found.
	LookupMonster(ctx context.Context, name string) (*Monster, error)

	// SuggestMonsters returns up to ten ranked names for a partial query
	SuggestMonsters(ctx context.Context, query string) ([]Suggestion, error)
}
