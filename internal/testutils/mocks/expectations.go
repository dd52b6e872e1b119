// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/battlebrain/internal/clients/catalog"
	catalogmock "github.com/KirkDiggler/battlebrain/internal/clients/catalog/mock"
	predictormock "github.com/KirkDiggler/battlebrain/internal/clients/predictor/mock"
	"github.com/KirkDiggler/battlebrain/internal/entities"
)

// ExpectMonsterLookup sets up a single successful lookup of query
func ExpectMonsterLookup(mockClient *catalogmock.MockClient, query string, monster *catalog.Monster) *gomock.Call {
	return mockClient.EXPECT().
		LookupMonster(gomock.Any(), query).
		Return(monster, nil)
}

// ExpectMonsterNotFound sets up a lookup of query that finds nothing
func ExpectMonsterNotFound(mockClient *catalogmock.MockClient, query, message string) *gomock.Call {
	return mockClient.EXPECT().
		LookupMonster(gomock.Any(), query).
		Return(&catalog.Monster{Found: false, Message: message}, nil)
}

// ExpectSuggestions sets up one suggestion fetch for query returning names
func ExpectSuggestions(mockClient *catalogmock.MockClient, query string, names ...string) *gomock.Call {
	results := make([]catalog.Suggestion, 0, len(names))
	for _, n := range names {
		results = append(results, catalog.Suggestion{Name: n})
	}
	return mockClient.EXPECT().
		SuggestMonsters(gomock.Any(), query).
		Return(results, nil)
}

// ExpectPrediction sets up one prediction for stats
func ExpectPrediction(
	mockClient *predictormock.MockClient,
	stats entities.EffectiveStats, result *entities.PredictionResult, err error,
) *gomock.Call {
	return mockClient.EXPECT().
		Predict(gomock.Any(), stats).
		Return(result, err)
}
