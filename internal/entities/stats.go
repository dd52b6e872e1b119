package entities

// EffectiveStats are the aggregate party and enemy values derived from the
// rosters. They are the only input of a prediction.
type EffectiveStats struct {
	PartyHP float64 `json:"party_hp"`
	PartyAC float64 `json:"party_ac"`
	EnemyHP float64 `json:"enemy_hp"`
	EnemyAC float64 `json:"enemy_ac"`
}

// CanPredict reports whether every effective value is strictly positive
func (s EffectiveStats) CanPredict() bool {
	return s.PartyHP > 0 && s.PartyAC > 0 && s.EnemyHP > 0 && s.EnemyAC > 0
}

// PredictionResult is the prediction service's answer for one encounter
type PredictionResult struct {
	WinProbability      float64 `json:"win_probability"`
	ExpectedRounds      float64 `json:"expected_rounds"`
	ExpectedPartyHPLost float64 `json:"expected_party_hp_lost"`
}

// PersistedSession is the working set carried across a navigation boundary.
// A nil field means the slot was missing or unreadable. A stored empty list
// loads as a non-nil empty slice.
type PersistedSession struct {
	LastStats      *EffectiveStats
	LastPrediction *PredictionResult
	Party          []PartyMember
	Enemies        []Enemy
}
