package engine

import (
	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/errors"
)

// Stat field names used as validation keys
const (
	FieldPartyHP = "partyHp"
	FieldPartyAC = "partyAc"
	FieldEnemyHP = "enemyHp"
	FieldEnemyAC = "enemyAc"
)

const (
	minHP = 1
	minAC = 1
)

// FieldErrors maps a stat field to its validation message
type FieldErrors map[string]string

// HasErrors reports whether any field failed
func (f FieldErrors) HasErrors() bool {
	return len(f) > 0
}

// Err converts the field errors to an InvalidArgument error, nil if empty
func (f FieldErrors) Err() error {
	vb := errors.NewValidationBuilder()
	for field, msg := range f {
		vb.Field(field, msg)
	}
	return vb.Build()
}

// ValidateStats checks the effective stats before a prediction request
func ValidateStats(stats entities.EffectiveStats) FieldErrors {
	fields := FieldErrors{}

	if stats.PartyHP < minHP {
		fields[FieldPartyHP] = "Party HP must be 1 or higher."
	}
	if stats.EnemyHP < minHP {
		fields[FieldEnemyHP] = "Enemy HP must be 1 or higher."
	}
	if stats.PartyAC < minAC {
		fields[FieldPartyAC] = "Party AC must be 1 or higher."
	}
	if stats.EnemyAC < minAC {
		fields[FieldEnemyAC] = "Enemy AC must be 1 or higher."
	}

	return fields
}
