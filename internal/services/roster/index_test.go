package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/battlebrain/internal/entities"
	"github.com/KirkDiggler/battlebrain/internal/errors"
	"github.com/KirkDiggler/battlebrain/internal/pkg/idgen"
)

func TestIndexOf(t *testing.T) {
	party := []entities.PartyMember{entities.NewPartyMember("pm_1"), entities.NewPartyMember("pm_2")}
	enemies := []entities.Enemy{entities.NewEnemy("en_1")}

	assert.Equal(t, 1, indexOf(party, "pm_2"))
	assert.Equal(t, -1, indexOf(party, "en_1"))
	assert.Equal(t, 0, indexOf(enemies, "en_1"))
	assert.Equal(t, -1, indexOf[entities.Enemy](nil, "en_1"))
}

func TestCheckInvariantsNamesMissingSelection(t *testing.T) {
	store, err := NewStore(&Config{
		PartyIDs: idgen.NewSequential("pm"),
		EnemyIDs: idgen.NewSequential("en"),
	})
	require.NoError(t, err)

	store.selected = "en_9"

	err = store.CheckInvariants()
	require.Error(t, err)
	assert.True(t, errors.IsFailedPrecondition(err))
	assert.Contains(t, err.Error(), `selected enemy "en_9" is not in the roster`)
}
