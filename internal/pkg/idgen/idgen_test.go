package idgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/battlebrain/internal/pkg/idgen"
)

func TestUUIDGenerator(t *testing.T) {
	gen := idgen.NewUUID("enemy")

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.Generate()
		assert.True(t, strings.HasPrefix(id, "enemy_"))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	assert.Len(t, idgen.NewUUID("").Generate(), 36)
}

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("pm")
	assert.Equal(t, "pm_1", gen.Generate())
	assert.Equal(t, "pm_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}
