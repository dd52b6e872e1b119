package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	bberrors "github.com/KirkDiggler/battlebrain/internal/errors"
)

// mockDND5eClient is a mock implementation of the dnd5e.Interface for testing
type mockDND5eClient struct {
	mock.Mock
}

func (m *mockDND5eClient) ListRaces() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetRace(key string) (*entities.Race, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Race), args.Error(1)
}

func (m *mockDND5eClient) ListEquipment() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetEquipment(key string) (dnd5e.EquipmentInterface, error) {
	args := m.Called(key)
	return args.Get(0).(dnd5e.EquipmentInterface), args.Error(1)
}

func (m *mockDND5eClient) GetEquipmentCategory(key string) (*entities.EquipmentCategory, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.EquipmentCategory), args.Error(1)
}

func (m *mockDND5eClient) ListClasses() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetClass(key string) (*entities.Class, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Class), args.Error(1)
}

func (m *mockDND5eClient) ListSpells(input *dnd5e.ListSpellsInput) ([]*entities.ReferenceItem, error) {
	args := m.Called(input)
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetSpell(key string) (*entities.Spell, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Spell), args.Error(1)
}

func (m *mockDND5eClient) ListFeatures() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetFeature(key string) (*entities.Feature, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Feature), args.Error(1)
}

func (m *mockDND5eClient) ListSkills() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetSkill(key string) (*entities.Skill, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Skill), args.Error(1)
}

func (m *mockDND5eClient) ListMonsters() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) ListMonstersWithFilter(input *dnd5e.ListMonstersInput) ([]*entities.ReferenceItem, error) {
	args := m.Called(input)
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetMonster(key string) (*entities.Monster, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Monster), args.Error(1)
}

func (m *mockDND5eClient) GetClassLevel(key string, level int) (*entities.Level, error) {
	args := m.Called(key, level)
	return args.Get(0).(*entities.Level), args.Error(1)
}

func (m *mockDND5eClient) GetProficiency(key string) (*entities.Proficiency, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Proficiency), args.Error(1)
}

func (m *mockDND5eClient) ListDamageTypes() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetDamageType(key string) (*entities.DamageType, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.DamageType), args.Error(1)
}

func (m *mockDND5eClient) ListBackgrounds() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetBackground(key string) (*entities.Background, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Background), args.Error(1)
}

var monsterRefs = []*entities.ReferenceItem{
	{Key: "bugbear", Name: "Bugbear"},
	{Key: "goblin-boss", Name: "Goblin Boss"},
	{Key: "goblin", Name: "Goblin"},
	{Key: "hobgoblin", Name: "Hobgoblin"},
	{Key: "orc", Name: "Orc"},
}

func TestDND5eLookupMonster(t *testing.T) {
	t.Run("exact match wins over earlier prefix match", func(t *testing.T) {
		api := new(mockDND5eClient)
		client := newDND5eWithAPI(api, nil)

		api.On("ListMonsters").Return(monsterRefs, nil)
		api.On("GetMonster", "goblin").Return(&entities.Monster{Name: "Goblin", HitPoints: 7, ArmorClass: 15}, nil)

		got, err := client.LookupMonster(context.Background(), " Goblin ")

		require.NoError(t, err)
		assert.True(t, got.Found)
		assert.Equal(t, "Goblin", got.Name)
		assert.Equal(t, "goblin", got.Slug)
		assert.Equal(t, 7.0, *got.HitPoints)
		assert.Equal(t, 15.0, *got.ArmorClass)
		api.AssertExpectations(t)
	})

	t.Run("prefix match before contains match", func(t *testing.T) {
		api := new(mockDND5eClient)
		client := newDND5eWithAPI(api, nil)

		api.On("ListMonsters").Return(monsterRefs, nil)
		api.On("GetMonster", "goblin-boss").Return(&entities.Monster{Name: "Goblin Boss", HitPoints: 21, ArmorClass: 17}, nil)

		got, err := client.LookupMonster(context.Background(), "gob")

		require.NoError(t, err)
		assert.Equal(t, "Goblin Boss", got.Name)
		api.AssertExpectations(t)
	})

	t.Run("contains match as last resort", func(t *testing.T) {
		api := new(mockDND5eClient)
		client := newDND5eWithAPI(api, nil)

		api.On("ListMonsters").Return(monsterRefs, nil)
		api.On("GetMonster", "bugbear").Return(&entities.Monster{Name: "Bugbear", HitPoints: 27, ArmorClass: 16}, nil)

		got, err := client.LookupMonster(context.Background(), "bear")

		require.NoError(t, err)
		assert.Equal(t, "bugbear", got.Slug)
	})

	t.Run("no match", func(t *testing.T) {
		api := new(mockDND5eClient)
		client := newDND5eWithAPI(api, nil)

		api.On("ListMonsters").Return(monsterRefs, nil)

		got, err := client.LookupMonster(context.Background(), "tarrasque")

		require.NoError(t, err)
		assert.False(t, got.Found)
		assert.Equal(t, "No monster found for 'tarrasque'", got.Message)
		api.AssertNotCalled(t, "GetMonster", mock.Anything)
	})

	t.Run("api failure is unavailable", func(t *testing.T) {
		api := new(mockDND5eClient)
		client := newDND5eWithAPI(api, nil)

		api.On("ListMonsters").Return(([]*entities.ReferenceItem)(nil), errors.New("API error"))

		_, err := client.LookupMonster(context.Background(), "goblin")

		assert.True(t, bberrors.IsUnavailable(err))
	})
}

func TestDND5eSuggestMonsters(t *testing.T) {
	api := new(mockDND5eClient)
	client := newDND5eWithAPI(api, nil)

	api.On("ListMonsters").Return(monsterRefs, nil)

	got, err := client.SuggestMonsters(context.Background(), "gob")

	require.NoError(t, err)
	assert.Equal(t, []Suggestion{
		{Name: "Goblin Boss", Slug: "goblin-boss"},
		{Name: "Goblin", Slug: "goblin"},
		{Name: "Hobgoblin", Slug: "hobgoblin"},
	}, got)

	empty, err := client.SuggestMonsters(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRankSuggestions(t *testing.T) {
	t.Run("scores exact, prefix, word prefix, contains", func(t *testing.T) {
		got := RankSuggestions("gob", []Suggestion{
			{Name: "Hobgoblin"},
			{Name: "Elder Goblin-King"},
			{Name: "Goblin Boss"},
			{Name: "gob"},
		})

		assert.Equal(t, []Suggestion{
			{Name: "gob"},
			{Name: "Goblin Boss"},
			{Name: "Elder Goblin-King"},
			{Name: "Hobgoblin"},
		}, got)
	})

	t.Run("contains matches come before fuzzy ones", func(t *testing.T) {
		got := RankSuggestions("orc", []Suggestion{
			{Name: "Orb"},
			{Name: "Half-Orc Warlord"},
		})

		assert.Equal(t, "Half-Orc Warlord", got[0].Name)
		assert.Equal(t, "Orb", got[1].Name)
	})

	t.Run("dedupes by name and slug", func(t *testing.T) {
		got := RankSuggestions("goblin", []Suggestion{
			{Name: "Goblin", Slug: "goblin"},
			{Name: "goblin", Slug: "goblin"},
			{Name: "Goblin", Slug: "goblin-tob"},
			{Name: ""},
		})

		assert.Len(t, got, 2)
	})

	t.Run("keeps ten", func(t *testing.T) {
		items := make([]Suggestion, 0, 15)
		for i := 0; i < 15; i++ {
			items = append(items, Suggestion{Name: "Goblin", Slug: string(rune('a' + i))})
		}
		assert.Len(t, RankSuggestions("goblin", items), 10)
	})
}

func TestDND5eConfigDefaults(t *testing.T) {
	cfg := &DND5eConfig{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://www.dnd5eapi.co/api/2014/", cfg.BaseURL)
	assert.NotZero(t, cfg.Timeout)
	assert.NotZero(t, cfg.CacheTTL)

	_, err := NewDND5e(nil)
	assert.Error(t, err)
}

var _ dnd5e.Interface = (*mockDND5eClient)(nil)
