// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/battlebrain/internal/entities"
)

// PartyMemberBuilder provides a fluent interface for building test party members
type PartyMemberBuilder struct {
	member entities.PartyMember
}

// NewPartyMemberBuilder starts from a default member with id "pm-test-1"
func NewPartyMemberBuilder() *PartyMemberBuilder {
	return &PartyMemberBuilder{member: entities.NewPartyMember("pm-test-1")}
}

// WithID sets the member ID
func (b *PartyMemberBuilder) WithID(id string) *PartyMemberBuilder {
	b.member.ID = id
	return b
}

// WithName sets the display name
func (b *PartyMemberBuilder) WithName(name string) *PartyMemberBuilder {
	b.member.Name = name
	return b
}

// WithClass sets the class tag
func (b *PartyMemberBuilder) WithClass(class entities.ClassName) *PartyMemberBuilder {
	b.member.ClassName = class
	return b
}

// WithStats sets raw HP and AC
func (b *PartyMemberBuilder) WithStats(hp, ac entities.RawStat) *PartyMemberBuilder {
	b.member.HP = hp
	b.member.AC = ac
	return b
}

// Build returns the member
func (b *PartyMemberBuilder) Build() entities.PartyMember {
	return b.member
}

// EnemyBuilder provides a fluent interface for building test enemies
type EnemyBuilder struct {
	enemy entities.Enemy
}

// NewEnemyBuilder starts from a default enemy with id "en-test-1"
func NewEnemyBuilder() *EnemyBuilder {
	return &EnemyBuilder{enemy: entities.NewEnemy("en-test-1")}
}

// WithID sets the enemy ID
func (b *EnemyBuilder) WithID(id string) *EnemyBuilder {
	b.enemy.ID = id
	return b
}

// WithLabel sets the row label
func (b *EnemyBuilder) WithLabel(label string) *EnemyBuilder {
	b.enemy.Label = label
	return b
}

// WithMonster sets the searched name and the catalog name
func (b *EnemyBuilder) WithMonster(name, fullName string) *EnemyBuilder {
	b.enemy.Name = name
	b.enemy.FullName = fullName
	return b
}

// WithStats sets raw HP and AC
func (b *EnemyBuilder) WithStats(hp, ac entities.RawStat) *EnemyBuilder {
	b.enemy.HP = hp
	b.enemy.AC = ac
	return b
}

// WithQty sets the raw quantity
func (b *EnemyBuilder) WithQty(qty entities.RawStat) *EnemyBuilder {
	b.enemy.Qty = qty
	return b
}

// Build returns the enemy
func (b *EnemyBuilder) Build() entities.Enemy {
	return b.enemy
}
