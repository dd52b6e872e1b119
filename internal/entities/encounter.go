// Package entities provides the encounter data structures shared by the
// roster store, the orchestrators and the session storage.
package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// Entity types reported through core.Entity
const (
	EntityTypePartyMember = "party_member"
	EntityTypeEnemy       = "enemy"
)

// ClassName is the class tag of a party member
type ClassName string

// Party classes
const (
	ClassArtificer ClassName = "Artificer"
	ClassBarbarian ClassName = "Barbarian"
	ClassBard      ClassName = "Bard"
	ClassCleric    ClassName = "Cleric"
	ClassDruid     ClassName = "Druid"
	ClassFighter   ClassName = "Fighter"
	ClassMonk      ClassName = "Monk"
	ClassPaladin   ClassName = "Paladin"
	ClassRanger    ClassName = "Ranger"
	ClassRogue     ClassName = "Rogue"
	ClassSorcerer  ClassName = "Sorcerer"
	ClassWarlock   ClassName = "Warlock"
	ClassWizard    ClassName = "Wizard"

	DefaultClass = ClassFighter
)

// PartyClasses lists the selectable classes in display order
var PartyClasses = []ClassName{
	ClassArtificer, ClassBarbarian, ClassBard, ClassCleric, ClassDruid,
	ClassFighter, ClassMonk, ClassPaladin, ClassRanger, ClassRogue,
	ClassSorcerer, ClassWarlock, ClassWizard,
}

// IsValid reports whether c is one of PartyClasses
func (c ClassName) IsValid() bool {
	for _, known := range PartyClasses {
		if c == known {
			return true
		}
	}
	return false
}

// PartyMember is one row of the player party roster
type PartyMember struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ClassName ClassName `json:"className"`
	HP        RawStat   `json:"hp"`
	AC        RawStat   `json:"ac"`
}

// NewPartyMember returns a blank party member
func NewPartyMember(id string) PartyMember {
	return PartyMember{
		ID:        id,
		ClassName: DefaultClass,
		HP:        "0",
		AC:        "0",
	}
}

// GetID implements core.Entity
func (m *PartyMember) GetID() string {
	return m.ID
}

// GetType implements core.Entity
func (m *PartyMember) GetType() string {
	return EntityTypePartyMember
}

// Enemy is one row of the opposing roster. Label is the user's nickname;
// Name and FullName are filled by a catalog lookup.
type Enemy struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Name     string  `json:"name"`
	FullName string  `json:"fullName"`
	HP       RawStat `json:"hp"`
	AC       RawStat `json:"ac"`
	Qty      RawStat `json:"qty"`
}

// NewEnemy returns a blank enemy with a quantity of one
func NewEnemy(id string) Enemy {
	return Enemy{
		ID:  id,
		HP:  "0",
		AC:  "0",
		Qty: "1",
	}
}

// GetID implements core.Entity
func (e *Enemy) GetID() string {
	return e.ID
}

// GetType implements core.Entity
func (e *Enemy) GetType() string {
	return EntityTypeEnemy
}

// Quantity returns the enemy count used for aggregation: the integer part of
// Qty, never less than one.
func (e *Enemy) Quantity() int {
	q, ok := e.Qty.Value()
	if !ok || q < 1 {
		return 1
	}
	return int(q)
}

var (
	_ core.Entity = (*PartyMember)(nil)
	_ core.Entity = (*Enemy)(nil)
)
