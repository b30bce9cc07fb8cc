package domain

import "time"

// CharacterClass is the canonical display name of a playable class
type CharacterClass string

// Playable classes
const (
	ClassVanguard     CharacterClass = "Vanguard"
	ClassBerserker    CharacterClass = "Berserker"
	ClassDestroyer    CharacterClass = "Destroyer"
	ClassNightRanger  CharacterClass = "Night Ranger"
	ClassElementalist CharacterClass = "Elementalist"
	ClassDivineCaster CharacterClass = "Divine Caster"
	ClassAssassin     CharacterClass = "Assassin"
	ClassDeathbringer CharacterClass = "Deathbringer"
	ClassGunslinger   CharacterClass = "Gunslinger"
	ClassWarlord      CharacterClass = "Warlord"
)

// AvailableClasses lists every class in display order
var AvailableClasses = []CharacterClass{
	ClassVanguard,
	ClassBerserker,
	ClassDestroyer,
	ClassNightRanger,
	ClassElementalist,
	ClassDivineCaster,
	ClassAssassin,
	ClassDeathbringer,
	ClassGunslinger,
	ClassWarlord,
}

// String returns the display name
func (c CharacterClass) String() string {
	return string(c)
}

// Flag identifies one of the cosmetic boolean flags on a record
type Flag string

// Cosmetic flags
const (
	FlagLegendarySkin     Flag = "legendary_skin"
	FlagLegendaryFamiliar Flag = "legendary_familiar"
)

// StatRecord holds one user's character statistics.
// The record does not carry its own key; it is stored under the user ID in a StatsDatabase.
type StatRecord struct {
	Attack            int             `json:"attack" yaml:"attack" validate:"gte=0"`
	Defense           int             `json:"defense" yaml:"defense" validate:"gte=0"`
	Accuracy          int             `json:"accuracy" yaml:"accuracy" validate:"gte=0"`
	CharacterClass    *CharacterClass `json:"characterClass" yaml:"characterClass"`
	LegendarySkin     bool            `json:"legendarySkin" yaml:"legendarySkin"`
	LegendaryFamiliar bool            `json:"legendaryFamiliar" yaml:"legendaryFamiliar"`
	TotalScore        int             `json:"totalScore" yaml:"totalScore"`
	UpdatedAt         time.Time       `json:"updatedAt" yaml:"updatedAt"`
	Username          string          `json:"username,omitempty" yaml:"username,omitempty"`
	DisplayName       string          `json:"displayName,omitempty" yaml:"displayName,omitempty"`
}

// Total returns attack + defense + accuracy
func (r StatRecord) Total() int {
	return r.Attack + r.Defense + r.Accuracy
}

// Recompute refreshes TotalScore from the individual stats
func (r *StatRecord) Recompute() {
	r.TotalScore = r.Total()
}

// ClassName returns the class display name or an empty string when unset
func (r StatRecord) ClassName() string {
	if r.CharacterClass == nil {
		return ""
	}
	return string(*r.CharacterClass)
}

// Flag returns the value of the given cosmetic flag
func (r StatRecord) Flag(f Flag) bool {
	switch f {
	case FlagLegendarySkin:
		return r.LegendarySkin
	case FlagLegendaryFamiliar:
		return r.LegendaryFamiliar
	}
	return false
}

// StatsDatabase maps a user identifier to that user's record
type StatsDatabase map[string]StatRecord

// Clone returns a shallow copy of the database; records are values so the copy is independent
func (db StatsDatabase) Clone() StatsDatabase {
	out := make(StatsDatabase, len(db))
	for id, rec := range db {
		if rec.CharacterClass != nil {
			c := *rec.CharacterClass
			rec.CharacterClass = &c
		}
		out[id] = rec
	}
	return out
}
