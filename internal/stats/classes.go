package stats

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/osse101/GuildStatsBot_Go/internal/domain"
)

// classLookup maps folded spellings to the canonical class: "night ranger",
// "nightranger" and "night-ranger" all point at Night Ranger.
var classLookup = buildClassLookup()

func buildClassLookup() map[string]domain.CharacterClass {
	fold := cases.Fold()
	lookup := make(map[string]domain.CharacterClass, len(domain.AvailableClasses)*3)
	for _, c := range domain.AvailableClasses {
		key := fold.String(string(c))
		lookup[key] = c
		lookup[strings.ReplaceAll(key, " ", "")] = c
		lookup[strings.ReplaceAll(key, " ", "-")] = c
	}
	return lookup
}

// NormalizeClassName resolves free-form user input to a canonical class.
// Matching ignores case, surrounding whitespace, and inner spaces or hyphens.
// Inputs mentioning both words of Night Ranger or Divine Caster resolve to those
// classes regardless of order or extra characters.
func NormalizeClassName(input string) (domain.CharacterClass, bool) {
	folded := strings.TrimSpace(cases.Fold().String(input))
	if folded == "" {
		return "", false
	}

	if c, ok := classLookup[folded]; ok {
		return c, true
	}

	simple := strings.NewReplacer(" ", "", "-", "").Replace(folded)
	if c, ok := classLookup[simple]; ok {
		return c, true
	}

	if strings.Contains(folded, wordNight) && strings.Contains(folded, wordRanger) {
		return domain.ClassNightRanger, true
	}
	if strings.Contains(folded, wordDivine) && strings.Contains(folded, wordCaster) {
		return domain.ClassDivineCaster, true
	}

	return "", false
}

// ClassNames returns the display names of every class, in catalog order
func ClassNames() []string {
	names := make([]string, len(domain.AvailableClasses))
	for i, c := range domain.AvailableClasses {
		names[i] = string(c)
	}
	return names
}
