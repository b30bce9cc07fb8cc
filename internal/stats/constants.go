package stats

// DefaultPageSize is the number of ranked entries shown per page
const DefaultPageSize = 15

// Substring rules for multi-word classes: an input containing both words resolves to the class
const (
	wordNight  = "night"
	wordRanger = "ranger"
	wordDivine = "divine"
	wordCaster = "caster"
)
