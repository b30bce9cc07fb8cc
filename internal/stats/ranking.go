package stats

import (
	"sort"

	"github.com/osse101/GuildStatsBot_Go/internal/domain"
)

// RankedEntry is one row of a ranking
type RankedEntry struct {
	UserID     string
	TotalScore int
	Record     domain.StatRecord
}

// Page is one page of a ranking
type Page struct {
	Entries    []RankedEntry
	Number     int
	TotalPages int
	TotalCount int
	// Offset is the zero-based index of the first entry in the full ranking
	Offset int
}

// Aggregate summarizes a set of records
type Aggregate struct {
	Members    int
	TotalPower int
	Average    float64
	Skins      int
	Familiars  int
}

// ComputeTotal returns attack + defense + accuracy; unset fields count as zero
func ComputeTotal(record domain.StatRecord) int {
	return record.Attack + record.Defense + record.Accuracy
}

// Rank orders users by total score, highest first. Equal scores are ordered by user ID
// so the result does not depend on map iteration order.
func Rank(db domain.StatsDatabase) []RankedEntry {
	entries := make([]RankedEntry, 0, len(db))
	for id, rec := range db {
		entries = append(entries, RankedEntry{
			UserID:     id,
			TotalScore: ComputeTotal(rec),
			Record:     rec,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries
}

// RankOf returns the 1-based position of userID in a ranking
func RankOf(entries []RankedEntry, userID string) (int, bool) {
	for i, e := range entries {
		if e.UserID == userID {
			return i + 1, true
		}
	}
	return 0, false
}

// FilterActiveMembers keeps the users for which isMember reports true
func FilterActiveMembers(db domain.StatsDatabase, isMember func(userID string) bool) domain.StatsDatabase {
	out := make(domain.StatsDatabase, len(db))
	for id, rec := range db {
		if isMember(id) {
			out[id] = rec
		}
	}
	return out
}

// Paginate returns the requested page, clamping the page number into [1, TotalPages].
// An empty ranking still has one (empty) page.
func Paginate(entries []RankedEntry, pageSize, pageNumber int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := (len(entries) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > totalPages {
		pageNumber = totalPages
	}

	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}

	return Page{
		Entries:    entries[start:end],
		Number:     pageNumber,
		TotalPages: totalPages,
		TotalCount: len(entries),
		Offset:     start,
	}
}

// Summarize computes member count, total and average power and cosmetic counts
func Summarize(db domain.StatsDatabase) Aggregate {
	var agg Aggregate
	for _, rec := range db {
		agg.Members++
		agg.TotalPower += ComputeTotal(rec)
		if rec.LegendarySkin {
			agg.Skins++
		}
		if rec.LegendaryFamiliar {
			agg.Familiars++
		}
	}
	if agg.Members > 0 {
		agg.Average = float64(agg.TotalPower) / float64(agg.Members)
	}
	return agg
}
