package helpers

import (
	"sort"
	"strings"

	"github.com/doeshing/pyfuturist/internal/domain"
)

// SourceStatistic represents how often a snippet was dispatched
type SourceStatistic struct {
	Source string
	Count  int
}

// HistoryStatistics summarizes the surviving history log
type HistoryStatistics struct {
	Total      int
	ByAction   map[domain.Action]int
	TopSources []SourceStatistic
}

// AnalyzeHistory counts entries per action and ranks snippets by their first line
func AnalyzeHistory(entries []domain.HistoryEntry, limit int) HistoryStatistics {
	stats := HistoryStatistics{
		Total:    len(entries),
		ByAction: make(map[domain.Action]int),
	}
	frequency := make(map[string]int)
	for _, entry := range entries {
		stats.ByAction[entry.Action]++
		frequency[FirstLine(entry.Code)]++
	}
	stats.TopSources = CalculateTopSources(frequency, limit)
	return stats
}

// CalculateTopSources returns the top N most frequently dispatched snippets
// If limit is 0 or negative, returns all snippets
func CalculateTopSources(frequency map[string]int, limit int) []SourceStatistic {
	stats := make([]SourceStatistic, 0, len(frequency))
	for source, count := range frequency {
		stats = append(stats, SourceStatistic{Source: source, Count: count})
	}
	sortStatisticsByFrequency(stats)

	if shouldLimitResults(limit, len(stats)) {
		return stats[:limit]
	}
	return stats
}

// FirstLine returns the first non-blank line of code, trimmed
func FirstLine(code string) string {
	for _, line := range strings.Split(code, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// sortStatisticsByFrequency sorts statistics by count (descending) then by source (ascending)
func sortStatisticsByFrequency(stats []SourceStatistic) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Source < stats[j].Source
		}
		return stats[i].Count > stats[j].Count
	})
}

// shouldLimitResults checks if we should limit the results based on the limit and actual length
func shouldLimitResults(limit int, actualLength int) bool {
	return limit > 0 && actualLength > limit
}
