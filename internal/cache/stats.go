package cache

import (
	"context"
	"fmt"
	"sort"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
)

// Statistics aggregates grouped counts over all live records: company,
// location, job type, category and experience level groupings (sorted by
// descending count), the three-way remote tally and the trusted-company
// count. Read-only, one full scan.
func (c *Cache) Statistics(ctx context.Context) (*domain.JobStatistics, error) {
	keys, err := c.store.ScanKeys(ctx, RecordKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("cache statistics: %w", err)
	}

	stats := &domain.JobStatistics{}

	byCompany := make(map[string]int)
	byLocation := make(map[string]int)
	byJobType := make(map[string]int)
	byCategory := make(map[string]int)
	byExperience := make(map[string]int)

	for _, key := range keys {
		fields, err := c.store.GetMap(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("cache statistics: %w", err)
		}

		if len(fields) == 0 {
			continue
		}

		stats.TotalJobs++

		byCompany[orUnknown(fields[fieldCompany])]++
		byLocation[orUnknown(fields[fieldLocation])]++
		byJobType[orUnknown(fields[fieldJobType])]++
		byCategory[orUnknown(fields[fieldCategory])]++
		byExperience[orUnknown(fields[fieldExperienceLevel])]++

		switch fields[fieldRemote] {
		case domain.RemoteYes:
			stats.RemoteStats.Yes++
		case domain.RemoteHybrid:
			stats.RemoteStats.Hybrid++
		default:
			stats.RemoteStats.No++
		}

		if decodeBool(fields[fieldTrusted]) {
			stats.TrustedCompanies++
		}
	}

	stats.ByCompany = sortedCounts(byCompany)
	stats.ByLocation = sortedCounts(byLocation)
	stats.ByJobType = sortedCounts(byJobType)
	stats.ByCategory = sortedCounts(byCategory)
	stats.ByExperienceLevel = sortedCounts(byExperience)

	return stats, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}

	return s
}

// sortedCounts converts a tally map into a slice sorted by descending count,
// name ascending on ties for deterministic output.
func sortedCounts(tally map[string]int) []domain.GroupCount {
	counts := make([]domain.GroupCount, 0, len(tally))
	for name, count := range tally {
		counts = append(counts, domain.GroupCount{Name: name, Count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}

		return counts[i].Name < counts[j].Name
	})

	return counts
}
