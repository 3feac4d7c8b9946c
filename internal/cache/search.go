package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
)

const defaultSearchLimit = 50

// Search scans all live records and returns those matching every supplied
// criterion, up to the limit. It works directly on the record keyspace and
// ignores the query fingerprints that stored the records; scan order is
// store-defined, so which records fill a truncated result is unspecified.
func (c *Cache) Search(ctx context.Context, crit domain.SearchCriteria) ([]domain.JobRecord, error) {
	limit := crit.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	keys, err := c.store.ScanKeys(ctx, RecordKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("cache search: %w", err)
	}

	matches := make([]domain.JobRecord, 0)

	for _, key := range keys {
		if len(matches) >= limit {
			break
		}

		fields, err := c.store.GetMap(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("cache search: %w", err)
		}

		if len(fields) == 0 {
			continue
		}

		if !matchesCriteria(fields, crit) {
			continue
		}

		matches = append(matches, DecodeRecord(fields))
	}

	return matches, nil
}

func matchesCriteria(fields map[string]string, crit domain.SearchCriteria) bool {
	if !containsFold(fields[fieldTitle], crit.TitleContains) {
		return false
	}

	if !containsFold(fields[fieldCompany], crit.CompanyContains) {
		return false
	}

	if !containsFold(fields[fieldLocation], crit.LocationContains) {
		return false
	}

	if crit.RemoteOnly {
		remote := fields[fieldRemote]
		if remote == "" || remote == domain.RemoteNo {
			return false
		}
	}

	if crit.TrustedOnly && !decodeBool(fields[fieldTrusted]) {
		return false
	}

	return true
}

// containsFold reports whether s contains substr case-insensitively. An
// empty substr matches everything (the criterion was not supplied).
func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}

	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
