package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
)

func seedSearchRecords(t *testing.T, c *Cache) {
	t.Helper()

	jobs := []domain.JobRecord{
		{
			Title:            "Backend Engineer",
			Company:          "Acme",
			Location:         "Remote",
			RemoteWork:       domain.RemoteYes,
			IsTrustedCompany: true,
		},
		{
			Title:      "Frontend Engineer",
			Company:    "Acme",
			Location:   "Berlin, Germany",
			RemoteWork: domain.RemoteNo,
		},
		{
			Title:      "Backend Engineer",
			Company:    "Beta Corp",
			Location:   "New York, NY (Hybrid)",
			RemoteWork: domain.RemoteHybrid,
		},
	}

	require.NoError(t, c.Put(context.Background(), "fp", jobs, nil))
}

func TestSearchByTitle(t *testing.T) {
	c, _, _ := newTestCache(t)
	seedSearchRecords(t, c)

	matches, err := c.Search(context.Background(), domain.SearchCriteria{TitleContains: "backend"})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	for _, m := range matches {
		assert.Equal(t, "Backend Engineer", m.Title)
	}
}

func TestSearchCombinedCriteria(t *testing.T) {
	c, _, _ := newTestCache(t)
	seedSearchRecords(t, c)

	matches, err := c.Search(context.Background(), domain.SearchCriteria{
		TitleContains:   "backend engineer",
		CompanyContains: "acme",
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Acme", matches[0].Company)
}

func TestSearchRemoteOnly(t *testing.T) {
	c, _, _ := newTestCache(t)
	seedSearchRecords(t, c)

	matches, err := c.Search(context.Background(), domain.SearchCriteria{RemoteOnly: true})
	require.NoError(t, err)

	// Hybrid counts as remote, plain "No" does not.
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.NotEqual(t, domain.RemoteNo, m.RemoteWork)
	}
}

func TestSearchTrustedOnly(t *testing.T) {
	c, _, _ := newTestCache(t)
	seedSearchRecords(t, c)

	matches, err := c.Search(context.Background(), domain.SearchCriteria{TrustedOnly: true})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Acme", matches[0].Company)
}

func TestSearchLimit(t *testing.T) {
	c, _, _ := newTestCache(t)
	seedSearchRecords(t, c)

	matches, err := c.Search(context.Background(), domain.SearchCriteria{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSearchNoCriteriaReturnsEverything(t *testing.T) {
	c, _, _ := newTestCache(t)
	seedSearchRecords(t, c)

	matches, err := c.Search(context.Background(), domain.SearchCriteria{})
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestSearchEmptyCache(t *testing.T) {
	c, _, _ := newTestCache(t)

	matches, err := c.Search(context.Background(), domain.SearchCriteria{TitleContains: "anything"})
	require.NoError(t, err)
	assert.Empty(t, matches)
}
