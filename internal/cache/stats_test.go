package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
)

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	jobs := []domain.JobRecord{
		{
			Title:            "Backend Engineer",
			Company:          "Acme",
			Location:         "Berlin",
			JobType:          "Full-time",
			Category:         "Software Engineering",
			ExperienceLevel:  "Senior",
			RemoteWork:       domain.RemoteYes,
			IsTrustedCompany: true,
		},
		{
			Title:            "Frontend Engineer",
			Company:          "Acme",
			Location:         "Berlin",
			JobType:          "Full-time",
			Category:         "Software Engineering",
			ExperienceLevel:  "Mid-Senior level",
			RemoteWork:       domain.RemoteNo,
			IsTrustedCompany: true,
		},
		{
			Title:           "Data Engineer",
			Company:         "Beta Corp",
			Location:        "New York",
			JobType:         "Contract",
			Category:        "Data Science & Analytics",
			ExperienceLevel: "Senior",
			RemoteWork:      domain.RemoteHybrid,
		},
	}

	require.NoError(t, c.Put(ctx, "fp", jobs, nil))

	stats, err := c.Statistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalJobs)
	assert.Equal(t, 2, stats.TrustedCompanies)
	assert.Equal(t, 1, stats.RemoteStats.Yes)
	assert.Equal(t, 1, stats.RemoteStats.No)
	assert.Equal(t, 1, stats.RemoteStats.Hybrid)

	// Groupings sort by descending count, name on ties.
	require.Len(t, stats.ByCompany, 2)
	assert.Equal(t, domain.GroupCount{Name: "Acme", Count: 2}, stats.ByCompany[0])
	assert.Equal(t, domain.GroupCount{Name: "Beta Corp", Count: 1}, stats.ByCompany[1])

	require.Len(t, stats.ByJobType, 2)
	assert.Equal(t, domain.GroupCount{Name: "Full-time", Count: 2}, stats.ByJobType[0])
}

func TestStatisticsMissingFieldsCountAsUnknown(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	require.NoError(t, c.Put(ctx, "fp", []domain.JobRecord{
		{Title: "Mystery Role", Company: "Acme"},
	}, nil))

	stats, err := c.Statistics(ctx)
	require.NoError(t, err)

	require.Len(t, stats.ByJobType, 1)
	assert.Equal(t, "Unknown", stats.ByJobType[0].Name)
	require.Len(t, stats.ByCategory, 1)
	assert.Equal(t, "Unknown", stats.ByCategory[0].Name)
}

func TestStatisticsEmptyCache(t *testing.T) {
	c, _, _ := newTestCache(t)

	stats, err := c.Statistics(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalJobs)
	assert.Empty(t, stats.ByCompany)
}
