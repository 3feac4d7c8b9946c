package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
)

func TestRecordID(t *testing.T) {
	id := domain.RecordID("Backend Engineer", "Acme", "Remote")

	require.Len(t, id, 12)
	assert.Equal(t, id, domain.RecordID("Backend Engineer", "Acme", "Remote"))
	assert.NotEqual(t, id, domain.RecordID("Backend Engineer", "Acme", "Berlin"))
}

func TestEnsureID(t *testing.T) {
	rec := domain.JobRecord{Title: "Backend Engineer", Company: "Acme", Location: "Remote"}
	rec.EnsureID()

	assert.Equal(t, domain.RecordID("Backend Engineer", "Acme", "Remote"), rec.JobID)

	preset := domain.JobRecord{JobID: "custom-id", Title: "Backend Engineer"}
	preset.EnsureID()

	assert.Equal(t, "custom-id", preset.JobID)
}

func TestIsValid(t *testing.T) {
	assert.True(t, (&domain.JobRecord{Title: "Engineer"}).IsValid())
	assert.True(t, (&domain.JobRecord{Company: "Acme"}).IsValid())
	assert.False(t, (&domain.JobRecord{Title: "  ", Company: ""}).IsValid())
}

func TestDetectRemoteWork(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		location string
		desc     string
		want     string
	}{
		{
			name:     "remote in location",
			title:    "Backend Engineer",
			location: "Remote, United States",
			want:     domain.RemoteYes,
		},
		{
			name:  "wfh in description",
			title: "Backend Engineer",
			desc:  "WFH friendly team",
			want:  domain.RemoteYes,
		},
		{
			name:     "hybrid wins over remote",
			title:    "Backend Engineer",
			location: "Remote",
			desc:     "Hybrid schedule, 2 days in office",
			want:     domain.RemoteHybrid,
		},
		{
			name:     "onsite",
			title:    "Backend Engineer",
			location: "New York, NY",
			want:     domain.RemoteNo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.DetectRemoteWork(tt.title, tt.location, tt.desc)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchQueryWithDefaults(t *testing.T) {
	q := domain.SearchQuery{}.WithDefaults()

	assert.Equal(t, "software engineer", q.Keywords)
	assert.Equal(t, "United States", q.Location)
	assert.Equal(t, 50, q.MaxJobs)

	custom := domain.SearchQuery{Keywords: "data engineer", Location: "Berlin", MaxJobs: 10}.WithDefaults()

	assert.Equal(t, "data engineer", custom.Keywords)
	assert.Equal(t, "Berlin", custom.Location)
	assert.Equal(t, 10, custom.MaxJobs)
}
