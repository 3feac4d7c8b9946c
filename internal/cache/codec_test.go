package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
)

func TestEncodeDecodeRecord(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	rec := domain.JobRecord{
		JobID:            "abc123def456",
		Title:            "Backend Engineer",
		Company:          "Acme",
		Location:         "Remote",
		Description:      "Build services",
		JobType:          "Full-time",
		Skills:           []string{"go", "redis"},
		Requirements:     []string{"3+ years"},
		Salary:           "$150k",
		Category:         "Software Engineering",
		PostedDate:       "2026-01-09",
		JobURL:           "https://example.com/jobs/1",
		ExperienceLevel:  "Senior",
		EmploymentType:   "Full-time",
		RemoteWork:       domain.RemoteYes,
		IsTrustedCompany: true,
	}

	fields := EncodeRecord(rec, now, now.Add(72*time.Hour))

	// Flattened format: lists as JSON strings, booleans as True/False, the
	// description under "responsibilities".
	assert.Equal(t, `["go","redis"]`, fields["skills"])
	assert.Equal(t, "True", fields["is_trusted_company"])
	assert.Equal(t, "Build services", fields["responsibilities"])
	assert.Equal(t, "2026-01-10T12:00:00Z", fields["created_at"])

	decoded := DecodeRecord(fields)
	assert.Equal(t, rec, decoded)
}

func TestDecodeRecordDefaults(t *testing.T) {
	decoded := DecodeRecord(map[string]string{
		"title":   "Engineer",
		"company": "Acme",
	})

	assert.Equal(t, domain.RemoteNo, decoded.RemoteWork)
	assert.False(t, decoded.IsTrustedCompany)
	require.NotNil(t, decoded.Skills)
	assert.Empty(t, decoded.Skills)
	require.NotNil(t, decoded.Requirements)
	assert.Empty(t, decoded.Requirements)
}

func TestDecodeBoolExactMatch(t *testing.T) {
	assert.True(t, decodeBool("True"))
	assert.False(t, decodeBool("true"))
	assert.False(t, decodeBool("TRUE"))
	assert.False(t, decodeBool(""))
}

func TestMetadataRoundTrip(t *testing.T) {
	meta := map[string]string{"keywords": "golang", "location": "Berlin"}

	assert.Equal(t, meta, decodeMetadata(encodeMetadata(meta)))
	assert.Empty(t, decodeMetadata("not json"))
	assert.Equal(t, "{}", encodeMetadata(nil))
}
