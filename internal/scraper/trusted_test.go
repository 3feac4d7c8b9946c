package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTrustedCompany(t *testing.T) {
	tests := []struct {
		company string
		want    bool
	}{
		{"Google", true},
		{"  google  ", true},
		{"Google LLC", true},
		{"Goldman Sachs", true},
		{"Totally Unknown Startup GmbH", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTrustedCompany(tt.company))
		})
	}
}

func TestTrustedCompaniesSorted(t *testing.T) {
	companies := TrustedCompanies()

	require.NotEmpty(t, companies)
	assert.Contains(t, companies, "google")

	for i := 1; i < len(companies); i++ {
		assert.LessOrEqual(t, companies[i-1], companies[i])
	}
}
