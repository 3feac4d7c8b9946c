package domain

// SearchQuery holds the normalized parameters of one job search. Two
// semantically identical queries must produce the same cache fingerprint.
type SearchQuery struct {
	Keywords       string `json:"keywords"`
	Location       string `json:"location"`
	MaxJobs        int    `json:"max_jobs"`
	JobTypeFilter  string `json:"job_type_filter,omitempty"`
	CategoryFilter string `json:"category_filter,omitempty"`
	TrustedOnly    bool   `json:"trusted_only"`
}

// WithDefaults fills in the defaults used by the scraper for empty fields.
func (q SearchQuery) WithDefaults() SearchQuery {
	if q.Keywords == "" {
		q.Keywords = "software engineer"
	}

	if q.Location == "" {
		q.Location = "United States"
	}

	if q.MaxJobs <= 0 {
		q.MaxJobs = 50
	}

	return q
}

// SearchCriteria are the predicates for the secondary search over all cached
// records, independent of the query fingerprint that stored them. Substring
// predicates are case-insensitive; all supplied predicates are ANDed.
type SearchCriteria struct {
	TitleContains    string `json:"title_contains,omitempty"`
	CompanyContains  string `json:"company_contains,omitempty"`
	LocationContains string `json:"location_contains,omitempty"`
	RemoteOnly       bool   `json:"remote_only"`
	TrustedOnly      bool   `json:"trusted_only"`
	Limit            int    `json:"limit"`
}
