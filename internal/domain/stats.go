package domain

// GroupCount is one bucket of a grouped count. Groupings are returned as
// slices sorted by descending count because map iteration order would lose
// the ordering.
type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RemoteStats is the three-way remote-status tally.
type RemoteStats struct {
	Yes    int `json:"Yes"`
	No     int `json:"No"`
	Hybrid int `json:"Hybrid"`
}

// JobStatistics are grouped counts over all live cached records.
type JobStatistics struct {
	TotalJobs         int          `json:"total_jobs"`
	ByCompany         []GroupCount `json:"by_company"`
	ByLocation        []GroupCount `json:"by_location"`
	ByJobType         []GroupCount `json:"by_job_type"`
	ByCategory        []GroupCount `json:"by_category"`
	ByExperienceLevel []GroupCount `json:"by_experience_level"`
	RemoteStats       RemoteStats  `json:"remote_stats"`
	TrustedCompanies  int          `json:"trusted_companies"`
}

// SearchDetail is the per-query metadata sample exposed by the cache status
// read model.
type SearchDetail struct {
	CacheKey  string            `json:"cache_key"`
	JobCount  int               `json:"job_count"`
	CreatedAt string            `json:"created_at"`
	ExpiresAt string            `json:"expires_at"`
	Metadata  map[string]string `json:"metadata"`
}

// CacheStatus is an operational snapshot of the cache. It is used for
// visibility, not correctness.
type CacheStatus struct {
	TotalSearches  int            `json:"total_searches"`
	TotalJobHashes int            `json:"total_job_hashes"`
	TotalJobs      int            `json:"total_jobs_cached"`
	StorageBytes   int64          `json:"storage_bytes"`
	CacheDuration  string         `json:"cache_duration"`
	Searches       []SearchDetail `json:"searches"`
}
