package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// RemoteWork values for a job posting
const (
	RemoteYes    = "Yes"
	RemoteNo     = "No"
	RemoteHybrid = "Hybrid"
)

// JobRecord is a single scraped job posting. It is the unit of cached data:
// records are stored individually in the key-value store and may be shared
// between search results that surfaced the same posting.
type JobRecord struct {
	JobID            string   `json:"job_id"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Description      string   `json:"description"`
	JobType          string   `json:"job_type"`
	Skills           []string `json:"skills"`
	Requirements     []string `json:"requirements"`
	Salary           string   `json:"salary"`
	Category         string   `json:"category"`
	PostedDate       string   `json:"posted_date"`
	JobURL           string   `json:"job_url"`
	ExperienceLevel  string   `json:"experience_level"`
	EmploymentType   string   `json:"employment_type"`
	RemoteWork       string   `json:"remote_work"`
	IsTrustedCompany bool     `json:"is_trusted_company"`
}

// RecordID derives the stable identifier for a posting from its title,
// company and location. Repeated scrapes of the same posting collide onto the
// same ID, so re-storing overwrites instead of duplicating.
func RecordID(title, company, location string) string {
	sum := md5.Sum([]byte(title + company + location))

	return hex.EncodeToString(sum[:])[:12]
}

// EnsureID assigns the derived record ID if none is set.
func (r *JobRecord) EnsureID() {
	if r.JobID == "" {
		r.JobID = RecordID(r.Title, r.Company, r.Location)
	}
}

// IsValid reports whether the record carries enough identity to be stored.
// Records missing both title and company are rejected at write time.
func (r *JobRecord) IsValid() bool {
	return strings.TrimSpace(r.Title) != "" || strings.TrimSpace(r.Company) != ""
}

var (
	remoteIndicators = []string{"remote", "work from home", "wfh", "telecommute"}
	hybridIndicators = []string{"hybrid", "flexible", "part remote"}
)

// DetectRemoteWork classifies a posting as Yes/No/Hybrid from its free text.
// Hybrid indicators win over plain remote indicators.
func DetectRemoteWork(title, location, description string) string {
	text := strings.ToLower(location + " " + description + " " + title)

	for _, indicator := range hybridIndicators {
		if strings.Contains(text, indicator) {
			return RemoteHybrid
		}
	}

	for _, indicator := range remoteIndicators {
		if strings.Contains(text, indicator) {
			return RemoteYes
		}
	}

	return RemoteNo
}
