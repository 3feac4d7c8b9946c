package cache

import (
	"encoding/json"
	"time"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
)

// Field names of a stored job record hash. The description is stored under
// "responsibilities" and the URL under "url" for compatibility with the
// existing keyspace.
const (
	fieldTitle            = "title"
	fieldCompany          = "company"
	fieldSkills           = "skills"
	fieldSalary           = "salary"
	fieldLocation         = "location"
	fieldJobType          = "job_type"
	fieldExperienceLevel  = "experience_level"
	fieldCategory         = "category"
	fieldPostedDate       = "posted_date"
	fieldURL              = "url"
	fieldJobID            = "job_id"
	fieldRequirements     = "requirements"
	fieldResponsibilities = "responsibilities"
	fieldEmploymentType   = "employment_type"
	fieldRemote           = "remote"
	fieldTrusted          = "is_trusted_company"
	fieldCreatedAt        = "created_at"
	fieldExpiresAt        = "expires_at"

	// fieldStatus is written by UpdateStatus only; EncodeRecord never sets it
	// and DecodeRecord ignores it, so a status survives until the record
	// itself expires.
	fieldStatus = "status"
)

// Field names of a query index entry hash.
const (
	fieldCacheKey = "cache_key"
	fieldJobIDs   = "job_ids"
	fieldJobCount = "job_count"
	fieldMetadata = "metadata"
)

// Booleans are stored as literal "True"/"False" and decoded by exact match
// against "True", preserving the on-the-wire format of the existing data.
func encodeBool(b bool) string {
	if b {
		return "True"
	}

	return "False"
}

func decodeBool(s string) bool {
	return s == "True"
}

func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}

	return string(data)
}

func decodeList(s string) []string {
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil || items == nil {
		return []string{}
	}

	return items
}

// EncodeRecord flattens a job record into the field map stored in the
// key-value store. Nested lists are JSON-encoded strings.
func EncodeRecord(r domain.JobRecord, createdAt, expiresAt time.Time) map[string]string {
	return map[string]string{
		fieldTitle:            r.Title,
		fieldCompany:          r.Company,
		fieldSkills:           encodeList(r.Skills),
		fieldSalary:           r.Salary,
		fieldLocation:         r.Location,
		fieldJobType:          r.JobType,
		fieldExperienceLevel:  r.ExperienceLevel,
		fieldCategory:         r.Category,
		fieldPostedDate:       r.PostedDate,
		fieldURL:              r.JobURL,
		fieldJobID:            r.JobID,
		fieldRequirements:     encodeList(r.Requirements),
		fieldResponsibilities: r.Description,
		fieldEmploymentType:   r.EmploymentType,
		fieldRemote:           r.RemoteWork,
		fieldTrusted:          encodeBool(r.IsTrustedCompany),
		fieldCreatedAt:        createdAt.Format(time.RFC3339),
		fieldExpiresAt:        expiresAt.Format(time.RFC3339),
	}
}

// DecodeRecord rebuilds a job record from a stored field map. Missing or
// unparsable fields decode to zero values so a partially written or
// partially expired record still yields a best-effort record.
func DecodeRecord(fields map[string]string) domain.JobRecord {
	remote := fields[fieldRemote]
	if remote == "" {
		remote = domain.RemoteNo
	}

	return domain.JobRecord{
		JobID:            fields[fieldJobID],
		Title:            fields[fieldTitle],
		Company:          fields[fieldCompany],
		Location:         fields[fieldLocation],
		Description:      fields[fieldResponsibilities],
		JobType:          fields[fieldJobType],
		Skills:           decodeList(fields[fieldSkills]),
		Requirements:     decodeList(fields[fieldRequirements]),
		Salary:           fields[fieldSalary],
		Category:         fields[fieldCategory],
		PostedDate:       fields[fieldPostedDate],
		JobURL:           fields[fieldURL],
		ExperienceLevel:  fields[fieldExperienceLevel],
		EmploymentType:   fields[fieldEmploymentType],
		RemoteWork:       remote,
		IsTrustedCompany: decodeBool(fields[fieldTrusted]),
	}
}

func encodeMetadata(metadata map[string]string) string {
	if metadata == nil {
		metadata = map[string]string{}
	}

	data, err := json.Marshal(metadata)
	if err != nil {
		return "{}"
	}

	return string(data)
}

func decodeMetadata(s string) map[string]string {
	metadata := make(map[string]string)
	if err := json.Unmarshal([]byte(s), &metadata); err != nil {
		return map[string]string{}
	}

	return metadata
}
