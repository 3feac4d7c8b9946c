package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
)

// BuildKey computes the deterministic cache fingerprint for a search query.
// String parameters are trimmed and lower-cased before hashing so that
// semantically identical queries collide onto the same key. The digest is
// MD5: it only has to be collision-resistant enough for cache correctness.
func BuildKey(q domain.SearchQuery) string {
	params := fmt.Sprintf("%s_%s_%d_%s_%s_%t",
		normalize(q.Keywords),
		normalize(q.Location),
		q.MaxJobs,
		normalize(q.JobTypeFilter),
		normalize(q.CategoryFilter),
		q.TrustedOnly,
	)

	sum := md5.Sum([]byte(params))

	return hex.EncodeToString(sum[:])
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
