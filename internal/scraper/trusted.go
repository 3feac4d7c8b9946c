package scraper

import (
	"sort"
	"strings"
)

// trustedCompanies is the allow-list used to flag postings from established
// employers. Matching is case-insensitive with partial matches in both
// directions, so "Google LLC" and "google" both hit the "google" entry.
var trustedCompanies = map[string]struct{}{
	// Major tech
	"google": {}, "microsoft": {}, "amazon": {}, "apple": {}, "meta": {},
	"facebook": {}, "tesla": {}, "netflix": {}, "salesforce": {}, "oracle": {},
	"adobe": {}, "nvidia": {}, "intel": {}, "ibm": {}, "cisco": {}, "vmware": {},
	"spotify": {}, "uber": {}, "airbnb": {}, "twitter": {}, "linkedin": {},
	"dropbox": {}, "slack": {}, "zoom": {}, "shopify": {}, "square": {},
	"stripe": {}, "paypal": {}, "ebay": {}, "reddit": {}, "pinterest": {},
	"snap": {}, "twilio": {}, "okta": {}, "snowflake": {}, "databricks": {},
	"palantir": {}, "cloudflare": {}, "mongodb": {},

	// Financial services
	"jpmorgan": {}, "goldman sachs": {}, "morgan stanley": {},
	"bank of america": {}, "wells fargo": {}, "citigroup": {},
	"american express": {}, "visa": {}, "mastercard": {}, "blackrock": {},
	"fidelity": {}, "charles schwab": {}, "robinhood": {}, "coinbase": {},

	// Consulting
	"mckinsey": {}, "bain": {}, "bcg": {}, "deloitte": {}, "pwc": {},
	"kpmg": {}, "ey": {}, "accenture": {}, "tcs": {}, "infosys": {},
	"wipro": {}, "cognizant": {}, "capgemini": {},

	// Fortune 500
	"walmart": {}, "exxon mobil": {}, "berkshire hathaway": {},
	"unitedhealth": {}, "mckesson": {}, "cvs health": {}, "at&t": {},
	"general motors": {}, "ford": {}, "verizon": {}, "chevron": {},
	"kroger": {}, "general electric": {}, "walgreens": {}, "costco": {},
	"cardinal health": {},

	// Healthcare and pharma
	"johnson & johnson": {}, "pfizer": {}, "merck": {}, "abbott": {},
	"bristol myers squibb": {}, "eli lilly": {}, "gilead": {}, "amgen": {},
	"biogen": {}, "regeneron": {}, "moderna": {}, "kaiser permanente": {},
	"anthem": {}, "humana": {}, "centene": {},

	// Startups and unicorns
	"openai": {}, "anthropic": {}, "canva": {}, "figma": {}, "notion": {},
	"discord": {}, "github": {}, "gitlab": {}, "atlassian": {}, "asana": {},
	"monday.com": {}, "miro": {}, "airtable": {},
}

// IsTrustedCompany reports whether the company is on the allow-list.
func IsTrustedCompany(company string) bool {
	if company == "" {
		return false
	}

	name := strings.ToLower(strings.TrimSpace(company))

	if _, ok := trustedCompanies[name]; ok {
		return true
	}

	for trusted := range trustedCompanies {
		if strings.Contains(name, trusted) || strings.Contains(trusted, name) {
			return true
		}
	}

	return false
}

// TrustedCompanies returns the sorted allow-list.
func TrustedCompanies() []string {
	names := make([]string, 0, len(trustedCompanies))
	for name := range trustedCompanies {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
