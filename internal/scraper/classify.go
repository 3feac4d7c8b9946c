package scraper

import (
	"sort"
	"strings"
)

// jobCategories maps each category to the keywords that indicate it. Title
// matches weigh three times as much as description matches.
var jobCategories = map[string][]string{
	"Software Engineering": {
		"software engineer", "software developer", "full stack developer",
		"frontend developer", "backend developer", "web developer",
		"mobile developer", "ios developer", "android developer",
		"python developer", "java developer", "javascript developer",
		"react developer", "node.js developer", ".net developer",
	},
	"Data Science & Analytics": {
		"data scientist", "data analyst", "data engineer", "ml engineer",
		"machine learning engineer", "ai engineer", "research scientist",
		"business analyst", "business intelligence", "data visualization",
		"statistician", "quantitative analyst", "analytics engineer",
	},
	"DevOps & Infrastructure": {
		"devops engineer", "cloud engineer", "infrastructure engineer",
		"site reliability engineer", "platform engineer", "systems engineer",
		"network engineer", "aws engineer", "kubernetes engineer",
		"docker", "terraform",
	},
	"Product & Design": {
		"product manager", "product owner", "ux designer", "ui designer",
		"product designer", "user experience", "user interface",
		"design lead", "creative director", "graphic designer",
	},
	"Cybersecurity": {
		"security engineer", "cybersecurity analyst", "security architect",
		"penetration tester", "security consultant", "incident response",
		"vulnerability assessment", "compliance analyst",
	},
	"Project Management": {
		"project manager", "program manager", "scrum master", "agile coach",
		"delivery manager", "technical program manager", "project coordinator",
	},
	"Sales & Marketing": {
		"sales representative", "account manager", "business development",
		"marketing manager", "digital marketing", "growth marketing",
		"content marketing", "social media manager", "seo specialist",
	},
	"Finance & Accounting": {
		"financial analyst", "accountant", "controller", "investment analyst",
		"risk analyst", "auditor", "financial planner", "treasury analyst",
	},
	"Human Resources": {
		"hr manager", "recruiter", "talent acquisition", "hr business partner",
		"compensation analyst", "learning and development", "hr generalist",
	},
	"Operations": {
		"operations manager", "supply chain", "logistics coordinator",
		"business operations", "process improvement", "quality assurance",
	},
}

// Categories returns "All" plus every known category, sorted.
func Categories() []string {
	names := make([]string, 0, len(jobCategories)+1)
	names = append(names, "All")

	for name := range jobCategories {
		names = append(names, name)
	}

	// Keep "All" first, sort the rest.
	sort.Strings(names[1:])

	return names
}

// Categorize picks the best-scoring category for a posting, or "Other" when
// nothing matches.
func Categorize(title, description string) string {
	titleLower := strings.ToLower(title)
	descLower := strings.ToLower(description)

	best := "Other"
	bestScore := 0

	for category, keywords := range jobCategories {
		score := 0

		for _, keyword := range keywords {
			switch {
			case strings.Contains(titleLower, keyword):
				score += 3
			case strings.Contains(descLower, keyword):
				score++
			}
		}

		if score > bestScore || (score == bestScore && score > 0 && category < best) {
			best = category
			bestScore = score
		}
	}

	return best
}

// ExtractJobType finds an employment type mention in free text, defaulting
// to "Full-time".
func ExtractJobType(text string) string {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "intern"):
		return "Internship"
	case strings.Contains(lower, "part-time"), strings.Contains(lower, "part time"):
		return "Part-time"
	case strings.Contains(lower, "contract"), strings.Contains(lower, "contractor"):
		return "Contract"
	default:
		return "Full-time"
	}
}

// ExtractExperienceLevel guesses a seniority level from the title.
func ExtractExperienceLevel(title string) string {
	lower := strings.ToLower(title)

	switch {
	case strings.Contains(lower, "intern"):
		return "Internship"
	case strings.Contains(lower, "junior"), strings.Contains(lower, "entry"):
		return "Entry level"
	case strings.Contains(lower, "principal"), strings.Contains(lower, "staff"),
		strings.Contains(lower, "lead"), strings.Contains(lower, "architect"):
		return "Lead"
	case strings.Contains(lower, "senior"), strings.Contains(lower, "sr."):
		return "Senior"
	case strings.Contains(lower, "director"), strings.Contains(lower, "vp"),
		strings.Contains(lower, "head of"):
		return "Executive"
	default:
		return "Mid-Senior level"
	}
}

var knownSkills = []string{
	"python", "java", "javascript", "typescript", "go", "rust", "c++", "c#",
	"ruby", "php", "swift", "kotlin", "scala", "sql", "react", "angular",
	"vue", "node.js", "django", "flask", "spring", "kubernetes", "docker",
	"terraform", "aws", "gcp", "azure", "postgresql", "mysql", "mongodb",
	"redis", "kafka", "spark", "hadoop", "tensorflow", "pytorch",
	"machine learning", "ci/cd", "git", "linux", "rest", "graphql", "grpc",
}

// ExtractSkills returns the known skills mentioned in the text, in registry
// order.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)

	skills := make([]string, 0, 8)

	for _, skill := range knownSkills {
		if strings.Contains(lower, skill) {
			skills = append(skills, skill)
		}
	}

	return skills
}
