package classifier

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"portfolio-terminal/internal/models"
	"portfolio-terminal/internal/textutil"
)

// Content type labels produced by Analyze.
const (
	AnalyzeAPI     = "API Response"
	AnalyzeCompany = "Company Directory"
	AnalyzeDocs    = "Documentation"
	AnalyzeArticle = "Article/Blog"
	AnalyzeProduct = "Product Page"
	AnalyzeGeneral = "General Web Content"
)

const (
	maxEntities        = 10
	maxInsights        = 5
	maxAnalyzeKeywords = 15
	maxSummarySents    = 3
)

var extendedStopwords = wordSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"is", "are", "was", "were", "be", "been", "have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "can", "this", "that", "these", "those",
)

// Applied in order: technologies, companies, locations.
var entityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(Python|JavaScript|React|Node\.js|MongoDB|SQL|PostgreSQL|MySQL|Docker|AWS|Azure|GCP|Kubernetes)\b`),
	regexp.MustCompile(`(?i)\b(AI|ML|Machine Learning|Data Science|Analytics|API|REST|GraphQL|JSON|XML)\b`),
	regexp.MustCompile(`(?i)\b(GitHub|GitLab|Slack|Teams|Zoom|Figma|VS Code|IntelliJ)\b`),
	regexp.MustCompile(`\b([A-Z][a-z]+ (?:Inc|LLC|Corp|Corporation|Ltd|Limited|Co|Company))\b`),
	regexp.MustCompile(`(?i)\b(Google|Apple|Microsoft|Amazon|Meta|Tesla|Netflix|Spotify|Uber|Airbnb)\b`),
	regexp.MustCompile(`(?i)\b(Y Combinator|YC|Techstars|500 Startups)\b`),
	regexp.MustCompile(`(?i)\b(San Francisco|New York|London|Tokyo|Berlin|Sydney|Toronto|Mumbai|Bangalore)\b`),
	regexp.MustCompile(`(?i)\b(Silicon Valley|Bay Area|NYC|LA|Seattle)\b`),
}

var (
	techEntityRe  = regexp.MustCompile(`(?i)\b(Python|JavaScript|React|AI|ML|API|Data|Analytics)\b`)
	businessRe    = regexp.MustCompile(`(?i)\b(startup|company|business|revenue|funding|growth|scale)\b`)
	educationalRe = regexp.MustCompile(`(?i)\b(learn|tutorial|guide|how to|example|documentation)\b`)

	informativeVerbs = []string{"provides", "offers", "specializes", "focuses", "develops", "creates", "builds"}
)

// Analyze runs the richer heuristics behind /api/ai-analyze. Every field is
// computed regardless of the requested analysis type.
func (c *Classifier) Analyze(content, rawURL string) models.Analysis {
	words := splitWhitespace(strings.ToLower(content))
	sentences := splitSentences(content, 10)

	entities := c.Entities(content)
	keywords := c.TopTopics(words, extendedStopwords, -1)

	return models.Analysis{
		Summary:        summarize(sentences, entities, rawURL),
		Entities:       head(entities, maxEntities),
		Insights:       head(analyzeInsights(content, rawURL, entities), maxInsights),
		Keywords:       head(keywords, maxAnalyzeKeywords),
		RelevanceScore: analyzeRelevance(content, entities, keywords),
		ContentType:    analyzeContentType(content, rawURL),
	}
}

// Entities returns technology, company and location mentions in pattern
// order, deduplicated case-insensitively with the first spelling kept.
func (c *Classifier) Entities(content string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, re := range entityPatterns {
		for _, m := range re.FindAllString(content, -1) {
			m = strings.TrimSpace(m)
			key := strings.ToLower(m)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

func analyzeInsights(content, rawURL string, entities []string) []string {
	var out []string
	switch n := textutil.Len(content); {
	case n > 5000:
		out = append(out, "Rich, comprehensive content with detailed information")
	case n > 1000:
		out = append(out, "Moderate content depth with good coverage")
	default:
		out = append(out, "Concise content, may need additional detail")
	}

	tech := 0
	for _, e := range entities {
		if techEntityRe.MatchString(e) {
			tech++
		}
	}
	if tech > 3 {
		out = append(out, "Strong technology focus with multiple tech stack mentions")
	}
	if len(businessRe.FindAllString(content, -1)) > 5 {
		out = append(out, "Business-oriented content with commercial focus")
	}
	if len(educationalRe.FindAllString(content, -1)) > 3 {
		out = append(out, "Educational or instructional content detected")
	}

	switch {
	case strings.Contains(rawURL, "github.com"):
		out = append(out, "Code repository or developer-focused content")
	case strings.Contains(rawURL, "linkedin.com"):
		out = append(out, "Professional networking or career-related content")
	case strings.Contains(rawURL, "ycombinator.com"):
		out = append(out, "Startup ecosystem and entrepreneurship content")
	}
	return out
}

func summarize(sentences, entities []string, rawURL string) string {
	type scored struct {
		text  string
		score int
	}
	list := make([]scored, 0, len(sentences))
	for _, s := range sentences {
		lower := strings.ToLower(s)
		score := 0
		for _, e := range entities {
			if strings.Contains(lower, strings.ToLower(e)) {
				score += 2
			}
		}
		if n := textutil.Len(s); n > 50 && n < 200 {
			score++
		}
		for _, w := range informativeVerbs {
			if strings.Contains(lower, w) {
				score++
			}
		}
		list = append(list, scored{text: strings.TrimSpace(s), score: score})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	var top []string
	for _, s := range list[:min(maxSummarySents, len(list))] {
		if s.text != "" {
			top = append(top, s.text)
		}
	}
	if len(top) == 0 {
		host := ""
		if u, err := url.Parse(rawURL); err == nil {
			host = u.Hostname()
		}
		return fmt.Sprintf("Content analysis from %s - processed and summarized.", host)
	}
	return strings.Join(top, " ")
}

func analyzeRelevance(content string, entities, keywords []string) int {
	score := math.Min(float64(textutil.Len(content))/1000, 10)
	score += float64(len(entities)) * 2
	score += math.Min(float64(len(keywords))/2, 15)
	if strings.Contains(content, "<") || strings.Contains(content, "{") {
		score += 5
	}
	return min(jsRound(score), 100)
}

func analyzeContentType(content, rawURL string) string {
	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(content, s) {
				return true
			}
		}
		return false
	}
	switch {
	case strings.Contains(rawURL, "/api/") || strings.HasPrefix(content, "{") || strings.HasPrefix(content, "["):
		return AnalyzeAPI
	case strings.Contains(rawURL, "ycombinator.com") || has("startup", "company"):
		return AnalyzeCompany
	case has("documentation", "docs") || strings.Contains(rawURL, "/docs/"):
		return AnalyzeDocs
	case has("published", "author") || strings.Contains(rawURL, "/blog/"):
		return AnalyzeArticle
	case has("product", "features", "pricing"):
		return AnalyzeProduct
	}
	return AnalyzeGeneral
}

func head(in []string, n int) []string {
	out := make([]string, min(n, len(in)))
	copy(out, in)
	return out
}
