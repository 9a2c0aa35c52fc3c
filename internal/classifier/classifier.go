
package classifier

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"portfolio-terminal/internal/models"
	"portfolio-terminal/internal/textutil"
)

// Content type labels produced by Insights.
const (
	TypeAPIData   = "API/JSON Data"
	TypeBusiness  = "Business/Company"
	TypeCommerce  = "E-commerce/Product"
	TypeBlog      = "Blog/Article"
	TypeGeneral   = "General Content"
	maxKeywords   = 10
	maxSummaryLen = 300
)

type Classifier struct{}

func New() *Classifier { return &Classifier{} }

var stopwords = wordSet("the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by")

var (
	nonWordRe     = regexp.MustCompile(`[^A-Za-z0-9_]`)
	sentenceSepRe = regexp.MustCompile(`[.!?]+`)
)

// Insights scores de-tagged page text. It is deterministic for a given
// content/url pair.
func (c *Classifier) Insights(content, url string) models.ContentInsights {
	words := splitWhitespace(strings.ToLower(content))
	wordCount := len(words)

	keywords := c.TopTopics(words, stopwords, maxKeywords)

	sentences := splitSentences(content, 30)
	summary := strings.Join(sentences[:min(2, len(sentences))], ". ") + "."

	relevance := jsRound(float64(wordCount)/100 + float64(len(keywords))*2 + float64(len(sentences))*0.5)

	return models.ContentInsights{
		Summary:          textutil.Cut(summary, maxSummaryLen),
		Keywords:         keywords,
		RelevanceScore:   min(relevance, 100),
		ContentType:      c.ContentType(content, url),
		WordCount:        wordCount,
		ReadabilityScore: min(jsRound(float64(len(sentences))/float64(wordCount)*1000), 100),
	}
}

// ContentType classifies page text; the first matching rule wins.
func (c *Classifier) ContentType(content, url string) string {
	switch {
	case strings.Contains(url, "api") || strings.HasPrefix(content, `{"`):
		return TypeAPIData
	case strings.Contains(content, "company") || strings.Contains(content, "startup"):
		return TypeBusiness
	case strings.Contains(content, "product") || strings.Contains(content, "buy"):
		return TypeCommerce
	case strings.Contains(content, "blog") || strings.Contains(content, "article"):
		return TypeBlog
	}
	return TypeGeneral
}

// TopTopics returns up to n keywords by descending frequency. Tokens are
// stripped to [A-Za-z0-9_], must be longer than two characters and must not
// be stop words. Ties keep first-seen order. n < 0 returns every keyword.
func (c *Classifier) TopTopics(words []string, stop map[string]struct{}, n int) []string {
	freq := map[string]int{}
	var order []string
	for _, w := range words {
		clean := strings.ToLower(nonWordRe.ReplaceAllString(w, ""))
		if len(clean) <= 2 {
			continue
		}
		if _, skip := stop[clean]; skip {
			continue
		}
		if freq[clean] == 0 {
			order = append(order, clean)
		}
		freq[clean]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	if n >= 0 && n < len(order) {
		order = order[:n]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// splitWhitespace splits on whitespace runs and keeps the empty edge tokens
// a leading or trailing run produces, so "" yields one empty word.
func splitWhitespace(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return []string{""}
	}
	if first, _ := utf8.DecodeRuneInString(s); unicode.IsSpace(first) {
		fields = append([]string{""}, fields...)
	}
	if last, _ := utf8.DecodeLastRuneInString(s); unicode.IsSpace(last) {
		fields = append(fields, "")
	}
	return fields
}

// splitSentences splits on runs of . ! ? and keeps pieces whose trimmed
// length exceeds minLen. Pieces are returned untrimmed.
func splitSentences(content string, minLen int) []string {
	var out []string
	for _, s := range sentenceSepRe.Split(content, -1) {
		if textutil.Len(strings.TrimSpace(s)) > minLen {
			out = append(out, s)
		}
	}
	return out
}

// jsRound rounds half up, matching Math.round for non-negative input.
func jsRound(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Floor(f + 0.5))
}

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
