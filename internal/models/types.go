
package models

// Scrape data types accepted by /api/scrape.
const (
	DataTypeHTML = "html"
	DataTypeAPI  = "api"
	DataTypeJSON = "json"
)

type ScrapeRequest struct {
	URL      string `json:"url"`
	DataType string `json:"dataType,omitempty"`
}

type ScrapeResponse struct {
	Success    bool      `json:"success"`
	Data       []*Record `json:"data,omitempty"`
	CSVContent string    `json:"csvContent,omitempty"`
	TotalItems int       `json:"totalItems,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// ContentInsights is the heuristic summary attached to every scraped HTML record.
type ContentInsights struct {
	Summary          string   `json:"summary"`
	Keywords         []string `json:"keywords"`
	RelevanceScore   int      `json:"relevanceScore"`
	ContentType      string   `json:"contentType"`
	WordCount        int      `json:"wordCount"`
	ReadabilityScore int      `json:"readabilityScore"`
}

// Record renders the insights in field order for embedding in a scraped record.
func (ci ContentInsights) Record() *Record {
	kw := make([]string, len(ci.Keywords))
	copy(kw, ci.Keywords)
	return NewRecord().
		Set("summary", ci.Summary).
		Set("keywords", kw).
		Set("relevanceScore", ci.RelevanceScore).
		Set("contentType", ci.ContentType).
		Set("wordCount", ci.WordCount).
		Set("readabilityScore", ci.ReadabilityScore)
}

// Analysis types accepted by /api/ai-analyze. The value is accepted but every
// analysis computes all fields.
const (
	AnalysisSummary  = "summary"
	AnalysisEntities = "entities"
	AnalysisInsights = "insights"
	AnalysisKeywords = "keywords"
)

type AnalyzeRequest struct {
	Content      string `json:"content"`
	URL          string `json:"url"`
	AnalysisType string `json:"analysisType,omitempty"`
}

type Analysis struct {
	Summary        string   `json:"summary"`
	Entities       []string `json:"entities"`
	Insights       []string `json:"insights"`
	Keywords       []string `json:"keywords"`
	RelevanceScore int      `json:"relevanceScore"`
	ContentType    string   `json:"contentType"`
}

type AnalyzeResponse struct {
	Success  bool      `json:"success"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type ChatRequest struct {
	Message string `json:"message"`
	// Context is accepted for compatibility and ignored.
	Context *string `json:"context,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}
