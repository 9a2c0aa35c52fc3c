package parser

import (
	"strings"
	"time"

	"portfolio-terminal/internal/models"
)

const (
	TypeStructuredItem = "structured_item"
	TypeWebsiteSummary = "website_summary"

	exportHeadings   = 15
	exportParagraphs = 10
	exportListItems  = 15
)

// BuildRecords flattens a page into scrape rows: one per card when cards were
// found, otherwise a single website summary. Every row shares the page-level
// fields.
func BuildRecords(page *Page, pageURL string, insights models.ContentInsights, scrapedAt time.Time) []*models.Record {
	links := make([]*models.Record, 0, len(page.Links))
	for _, l := range page.Links {
		links = append(links, models.NewRecord().Set("url", l.URL).Set("text", l.Text))
	}
	images := make([]*models.Record, 0, len(page.Images))
	for _, img := range page.Images {
		images = append(images, models.NewRecord().Set("src", img.Src).Set("alt", img.Alt))
	}
	structured := page.StructuredData
	if structured == nil {
		structured = []*models.Record{}
	}

	quality := models.NewRecord().
		Set("hasStructuredData", len(page.Cards) > 0).
		Set("hasMainContent", len(page.MainContent) > 0).
		Set("hasArticles", len(page.Articles) > 0).
		Set("hasAIInsights", len(insights.Keywords) > 0).
		Set("contentRichness", len(page.Headings)+len(page.Paragraphs)+len(page.Articles)+len(page.ListItems)+len(page.Cards)).
		Set("relevanceScore", insights.RelevanceScore).
		Set("contentType", insights.ContentType)

	base := models.NewRecord().
		Set("url", pageURL).
		Set("title", page.Title).
		Set("description", page.Description).
		Set("headings", head(page.Headings, exportHeadings)).
		Set("paragraphs", head(page.Paragraphs, exportParagraphs)).
		Set("articles", head(page.Articles, len(page.Articles))).
		Set("listItems", head(page.ListItems, exportListItems)).
		Set("contentDivs", head(page.ContentDivs, len(page.ContentDivs))).
		Set("mainContent", head(page.MainContent, len(page.MainContent))).
		Set("links", links).
		Set("images", images).
		Set("structuredData", structured).
		Set("articleTitle", page.ArticleTitle).
		Set("articleExcerpt", page.ArticleExcerpt).
		Set("aiInsights", insights.Record()).
		Set("scrapedAt", scrapedAt.UTC().Format("2006-01-02T15:04:05.000Z")).
		Set("contentLength", page.ContentLength).
		Set("totalHeadings", len(page.Headings)).
		Set("totalParagraphs", len(page.Paragraphs)).
		Set("totalLinks", len(page.Links)).
		Set("totalImages", len(page.Images)).
		Set("totalArticles", len(page.Articles)).
		Set("totalListItems", len(page.ListItems)).
		Set("totalStructuredItems", len(page.Cards)).
		Set("contentQuality", quality)

	if len(page.Cards) == 0 {
		return []*models.Record{base.Set("type", TypeWebsiteSummary)}
	}

	out := make([]*models.Record, 0, len(page.Cards))
	for i, c := range page.Cards {
		out = append(out, base.Clone().
			Set("id", i+1).
			Set("itemTitle", c.Title).
			Set("itemDescription", c.Description).
			Set("itemTags", strings.Join(c.Tags, ", ")).
			Set("itemPrice", c.Price).
			Set("itemLocation", c.Location).
			Set("itemUrl", c.URL).
			Set("itemImage", c.Image).
			Set("extractionMethod", c.ExtractionMethod).
			Set("type", TypeStructuredItem))
	}
	return out
}

// head copies up to n leading elements and never returns nil.
func head(in []string, n int) []string {
	if n > len(in) {
		n = len(in)
	}
	out := make([]string, n)
	copy(out, in[:n])
	return out
}
