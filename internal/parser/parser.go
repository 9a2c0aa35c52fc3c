
package parser

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"portfolio-terminal/internal/models"
	"portfolio-terminal/internal/textutil"
)

const (
	NoTitle       = "No title found"
	NoDescription = "No description found"
	NoAltText     = "No alt text"

	maxParagraphs  = 15
	maxArticles    = 5
	maxListItems   = 20
	maxDivsPerCls  = 3
	maxLinks       = 20
	maxImages      = 10
	maxMainContent = 3
	maxJSONLD      = 3
)

var meaningfulClasses = []string{"content", "article", "post", "description", "summary", "text", "body"}

// Link is an anchor with its visible text.
type Link struct {
	URL  string
	Text string
}

type Image struct {
	Src string
	Alt string
}

// Page holds every fragment pulled out of one HTML document.
type Page struct {
	Title       string
	Description string
	Headings    []string
	Paragraphs  []string
	Articles    []string
	ListItems   []string
	ContentDivs []string
	MainContent []string
	Links       []Link
	Images      []Image
	// StructuredData holds JSON-LD summaries as {type, name, description}.
	StructuredData []*models.Record
	Cards          []Card

	ArticleTitle   string
	ArticleExcerpt string

	// FullText is every text node joined by single spaces.
	FullText      string
	ContentLength int
}

type Parser struct{}

func New() *Parser { return &Parser{} }

// ExtractHTML decodes data to UTF-8 and runs every extraction rule over it.
// pageURL is only used to resolve the readability article.
func (p *Parser) ExtractHTML(data []byte, contentType, pageURL string) (*Page, error) {
	utf8data, err := decodeCharset(data, contentType)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return nil, err
	}

	page := &Page{ContentLength: textutil.Len(string(utf8data))}

	// JSON-LD lives in script tags, so read it before those are stripped.
	// The full text is every text node of the raw page, scripts included.
	page.StructuredData = extractJSONLD(doc)
	page.FullText = fullText(doc)
	page.ArticleTitle, page.ArticleExcerpt = readabilityMeta(utf8data, pageURL)

	doc.Find("script,noscript,style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	page.Title = NoTitle
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		page.Title = t
	}
	page.Description = metaDescription(doc)

	for _, tag := range []string{"h1", "h2", "h3"} {
		doc.Find(tag).Each(func(i int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); t != "" {
				page.Headings = append(page.Headings, t)
			}
		})
	}

	doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		t := strings.TrimSpace(strings.ReplaceAll(s.Text(), "\u00a0", " "))
		if textutil.Len(t) > 20 && !strings.Contains(t, "Click here") && !strings.Contains(t, "Read more") {
			page.Paragraphs = append(page.Paragraphs, t)
		}
		return len(page.Paragraphs) < maxParagraphs
	})

	page.Cards = extractCards(doc)

	firstN(doc.Find("article"), maxArticles).Each(func(i int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); textutil.Len(t) > 50 {
			page.Articles = append(page.Articles, textutil.Ellipsize(t, 500))
		}
	})

	doc.Find("li").EachWithBreak(func(i int, s *goquery.Selection) bool {
		t := strings.TrimSpace(s.Text())
		if n := textutil.Len(t); n > 10 && n < 200 {
			page.ListItems = append(page.ListItems, t)
		}
		return len(page.ListItems) < maxListItems
	})

	for _, cls := range meaningfulClasses {
		divs := doc.Find("div").FilterFunction(func(i int, s *goquery.Selection) bool {
			return classHas(s, cls)
		})
		firstN(divs, maxDivsPerCls).Each(func(i int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); textutil.Len(t) > 50 {
				page.ContentDivs = append(page.ContentDivs, textutil.Ellipsize(t, 300))
			}
		})
	}

	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		t := strings.TrimSpace(s.Text())
		if t == "" {
			return true
		}
		page.Links = append(page.Links, Link{URL: s.AttrOr("href", ""), Text: t})
		return len(page.Links) < maxLinks
	})

	firstN(doc.Find("img[src]"), maxImages).Each(func(i int, s *goquery.Selection) {
		page.Images = append(page.Images, Image{Src: s.AttrOr("src", ""), Alt: s.AttrOr("alt", NoAltText)})
	})

	firstN(doc.Find("main,section,article"), maxMainContent).Each(func(i int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); textutil.Len(t) > 100 {
			page.MainContent = append(page.MainContent, textutil.Ellipsize(t, 500))
		}
	})

	return page, nil
}

func decodeCharset(data []byte, contentType string) ([]byte, error) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}
	return utf8data, nil
}

func metaDescription(doc *goquery.Document) string {
	desc := NoDescription
	doc.Find("meta").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if !strings.EqualFold(s.AttrOr("name", ""), "description") {
			return true
		}
		content, ok := s.Attr("content")
		if !ok {
			return true
		}
		desc = strings.TrimSpace(content)
		return false
	})
	return desc
}

func extractJSONLD(doc *goquery.Document) []*models.Record {
	var out []*models.Record
	scripts := doc.Find("script").FilterFunction(func(i int, s *goquery.Selection) bool {
		return strings.EqualFold(strings.TrimSpace(s.AttrOr("type", "")), "application/ld+json")
	})
	firstN(scripts, maxJSONLD).Each(func(i int, s *goquery.Selection) {
		v, err := models.DecodeJSON(strings.NewReader(strings.TrimSpace(s.Text())))
		if err != nil {
			return
		}
		obj, ok := v.(*models.Record)
		if !ok {
			return
		}
		name, _ := obj.Get("name")
		headline, hasHeadline := obj.Get("headline")
		desc, hasDesc := obj.Get("description")
		if !models.Truthy(name) && !models.Truthy(headline) && !models.Truthy(desc) {
			return
		}
		item := models.NewRecord()
		if typ, _ := obj.Get("@type"); models.Truthy(typ) {
			item.Set("type", typ)
		} else {
			item.Set("type", "Unknown")
		}
		if models.Truthy(name) {
			item.Set("name", name)
		} else if hasHeadline {
			item.Set("name", headline)
		}
		if hasDesc {
			item.Set("description", desc)
		}
		out = append(out, item)
	})
	return out
}

func readabilityMeta(data []byte, pageURL string) (string, string) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "", ""
	}
	article, err := readability.FromReader(bytes.NewReader(data), u)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(article.Title), strings.TrimSpace(article.Excerpt)
}

func fullText(doc *goquery.Document) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return textutil.Collapse(strings.Join(parts, " "))
}

// firstN caps a selection before any filtering, the way the match lists are
// sliced first and filtered afterwards.
func firstN(s *goquery.Selection, n int) *goquery.Selection {
	return s.Slice(0, min(n, s.Length()))
}

// classHas reports whether the class attribute contains any of words,
// ignoring case. Partial matches count ("product-card" has "card").
func classHas(s *goquery.Selection, words ...string) bool {
	cls, ok := s.Attr("class")
	if !ok {
		return false
	}
	cls = strings.ToLower(cls)
	for _, w := range words {
		if strings.Contains(cls, w) {
			return true
		}
	}
	return false
}
