package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"portfolio-terminal/internal/textutil"
)

const cardsPerPattern = 8

// Card is one repeated content unit (product, profile, article...) found on a page.
type Card struct {
	Title            string
	Description      string
	Tags             []string
	Price            string
	Location         string
	URL              string
	Image            string
	ExtractionMethod string
}

type cardPattern struct {
	tag    string
	vocab  []string
	method string
}

// Order matters: every pattern runs independently and cards are emitted in
// pattern order, so one element can surface under several methods.
var cardPatterns = []cardPattern{
	{tag: "div", vocab: []string{"company", "startup", "card", "item"}, method: "Company/Startup Directory"},
	{tag: "div", vocab: []string{"product", "listing", "tile"}, method: "E-commerce Product"},
	{tag: "article", method: "Article/Blog Post"},
	{tag: "div", vocab: []string{"news", "post", "story"}, method: "News Item"},
	{tag: "div", vocab: []string{"profile", "person", "member", "user"}, method: "Profile/Person"},
	{tag: "div", vocab: []string{"card", "panel", "box", "container"}, method: "General Content Card"},
}

var (
	dollarRe   = regexp.MustCompile(`\$[\d,]+\.?\d*`)
	currencyRe = regexp.MustCompile(`[\d,]+\.?\d*\s*(?:USD|EUR|GBP|₹|¥)`)
	digitRe    = regexp.MustCompile(`\d`)
	cityRe     = regexp.MustCompile(`(?i)\b(?:San Francisco|New York|London|Tokyo|Berlin|Sydney|Toronto|Mumbai|Bangalore)\b`)
)

func extractCards(doc *goquery.Document) []Card {
	var cards []Card
	for _, pat := range cardPatterns {
		matches := doc.Find(pat.tag)
		if pat.vocab != nil {
			vocab := pat.vocab
			matches = matches.FilterFunction(func(i int, s *goquery.Selection) bool {
				return classHas(s, vocab...)
			})
		}
		firstN(matches, cardsPerPattern).Each(func(i int, s *goquery.Selection) {
			c := ParseCard(s)
			if c.Title == "" && c.Description == "" {
				return
			}
			c.ExtractionMethod = pat.method
			cards = append(cards, c)
		})
	}
	return cards
}

// ParseCard pulls the card fields out of one matched element. It only reads
// the selection, so repeated calls return the same card.
func ParseCard(s *goquery.Selection) Card {
	c := Card{Tags: []string{}}

	c.Title = firstText(s.Find("h1,h2,h3,h4,h5,h6"))
	if c.Title == "" {
		c.Title = firstText(withClass(s.Find("div"), "title", "name", "heading"))
	}
	if c.Title == "" {
		c.Title = firstText(withClass(s.Find("span"), "title", "name", "heading"))
	}
	if c.Title == "" {
		c.Title = firstText(withClass(s.Find("a"), "title", "name", "link"))
	}

	c.Description = firstText(s.Find("p"))
	if c.Description == "" {
		c.Description = firstText(withClass(s.Find("div"), "description", "summary", "excerpt"))
	}
	if c.Description == "" {
		c.Description = firstText(withClass(s.Find("span"), "description", "summary"))
	}

	withClass(s.Find("*"), "tag", "category", "label", "badge").Each(func(i int, t *goquery.Selection) {
		if tag := strings.TrimSpace(t.Text()); tag != "" && textutil.Len(tag) < 50 {
			c.Tags = append(c.Tags, tag)
		}
	})

	text := s.Text()
	switch {
	case dollarRe.MatchString(text):
		c.Price = strings.TrimSpace(dollarRe.FindString(text))
	case currencyRe.MatchString(text):
		c.Price = strings.TrimSpace(currencyRe.FindString(text))
	default:
		withClass(s.Find("*"), "price").EachWithBreak(func(i int, p *goquery.Selection) bool {
			if t := strings.TrimSpace(p.Text()); digitRe.MatchString(t) {
				c.Price = t
				return false
			}
			return true
		})
	}

	c.Location = firstText(withClass(s.Find("*"), "location", "address", "city"))
	if c.Location == "" {
		c.Location = cityRe.FindString(text)
	}

	c.URL = firstAttr(s, "href")
	c.Image = firstAttr(s, "src")
	return c
}

func withClass(s *goquery.Selection, words ...string) *goquery.Selection {
	return s.FilterFunction(func(i int, el *goquery.Selection) bool {
		return classHas(el, words...)
	})
}

func firstText(s *goquery.Selection) string {
	var out string
	s.EachWithBreak(func(i int, el *goquery.Selection) bool {
		out = strings.TrimSpace(el.Text())
		return out == ""
	})
	return out
}

// firstAttr returns the first non-empty attr on s itself or any descendant.
func firstAttr(s *goquery.Selection, attr string) string {
	if v := s.AttrOr(attr, ""); v != "" {
		return v
	}
	var out string
	s.Find("[" + attr + "]").EachWithBreak(func(i int, el *goquery.Selection) bool {
		out = el.AttrOr(attr, "")
		return out == ""
	})
	return out
}
