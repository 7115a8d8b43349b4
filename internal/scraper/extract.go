package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Placeholders for postings without a recognizable title or company
const (
	UnknownTitle   = "Unknown Position"
	UnknownCompany = "Unknown Company"
)

// siteRules lists CSS selectors tried in order for each field
type siteRules struct {
	source      string
	title       []string
	company     []string
	description []string
}

var (
	linkedInRules = siteRules{
		source:      "LinkedIn",
		title:       []string{"h1.top-card-layout__title", "h1"},
		company:     []string{"a.topcard__org-name-link", "span.topcard__flavor"},
		description: []string{"div.show-more-less-html__markup", "div.description__text"},
	}
	indeedRules = siteRules{
		source:      "Indeed",
		title:       []string{"h1.jobsearch-JobInfoHeader-title", "h1"},
		company:     []string{"div[data-company-name]", "div.jobsearch-InlineCompanyRating"},
		description: []string{"div#jobDescriptionText", "div.jobsearch-jobDescriptionText"},
	}
	glassdoorRules = siteRules{
		source:      "Glassdoor",
		title:       []string{`div[data-test="job-title"]`, "h1"},
		company:     []string{`div[data-test="employer-name"]`},
		description: []string{"div.jobDescriptionContent", `div[data-test="job-description"]`},
	}
	genericRules = siteRules{
		source:  "Generic",
		title:   []string{"h1", "h2", "title"},
		company: []string{`meta[property="og:site_name"]`, `[itemprop="hiringOrganization"]`, `[class*="company"]`},
		description: []string{
			`div[class*="job-description"]`,
			`div[class*="description"]`,
			`div[class*="job-details"]`,
			`div[class*="content"]`,
			"main",
			"article",
			"body",
		},
	}
)

// rulesFor picks the extractor for a host name
func rulesFor(host string) siteRules {
	host = strings.ToLower(host)
	switch {
	case strings.Contains(host, "linkedin.com"):
		return linkedInRules
	case strings.Contains(host, "indeed.com"):
		return indeedRules
	case strings.Contains(host, "glassdoor.com"):
		return glassdoorRules
	default:
		return genericRules
	}
}

// Extract pulls the job ad fields out of a parsed page
func Extract(doc *goquery.Document, host string) JobAd {
	rules := rulesFor(host)
	if rules.source == genericRules.source {
		doc.Find("script, style, nav, footer, header, noscript").Remove()
	}

	ad := JobAd{
		Title:   firstText(doc, rules.title, UnknownTitle),
		Company: firstText(doc, rules.company, UnknownCompany),
		Source:  rules.source,
	}
	for _, sel := range rules.description {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			if text := blockText(s); text != "" {
				ad.Text = text
				break
			}
		}
	}
	return ad
}

func firstText(doc *goquery.Document, selectors []string, fallback string) string {
	for _, sel := range selectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		if content, ok := s.Attr("content"); ok && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
		if text := collapseSpaces(s.Text()); text != "" {
			return text
		}
	}
	return fallback
}

var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "main": true, "tr": true, "table": true,
	"dd": true, "dt": true, "blockquote": true, "pre": true,
}

// blockText renders a selection as text with one line per block element
func blockText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		writeNode(&b, n)
	}

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = collapseSpaces(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func writeNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
