package metadata

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	minSummaryLen   = 20
	minBodyTextLen  = 50
	maxSummaryRunes = 200
)

// Icon link rel values, in order of preference.
var iconRels = []string{"icon", "shortcut icon", "apple-touch-icon", "apple-touch-icon-precomposed"}

var (
	navigationWords   = regexp.MustCompile(`(Home|About|Contact|Menu|Navigation|Cookie|Privacy|Terms)\s*`)
	sentenceDelimiter = regexp.MustCompile(`[.!?]`)
)

func extract(doc *html.Node, base *url.URL) Metadata {
	md := Metadata{
		Title:       firstNonEmpty(meta(doc, "og:title"), meta(doc, "twitter:title"), pageTitle(doc)),
		Description: firstNonEmpty(meta(doc, "og:description"), meta(doc, "twitter:description"), meta(doc, "description")),
		Favicon:     favicon(doc, base),
		OGImage:     meta(doc, "og:image"),
		SiteName:    meta(doc, "og:site_name"),
		Author:      firstNonEmpty(meta(doc, "author"), meta(doc, "article:author")),
		Keywords:    meta(doc, "keywords"),
	}
	if md.Description == "" {
		md.Description = summary(doc)
	}
	return md
}

// meta returns the content of the first <meta property=key>, falling
// back to the first <meta name=key>. Attribute values match ignoring
// case and surrounding space.
func meta(doc *html.Node, key string) string {
	for _, attr := range []string{"property", "name"} {
		n := findFirst(doc, func(n *html.Node) bool {
			return n.DataAtom == atom.Meta && strings.EqualFold(strings.TrimSpace(attrOf(n, attr)), key)
		})
		if n != nil {
			return strings.TrimSpace(attrOf(n, "content"))
		}
	}
	return ""
}

func pageTitle(doc *html.Node) string {
	n := findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.Title })
	if n == nil {
		return ""
	}
	return text(n)
}

func favicon(doc *html.Node, base *url.URL) string {
	for _, rel := range iconRels {
		n := findFirst(doc, func(n *html.Node) bool {
			return n.DataAtom == atom.Link && strings.EqualFold(attrOf(n, "rel"), rel)
		})
		if n == nil {
			continue
		}
		if href := resolve(base, attrOf(n, "href")); href != "" {
			return href
		}
	}
	if base == nil || base.Host == "" {
		return ""
	}
	return base.Scheme + "://" + base.Host + "/favicon.ico"
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		if ref.IsAbs() {
			return ref.String()
		}
		return ""
	}
	return base.ResolveReference(ref).String()
}

// summary derives a description from the page body: the first qualifying
// paragraph of a content container, else the first long sentence of the
// body text.
func summary(doc *html.Node) string {
	containers := []func(*html.Node) bool{
		func(n *html.Node) bool { return n.DataAtom == atom.Main },
		func(n *html.Node) bool { return n.DataAtom == atom.Article },
		func(n *html.Node) bool { return attrOf(n, "role") == "main" },
		func(n *html.Node) bool { return hasClass(n, "content") },
		func(n *html.Node) bool { return attrOf(n, "id") == "content" },
	}

	for _, isContainer := range containers {
		p := findFirst(doc, func(n *html.Node) bool {
			return isFirstParagraph(n) && hasAncestor(n, isContainer)
		})
		if s, ok := paragraphSummary(p); ok {
			return s
		}
	}
	if s, ok := paragraphSummary(findFirst(doc, isFirstParagraph)); ok {
		return s
	}

	body := findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.Body })
	if body == nil {
		return ""
	}
	bodyText := text(body)
	if len([]rune(bodyText)) <= minBodyTextLen {
		return ""
	}
	bodyText = navigationWords.ReplaceAllString(bodyText, "")
	for _, sentence := range sentenceDelimiter.Split(bodyText, -1) {
		sentence = strings.TrimSpace(sentence)
		if len([]rune(sentence)) > minSummaryLen {
			return truncate(sentence)
		}
	}
	return ""
}

func paragraphSummary(p *html.Node) (string, bool) {
	if p == nil {
		return "", false
	}
	t := text(p)
	if len([]rune(t)) <= minSummaryLen {
		return "", false
	}
	return truncate(t), true
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxSummaryRunes {
		return s
	}
	return string(r[:maxSummaryRunes-3]) + "..."
}

// isFirstParagraph matches a <p> with no earlier <p> sibling.
func isFirstParagraph(n *html.Node) bool {
	if n.DataAtom != atom.P {
		return false
	}
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.DataAtom == atom.P {
			return false
		}
	}
	return true
}

func hasAncestor(n *html.Node, pred func(*html.Node) bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && pred(p) {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrOf(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findFirst returns the first element, in document order, matching pred.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// text returns the visible text under n with whitespace collapsed.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style || n.DataAtom == atom.Noscript):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
