package textsample

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var collapseNewlines = regexp.MustCompile(`\n{3,}`)

// boilerplate keywords matched against class/id attributes
var boilerplateKeywords = []string{
	"cookie", "consent", "banner", "navbar", "nav-", "menu-", "header",
	"pagination", "share", "search-", "signup", "signin", "login",
	"ad-", "advert", "promo", "modal", "popup", "dialog",
	"breadcrumbs", "breadcrumb", "sidebar",
}

// Extract pulls the main readable content out of an HTML document, stripping
// navigation, chrome and other boilerplate. Returns "" when nothing useful
// survives; callers fall back to the page's flattened raw text.
func Extract(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var content *goquery.Selection
	mainTags := []string{"main", "[role=\"main\"]", "article", "#content", "#main"}
	for _, tag := range mainTags {
		if doc.Find(tag).Length() > 0 {
			content = doc.Find(tag).First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	content.Find("script, style, noscript, nav, header, footer, aside, form, iframe, svg, button, input").Each(func(_ int, s *goquery.Selection) { s.Remove() })
	content.Find("[role=\"navigation\"], [role=\"banner\"], [role=\"contentinfo\"], [aria-label*=\"cookie\" i], [aria-modal]").Each(func(_ int, s *goquery.Selection) { s.Remove() })

	content.Find("[class], [id]").Each(func(_ int, sel *goquery.Selection) {
		classVal, _ := sel.Attr("class")
		idVal, _ := sel.Attr("id")
		lower := strings.ToLower(classVal + " " + idVal)
		for _, kw := range boilerplateKeywords {
			if strings.Contains(lower, kw) {
				sel.Remove()
				break
			}
		}
	})

	body, err := content.Html()
	if err != nil {
		return ""
	}

	conv := md.NewConverter("", true, nil)
	out, err := conv.ConvertString(body)
	if err != nil {
		return ""
	}

	out = collapseNewlines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
