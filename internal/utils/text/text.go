// Package text provides helpers for turning feed HTML into short plain-text snippets.
package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Ellipsis is appended by Truncate when text is cut.
const Ellipsis = "…"

// CountRunes counts Unicode characters instead of bytes, so umlauts count once.
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate shortens text to at most max runes including the ellipsis.
// Cuts happen at the last space in the final fifth of the text when there is one.
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	ell := []rune(Ellipsis)
	if max <= len(ell) {
		return string(runes[:max])
	}

	cut := max - len(ell)
	for i := cut; i > cut*4/5; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	return strings.TrimRight(string(runes[:cut]), " ") + Ellipsis
}

// CollapseSpace replaces runs of whitespace with single spaces and trims the result.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// PlainText extracts the visible text of an HTML fragment. Script and style
// contents are dropped and whitespace is collapsed.
func PlainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return CollapseSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return CollapseSpace(html)
	}
	doc.Find("script, style, noscript").Remove()
	return CollapseSpace(doc.Text())
}

// Snippet is PlainText truncated to max runes.
func Snippet(html string, max int) string {
	return Truncate(PlainText(html), max)
}

// FirstImage returns the src of the first <img> in an HTML fragment, or "".
func FirstImage(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}
