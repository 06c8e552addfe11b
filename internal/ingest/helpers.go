package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// normalizeSpace collapses whitespace runs into single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateText cuts a string to max length, appending ellipsis if truncated.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen > 3 {
		return text[:maxLen-3] + "..."
	}
	return text[:maxLen]
}

// HTMLToText converts HTML to plain text, collapsing whitespace.
func HTMLToText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return normalizeSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return normalizeSpace(html)
	}
	return normalizeSpace(doc.Text())
}

var descriptionPolicy = bluemonday.UGCPolicy()

// sanitizeHTML strips unsafe tags and attributes from stored HTML.
func sanitizeHTML(s string) string {
	return descriptionPolicy.Sanitize(s)
}

// sanitizeUTF8 removes invalid UTF-8 byte sequences.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// firstSentence returns text through the first sentence terminator, or the
// first 150 characters when no terminator is found in range.
func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(text) || text[i+1] == ' ' || text[i+1] == '\n' {
				return TruncateText(text[:i+1], 150)
			}
		}
	}
	return TruncateText(text, 150)
}
