package ingest

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrHeaderNotFound is returned when no header row appears within the scan
// window. It is fatal for the import.
var ErrHeaderNotFound = errors.New("header row not found")

// headerScanWindow bounds how many leading rows are inspected for the
// banner and the header.
const headerScanWindow = 20

// Metadata describes what the locator found ahead of the data rows.
type Metadata struct {
	HeaderIndex int
	Headers     []string
	ReportDate  *time.Time
}

// bannerDatePatterns are tried in order against a "generated by" banner
// row; the first one that parses to a valid calendar date wins.
var bannerDatePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`\b(\d{4}-\d{1,2}-\d{1,2})\b`), "2006-1-2"},
	{regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`), "1/2/2006"},
	{regexp.MustCompile(`\b((?:January|February|March|April|May|June|July|August|September|October|November|December) \d{1,2}, \d{4})\b`), "January 2, 2006"},
	{regexp.MustCompile(`\b(\d{1,2} (?:January|February|March|April|May|June|July|August|September|October|November|December) \d{4})\b`), "2 January 2006"},
}

// LocateMetadata scans at most the first 20 tokenized rows for the header
// row (the one carrying both a "Deal Owner" and a "Deal Name" field) and,
// before it, for a report-generation banner.
func LocateMetadata(rows [][]string) (Metadata, error) {
	meta := Metadata{HeaderIndex: -1}

	limit := len(rows)
	if limit > headerScanWindow {
		limit = headerScanWindow
	}

	for i := 0; i < limit; i++ {
		fields := rows[i]

		if isHeaderRow(fields) {
			meta.HeaderIndex = i
			meta.Headers = make([]string, len(fields))
			for j, f := range fields {
				meta.Headers[j] = strings.TrimSpace(f)
			}
			return meta, nil
		}

		if meta.ReportDate == nil {
			joined := strings.Join(fields, " ")
			if strings.Contains(strings.ToLower(joined), "generated by") {
				if dt, ok := extractBannerDate(joined); ok {
					meta.ReportDate = &dt
				}
			}
		}
	}

	return meta, ErrHeaderNotFound
}

func isHeaderRow(fields []string) bool {
	hasOwner, hasName := false, false
	for _, f := range fields {
		switch strings.TrimSpace(f) {
		case "Deal Owner":
			hasOwner = true
		case "Deal Name":
			hasName = true
		}
	}
	return hasOwner && hasName
}

func extractBannerDate(text string) (time.Time, bool) {
	for _, p := range bannerDatePatterns {
		m := p.re.FindStringSubmatch(text)
		if len(m) != 2 {
			continue
		}
		if t, err := time.Parse(p.layout, m[1]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
