package ingest

import (
	"strings"
	"time"
)

// Export column names. The header row is identified by content, so these
// are matched exactly against the detected headers.
const (
	colOwner       = "Deal Owner"
	colName        = "Deal Name"
	colStage       = "Stage"
	colACV         = "Annual Contract Value"
	colClosing     = "Closing Date"
	colModified    = "Modified Time (Notes)"
	colNote        = "Note Content"
	colDescription = "Description"
)

const (
	maxOwnerLen    = 100
	maxOwnerTokens = 5
)

// MapRow copies one tokenized data row into a RawRow keyed by header name.
// Extra fields beyond the header width are ignored; missing columns are
// absent from the map and read back as empty strings.
func MapRow(headers []string, fields []string) RawRow {
	row := make(RawRow, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(fields) {
			row[h] = fields[i]
		}
	}
	return row
}

// IsEmptyRow reports whether every field is blank.
func IsEmptyRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// BuildDeal enriches one RawRow into a Deal and validates it. The second
// return is false when the row must be dropped: empty or sentence-shaped
// owners, blank deal names, and non-home-currency values are all silent,
// deterministic drops rather than errors.
func BuildDeal(raw RawRow, now time.Time) (*Deal, bool) {
	owner := strings.TrimSpace(raw[colOwner])
	name := strings.TrimSpace(raw[colName])

	if owner == "" || len(owner) > maxOwnerLen || len(strings.Fields(owner)) > maxOwnerTokens {
		return nil, false
	}
	if name == "" {
		return nil, false
	}

	money := ParseMoney(raw[colACV])
	if !money.Home {
		return nil, false
	}
	acv := money.Value
	if acv < 0 {
		acv = 0
	}

	d := &Deal{
		Owner:       owner,
		Name:        name,
		Stage:       normalizeSpace(raw[colStage]),
		ACV:         acv,
		Note:        sanitizeUTF8(HTMLToText(raw[colNote])),
		Description: sanitizeHTML(sanitizeUTF8(raw[colDescription])),
		Key:         DealKey(name, owner),
	}

	if t, ok := ParseDate(raw[colClosing]); ok {
		d.ClosingDate = &t
	}
	if t, ok := ParseDate(raw[colModified]); ok {
		d.ModifiedDate = &t
	}

	d.AddNote(d.Note)
	d.Derive(now)

	return d, true
}
