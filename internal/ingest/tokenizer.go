package ingest

import (
	"strings"
)

// Tokenize splits raw export text into rows of string fields. It is total
// over any input: comma separators, double-quote quoting with doubled
// quotes as escapes, raw newlines and commas inside quoted fields, CRLF and
// bare LF terminators, and a trailing row without a terminator. Field
// counts are not validated here; malformed rows are detected downstream.
func Tokenize(text string) [][]string {
	text = strings.TrimPrefix(text, "\uFEFF")

	var (
		rows  [][]string
		row   []string
		field strings.Builder
		// quoted is true while inside a double-quoted field.
		quoted bool
		// seen is true once the current row has any content, so a final
		// unterminated row is still emitted.
		seen bool
	)

	flushField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	flushRow := func() {
		flushField()
		rows = append(rows, row)
		row = nil
		seen = false
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if quoted {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i++
					continue
				}
				quoted = false
				continue
			}
			field.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			quoted = true
			seen = true
		case ',':
			flushField()
			seen = true
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			flushRow()
		case '\n':
			flushRow()
		default:
			field.WriteByte(c)
			seen = true
		}
	}

	if seen || field.Len() > 0 || len(row) > 0 {
		flushRow()
	}

	return rows
}
