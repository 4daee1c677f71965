package importer

import (
	"strings"
)

// Tokenize splits raw CSV text into rows of trimmed string fields.
//
// Quoted fields follow standard CSV escaping: a doubled quote inside a
// quoted field yields a literal quote; commas and line breaks inside
// quotes belong to the field. CRLF and lone CR both end a row. Rows whose
// fields are all empty are skipped. A trailing row without a final line
// break is still emitted.
func Tokenize(text string) [][]string {
	var rows [][]string
	var row []string
	var field strings.Builder
	insideQuotes := false

	flushField := func() {
		row = append(row, strings.TrimSpace(field.String()))
		field.Reset()
	}
	flushRow := func() {
		if field.Len() > 0 || len(row) > 0 {
			flushField()
			for _, f := range row {
				if f != "" {
					rows = append(rows, row)
					break
				}
			}
			row = nil
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			if insideQuotes && i+1 < len(text) && text[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				insideQuotes = !insideQuotes
			}
		case c == ',' && !insideQuotes:
			flushField()
		case (c == '\n' || c == '\r') && !insideQuotes:
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			flushRow()
		default:
			field.WriteByte(c)
		}
	}
	flushRow()

	return rows
}
