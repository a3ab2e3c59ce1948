package csvio

import "strings"

// splitLine tokenizes one CSV line. Fields are comma-separated; a field may be
// wrapped in double quotes to hold literal commas, and a doubled quote inside
// a quoted field is an escaped quote. Line splitting happens before field
// tokenization, so embedded newlines are not supported.
func splitLine(line string) []string {
	var fields []string
	var current strings.Builder
	insideQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if insideQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				insideQuotes = !insideQuotes
			}
		case ch == ',' && !insideQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	fields = append(fields, current.String())
	return fields
}

// quoteField escapes quotes and wraps the field when it contains a comma,
// matching what splitLine accepts.
func quoteField(field string) string {
	escaped := strings.ReplaceAll(field, `"`, `""`)
	if strings.Contains(escaped, ",") {
		return `"` + escaped + `"`
	}
	return escaped
}
