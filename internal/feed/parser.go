package feed

import "strings"

// ParseLine splits one line of comma-separated text into its fields. A
// double quote toggles quoted state; commas inside a quoted field are
// literal content. A lone quote simply flips the state — embedded-quote
// escaping is not supported, which matches the published-spreadsheet
// exports we actually consume. Whitespace is preserved; trimming is the
// caller's job.
//
// An empty line yields a single empty field.
func ParseLine(line string) []string {
	var fields []string
	var buf strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, buf.String())
			buf.Reset()
		default:
			buf.WriteRune(r)
		}
	}

	// Whatever accumulated since the last delimiter is the final field,
	// even if it is empty.
	return append(fields, buf.String())
}
