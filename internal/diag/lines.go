package diag

// SplitLines splits text into lines on \n, \r\n and lone \r terminators.
// A terminator at the very end does not produce a trailing empty line, and
// empty input yields no lines at all. Both parsers and the skip check go
// through this helper so "line" means the same thing everywhere.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			i++
			start = i
		case '\r':
			lines = append(lines, text[start:i])
			i++
			if i < len(text) && text[i] == '\n' {
				i++
			}
			start = i
		default:
			i++
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
