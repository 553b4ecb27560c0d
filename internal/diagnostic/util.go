package diagnostic

import "strings"

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// lineCol converts a byte offset within text to a 1-based (line, column)
// pair. An offset at or past len(text) clamps to the position just past
// the last character, for "after end of file" diagnostics.
func lineCol(text string, offset int) (line, col int) {
	if offset > len(text) {
		offset = len(text)
	}
	line = 1
	lastNewline := -1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	col = offset - lastNewline
	return line, col
}

// excerptLines returns the 1-based line range [startLine, endLine] of
// text covering byte range [start, end), expanded by one line of context
// on each side, clamped to the file's actual line count.
func excerptLines(text string, start, end int) (startLine, endLine int, lines []string) {
	allLines := strings.Split(text, "\n")
	sLine, _ := lineCol(text, start)
	eLine, _ := lineCol(text, end)

	lo := sLine - 1
	if lo < 1 {
		lo = 1
	}
	hi := eLine + 1
	if hi > len(allLines) {
		hi = len(allLines)
	}
	if hi < lo {
		hi = lo
	}
	for i := lo; i <= hi && i <= len(allLines); i++ {
		lines = append(lines, allLines[i-1])
	}
	return lo, hi, lines
}
