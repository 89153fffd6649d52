package completion

import "unicode/utf8"

// Offset converts a zero-based line/column position into the flat rune offset
// the suggestion service expects. Columns are counted in runes. Positions past
// the end of a line or of the text are clamped.
func Offset(source string, line, column int) int {
	if line < 0 {
		line = 0
	}
	if column < 0 {
		column = 0
	}
	offset := 0
	currentLine := 0
	col := 0
	for _, r := range source {
		if currentLine == line {
			if col == column || r == '\n' {
				return offset
			}
			col++
		}
		if r == '\n' {
			currentLine++
		}
		offset++
	}
	return offset
}

// ClampCursor bounds a flat rune offset to the text.
func ClampCursor(source string, cursor int) int {
	if cursor < 0 {
		return 0
	}
	if n := utf8.RuneCountInString(source); cursor > n {
		return n
	}
	return cursor
}
