package extract

import "strings"

// NormalizeLines turns a raw OCR text blob into the ordered sequence of
// trimmed, non-empty lines every downstream component operates on.
//
// Runs of whitespace collapse to a single space, blank lines are dropped,
// line order is preserved. One physical input line maps to at most one
// output entry; lines are never merged or split. Pure function.
func NormalizeLines(text string) []string {
	if text == "" {
		return nil
	}

	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		// Fields splits on any whitespace run, so tabs and OCR artifact
		// spacing collapse in one pass.
		fields := strings.Fields(l)
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, strings.Join(fields, " "))
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}
