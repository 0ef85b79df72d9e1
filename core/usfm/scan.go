package usfm

// MarkerOccurrence is one marker found inside a line of text.
type MarkerOccurrence struct {
	// Marker is the marker name without the leading backslash and
	// without the closing asterisk.
	Marker string

	// NextChar is the significant character immediately following the
	// marker name: " " for an opening marker with content, "*" for a
	// closing marker, or "" at end of text.
	NextChar string

	// Index is the byte offset of the backslash in the scanned text.
	Index int
}

// MarkerListFromText scans a line's text and returns every embedded marker
// in order of appearance. The scan is purely lexical; classification of the
// found markers is left to the caller.
func (r *Registry) MarkerListFromText(text string) []MarkerOccurrence {
	var out []MarkerOccurrence
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			continue
		}
		j := i + 1
		for j < len(text) && isMarkerChar(text[j]) {
			j++
		}
		if j == i+1 {
			// Lone backslash; nothing to report but skip it.
			continue
		}
		occ := MarkerOccurrence{Marker: text[i+1 : j], Index: i}
		if j < len(text) {
			switch text[j] {
			case ' ':
				occ.NextChar = " "
			case '*':
				occ.NextChar = "*"
			}
		}
		out = append(out, occ)
		i = j - 1
	}
	return out
}

// isMarkerChar reports whether c can appear in a marker name.
func isMarkerChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '~' || c == '+'
}
