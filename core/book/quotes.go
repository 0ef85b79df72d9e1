package book

import (
	"fmt"
	"strings"
)

// QuoteConfig describes the quote glyph pairs and the boundary policies
// used by the quotation balance tracker. Opening and closing glyphs are
// paired by index.
type QuoteConfig struct {
	OpeningGlyphs []rune
	ClosingGlyphs []rune

	// ReopenQuotesAtParagraph treats an open quote as continuing across a
	// paragraph break provided the new paragraph restates the opening
	// glyph.
	ReopenQuotesAtParagraph bool

	// CloseQuotesAtParagraphEnd requires all quotes closed when a
	// paragraph ends.
	CloseQuotesAtParagraphEnd bool

	// CloseQuotesAtSectionEnd requires all quotes closed when a section
	// ends.
	CloseQuotesAtSectionEnd bool
}

// DefaultQuoteConfig returns the common European quotation conventions.
func DefaultQuoteConfig() QuoteConfig {
	return QuoteConfig{
		OpeningGlyphs:           []rune("“«‘‹"),
		ClosingGlyphs:           []rune("”»’›"),
		ReopenQuotesAtParagraph: true,
	}
}

func (q QuoteConfig) openingIndex(r rune) int {
	for i, g := range q.OpeningGlyphs {
		if g == r {
			return i
		}
	}
	return -1
}

func (q QuoteConfig) closingIndex(r rune) int {
	for i, g := range q.ClosingGlyphs {
		if g == r {
			return i
		}
	}
	return -1
}

const speechMarksCategory = "Speech Marks"

// checkSpeechMarks tracks multi-level quotation nesting across the whole
// book, honoring the paragraph/section boundary policies.
func (b *Book) checkSpeechMarks() {
	cfg := b.Options.Quotes
	var lines []string
	var stack []rune
	newSection, newParagraph, newBit := false, false, false
	var lastClosedGlyph rune
	c, v := "0", "0"

	for i := range b.processedLines {
		pl := &b.processedLines[i]
		marker, text := pl.Marker, pl.CleanText

		switch marker {
		case "s1", "s2", "s3", "s4":
			newSection = true
			continue
		case "p", "ip", "b":
			newParagraph = true
			if text == "" {
				continue
			}
		case "m":
			newBit = true
			if text == "" {
				continue
			}
		case "c":
			c, v = pl.Text, "0"
			if c == "1" {
				newSection = true
			}
			continue
		case "v":
			if pl.Text != "" {
				v = pl.Text
			}
			continue
		case "r":
			continue
		}
		if text == "" {
			continue
		}

		// Closing glyphs forgiven on this line after a boundary-policy
		// stack clear, so the recovery itself is not re-diagnosed.
		forgiven := make(map[rune]int)

		if len(stack) > 0 {
			switch {
			case (newParagraph && cfg.CloseQuotesAtParagraphEnd) ||
				(newSection && cfg.CloseQuotesAtSectionEnd):
				b.addPriorityError(56, c, v,
					"Unclosed quote(s) at end of paragraph or section (policy requires closing)")
				lines = append(lines, fmt.Sprintf(
					"Unclosed quote(s) %s before %s:%s (policy requires closing)",
					string(stack), c, v))
				for _, g := range stack {
					forgiven[cfg.ClosingGlyphs[cfg.openingIndex(g)]]++
				}
				stack = stack[:0]
			case newParagraph && cfg.ReopenQuotesAtParagraph:
				if first, _ := firstVisibleRune(text); first != stack[len(stack)-1] {
					b.addPriorityError(55, c, v,
						"Unclosed quote(s) or missing reopening quote at paragraph")
					lines = append(lines, fmt.Sprintf(
						"Unclosed quote(s) %s or missing reopening quote at %s:%s",
						string(stack), c, v))
					for _, g := range stack {
						forgiven[cfg.ClosingGlyphs[cfg.openingIndex(g)]]++
					}
					stack = stack[:0]
				}
			}
		}
		if newSection && !cfg.CloseQuotesAtSectionEnd && lastClosedGlyph != 0 {
			if first, _ := firstVisibleRune(text); cfg.openingIndex(first) >= 0 &&
				cfg.ClosingGlyphs[cfg.openingIndex(first)] == lastClosedGlyph {
				b.addPriorityError(50, c, v,
					"Unnecessary closing of quotes before section heading")
				lines = append(lines, fmt.Sprintf(
					"Unnecessary closing of quotes before section heading at %s:%s", c, v))
			}
		}

		continuing := newParagraph && cfg.ReopenQuotesAtParagraph
		j := 0
		for _, r := range text {
			if idx := cfg.openingIndex(r); idx >= 0 {
				repeated := len(stack) > 0 && stack[len(stack)-1] == r
				if repeated && continuing && (j == 0 || (j == 1 && strings.HasPrefix(text, " "))) {
					// Legitimate paragraph-restart reopening.
				} else {
					if repeated {
						if newBit {
							b.addPriorityError(43, c, v,
								fmt.Sprintf("Reopened quote %c after paragraph continuation", r))
							stack = stack[:len(stack)-1]
						} else {
							b.addPriorityError(53, c, v,
								fmt.Sprintf("Improperly nested or unclosed quote %c", r))
							lines = append(lines, fmt.Sprintf(
								"Improperly nested or unclosed quote %c at %s:%s", r, c, v))
						}
					}
					stack = append(stack, r)
				}
				if len(stack) > 4 {
					b.addPriorityError(50, c, v, "Too many nested quotation levels")
				} else if len(stack) == 4 {
					b.addPriorityError(40, c, v, "Four levels of nested quotations")
				}
			} else if idx := cfg.closingIndex(r); idx >= 0 {
				switch {
				case len(stack) == 0:
					if forgiven[r] > 0 {
						forgiven[r]--
					} else {
						b.addPriorityError(52, c, v,
							fmt.Sprintf("Closing quote %c with no opening quote", r))
						lines = append(lines, fmt.Sprintf(
							"Closing quote %c with no opening quote at %s:%s", r, c, v))
					}
				case cfg.openingIndex(stack[len(stack)-1]) == idx:
					stack = stack[:len(stack)-1]
				default:
					b.addPriorityError(51, c, v, fmt.Sprintf(
						"Mismatched quote levels: %c closing %c", r, stack[len(stack)-1]))
					lines = append(lines, fmt.Sprintf(
						"Mismatched quote levels at %s:%s: %c closing %c",
						c, v, r, stack[len(stack)-1]))
					stack = stack[:len(stack)-1]
				}
			}
			j++
		}

		for ei := range pl.Extras {
			b.checkNoteQuotes(&pl.Extras[ei], cfg, c, v, &lines)
		}

		lastClosedGlyph = 0
		if last, ok := lastVisibleRune(text); ok && cfg.closingIndex(last) >= 0 {
			lastClosedGlyph = last
		}
		newSection, newParagraph, newBit = false, false, false
	}

	if len(stack) > 0 {
		b.addPriorityError(54, c, v,
			fmt.Sprintf("Unclosed quote(s) %s at end of book", string(stack)))
		lines = append(lines, fmt.Sprintf(
			"Unclosed quote(s) %s at end of book", string(stack)))
	}

	b.report.Sub(speechMarksCategory).AddLines("Possible Matching Errors", lines)
}

// checkNoteQuotes runs an independent quote stack over one note body; a
// note's quotes must balance within the note.
func (b *Book) checkNoteQuotes(extra *NoteExtra, cfg QuoteConfig, c, v string, lines *[]string) {
	var stack []rune
	for _, r := range extra.CleanText {
		if cfg.openingIndex(r) >= 0 {
			stack = append(stack, r)
			if len(stack) > 4 {
				b.addPriorityError(45, c, v,
					fmt.Sprintf("Too many nested quotation levels in %s", extra.Kind.Name()))
			}
		} else if idx := cfg.closingIndex(r); idx >= 0 {
			switch {
			case len(stack) == 0:
				b.addPriorityError(42, c, v, fmt.Sprintf(
					"Closing quote %c with no opening quote in %s", r, extra.Kind.Name()))
			case cfg.openingIndex(stack[len(stack)-1]) == idx:
				stack = stack[:len(stack)-1]
			default:
				b.addPriorityError(43, c, v, fmt.Sprintf(
					"Mismatched quote levels in %s: %c closing %c",
					extra.Kind.Name(), r, stack[len(stack)-1]))
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) > 0 {
		b.addPriorityError(47, c, v, fmt.Sprintf(
			"Unclosed quote(s) %s at end of %s", string(stack), extra.Kind.Name()))
		*lines = append(*lines, fmt.Sprintf(
			"Unclosed quote(s) %s at end of %s at %s:%s",
			string(stack), extra.Kind.Name(), c, v))
	}
}

func firstVisibleRune(s string) (rune, bool) {
	for _, r := range s {
		if r != ' ' {
			return r, true
		}
	}
	return 0, false
}

func lastVisibleRune(s string) (rune, bool) {
	s = strings.TrimRight(s, " ")
	var last rune
	ok := false
	for _, r := range s {
		last, ok = r, true
	}
	return last, ok
}
