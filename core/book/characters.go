package book

import (
	"fmt"
	"strings"
	"unicode"
)

// Word-boundary punctuation sets. A word may carry leading punctuation
// before its first letter, medial punctuation inside, and trailing
// punctuation after its last letter; anything else around a word is
// suspect.
const (
	leadingWordPunct  = "“«\"‘‹'([{<"
	medialWordPunct   = "-"
	dashPunct         = "—–"
	trailingWordPunct = ",.”»\"’›'?)!;:]}>"
)

const charactersCategory = "Characters"

// checkCharacters tallies character frequencies over the printed clean
// text and flags spacing problems and misplaced word punctuation.
func (b *Book) checkCharacters() {
	var lines []string
	charCounts := NewFreqTable()
	letterCounts := NewFreqTable()
	punctCounts := NewFreqTable()
	invalidSeen := make(map[rune]bool)
	c, v := "0", "0"

	for i := range b.processedLines {
		pl := &b.processedLines[i]
		switch pl.Marker {
		case "c":
			c, v = pl.Text, "0"
		case "v":
			if pl.Text != "" {
				v = pl.Text
			}
		}
		if !b.markers.IsPrinted(pl.Marker) {
			continue
		}
		text := pl.CleanText
		if text == "" {
			continue
		}

		if strings.Contains(text, "  ") {
			b.addPriorityError(7, c, v, "Multiple spaces in line")
			lines = append(lines, fmt.Sprintf("Multiple spaces at %s:%s", c, v))
		}
		if strings.HasSuffix(text, " ") {
			b.addPriorityError(5, c, v, "Trailing space in line")
			lines = append(lines, fmt.Sprintf("Trailing space at %s:%s", c, v))
		}

		for _, r := range text {
			charCounts.Inc(charKey(r))
			switch {
			case unicode.IsLetter(r):
				letterCounts.Inc(strings.ToLower(string(r)))
			case unicode.IsPunct(r) || unicode.IsSymbol(r):
				punctCounts.Inc(string(r))
			}
			if !isWordBuildingChar(r) && !invalidSeen[r] {
				invalidSeen[r] = true
				b.addPriorityError(10, c, v,
					fmt.Sprintf("Invalid %q word-building character", r))
				lines = append(lines, fmt.Sprintf(
					"Invalid %q character at %s:%s", r, c, v))
			}
		}

		for _, word := range strings.Fields(text) {
			first, _ := firstVisibleRune(word)
			last, _ := lastVisibleRune(word)
			if strings.ContainsRune(trailingWordPunct, first) &&
				!strings.ContainsRune(leadingWordPunct, first) {
				b.addPriorityError(21, c, v,
					fmt.Sprintf("Misplaced %q punctuation at start of word", first))
				lines = append(lines, fmt.Sprintf(
					"Misplaced %q at start of word %q at %s:%s", first, word, c, v))
			}
			if strings.ContainsRune(leadingWordPunct, last) &&
				!strings.ContainsRune(trailingWordPunct, last) {
				b.addPriorityError(20, c, v,
					fmt.Sprintf("Misplaced %q punctuation at end of word", last))
				lines = append(lines, fmt.Sprintf(
					"Misplaced %q at end of word %q at %s:%s", last, word, c, v))
			}
		}
	}

	sub := b.report.Sub(charactersCategory)
	sub.AddLines("Possible Character Errors", lines)
	sub.SetCounts("All Character Counts", charCounts)
	sub.SetCounts("Letter Counts", letterCounts)
	sub.SetCounts("Punctuation Counts", punctCounts)
}

// charKey makes whitespace visible in the character count table.
func charKey(r rune) string {
	if r == ' ' {
		return "SPACE"
	}
	return string(r)
}

// isWordBuildingChar reports whether the rune may legitimately appear in
// or immediately around a word of printed text.
func isWordBuildingChar(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == ' ' {
		return true
	}
	return strings.ContainsRune(leadingWordPunct, r) ||
		strings.ContainsRune(medialWordPunct, r) ||
		strings.ContainsRune(dashPunct, r) ||
		strings.ContainsRune(trailingWordPunct, r) ||
		strings.ContainsRune(":;&…", r)
}
