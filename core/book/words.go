package book

import (
	"fmt"
	"strings"
)

const wordsCategory = "Words"

// isReferenceToken reports whether a token is a bare number or
// chapter:verse style reference rather than a word.
func isReferenceToken(word string) bool {
	hasDigit := false
	for _, r := range word {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(":,-–", r):
		default:
			return false
		}
	}
	return hasDigit
}

// stripWordPunct removes leading and trailing word punctuation from a
// token, leaving medial punctuation alone.
func stripWordPunct(word string) string {
	return strings.Trim(word, leadingWordPunct+trailingWordPunct)
}

// checkWords tallies word frequencies over the printed clean text and
// flags adjacent case-insensitive duplicates, including across line
// boundaries.
func (b *Book) checkWords() {
	var lines []string
	wordCounts := NewFreqTable()
	ciCounts := NewFreqTable()
	lastWord := ""
	c, v := "0", "0"

	countText := func(text string) {
		text = strings.Map(func(r rune) rune {
			if strings.ContainsRune(dashPunct, r) {
				return ' '
			}
			return r
		}, text)
		for _, raw := range strings.Fields(text) {
			word := stripWordPunct(raw)
			if word == "" || isReferenceToken(word) {
				continue
			}
			wordCounts.Inc(word)
			lower := strings.ToLower(word)
			ciCounts.Inc(lower)
			if lower == lastWord {
				b.addPriorityError(23, c, v,
					fmt.Sprintf("Repeated word %q", word))
				lines = append(lines, fmt.Sprintf(
					"Repeated word %q at %s:%s", word, c, v))
			}
			lastWord = lower
		}
	}

	for i := range b.processedLines {
		pl := &b.processedLines[i]
		switch pl.Marker {
		case "c":
			c, v = pl.Text, "0"
			continue
		case "v":
			if pl.Text != "" {
				v = pl.Text
			}
			continue
		}
		if !b.markers.IsPrinted(pl.Marker) {
			continue
		}
		countText(pl.CleanText)
		for _, extra := range pl.Extras {
			countText(extra.CleanText)
		}
	}

	sub := b.report.Sub(wordsCategory)
	sub.AddLines("Possible Word Errors", lines)
	sub.SetCounts("All Word Counts", wordCounts)
	sub.SetCounts("Case Insensitive Word Counts", ciCounts)
}
