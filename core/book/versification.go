package book

import (
	"fmt"
	"strconv"
	"strings"
)

// ChapterVerses pairs a chapter number with the last verse number seen in
// that chapter.
type ChapterVerses struct {
	Chapter string
	Verses  string
}

// VerseRef names one chapter:verse position.
type VerseRef struct {
	Chapter string
	Verse   string
}

// ReorderedVerse records a verse number at or below its predecessor, an
// intentional translator reordering rather than an input error.
type ReorderedVerse struct {
	Chapter string
	Prev    string
	New     string
}

// versificationErrorsCategory is the report category the reconstructor
// writes its findings to.
const versificationErrorsCategory = "Versification Errors"

// parseVerseNumber parses a verse or chapter number, falling back to the
// longest digit prefix, and to 999 when the field has no digits at all.
func parseVerseNumber(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 999, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 999, false
	}
	return n, false
}

// Versification walks the processed lines and reconstructs the book's
// chapter/verse scheme. It returns the per-chapter verse counts, the
// verses missing from the expected sequence, the verses expressed as
// ranges or lists ("combined"), and the verses appearing out of order
// ("reordered"). Anomalies are also reported to the book's report.
func (b *Book) Versification() (versification []ChapterVerses, omitted []VerseRef, combined []VerseRef, reordered []ReorderedVerse, err error) {
	if !b.processed {
		if err := b.Process(); err != nil {
			return nil, nil, nil, nil, err
		}
	}

	var lines []string
	chapterText := ""
	lastChapterNumber := 0
	lastVerseNumber := 0
	lastVerseNumberString := "0"

	for _, pl := range b.processedLines {
		switch pl.Marker {
		case "c":
			newChapterText := pl.Text
			if ix := strings.IndexByte(newChapterText, ' '); ix >= 0 {
				lines = append(lines, fmt.Sprintf(
					"Unexpected space in chapter field %q after chapter %s",
					newChapterText, chapterText))
				newChapterText = newChapterText[:ix]
			}
			chapterNumber, ok := parseVerseNumber(newChapterText)
			if !ok {
				lines = append(lines, fmt.Sprintf(
					"Unable to fully parse chapter number %q (used %d)",
					newChapterText, chapterNumber))
			}
			if chapterText != "" {
				versification = append(versification,
					ChapterVerses{Chapter: chapterText, Verses: lastVerseNumberString})
			}
			if chapterNumber != lastChapterNumber+1 {
				lines = append(lines, fmt.Sprintf(
					"Chapter %d is out of sequence after chapter %d",
					chapterNumber, lastChapterNumber))
			}
			chapterText = newChapterText
			lastChapterNumber = chapterNumber
			lastVerseNumber = 0
			lastVerseNumberString = "0"

		case "v":
			if pl.Text == "" {
				continue
			}
			verseText := pl.Text
			stripped := strings.Map(func(r rune) rune {
				switch {
				case r >= '0' && r <= '9':
					return r
				case r == '-' || r == '–' || r == ',':
					return r
				default:
					return -1
				}
			}, verseText)
			if stripped != verseText {
				lines = append(lines, fmt.Sprintf(
					"Removed letter or bracket character(s) from verse number %q after %s:%s",
					verseText, chapterText, lastVerseNumberString))
				verseText = stripped
			}

			var startText, endText string
			switch {
			case strings.ContainsAny(verseText, "-–"):
				combined = append(combined, VerseRef{Chapter: chapterText, Verse: verseText})
				ix := strings.IndexAny(verseText, "-–")
				startText = verseText[:ix]
				endText = strings.TrimLeft(verseText[ix:], "-–")
			case strings.Contains(verseText, ","):
				combined = append(combined, VerseRef{Chapter: chapterText, Verse: verseText})
				parts := strings.Split(verseText, ",")
				startText = parts[0]
				endText = parts[len(parts)-1]
			default:
				startText, endText = verseText, verseText
			}

			startNumber, ok := parseVerseNumber(startText)
			if !ok {
				lines = append(lines, fmt.Sprintf(
					"Unable to fully parse verse number %q after %s:%s (used %d)",
					verseText, chapterText, lastVerseNumberString, startNumber))
			}
			endNumber, ok := parseVerseNumber(endText)
			if !ok && endText != startText {
				lines = append(lines, fmt.Sprintf(
					"Unable to fully parse end of combined verse %q (used %d)",
					verseText, endNumber))
			}
			if endText != startText && endNumber <= startNumber {
				lines = append(lines, fmt.Sprintf(
					"Combined verse %q at %s does not increase", verseText, chapterText))
			}

			switch {
			case startNumber == lastVerseNumber+1:
				// In sequence.
			case startNumber <= lastVerseNumber:
				reordered = append(reordered, ReorderedVerse{
					Chapter: chapterText,
					Prev:    lastVerseNumberString,
					New:     verseText,
				})
				lines = append(lines, fmt.Sprintf(
					"Verse %s follows verse %s in chapter %s",
					verseText, lastVerseNumberString, chapterText))
			default:
				for n := lastVerseNumber + 1; n < startNumber; n++ {
					omitted = append(omitted, VerseRef{
						Chapter: chapterText,
						Verse:   strconv.Itoa(n),
					})
				}
				lines = append(lines, fmt.Sprintf(
					"Verse(s) missing before verse %s in chapter %s",
					verseText, chapterText))
			}

			lastVerseNumber = endNumber
			lastVerseNumberString = endText
		}
	}

	if chapterText != "" {
		versification = append(versification,
			ChapterVerses{Chapter: chapterText, Verses: lastVerseNumberString})
	}
	b.report.AddLines(versificationErrorsCategory, lines)
	return versification, omitted, combined, reordered, nil
}
