// Package anchor parses and matches the chapter:verse anchor references
// embedded in footnotes and cross-references. A note at 2:3 normally
// carries an anchor field reading "2:3" (or a range or list containing
// verse 3); the matcher decides whether an anchor agrees with the note's
// actual location.
package anchor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/bible-hub/BibleOrgSys/core/book"
)

// Reference is one parsed anchor reference.
type Reference struct {
	// Chapter is the chapter number, 0 when the anchor gave only a verse
	// (legal in single-chapter books).
	Chapter int

	// Verses lists every verse number the anchor covers: a single verse,
	// an expanded range, or a list.
	Verses []int
}

// anchorGrammar parses "2:3", "2:3a", "2:3-4", "2:3,5", "2.3" and a bare
// verse number.
//
type anchorGrammar struct {
	First int         `parser:"@Int"`
	Rest  *anchorTail `parser:"@@?"`
}

type anchorTail struct {
	Sep    string  `parser:"@Sep"`
	Verse  int     `parser:"@Int"`
	Suffix *string `parser:"@Suffix?"`
	Range  *int    `parser:"( \"-\" @Int @Suffix? )?"`
	List   []int   `parser:"( \",\" @Int @Suffix? )*"`
}

var anchorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Suffix", Pattern: `[a-z]`},
	{Name: "Sep", Pattern: `[:.]`},
	{Name: "Punct", Pattern: `[,\-–]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var anchorParser = participle.MustBuild[anchorGrammar](
	participle.Lexer(anchorLexer),
	participle.Elide("Whitespace"),
)

// Parse parses an anchor reference string.
func Parse(s string) (*Reference, error) {
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ":;,."))
	if s == "" {
		return nil, fmt.Errorf("empty anchor reference")
	}
	parsed, err := anchorParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid anchor reference %q: %w", s, err)
	}

	ref := &Reference{}
	if parsed.Rest == nil {
		// A bare number is a verse in a single-chapter book.
		ref.Verses = []int{parsed.First}
		return ref, nil
	}
	ref.Chapter = parsed.First
	tail := parsed.Rest
	ref.Verses = []int{tail.Verse}
	if tail.Range != nil {
		for n := tail.Verse + 1; n <= *tail.Range; n++ {
			ref.Verses = append(ref.Verses, n)
		}
	}
	ref.Verses = append(ref.Verses, tail.List...)
	return ref, nil
}

// Matcher implements the anchor matching used by the note validator. The
// zero value is not usable; use NewMatcher.
type Matcher struct {
	// singleChapterBooks lists book codes whose anchors may omit the
	// chapter number.
	singleChapterBooks map[string]bool
}

// NewMatcher creates a Matcher.
func NewMatcher() *Matcher {
	return &Matcher{
		singleChapterBooks: map[string]bool{
			"OBA": true, "PHM": true, "JN2": true, "JN3": true, "JDE": true,
		},
	}
}

// Matches reports whether anchorText agrees with the chapter:verse
// location it was found at. Unparseable anchors never match.
func (m *Matcher) Matches(bookCode, chapter, verse, anchorText string, kind book.NoteKind) bool {
	ref, err := Parse(anchorText)
	if err != nil {
		return false
	}
	chapterNum := leadingInt(chapter)
	if ref.Chapter == 0 {
		if !m.singleChapterBooks[bookCode] && chapterNum != 1 {
			return false
		}
	} else if ref.Chapter != chapterNum {
		return false
	}
	for _, have := range verseNumbers(verse) {
		for _, want := range ref.Verses {
			if have == want {
				return true
			}
		}
	}
	return false
}

// leadingInt parses the longest digit prefix of s, returning 0 when there
// is none.
func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// verseNumbers expands a verse field ("4", "4-6", "4,6") into the verse
// numbers it covers.
func verseNumbers(verse string) []int {
	var out []int
	verse = strings.ReplaceAll(verse, "–", "-")
	for _, part := range strings.Split(verse, ",") {
		if ix := strings.IndexByte(part, '-'); ix >= 0 {
			start, end := leadingInt(part[:ix]), leadingInt(part[ix+1:])
			for n := start; n <= end && n-start < 200; n++ {
				out = append(out, n)
			}
			continue
		}
		if n := leadingInt(part); n > 0 {
			out = append(out, n)
		}
	}
	return out
}
