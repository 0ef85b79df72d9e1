// Package punctuation holds the per-language punctuation systems: quote
// glyph levels, sentence terminators, and the separators used when
// writing chapter and verse references.
package punctuation

import (
	"sort"

	"github.com/bible-hub/BibleOrgSys/core/book"
)

// System describes one language's punctuation conventions.
type System struct {
	Name string

	SentenceCapitalisation   bool
	ProperNounCapitalisation bool

	StatementTerminator   string
	QuestionTerminator    string
	ExclamationTerminator string
	CommaPauseCharacter   string

	// StartQuoteLevels and EndQuoteLevels give the quotation glyphs by
	// nesting depth, outermost first. Unused levels are empty.
	StartQuoteLevels [4]string
	EndQuoteLevels   [4]string

	// Reference-writing conventions.
	BookChapterSeparator   string
	SpaceAllowedAfterBCS   bool
	ChapterVerseSeparator  string
	VerseSeparator         string
	ChapterBridgeCharacter string
	VerseBridgeCharacter   string
	AllowedVerseSuffixes   string
}

// builtin holds the systems shipped with the tool.
var builtin = map[string]System{
	"English": {
		Name:                     "English",
		SentenceCapitalisation:   true,
		ProperNounCapitalisation: true,
		StatementTerminator:      ".",
		QuestionTerminator:       "?",
		ExclamationTerminator:    "!",
		CommaPauseCharacter:      ",",
		StartQuoteLevels:         [4]string{"“", "‘", "“", "‘"},
		EndQuoteLevels:           [4]string{"”", "’", "”", "’"},
		BookChapterSeparator:     " ",
		SpaceAllowedAfterBCS:     true,
		ChapterVerseSeparator:    ":",
		VerseSeparator:           ",",
		ChapterBridgeCharacter:   "-",
		VerseBridgeCharacter:     "-",
		AllowedVerseSuffixes:     "abcdef",
	},
	"French": {
		Name:                     "French",
		SentenceCapitalisation:   true,
		ProperNounCapitalisation: true,
		StatementTerminator:      ".",
		QuestionTerminator:       "?",
		ExclamationTerminator:    "!",
		CommaPauseCharacter:      ",",
		StartQuoteLevels:         [4]string{"«", "“", "‘", ""},
		EndQuoteLevels:           [4]string{"»", "”", "’", ""},
		BookChapterSeparator:     " ",
		SpaceAllowedAfterBCS:     true,
		ChapterVerseSeparator:    ".",
		VerseSeparator:           ",",
		ChapterBridgeCharacter:   "-",
		VerseBridgeCharacter:     "-",
		AllowedVerseSuffixes:     "ab",
	},
	"Matigsalug": {
		Name:                   "Matigsalug",
		SentenceCapitalisation: true,
		StatementTerminator:    ".",
		QuestionTerminator:     "?",
		ExclamationTerminator:  "!",
		CommaPauseCharacter:    ",",
		StartQuoteLevels:       [4]string{"“", "‘", "“", ""},
		EndQuoteLevels:         [4]string{"”", "’", "”", ""},
		BookChapterSeparator:   " ",
		ChapterVerseSeparator:  ":",
		VerseSeparator:         ",",
		ChapterBridgeCharacter: "–",
		VerseBridgeCharacter:   "-",
		AllowedVerseSuffixes:   "ab",
	},
}

// Get returns the named punctuation system.
func Get(name string) (System, bool) {
	s, ok := builtin[name]
	return s, ok
}

// SystemNames lists the available systems, sorted.
func SystemNames() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SentenceEndChars returns the characters that may terminate a sentence.
func (s System) SentenceEndChars() string {
	return s.StatementTerminator + s.QuestionTerminator + s.ExclamationTerminator
}

// QuoteConfig builds the quotation tracker configuration for this system.
// Duplicate glyphs across levels keep their first (outermost) pairing.
func (s System) QuoteConfig() book.QuoteConfig {
	cfg := book.QuoteConfig{ReopenQuotesAtParagraph: true}
	seen := map[rune]bool{}
	for i := 0; i < 4; i++ {
		if s.StartQuoteLevels[i] == "" || s.EndQuoteLevels[i] == "" {
			continue
		}
		open := []rune(s.StartQuoteLevels[i])[0]
		if seen[open] {
			continue
		}
		seen[open] = true
		cfg.OpeningGlyphs = append(cfg.OpeningGlyphs, open)
		cfg.ClosingGlyphs = append(cfg.ClosingGlyphs, []rune(s.EndQuoteLevels[i])[0])
	}
	return cfg
}
