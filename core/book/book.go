// Package book implements the internal representation of a single Bible
// book held as marker-tagged lines, the processing pass that normalizes
// those lines, and the battery of validators that report on them.
//
// A Book moves through a simple lifecycle: lines are appended raw, then
// Process converts them (exactly once) into the processed line sequence
// that every validator and the versification walk reads. Validators only
// ever append to the book's Report; no input, however malformed, aborts
// the pipeline.
package book

import (
	"strings"

	"github.com/bible-hub/BibleOrgSys/core/usfm"
)

// MarkerProvider is the read-only marker classification lookup injected
// into every book. It is shared between books and must not be mutated
// after construction.
type MarkerProvider interface {
	ToStandardMarker(marker string) string
	IsNewlineMarker(marker string) bool
	IsCharacterMarker(marker string) bool
	IsInternalMarker(marker string) bool
	IsNoteMarker(marker string) bool
	IsDeprecatedMarker(marker string) bool
	IsNestingMarker(marker string) bool
	IsNumberableMarker(marker string) bool
	IsPrinted(marker string) bool
	MarkerShouldHaveContent(marker string) usfm.Policy
	MarkerShouldBeClosed(marker string) usfm.Policy
	MarkerOccursIn(marker string) usfm.Section
	CharacterMarkersList(includeBackslash, includeEndMarkers bool) []string
	NewlineMarkersList() []string
	MarkerListFromText(text string) []usfm.MarkerOccurrence
	TypicalNoteSets(kind string) [][]string
}

// AnchorMatcher checks a note's embedded chapter:verse anchor against the
// note's actual location. Shared and read-only, like MarkerProvider.
type AnchorMatcher interface {
	Matches(bookCode, chapter, verse, anchorText string, kind NoteKind) bool
}

// RawLine is one ingested (marker, text) pair, in document order.
type RawLine struct {
	Marker string
	Text   string
}

// ProcessedLine is the normalized form of (part of) a raw line.
// Text has notes removed and punctuation normalized; CleanText additionally
// has all character-style markup stripped and never contains a backslash.
type ProcessedLine struct {
	// Marker is the adjusted marker, including the synthetic
	// continuation markers "c~" and "v~".
	Marker string

	// OriginalMarker is the marker as it appeared in the raw line.
	OriginalMarker string

	Text      string
	CleanText string
	Extras    []NoteExtra
}

// NoteKind distinguishes the two kinds of extracted notes.
type NoteKind string

// Note kind constants.
const (
	Footnote       NoteKind = "fn"
	CrossReference NoteKind = "xr"
)

// Name returns the human-readable name of the note kind.
func (k NoteKind) Name() string {
	if k == CrossReference {
		return "cross-reference"
	}
	return "footnote"
}

// NoteExtra is one footnote or cross-reference lifted out of a line.
type NoteExtra struct {
	Kind NoteKind

	// Index is the offset into the owning line's Text where the note
	// was removed (and where a renderer would reinsert it).
	Index int

	// Text is the note body without its open/close markers. It is never
	// empty and never starts or ends with a backslash.
	Text string

	// CleanText is Text with leaders and all markup stripped.
	CleanText string
}

// Options control the optional behaviors of processing and checking.
type Options struct {
	// ReplaceAngleBrackets rewrites << >> < > as typographic quotes
	// during the fix pass.
	ReplaceAngleBrackets bool

	// ReplaceStraightQuotes rewrites straight double quotes as
	// directional quotes using positional heuristics.
	ReplaceStraightQuotes bool

	// CheckSequences enables the marker-adjacency tables.
	CheckSequences bool

	// LogErrors echoes diagnostics to the structured log as they are
	// recorded.
	LogErrors bool

	// Quotes configures the quotation balance tracker.
	Quotes QuoteConfig
}

// DefaultOptions returns the options matching common translator practice.
func DefaultOptions() Options {
	return Options{
		ReplaceAngleBrackets:  true,
		ReplaceStraightQuotes: false,
		CheckSequences:        false,
		Quotes:                DefaultQuoteConfig(),
	}
}

// Book is one internal Bible book: its raw and processed lines, its
// report, and the shared lookups it borrows.
type Book struct {
	// Code is the book reference code (e.g. "GEN", "MAT").
	Code string

	// SingleChapter is true for one-chapter books (e.g. Jude), which are
	// allowed to omit their explicit chapter marker.
	SingleChapter bool

	Options Options

	markers MarkerProvider
	anchors AnchorMatcher

	rawLines       []RawLine
	processedLines []ProcessedLine
	report         *Report

	processed bool
	indexed   bool
	checked   bool

	// removalTokens caches the character-marker token list used by
	// clean-text derivation.
	removalTokens []string

	// modifiedMarkerList is the deduplicated marker transition list built
	// by the structural validator, used as the book's structural
	// signature.
	modifiedMarkerList []string

	// Per-book once-only warning latches for the fix pass.
	warnedAngleBrackets  bool
	warnedStraightQuotes bool
}

// New creates a book for the given reference code with shared, read-only
// marker classification and anchor matching providers.
func New(code string, markers MarkerProvider, anchors AnchorMatcher) *Book {
	return &Book{
		Code:    code,
		Options: DefaultOptions(),
		markers: markers,
		anchors: anchors,
		report:  NewReport(),
	}
}

// Len returns the number of lines: processed if processing has run,
// otherwise raw.
func (b *Book) Len() int {
	if b.processed {
		return len(b.processedLines)
	}
	return len(b.rawLines)
}

// Processed reports whether the processing pass has run.
func (b *Book) Processed() bool { return b.processed }

// Checked reports whether the validators have run at least once.
func (b *Book) Checked() bool { return b.checked }

// AppendLine appends a raw (marker, text) pair. It is a no-op with a
// false return after processing has run.
func (b *Book) AppendLine(marker, text string) bool {
	if b.processed {
		return false
	}
	b.rawLines = append(b.rawLines, RawLine{Marker: marker, Text: text})
	return true
}

// AppendToLastLine appends extra text to the most recent raw line without
// inserting any separator. Used when a source format continues a field
// across physical lines.
func (b *Book) AppendToLastLine(additionalText string) bool {
	if b.processed || len(b.rawLines) == 0 || additionalText == "" {
		return false
	}
	last := &b.rawLines[len(b.rawLines)-1]
	last.Text += additionalText
	return true
}

// Lines returns the processed line sequence. It is nil before Process.
func (b *Book) Lines() []ProcessedLine {
	return b.processedLines
}

// Field returns the text of the first processed line whose adjusted marker
// matches the given field name, or "" and false if absent.
func (b *Book) Field(fieldName string) (string, bool) {
	adj := b.markers.ToStandardMarker(fieldName)
	for _, pl := range b.processedLines {
		if pl.Marker == adj {
			return pl.Text, true
		}
	}
	return "", false
}

// AssumedBookNames deduces likely book names from the header and main
// title fields, best guess first.
func (b *Book) AssumedBookNames() []string {
	var results []string
	header, _ := b.Field("h1")
	if header != "" {
		if header == strings.ToUpper(header) {
			header = strings.Title(strings.ToLower(header)) //nolint:staticcheck // book names are ASCII-ish titles
		}
		results = append(results, header)
	}
	// Ignore the main title when the header already looks like a full
	// "1 Name" style name and there is no mt2 qualifier.
	_, haveMT2 := b.Field("mt2")
	if (header == "" || len(header) < 4 || header[0] < '0' || header[0] > '9' || header[1] != ' ') && haveMT2 {
		if mt1, ok := b.Field("mt1"); ok && mt1 != "" {
			if mt1 == strings.ToUpper(mt1) {
				mt1 = strings.Title(strings.ToLower(mt1)) //nolint:staticcheck
			}
			found := false
			for _, r := range results {
				if r == mt1 {
					found = true
				}
			}
			if !found {
				results = append(results, mt1)
			}
		}
	}
	if len(results) == 0 {
		results = append(results, b.Code)
	}
	return results
}

// Index is a lightweight post-processing hook. It currently records only
// that indexing ran; faster lookup structures hang off this point.
func (b *Book) Index() {
	if !b.processed || b.indexed {
		return
	}
	b.indexed = true
}

// Check runs every validator over the processed lines, accumulating into
// the book's report. Validators may be re-run; they append, never reset.
func (b *Book) Check() error {
	if !b.processed {
		if err := b.Process(); err != nil {
			return err
		}
	}
	if _, _, _, _, err := b.Versification(); err != nil {
		return err
	}
	b.checkMarkers()
	b.checkCharacters()
	b.checkSpeechMarks()
	b.checkWords()
	b.checkHeadings()
	b.checkIntroduction()
	b.checkNotes()
	b.checked = true
	return nil
}

// ModifiedMarkerList returns the deduplicated marker transition list
// built by the structural validator: the book code followed by each
// distinct run of adjusted markers. It is empty before Check.
func (b *Book) ModifiedMarkerList() []string {
	out := make([]string, len(b.modifiedMarkerList))
	copy(out, b.modifiedMarkerList)
	return out
}

// Report returns the book's diagnostic report. The "Priority Errors"
// category is dropped from view when empty.
func (b *Book) Report() *Report {
	b.report.pruneEmptyPriority()
	return b.report
}
