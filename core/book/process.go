package book

import (
	"fmt"
	"strings"

	"github.com/bible-hub/BibleOrgSys/core/usfm"
	"github.com/bible-hub/BibleOrgSys/internal/logging"
)

// procState carries the current chapter and verse through the processing
// pass. Chapter "0" means no chapter marker has been seen yet.
type procState struct {
	c string
	v string
}

// Process converts the raw lines into the processed line sequence. It runs
// exactly once; later calls are no-ops. The only error it can return is an
// internal consistency failure in clean-text derivation, which indicates a
// defect in the processor rather than in the input document.
func (b *Book) Process() error {
	if b.processed {
		return nil
	}
	st := &procState{c: "0", v: "0"}
	for _, rl := range b.rawLines {
		if err := b.processLine(st, rl.Marker, rl.Text); err != nil {
			return fmt.Errorf("processing %s %s:%s: %w", b.Code, st.c, st.v, err)
		}
	}
	b.processed = true
	b.rawLines = nil
	return nil
}

func (b *Book) processLine(st *procState, originalMarker, text string) error {
	reportedSplit := false
	return b.processFragment(st, originalMarker, text, &reportedSplit)
}

// processFragment handles one (marker, text) fragment, recursing when the
// fragment has to be split at a chapter/verse milestone or at an embedded
// newline marker.
func (b *Book) processFragment(st *procState, originalMarker, text string, reportedSplit *bool) error {
	marker := b.markers.ToStandardMarker(originalMarker)

	switch marker {
	case "c":
		return b.processChapterLine(st, originalMarker, text, reportedSplit)
	case "v":
		return b.processVerseLine(st, originalMarker, text, reportedSplit)
	}

	// Newline markers are defined to start lines. One occurring mid-text
	// splits the line there.
	for _, occ := range b.markers.MarkerListFromText(text) {
		if occ.NextChar == "*" || !b.markers.IsNewlineMarker(occ.Marker) {
			continue
		}
		if !*reportedSplit {
			b.addPriorityError(96, st.c, st.v,
				fmt.Sprintf("Marker \\%s shouldn't appear within the line", occ.Marker))
			*reportedSplit = true
		}
		head := strings.TrimRight(text[:occ.Index], " ")
		if err := b.appendProcessed(st, marker, originalMarker, head); err != nil {
			return err
		}
		rest := strings.TrimLeft(text[occ.Index+1+len(occ.Marker):], " ")
		return b.processFragment(st, occ.Marker, rest, reportedSplit)
	}

	return b.appendProcessed(st, marker, originalMarker, text)
}

// processChapterLine records the chapter milestone. The chapter line must
// carry only the chapter number; anything after it is split off onto a
// synthetic continuation line.
func (b *Book) processChapterLine(st *procState, originalMarker, text string, reportedSplit *bool) error {
	t := strings.TrimLeft(text, " ")
	num, rest := t, ""
	if ix := strings.IndexByte(t, ' '); ix >= 0 {
		num = t[:ix]
		rest = strings.TrimLeft(t[ix+1:], " ")
	}
	st.c = num
	st.v = "0"
	if err := b.appendProcessed(st, "c", originalMarker, num); err != nil {
		return err
	}
	if rest != "" {
		b.addPriorityError(98, st.c, st.v, "Extra material after chapter marker")
		return b.processFragment(st, "c~", rest, reportedSplit)
	}
	return nil
}

// processVerseLine splits a verse line into the verse-number milestone and
// a continuation line carrying the verse text. A verse appearing before
// any chapter marker forces a synthesized chapter line.
func (b *Book) processVerseLine(st *procState, originalMarker, text string, reportedSplit *bool) error {
	vt := strings.TrimLeft(text, " ")

	ix := len(vt)
	if i := strings.IndexByte(vt, ' '); i >= 0 && i < ix {
		ix = i
	}
	if i := strings.IndexByte(vt, '\\'); i >= 0 && i < ix {
		ix = i
	}
	num := vt[:ix]
	rest := vt[ix:]

	if st.c == "0" {
		if b.SingleChapter {
			if num != "1" {
				b.addPriorityError(38, "1", num,
					"Expected single chapter book to start at verse 1")
			}
		} else {
			b.addPriorityError(98, "1", num, "Missing chapter number before first verse")
		}
		b.insertSyntheticChapterLine()
		st.c = "1"
	}

	if num == "" {
		b.addPriorityError(94, st.c, st.v,
			"Verse number seems missing (marker follows verse marker)")
	} else {
		st.v = num
	}

	if err := b.appendProcessed(st, "v", originalMarker, num); err != nil {
		return err
	}

	rest = strings.TrimLeft(rest, " ")
	if rest == "" {
		// A bare verse number is legal in a work in progress.
		b.addPriorityError(92, st.c, st.v, "Nothing following verse number")
		return nil
	}
	return b.processFragment(st, "v~", rest, reportedSplit)
}

// insertSyntheticChapterLine adds an explicit "c 1" line for a book whose
// first verse arrived before any chapter marker. If the immediately
// preceding line opened a paragraph the chapter line belongs before it;
// otherwise the preceding material is assumed introductory and the
// chapter line goes after. Best-effort placement, not guaranteed correct.
func (b *Book) insertSyntheticChapterLine() {
	pl := ProcessedLine{Marker: "c", OriginalMarker: "c", Text: "1", CleanText: "1"}
	if n := len(b.processedLines); n > 0 {
		last := b.processedLines[n-1].Marker
		if last == "p" || last == "q1" {
			b.processedLines = append(b.processedLines[:n-1],
				pl, b.processedLines[n-1])
			return
		}
	}
	b.processedLines = append(b.processedLines, pl)
}

func (b *Book) appendProcessed(st *procState, marker, originalMarker, text string) error {
	adjText, cleanText, extras, err := b.fixText(st, text)
	if err != nil {
		return err
	}
	b.processedLines = append(b.processedLines, ProcessedLine{
		Marker:         marker,
		OriginalMarker: originalMarker,
		Text:           adjText,
		CleanText:      cleanText,
		Extras:         extras,
	})
	return nil
}

var angleBracketReplacer = strings.NewReplacer("<<", "“", ">>", "”", "<", "‘", ">", "’")

// entityUnescaper undoes the markup escapes for clean text, which is meant
// for indexing and search rather than rendering.
var entityUnescaper = strings.NewReplacer(
	"&amp;", "&", "&#39;", "'", "&lt;", "<", "&gt;", ">", "&quot;", "\"")

// noteLeaderStripper removes the common note leader characters and their
// following space from note clean text.
var noteLeaderStripper = strings.NewReplacer("- ", "", "+ ", "")

// fixText is the per-fragment normalization pass: trailing-space trim,
// optional quote normalization, markup escaping, note extraction and
// clean-text derivation.
func (b *Book) fixText(st *procState, text string) (adjText, cleanText string, extras []NoteExtra, err error) {
	adjText = text

	if strings.HasSuffix(adjText, " ") {
		b.addPriorityError(10, st.c, st.v, "Removed trailing space(s)")
		logging.FixError(b.Code, st.c, st.v, "Removed trailing space(s)")
		adjText = strings.TrimRight(adjText, " ")
	}

	if strings.ContainsAny(adjText, "<>") {
		if b.Options.ReplaceAngleBrackets {
			if !b.warnedAngleBrackets {
				b.addPriorityError(3, st.c, st.v,
					"Replaced angle bracket(s) with quote glyphs (first occurrence only noted)")
				b.warnedAngleBrackets = true
			}
			adjText = angleBracketReplacer.Replace(adjText)
		} else if !b.warnedAngleBrackets {
			b.addPriorityError(3, st.c, st.v,
				"Found angle bracket(s) (first occurrence only noted)")
			b.warnedAngleBrackets = true
		}
	}

	if strings.Contains(adjText, "\"") {
		if b.Options.ReplaceStraightQuotes {
			if !b.warnedStraightQuotes {
				b.addPriorityError(8, st.c, st.v,
					"Replaced straight quote sign(s) (first occurrence only noted)")
				b.warnedStraightQuotes = true
			}
			adjText = replaceStraightQuotes(adjText)
		} else if !b.warnedStraightQuotes {
			b.addPriorityError(58, st.c, st.v,
				"Found straight quote sign(s) (first occurrence only noted)")
			b.warnedStraightQuotes = true
		}
	}

	// Whatever the optional passes did not consume is escaped so the text
	// is always markup safe.
	if strings.Contains(adjText, "&") {
		adjText = strings.ReplaceAll(adjText, "&", "&amp;")
	}
	if strings.ContainsAny(adjText, "<>") {
		b.addPriorityError(12, st.c, st.v, "Replaced remaining angle bracket(s) with entities")
		logging.FixError(b.Code, st.c, st.v, "Replaced remaining angle bracket(s) with entities")
		adjText = strings.ReplaceAll(adjText, "<", "&lt;")
		adjText = strings.ReplaceAll(adjText, ">", "&gt;")
	}
	if strings.Contains(adjText, "\"") {
		b.addPriorityError(11, st.c, st.v, "Replaced remaining straight quote sign(s) with entities")
		logging.FixError(b.Code, st.c, st.v, "Replaced remaining straight quote sign(s) with entities")
		adjText = strings.ReplaceAll(adjText, "\"", "&quot;")
	}

	adjText, extras, err = b.extractNotes(st, adjText)
	if err != nil {
		return "", "", nil, err
	}

	// Removing a note can leave a trailing space behind.
	if strings.HasSuffix(adjText, " ") {
		b.addPriorityError(10, st.c, st.v, "Trailing space before note at end of line")
		logging.FixError(b.Code, st.c, st.v, "Trailing space before note at end of line")
		adjText = strings.TrimRight(adjText, " ")
	}

	cleanText, err = b.deriveCleanText(adjText)
	if err != nil {
		return "", "", nil, err
	}
	return adjText, cleanText, extras, nil
}

// replaceStraightQuotes applies the positional heuristics: a straight
// double quote at the start of the text or following a space or opening
// bracket opens; anything else closes. Apostrophes are left alone since
// straight single quotes are nearly always possessives or contractions.
func replaceStraightQuotes(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	prev := rune(0)
	for _, r := range text {
		if r == '"' {
			if prev == 0 || prev == ' ' || prev == '(' || prev == '[' || prev == '‘' || prev == '“' {
				r = '“'
			} else {
				r = '”'
			}
		}
		sb.WriteRune(r)
		prev = r
	}
	return sb.String()
}

// Note open/close tokens, matched case-insensitively.
const (
	footnoteOpen  = "\\f "
	footnoteClose = "\\f*"
	xrefOpen      = "\\x "
	xrefClose     = "\\x*"
)

// extractNotes repeatedly lifts the earliest footnote or cross-reference
// span out of the text, recording each as a NoteExtra at the offset where
// it was removed.
func (b *Book) extractNotes(st *procState, text string) (string, []NoteExtra, error) {
	var extras []NoteExtra
	for {
		lc := strings.ToLower(text)
		kind := Footnote
		openTok, closeTok := footnoteOpen, footnoteClose
		ix1 := strings.Index(lc, footnoteOpen)
		if ixX := strings.Index(lc, xrefOpen); ixX >= 0 && (ix1 < 0 || ixX < ix1) {
			kind, openTok, closeTok = CrossReference, xrefOpen, xrefClose
			ix1 = ixX
		}
		if ix1 < 0 {
			break
		}

		ix2 := strings.Index(lc, closeTok)
		var noteText string
		switch {
		case ix2 < 0:
			// No close: the rest of the line is the note body.
			b.addPriorityError(84, st.c, st.v,
				fmt.Sprintf("Unmatched %s open marker", kind.Name()))
			noteText = text[ix1+len(openTok):]
			text = text[:ix1]
		case ix2 < ix1:
			// Malformed pairing: a close sits before the open. Swap the
			// offsets and carry on.
			b.addPriorityError(84, st.c, st.v,
				fmt.Sprintf("Unmatched %s marker(s)", kind.Name()))
			ix1, ix2 = ix2, ix1
			noteText = text[ix1+len(openTok) : ix2]
			text = text[:ix1] + text[ix2+len(closeTok):]
		default:
			noteText = text[ix1+len(openTok) : ix2]
			text = text[:ix1] + text[ix2+len(closeTok):]
		}

		if ix1 > 0 && text[ix1-1] == ' ' {
			b.addPriorityError(52, st.c, st.v,
				fmt.Sprintf("Found %s preceded by a space", kind.Name()))
		}
		if noteText == "" {
			b.addPriorityError(53, st.c, st.v, fmt.Sprintf("Found empty %s", kind.Name()))
			continue
		}
		if strings.HasPrefix(noteText, " ") {
			b.addPriorityError(12, st.c, st.v,
				fmt.Sprintf("Removed leading space(s) in %s", kind.Name()))
			noteText = strings.TrimLeft(noteText, " ")
		}
		if strings.HasSuffix(noteText, " ") {
			b.addPriorityError(11, st.c, st.v,
				fmt.Sprintf("Removed trailing space(s) in %s", kind.Name()))
			noteText = strings.TrimRight(noteText, " ")
		}
		if noteText == "" {
			b.addPriorityError(53, st.c, st.v, fmt.Sprintf("Found empty %s", kind.Name()))
			continue
		}

		// A note opening inside another note's body is a known input
		// shape this pass does not recurse into: the inner markers are
		// stripped instead.
		lcNote := strings.ToLower(noteText)
		if strings.Contains(lcNote, footnoteOpen) || strings.Contains(lcNote, xrefOpen) {
			b.addPriorityError(78, st.c, st.v,
				fmt.Sprintf("Stripped embedded note marker(s) inside %s", kind.Name()))
			noteText = stripNoteMarkers(noteText)
		}

		cleanNote, err := b.deriveCleanText(noteLeaderStripper.Replace(noteText))
		if err != nil {
			return "", nil, err
		}
		extras = append(extras, NoteExtra{
			Kind:      kind,
			Index:     ix1,
			Text:      noteText,
			CleanText: cleanNote,
		})
	}

	lc := strings.ToLower(text)
	for _, tok := range []string{footnoteOpen, footnoteClose, xrefOpen, xrefClose} {
		if strings.Contains(lc, tok) {
			b.addPriorityError(82, st.c, st.v,
				"Unable to properly process footnote and cross-reference markers")
			break
		}
	}
	return text, extras, nil
}

// stripNoteMarkers removes note open and close tokens case-insensitively,
// preserving the case of the surrounding text.
func stripNoteMarkers(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	lc := strings.ToLower(text)
	i := 0
	for i < len(text) {
		stripped := false
		for _, tok := range []string{footnoteOpen, footnoteClose, xrefOpen, xrefClose} {
			if strings.HasPrefix(lc[i:], tok) {
				i += len(tok)
				stripped = true
				break
			}
		}
		if !stripped {
			sb.WriteByte(text[i])
			i++
		}
	}
	return strings.TrimSpace(sb.String())
}

// markerRemovalList is the character-marker token set used by clean-text
// derivation: every character marker with open and close forms, numbered
// variants included, longest token first.
func (b *Book) markerRemovalList() []string {
	if b.removalTokens != nil {
		return b.removalTokens
	}
	tokens := b.markers.CharacterMarkersList(true, true)
	var numbered []string
	for _, tok := range tokens {
		base := strings.TrimRight(tok[1:], " *")
		if !b.markers.IsNumberableMarker(base) {
			continue
		}
		suffix := tok[len(tok)-1:]
		for n := '1'; n <= '5'; n++ {
			numbered = append(numbered, "\\"+base+string(n)+suffix)
		}
	}
	b.removalTokens = usfm.SortedForRemoval(append(tokens, numbered...))
	return b.removalTokens
}

// deriveCleanText undoes the markup escapes and strips all character-style
// markup. The result must not contain a backslash; if one survives, the
// processor itself is broken and the failure is surfaced as an error rather
// than a diagnostic.
func (b *Book) deriveCleanText(adjText string) (string, error) {
	clean := entityUnescaper.Replace(adjText)
	if !strings.Contains(clean, "\\") {
		return clean, nil
	}

	for _, tok := range b.markerRemovalList() {
		if strings.Contains(clean, tok) {
			clean = strings.ReplaceAll(clean, tok, "")
		}
	}

	// Whatever markers remain are unrecognized: strip each token up to
	// the following space or asterisk. Bounded so a processor bug cannot
	// loop forever.
	for attempts := 0; attempts < 1000; attempts++ {
		ix := strings.IndexByte(clean, '\\')
		if ix < 0 {
			break
		}
		rest := clean[ix+1:]
		end := strings.IndexAny(rest, " *")
		if end < 0 {
			clean = clean[:ix]
		} else {
			clean = clean[:ix] + rest[end+1:]
		}
	}

	if strings.Contains(clean, "\\") {
		return "", fmt.Errorf("marker escape survived clean-text derivation: %q", adjText)
	}
	return strings.TrimSpace(clean), nil
}
