package book

import (
	"fmt"
	"strings"

	"github.com/bible-hub/BibleOrgSys/core/usfm"
)

// markerPair is one observed (marker, following marker) adjacency. A
// marker whose line carried no text is keyed with an "=E" suffix.
type markerPair struct {
	a, b string
}

func pairs(tuples ...[2]string) map[markerPair]bool {
	out := make(map[markerPair]bool, len(tuples))
	for _, t := range tuples {
		out[markerPair{t[0], t[1]}] = true
	}
	return out
}

// commonAdjacency holds the newline marker adjacencies seen in virtually
// every well-formed book.
var commonAdjacency = pairs(
	[2]string{"id", "ide"}, [2]string{"id", "h1"}, [2]string{"ide", "h1"},
	[2]string{"ide", "sts"}, [2]string{"sts", "h1"},
	[2]string{"h1", "toc1"}, [2]string{"h1", "mt1"}, [2]string{"h1", "mt2"},
	[2]string{"toc1", "toc2"}, [2]string{"toc2", "toc3"},
	[2]string{"toc2", "mt1"}, [2]string{"toc2", "mt2"},
	[2]string{"toc3", "mt1"}, [2]string{"toc3", "mt2"},
	[2]string{"mt2", "mt1"}, [2]string{"mt1", "mt2"},
	[2]string{"mt1", "imt1"}, [2]string{"mt1", "is1"}, [2]string{"mt1", "ip"},
	[2]string{"mt1", "c"}, [2]string{"imt1", "ip"}, [2]string{"is1", "ip"},
	[2]string{"ip", "ip"}, [2]string{"ip", "iot"}, [2]string{"ip", "c"},
	[2]string{"iot", "io1"}, [2]string{"io1", "io1"}, [2]string{"io1", "io2"},
	[2]string{"io2", "io1"}, [2]string{"io2", "io2"},
	[2]string{"io1", "c"}, [2]string{"io2", "c"},
	[2]string{"c", "p=E"}, [2]string{"c", "s1"}, [2]string{"c", "q1=E"},
	[2]string{"c", "ms1"}, [2]string{"ms1", "s1"},
	[2]string{"s1", "r"}, [2]string{"s1", "p=E"}, [2]string{"s1", "q1=E"},
	[2]string{"r", "p=E"}, [2]string{"r", "q1=E"},
	[2]string{"p=E", "v"}, [2]string{"p", "v"}, [2]string{"p", "c"},
	[2]string{"p", "s1"}, [2]string{"p", "b=E"},
	[2]string{"q1=E", "v"}, [2]string{"q1", "v"}, [2]string{"q1", "q1"},
	[2]string{"q1", "q2"}, [2]string{"q1", "c"}, [2]string{"q1", "b=E"},
	[2]string{"q2", "q1"}, [2]string{"q2", "q2"}, [2]string{"q2", "v"},
	[2]string{"q2", "c"},
	[2]string{"b=E", "q1"}, [2]string{"b=E", "q1=E"}, [2]string{"b=E", "p=E"},
	[2]string{"v", "v"}, [2]string{"v", "p=E"}, [2]string{"v", "p"},
	[2]string{"v", "q1"}, [2]string{"v", "q1=E"}, [2]string{"v", "q2"},
	[2]string{"v", "s1"}, [2]string{"v", "c"}, [2]string{"v", "b=E"},
	[2]string{"v", "m=E"}, [2]string{"m=E", "v"}, [2]string{"m", "v"},
)

// rarerAdjacency holds adjacencies that are legitimate but uncommon
// enough to warrant a second look.
var rarerAdjacency = pairs(
	[2]string{"p", "p"}, [2]string{"q1", "m"}, [2]string{"v", "m"},
	[2]string{"q2", "q3"}, [2]string{"q3", "q2"}, [2]string{"q3", "v"},
	[2]string{"q3", "c"}, [2]string{"v", "q3"},
	[2]string{"c", "pc=E"}, [2]string{"c", "nb=E"}, [2]string{"nb=E", "v"},
	[2]string{"nb", "v"}, [2]string{"v", "nb=E"},
	[2]string{"s2", "p=E"}, [2]string{"s1", "s2"}, [2]string{"v", "s2"},
	[2]string{"mt3", "mt2"}, [2]string{"mt2", "mt3"},
	[2]string{"pi1=E", "v"}, [2]string{"v", "pi1"}, [2]string{"v", "pi1=E"},
	[2]string{"v", "li1"}, [2]string{"li1", "li1"}, [2]string{"li1", "v"},
	[2]string{"li1", "li2"}, [2]string{"li2", "li1"}, [2]string{"li2", "li2"},
	[2]string{"d", "q1=E"}, [2]string{"c", "d"}, [2]string{"d", "v"},
	[2]string{"ip", "ib=E"}, [2]string{"ib=E", "ip"},
	[2]string{"iot", "io2"}, [2]string{"is1", "iot"},
	[2]string{"cl", "v"}, [2]string{"c", "cl"},
)

// functionalName maps a standardized newline marker to the function
// tallied in the functional counts table.
func functionalName(marker string) string {
	base := marker
	if len(base) > 1 {
		last := base[len(base)-1]
		if last >= '1' && last <= '5' {
			base = base[:len(base)-1]
		}
	}
	switch base {
	case "id":
		return "Book ID"
	case "ide":
		return "Encoding"
	case "sts":
		return "Status"
	case "rem":
		return "Remarks"
	case "h":
		return "Headers"
	case "toc":
		return "Table of Contents Entries"
	case "mt", "imt", "mte":
		return "Main Titles"
	case "ms":
		return "Major Section Headings"
	case "s", "is":
		return "Section Headings"
	case "r", "sr", "mr":
		return "Section Cross-References"
	case "d":
		return "Descriptive Titles"
	case "sp":
		return "Speaker Identifications"
	case "ip", "ipi", "im", "imi":
		return "Introduction Paragraphs"
	case "iot":
		return "Outline Titles"
	case "io":
		return "Outline Entries"
	case "c":
		return "Chapters"
	case "cl":
		return "Chapter Labels"
	case "v":
		return "Verses"
	case "p", "pc", "pi", "m", "mi", "nb", "ib":
		return "Paragraphs"
	case "q", "qr", "qc":
		return "Poetry Lines"
	case "b":
		return "Blank Lines"
	case "li":
		return "List Items"
	case "c~", "v~":
		return "Continuation Lines"
	default:
		return "Other"
	}
}

// sectionRank orders the document sections for the section-order state
// machine. Text and poetry share a rank since they interleave freely.
func sectionRank(s usfm.Section) int {
	switch s {
	case usfm.SectionHeader:
		return 1
	case usfm.SectionIntroduction:
		return 2
	case usfm.SectionText, usfm.SectionTextPoetry:
		return 3
	}
	return 0
}

// checkMarkers is the structural validator: marker counts, adjacency,
// section order, positional rules, per-line character-marker nesting and
// the note marker checks.
func (b *Book) checkMarkers() {
	var newlineErrors, internalErrors, noteErrors []string
	newlineCounts := NewFreqTable()
	internalCounts := NewFreqTable()
	noteCounts := NewFreqTable()
	functionalCounts := NewFreqTable()

	modified := []string{"[" + b.Code + "]"}
	lastSection := usfm.Section("")
	lastMarker, lastEmpty := "", false
	c, v := "0", "0"

	for i := range b.processedLines {
		pl := &b.processedLines[i]
		marker := pl.Marker
		switch marker {
		case "c":
			c, v = pl.Text, "0"
		case "v":
			if pl.Text != "" {
				v = pl.Text
			}
		}

		newlineCounts.Inc(marker)
		functionalCounts.Inc(functionalName(marker))
		if last := len(modified) - 1; modified[last] != marker {
			modified = append(modified, marker)
		}

		if !b.markers.IsNewlineMarker(marker) && marker != "c~" && marker != "v~" {
			newlineErrors = append(newlineErrors, fmt.Sprintf(
				"Unknown or non-newline marker \\%s at %s:%s", marker, c, v))
			b.addPriorityError(80, c, v,
				fmt.Sprintf("Unexpected newline marker \\%s", marker))
		}
		if b.markers.IsDeprecatedMarker(marker) {
			newlineErrors = append(newlineErrors, fmt.Sprintf(
				"Deprecated marker \\%s at %s:%s", marker, c, v))
		}

		// Positional rules.
		switch {
		case i == 0 && marker != "id":
			b.addPriorityError(100, c, v, "Book should start with an id line")
		case i > 0 && marker == "id":
			b.addPriorityError(100, c, v, "The id line should only be the first line")
		case (marker == "ide" || marker == "sts") && i > 8:
			b.addPriorityError(61, c, v,
				fmt.Sprintf("Marker \\%s appearing late in the file", marker))
		case marker == "mt2":
			prevOK := i > 0 && b.processedLines[i-1].Marker == "mt1"
			nextOK := i+1 < len(b.processedLines) && b.processedLines[i+1].Marker == "mt1"
			if !prevOK && !nextOK {
				b.addPriorityError(48, c, v,
					"Secondary title without adjacent main title")
			}
		}
		if marker == "nb" && (lastMarker == "s1" || lastMarker == "s2" ||
			lastMarker == "s3" || lastMarker == "s4") {
			newlineErrors = append(newlineErrors, fmt.Sprintf(
				"Paragraph continuation \\nb directly after section heading at %s:%s", c, v))
		}

		// Section-order state machine.
		if section := b.markers.MarkerOccursIn(marker); sectionRank(section) > 0 {
			lastRank, rank := sectionRank(lastSection), sectionRank(section)
			switch {
			case lastRank == 0 && rank == 2:
				newlineErrors = append(newlineErrors,
					"Missing header section before introduction section")
			case lastRank == 0 && rank == 3:
				newlineErrors = append(newlineErrors,
					"Missing header and introduction sections before main text")
			case lastRank == 1 && rank == 3:
				newlineErrors = append(newlineErrors,
					"Missing introduction section before main text")
			case lastRank == 3 && rank == 2:
				newlineErrors = append(newlineErrors, fmt.Sprintf(
					"Introduction material appearing after main text at %s:%s", c, v))
				b.addPriorityError(63, c, v, "Introduction material after main text")
			}
			if rank >= lastRank || (lastRank == 3 && rank == 2) {
				lastSection = section
			}
		}

		// Adjacency tables. Synthetic continuation lines are part of the
		// line they were split from, so they are transparent here, as are
		// remarks.
		adjacencyExempt := marker == "c~" || marker == "v~" || marker == "rem"
		if b.Options.CheckSequences && lastMarker != "" && !adjacencyExempt {
			a, bk := lastMarker, marker
			if lastEmpty {
				a += "=E"
			}
			if pl.Text == "" {
				bk += "=E"
			}
			p := markerPair{a, bk}
			if !commonAdjacency[p] {
				if rarerAdjacency[p] {
					newlineErrors = append(newlineErrors, fmt.Sprintf(
						"Rare marker combination \\%s following \\%s at %s:%s",
						marker, lastMarker, c, v))
				} else {
					newlineErrors = append(newlineErrors, fmt.Sprintf(
						"Unusual marker combination \\%s following \\%s at %s:%s",
						marker, lastMarker, c, v))
					b.addPriorityError(60, c, v, fmt.Sprintf(
						"Unusual marker combination \\%s following \\%s", marker, lastMarker))
				}
			}
		}
		if !adjacencyExempt {
			lastMarker, lastEmpty = marker, pl.Text == ""
		}

		// Content policy.
		if b.markers.IsNewlineMarker(marker) {
			switch b.markers.MarkerShouldHaveContent(marker) {
			case usfm.PolicyNever:
				if pl.Text != "" {
					b.addPriorityError(83, c, v,
						fmt.Sprintf("Marker \\%s should not contain text", marker))
				}
			case usfm.PolicyAlways:
				if pl.Text == "" && len(pl.Extras) == 0 {
					b.addPriorityError(47, c, v,
						fmt.Sprintf("Marker \\%s has no content", marker))
				}
			}
		}

		b.checkLineNesting(pl, c, v, internalCounts, &internalErrors)

		for ei := range pl.Extras {
			b.checkNoteMarkers(&pl.Extras[ei], c, v, noteCounts, &noteErrors)
			functionalCounts.Inc(map[NoteKind]string{
				Footnote:       "Footnotes",
				CrossReference: "Cross-References",
			}[pl.Extras[ei].Kind])
		}
	}

	b.modifiedMarkerList = modified

	sub := b.report.Sub("USFMs")
	sub.AddLines("Newline Marker Errors", newlineErrors)
	sub.AddLines("Internal Marker Errors", internalErrors)
	sub.AddLines("Footnote and Cross-Reference Marker Errors", noteErrors)
	if len(modified) > 1 {
		sub.AddLines("Modified Marker List", modified)
	}
	sub.SetCounts("All Newline Marker Counts", newlineCounts)
	sub.SetCounts("All Text Internal Marker Counts", internalCounts)
	sub.SetCounts("All Footnote and Cross-Reference Internal Marker Counts", noteCounts)
	sub.SetCounts("Functional Marker Counts", functionalCounts)
}

// checkLineNesting runs the per-line character-marker stack over one
// processed line's text, repairing a missing close by appending the
// synthetic close tag for the innermost open marker.
func (b *Book) checkLineNesting(pl *ProcessedLine, c, v string, counts *FreqTable, errs *[]string) {
	var stack []string
	for _, occ := range b.markers.MarkerListFromText(pl.Text) {
		if occ.NextChar == "*" {
			switch {
			case len(stack) > 0 && stack[len(stack)-1] == occ.Marker:
				stack = stack[:len(stack)-1]
			case containsString(stack, occ.Marker):
				*errs = append(*errs, fmt.Sprintf(
					"Overlapping markers: \\%s* closes a marker below the top at %s:%s",
					occ.Marker, c, v))
				b.addPriorityError(66, c, v,
					fmt.Sprintf("Overlapping \\%s* marker", occ.Marker))
				// Pop through to it, treating the markers above as
				// implicitly closed.
				for len(stack) > 0 {
					top := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					if top == occ.Marker {
						break
					}
				}
			default:
				*errs = append(*errs, fmt.Sprintf(
					"Unexpected closing marker \\%s* at %s:%s", occ.Marker, c, v))
				b.addPriorityError(66, c, v,
					fmt.Sprintf("Unexpected closing marker \\%s*", occ.Marker))
			}
			continue
		}

		counts.Inc(occ.Marker)
		if !b.markers.IsCharacterMarker(occ.Marker) {
			if occ.Marker != "c~" && occ.Marker != "v~" {
				*errs = append(*errs, fmt.Sprintf(
					"Non-internal marker \\%s within line at %s:%s", occ.Marker, c, v))
				b.addPriorityError(66, c, v,
					fmt.Sprintf("Marker \\%s shouldn't appear within a line", occ.Marker))
			}
			continue
		}
		if b.markers.MarkerShouldBeClosed(occ.Marker) != usfm.PolicyNever {
			stack = append(stack, occ.Marker)
		}
	}

	switch {
	case len(stack) == 1:
		open := stack[0]
		if b.markers.MarkerShouldBeClosed(open) == usfm.PolicyAlways {
			*errs = append(*errs, fmt.Sprintf(
				"Marker \\%s not closed at end of line at %s:%s", open, c, v))
			b.addPriorityError(36, c, v,
				fmt.Sprintf("Marker \\%s not closed at end of line", open))
			pl.Text += "\\" + open + "*"
		}
		// A Sometimes-closed marker auto-closes at end of line.
	case len(stack) > 1:
		*errs = append(*errs, fmt.Sprintf(
			"Multiple unclosed markers %v at end of line at %s:%s", stack, c, v))
		b.addPriorityError(36, c, v, fmt.Sprintf(
			"Marker \\%s (and %d other) not closed at end of line",
			stack[len(stack)-1], len(stack)-1))
		pl.Text += "\\" + stack[len(stack)-1] + "*"
	}
}

// checkNoteMarkers validates one extracted note's internal markers: the
// doubled-backslash repair, the note marker stack with auto-closing
// Sometimes semantics, and the typical field-set comparison.
func (b *Book) checkNoteMarkers(extra *NoteExtra, c, v string, counts *FreqTable, errs *[]string) {
	if strings.Contains(extra.Text, "\\\\") {
		*errs = append(*errs, fmt.Sprintf(
			"Doubled backslash in %s at %s:%s", extra.Kind.Name(), c, v))
		extra.Text = strings.ReplaceAll(extra.Text, "\\\\", "\\")
	}

	var stack []string
	var fields []string
	for _, occ := range b.markers.MarkerListFromText(extra.Text) {
		if occ.NextChar == "*" {
			if len(stack) > 0 && stack[len(stack)-1] == occ.Marker {
				stack = stack[:len(stack)-1]
			} else {
				*errs = append(*errs, fmt.Sprintf(
					"Unexpected closing marker \\%s* in %s at %s:%s",
					occ.Marker, extra.Kind.Name(), c, v))
			}
			continue
		}
		counts.Inc(occ.Marker)
		if !b.markers.IsNoteMarker(occ.Marker) && !b.markers.IsCharacterMarker(occ.Marker) {
			*errs = append(*errs, fmt.Sprintf(
				"Unexpected marker \\%s in %s at %s:%s",
				occ.Marker, extra.Kind.Name(), c, v))
			continue
		}
		if occ.NextChar == " " {
			fields = append(fields, occ.Marker+" ")
		}
		// A new note field auto-closes a Sometimes-closed predecessor.
		if len(stack) > 0 &&
			b.markers.MarkerShouldBeClosed(stack[len(stack)-1]) == usfm.PolicySometimes &&
			b.markers.IsNoteMarker(occ.Marker) {
			stack = stack[:len(stack)-1]
		}
		if b.markers.MarkerShouldBeClosed(occ.Marker) != usfm.PolicyNever {
			stack = append(stack, occ.Marker)
		}
	}
	for _, open := range stack {
		if b.markers.MarkerShouldBeClosed(open) == usfm.PolicyAlways {
			*errs = append(*errs, fmt.Sprintf(
				"Marker \\%s not closed in %s at %s:%s",
				open, extra.Kind.Name(), c, v))
			b.addPriorityError(26, c, v, fmt.Sprintf(
				"Marker \\%s not closed in %s", open, extra.Kind.Name()))
		}
	}

	if len(fields) > 0 {
		if !usfm.MatchesNoteSet(fields, b.markers.TypicalNoteSets(string(extra.Kind))) {
			*errs = append(*errs, fmt.Sprintf(
				"Unusual %s field set %v at %s:%s", extra.Kind.Name(), fields, c, v))
		}
	}
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
