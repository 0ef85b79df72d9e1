package book

import (
	"fmt"
	"strings"
)

const notesCategory = "Notes"

// noteField is one (code, text) pair parsed out of a note body.
type noteField struct {
	code string
	text string
}

// Field scanner states.
const (
	scanLeader    = iota // reading the leader text before the first field
	scanAwaitCode        // a backslash was seen, the code follows
	scanCode             // accumulating the field code
	scanText             // accumulating the field text
	scanAwaitNext        // after a close token, awaiting the next field
)

// parseNoteFields scans a note body into its leader and ordered field
// list. Close tokens must name the field they close; mismatches are
// reported through bad.
func parseNoteFields(text string, bad func(code string)) (leader string, fields []noteField) {
	status := scanLeader
	var sb strings.Builder
	code := ""
	flush := func() {
		if code != "" {
			fields = append(fields, noteField{code: code, text: strings.TrimRight(sb.String(), " ")})
		}
		sb.Reset()
	}
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch status {
		case scanLeader:
			if ch == '\\' {
				leader = sb.String()
				sb.Reset()
				status = scanAwaitCode
			} else {
				sb.WriteByte(ch)
			}
		case scanAwaitCode, scanCode:
			switch ch {
			case ' ':
				status = scanText
			case '*':
				// A close token where a field code was expected.
				if len(fields) == 0 || fields[len(fields)-1].code != code {
					bad(code)
				}
				code = ""
				status = scanAwaitNext
			default:
				if status == scanAwaitCode {
					code = ""
					status = scanCode
				}
				code += string(ch)
			}
		case scanText:
			if ch == '\\' {
				flush()
				status = scanAwaitCode
			} else {
				sb.WriteByte(ch)
			}
		case scanAwaitNext:
			if ch == '\\' {
				status = scanAwaitCode
			}
			// Stray text between fields is dropped.
		}
	}
	switch status {
	case scanLeader:
		leader = sb.String()
	case scanText:
		flush()
	}
	return leader, fields
}

// checkNotes validates every extracted footnote and cross-reference: the
// field sequence, the leader character, terminal punctuation, and the
// chapter:verse anchor.
func (b *Book) checkNotes() {
	var fnErrs, xrErrs, fnLines, xrLines []string
	leaderCounts := NewFreqTable()
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
		for ei := range pl.Extras {
			extra := &pl.Extras[ei]
			errs := &fnErrs
			noteLines := &fnLines
			mismatchPrio, periodPrio, anchorPrio, missingAnchorPrio, leaderPrio := 32, 33, 42, 39, 26
			anchorCode := "fr"
			if extra.Kind == CrossReference {
				errs = &xrErrs
				noteLines = &xrLines
				mismatchPrio, periodPrio, anchorPrio, missingAnchorPrio, leaderPrio = 31, 31, 41, 38, 25
				anchorCode = "xo"
			}
			*noteLines = append(*noteLines, fmt.Sprintf("%s:%s %s", c, v, extra.Text))

			// Character formatting inside the note only obscures the
			// field structure here.
			body := extra.Text
			for _, tok := range b.markerRemovalList() {
				if strings.Contains(body, tok) {
					body = strings.ReplaceAll(body, tok, "")
				}
			}

			leader, fields := parseNoteFields(body, func(code string) {
				b.addPriorityError(mismatchPrio, c, v, fmt.Sprintf(
					"Mismatching close marker \\%s* in %s", code, extra.Kind.Name()))
				*errs = append(*errs, fmt.Sprintf(
					"Mismatching close marker \\%s* at %s:%s", code, c, v))
			})

			leader = strings.TrimRight(leader, " ")
			switch {
			case leader == "":
				*errs = append(*errs, fmt.Sprintf(
					"Missing %s leader character at %s:%s", extra.Kind.Name(), c, v))
			case len(leader) > 2:
				b.addPriorityError(leaderPrio, c, v, fmt.Sprintf(
					"Multiple %s leader characters %q", extra.Kind.Name(), leader))
				*errs = append(*errs, fmt.Sprintf(
					"Multiple leader characters %q at %s:%s", leader, c, v))
			default:
				leaderCounts.Inc(leader)
			}

			lastCode := ""
			anchorText := ""
			for fi := range fields {
				f := &fields[fi]
				if f.code == lastCode {
					b.addPriorityError(35, c, v, fmt.Sprintf(
						"Consecutive duplicate \\%s fields in %s", f.code, extra.Kind.Name()))
					*errs = append(*errs, fmt.Sprintf(
						"Consecutive duplicate \\%s fields at %s:%s", f.code, c, v))
				}
				lastCode = f.code
				if anchorText == "" && f.code == anchorCode {
					anchorText = f.text
				}
			}

			// Terminal punctuation is judged on the whole cleaned note,
			// letting a closing quote or bracket follow the stop.
			final := strings.TrimRight(extra.CleanText, "”»’›\"')]")
			if final != "" && !strings.HasSuffix(final, ".") &&
				!strings.HasSuffix(final, "?") && !strings.HasSuffix(final, "!") {
				b.addPriorityError(periodPrio, c, v, fmt.Sprintf(
					"%s does not end with a period", extra.Kind.Name()))
				*errs = append(*errs, fmt.Sprintf(
					"Note does not end with a period at %s:%s", c, v))
			}

			switch {
			case anchorText == "":
				b.addPriorityError(missingAnchorPrio, c, v, fmt.Sprintf(
					"Missing \\%s anchor reference in %s", anchorCode, extra.Kind.Name()))
				*errs = append(*errs, fmt.Sprintf(
					"Missing \\%s anchor reference at %s:%s", anchorCode, c, v))
			default:
				trimmed := strings.TrimRight(anchorText, " ")
				if cut := strings.TrimRight(trimmed, ":;,."); cut != trimmed {
					if !strings.HasSuffix(trimmed, ":") {
						b.addPriorityError(27, c, v, fmt.Sprintf(
							"Unexpected separator after anchor reference %q", trimmed))
					}
					trimmed = cut
				}
				if b.anchors != nil && !b.anchors.Matches(b.Code, c, v, trimmed, extra.Kind) {
					b.addPriorityError(anchorPrio, c, v, fmt.Sprintf(
						"%s anchor reference %q does not match %s:%s",
						extra.Kind.Name(), trimmed, c, v))
					*errs = append(*errs, fmt.Sprintf(
						"Anchor reference %q does not match %s:%s", trimmed, c, v))
				}
			}
		}
	}

	sub := b.report.Sub(notesCategory)
	sub.AddLines("Footnote Errors", fnErrs)
	sub.AddLines("Cross-reference Errors", xrErrs)
	sub.AddLines("Footnote Lines", fnLines)
	sub.AddLines("Cross-reference Lines", xrLines)
	sub.SetCounts("Leader Counts", leaderCounts)
}
