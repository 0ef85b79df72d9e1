package book

import (
	"fmt"
	"strings"
)

const (
	headingsCategory     = "Headings"
	introductionCategory = "Introduction"
)

// checkHeadings verifies that titles, section headings and section
// cross-references carry text and end appropriately for their role.
func (b *Book) checkHeadings() {
	var errs, titleLines, sectionLines, xrefLines []string
	c, v := "0", "0"

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
		text := pl.CleanText

		switch pl.Marker {
		case "mt1", "mt2", "mt3", "mt4":
			titleLines = append(titleLines, fmt.Sprintf("%s: %s", pl.Marker, text))
			switch {
			case text == "":
				b.addPriorityError(59, c, v,
					fmt.Sprintf("Missing title text for \\%s", pl.Marker))
				errs = append(errs, fmt.Sprintf(
					"Missing title text for \\%s at %s:%s", pl.Marker, c, v))
			case strings.HasSuffix(text, "."):
				b.addPriorityError(69, c, v,
					fmt.Sprintf("Title \\%s ends with a period", pl.Marker))
				errs = append(errs, fmt.Sprintf(
					"Title ends with a period: %q at %s:%s", text, c, v))
			}
		case "s1", "s2", "s3", "s4":
			sectionLines = append(sectionLines, fmt.Sprintf("%s:%s %s: %s", c, v, pl.Marker, text))
			switch {
			case text == "":
				b.addPriorityError(58, c, v,
					fmt.Sprintf("Missing section heading text for \\%s", pl.Marker))
				errs = append(errs, fmt.Sprintf(
					"Missing section heading text for \\%s at %s:%s", pl.Marker, c, v))
			case strings.HasSuffix(text, "."):
				b.addPriorityError(68, c, v, "Section heading ends with a period")
				errs = append(errs, fmt.Sprintf(
					"Section heading ends with a period: %q at %s:%s", text, c, v))
			}
		case "r":
			xrefLines = append(xrefLines, fmt.Sprintf("%s:%s %s", c, v, text))
			switch {
			case text == "":
				b.addPriorityError(57, c, v, "Missing section cross-reference text")
				errs = append(errs, fmt.Sprintf(
					"Missing section cross-reference text at %s:%s", c, v))
			case !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")"):
				b.addPriorityError(67, c, v,
					"Section cross-reference not enclosed in parentheses")
				errs = append(errs, fmt.Sprintf(
					"Section cross-reference not in parentheses: %q at %s:%s", text, c, v))
			}
		}
	}

	sub := b.report.Sub(headingsCategory)
	sub.AddLines("Possible Heading Errors", errs)
	sub.AddLines("Main Title Lines", titleLines)
	sub.AddLines("Section Heading Lines", sectionLines)
	sub.AddLines("Section Cross-Reference Lines", xrefLines)
}

// checkIntroduction verifies the introduction fields: titles and outline
// entries must not end with a period, paragraphs must end like sentences.
func (b *Book) checkIntroduction() {
	var errs []string
	c, v := "0", "0"

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
		text := pl.CleanText

		emptyPrio, periodPrio := 0, 0
		switch pl.Marker {
		case "imt1", "imt2", "imt3", "is1", "is2":
			emptyPrio, periodPrio = 39, 49
		case "iot":
			emptyPrio, periodPrio = 38, 48
		case "io1", "io2", "io3":
			emptyPrio, periodPrio = 37, 47
		case "ip", "ipi", "im", "imi":
			if text == "" {
				b.addPriorityError(36, c, v,
					fmt.Sprintf("Missing introduction text for \\%s", pl.Marker))
				errs = append(errs, fmt.Sprintf(
					"Missing introduction text for \\%s at %s:%s", pl.Marker, c, v))
				continue
			}
			if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "?") &&
				!strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "…") {
				prio := 46
				if strings.HasSuffix(text, ")") || strings.HasSuffix(text, "]") {
					prio = 26
				}
				b.addPriorityError(prio, c, v, fmt.Sprintf(
					"Introduction paragraph \\%s does not end with a period", pl.Marker))
				errs = append(errs, fmt.Sprintf(
					"Introduction paragraph does not end with a period at %s:%s", c, v))
			}
			continue
		default:
			continue
		}

		switch {
		case text == "":
			b.addPriorityError(emptyPrio, c, v,
				fmt.Sprintf("Missing text for \\%s", pl.Marker))
			errs = append(errs, fmt.Sprintf(
				"Missing text for \\%s at %s:%s", pl.Marker, c, v))
		case strings.HasSuffix(text, "."):
			b.addPriorityError(periodPrio, c, v,
				fmt.Sprintf("\\%s field ends with a period", pl.Marker))
			errs = append(errs, fmt.Sprintf(
				"\\%s field ends with a period: %q at %s:%s", pl.Marker, text, c, v))
		}
	}

	b.report.Sub(introductionCategory).AddLines("Possible Introduction Errors", errs)
}
