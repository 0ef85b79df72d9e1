package book

import "strings"

// AddedUnits lists the positions of the structural units a translation
// team added beyond the bare chapter/verse scheme: paragraph breaks,
// poetry paragraphs, section headings and section cross-references.
// Repeats within the same verse carry "a", "b", ... verse suffixes so
// each entry stays distinct.
type AddedUnits struct {
	Paragraphs        []VerseRef
	QuoteParagraphs   []VerseRef
	SectionHeadings   []VerseRef
	SectionReferences []VerseRef
}

// addUnitRef appends (c, v) to list, suffixing the verse on repeats.
func addUnitRef(list []VerseRef, c, v string) []VerseRef {
	repeats := 0
	for _, r := range list {
		suffixed := len(r.Verse) == len(v)+1 && strings.HasPrefix(r.Verse, v) &&
			r.Verse[len(v)] >= 'a' && r.Verse[len(v)] <= 'z'
		if r.Chapter == c && (r.Verse == v || suffixed) {
			repeats++
		}
	}
	if repeats > 0 {
		v += string(rune('a' + repeats - 1))
	}
	return append(list, VerseRef{Chapter: c, Verse: v})
}

// GetAddedUnits walks the processed lines collecting the added units. The
// book is processed first if necessary.
func (b *Book) GetAddedUnits() (AddedUnits, error) {
	if !b.processed {
		if err := b.Process(); err != nil {
			return AddedUnits{}, err
		}
	}
	var units AddedUnits
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
		case "p", "pc", "m", "mi", "nb":
			units.Paragraphs = addUnitRef(units.Paragraphs, c, v)
		case "q1", "q2", "q3", "q4":
			units.QuoteParagraphs = addUnitRef(units.QuoteParagraphs, c, v)
		case "s1", "s2", "s3", "s4":
			units.SectionHeadings = addUnitRef(units.SectionHeadings, c, v)
		case "r":
			units.SectionReferences = addUnitRef(units.SectionReferences, c, v)
		}
	}
	return units, nil
}
