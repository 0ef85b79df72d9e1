package book

// Features summarizes what a book contains, derived in a single pass over
// the processed lines.
type Features struct {
	ChapterCount        int
	VerseCount          int
	CompletedVerseCount int
	SectionHeadingCount int
	FootnoteCount       int
	CrossReferenceCount int
	HasIntroduction     bool
	HasPoetry           bool
	HasSectionReferences bool

	// PercentComplete is the share of verses that carry text, 0 to 100.
	PercentComplete int
	// SeemsFinished reports whether every verse carries text.
	SeemsFinished bool
}

// Discover derives the book's feature summary. The book is processed
// first if necessary.
func (b *Book) Discover() (Features, error) {
	if !b.processed {
		if err := b.Process(); err != nil {
			return Features{}, err
		}
	}
	var f Features
	verseHasText := false
	sawVerse := false
	for i := range b.processedLines {
		pl := &b.processedLines[i]
		switch pl.Marker {
		case "c":
			f.ChapterCount++
		case "v":
			if sawVerse && verseHasText {
				f.CompletedVerseCount++
			}
			f.VerseCount++
			sawVerse = true
			verseHasText = false
		case "s1", "s2", "s3", "s4":
			f.SectionHeadingCount++
		case "r":
			f.HasSectionReferences = true
		case "ip", "ipi", "im", "imi", "iot", "io1", "io2", "io3", "imt1", "imt2", "is1", "is2":
			f.HasIntroduction = true
		case "q1", "q2", "q3", "q4", "qr", "qc":
			f.HasPoetry = true
		case "v~":
			if pl.CleanText != "" {
				verseHasText = true
			}
		}
		for _, extra := range pl.Extras {
			if extra.Kind == CrossReference {
				f.CrossReferenceCount++
			} else {
				f.FootnoteCount++
			}
		}
	}
	if sawVerse && verseHasText {
		f.CompletedVerseCount++
	}
	if f.VerseCount > 0 {
		f.PercentComplete = f.CompletedVerseCount * 100 / f.VerseCount
		f.SeemsFinished = f.CompletedVerseCount == f.VerseCount
	}
	return f, nil
}
