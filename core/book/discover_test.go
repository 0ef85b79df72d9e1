package book

import "testing"

func TestDiscover(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"ip", "An introduction."},
		[2]string{"c", "1"},
		[2]string{"s1", "First section"},
		[2]string{"r", "(Luke 3)"},
		[2]string{"v", "1 Verse one\\f + \\fr 1:1 \\ft A note.\\f* here."},
		[2]string{"v", "2 Verse two\\x - \\xo 1:2 \\xt Gen 1:1.\\x* here."},
		[2]string{"v", "3"},
		[2]string{"c", "2"},
		[2]string{"q1", "A poetry line"},
		[2]string{"v", "1 More text."},
	)
	f, err := b.Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if f.ChapterCount != 2 {
		t.Errorf("ChapterCount = %d, want 2", f.ChapterCount)
	}
	if f.VerseCount != 4 {
		t.Errorf("VerseCount = %d, want 4", f.VerseCount)
	}
	// Verse 1:3 carries no text.
	if f.CompletedVerseCount != 3 {
		t.Errorf("CompletedVerseCount = %d, want 3", f.CompletedVerseCount)
	}
	if f.PercentComplete != 75 {
		t.Errorf("PercentComplete = %d, want 75", f.PercentComplete)
	}
	if f.SeemsFinished {
		t.Error("SeemsFinished = true for a book with an empty verse")
	}
	if f.SectionHeadingCount != 1 {
		t.Errorf("SectionHeadingCount = %d, want 1", f.SectionHeadingCount)
	}
	if f.FootnoteCount != 1 || f.CrossReferenceCount != 1 {
		t.Errorf("note counts = %d fn, %d xr", f.FootnoteCount, f.CrossReferenceCount)
	}
	if !f.HasIntroduction || !f.HasPoetry || !f.HasSectionReferences {
		t.Errorf("feature flags = %+v", f)
	}
}

func TestGetAddedUnits(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"s1", "Heading"},
		[2]string{"p", ""},
		[2]string{"v", "1 First verse."},
		[2]string{"p", ""},
		[2]string{"v", "2 Second verse."},
		[2]string{"q1", "Poetry."},
	)
	units, err := b.GetAddedUnits()
	if err != nil {
		t.Fatalf("GetAddedUnits: %v", err)
	}
	if len(units.Paragraphs) != 2 {
		t.Fatalf("Paragraphs = %+v", units.Paragraphs)
	}
	if units.Paragraphs[0] != (VerseRef{Chapter: "1", Verse: "0"}) {
		t.Errorf("Paragraphs[0] = %+v", units.Paragraphs[0])
	}
	if units.Paragraphs[1] != (VerseRef{Chapter: "1", Verse: "1"}) {
		t.Errorf("Paragraphs[1] = %+v", units.Paragraphs[1])
	}
	if len(units.QuoteParagraphs) != 1 || units.QuoteParagraphs[0].Verse != "2" {
		t.Errorf("QuoteParagraphs = %+v", units.QuoteParagraphs)
	}
	if len(units.SectionHeadings) != 1 {
		t.Errorf("SectionHeadings = %+v", units.SectionHeadings)
	}
}

func TestAddUnitRefSuffixesRepeats(t *testing.T) {
	var list []VerseRef
	list = addUnitRef(list, "1", "5")
	list = addUnitRef(list, "1", "5")
	list = addUnitRef(list, "1", "5")
	list = addUnitRef(list, "1", "12")

	want := []string{"5", "5a", "5b", "12"}
	for i, w := range want {
		if list[i].Verse != w {
			t.Errorf("list[%d].Verse = %q, want %q", i, list[i].Verse, w)
		}
	}
}
