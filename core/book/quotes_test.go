package book

import "testing"

func quoteDiagnostics(b *Book) []Diagnostic {
	var out []Diagnostic
	for _, p := range []int{40, 42, 43, 45, 47, 50, 51, 52, 53, 54, 55, 56} {
		out = append(out, diagnosticsWithPriority(b, p)...)
	}
	return out
}

func TestSpeechMarksReopenedAcrossParagraph(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 He said, “Hello.”"},
		[2]string{"p", "“World.”"},
	)
	mustProcess(t, b)
	b.checkSpeechMarks()
	if got := quoteDiagnostics(b); len(got) != 0 {
		t.Errorf("diagnostics on balanced paragraphs: %+v", got)
	}
}

func TestSpeechMarksContinuedQuoteReopening(t *testing.T) {
	// A quote left open at a paragraph break is legitimate when the new
	// paragraph restates the opening glyph.
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 He said, “This speech"},
		[2]string{"p", "“continues here.”"},
	)
	mustProcess(t, b)
	b.checkSpeechMarks()
	if got := quoteDiagnostics(b); len(got) != 0 {
		t.Errorf("diagnostics on continued quotation: %+v", got)
	}
}

func TestSpeechMarksMissingReopening(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 He said, “Hello"},
		[2]string{"p", "world.”"},
	)
	mustProcess(t, b)
	b.checkSpeechMarks()

	got := quoteDiagnostics(b)
	if len(got) != 1 {
		t.Fatalf("diagnostics = %+v, want exactly one", got)
	}
	if got[0].Priority != 55 {
		t.Errorf("diagnostic priority = %d, want 55", got[0].Priority)
	}
}

func TestSpeechMarksUnopenedClose(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 He finished speaking.” Then he left."},
	)
	mustProcess(t, b)
	b.checkSpeechMarks()
	if got := diagnosticsWithPriority(b, 52); len(got) != 1 {
		t.Errorf("unopened-close diagnostics = %+v, want one", got)
	}
}

func TestSpeechMarksMismatchedLevels(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 He said, “She told me, ‘Go now.” Later."},
	)
	mustProcess(t, b)
	b.checkSpeechMarks()
	if got := diagnosticsWithPriority(b, 51); len(got) != 1 {
		t.Errorf("mismatch diagnostics = %+v, want one", got)
	}
}

func TestSpeechMarksUnclosedAtBookEnd(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 He said, “Wait"},
	)
	mustProcess(t, b)
	b.checkSpeechMarks()
	if got := diagnosticsWithPriority(b, 54); len(got) != 1 {
		t.Errorf("end-of-book diagnostics = %+v, want one", got)
	}
}

func TestSpeechMarksNestingDepth(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 “a ‘b «c ‹d› e» f’ g”"},
	)
	mustProcess(t, b)
	b.checkSpeechMarks()
	if got := diagnosticsWithPriority(b, 40); len(got) != 1 {
		t.Errorf("fourth-level diagnostics = %+v, want one", got)
	}
	if got := diagnosticsWithPriority(b, 50); len(got) != 0 {
		t.Errorf("too-deep diagnostics = %+v, want none at four levels", got)
	}
}

func TestSpeechMarksRepeatedOpeningStaysBalanced(t *testing.T) {
	// The repeated opening glyph is diagnosed once but still counts as a
	// nesting level, so the two closes that follow balance out.
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 “a “b” c”"},
	)
	mustProcess(t, b)
	b.checkSpeechMarks()
	if got := diagnosticsWithPriority(b, 53); len(got) != 1 {
		t.Errorf("repeated-opening diagnostics = %+v, want one", got)
	}
	if got := diagnosticsWithPriority(b, 52); len(got) != 0 {
		t.Errorf("unopened-close diagnostics = %+v, want none", got)
	}
	if got := diagnosticsWithPriority(b, 54); len(got) != 0 {
		t.Errorf("end-of-book diagnostics = %+v, want none", got)
	}
}

func TestSpeechMarksUnnecessaryCloseBeforeHeadingWhileNested(t *testing.T) {
	// The inner quote is closed before the heading and reopened after it
	// even though the outer quote is still open.
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 “He said, ‘Look here.’"},
		[2]string{"s1", "A heading"},
		[2]string{"v", "2 ‘Look again,’ he said.”"},
	)
	mustProcess(t, b)
	b.checkSpeechMarks()
	if got := diagnosticsWithPriority(b, 50); len(got) != 1 {
		t.Errorf("unnecessary-close diagnostics = %+v, want one", got)
	}
	if got := diagnosticsWithPriority(b, 54); len(got) != 0 {
		t.Errorf("end-of-book diagnostics = %+v, want none", got)
	}
}

func TestSpeechMarksCloseAtParagraphEndPolicy(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 He said, “Hello"},
		[2]string{"p", "A new paragraph."},
	)
	b.Options.Quotes.CloseQuotesAtParagraphEnd = true
	mustProcess(t, b)
	b.checkSpeechMarks()

	got := quoteDiagnostics(b)
	if len(got) != 1 {
		t.Fatalf("diagnostics = %+v, want exactly one", got)
	}
	if got[0].Priority != 56 {
		t.Errorf("diagnostic priority = %d, want 56", got[0].Priority)
	}
}

func TestNoteQuotesBalanceIndependently(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 Some text\\f + \\fr 1:1 \\ft Or, “unbalanced.\\f* more."},
	)
	mustProcess(t, b)
	b.checkSpeechMarks()
	if got := diagnosticsWithPriority(b, 47); len(got) != 1 {
		t.Errorf("note-unclosed diagnostics = %+v, want one", got)
	}
	// The surrounding text is balanced, so no book-level diagnostics.
	if got := diagnosticsWithPriority(b, 54); len(got) != 0 {
		t.Errorf("book-level diagnostics leaked from note: %+v", got)
	}
}
