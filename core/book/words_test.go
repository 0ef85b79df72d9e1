package book

import "testing"

func TestIsReferenceToken(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"3:16", true},
		{"12", true},
		{"1-2", true},
		{"1,2", true},
		{"word", false},
		{"3rd", false},
		{":-", false},
	}
	for _, tt := range tests {
		if got := isReferenceToken(tt.in); got != tt.want {
			t.Errorf("isReferenceToken(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCheckWordsRepeatedWord(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 He went to the the city."},
	)
	mustProcess(t, b)
	b.checkWords()
	got := diagnosticsWithPriority(b, 23)
	if len(got) != 1 {
		t.Fatalf("repeated-word diagnostics = %+v, want one", got)
	}
}

func TestCheckWordsRepeatedAcrossLines(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 He walked toward"},
		[2]string{"v", "2 Toward the city."},
	)
	mustProcess(t, b)
	b.checkWords()
	// Case-insensitive duplicate spanning the line break.
	if got := diagnosticsWithPriority(b, 23); len(got) != 1 {
		t.Errorf("cross-line duplicate diagnostics = %+v, want one", got)
	}
}

func TestCheckWordsCounts(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 The city saw the King."},
	)
	mustProcess(t, b)
	b.checkWords()

	sub := b.Report().Category("Words")
	if sub == nil || sub.Sub == nil {
		t.Fatal("no Words sub-report")
	}
	counts := sub.Sub.Category("All Word Counts")
	if counts == nil {
		t.Fatal("no word counts")
	}
	if got := counts.Counts.Get("The"); got != 1 {
		t.Errorf("count(The) = %d, want 1", got)
	}
	if got := counts.Counts.Get("the"); got != 1 {
		t.Errorf("count(the) = %d, want 1", got)
	}
	ci := sub.Sub.Category("Case Insensitive Word Counts")
	if ci == nil || ci.Counts.Get("the") != 2 {
		t.Error("case-insensitive counts wrong")
	}
	// Punctuation is stripped before counting.
	if got := counts.Counts.Get("King"); got != 1 {
		t.Errorf("count(King) = %d, want 1", got)
	}
}

func TestCheckWordsSkipsReferences(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 Compare 3:16 and 3:16 closely."},
	)
	mustProcess(t, b)
	b.checkWords()
	if got := diagnosticsWithPriority(b, 23); len(got) != 0 {
		t.Errorf("reference tokens flagged as repeated words: %+v", got)
	}
}

func TestCheckWordsSplitsOnDashes(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 night—night fell."},
	)
	mustProcess(t, b)
	b.checkWords()
	if got := diagnosticsWithPriority(b, 23); len(got) != 1 {
		t.Errorf("dash-separated duplicate diagnostics = %+v, want one", got)
	}
}
