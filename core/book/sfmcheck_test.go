package book

import (
	"strings"
	"testing"
)

func TestCheckLineNestingClosedMarker(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 Thus says the \\qt Lord\\qt* of hosts."},
	)
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := diagnosticsWithPriority(b, 36); len(got) != 0 {
		t.Errorf("unclosed-marker diagnostics on balanced line: %+v", got)
	}
	if got := diagnosticsWithPriority(b, 66); len(got) != 0 {
		t.Errorf("nesting diagnostics on balanced line: %+v", got)
	}
}

func TestCheckLineNestingUnclosedMarkerRepaired(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 Thus says the \\qt Lord"},
	)
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	got := diagnosticsWithPriority(b, 36)
	if len(got) != 1 {
		t.Fatalf("unclosed-marker diagnostics = %+v, want one", got)
	}
	last := b.Lines()[len(b.Lines())-1]
	if !strings.HasSuffix(last.Text, "\\qt*") {
		t.Errorf("repaired text = %q, want \\qt* suffix", last.Text)
	}
}

func TestCheckLineNestingMultipleUnclosed(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 The \\nd Lord \\qt said"},
	)
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	got := diagnosticsWithPriority(b, 36)
	if len(got) != 1 {
		t.Fatalf("diagnostics = %+v, want one", got)
	}
	last := b.Lines()[len(b.Lines())-1]
	if !strings.HasSuffix(last.Text, "\\qt*") {
		t.Errorf("repaired text = %q, want innermost \\qt* appended", last.Text)
	}
}

func TestCheckLineNestingUnexpectedClose(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 Spoken words\\qt* here."},
	)
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := diagnosticsWithPriority(b, 66); len(got) != 1 {
		t.Errorf("unexpected-close diagnostics = %+v, want one", got)
	}
}

func TestCheckLineNestingOverlap(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 A \\nd deep \\qt tangle\\nd* here\\qt* done."},
	)
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	overlaps := diagnosticsWithPriority(b, 66)
	if len(overlaps) == 0 {
		t.Error("no overlap diagnostics for interleaved markers")
	}
}

func TestCheckMarkersIdPosition(t *testing.T) {
	tests := []struct {
		name  string
		lines [][2]string
		want  int // expected priority-100 diagnostic count
	}{
		{
			name: "id first",
			lines: [][2]string{
				{"id", "TST"},
				{"c", "1"},
				{"v", "1 Text."},
			},
			want: 0,
		},
		{
			name: "missing id",
			lines: [][2]string{
				{"c", "1"},
				{"v", "1 Text."},
			},
			want: 1,
		},
		{
			name: "id late",
			lines: [][2]string{
				{"p", "Preface."},
				{"id", "TST"},
				{"c", "1"},
				{"v", "1 Text."},
			},
			want: 2, // first line is not id, and id occurs later
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBook(t, tt.lines...)
			if err := b.Check(); err != nil {
				t.Fatalf("Check: %v", err)
			}
			if got := diagnosticsWithPriority(b, 100); len(got) != tt.want {
				t.Errorf("priority-100 diagnostics = %+v, want %d", got, tt.want)
			}
		})
	}
}

func TestCheckMarkersUnknownNewlineMarker(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"zz", "Mystery line."},
		[2]string{"v", "1 Text."},
	)
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := diagnosticsWithPriority(b, 80); len(got) != 1 {
		t.Errorf("unknown-marker diagnostics = %+v, want one", got)
	}
	sub := b.Report().Category("USFMs")
	if sub == nil || sub.Sub == nil {
		t.Fatal("no USFMs sub-report")
	}
	cat := sub.Sub.Category("Newline Marker Errors")
	if cat == nil || len(cat.Lines) == 0 {
		t.Error("unknown marker not listed in newline marker errors")
	}
}

func TestCheckMarkersContentPolicy(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"s1", ""},
		[2]string{"nb", "should be empty"},
		[2]string{"v", "1 Text."},
	)
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := diagnosticsWithPriority(b, 47); len(got) != 1 {
		t.Errorf("empty-always-marker diagnostics = %+v, want one", got)
	}
	if got := diagnosticsWithPriority(b, 83); len(got) != 1 {
		t.Errorf("content-on-never-marker diagnostics = %+v, want one", got)
	}
}

func TestModifiedMarkerList(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 One."},
		[2]string{"v", "2 Two."},
		[2]string{"p", "A paragraph."},
	)
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	got := b.ModifiedMarkerList()
	// Consecutive v/v~ pairs collapse to one run each.
	want := []string{"[TST]", "id", "c", "v", "v~", "v", "v~", "p"}
	if len(got) != len(want) {
		t.Fatalf("ModifiedMarkerList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStructuralSignature(t *testing.T) {
	build := func(lines ...[2]string) *Book {
		b := newTestBook(t, lines...)
		if err := b.Check(); err != nil {
			t.Fatalf("Check: %v", err)
		}
		return b
	}
	a := build(
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 One."},
	)
	same := build(
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 A different text entirely."},
	)
	different := build(
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"p", "Prose."},
		[2]string{"v", "1 One."},
	)

	if a.StructuralSignature() == "" {
		t.Fatal("empty signature after Check")
	}
	if a.StructuralSignature() != same.StructuralSignature() {
		t.Error("signature differs for identical structure")
	}
	if a.StructuralSignature() == different.StructuralSignature() {
		t.Error("signature identical for differing structure")
	}

	unchecked := newTestBook(t, [2]string{"id", "TST"})
	if got := unchecked.StructuralSignature(); got != "" {
		t.Errorf("signature before Check = %q, want empty", got)
	}
}

func TestCheckSequencesAdjacency(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 Text."},
		[2]string{"nb", ""},
		[2]string{"ide", "UTF-8"},
	)
	b.Options.CheckSequences = true
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := diagnosticsWithPriority(b, 60); len(got) == 0 {
		t.Error("no unusual-combination diagnostics with sequence checking on")
	}
}
