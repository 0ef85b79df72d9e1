package anchor

import (
	"testing"

	"github.com/bible-hub/BibleOrgSys/core/book"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in          string
		wantChapter int
		wantVerses  []int
		wantErr     bool
	}{
		{"2:3", 2, []int{3}, false},
		{"2.3", 2, []int{3}, false},
		{"2:3a", 2, []int{3}, false},
		{"2:3-5", 2, []int{3, 4, 5}, false},
		{"2:3–5", 2, []int{3, 4, 5}, false},
		{"2:3,7", 2, []int{3, 7}, false},
		{"2:3:", 2, []int{3}, false},
		{"14", 0, []int{14}, false},
		{"10:1", 10, []int{1}, false},
		{"", 0, nil, true},
		{"word", 0, nil, true},
		{":", 0, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ref, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded, want error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if ref.Chapter != tt.wantChapter {
				t.Errorf("Chapter = %d, want %d", ref.Chapter, tt.wantChapter)
			}
			if len(ref.Verses) != len(tt.wantVerses) {
				t.Fatalf("Verses = %v, want %v", ref.Verses, tt.wantVerses)
			}
			for i := range tt.wantVerses {
				if ref.Verses[i] != tt.wantVerses[i] {
					t.Errorf("Verses[%d] = %d, want %d", i, ref.Verses[i], tt.wantVerses[i])
				}
			}
		})
	}
}

func TestMatcherMatches(t *testing.T) {
	m := NewMatcher()
	tests := []struct {
		name    string
		book    string
		chapter string
		verse   string
		anchor  string
		want    bool
	}{
		{"exact match", "GEN", "2", "3", "2:3", true},
		{"wrong chapter", "GEN", "2", "3", "3:3", false},
		{"wrong verse", "GEN", "2", "3", "2:4", false},
		{"anchor range covers verse", "GEN", "2", "4", "2:3-5", true},
		{"anchor list covers verse", "GEN", "2", "7", "2:3,7", true},
		{"verse range overlaps anchor", "GEN", "2", "3-4", "2:4", true},
		{"verse with suffix", "GEN", "2", "3a", "2:3", true},
		{"trailing separator tolerated", "GEN", "2", "3", "2:3:", true},
		{"bare verse in single chapter book", "JDE", "1", "14", "14", true},
		{"bare verse in multi chapter book chapter 1", "GEN", "1", "14", "14", true},
		{"bare verse in multi chapter book later chapter", "GEN", "3", "14", "14", false},
		{"garbage anchor", "GEN", "2", "3", "see above", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Matches(tt.book, tt.chapter, tt.verse, tt.anchor, book.Footnote)
			if got != tt.want {
				t.Errorf("Matches(%s %s:%s, %q) = %v, want %v",
					tt.book, tt.chapter, tt.verse, tt.anchor, got, tt.want)
			}
		})
	}
}

func TestVerseNumbers(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"4", []int{4}},
		{"4-6", []int{4, 5, 6}},
		{"4–6", []int{4, 5, 6}},
		{"4,6", []int{4, 6}},
		{"4a", []int{4}},
		{"", nil},
	}
	for _, tt := range tests {
		got := verseNumbers(tt.in)
		if len(got) != len(tt.want) {
			t.Fatalf("verseNumbers(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("verseNumbers(%q)[%d] = %d, want %d", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
