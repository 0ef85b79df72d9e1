package book

import (
	"encoding/json"
	"testing"
)

func TestFreqTable(t *testing.T) {
	ft := NewFreqTable()
	ft.Inc("p")
	ft.Inc("v")
	ft.Inc("p")
	ft.Inc("c")

	if got := ft.Get("p"); got != 2 {
		t.Errorf("Get(p) = %d, want 2", got)
	}
	if got := ft.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := ft.Total(); got != 4 {
		t.Errorf("Total() = %d, want 4", got)
	}
	want := []string{"p", "v", "c"}
	for i, k := range ft.Keys() {
		if k != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, k, want[i])
		}
	}
}

func TestFreqTableJSON(t *testing.T) {
	ft := NewFreqTable()
	ft.Inc("v")
	ft.Inc("p")
	ft.Inc("v")

	data, err := json.Marshal(ft)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := `{"v":2,"p":1,"Total":3}`; string(data) != want {
		t.Errorf("JSON = %s, want %s", data, want)
	}

	empty := NewFreqTable()
	data, err = json.Marshal(empty)
	if err != nil {
		t.Fatalf("Marshal empty: %v", err)
	}
	if want := `{"Total":0}`; string(data) != want {
		t.Errorf("empty JSON = %s, want %s", data, want)
	}
}

func TestReportCategoryOrder(t *testing.T) {
	r := NewReport()
	r.AddLines("Versification Errors", []string{"a"})
	r.Sub("USFMs").AddLines("Newline Marker Errors", []string{"b"})
	r.AddLines("Versification Errors", []string{"c"})

	want := []string{"Priority Errors", "Versification Errors", "USFMs"}
	got := r.Categories()
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if lines := r.Category("Versification Errors").Lines; len(lines) != 2 {
		t.Errorf("accumulated lines = %v", lines)
	}
}

func TestAddLinesIgnoresEmpty(t *testing.T) {
	r := NewReport()
	r.AddLines("Never Created", nil)
	if r.Category("Never Created") != nil {
		t.Error("empty AddLines created the category")
	}
	r.SetCounts("Also Never", NewFreqTable())
	if r.Category("Also Never") != nil {
		t.Error("empty SetCounts created the category")
	}
}

func TestAddPriorityDuplicateCollapse(t *testing.T) {
	r := NewReport()
	r.addPriority(80, "Unexpected marker", "GEN", "1", "1")
	r.addPriority(80, "Unexpected marker", "GEN", "1", "2")
	r.addPriority(80, "Unexpected marker", "GEN", "2", "3")

	got := r.PriorityErrors()
	if len(got) != 3 {
		t.Fatalf("got %d diagnostics", len(got))
	}
	if got[0].Book != "GEN" || got[0].Chapter != "1" {
		t.Errorf("first entry = %+v", got[0])
	}
	// Second entry matches the first on priority, message, book and
	// chapter, so both location fields are blanked.
	if got[1].Book != "" || got[1].Chapter != "" || got[1].Verse != "2" {
		t.Errorf("second entry = %+v", got[1])
	}
	// Third entry is compared against the stored (already blanked)
	// second entry, so it keeps its full location.
	if got[2].Book != "GEN" || got[2].Chapter != "2" {
		t.Errorf("third entry = %+v", got[2])
	}
}

func TestAddPriorityChapterKeptOnMismatch(t *testing.T) {
	r := NewReport()
	r.addPriority(60, "Unusual combination", "EXO", "1", "5")
	r.addPriority(60, "Unusual combination", "EXO", "2", "1")

	got := r.PriorityErrors()
	if got[1].Book != "" {
		t.Errorf("book not blanked: %+v", got[1])
	}
	if got[1].Chapter != "2" {
		t.Errorf("chapter blanked despite differing: %+v", got[1])
	}
}

func TestPruneEmptyPriority(t *testing.T) {
	b := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 Clean text."},
	)
	mustProcess(t, b)
	for _, name := range b.Report().Categories() {
		if name == "Priority Errors" {
			t.Error("empty Priority Errors category survived")
		}
	}

	b2 := newTestBook(t,
		[2]string{"id", "TST"},
		[2]string{"c", "1"},
		[2]string{"v", "1 Trailing space. "},
	)
	mustProcess(t, b2)
	if b2.Report().Category("Priority Errors") == nil {
		t.Error("populated Priority Errors category pruned")
	}
}

func TestPriorityClamped(t *testing.T) {
	b := newTestBook(t)
	b.addPriorityError(150, "1", "1", "clamped high")
	b.addPriorityError(-5, "1", "2", "clamped low")
	got := b.report.PriorityErrors()
	if got[0].Priority != 100 {
		t.Errorf("high priority = %d, want 100", got[0].Priority)
	}
	if got[1].Priority != 0 {
		t.Errorf("low priority = %d, want 0", got[1].Priority)
	}
}

func TestReportJSON(t *testing.T) {
	r := NewReport()
	r.addPriority(10, "Removed trailing space(s)", "TST", "1", "1")
	r.AddLines("Versification Errors", []string{"Verse(s) missing before verse 3 in chapter 1"})

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded["Priority Errors"]; !ok {
		t.Error("Priority Errors missing from JSON")
	}
	if _, ok := decoded["Versification Errors"]; !ok {
		t.Error("Versification Errors missing from JSON")
	}
}
