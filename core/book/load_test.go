package book

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadReader(t *testing.T) {
	input := "\uFEFF\\id TST Test book\n" +
		"\\c 1\n" +
		"\\v 1 First line\n" +
		"continued on a second physical line\n" +
		"\n" +
		"\\v 2 Second verse.\n"
	b := newTestBook(t)
	count, err := b.LoadReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if count != 4 {
		t.Errorf("marker line count = %d, want 4", count)
	}
	if got := b.rawLines[2].Text; got != "1 First line continued on a second physical line" {
		t.Errorf("joined line = %q", got)
	}
	mustProcess(t, b)
	if got := len(b.Lines()); got != 6 {
		t.Errorf("processed line count = %d, want 6", got)
	}
}

func TestLoadReaderContinuationBeforeMarker(t *testing.T) {
	b := newTestBook(t)
	_, err := b.LoadReader(strings.NewReader("orphan text\n"))
	if err == nil {
		t.Fatal("no error for continuation before any marker line")
	}
}

func TestLoadReaderMarkerWithoutText(t *testing.T) {
	b := newTestBook(t)
	if _, err := b.LoadReader(strings.NewReader("\\id TST\n\\p\n")); err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if got := b.rawLines[1]; got.Marker != "p" || got.Text != "" {
		t.Errorf("bare marker line = %+v", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TST.usfm")
	content := "\\id TST\n\\c 1\n\\v 1 From a file.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b := newTestBook(t)
	if err := b.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(b.rawLines) != 3 {
		t.Errorf("raw line count = %d, want 3", len(b.rawLines))
	}
	if err := b.LoadFile(filepath.Join(t.TempDir(), "missing.usfm")); err == nil {
		t.Error("no error for missing file")
	}
}
