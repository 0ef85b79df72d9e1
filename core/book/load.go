package book

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bible-hub/BibleOrgSys/internal/logging"
)

// LoadReader appends the USFM lines read from r to the book. A physical
// line not starting with a backslash continues the previous marker's
// text. Returns the number of marker lines read.
func (b *Book) LoadReader(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "\\") {
			if !b.AppendToLastLine(" " + line) {
				return count, fmt.Errorf("continuation line before any marker line: %q", line)
			}
			continue
		}
		marker := line[1:]
		text := ""
		if ix := strings.IndexByte(marker, ' '); ix >= 0 {
			marker, text = marker[:ix], strings.TrimLeft(marker[ix+1:], " ")
		}
		if !b.AppendLine(marker, text) {
			return count, fmt.Errorf("cannot append to already processed book %s", b.Code)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("reading lines: %w", err)
	}
	return count, nil
}

// LoadFile reads a USFM file into the book.
func (b *Book) LoadFile(path string) error {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	count, err := b.LoadReader(f)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	logging.BookLoad(b.Code, path, count, time.Since(start))
	return nil
}
