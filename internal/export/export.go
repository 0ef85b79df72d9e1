// Package export writes check results out of the process: JSON report
// files (optionally xz-compressed) and a SQLite store of prioritized
// diagnostics keyed by check-run IDs.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/bible-hub/BibleOrgSys/core/book"
	"github.com/bible-hub/BibleOrgSys/internal/logging"
)

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, report *book.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// WriteJSONFile writes the report to path as JSON. A path ending in .xz
// is xz-compressed.
func WriteJSONFile(path string, report *book.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	format := "json"
	if strings.HasSuffix(path, ".xz") {
		xw, err := xz.NewWriter(f)
		if err != nil {
			return fmt.Errorf("opening xz writer for %s: %w", path, err)
		}
		defer xw.Close()
		w = xw
		format = "json.xz"
	}

	if err := WriteJSON(w, report); err != nil {
		return err
	}
	if xw, ok := w.(*xz.Writer); ok {
		if err := xw.Close(); err != nil {
			return fmt.Errorf("finishing xz stream for %s: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	size := 0
	if st, err := os.Stat(path); err == nil {
		size = int(st.Size())
	}
	logging.ExportEvent(format, path, size)
	return nil
}
