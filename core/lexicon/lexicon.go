// Package lexicon reads Strong's-style lexicon data from its XML source
// into an indexed, queryable table.
package lexicon

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/bible-hub/BibleOrgSys/internal/logging"
)

// Entry is one lexicon entry.
type Entry struct {
	// ID is the Strong's code, e.g. "H1" or "G26".
	ID string `json:"id"`

	Lemma           string `json:"lemma"`
	Transliteration string `json:"transliteration,omitempty"`
	Pronunciation   string `json:"pronunciation,omitempty"`
	Definition      string `json:"definition,omitempty"`
	Source          string `json:"source,omitempty"`
}

// Index is an ordered lexicon with ID lookup.
type Index struct {
	entries []Entry
	byID    map[string]int
}

// Precompiled selectors; the element layout follows the published XML.
var (
	entrySelector = xpath.MustCompile("//entry")
	wordSelector  = xpath.MustCompile("w")
	defSelector   = xpath.MustCompile("def")
	srcSelector   = xpath.MustCompile("source")
)

// Parse reads lexicon XML from r.
func Parse(r io.Reader) (*Index, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing lexicon XML: %w", err)
	}

	ix := &Index{byID: make(map[string]int)}
	for _, node := range xmlquery.QuerySelectorAll(doc, entrySelector) {
		id := node.SelectAttr("id")
		if id == "" {
			continue
		}
		entry := Entry{ID: id}
		if w := xmlquery.QuerySelector(node, wordSelector); w != nil {
			entry.Lemma = strings.TrimSpace(w.InnerText())
			entry.Transliteration = w.SelectAttr("xlit")
			entry.Pronunciation = w.SelectAttr("pron")
		}
		if def := xmlquery.QuerySelector(node, defSelector); def != nil {
			entry.Definition = strings.TrimSpace(def.InnerText())
		}
		if src := xmlquery.QuerySelector(node, srcSelector); src != nil {
			entry.Source = strings.TrimSpace(src.InnerText())
		}
		if _, dup := ix.byID[entry.ID]; dup {
			return nil, fmt.Errorf("duplicate lexicon entry %s", entry.ID)
		}
		ix.byID[entry.ID] = len(ix.entries)
		ix.entries = append(ix.entries, entry)
	}
	if len(ix.entries) == 0 {
		return nil, fmt.Errorf("no lexicon entries found")
	}
	return ix, nil
}

// LoadFile reads a lexicon XML file.
func LoadFile(path string) (*Index, error) {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	ix, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	logging.LexiconEvent("loaded", path, ix.Len(), "duration_ms", time.Since(start).Milliseconds())
	return ix, nil
}

// Len returns the number of entries.
func (ix *Index) Len() int { return len(ix.entries) }

// Entries returns the entries in document order.
func (ix *Index) Entries() []Entry {
	out := make([]Entry, len(ix.entries))
	copy(out, ix.entries)
	return out
}

// Lookup returns the entry with the given Strong's code.
func (ix *Index) Lookup(id string) (Entry, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return Entry{}, false
	}
	return ix.entries[i], true
}
