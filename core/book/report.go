package book

import (
	"bytes"
	"encoding/json"

	"github.com/bible-hub/BibleOrgSys/internal/logging"
)

// Diagnostic is one prioritized finding. Priority runs 0..100 and encodes
// how urgently the entry deserves review ("id line not first" records 100,
// a trailing space records 10).
type Diagnostic struct {
	Priority int    `json:"priority"`
	Message  string `json:"message"`

	// Book, Chapter and Verse locate the finding. Book and Chapter are
	// blanked on an entry when the immediately preceding entry carried
	// identical priority, message and location fields, purely to remove
	// repetitive display text.
	Book    string `json:"book"`
	Chapter string `json:"chapter"`
	Verse   string `json:"verse"`
}

// FreqTable is an insertion-ordered frequency table.
type FreqTable struct {
	order  []string
	counts map[string]int
}

// NewFreqTable creates an empty frequency table.
func NewFreqTable() *FreqTable {
	return &FreqTable{counts: make(map[string]int)}
}

// Inc increments the count for key, registering it on first use.
func (t *FreqTable) Inc(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// Get returns the count for key.
func (t *FreqTable) Get(key string) int { return t.counts[key] }

// Len returns the number of distinct keys.
func (t *FreqTable) Len() int { return len(t.order) }

// Keys returns the keys in insertion order.
func (t *FreqTable) Keys() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Total returns the sum of all counts.
func (t *FreqTable) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// MarshalJSON renders the table as an object in insertion order with a
// trailing Total member.
func (t *FreqTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(t.counts[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	if len(t.order) > 0 {
		buf.WriteByte(',')
	}
	buf.WriteString(`"Total":`)
	tb, err := json.Marshal(t.Total())
	if err != nil {
		return nil, err
	}
	buf.Write(tb)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Category is the payload of one report category: a list of lines, a
// frequency table, prioritized diagnostics, or a nested report of
// sub-categories. Only the populated fields are rendered.
type Category struct {
	Lines       []string     `json:"lines,omitempty"`
	Counts      *FreqTable   `json:"counts,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Sub         *Report      `json:"sub,omitempty"`
}

// priorityErrorsCategory is the report category every book starts with.
const priorityErrorsCategory = "Priority Errors"

// Report is the ordered category to content mapping shared by every
// validator of a book. Categories appear in first-insertion order, except
// that "Priority Errors" is always created first.
type Report struct {
	order []string
	cats  map[string]*Category
}

// NewReport creates a report holding an empty "Priority Errors" category.
func NewReport() *Report {
	r := &Report{cats: make(map[string]*Category)}
	r.category(priorityErrorsCategory)
	return r
}

// category returns the named category, creating it if necessary.
func (r *Report) category(name string) *Category {
	if c, ok := r.cats[name]; ok {
		return c
	}
	c := &Category{}
	r.cats[name] = c
	r.order = append(r.order, name)
	return c
}

// Categories returns the category names in order.
func (r *Report) Categories() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Category returns the named category, or nil if absent.
func (r *Report) Category(name string) *Category {
	return r.cats[name]
}

// AddLines appends lines to the named category, creating it on first use.
// Empty line sets are ignored so categories only exist once populated.
func (r *Report) AddLines(name string, lines []string) {
	if len(lines) == 0 {
		return
	}
	c := r.category(name)
	c.Lines = append(c.Lines, lines...)
}

// SetCounts attaches a frequency table to the named category. Empty
// tables are ignored.
func (r *Report) SetCounts(name string, counts *FreqTable) {
	if counts == nil || counts.Len() == 0 {
		return
	}
	r.category(name).Counts = counts
}

// Sub returns the nested report under the named category, creating it on
// first use. Validators with several related result lists group them this
// way ("USFMs", "Characters", "Notes", ...).
func (r *Report) Sub(name string) *Report {
	c := r.category(name)
	if c.Sub == nil {
		c.Sub = &Report{cats: make(map[string]*Category)}
	}
	return c.Sub
}

// addPriority records a prioritized diagnostic, applying the
// adjacent-duplicate collapsing rule: when the previous entry carries the
// same priority, message and book code, the new entry's book code (and
// chapter, if also equal) is blanked.
func (r *Report) addPriority(priority int, message, bookCode, chapter, verse string) {
	c := r.category(priorityErrorsCategory)
	if n := len(c.Diagnostics); n > 0 {
		last := c.Diagnostics[n-1]
		if last.Priority == priority && last.Message == message && last.Book == bookCode {
			bookCode = ""
			if last.Chapter == chapter {
				chapter = ""
			}
		}
	}
	c.Diagnostics = append(c.Diagnostics, Diagnostic{
		Priority: priority,
		Message:  message,
		Book:     bookCode,
		Chapter:  chapter,
		Verse:    verse,
	})
}

// PriorityErrors returns the recorded prioritized diagnostics.
func (r *Report) PriorityErrors() []Diagnostic {
	c := r.cats[priorityErrorsCategory]
	if c == nil {
		return nil
	}
	return c.Diagnostics
}

// pruneEmptyPriority drops the "Priority Errors" category when nothing
// was recorded in it.
func (r *Report) pruneEmptyPriority() {
	c, ok := r.cats[priorityErrorsCategory]
	if !ok || len(c.Diagnostics) > 0 {
		return
	}
	delete(r.cats, priorityErrorsCategory)
	for i, name := range r.order {
		if name == priorityErrorsCategory {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// MarshalJSON renders the report as an object in category order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.cats[name])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// addPriorityError records a diagnostic against this book, echoing it to
// the log when the LogErrors option is set.
func (b *Book) addPriorityError(priority int, chapter, verse, message string) {
	if priority < 0 {
		priority = 0
	}
	if priority > 100 {
		priority = 100
	}
	b.report.addPriority(priority, message, b.Code, chapter, verse)
	if b.Options.LogErrors {
		logging.Warn("book_check",
			"book", b.Code, "chapter", chapter, "verse", verse,
			"priority", priority, "message", message)
	}
}
