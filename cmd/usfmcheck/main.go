// Command usfmcheck loads USFM Bible book files, runs the processing and
// validation pipeline over them, and reports or stores the results.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/bible-hub/BibleOrgSys/core/anchor"
	"github.com/bible-hub/BibleOrgSys/core/book"
	"github.com/bible-hub/BibleOrgSys/core/lexicon"
	"github.com/bible-hub/BibleOrgSys/core/punctuation"
	"github.com/bible-hub/BibleOrgSys/core/usfm"
	"github.com/bible-hub/BibleOrgSys/internal/export"
	"github.com/bible-hub/BibleOrgSys/internal/logging"
	"github.com/bible-hub/BibleOrgSys/internal/validation"
)

const version = "0.2.0"

// CLI defines the command-line interface for usfmcheck.
var CLI struct {
	LogLevel string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogText  bool   `name:"log-text" help:"Log in text format instead of JSON"`

	Check         CheckCmd         `cmd:"" help:"Check one or more USFM book files"`
	Versification VersificationCmd `cmd:"" help:"Print the chapter/verse scheme of a book file"`
	Discover      DiscoverCmd      `cmd:"" help:"Summarize the features of a book file"`
	Lexicon       LexiconGroup     `cmd:"" help:"Lexicon operations"`
	Runs          RunsCmd          `cmd:"" help:"List stored check runs"`
	Version       VersionCmd       `cmd:"" help:"Print version information"`
}

// bookOptions are the per-book behavior flags shared by the commands
// that load a book.
type bookOptions struct {
	Punctuation           string `default:"English" help:"Punctuation system for the quotation checks"`
	Sequences             bool   `help:"Enable the marker adjacency tables"`
	ReplaceAngleBrackets  bool   `default:"true" negatable:"" help:"Rewrite angle brackets as typographic quotes"`
	ReplaceStraightQuotes bool   `help:"Rewrite straight quotes as directional quotes"`
	CloseParagraphQuotes  bool   `help:"Require quotes closed at paragraph end"`
	LogErrors             bool   `help:"Echo each diagnostic to the log as it is recorded"`
}

// loadBook builds a book from one USFM file with the shared lookups.
func loadBook(path, code string, opts bookOptions, markers *usfm.Registry) (*book.Book, error) {
	if err := validation.ValidateBookFile(path); err != nil {
		return nil, err
	}
	if code == "" {
		code = validation.BookCodeFromFilename(path)
		if code == "" {
			return nil, fmt.Errorf("cannot derive book code from %s; pass --book", path)
		}
	} else {
		code = validation.NormalizeBookCode(code)
		if err := validation.ValidateBookCode(code); err != nil {
			return nil, err
		}
	}
	b := book.New(code, markers, anchor.NewMatcher())
	b.Options.CheckSequences = opts.Sequences
	b.Options.ReplaceAngleBrackets = opts.ReplaceAngleBrackets
	b.Options.ReplaceStraightQuotes = opts.ReplaceStraightQuotes
	b.Options.LogErrors = opts.LogErrors
	if opts.Punctuation != "" {
		sys, ok := punctuation.Get(opts.Punctuation)
		if !ok {
			return nil, fmt.Errorf("unknown punctuation system %q (have %s)",
				opts.Punctuation, strings.Join(punctuation.SystemNames(), ", "))
		}
		b.Options.Quotes = sys.QuoteConfig()
	}
	b.Options.Quotes.CloseQuotesAtParagraphEnd = opts.CloseParagraphQuotes
	if err := b.LoadFile(path); err != nil {
		return nil, err
	}
	return b, nil
}

// CheckCmd runs the full validation pipeline.
type CheckCmd struct {
	Paths []string `arg:"" type:"existingfile" help:"USFM book files to check"`
	Book  string   `help:"Book reference code (derived from the file name when empty)"`
	bookOptions
	Output string `short:"o" help:"Write the report to this JSON file (.xz compresses)"`
	Store  string `help:"Also record the diagnostics in this SQLite store"`
}

func (c *CheckCmd) Run() error {
	markers := usfm.NewRegistry()
	var store *export.Store
	if c.Store != "" {
		var err error
		store, err = export.OpenStore(c.Store)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	for _, path := range c.Paths {
		start := time.Now()
		b, err := loadBook(path, c.Book, c.bookOptions, markers)
		if err != nil {
			return err
		}
		if err := b.Check(); err != nil {
			return fmt.Errorf("checking %s: %w", path, err)
		}
		report := b.Report()
		diags := report.PriorityErrors()
		logging.BookCheck(b.Code, b.Len(), len(diags), time.Since(start))

		switch {
		case c.Output != "":
			out := c.Output
			if len(c.Paths) > 1 {
				out = strings.TrimSuffix(out, ".xz")
				ext := filepath.Ext(out)
				out = strings.TrimSuffix(out, ext) + "-" + b.Code + ext
				if strings.HasSuffix(c.Output, ".xz") {
					out += ".xz"
				}
			}
			if err := export.WriteJSONFile(out, report); err != nil {
				return err
			}
		default:
			if err := export.WriteJSON(os.Stdout, report); err != nil {
				return err
			}
		}

		if store != nil {
			runID, err := store.SaveRun(b.Code, diags)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "recorded run %s for %s (%d diagnostics)\n",
				runID, b.Code, len(diags))
		}
	}
	return nil
}

// VersificationCmd prints a book's reconstructed chapter/verse scheme.
type VersificationCmd struct {
	Path string `arg:"" type:"existingfile" help:"USFM book file"`
	Book string `help:"Book reference code"`
}

func (c *VersificationCmd) Run() error {
	b, err := loadBook(c.Path, c.Book, bookOptions{}, usfm.NewRegistry())
	if err != nil {
		return err
	}
	versification, omitted, combined, reordered, err := b.Versification()
	if err != nil {
		return err
	}
	for _, cv := range versification {
		fmt.Printf("%s %s:%s\n", b.Code, cv.Chapter, cv.Verses)
	}
	for _, ref := range omitted {
		fmt.Printf("omitted %s:%s\n", ref.Chapter, ref.Verse)
	}
	for _, ref := range combined {
		fmt.Printf("combined %s:%s\n", ref.Chapter, ref.Verse)
	}
	for _, r := range reordered {
		fmt.Printf("reordered %s: %s follows %s\n", r.Chapter, r.New, r.Prev)
	}
	return nil
}

// DiscoverCmd prints a book's feature summary as JSON.
type DiscoverCmd struct {
	Path string `arg:"" type:"existingfile" help:"USFM book file"`
	Book string `help:"Book reference code"`
}

func (c *DiscoverCmd) Run() error {
	b, err := loadBook(c.Path, c.Book, bookOptions{}, usfm.NewRegistry())
	if err != nil {
		return err
	}
	features, err := b.Discover()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(features)
}

// LexiconGroup contains lexicon operations.
type LexiconGroup struct {
	Convert LexiconConvertCmd `cmd:"" help:"Convert lexicon XML to JSON"`
	Lookup  LexiconLookupCmd  `cmd:"" help:"Look up a Strong's code in lexicon XML"`
}

// LexiconConvertCmd converts a lexicon XML file to JSON.
type LexiconConvertCmd struct {
	Input  string `arg:"" type:"existingfile" help:"Lexicon XML file"`
	Output string `short:"o" help:"Output JSON file (stdout when empty)"`
}

func (c *LexiconConvertCmd) Run() error {
	ix, err := lexicon.LoadFile(c.Input)
	if err != nil {
		return err
	}
	var w *os.File = os.Stdout
	if c.Output != "" {
		w, err = os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", c.Output, err)
		}
		defer w.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(ix.Entries())
}

// LexiconLookupCmd looks up one entry.
type LexiconLookupCmd struct {
	Input string `arg:"" type:"existingfile" help:"Lexicon XML file"`
	ID    string `arg:"" help:"Strong's code, e.g. H1 or G26"`
}

func (c *LexiconLookupCmd) Run() error {
	ix, err := lexicon.LoadFile(c.Input)
	if err != nil {
		return err
	}
	entry, ok := ix.Lookup(c.ID)
	if !ok {
		return fmt.Errorf("no lexicon entry %s", c.ID)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(entry)
}

// RunsCmd lists the check runs recorded in a store.
type RunsCmd struct {
	Store string `arg:"" type:"existingfile" help:"SQLite diagnostics store"`
}

func (c *RunsCmd) Run() error {
	store, err := export.OpenStore(c.Store)
	if err != nil {
		return err
	}
	defer store.Close()
	runs, err := store.Runs()
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %-4s %d diagnostics\n", r.ID, r.CreatedAt, r.Book, r.DiagnosticCount)
	}
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("usfmcheck version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("usfmcheck"),
		kong.Description("USFM Bible book processing and validation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	level := map[string]logging.Level{
		"debug": logging.LevelDebug,
		"info":  logging.LevelInfo,
		"warn":  logging.LevelWarn,
		"error": logging.LevelError,
	}[CLI.LogLevel]
	format := logging.FormatJSON
	if CLI.LogText {
		format = logging.FormatText
	}
	logging.InitLogger(level, format)

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
