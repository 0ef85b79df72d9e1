// Package validation checks the identifiers and inputs the tool accepts
// from the command line before they reach the processing pipeline.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the maximum accepted book file size (64 MB). Real book
// files run well under 1 MB; anything near this limit is not a book.
const MaxFileSize = 64 << 20

// Common validation errors.
var (
	ErrEmptyBookCode   = errors.New("book code cannot be empty")
	ErrInvalidBookCode = errors.New("invalid book code")
	ErrEmptyPath       = errors.New("path cannot be empty")
	ErrFileTooLarge    = errors.New("file too large")
	ErrNotRegularFile  = errors.New("not a regular file")
)

// ValidateBookCode checks that a book reference code is a plausible
// identifier: exactly three characters, uppercase letters or digits.
func ValidateBookCode(code string) error {
	if code == "" {
		return ErrEmptyBookCode
	}
	if len(code) != 3 {
		return fmt.Errorf("%w: %q must be exactly three characters", ErrInvalidBookCode, code)
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidBookCode, code, r)
		}
	}
	return nil
}

// ValidateBookFile checks that path names a readable, plausibly sized
// regular file.
func ValidateBookFile(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("statting %s: %w", path, err)
	}
	if !st.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	if st.Size() > MaxFileSize {
		return fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, path, st.Size())
	}
	return nil
}

// NormalizeBookCode upper-cases and trims a user-supplied book code.
func NormalizeBookCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// BookCodeFromFilename guesses the book reference code from a file name
// like "41-MAT.usfm" or "MAT.sfm", returning "" when no three-character
// code can be found.
func BookCodeFromFilename(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if ix := strings.LastIndexAny(base, "-_"); ix >= 0 && ix+1 < len(base) {
		base = base[ix+1:]
	}
	code := NormalizeBookCode(base)
	if ValidateBookCode(code) != nil {
		return ""
	}
	return code
}
