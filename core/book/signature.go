package book

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// StructuralSignature hashes the book's modified marker list, giving a
// stable fingerprint of the book's structure that ignores the text
// itself. Two books with identical marker sequences share a signature.
// It is empty before Check has run.
func (b *Book) StructuralSignature() string {
	if len(b.modifiedMarkerList) == 0 {
		return ""
	}
	sum := blake3.Sum256([]byte(strings.Join(b.modifiedMarkerList, "\n")))
	return hex.EncodeToString(sum[:])
}
