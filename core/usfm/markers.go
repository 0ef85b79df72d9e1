// Package usfm provides the marker classification registry for USFM-style
// markup. It answers the narrow questions the book processor and its
// validators need: what kind of marker is this, does it take content, must
// it be closed, and which section of a book does it belong to.
package usfm

import (
	"sort"
	"strings"
)

// Policy represents a three-valued marker rule: whether a marker must,
// may, or must never do something (carry content, be closed).
type Policy string

// Policy constants.
const (
	// PolicyAlways means the rule always applies.
	PolicyAlways Policy = "A"

	// PolicySometimes means the rule is optional.
	PolicySometimes Policy = "S"

	// PolicyNever means the rule never applies.
	PolicyNever Policy = "N"
)

// validPolicies is the set of valid policies.
var validPolicies = map[Policy]bool{
	PolicyAlways:    true,
	PolicySometimes: true,
	PolicyNever:     true,
}

// IsValid returns true if the policy is valid.
func (p Policy) IsValid() bool {
	return validPolicies[p]
}

// Section identifies the ordered part of a book a newline marker belongs to.
type Section string

// Section constants, in book order.
const (
	SectionHeader       Section = "Header"
	SectionIntroduction Section = "Introduction"
	SectionText         Section = "Text"
	SectionTextPoetry   Section = "Text, Poetry"
)

// validSections is the set of valid sections.
var validSections = map[Section]bool{
	SectionHeader:       true,
	SectionIntroduction: true,
	SectionText:         true,
	SectionTextPoetry:   true,
}

// IsValid returns true if the section is valid.
func (s Section) IsValid() bool {
	return validSections[s]
}

// markerInfo holds the classification of a single marker.
type markerInfo struct {
	// newline is true for markers that start a new line (paragraph-class).
	newline bool

	// character is true for inline character-style markers.
	character bool

	// note is true for markers that only occur inside footnote or
	// cross-reference bodies (fr, ft, xo, xt, ...).
	note bool

	// content is the marker's content rule.
	content Policy

	// closed is the marker's closing rule (for character/note markers).
	closed Policy

	// section is the book section the marker occurs in (newline markers).
	section Section

	// numberable is true when the marker takes level digits (q1, s2, ...).
	numberable bool

	// nesting is true when the marker may contain other character markers
	// without being implicitly closed by them.
	nesting bool

	// deprecated is true for markers removed from the current standard.
	deprecated bool

	// printed is false for metadata markers whose text never appears in
	// the published output (id, rem, toc lines, ...).
	printed bool
}

// Registry is the read-only marker classification table. A single Registry
// is built at start-up and shared by every book; it must not be mutated
// afterwards.
type Registry struct {
	markers map[string]markerInfo

	// standard maps unnumbered forms to their standard numbered form
	// (s -> s1, mt -> mt1, ...).
	standard map[string]string

	// characterOrder lists character markers in table order so derived
	// lists are deterministic.
	characterOrder []string

	// newlineOrder lists newline markers in table order.
	newlineOrder []string
}

// NewRegistry builds the default marker classification table.
func NewRegistry() *Registry {
	r := &Registry{
		markers:  make(map[string]markerInfo),
		standard: make(map[string]string),
	}

	// Header section.
	r.newline("id", markerInfo{content: PolicyAlways, section: SectionHeader})
	r.newline("ide", markerInfo{content: PolicyAlways, section: SectionHeader})
	r.newline("sts", markerInfo{content: PolicyAlways, section: SectionHeader})
	r.newline("rem", markerInfo{content: PolicyAlways, section: SectionHeader})
	r.newline("h1", markerInfo{content: PolicyAlways, section: SectionHeader, numberable: true})
	r.newline("toc1", markerInfo{content: PolicyAlways, section: SectionHeader})
	r.newline("toc2", markerInfo{content: PolicyAlways, section: SectionHeader})
	r.newline("toc3", markerInfo{content: PolicyAlways, section: SectionHeader})
	r.newline("mt1", markerInfo{content: PolicyAlways, section: SectionHeader, numberable: true, printed: true})
	r.newline("mt2", markerInfo{content: PolicyAlways, section: SectionHeader, numberable: true, printed: true})
	r.newline("mt3", markerInfo{content: PolicyAlways, section: SectionHeader, numberable: true, printed: true})

	// Introduction section.
	r.newline("imt1", markerInfo{content: PolicyAlways, section: SectionIntroduction, numberable: true, printed: true})
	r.newline("imt2", markerInfo{content: PolicyAlways, section: SectionIntroduction, numberable: true, printed: true})
	r.newline("is1", markerInfo{content: PolicyAlways, section: SectionIntroduction, numberable: true, printed: true})
	r.newline("is2", markerInfo{content: PolicyAlways, section: SectionIntroduction, numberable: true, printed: true})
	r.newline("ip", markerInfo{content: PolicyAlways, section: SectionIntroduction, printed: true})
	r.newline("ipi", markerInfo{content: PolicyAlways, section: SectionIntroduction, printed: true})
	r.newline("im", markerInfo{content: PolicyAlways, section: SectionIntroduction, printed: true})
	r.newline("imi", markerInfo{content: PolicyAlways, section: SectionIntroduction, printed: true})
	r.newline("iot", markerInfo{content: PolicyAlways, section: SectionIntroduction, printed: true})
	r.newline("io1", markerInfo{content: PolicyAlways, section: SectionIntroduction, numberable: true, printed: true})
	r.newline("io2", markerInfo{content: PolicyAlways, section: SectionIntroduction, numberable: true, printed: true})
	r.newline("ie", markerInfo{content: PolicyNever, section: SectionIntroduction})

	// Text section.
	r.newline("c", markerInfo{content: PolicyAlways, section: SectionText, printed: true})
	r.newline("c~", markerInfo{content: PolicyAlways, section: SectionText, printed: true})
	r.newline("cl", markerInfo{content: PolicyAlways, section: SectionText, printed: true})
	r.newline("cp", markerInfo{content: PolicyAlways, section: SectionText, printed: true})
	r.newline("v", markerInfo{content: PolicyAlways, section: SectionText, printed: true})
	r.newline("v~", markerInfo{content: PolicyAlways, section: SectionText, printed: true})
	r.newline("p", markerInfo{content: PolicySometimes, section: SectionText, printed: true})
	r.newline("m", markerInfo{content: PolicySometimes, section: SectionText, printed: true})
	r.newline("pc", markerInfo{content: PolicySometimes, section: SectionText, printed: true})
	r.newline("pi1", markerInfo{content: PolicySometimes, section: SectionText, numberable: true, printed: true})
	r.newline("mi", markerInfo{content: PolicySometimes, section: SectionText, printed: true})
	r.newline("nb", markerInfo{content: PolicyNever, section: SectionText})
	r.newline("s1", markerInfo{content: PolicyAlways, section: SectionText, numberable: true, printed: true})
	r.newline("s2", markerInfo{content: PolicyAlways, section: SectionText, numberable: true, printed: true})
	r.newline("s3", markerInfo{content: PolicyAlways, section: SectionText, numberable: true, printed: true})
	r.newline("s4", markerInfo{content: PolicyAlways, section: SectionText, numberable: true, printed: true})
	r.newline("r", markerInfo{content: PolicyAlways, section: SectionText, printed: true})
	r.newline("li1", markerInfo{content: PolicySometimes, section: SectionText, numberable: true, printed: true})
	r.newline("li2", markerInfo{content: PolicySometimes, section: SectionText, numberable: true, printed: true})
	r.newline("pb", markerInfo{content: PolicyNever, section: SectionText, deprecated: true})

	// Poetry section.
	r.newline("q1", markerInfo{content: PolicySometimes, section: SectionTextPoetry, numberable: true, printed: true})
	r.newline("q2", markerInfo{content: PolicySometimes, section: SectionTextPoetry, numberable: true, printed: true})
	r.newline("q3", markerInfo{content: PolicySometimes, section: SectionTextPoetry, numberable: true, printed: true})
	r.newline("q4", markerInfo{content: PolicySometimes, section: SectionTextPoetry, numberable: true, printed: true})
	r.newline("b", markerInfo{content: PolicyNever, section: SectionTextPoetry})
	r.newline("d", markerInfo{content: PolicyAlways, section: SectionTextPoetry, printed: true})
	r.newline("sp", markerInfo{content: PolicyAlways, section: SectionTextPoetry, printed: true})
	r.newline("qa", markerInfo{content: PolicyAlways, section: SectionTextPoetry, printed: true})

	// Character (inline) markers.
	r.character("add", PolicyAlways)
	r.character("bk", PolicyAlways)
	r.character("dc", PolicyAlways)
	r.character("k", PolicyAlways)
	r.character("nd", PolicyAlways)
	r.character("ord", PolicyAlways)
	r.character("pn", PolicyAlways)
	r.character("qt", PolicyAlways)
	r.character("sig", PolicyAlways)
	r.character("sls", PolicyAlways)
	r.character("tl", PolicyAlways)
	r.character("wj", PolicyAlways)
	r.character("em", PolicyAlways)
	r.character("bd", PolicyAlways)
	r.character("it", PolicyAlways)
	r.character("bdit", PolicyAlways)
	r.character("no", PolicyAlways)
	r.character("sc", PolicyAlways)
	r.character("qs", PolicySometimes)
	r.character("qac", PolicySometimes)
	r.character("w", PolicyAlways)
	r.character("wg", PolicyAlways)
	r.character("wh", PolicyAlways)
	r.markers["fig"] = markerInfo{character: true, content: PolicyAlways, closed: PolicyAlways, printed: false}

	// Note body markers. These never occur in main text, only inside
	// footnote (\f ... \f*) or cross-reference (\x ... \x*) spans.
	r.noteMarker("fr", PolicyNever)
	r.noteMarker("fk", PolicySometimes)
	r.noteMarker("fq", PolicySometimes)
	r.noteMarker("fqa", PolicySometimes)
	r.noteMarker("ft", PolicyNever)
	r.noteMarker("fv", PolicySometimes)
	r.noteMarker("fdc", PolicyAlways)
	r.noteMarker("xo", PolicyNever)
	r.noteMarker("xt", PolicySometimes)
	r.noteMarker("xk", PolicySometimes)
	r.noteMarker("xq", PolicySometimes)
	r.noteMarker("xdc", PolicyAlways)

	// Unnumbered aliases map to their standard level-one form.
	for _, base := range []string{"h", "mt", "imt", "is", "io", "s", "q", "pi", "li"} {
		r.standard[base] = base + "1"
	}

	return r
}

// newline registers a newline marker, preserving registration order.
func (r *Registry) newline(marker string, info markerInfo) {
	info.newline = true
	r.markers[marker] = info
	r.newlineOrder = append(r.newlineOrder, marker)
}

// character registers a character-style marker, preserving order.
func (r *Registry) character(marker string, closed Policy) {
	r.markers[marker] = markerInfo{
		character: true,
		content:   PolicyAlways,
		closed:    closed,
		printed:   true,
	}
	r.characterOrder = append(r.characterOrder, marker)
}

// noteMarker registers a footnote/cross-reference body marker.
func (r *Registry) noteMarker(marker string, closed Policy) {
	r.markers[marker] = markerInfo{
		note:    true,
		content: PolicyAlways,
		closed:  closed,
		printed: true,
	}
}

// ToStandardMarker converts markers like "s" or "mt" to their standard
// numbered form ("s1", "mt1"). Markers without an alias are returned as-is.
func (r *Registry) ToStandardMarker(marker string) string {
	if std, ok := r.standard[marker]; ok {
		return std
	}
	return marker
}

// IsNewlineMarker returns true if the marker starts a new line.
func (r *Registry) IsNewlineMarker(marker string) bool {
	return r.markers[r.ToStandardMarker(marker)].newline
}

// IsCharacterMarker returns true for inline character-style markers.
func (r *Registry) IsCharacterMarker(marker string) bool {
	return r.markers[r.baseMarker(marker)].character
}

// IsInternalMarker returns true for markers legal inside a line's text:
// character markers and note body markers.
func (r *Registry) IsInternalMarker(marker string) bool {
	info := r.markers[r.baseMarker(marker)]
	return info.character || info.note
}

// IsNoteMarker returns true for markers that belong inside note bodies.
func (r *Registry) IsNoteMarker(marker string) bool {
	return r.markers[r.baseMarker(marker)].note
}

// IsDeprecatedMarker returns true for markers removed from the standard.
func (r *Registry) IsDeprecatedMarker(marker string) bool {
	return r.markers[r.ToStandardMarker(marker)].deprecated
}

// IsNestingMarker returns true when the marker may contain other character
// markers without being implicitly closed by them.
func (r *Registry) IsNestingMarker(marker string) bool {
	return r.markers[r.baseMarker(marker)].nesting
}

// IsNumberableMarker returns true when the marker takes level digits.
func (r *Registry) IsNumberableMarker(marker string) bool {
	if _, ok := r.standard[marker]; ok {
		return true
	}
	return r.markers[marker].numberable
}

// IsPrinted returns true when the marker's text appears in published
// output. Character and verse counts are only taken from printed lines.
func (r *Registry) IsPrinted(marker string) bool {
	return r.markers[r.ToStandardMarker(marker)].printed
}

// IsKnownMarker returns true if the marker appears in the table at all.
func (r *Registry) IsKnownMarker(marker string) bool {
	_, ok := r.markers[r.baseMarker(marker)]
	if !ok {
		_, ok = r.markers[r.ToStandardMarker(marker)]
	}
	return ok
}

// MarkerShouldHaveContent reports whether a marker must (Always), may
// (Sometimes), or must not (Never) carry text.
func (r *Registry) MarkerShouldHaveContent(marker string) Policy {
	info, ok := r.markers[r.ToStandardMarker(marker)]
	if !ok {
		return PolicySometimes
	}
	return info.content
}

// MarkerShouldBeClosed reports whether a character or note marker must
// (Always), may (Sometimes), or cannot (Never) have a matching close tag.
func (r *Registry) MarkerShouldBeClosed(marker string) Policy {
	info, ok := r.markers[r.baseMarker(marker)]
	if !ok {
		return PolicyNever
	}
	if !info.character && !info.note {
		return PolicyNever
	}
	return info.closed
}

// MarkerOccursIn returns the book section a newline marker belongs to.
func (r *Registry) MarkerOccursIn(marker string) Section {
	return r.markers[r.ToStandardMarker(marker)].section
}

// baseMarker strips a trailing level digit from numberable character
// markers so "qt2" resolves to "qt".
func (r *Registry) baseMarker(marker string) string {
	if _, ok := r.markers[marker]; ok {
		return marker
	}
	if len(marker) > 1 {
		last := marker[len(marker)-1]
		if last >= '1' && last <= '5' {
			return marker[:len(marker)-1]
		}
	}
	return marker
}

// NewlineMarkersList returns all newline markers in table order.
func (r *Registry) NewlineMarkersList() []string {
	out := make([]string, len(r.newlineOrder))
	copy(out, r.newlineOrder)
	return out
}

// CharacterMarkersList returns the character-style markers in table order.
// With includeBackslash each entry is prefixed "\marker " (note the
// trailing space); with includeEndMarkers the matching "\marker*" close
// forms are appended. Callers that strip markers from text should sort the
// result longest-first so "\bdit " is removed before "\bd ".
func (r *Registry) CharacterMarkersList(includeBackslash, includeEndMarkers bool) []string {
	var out []string
	for _, m := range r.characterOrder {
		if includeBackslash {
			out = append(out, "\\"+m+" ")
			if includeEndMarkers {
				out = append(out, "\\"+m+"*")
			}
		} else {
			out = append(out, m)
			if includeEndMarkers {
				out = append(out, m+"*")
			}
		}
	}
	return out
}

// SortedForRemoval returns the given marker strings sorted longest first,
// suitable for sequential substring removal.
func SortedForRemoval(markers []string) []string {
	out := make([]string, len(markers))
	copy(out, markers)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// TypicalNoteSets returns the field-code sequences commonly seen in
// well-formed notes of the given kind ("fn" or "xr"), after character
// formatting markers have been removed.
func (r *Registry) TypicalNoteSets(kind string) [][]string {
	switch kind {
	case "fn":
		return [][]string{
			{"fr ", "ft "},
			{"fr ", "ft ", "fq "},
			{"fr ", "ft ", "fq ", "ft "},
			{"fr ", "fk ", "ft "},
			{"fr ", "fq "},
			{"ft "},
		}
	case "xr":
		return [][]string{
			{"xo ", "xt "},
			{"xo ", "xt ", "xo ", "xt "},
			{"xt "},
		}
	}
	return nil
}

// MatchesNoteSet returns true if got equals any of the typical sets.
func MatchesNoteSet(got []string, sets [][]string) bool {
	for _, set := range sets {
		if len(set) != len(got) {
			continue
		}
		match := true
		for i := range set {
			if strings.TrimSuffix(set[i], " ") != strings.TrimSuffix(got[i], " ") {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
