// Package fix synthesizes and applies source-text edits for diagnostics.
// Every edit carries the text it expects to replace; a mismatch means the
// file drifted since analysis, and the edit is dropped instead of guessed.
package fix

import (
	"errors"
	"fmt"
	"sort"
)

// TextEdit is one byte-offset edit over an immutable source buffer. Start ==
// End with empty OldText is a pure insertion.
type TextEdit struct {
	Start   uint32
	End     uint32
	OldText string
	NewText string
}

// ErrOverlap is returned when an edit list is not non-overlapping.
var ErrOverlap = errors.New("fix: overlapping edits")

// ErrDrift is returned when an edit's expected text no longer matches the
// buffer.
var ErrDrift = errors.New("fix: buffer drifted from expected text")

// Apply applies edits to src and returns the new buffer. Edits are sorted
// ascending by offset and must be non-overlapping; src is never mutated.
func Apply(src []byte, edits []TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return append([]byte(nil), src...), nil
	}

	sorted := append([]TextEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	out := make([]byte, 0, len(src))
	var pos uint32
	for _, e := range sorted {
		if e.Start < pos {
			return nil, fmt.Errorf("%w: edit at %d begins before offset %d", ErrOverlap, e.Start, pos)
		}
		if int(e.End) > len(src) || e.End < e.Start {
			return nil, fmt.Errorf("fix: edit %d-%d out of range for %d-byte buffer", e.Start, e.End, len(src))
		}
		if e.OldText != "" && string(src[e.Start:e.End]) != e.OldText {
			return nil, fmt.Errorf("%w at %d-%d", ErrDrift, e.Start, e.End)
		}
		out = append(out, src[pos:e.Start]...)
		out = append(out, e.NewText...)
		pos = e.End
	}
	out = append(out, src[pos:]...)
	return out, nil
}

// Overlaps reports whether two edits conflict. Spans are half-open; two
// pure insertions at the same offset conflict because their order would be
// ambiguous.
func Overlaps(a, b TextEdit) bool {
	if a.Start == a.End && b.Start == b.End {
		return a.Start == b.Start
	}
	if a.Start == a.End {
		return b.Start <= a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// leadingIndent returns the whitespace run at the beginning of the line
// containing offset, by scanning backward to the previous line break and
// forward over spaces and tabs.
func leadingIndent(src []byte, offset uint32) string {
	if int(offset) > len(src) {
		return ""
	}
	lineStart := int(offset)
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	end := lineStart
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[lineStart:end])
}
