// Package diag defines the diagnostic record the rules emit and the
// reporting sinks that consume it.
package diag

import (
	"sort"

	"jankguard/internal/lang"
)

// Severity is the importance tier of a diagnostic, ordered
// Info < Suggestion < Warning < Error.
type Severity uint8

const (
	SevInfo Severity = iota
	SevSuggestion
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevSuggestion:
		return "suggestion"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity maps a configuration string to a severity tier.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "info":
		return SevInfo, true
	case "suggestion":
		return SevSuggestion, true
	case "warning":
		return SevWarning, true
	case "error":
		return SevError, true
	}
	return SevInfo, false
}

// Diagnostic is one reported violation. It is created once per violating
// statement per rule and never mutated afterwards.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string

	// Path is the analyzed file, attached by the engine.
	Path string
	// Span anchors the flagged statement in the source buffer.
	Span lang.Span
	// Scope is the span of the enclosing function, used by the split fix
	// to pick a fresh binding name.
	Scope lang.Span
	// Snippet records the anchor text at emission time. Fix synthesis
	// compares it against the current buffer to detect drift.
	Snippet string
}

// Reporter accepts diagnostics from the rules.
type Reporter interface {
	Report(Diagnostic)
}

// Bag collects diagnostics and deduplicates by (path, anchor, code), so a
// statement is reported at most once per rule no matter how the caller
// drives the pipeline.
type Bag struct {
	items []Diagnostic
	seen  map[bagKey]struct{}
}

type bagKey struct {
	path string
	span lang.Span
	code Code
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{seen: make(map[bagKey]struct{})}
}

func (b *Bag) Report(d Diagnostic) {
	key := bagKey{path: d.Path, span: d.Span, code: d.Code}
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	b.items = append(b.items, d)
}

// Items returns the collected diagnostics in insertion order.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sort orders the bag by path, then span start, then code, for stable output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Span.Start != dj.Span.Start {
			return di.Span.Start < dj.Span.Start
		}
		return di.Code < dj.Code
	})
}
