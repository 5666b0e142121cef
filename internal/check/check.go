// Package check decides whether a flagged statement is safely mitigated and
// runs the mitigation rules over a function body.
package check

import (
	"jankguard/internal/classify"
	"jankguard/internal/lang"
)

// Verdict is the outcome of the safe-successor check.
type Verdict uint8

const (
	// NotApplicable means the statement's category never requires a
	// mitigation.
	NotApplicable Verdict = iota
	// Safe means a recognized mitigating statement, or a control transfer
	// that makes the question moot, immediately follows.
	Safe
	// Unsafe means nothing mitigating follows, including the case where
	// the statement is the last in its block.
	Unsafe
)

func (v Verdict) String() string {
	switch v {
	case NotApplicable:
		return "not-applicable"
	case Safe:
		return "safe"
	case Unsafe:
		return "unsafe"
	}
	return "unknown"
}

// Mitigations is the set of call names recognized as sufficient remediation
// when they appear immediately after a blocking statement. The first name is
// preferred: messages suggest it and fixes insert it.
type Mitigations struct {
	set       map[string]struct{}
	preferred string
}

// NewMitigations builds the set from a name list, preferring the first entry.
func NewMitigations(names []string) Mitigations {
	m := Mitigations{set: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n == "" {
			continue
		}
		if m.preferred == "" {
			m.preferred = n
		}
		m.set[n] = struct{}{}
	}
	return m
}

// DefaultMitigations are the frame-yield helpers recognized out of the box.
func DefaultMitigations() Mitigations {
	return NewMitigations([]string{"yieldToUI", "awaitNextFrame"})
}

// Preferred is the mitigation name suggested in messages and inserted by
// fixes.
func (m Mitigations) Preferred() string { return m.preferred }

// SuccessorVerdict combines the category policy with the adjacency check:
// single reads (and unclassified calls) never require mitigation, everything
// else is Safe or Unsafe depending on the immediate successor.
func SuccessorVerdict(stmts []lang.Stmt, i int, cat classify.Category, m Mitigations) Verdict {
	switch cat {
	case classify.SingleRead, classify.Unclassified:
		return NotApplicable
	}
	if IsSafeSuccessor(stmts, i, m) {
		return Safe
	}
	return Unsafe
}

// IsSafeSuccessor reports whether the statement at index i is followed by a
// valid mitigation within its containing list. The check is deliberately
// local: one statement of lookahead, no descent into nested blocks. A
// mitigation buried inside a nested conditional does not run on every path
// and therefore never counts.
func IsSafeSuccessor(stmts []lang.Stmt, i int, m Mitigations) bool {
	if i+1 >= len(stmts) {
		return false
	}
	next := stmts[i+1]
	if _, isThrow := next.(*lang.Throw); isThrow {
		return true
	}
	return m.IsMitigating(next)
}

// IsMitigating reports whether the statement is a bare or awaited call to a
// recognized mitigation, used as an expression statement.
func (m Mitigations) IsMitigating(s lang.Stmt) bool {
	stmt, ok := s.(*lang.ExprStmt)
	if !ok {
		return false
	}
	call := lang.CallOf(stmt)
	if call == nil {
		return false
	}
	_, known := m.set[lang.CalleeName(call)]
	return known
}
