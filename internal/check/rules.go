package check

import (
	"fmt"

	"jankguard/internal/classify"
	"jankguard/internal/diag"
	"jankguard/internal/flow"
	"jankguard/internal/lang"
)

// Runner executes the mitigation rules over function bodies. It is immutable
// and shared across files; all per-pass state lives in the classifier
// scratch created inside each run.
type Runner struct {
	Classifier  *classify.Classifier
	Mitigations Mitigations
}

// NewRunner wires a runner from its two collaborators.
func NewRunner(c *classify.Classifier, m Mitigations) *Runner {
	return &Runner{Classifier: c, Mitigations: m}
}

// RunMitigationRule emits one diagnostic for every significant statement
// whose contained call classifies to target and whose successor verdict is
// Unsafe. SingleRead is never a target category: cheap reads do not require
// mitigation, so the call reports nothing.
func (r *Runner) RunMitigationRule(fn *lang.Function, src []byte, target classify.Category, code diag.Code, sev diag.Severity, rep diag.Reporter) {
	if fn == nil || fn.Body == nil {
		return
	}
	if target == classify.SingleRead || target == classify.Unclassified {
		return
	}

	scratch := classify.NewScratch()
	flow.Walk(fn.Body, func(stmts []lang.Stmt, i int) {
		stmt := stmts[i]
		switch stmt.(type) {
		case *lang.ExprStmt, *lang.VarDecl:
		default:
			// Return statements belong to the return-await rule; a
			// mitigation can never be inserted after them anyway.
			return
		}

		call := lang.CallOf(stmt)
		if call == nil {
			return
		}
		cat := r.Classifier.Classify(call, scratch)
		if cat != target {
			return
		}
		if SuccessorVerdict(stmts, i, cat, r.Mitigations) != Unsafe {
			return
		}

		rep.Report(diag.Diagnostic{
			Code:     code,
			Severity: sev,
			Message:  r.message(target, call),
			Span:     stmt.Span(),
			Scope:    fn.Span(),
			Snippet:  stmt.Span().Text(src),
		})
	})
}

// RunReturnAwaitRule flags `return await <call>;` when the awaited call
// classifies as Write. The shape fuses the operation and the return into one
// statement, so no caller can place a mitigation between them; it is flagged
// unconditionally rather than via successor adjacency.
func (r *Runner) RunReturnAwaitRule(fn *lang.Function, src []byte, code diag.Code, sev diag.Severity, rep diag.Reporter) {
	if fn == nil || fn.Body == nil {
		return
	}

	scratch := classify.NewScratch()
	flow.Walk(fn.Body, func(stmts []lang.Stmt, i int) {
		ret, ok := stmts[i].(*lang.Return)
		if !ok || !lang.IsAwaited(ret) {
			return
		}
		call := lang.CallOf(ret)
		if call == nil {
			return
		}
		if r.Classifier.Classify(call, scratch) != classify.Write {
			return
		}

		rep.Report(diag.Diagnostic{
			Code:     code,
			Severity: sev,
			Message:  fmt.Sprintf("'%s' is a blocking write awaited directly in a return; split the statement so a frame yield fits in between", lang.CalleeName(call)),
			Span:     ret.Span(),
			Scope:    fn.Span(),
			Snippet:  ret.Span().Text(src),
		})
	})
}

func (r *Runner) message(target classify.Category, call *lang.Call) string {
	name := lang.CalleeName(call)
	mitigation := r.Mitigations.Preferred()
	switch target {
	case classify.Write:
		return fmt.Sprintf("blocking write '%s' is not followed by a frame yield; add 'await %s()' after it", name, mitigation)
	case classify.BulkRead:
		return fmt.Sprintf("expensive read '%s' is not followed by a frame yield; consider 'await %s()' after it", name, mitigation)
	default:
		return fmt.Sprintf("'%s' is not followed by a frame yield", name)
	}
}
