package fix

import (
	"fmt"
	"strings"

	"jankguard/internal/diag"
)

// SynthesizeInsertion builds the insertion fix for a mitigation diagnostic:
// a new line right after the flagged statement, calling the mitigation at
// the statement's own indentation. It returns nil when the diagnostic's
// anchor no longer matches the buffer.
func SynthesizeInsertion(d diag.Diagnostic, src []byte, mitigation string) []TextEdit {
	if mitigation == "" || drifted(d, src) {
		return nil
	}

	indent := leadingIndent(src, d.Span.Start)
	return []TextEdit{{
		Start:   d.Span.End,
		End:     d.Span.End,
		NewText: fmt.Sprintf("\n%sawait %s();", indent, mitigation),
	}}
}

// SynthesizeSplit rewrites `return await <call>;` into an assignment to a
// fresh binding, the mitigation call, and a return of the binding. The
// awaited value is computed exactly once, exactly where it was before; only
// the mitigation timing changes. Returns nil on drift or when the anchor is
// not the expected statement shape.
func SynthesizeSplit(d diag.Diagnostic, src []byte, mitigation string) []TextEdit {
	if mitigation == "" || drifted(d, src) {
		return nil
	}

	callText, ok := splitReturnAwait(d.Snippet)
	if !ok {
		return nil
	}

	indent := leadingIndent(src, d.Span.Start)
	binding := freshBinding(d.Scope.Text(src))

	var b strings.Builder
	fmt.Fprintf(&b, "const %s = await %s;\n", binding, callText)
	fmt.Fprintf(&b, "%sawait %s();\n", indent, mitigation)
	fmt.Fprintf(&b, "%sreturn %s;", indent, binding)

	return []TextEdit{{
		Start:   d.Span.Start,
		End:     d.Span.End,
		OldText: d.Snippet,
		NewText: b.String(),
	}}
}

// drifted reports whether the anchor text recorded at analysis time no
// longer matches the current buffer.
func drifted(d diag.Diagnostic, src []byte) bool {
	return d.Snippet == "" || d.Span.Text(src) != d.Snippet
}

// splitReturnAwait extracts the awaited call text from a statement of the
// shape `return await <call>;` (trailing semicolon optional).
func splitReturnAwait(snippet string) (string, bool) {
	s := strings.TrimSpace(snippet)
	s = strings.TrimSuffix(s, ";")

	rest, ok := cutKeyword(s, "return")
	if !ok {
		return "", false
	}
	call, ok := cutKeyword(rest, "await")
	if !ok || call == "" {
		return "", false
	}
	return call, true
}

// cutKeyword strips a leading keyword followed by whitespace.
func cutKeyword(s, kw string) (string, bool) {
	if !strings.HasPrefix(s, kw) {
		return "", false
	}
	rest := s[len(kw):]
	trimmed := strings.TrimLeft(rest, " \t\r\n")
	if trimmed == rest {
		// No separator after the keyword; "returnValue" is not "return".
		return "", false
	}
	return trimmed, true
}

// freshBinding picks a binding name that does not occur textually inside the
// enclosing function. The check is textual on purpose: the pipeline has no
// scope resolution, and a spurious suffix is harmless.
func freshBinding(scope string) string {
	const base = "result"
	if !strings.Contains(scope, base) {
		return base
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s%d", base, i)
		if !strings.Contains(scope, name) {
			return name
		}
	}
}
