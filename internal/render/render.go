// Package render prints diagnostics for humans and machines.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"jankguard/internal/diag"
)

var severityColors = map[diag.Severity]*color.Color{
	diag.SevInfo:       color.New(color.FgCyan),
	diag.SevSuggestion: color.New(color.FgBlue),
	diag.SevWarning:    color.New(color.FgYellow),
	diag.SevError:      color.New(color.FgRed, color.Bold),
}

// SourceLoader resolves a file's content for context lines. Returning an
// error degrades the output to the header line only.
type SourceLoader func(path string) ([]byte, error)

// Pretty writes one block per diagnostic:
//
//	path:line:col: SEVERITY CODE: message
//	  <source line>
//	  ^~~~~
//
// Diagnostics are printed in the order given; callers sort beforehand.
func Pretty(w io.Writer, diags []diag.Diagnostic, load SourceLoader) {
	for _, d := range diags {
		printPretty(w, d, load)
	}
}

func printPretty(w io.Writer, d diag.Diagnostic, load SourceLoader) {
	var src []byte
	if load != nil {
		src, _ = load(d.Path)
	}

	line, col := position(src, d.Span.Start)
	sev := severityColors[d.Severity].Sprint(strings.ToUpper(d.Severity.String()))
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", d.Path, line, col, sev, d.Code, d.Message)

	text, ok := lineAt(src, d.Span.Start)
	if !ok {
		return
	}
	fmt.Fprintf(w, "  %s\n", text)

	underline := int(d.Span.Len())
	if max := len(text) - (col - 1); underline > max {
		underline = max
	}
	if underline < 1 {
		underline = 1
	}
	fmt.Fprintf(w, "  %s^%s\n", strings.Repeat(" ", col-1), strings.Repeat("~", underline-1))
}

// position computes the 1-based line and column of a byte offset.
func position(src []byte, offset uint32) (line, col int) {
	line, col = 1, 1
	if int(offset) > len(src) {
		return 1, 1
	}
	for _, b := range src[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// lineAt returns the full text of the line containing offset.
func lineAt(src []byte, offset uint32) (string, bool) {
	if int(offset) > len(src) {
		return "", false
	}
	start := int(offset)
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := int(offset)
	for end < len(src) && src[end] != '\n' {
		end++
	}
	return string(src[start:end]), true
}

type jsonDiagnostic struct {
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// JSON writes the diagnostics as a JSON array, one object per diagnostic.
func JSON(w io.Writer, diags []diag.Diagnostic, load SourceLoader) error {
	out := make([]jsonDiagnostic, 0, len(diags))
	for _, d := range diags {
		var src []byte
		if load != nil {
			src, _ = load(d.Path)
		}
		line, col := position(src, d.Span.Start)
		out = append(out, jsonDiagnostic{
			Path:     d.Path,
			Line:     line,
			Column:   col,
			Code:     string(d.Code),
			Severity: d.Severity.String(),
			Message:  d.Message,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
