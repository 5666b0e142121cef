package engine

import (
	"context"
	"os"
	"sort"

	"jankguard/internal/diag"
	"jankguard/internal/fix"
)

// FixResult summarises one fix pass over a project.
type FixResult struct {
	// Applied counts fixes written (or, in dry-run, that would be).
	Applied int
	// Skipped counts diagnostics with no synthesizable or conflicting fix.
	Skipped int
	// ChangedFiles lists files that received at least one edit.
	ChangedFiles []string
}

// FixProject analyzes root and applies every synthesizable fix in place.
// Edits within a file are applied in ascending offset order; a fix whose
// edits overlap an already accepted one is skipped, never merged. With
// dryRun set, files are left untouched and only the counts are filled.
func (e *Engine) FixProject(ctx context.Context, root string, dryRun bool) (*FixResult, error) {
	diags, err := e.AnalyzeProject(ctx, root)
	if err != nil {
		return nil, err
	}

	byFile := make(map[string][]diag.Diagnostic)
	for _, d := range diags {
		byFile[d.Path] = append(byFile[d.Path], d)
	}

	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	result := &FixResult{}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return result, err
		}

		accepted := e.synthesizeFile(byFile[path], src, result)
		if len(accepted) == 0 {
			continue
		}

		out, err := fix.Apply(src, accepted)
		if err != nil {
			// The accepted set is pre-checked for overlap and drift;
			// an error here means the file changed mid-run. Skip it.
			result.Skipped += len(accepted)
			result.Applied -= len(accepted)
			continue
		}

		result.ChangedFiles = append(result.ChangedFiles, path)
		if dryRun {
			continue
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return result, err
		}
		if e.store != nil {
			// The file content moved under the cache entry.
			_ = e.store.Forget(ctx, path)
		}
	}
	return result, nil
}

// synthesizeFile turns one file's diagnostics into a conflict-free edit
// list, counting skips on the result as it goes.
func (e *Engine) synthesizeFile(diags []diag.Diagnostic, src []byte, result *FixResult) []fix.TextEdit {
	mitigation := e.Mitigation()

	var accepted []fix.TextEdit
	for _, d := range diags {
		var edits []fix.TextEdit
		if d.Code == diag.CodeReturnAwaitWrite {
			edits = fix.SynthesizeSplit(d, src, mitigation)
		} else {
			edits = fix.SynthesizeInsertion(d, src, mitigation)
		}
		if len(edits) == 0 {
			result.Skipped++
			continue
		}
		if conflicts(accepted, edits) {
			result.Skipped++
			continue
		}
		accepted = append(accepted, edits...)
		result.Applied++
	}
	return accepted
}

func conflicts(accepted, edits []fix.TextEdit) bool {
	for _, a := range accepted {
		for _, e := range edits {
			if fix.Overlaps(a, e) {
				return true
			}
		}
	}
	return false
}
