// Package engine drives the analysis pipeline: crawl, parse, run the rules,
// and aggregate diagnostics, with an optional content-hash cache in front.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"jankguard/internal/check"
	"jankguard/internal/classify"
	"jankguard/internal/config"
	"jankguard/internal/crawler"
	"jankguard/internal/diag"
	"jankguard/internal/parse"
	"jankguard/internal/storage"
)

// rule binds a taxonomy code to how it runs. The table drives both analysis
// and fix synthesis.
type rule struct {
	code        diag.Code
	target      classify.Category
	returnAwait bool
}

var rules = []rule{
	{code: diag.CodeWriteNeedsYield, target: classify.Write},
	{code: diag.CodeBulkReadNeedsYield, target: classify.BulkRead},
	{code: diag.CodeReturnAwaitWrite, returnAwait: true},
}

// Engine analyzes files and projects. It is immutable after New and safe to
// reuse across files; every analysis pass gets fresh scratch state.
type Engine struct {
	cfg    *config.Config
	runner *check.Runner
	store  storage.Store
}

// New wires an engine from configuration. The store is optional; without it
// every file is analyzed from scratch.
func New(cfg *config.Config, store storage.Store) *Engine {
	classifier := classify.New(
		classify.WithWrites(cfg.Classifier.Writes...),
		classify.WithBulkReads(cfg.Classifier.BulkReads...),
		classify.WithSingleReads(cfg.Classifier.SingleReads...),
		classify.WithReceivers(cfg.Classifier.Receivers...),
	)

	mitigations := check.DefaultMitigations()
	if names := cfg.Mitigations(); len(names) > 0 {
		mitigations = check.NewMitigations(names)
	}

	return &Engine{
		cfg:    cfg,
		runner: check.NewRunner(classifier, mitigations),
		store:  store,
	}
}

// Mitigation is the call name fixes insert.
func (e *Engine) Mitigation() string {
	return e.runner.Mitigations.Preferred()
}

// AnalyzeSource runs every enabled rule over one file's content. Files
// without a frontend yield no diagnostics. A parse failure is reported as
// an error so the caller can decide whether to surface or skip it.
func (e *Engine) AnalyzeSource(ctx context.Context, path string, src []byte) ([]diag.Diagnostic, error) {
	fe := parse.ForPath(path)
	if fe == nil {
		return nil, nil
	}

	fns, err := parse.Parse(ctx, fe, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	bag := diag.NewBag()
	for i := range fns {
		fn := &fns[i]
		for _, r := range rules {
			if !e.cfg.Enabled(r.code) {
				continue
			}
			sev := e.cfg.SeverityFor(r.code)
			if r.returnAwait {
				e.runner.RunReturnAwaitRule(fn, src, r.code, sev, bag)
			} else {
				e.runner.RunMitigationRule(fn, src, r.target, r.code, sev, bag)
			}
		}
	}

	bag.Sort()
	diags := bag.Items()
	for i := range diags {
		diags[i].Path = path
	}
	return diags, nil
}

// AnalyzeFile reads and analyzes one file, consulting the cache when
// configured.
func (e *Engine) AnalyzeFile(ctx context.Context, path string) ([]diag.Diagnostic, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if e.store == nil {
		return e.AnalyzeSource(ctx, path, src)
	}

	hash := contentHash(src)
	if cached, hit, err := e.store.Lookup(ctx, path, hash); err == nil && hit {
		return cached, nil
	}

	diags, err := e.AnalyzeSource(ctx, path, src)
	if err != nil {
		return nil, err
	}
	if err := e.store.Save(ctx, path, hash, diags); err != nil {
		return nil, fmt.Errorf("cache %s: %w", path, err)
	}
	return diags, nil
}

// AnalyzeProject crawls root and aggregates diagnostics over all analyzable
// files. Files that fail to parse are skipped silently: a broken file is the
// build's problem, not the linter's.
func (e *Engine) AnalyzeProject(ctx context.Context, root string) ([]diag.Diagnostic, error) {
	c := crawler.New(e.cfg.Ignore)

	var all []diag.Diagnostic
	err := c.ScanProject(root, func(path string) error {
		diags, err := e.AnalyzeFile(ctx, path)
		if err != nil {
			return nil
		}
		all = append(all, diags...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

func contentHash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}
