package storage

import (
	"context"

	"jankguard/internal/diag"
)

// Store caches analysis results keyed by file path and content hash.
type Store interface {
	// Lookup returns the cached diagnostics for path if the stored content
	// hash matches. A mismatch or an unknown path is a miss, not an error.
	Lookup(ctx context.Context, path, contentHash string) ([]diag.Diagnostic, bool, error)

	// Save replaces the cached diagnostics for path under contentHash.
	Save(ctx context.Context, path, contentHash string, diags []diag.Diagnostic) error

	// Forget drops the cache entry for path, if any.
	Forget(ctx context.Context, path string) error

	Close() error
}
