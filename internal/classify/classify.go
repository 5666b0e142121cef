// Package classify maps call expressions to semantic operation categories
// using layered name heuristics. No type information is consulted; the
// classifier works on callee shape and spelling alone, which keeps it usable
// on code the frontend cannot fully resolve.
package classify

import (
	"strings"
	"unicode"

	"jankguard/internal/lang"
)

// Category is the semantic kind of a classified call.
type Category uint8

const (
	// Unclassified means the call is not recognized and must not be
	// analyzed further.
	Unclassified Category = iota
	// Write is an exclusive-lock or mutating I/O operation.
	Write
	// BulkRead is a potentially expensive read.
	BulkRead
	// SingleRead is a cheap, bounded read.
	SingleRead
)

func (c Category) String() string {
	switch c {
	case Write:
		return "write"
	case BulkRead:
		return "bulk-read"
	case SingleRead:
		return "single-read"
	case Unclassified:
		return "unclassified"
	}
	return "unknown"
}

// maxReceiverDepth bounds the receiver-identity walk. Beyond this many hops
// through member accesses and intermediate calls the walk gives up and the
// call stays unclassified. The bound is a termination guarantee, not a
// tuning knob.
const maxReceiverDepth = 5

// Classifier holds the name tables and keyword lists. It is immutable after
// construction and safe to share across files.
type Classifier struct {
	writes      map[string]struct{}
	bulkReads   map[string]struct{}
	singleReads map[string]struct{}
	receivers   map[string]struct{}

	writeKeywords []string
	readKeywords  []string
}

// Option extends the default tables.
type Option func(*Classifier)

// WithWrites adds exact names to the write table.
func WithWrites(names ...string) Option {
	return func(c *Classifier) { addAll(c.writes, names) }
}

// WithBulkReads adds exact names to the bulk-read table.
func WithBulkReads(names ...string) Option {
	return func(c *Classifier) { addAll(c.bulkReads, names) }
}

// WithSingleReads adds exact names to the single-read table.
func WithSingleReads(names ...string) Option {
	return func(c *Classifier) { addAll(c.singleReads, names) }
}

// WithReceivers adds identifiers recognized as I/O-ish receivers.
func WithReceivers(names ...string) Option {
	return func(c *Classifier) { addAll(c.receivers, names) }
}

func addAll(set map[string]struct{}, names []string) {
	for _, n := range names {
		if n != "" {
			set[n] = struct{}{}
		}
	}
}

// New builds a classifier with the built-in tables plus any options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		writes:        toSet(defaultWrites),
		bulkReads:     toSet(defaultBulkReads),
		singleReads:   toSet(defaultSingleReads),
		receivers:     toSet(defaultReceivers),
		writeKeywords: defaultWriteKeywords,
		readKeywords:  defaultReadKeywords,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Scratch memoizes classification results within one analysis pass. It is
// created per file and discarded afterwards; nothing persists across passes.
type Scratch map[scratchKey]Category

type scratchKey struct {
	name       string
	ioReceiver bool
}

// NewScratch returns an empty per-pass cache.
func NewScratch() Scratch { return make(Scratch) }

// Classify maps one call to its category. It is deterministic and total:
// every call gets exactly one category, and a name already known to be
// I/O-shaped but ambiguous between read and write falls back to Write.
// Flagging a cheap operation costs a spurious suggestion; missing a blocking
// one costs a frame, so the bias is deliberate policy and must not be
// "fixed" without product input.
func (c *Classifier) Classify(call *lang.Call, scratch Scratch) Category {
	name := lang.CalleeName(call)
	if name == "" {
		return Unclassified
	}

	ioReceiver := c.hasIOReceiver(call)
	key := scratchKey{name: name, ioReceiver: ioReceiver}
	if scratch != nil {
		if cat, ok := scratch[key]; ok {
			return cat
		}
	}

	cat := c.classifyName(name, ioReceiver)
	if scratch != nil {
		scratch[key] = cat
	}
	return cat
}

func (c *Classifier) classifyName(name string, ioReceiver bool) Category {
	if _, ok := c.writes[name]; ok {
		return Write
	}
	if _, ok := c.bulkReads[name]; ok {
		return BulkRead
	}
	if _, ok := c.singleReads[name]; ok {
		return SingleRead
	}
	if hasMarkerPrefix(name) || ioReceiver {
		return c.scoreKeywords(name)
	}
	return Unclassified
}

// scoreKeywords lower-cases the name and checks write keywords before read
// keywords; first match wins. A name that reaches scoring is already known
// to be I/O-shaped, so no keyword at all still yields Write.
func (c *Classifier) scoreKeywords(name string) Category {
	lower := strings.ToLower(name)
	for _, kw := range c.writeKeywords {
		if strings.Contains(lower, kw) {
			return Write
		}
	}
	for _, kw := range c.readKeywords {
		if strings.Contains(lower, kw) {
			return BulkRead
		}
	}
	return Write
}

// hasMarkerPrefix reports whether the name follows the structural convention
// of a "db" marker prefix followed by an upper-case boundary, e.g.
// "dbContactSave".
func hasMarkerPrefix(name string) bool {
	if len(name) < 3 || !strings.HasPrefix(name, "db") {
		return false
	}
	return unicode.IsUpper(rune(name[2]))
}

// hasIOReceiver walks the base receiver of a possibly chained call,
// descending through member accesses, intermediate calls and awaits up to
// maxReceiverDepth hops. Past the bound the receiver counts as unknown.
func (c *Classifier) hasIOReceiver(call *lang.Call) bool {
	recv, ok := call.Callee.(lang.HasReceiver)
	if !ok {
		return false
	}

	expr := recv.Receiver()
	for depth := 0; depth < maxReceiverDepth; depth++ {
		switch e := expr.(type) {
		case *lang.Ident:
			_, known := c.receivers[strings.ToLower(e.Name)]
			return known
		case *lang.Member:
			expr = e.Object
		case *lang.Call:
			expr = e.Callee
		case *lang.Await:
			expr = e.X
		default:
			return false
		}
	}
	return false
}
