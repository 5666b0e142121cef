package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jankguard/internal/lang"
)

func TestBag_DeduplicatesByAnchorAndCode(t *testing.T) {
	bag := NewBag()
	d := Diagnostic{
		Code: CodeWriteNeedsYield,
		Path: "a.ts",
		Span: lang.NewSpan(10, 20),
	}

	bag.Report(d)
	bag.Report(d)
	require.Len(t, bag.Items(), 1)

	// Same anchor, different rule: both survive.
	d2 := d
	d2.Code = CodeReturnAwaitWrite
	bag.Report(d2)
	assert.Len(t, bag.Items(), 2)
}

func TestBag_SortOrdersByPathThenOffset(t *testing.T) {
	bag := NewBag()
	bag.Report(Diagnostic{Code: CodeWriteNeedsYield, Path: "b.ts", Span: lang.NewSpan(5, 9)})
	bag.Report(Diagnostic{Code: CodeWriteNeedsYield, Path: "a.ts", Span: lang.NewSpan(30, 40)})
	bag.Report(Diagnostic{Code: CodeWriteNeedsYield, Path: "a.ts", Span: lang.NewSpan(1, 4)})
	bag.Sort()

	items := bag.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "a.ts", items[0].Path)
	assert.Equal(t, uint32(1), items[0].Span.Start)
	assert.Equal(t, "a.ts", items[1].Path)
	assert.Equal(t, "b.ts", items[2].Path)
}

func TestSeverity_Ordering(t *testing.T) {
	assert.True(t, SevInfo < SevSuggestion)
	assert.True(t, SevSuggestion < SevWarning)
	assert.True(t, SevWarning < SevError)
}

func TestParseSeverity(t *testing.T) {
	for name, want := range map[string]Severity{
		"info":       SevInfo,
		"suggestion": SevSuggestion,
		"warning":    SevWarning,
		"error":      SevError,
	} {
		got, ok := ParseSeverity(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got)
	}

	_, ok := ParseSeverity("fatal")
	assert.False(t, ok)
}

func TestDefinitionFor_KnownAndUnknown(t *testing.T) {
	def := DefinitionFor(CodeBulkReadNeedsYield)
	assert.Equal(t, "bulk-read-needs-yield", def.Slug)
	assert.Equal(t, SevSuggestion, def.DefaultSeverity)

	unknown := DefinitionFor(Code("JG9999"))
	assert.Equal(t, SevWarning, unknown.DefaultSeverity)
	assert.Equal(t, "JG9999", unknown.Slug)
}

func TestDefinitions_SortedByCode(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, CodeWriteNeedsYield, defs[0].Code)
	assert.Equal(t, CodeBulkReadNeedsYield, defs[1].Code)
	assert.Equal(t, CodeReturnAwaitWrite, defs[2].Code)
}
