package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jankguard/internal/lang"
)

func ident(name string) *lang.Ident {
	return &lang.Ident{Name: name}
}

func bareCall(name string) *lang.Call {
	return &lang.Call{Callee: ident(name)}
}

func memberCall(receiver lang.Expr, name string) *lang.Call {
	return &lang.Call{Callee: &lang.Member{Object: receiver, Property: name}}
}

func TestClassify_ExactTables(t *testing.T) {
	c := New()

	tests := []struct {
		name string
		want Category
	}{
		{"writeTxn", Write},
		{"putAll", Write},
		{"clear", Write},
		{"findAll", BulkRead},
		{"exportJson", BulkRead},
		{"findFirst", SingleRead},
		{"count", SingleRead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(bareCall(tt.name), nil))
		})
	}
}

func TestClassify_ExactTablesWinOverReceiver(t *testing.T) {
	c := New()

	// db.findFirst() is in the single-read table; the receiver heuristic
	// must not bump it to keyword scoring.
	call := memberCall(ident("db"), "findFirst")
	assert.Equal(t, SingleRead, c.Classify(call, nil))
}

func TestClassify_MarkerPrefixRoutesToKeywords(t *testing.T) {
	c := New()

	t.Run("write keyword", func(t *testing.T) {
		assert.Equal(t, Write, c.Classify(bareCall("dbContactSave"), nil))
	})
	t.Run("read keyword", func(t *testing.T) {
		assert.Equal(t, BulkRead, c.Classify(bareCall("dbContactFetch"), nil))
	})
	t.Run("no keyword defaults to write", func(t *testing.T) {
		assert.Equal(t, Write, c.Classify(bareCall("dbTouch"), nil))
	})
	t.Run("lowercase third char is not a marker", func(t *testing.T) {
		assert.Equal(t, Unclassified, c.Classify(bareCall("dbx"), nil))
	})
}

func TestClassify_WriteKeywordsBeforeReadKeywords(t *testing.T) {
	c := New()

	// "saveAndGet" contains both a write and a read keyword; write wins.
	assert.Equal(t, Write, c.Classify(bareCall("dbSaveAndGet"), nil))
}

func TestClassify_ReceiverIdentity(t *testing.T) {
	c := New()

	t.Run("known receiver routes to keywords", func(t *testing.T) {
		call := memberCall(ident("db"), "fetchContacts")
		assert.Equal(t, BulkRead, c.Classify(call, nil))
	})
	t.Run("unknown receiver stays unclassified", func(t *testing.T) {
		call := memberCall(ident("widget"), "fetchContacts")
		assert.Equal(t, Unclassified, c.Classify(call, nil))
	})
	t.Run("chained receiver within bound", func(t *testing.T) {
		// db.contacts.where().persistChanges()
		chain := &lang.Call{Callee: &lang.Member{
			Object:   &lang.Member{Object: ident("db"), Property: "contacts"},
			Property: "where",
		}}
		call := memberCall(chain, "persistChanges")
		assert.Equal(t, Write, c.Classify(call, nil))
	})
}

func TestClassify_BoundedReceiverRecursion(t *testing.T) {
	c := New()

	// a.b.c.d.e.f.g.get(): the base identifier sits past the depth bound,
	// so the walk gives up and the call stays unclassified.
	var recv lang.Expr = ident("db")
	for _, p := range []string{"b", "c", "d", "e", "f", "g"} {
		recv = &lang.Member{Object: recv, Property: p}
	}
	call := memberCall(recv, "get")
	assert.Equal(t, Unclassified, c.Classify(call, nil))
}

func TestClassify_Deterministic(t *testing.T) {
	c := New()
	call := memberCall(ident("db"), "fetchContacts")

	first := c.Classify(call, nil)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, c.Classify(call, nil))
	}
}

func TestClassify_NoCalleeName(t *testing.T) {
	c := New()
	call := &lang.Call{Callee: &lang.OpaqueExpr{}}
	assert.Equal(t, Unclassified, c.Classify(call, nil))
}

func TestClassify_ScratchMemoizes(t *testing.T) {
	c := New()
	scratch := NewScratch()

	call := bareCall("writeTxn")
	assert.Equal(t, Write, c.Classify(call, scratch))
	require.Len(t, scratch, 1)

	// The cached result is what comes back on the second pass.
	assert.Equal(t, Write, c.Classify(call, scratch))
	assert.Len(t, scratch, 1)
}

func TestClassify_Options(t *testing.T) {
	c := New(
		WithWrites("commitLedger"),
		WithSingleReads("peek"),
		WithReceivers("ledger"),
	)

	assert.Equal(t, Write, c.Classify(bareCall("commitLedger"), nil))
	assert.Equal(t, SingleRead, c.Classify(bareCall("peek"), nil))
	assert.Equal(t, Write, c.Classify(memberCall(ident("ledger"), "persistEntry"), nil))
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "write", Write.String())
	assert.Equal(t, "bulk-read", BulkRead.String())
	assert.Equal(t, "single-read", SingleRead.String())
	assert.Equal(t, "unclassified", Unclassified.String())
}
