package check

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jankguard/internal/classify"
	"jankguard/internal/diag"
	"jankguard/internal/lang"
)

// fnOver wraps statements in a function body, assigning synthetic spans so
// diagnostics stay distinguishable.
func fnOver(stmts ...lang.Stmt) *lang.Function {
	for i, s := range stmts {
		span := lang.NewSpan(uint32(i*10), uint32(i*10+5))
		switch stmt := s.(type) {
		case *lang.ExprStmt:
			stmt.Loc = span
		case *lang.VarDecl:
			stmt.Loc = span
		case *lang.Return:
			stmt.Loc = span
		}
	}
	return &lang.Function{
		Name: "fn",
		Body: &lang.Block{Stmts: stmts},
		Loc:  lang.NewSpan(0, uint32(len(stmts)*10)),
	}
}

func newRunner() *Runner {
	return NewRunner(classify.New(), DefaultMitigations())
}

func TestRunMitigationRule_FlagsUnsafeWrite(t *testing.T) {
	r := newRunner()
	fn := fnOver(awaitedCall("writeTxn"), call("doWork"))

	bag := diag.NewBag()
	r.RunMitigationRule(fn, nil, classify.Write, diag.CodeWriteNeedsYield, diag.SevWarning, bag)

	require.Len(t, bag.Items(), 1)
	d := bag.Items()[0]
	assert.Equal(t, diag.CodeWriteNeedsYield, d.Code)
	assert.Equal(t, diag.SevWarning, d.Severity)
	assert.Contains(t, d.Message, "writeTxn")
	assert.Contains(t, d.Message, "yieldToUI")
	assert.Equal(t, fn.Body.Stmts[0].Span(), d.Span)
	assert.Equal(t, fn.Span(), d.Scope)
}

func TestRunMitigationRule_SafeCasesReportNothing(t *testing.T) {
	r := newRunner()

	t.Run("yield follows", func(t *testing.T) {
		fn := fnOver(awaitedCall("writeTxn"), awaitedCall("yieldToUI"))
		bag := diag.NewBag()
		r.RunMitigationRule(fn, nil, classify.Write, diag.CodeWriteNeedsYield, diag.SevWarning, bag)
		assert.Empty(t, bag.Items())
	})

	t.Run("throw follows", func(t *testing.T) {
		fn := fnOver(awaitedCall("writeTxn"), &lang.Throw{Value: &lang.OpaqueExpr{}})
		bag := diag.NewBag()
		r.RunMitigationRule(fn, nil, classify.Write, diag.CodeWriteNeedsYield, diag.SevWarning, bag)
		assert.Empty(t, bag.Items())
	})
}

func TestRunMitigationRule_VarDeclCarriesTheCall(t *testing.T) {
	r := newRunner()
	fn := fnOver(
		&lang.VarDecl{Name: "rows", Init: &lang.Await{X: &lang.Call{Callee: &lang.Ident{Name: "findAll"}}}},
		call("render"),
	)

	bag := diag.NewBag()
	r.RunMitigationRule(fn, nil, classify.BulkRead, diag.CodeBulkReadNeedsYield, diag.SevSuggestion, bag)
	require.Len(t, bag.Items(), 1)
	assert.Equal(t, diag.CodeBulkReadNeedsYield, bag.Items()[0].Code)
}

func TestRunMitigationRule_InsideTryBlock(t *testing.T) {
	r := newRunner()
	write := awaitedCall("writeTxn")
	write.Loc = lang.NewSpan(10, 25)
	fn := &lang.Function{
		Name: "fn",
		Body: &lang.Block{Stmts: []lang.Stmt{
			&lang.Try{
				Body:  &lang.Block{Stmts: []lang.Stmt{write}},
				Catch: &lang.Block{Stmts: []lang.Stmt{call("recover")}},
			},
		}},
		Loc: lang.NewSpan(0, 60),
	}

	bag := diag.NewBag()
	r.RunMitigationRule(fn, nil, classify.Write, diag.CodeWriteNeedsYield, diag.SevWarning, bag)
	require.Len(t, bag.Items(), 1)
	assert.Equal(t, write.Span(), bag.Items()[0].Span)
}

func TestRunMitigationRule_SingleReadTargetIsRejected(t *testing.T) {
	r := newRunner()
	fn := fnOver(awaitedCall("findFirst"))

	bag := diag.NewBag()
	r.RunMitigationRule(fn, nil, classify.SingleRead, diag.Code("JG9000"), diag.SevInfo, bag)
	assert.Empty(t, bag.Items())
}

func TestRunMitigationRule_ReportsOncePerStatement(t *testing.T) {
	r := newRunner()
	fn := fnOver(awaitedCall("writeTxn"), call("doWork"))

	bag := diag.NewBag()
	r.RunMitigationRule(fn, nil, classify.Write, diag.CodeWriteNeedsYield, diag.SevWarning, bag)
	r.RunMitigationRule(fn, nil, classify.Write, diag.CodeWriteNeedsYield, diag.SevWarning, bag)
	assert.Len(t, bag.Items(), 1)
}

func TestRunMitigationRule_ReturnStatementsAreLeftToReturnAwaitRule(t *testing.T) {
	r := newRunner()
	fn := fnOver(&lang.Return{Result: &lang.Await{X: &lang.Call{Callee: &lang.Ident{Name: "writeTxn"}}}})

	bag := diag.NewBag()
	r.RunMitigationRule(fn, nil, classify.Write, diag.CodeWriteNeedsYield, diag.SevWarning, bag)
	assert.Empty(t, bag.Items())
}

func TestRunMitigationRule_SnippetRecordsAnchorText(t *testing.T) {
	src := []byte("await writeTxn();\ndoWork();")
	write := awaitedCall("writeTxn")
	write.Loc = lang.NewSpan(0, 17)
	next := call("doWork")
	next.Loc = lang.NewSpan(18, 27)
	fn := &lang.Function{Body: &lang.Block{Stmts: []lang.Stmt{write, next}}, Loc: lang.NewSpan(0, 27)}

	bag := diag.NewBag()
	newRunner().RunMitigationRule(fn, src, classify.Write, diag.CodeWriteNeedsYield, diag.SevWarning, bag)
	require.Len(t, bag.Items(), 1)
	assert.Equal(t, "await writeTxn();", bag.Items()[0].Snippet)
}

func TestRunReturnAwaitRule(t *testing.T) {
	r := newRunner()

	t.Run("flags awaited write", func(t *testing.T) {
		fn := fnOver(&lang.Return{Result: &lang.Await{X: &lang.Call{Callee: &lang.Ident{Name: "writeTxn"}}}})
		bag := diag.NewBag()
		r.RunReturnAwaitRule(fn, nil, diag.CodeReturnAwaitWrite, diag.SevWarning, bag)
		require.Len(t, bag.Items(), 1)
		assert.True(t, strings.Contains(bag.Items()[0].Message, "writeTxn"))
	})

	t.Run("ignores awaited read", func(t *testing.T) {
		fn := fnOver(&lang.Return{Result: &lang.Await{X: &lang.Call{Callee: &lang.Ident{Name: "findAll"}}}})
		bag := diag.NewBag()
		r.RunReturnAwaitRule(fn, nil, diag.CodeReturnAwaitWrite, diag.SevWarning, bag)
		assert.Empty(t, bag.Items())
	})

	t.Run("ignores non-awaited return", func(t *testing.T) {
		fn := fnOver(&lang.Return{Result: &lang.Call{Callee: &lang.Ident{Name: "writeTxn"}}})
		bag := diag.NewBag()
		r.RunReturnAwaitRule(fn, nil, diag.CodeReturnAwaitWrite, diag.SevWarning, bag)
		assert.Empty(t, bag.Items())
	})
}

func TestSuccessorVerdict(t *testing.T) {
	m := DefaultMitigations()
	stmts := []lang.Stmt{call("write"), call("yieldToUI")}

	assert.Equal(t, Safe, SuccessorVerdict(stmts, 0, classify.Write, m))
	assert.Equal(t, Unsafe, SuccessorVerdict(stmts, 1, classify.Write, m))
	assert.Equal(t, NotApplicable, SuccessorVerdict(stmts, 0, classify.SingleRead, m))
	assert.Equal(t, NotApplicable, SuccessorVerdict(stmts, 0, classify.Unclassified, m))
}

func TestRunRules_NilFunctionIsSilent(t *testing.T) {
	r := newRunner()
	bag := diag.NewBag()
	r.RunMitigationRule(nil, nil, classify.Write, diag.CodeWriteNeedsYield, diag.SevWarning, bag)
	r.RunReturnAwaitRule(&lang.Function{}, nil, diag.CodeReturnAwaitWrite, diag.SevWarning, bag)
	assert.Empty(t, bag.Items())
}
