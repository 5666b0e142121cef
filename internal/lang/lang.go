// Package lang defines the typed node model the analysis pipeline runs over.
// The frontend lowers a tree-sitter CST into this closed set of variants;
// anything outside the set becomes Opaque and is carried through untouched.
package lang

// Node is the common interface of every statement and expression variant.
type Node interface {
	Span() Span
}

// Stmt is implemented by all statement variants.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by all expression variants.
type Expr interface {
	Node
	exprNode()
}

// HasReceiver is implemented by the expression variants that carry a
// receiver, so the classifier can walk a chained call without knowing
// every variant.
type HasReceiver interface {
	Expr
	Receiver() Expr
}

type NodeBase struct {
	Loc Span
}

func (b NodeBase) Span() Span { return b.Loc }

// Statements

// Block is a braced statement list.
type Block struct {
	NodeBase
	Stmts []Stmt
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	NodeBase
	X Expr
}

// VarDecl is a single-binding variable declaration (let/const/var). Only the
// first declarator of a multi-declarator statement is modeled; the rest do
// not affect adjacency analysis.
type VarDecl struct {
	NodeBase
	Name string
	Init Expr // nil when declared without initializer
}

// Return is a return statement with an optional result.
type Return struct {
	NodeBase
	Result Expr
}

// Throw is a throw statement.
type Throw struct {
	NodeBase
	Value Expr
}

// If is an if statement. Else is nil, a *Block, or another *If for
// else-if chains.
type If struct {
	NodeBase
	Then Stmt
	Else Stmt
}

// For covers for, for-in and for-of loops; only the body matters here.
type For struct {
	NodeBase
	Body Stmt
}

// While covers while and do-while loops.
type While struct {
	NodeBase
	Body Stmt
}

// Try is a try statement with optional catch and finally blocks.
type Try struct {
	NodeBase
	Body    *Block
	Catch   *Block
	Finally *Block
}

// Opaque is a statement the frontend could not shape. It still occupies a
// slot in its containing list so adjacency stays faithful to the source.
type Opaque struct {
	NodeBase
}

func (*Block) stmtNode()    {}
func (*ExprStmt) stmtNode() {}
func (*VarDecl) stmtNode()  {}
func (*Return) stmtNode()   {}
func (*Throw) stmtNode()    {}
func (*If) stmtNode()       {}
func (*For) stmtNode()      {}
func (*While) stmtNode()    {}
func (*Try) stmtNode()      {}
func (*Opaque) stmtNode()   {}

// Expressions

// Call is a call expression. Arguments are not modeled; classification only
// looks at the callee shape.
type Call struct {
	NodeBase
	Callee Expr
}

// Await wraps an awaited expression.
type Await struct {
	NodeBase
	X Expr
}

// Ident is a bare identifier.
type Ident struct {
	NodeBase
	Name string
}

// Member is a property access on an object expression.
type Member struct {
	NodeBase
	Object   Expr
	Property string
}

// OpaqueExpr is an expression outside the modeled set.
type OpaqueExpr struct {
	NodeBase
}

func (*Call) exprNode()       {}
func (*Await) exprNode()      {}
func (*Ident) exprNode()      {}
func (*Member) exprNode()     {}
func (*OpaqueExpr) exprNode() {}

func (m *Member) Receiver() Expr { return m.Object }

// Function is one function or method body handed to the pipeline. Anonymous
// functions have an empty name.
type Function struct {
	Name string
	Body *Block
	Loc  Span
}

func (f *Function) Span() Span { return f.Loc }

// NewSpan is a constructor helper for frontends and tests.
func NewSpan(start, end uint32) Span { return Span{Start: start, End: end} }

// At attaches a span to a node under construction. Tests that build trees by
// hand use it; the frontend sets Loc directly.
func At(s Span) NodeBase { return NodeBase{Loc: s} }

// CalleeName returns the bare name a call is made under: the identifier
// itself, or the property for a member call. Empty when the callee has
// neither shape.
func CalleeName(c *Call) string {
	switch callee := c.Callee.(type) {
	case *Ident:
		return callee.Name
	case *Member:
		return callee.Property
	default:
		return ""
	}
}

// CallOf unwraps a statement down to the call it executes, looking through
// await wrappers. It returns nil when the statement does not execute a call
// directly.
func CallOf(s Stmt) *Call {
	switch stmt := s.(type) {
	case *ExprStmt:
		return callExpr(stmt.X)
	case *VarDecl:
		return callExpr(stmt.Init)
	case *Return:
		return callExpr(stmt.Result)
	default:
		return nil
	}
}

func callExpr(e Expr) *Call {
	switch expr := e.(type) {
	case *Call:
		return expr
	case *Await:
		return callExpr(expr.X)
	default:
		return nil
	}
}

// IsAwaited reports whether the statement's executed call sits under an
// await wrapper.
func IsAwaited(s Stmt) bool {
	switch stmt := s.(type) {
	case *ExprStmt:
		_, ok := stmt.X.(*Await)
		return ok
	case *VarDecl:
		_, ok := stmt.Init.(*Await)
		return ok
	case *Return:
		_, ok := stmt.Result.(*Await)
		return ok
	default:
		return false
	}
}
