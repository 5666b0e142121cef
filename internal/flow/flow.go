// Package flow linearizes a function body for adjacency analysis. The walk
// visits every significant statement exactly once, in source order, and
// descends into control-flow wrappers without visiting the wrappers
// themselves, so "what immediately follows a statement" is answered within
// the innermost enclosing block instead of being cut off at a try or if
// boundary.
package flow

import "jankguard/internal/lang"

// Visitor is invoked once per significant statement with the containing
// statement list and the statement's index in it, which is enough context to
// inspect the immediate successor.
type Visitor func(stmts []lang.Stmt, i int)

// Walk linearizes body and feeds every significant statement to visit.
// A nil body is a structural mismatch and yields no visits.
func Walk(body *lang.Block, visit Visitor) {
	if body == nil {
		return
	}
	walkList(body.Stmts, visit)
}

func walkList(stmts []lang.Stmt, visit Visitor) {
	for i, s := range stmts {
		switch stmt := s.(type) {
		case *lang.Try:
			walkBlock(stmt.Body, visit)
			walkBlock(stmt.Catch, visit)
			walkBlock(stmt.Finally, visit)
		case *lang.If:
			walkArm(stmt.Then, visit)
			walkArm(stmt.Else, visit)
		case *lang.For:
			walkArm(stmt.Body, visit)
		case *lang.While:
			walkArm(stmt.Body, visit)
		case *lang.Block:
			// A bare nested block is transparent like any other wrapper.
			walkList(stmt.Stmts, visit)
		default:
			visit(stmts, i)
		}
	}
}

func walkBlock(b *lang.Block, visit Visitor) {
	if b == nil {
		return
	}
	walkList(b.Stmts, visit)
}

// walkArm descends into a wrapper arm. Block arms are flattened; an else-if
// chain is another wrapper and is descended in turn. Any other single,
// braceless statement is opaque: it has no siblings to check adjacency
// against, so it is neither visited nor descended into.
func walkArm(s lang.Stmt, visit Visitor) {
	switch arm := s.(type) {
	case *lang.Block:
		walkList(arm.Stmts, visit)
	case *lang.If:
		walkArm(arm.Then, visit)
		walkArm(arm.Else, visit)
	case nil:
	}
}
