package parse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"jankguard/internal/lang"
)

// lowerBlock maps a statement_block onto a lang.Block. Statements outside
// the modeled set lower to Opaque so list positions stay faithful.
func lowerBlock(node *sitter.Node, src []byte) *lang.Block {
	block := &lang.Block{NodeBase: lang.At(spanOf(node))}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		block.Stmts = append(block.Stmts, lowerStmt(child, src))
	}
	return block
}

func lowerStmt(node *sitter.Node, src []byte) lang.Stmt {
	at := lang.At(spanOf(node))

	switch node.Type() {
	case "statement_block":
		return lowerBlock(node, src)

	case "expression_statement":
		if expr := firstNamedChild(node); expr != nil {
			return &lang.ExprStmt{NodeBase: at, X: lowerExpr(expr, src)}
		}
		return &lang.Opaque{NodeBase: at}

	case "lexical_declaration", "variable_declaration":
		return lowerVarDecl(node, src, at)

	case "return_statement":
		ret := &lang.Return{NodeBase: at}
		if expr := firstNamedChild(node); expr != nil {
			ret.Result = lowerExpr(expr, src)
		}
		return ret

	case "throw_statement":
		thr := &lang.Throw{NodeBase: at}
		if expr := firstNamedChild(node); expr != nil {
			thr.Value = lowerExpr(expr, src)
		}
		return thr

	case "if_statement":
		stmt := &lang.If{NodeBase: at}
		if cons := node.ChildByFieldName("consequence"); cons != nil {
			stmt.Then = lowerStmt(cons, src)
		}
		if alt := node.ChildByFieldName("alternative"); alt != nil {
			// The alternative field is an else_clause wrapping the
			// actual statement.
			if inner := firstNamedChild(alt); inner != nil {
				stmt.Else = lowerStmt(inner, src)
			}
		}
		return stmt

	case "for_statement", "for_in_statement":
		stmt := &lang.For{NodeBase: at}
		if body := node.ChildByFieldName("body"); body != nil {
			stmt.Body = lowerStmt(body, src)
		}
		return stmt

	case "while_statement", "do_statement":
		stmt := &lang.While{NodeBase: at}
		if body := node.ChildByFieldName("body"); body != nil {
			stmt.Body = lowerStmt(body, src)
		}
		return stmt

	case "try_statement":
		stmt := &lang.Try{NodeBase: at}
		if body := node.ChildByFieldName("body"); body != nil {
			stmt.Body = lowerBlock(body, src)
		}
		if handler := node.ChildByFieldName("handler"); handler != nil {
			if body := handler.ChildByFieldName("body"); body != nil {
				stmt.Catch = lowerBlock(body, src)
			}
		}
		if finalizer := node.ChildByFieldName("finalizer"); finalizer != nil {
			if body := finalizer.ChildByFieldName("body"); body != nil {
				stmt.Finally = lowerBlock(body, src)
			}
		}
		return stmt

	default:
		return &lang.Opaque{NodeBase: at}
	}
}

// lowerVarDecl models the first initialized declarator of a declaration
// statement; adjacency analysis only cares about the call it may execute.
func lowerVarDecl(node *sitter.Node, src []byte, at lang.NodeBase) lang.Stmt {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		decl := &lang.VarDecl{NodeBase: at}
		if name := child.ChildByFieldName("name"); name != nil {
			decl.Name = name.Content(src)
		}
		if value := child.ChildByFieldName("value"); value != nil {
			decl.Init = lowerExpr(value, src)
		}
		return decl
	}
	return &lang.Opaque{NodeBase: at}
}

func lowerExpr(node *sitter.Node, src []byte) lang.Expr {
	at := lang.At(spanOf(node))

	switch node.Type() {
	case "await_expression":
		expr := &lang.Await{NodeBase: at}
		if inner := firstNamedChild(node); inner != nil {
			expr.X = lowerExpr(inner, src)
		}
		return expr

	case "call_expression":
		expr := &lang.Call{NodeBase: at}
		if callee := node.ChildByFieldName("function"); callee != nil {
			expr.Callee = lowerExpr(callee, src)
		} else {
			expr.Callee = &lang.OpaqueExpr{NodeBase: at}
		}
		return expr

	case "member_expression":
		expr := &lang.Member{NodeBase: at}
		if object := node.ChildByFieldName("object"); object != nil {
			expr.Object = lowerExpr(object, src)
		} else {
			expr.Object = &lang.OpaqueExpr{NodeBase: at}
		}
		if property := node.ChildByFieldName("property"); property != nil {
			expr.Property = property.Content(src)
		}
		return expr

	case "identifier", "property_identifier", "this":
		return &lang.Ident{NodeBase: at, Name: node.Content(src)}

	case "parenthesized_expression", "non_null_expression", "as_expression":
		if inner := firstNamedChild(node); inner != nil {
			return lowerExpr(inner, src)
		}
		return &lang.OpaqueExpr{NodeBase: at}

	default:
		return &lang.OpaqueExpr{NodeBase: at}
	}
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "comment" {
			return child
		}
	}
	return nil
}
