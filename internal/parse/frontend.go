// Package parse is the tree-sitter frontend: it parses JavaScript and
// TypeScript sources and lowers each function body into the lang node model
// the pipeline analyzes.
package parse

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"jankguard/internal/lang"
)

// Frontend selects the tree-sitter grammar for one source dialect.
type Frontend interface {
	Name() string
	Language() *sitter.Language
}

type jsFrontend struct{}

func (jsFrontend) Name() string               { return "javascript" }
func (jsFrontend) Language() *sitter.Language { return javascript.GetLanguage() }

type tsFrontend struct{}

func (tsFrontend) Name() string               { return "typescript" }
func (tsFrontend) Language() *sitter.Language { return typescript.GetLanguage() }

type tsxFrontend struct{}

func (tsxFrontend) Name() string               { return "tsx" }
func (tsxFrontend) Language() *sitter.Language { return tsx.GetLanguage() }

// ForPath picks a frontend by file extension, or nil for unsupported files.
// Declaration files carry no executable statements and are skipped.
func ForPath(path string) Frontend {
	name := filepath.Base(path)
	if strings.HasSuffix(name, ".d.ts") || strings.HasSuffix(name, ".min.js") {
		return nil
	}
	switch filepath.Ext(name) {
	case ".js", ".mjs", ".cjs", ".jsx":
		return jsFrontend{}
	case ".ts", ".mts", ".cts":
		return tsFrontend{}
	case ".tsx":
		return tsxFrontend{}
	}
	return nil
}

// Parse parses src with the frontend's grammar and returns every function
// with a block body, lowered into the node model. Functions the grammar
// cannot shape simply do not appear; parse failure of the whole buffer is
// the only error.
func Parse(ctx context.Context, fe Frontend, src []byte) ([]lang.Function, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(fe.Language())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	var fns []lang.Function
	collectFunctions(tree.RootNode(), src, &fns)
	return fns, nil
}

// functionNodeTypes are the CST node types that introduce a function scope.
// "function" is the pre-rename spelling of "function_expression" and kept
// for older grammar revisions.
var functionNodeTypes = map[string]struct{}{
	"function_declaration":           {},
	"generator_function_declaration": {},
	"function_expression":            {},
	"function":                       {},
	"arrow_function":                 {},
	"method_definition":              {},
}

func collectFunctions(node *sitter.Node, src []byte, out *[]lang.Function) {
	if node == nil {
		return
	}

	if _, ok := functionNodeTypes[node.Type()]; ok {
		body := node.ChildByFieldName("body")
		// Expression-bodied arrows have no statement list to analyze.
		if body != nil && body.Type() == "statement_block" {
			*out = append(*out, lang.Function{
				Name: functionName(node, src),
				Body: lowerBlock(body, src),
				Loc:  spanOf(node),
			})
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectFunctions(node.NamedChild(i), src, out)
	}
}

// functionName resolves the best available name: the declaration's own name
// field, the variable a function expression is bound to, or the property key
// it is assigned under. Anonymous functions keep an empty name.
func functionName(node *sitter.Node, src []byte) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}

	parent := node.Parent()
	if parent == nil {
		return ""
	}
	switch parent.Type() {
	case "variable_declarator":
		if name := parent.ChildByFieldName("name"); name != nil {
			return name.Content(src)
		}
	case "pair":
		if key := parent.ChildByFieldName("key"); key != nil {
			return key.Content(src)
		}
	case "assignment_expression":
		if left := parent.ChildByFieldName("left"); left != nil {
			return left.Content(src)
		}
	}
	return ""
}

func spanOf(node *sitter.Node) lang.Span {
	return lang.NewSpan(node.StartByte(), node.EndByte())
}
