// Package noabruptexit reports process exits that skip deferred calls.
package noabruptexit

import (
	"go/ast"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports calls to os.Exit and log.Fatal* made in a function of
// package main that also defers calls. Such an exit leaves the deferred
// cleanup (closing the storage, flushing the logger) unrun.
var Analyzer = &analysis.Analyzer{
	Name: "noabruptexit",
	Doc:  "prohibits os.Exit and log.Fatal in main package functions that defer calls",
	Run:  run,
}

var exitFuncs = map[string]map[string]bool{
	"os":  {"Exit": true},
	"log": {"Fatal": true, "Fatalf": true, "Fatalln": true},
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		// Exclude go-build cache files
		filename := pass.Fset.File(file.Pos()).Name()
		if isGoBuildCacheFile(filename) {
			continue
		}

		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Body == nil {
				continue
			}
			checkBody(pass, fn.Body, fn.Name.Name)
		}
	}

	return nil, nil
}

// checkBody inspects one function body. Function literals are checked
// on their own, their defers do not count for the enclosing function.
func checkBody(pass *analysis.Pass, body *ast.BlockStmt, funcName string) {
	hasDefer := false
	var exits []*ast.CallExpr

	ast.Inspect(body, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.FuncLit:
			checkBody(pass, node.Body, "a function literal")
			return false
		case *ast.DeferStmt:
			hasDefer = true
		case *ast.CallExpr:
			if exitName(pass, node) != "" {
				exits = append(exits, node)
			}
		}
		return true
	})

	if !hasDefer {
		return
	}
	for _, call := range exits {
		pass.Reportf(call.Pos(), "%s skips the deferred calls of %s", exitName(pass, call), funcName)
	}
}

func exitName(pass *analysis.Pass, call *ast.CallExpr) string {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return ""
	}

	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return ""
	}

	if !exitFuncs[fn.Pkg().Path()][fn.Name()] {
		return ""
	}

	return fn.Pkg().Path() + "." + fn.Name()
}

func isGoBuildCacheFile(path string) bool {
	path = filepath.ToSlash(path)
	return strings.Contains(path, "/go-build/") || strings.Contains(path, `\go-build\`)
}
