// Package main rewrites enumer output so parse errors are built with
// cockroachdb/errors instead of fmt.Errorf.
package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/ast/astutil"
)

const (
	errorsImport    = "github.com/cockroachdb/errors"
	filePermissions = 0o644
)

// ErrUsage indicates incorrect usage of the tool.
var ErrUsage = errors.New("usage: enumerfix <file>...")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(files []string) error {
	if len(files) == 0 {
		return ErrUsage
	}

	for _, name := range files {
		if err := fixFile(name); err != nil {
			return errors.Wrapf(err, "fixing %s", name)
		}
	}

	return nil
}

func fixFile(name string) error {
	src, err := os.ReadFile(name) //nolint:gosec // G304: path comes from go:generate
	if err != nil {
		return errors.Wrap(err, "reading file")
	}

	fixed, changed, err := rewrite(name, src)
	if err != nil || !changed {
		return err
	}

	if err := os.WriteFile(name, fixed, filePermissions); err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// rewrite swaps every fmt.Errorf call for errors.Newf and fixes the imports.
// changed is false when the source had no fmt.Errorf call.
func rewrite(name string, src []byte) (out []byte, changed bool, err error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, name, src, parser.ParseComments)
	if err != nil {
		return nil, false, errors.Wrap(err, "parsing source")
	}

	ast.Inspect(file, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != "Errorf" {
			return true
		}

		if pkg, ok := sel.X.(*ast.Ident); ok && pkg.Name == "fmt" {
			pkg.Name = "errors"
			sel.Sel.Name = "Newf"
			changed = true
		}

		return true
	})

	if !changed {
		return src, false, nil
	}

	astutil.AddImport(fset, file, errorsImport)

	if !astutil.UsesImport(file, "fmt") {
		astutil.DeleteImport(fset, file, "fmt")
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, false, errors.Wrap(err, "formatting source")
	}

	return buf.Bytes(), true, nil
}
