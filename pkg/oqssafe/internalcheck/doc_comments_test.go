package internalcheck

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const secretBufferType = "*" + libraryRoot + "/internal/secret.Buffer"

// keyPackages hold the types callers handle directly.
var keyPackages = map[string]bool{
	libraryRoot + "/kem":       true,
	libraryRoot + "/sig":       true,
	libraryRoot + "/handshake": true,
	libraryRoot + "/encoding":  true,
}

func TestExportedKeyAPIDocumented(t *testing.T) {
	pkgs := loadLibrary(t, packages.NeedSyntax|packages.NeedTypes|packages.NeedTypesInfo)

	var findings []string
	for _, pkg := range pkgs {
		if !keyPackages[pkg.PkgPath] {
			continue
		}
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || !fn.Name.IsExported() {
					continue
				}
				pos := pkg.Fset.Position(fn.Pos())
				if fn.Doc == nil {
					findings = append(findings, fmt.Sprintf("%s: %s has no doc comment", pos, fn.Name.Name))
					continue
				}
				if returnsAliasedSecret(pkg.TypesInfo, fn) && !strings.Contains(fn.Doc.Text(), "runtime.KeepAlive") {
					findings = append(findings, fmt.Sprintf("%s: %s returns protected memory; document keeping the owner reachable", pos, fn.Name.Name))
				}
			}
		}
	}

	if len(findings) > 0 {
		t.Fatalf("documentation policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

// returnsAliasedSecret reports whether fn is a method returning []byte on a
// type that keeps its contents in a secret buffer.
func returnsAliasedSecret(info *types.Info, fn *ast.FuncDecl) bool {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return false
	}
	obj, ok := info.Defs[fn.Name].(*types.Func)
	if !ok {
		return false
	}
	sig := obj.Type().(*types.Signature)
	if sig.Results().Len() != 1 || !isByteSlice(sig.Results().At(0).Type()) {
		return false
	}

	recv := sig.Recv().Type()
	if ptr, ok := recv.(*types.Pointer); ok {
		recv = ptr.Elem()
	}
	st, ok := recv.Underlying().(*types.Struct)
	if !ok {
		return false
	}
	for i := 0; i < st.NumFields(); i++ {
		if st.Field(i).Type().String() == secretBufferType {
			return true
		}
	}
	return false
}
