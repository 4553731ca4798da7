package stdlib_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Non-stdlib imports the engine package may use.
var engineImports = map[string]bool{
	"github.com/edwingeng/deque":          true,
	"github.com/zeebo/blake3":             true,
	"github.com/comalice/lsystemx/affine": true,
}

func TestEngineImportBoundary(t *testing.T) {
	checkImports(t, "..", engineImports)
}

func TestAffineIsStdlibOnly(t *testing.T) {
	checkImports(t, filepath.Join("..", "affine"), nil)
}

func checkImports(t *testing.T, dir string, allowed map[string]bool) {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		t.Fatalf("glob %s: %v", dir, err)
	}
	if len(files) == 0 {
		t.Fatalf("no Go files in %s", dir)
	}

	fset := token.NewFileSet()
	for _, path := range files {
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		src, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		f, err := parser.ParseFile(fset, path, src, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse %s: %v", path, err)
		}
		for _, imp := range f.Imports {
			p, _ := strconv.Unquote(imp.Path.Value)
			first, _, _ := strings.Cut(p, "/")
			if !strings.Contains(first, ".") {
				continue // stdlib
			}
			if !allowed[p] {
				t.Errorf("%s imports %s", path, p)
			}
		}
	}
}
