package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

func TestResolveRustCrateSpecifier(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "src/lib.rs", Specifier: "crate::parser::tokenize", Language: "rust"},
	}
	indexed := []string{"src/parser.rs"}

	out := Resolve(edges, indexed, "")
	require.Equal(t, "src/parser.rs", out[0].Resolved)
}

func TestResolveRustModRs(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "src/lib.rs", Specifier: "crate::parser::ast::Node", Language: "rust"},
	}
	indexed := []string{"src/parser/ast/mod.rs"}

	out := Resolve(edges, indexed, "")
	require.Equal(t, "src/parser/ast/mod.rs", out[0].Resolved)
}

func TestResolveRustSelfAndSuper(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "src/parser/mod.rs", Specifier: "self::ast", Language: "rust"},
		{SourceFile: "src/parser/ast/node.rs", Specifier: "super::lexer", Language: "rust"},
	}
	indexed := []string{"src/parser/ast.rs", "src/parser/lexer.rs"}

	out := Resolve(edges, indexed, "")
	require.Equal(t, "src/parser/ast.rs", out[0].Resolved)
	require.Equal(t, "src/parser/lexer.rs", out[1].Resolved)
}

func TestResolveTypeScriptRelativeImport(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "src/index.ts", Specifier: "./util", Language: "typescript"},
	}
	indexed := []string{"src/util.ts"}

	out := Resolve(edges, indexed, "")
	require.Equal(t, "src/util.ts", out[0].Resolved)
}

func TestResolveTypeScriptRelativeIndexImport(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "src/index.ts", Specifier: "./components", Language: "typescript"},
	}
	indexed := []string{"src/components/index.tsx"}

	out := Resolve(edges, indexed, "")
	require.Equal(t, "src/components/index.tsx", out[0].Resolved)
}

func TestResolveTypeScriptBareSpecifierIsUnresolved(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "src/index.ts", Specifier: "react", Language: "typescript"},
	}

	out := Resolve(edges, nil, "")
	require.Equal(t, "unresolved:react", out[0].Resolved)
}

func TestResolvePythonRelativeImport(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "pkg/sub/mod.py", Specifier: "..util", Language: "python"},
	}
	indexed := []string{"pkg/util.py"}

	out := Resolve(edges, indexed, "")
	require.Equal(t, "pkg/util.py", out[0].Resolved)
}

func TestResolvePythonAbsoluteImport(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "pkg/sub/mod.py", Specifier: "pkg.helpers", Language: "python"},
	}
	indexed := []string{"pkg/helpers/__init__.py"}

	out := Resolve(edges, indexed, "")
	require.Equal(t, "pkg/helpers/__init__.py", out[0].Resolved)
}

func TestResolveGoMatchesPackageDirectory(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "cmd/main.go", Specifier: "github.com/bobbinhq/bobbin/internal/chunk", Language: "go"},
	}
	indexed := []string{"internal/chunk/chunk.go", "internal/chunk/model.go"}

	out := Resolve(edges, indexed, "")
	require.Equal(t, "internal/chunk", out[0].Resolved)
}

func TestResolveJavaDirectAndSourceRoot(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "App.java", Specifier: "com.example.util.Helper", Language: "java"},
	}
	indexed := []string{"src/main/java/com/example/util/Helper.java"}

	out := Resolve(edges, indexed, "")
	require.Equal(t, "src/main/java/com/example/util/Helper.java", out[0].Resolved)
}

func TestResolveCLikeSearchDirs(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "src/main.c", Specifier: "widget.h", Language: "c"},
	}
	indexed := []string{"include/widget.h"}

	out := Resolve(edges, indexed, "")
	require.Equal(t, "include/widget.h", out[0].Resolved)
}

func TestResolveCLikeRelativeToSource(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "src/widgets/button.cpp", Specifier: "button.h", Language: "cpp"},
	}
	indexed := []string{"src/widgets/button.h"}

	out := Resolve(edges, indexed, "")
	require.Equal(t, "src/widgets/button.h", out[0].Resolved)
}

func TestResolveUnknownLanguageIsUnresolved(t *testing.T) {
	edges := []chunk.ImportEdge{
		{SourceFile: "README.md", Specifier: "./other.md", Language: "markdown"},
	}

	out := Resolve(edges, nil, "")
	require.Equal(t, "unresolved:./other.md", out[0].Resolved)
}
