package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

// Test Plan:
// - DetectLanguage maps known extensions and rejects unknown ones
// - The Rust parser extracts functions, a struct, and an impl block, per
//   the add/subtract/Calculator example used elsewhere in this project
// - The Go parser distinguishes struct type_spec from interface type_spec
// - The Python parser counts both import_statement and import_from_statement
// - ExtractImports never recurses into the import node's own children
// - The fallback parser windows a long file with overlap and never
//   assigns chunks a name

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	lang, ok := DetectLanguage("src/lib.rs")
	require.True(t, ok)
	assert.Equal(t, Rust, lang)

	lang, ok = DetectLanguage("pkg/thing.go")
	require.True(t, ok)
	assert.Equal(t, Go, lang)

	_, ok = DetectLanguage("README")
	assert.False(t, ok)

	lang, ok = DetectLanguage("notes.mdx")
	require.True(t, ok)
	assert.Equal(t, Markdown, lang)
}

const rustSample = `pub struct Calculator {
    value: i32,
}

impl Calculator {
    pub fn add(&mut self, n: i32) -> i32 {
        if n > 0 {
            self.value += n;
        }
        self.value
    }

    pub fn subtract(&mut self, n: i32) -> i32 {
        self.value -= n;
        self.value
    }
}

pub fn new_calculator() -> Calculator {
    Calculator { value: 0 }
}
`

func TestASTParser_Rust_ChunksFunctionsStructAndImpl(t *testing.T) {
	t.Parallel()

	p, err := New(Rust)
	require.NoError(t, err)

	chunks, err := p.ParseFile("calc.rs", []byte(rustSample))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 5)

	var gotStruct, gotImpl, gotFn bool
	for _, c := range chunks {
		switch c.ChunkType {
		case chunk.TypeStruct:
			gotStruct = true
			assert.Equal(t, "Calculator", c.Name)
		case chunk.TypeImpl:
			gotImpl = true
		case chunk.TypeFunction:
			gotFn = true
		}
	}
	assert.True(t, gotStruct, "expected a struct chunk")
	assert.True(t, gotImpl, "expected an impl chunk")
	assert.True(t, gotFn, "expected at least one function chunk")
}

const goSample = `package sample

type Point struct {
	X, Y int
}

type Shape interface {
	Area() float64
}

func (p Point) Area() float64 {
	if p.X > 0 && p.Y > 0 {
		return float64(p.X * p.Y)
	}
	return 0
}
`

func TestASTParser_Go_ClassifiesTypeSpecByUnderlyingKind(t *testing.T) {
	t.Parallel()

	p, err := New(Go)
	require.NoError(t, err)

	chunks, err := p.ParseFile("sample.go", []byte(goSample))
	require.NoError(t, err)

	var sawStruct, sawInterface, sawMethod bool
	for _, c := range chunks {
		switch {
		case c.ChunkType == chunk.TypeStruct && c.Name == "Point":
			sawStruct = true
		case c.ChunkType == chunk.TypeInterface && c.Name == "Shape":
			sawInterface = true
		case c.ChunkType == chunk.TypeMethod && c.Name == "Area":
			sawMethod = true
		}
	}
	assert.True(t, sawStruct, "expected Point classified as struct")
	assert.True(t, sawInterface, "expected Shape classified as interface")
	assert.True(t, sawMethod, "expected Area classified as method")
}

const pySample = `import os
from collections import OrderedDict

def combine(a, b):
    if a and b:
        return a + b
    return a or b
`

func TestASTParser_Python_ExtractsBothImportForms(t *testing.T) {
	t.Parallel()

	p, err := New(Python)
	require.NoError(t, err)

	edges, err := p.ExtractImports("sample.py", []byte(pySample))
	require.NoError(t, err)
	require.Len(t, edges, 2)

	specifiers := []string{edges[0].Specifier, edges[1].Specifier}
	assert.Contains(t, specifiers, "os")
	assert.Contains(t, specifiers, "collections")
}

func TestFallbackParser_WindowsWithOverlapAndNoName(t *testing.T) {
	t.Parallel()

	lines := make([]byte, 0)
	for i := 0; i < 150; i++ {
		lines = append(lines, []byte("line\n")...)
	}

	p := NewFallbackParser()
	chunks, err := p.ParseFile("data.proto", lines)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	for _, c := range chunks {
		assert.Equal(t, chunk.TypeOther, c.ChunkType)
		assert.Empty(t, c.Name)
	}
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Less(t, chunks[1].StartLine, chunks[0].EndLine, "second window should overlap the first")
}
