package analyze

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/embedder"
	"github.com/bobbinhq/bobbin/internal/storage"
)

func newRefsAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	db := storage.NewTestDB(t)
	store := storage.New(db, 384)

	chunks := []chunk.Chunk{
		{
			ID: "def1", FilePath: "auth.go", ChunkType: chunk.TypeFunction, Name: "ValidateToken",
			StartLine: 10, EndLine: 20,
			Content:   "func ValidateToken(tok string) bool {\n\treturn len(tok) > 0\n}",
			Language:  "go", ContentHash: "h1",
		},
		{
			ID: "use1", FilePath: "handler.go", ChunkType: chunk.TypeFunction, Name: "Handle",
			StartLine: 30, EndLine: 35,
			Content:   "func Handle(tok string) {\n\tif ValidateToken(tok) {\n\t\treturn\n\t}\n}",
			Language:  "go", ContentHash: "h2",
		},
		{
			ID: "unrelated1", FilePath: "other.go", ChunkType: chunk.TypeFunction, Name: "Unrelated",
			StartLine: 1, EndLine: 3, Content: "func Unrelated() {}",
			Language: "go", ContentHash: "h3",
		},
	}
	embeds := []chunk.Embedding{unitVector(0), unitVector(1), unitVector(2)}
	require.NoError(t, store.InsertChunks("", chunks, embeds, "2026-07-30T00:00:00Z"))

	return New(store, embedder.NewMockProvider(384))
}

func TestFindDefinitionExactNameMatch(t *testing.T) {
	a := newRefsAnalyzer(t)

	def, err := a.FindDefinition("ValidateToken", "", "")
	require.NoError(t, err)
	require.NotNil(t, def)
	require.Equal(t, "auth.go", def.FilePath)
	require.Equal(t, "func ValidateToken(tok string) bool {", def.Signature)
}

func TestFindDefinitionFilteredByTypeExcludesMismatch(t *testing.T) {
	a := newRefsAnalyzer(t)

	def, err := a.FindDefinition("ValidateToken", "class", "")
	require.NoError(t, err)
	require.Nil(t, def)
}

func TestFindDefinitionUnknownNameReturnsNil(t *testing.T) {
	a := newRefsAnalyzer(t)

	def, err := a.FindDefinition("DoesNotExist", "", "")
	require.NoError(t, err)
	require.Nil(t, def)
}

func TestFindRefsExcludesDefinitionAndReturnsUsageLine(t *testing.T) {
	a := newRefsAnalyzer(t)

	refs, err := a.FindRefs("ValidateToken", "", 10, "")
	require.NoError(t, err)
	require.NotNil(t, refs.Definition)
	require.Equal(t, "auth.go", refs.Definition.FilePath)

	require.Len(t, refs.Usages, 1)
	require.Equal(t, "handler.go", refs.Usages[0].FilePath)
	require.Equal(t, 31, refs.Usages[0].Line)
	require.Contains(t, refs.Usages[0].Context, "ValidateToken")
}

func TestFindRefsRespectsLimit(t *testing.T) {
	a := newRefsAnalyzer(t)

	refs, err := a.FindRefs("ValidateToken", "", 0, "")
	require.NoError(t, err)
	require.LessOrEqual(t, len(refs.Usages), 10) // zero limit falls back to the default
}
