package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreprocessFTSStripsConversationalPrefix(t *testing.T) {
	require.Equal(t, "parseChunks implementation", PreprocessFTS("can you help me find parseChunks implementation"))
}

func TestPreprocessFTSDropsStopwordsKeepsCodeTokens(t *testing.T) {
	out := PreprocessFTS("how does the parse_file function work")
	require.Equal(t, "parse_file function work", out)
}

func TestPreprocessFTSPreservesQuotedPhrase(t *testing.T) {
	out := PreprocessFTS(`find the "exact error message" in logs`)
	require.Contains(t, out, `"exact error message"`)
}

func TestIsCodeLikeTokenRecognizesIdentifierShapes(t *testing.T) {
	require.True(t, isCodeLikeToken("parse_file"))
	require.True(t, isCodeLikeToken("chunk.go"))
	require.True(t, isCodeLikeToken("foo::bar"))
	require.True(t, isCodeLikeToken("src/main.rs"))
	require.True(t, isCodeLikeToken("ENOENT"))
	require.False(t, isCodeLikeToken("hello"))
	require.False(t, isCodeLikeToken("a"))
}

func TestLooksLikeCodeQueryRulesOutQuestions(t *testing.T) {
	require.False(t, looksLikeCodeQuery("how does authentication work in this service"))
}

func TestLooksLikeCodeQueryDetectsIdentifiers(t *testing.T) {
	require.True(t, looksLikeCodeQuery("parse_file error handling"))
}

func TestLooksLikeCodeQueryShortQueryDefaultsTrue(t *testing.T) {
	require.True(t, looksLikeCodeQuery("ParseImports"))
}
