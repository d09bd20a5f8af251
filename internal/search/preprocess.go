package search

import (
	"fmt"
	"regexp"
	"strings"
)

// conversationalPrefixes are stripped from the start of a query before
// it reaches the FTS5 leg; longest-match-first so "can you help me
// find " isn't left with a dangling "find ".
var conversationalPrefixes = []string{
	"can you help me find ", "could you help me find ",
	"please help me find ", "help me find ",
	"can you help me ", "could you help me ", "please help me ", "help me ",
	"can you show me ", "could you show me ",
	"i would like to know ", "i'd like to know ",
	"i want to know ", "i need to know ", "i want to find ", "i need to find ",
	"can you find ", "could you find ", "can you ", "could you ", "please ",
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "in": {}, "on": {}, "to": {}, "for": {},
	"and": {}, "or": {}, "is": {}, "are": {}, "be": {}, "with": {}, "that": {},
	"this": {}, "it": {}, "how": {}, "does": {}, "do": {}, "what": {}, "where": {},
	"when": {}, "why": {}, "which": {}, "find": {}, "show": {}, "me": {},
	"about": {}, "my": {}, "i": {}, "you": {},
}

var quotedPhrase = regexp.MustCompile(`"[^"]*"`)

// PreprocessFTS cleans a natural-language query for the FTS5 leg: strips
// a conversational prefix, drops stopwords, and leaves quoted phrases
// and code-like identifiers untouched. The semantic leg uses the query
// as-is and never calls this.
func PreprocessFTS(query string) string {
	q := strings.TrimSpace(query)
	lower := strings.ToLower(q)
	for _, p := range conversationalPrefixes {
		if strings.HasPrefix(lower, p) {
			q = strings.TrimSpace(q[len(p):])
			break
		}
	}

	var phrases []string
	placeholder := quotedPhrase.ReplaceAllStringFunc(q, func(m string) string {
		phrases = append(phrases, m)
		return fmt.Sprintf("\x00%d\x00", len(phrases)-1)
	})

	var kept []string
	for _, tok := range strings.Fields(placeholder) {
		switch {
		case strings.HasPrefix(tok, "\x00"):
			kept = append(kept, tok)
		case isCodeLikeToken(tok):
			kept = append(kept, tok)
		default:
			if _, stop := stopwords[strings.ToLower(strings.Trim(tok, ".,!?;:"))]; !stop {
				kept = append(kept, tok)
			}
		}
	}

	result := strings.Join(kept, " ")
	for i, phrase := range phrases {
		result = strings.Replace(result, fmt.Sprintf("\x00%d\x00", i), phrase, 1)
	}
	return result
}

// isCodeLikeToken matches the spec's definition of a code-like
// identifier: contains an underscore, dot, "::", or slash, or is all
// upper-case with length >= 2.
func isCodeLikeToken(tok string) bool {
	if strings.ContainsAny(tok, "_./") || strings.Contains(tok, "::") {
		return true
	}
	upper := strings.ToUpper(tok)
	return len(tok) >= 2 && tok == upper && upper != strings.ToLower(tok)
}

var naturalLanguageStarter = regexp.MustCompile(`(?i)^(how|what|where|why|when|which|can|does|do|is|are|should|explain|describe|show|tell|list)\b`)

// looksLikeCodeQuery decides whether a query "looks like a code query"
// for doc demotion: a leading question/command word rules it out; any
// code-like token rules it in; otherwise a short query (<=2 words, the
// typical shape of a bare identifier or file name) defaults to code-like.
func looksLikeCodeQuery(query string) bool {
	trimmed := strings.TrimSpace(query)
	if naturalLanguageStarter.MatchString(trimmed) {
		return false
	}
	fields := strings.Fields(trimmed)
	for _, tok := range fields {
		if isCodeLikeToken(tok) {
			return true
		}
	}
	return len(fields) <= 2
}
