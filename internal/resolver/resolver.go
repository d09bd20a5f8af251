// Package resolver heuristically completes import edges extracted by
// the parser with a best-guess resolved path, per language (spec
// §4.E). Resolution never touches the filesystem — it only matches
// candidate paths against the set of paths already indexed, so it
// runs entirely off data already in the store.
package resolver

import (
	"path"
	"strings"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

// unresolvedPrefix marks an edge resolver couldn't place against the
// indexed path set.
const unresolvedPrefix = "unresolved:"

// Resolve mutates a copy of each edge's Resolved field in place and
// returns the updated slice. indexedPaths is every file_path currently
// in the store, used as the existence oracle for candidate matching.
func Resolve(edges []chunk.ImportEdge, indexedPaths []string, sourceRoot string) []chunk.ImportEdge {
	index := make(map[string]bool, len(indexedPaths))
	for _, p := range indexedPaths {
		index[p] = true
	}

	out := make([]chunk.ImportEdge, len(edges))
	for i, e := range edges {
		out[i] = e
		if resolved, ok := resolveOne(e, index, sourceRoot); ok {
			out[i].Resolved = resolved
		} else {
			out[i].Resolved = unresolvedPrefix + e.Specifier
		}
	}
	return out
}

func resolveOne(e chunk.ImportEdge, index map[string]bool, sourceRoot string) (string, bool) {
	switch e.Language {
	case "rust":
		return resolveRust(e, index)
	case "typescript", "tsx", "javascript":
		return resolveJSLike(e, index)
	case "python":
		return resolvePython(e, index, sourceRoot)
	case "go":
		return resolveGo(e, index)
	case "java":
		return resolveJava(e, index, sourceRoot)
	case "c", "cpp":
		return resolveCLike(e, index, sourceRoot)
	default:
		return "", false
	}
}

func dirOf(p string) string {
	d := path.Dir(p)
	if d == "." {
		return ""
	}
	return d
}

func joinClean(parts ...string) string {
	return path.Clean(path.Join(parts...))
}

// resolveRust handles crate::, self::, and super:: specifiers, trying
// both the direct module file and its directory's mod.rs, then
// progressively shorter prefixes (the item named may live inside a
// parent module rather than being a module itself).
func resolveRust(e chunk.ImportEdge, index map[string]bool) (string, bool) {
	spec := e.Specifier
	var base string
	var segs []string

	switch {
	case strings.HasPrefix(spec, "crate::"):
		base = "src"
		segs = strings.Split(strings.TrimPrefix(spec, "crate::"), "::")
	case strings.HasPrefix(spec, "self::"):
		base = dirOf(e.SourceFile)
		segs = strings.Split(strings.TrimPrefix(spec, "self::"), "::")
	case strings.HasPrefix(spec, "super::"):
		base = dirOf(dirOf(e.SourceFile))
		segs = strings.Split(strings.TrimPrefix(spec, "super::"), "::")
	default:
		base = "src"
		segs = strings.Split(spec, "::")
	}

	for len(segs) > 0 {
		rel := strings.Join(segs, "/")
		if hit := joinClean(base, rel+".rs"); index[hit] {
			return hit, true
		}
		if hit := joinClean(base, rel, "mod.rs"); index[hit] {
			return hit, true
		}
		segs = segs[:len(segs)-1]
	}
	return "", false
}

var jsExtensions = []string{"", ".ts", ".tsx", ".js", ".jsx", ".mjs"}

// resolveJSLike only resolves relative (dot-prefixed) specifiers;
// bare-specifier imports name a package, not a file in this tree.
func resolveJSLike(e chunk.ImportEdge, index map[string]bool) (string, bool) {
	if !strings.HasPrefix(e.Specifier, ".") {
		return "", false
	}
	base := joinClean(dirOf(e.SourceFile), e.Specifier)

	for _, ext := range jsExtensions {
		if hit := base + ext; index[hit] {
			return hit, true
		}
	}
	for _, ext := range jsExtensions {
		if hit := joinClean(base, "index"+ext); index[hit] {
			return hit, true
		}
	}
	return "", false
}

// resolvePython treats leading dots as relative-import depth (n dots
// = n-1 parent hops); everything else is resolved against sourceRoot.
func resolvePython(e chunk.ImportEdge, index map[string]bool, sourceRoot string) (string, bool) {
	spec := e.Specifier
	var base string

	if strings.HasPrefix(spec, ".") {
		dots := 0
		for dots < len(spec) && spec[dots] == '.' {
			dots++
		}
		rest := spec[dots:]
		dir := dirOf(e.SourceFile)
		for i := 1; i < dots; i++ {
			dir = dirOf(dir)
		}
		base = joinClean(dir, strings.ReplaceAll(rest, ".", "/"))
	} else {
		base = joinClean(sourceRoot, strings.ReplaceAll(spec, ".", "/"))
	}

	if hit := base + ".py"; index[hit] {
		return hit, true
	}
	if hit := joinClean(base, "__init__.py"); index[hit] {
		return hit, true
	}
	return "", false
}

// resolveGo has no local module path to compute from the specifier
// alone, so it matches the imported package's last path segment
// against the parent directory name of any indexed .go file.
func resolveGo(e chunk.ImportEdge, index map[string]bool) (string, bool) {
	segs := strings.Split(e.Specifier, "/")
	want := segs[len(segs)-1]

	for p := range index {
		if !strings.HasSuffix(p, ".go") {
			continue
		}
		if path.Base(dirOf(p)) == want {
			return dirOf(p), true
		}
	}
	return "", false
}

// resolveJava converts package-dotted specifiers to slash paths and
// tries a direct match, then the conventional Maven/Gradle source root.
func resolveJava(e chunk.ImportEdge, index map[string]bool, sourceRoot string) (string, bool) {
	rel := strings.ReplaceAll(e.Specifier, ".", "/") + ".java"

	if index[rel] {
		return rel, true
	}
	if hit := joinClean(sourceRoot, "src/main/java", rel); index[hit] {
		return hit, true
	}
	return "", false
}

var cSearchDirs = []string{"include", "src", "lib"}

// resolveCLike tries a direct match, then relative to the including
// file, then each conventional search directory.
func resolveCLike(e chunk.ImportEdge, index map[string]bool, sourceRoot string) (string, bool) {
	if index[e.Specifier] {
		return e.Specifier, true
	}
	if hit := joinClean(dirOf(e.SourceFile), e.Specifier); index[hit] {
		return hit, true
	}
	for _, dir := range cSearchDirs {
		if hit := joinClean(sourceRoot, dir, e.Specifier); index[hit] {
			return hit, true
		}
	}
	return "", false
}
