package chunk

// ImportEdge is a raw or resolved import relationship extracted by the
// parser and completed by the import resolver.
type ImportEdge struct {
	SourceFile string
	Specifier  string
	Resolved   string
	Language   string
}

// FileCoupling is an unordered pair of files that change together,
// canonicalized so FileA < FileB.
type FileCoupling struct {
	FileA        string
	FileB        string
	Score        float64
	CoChanges    int
	LastCoChange int64
}
