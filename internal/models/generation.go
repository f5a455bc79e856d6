package models

// GeneratedImplementation is the emitted Extract method of one declaration
type GeneratedImplementation struct {
	TypeName string
	File     string
	Line     int
	Strategy GenerationStrategy
	Source   string // method plus assertions, unformatted
}

// GeneratedFile is the complete output for one package
type GeneratedFile struct {
	PackageName     string
	FilePath        string
	Content         []byte
	Implementations []*GeneratedImplementation
}
